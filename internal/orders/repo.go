package orders

import (
	"context"

	"github.com/takuma-ones/ec-app/pkg/db/models"
	"github.com/takuma-ones/ec-app/pkg/enums"
	"github.com/takuma-ones/ec-app/pkg/pagination"
	"gorm.io/gorm"
)

// Repository exposes order persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an orders repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

func (r *Repository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product")
}

// Create inserts an order with its line items.
func (r *Repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// FindByID loads one order regardless of owner.
func (r *Repository) FindByID(ctx context.Context, id int) (*models.Order, error) {
	var order models.Order
	if err := r.preloaded(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByIDAndUser loads one order restricted to its owner.
func (r *Repository) FindByIDAndUser(ctx context.Context, id, userID int) (*models.Order, error) {
	var order models.Order
	err := r.preloaded(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser returns the user's orders, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID int) ([]models.Order, error) {
	var rows []models.Order
	err := r.preloaded(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// List returns all orders for the console, newest first.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.Order, error) {
	params = params.Normalize()
	var rows []models.Order
	err := r.preloaded(ctx).
		Order("created_at DESC, id DESC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateStatus sets the order's status.
func (r *Repository) UpdateStatus(ctx context.Context, id int, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}
