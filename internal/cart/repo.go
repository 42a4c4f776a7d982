package cart

import (
	"context"
	"errors"

	"github.com/takuma-ones/ec-app/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes cart persistence. Every user has at most one cart row;
// FindOrCreateByUser materializes it lazily.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repo bound to the provided GORM DB.
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
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.created_at ASC")
		}).
		Preload("Items.Product").
		Preload("Items.Product.Images")
}

// FindOrCreateByUser loads the user's cart, creating an empty one on first
// use.
func (r *Repository) FindOrCreateByUser(ctx context.Context, userID int) (*models.Cart, error) {
	var cart models.Cart
	err := r.preloaded(ctx).Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = models.Cart{UserID: userID}
	if err := r.db.WithContext(ctx).Create(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// FindItem loads one cart line by cart and product.
func (r *Repository) FindItem(ctx context.Context, cartID, productID int) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateItem inserts a new cart line.
func (r *Repository) CreateItem(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// UpdateItemQuantity sets the quantity on an existing cart line.
func (r *Repository) UpdateItemQuantity(ctx context.Context, itemID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity).Error
}

// DeleteItem removes one cart line by cart and product.
func (r *Repository) DeleteItem(ctx context.Context, cartID, productID int) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&models.CartItem{}).Error
}

// ClearItems removes every line from the cart.
func (r *Repository) ClearItems(ctx context.Context, cartID int) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItem{}).Error
}
