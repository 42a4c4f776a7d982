package categories

import (
	"context"

	"github.com/takuma-ones/ec-app/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes category persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a categories repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new category.
func (r *Repository) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// FindByID loads an active category by ID.
func (r *Repository) FindByID(ctx context.Context, id int) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// FindByName loads an active category by its unique name.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Where("name = ? AND is_deleted = ?", name, false).
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// List returns all active categories ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	err := r.db.WithContext(ctx).
		Where("is_deleted = ?", false).
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateName renames an active category.
func (r *Repository) UpdateName(ctx context.Context, id int, name string) error {
	return r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("name", name).Error
}

// SoftDelete flags the category as deleted. Product links stay in place.
func (r *Repository) SoftDelete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("is_deleted", true).Error
}
