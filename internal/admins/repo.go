// Package admins persists console operator accounts. Console access is
// intentionally separate from storefront users.
package admins

import (
	"context"

	"github.com/takuma-ones/ec-app/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes admin account persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an admins repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new admin account.
func (r *Repository) Create(ctx context.Context, admin *models.Admin) (*models.Admin, error) {
	if err := r.db.WithContext(ctx).Create(admin).Error; err != nil {
		return nil, err
	}
	return admin, nil
}

// FindByEmail retrieves the active admin matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.WithContext(ctx).
		Where("email = ? AND is_deleted = ?", email, false).
		First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// FindByID loads an active admin by ID.
func (r *Repository) FindByID(ctx context.Context, id int) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}
