package users

import (
	"context"

	"github.com/takuma-ones/ec-app/pkg/db/models"
	"github.com/takuma-ones/ec-app/pkg/pagination"
	"gorm.io/gorm"
)

// Repository exposes user-related persistence operations. Soft-deleted rows
// are invisible to every query here.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the active user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("email = ? AND is_deleted = ?", email, false).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads an active user by ID.
func (r *Repository) FindByID(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns active users ordered by ID.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.User, error) {
	params = params.Normalize()
	var rows []models.User
	err := r.db.WithContext(ctx).
		Where("is_deleted = ?", false).
		Order("id ASC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateName changes the display name of an active user.
func (r *Repository) UpdateName(ctx context.Context, id int, name string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("name", name).Error
}

// SoftDelete flags the user as deleted; order history stays intact.
func (r *Repository) SoftDelete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("is_deleted", true).Error
}
