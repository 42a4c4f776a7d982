package users

import (
	"time"

	"github.com/takuma-ones/ec-app/pkg/db/models"
)

// UserDTO is the transport shape that omits credentials.
type UserDTO struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Name         string
	Email        string
	PasswordHash string
}

func (d CreateUserDTO) ToModel() *models.User {
	return &models.User{
		Name:     d.Name,
		Email:    d.Email,
		Password: d.PasswordHash,
	}
}

// FromModel maps a persisted user onto the transport shape.
func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
