package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/takuma-ones/ec-app/pkg/db/models"
	pkgerrors "github.com/takuma-ones/ec-app/pkg/errors"
	"github.com/takuma-ones/ec-app/pkg/pagination"
	"gorm.io/gorm"
)

// Service exposes user account operations for the console and for profile
// endpoints.
type Service interface {
	Get(ctx context.Context, id int) (*UserDTO, error)
	List(ctx context.Context, params pagination.Params) ([]UserDTO, error)
	UpdateName(ctx context.Context, id int, name string) (*UserDTO, error)
	Delete(ctx context.Context, id int) error
}

type userRepository interface {
	FindByID(ctx context.Context, id int) (*models.User, error)
	List(ctx context.Context, params pagination.Params) ([]models.User, error)
	UpdateName(ctx context.Context, id int, name string) error
	SoftDelete(ctx context.Context, id int) error
}

type service struct {
	repo userRepository
}

// NewService constructs a users service with the provided repository.
func NewService(repo userRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, id int) (*UserDTO, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user ID must be positive")
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	return FromModel(user), nil
}

func (s *service) List(ctx context.Context, params pagination.Params) ([]UserDTO, error) {
	rows, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) UpdateName(ctx context.Context, id int, name string) (*UserDTO, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateName(ctx, id, trimmed); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update user name")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id int) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete user")
	}
	return nil
}
