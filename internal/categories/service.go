package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/takuma-ones/ec-app/pkg/db/models"
	pkgerrors "github.com/takuma-ones/ec-app/pkg/errors"
	"gorm.io/gorm"
)

// Service exposes category browsing and console management.
type Service interface {
	List(ctx context.Context) ([]CategoryDTO, error)
	Get(ctx context.Context, id int) (*CategoryDTO, error)
	Create(ctx context.Context, name string) (*CategoryDTO, error)
	Rename(ctx context.Context, id int, name string) (*CategoryDTO, error)
	Delete(ctx context.Context, id int) error
}

type categoryRepository interface {
	Create(ctx context.Context, category *models.Category) (*models.Category, error)
	FindByID(ctx context.Context, id int) (*models.Category, error)
	FindByName(ctx context.Context, name string) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	UpdateName(ctx context.Context, id int, name string) error
	SoftDelete(ctx context.Context, id int) error
}

type service struct {
	repo categoryRepository
}

// NewService constructs a categories service.
func NewService(repo categoryRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("categories repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	out := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id int) (*CategoryDTO, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category ID must be positive")
	}
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup category")
	}
	return FromModel(category), nil
}

func (s *service) Create(ctx context.Context, name string) (*CategoryDTO, error) {
	trimmed, err := s.validateName(ctx, name, 0)
	if err != nil {
		return nil, err
	}
	category, err := s.repo.Create(ctx, &models.Category{Name: trimmed})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create category")
	}
	return FromModel(category), nil
}

func (s *service) Rename(ctx context.Context, id int, name string) (*CategoryDTO, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	trimmed, err := s.validateName(ctx, name, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateName(ctx, id, trimmed); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rename category")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id int) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete category")
	}
	return nil
}

// validateName trims and uniqueness-checks a category name. selfID skips the
// row being renamed.
func (s *service) validateName(ctx context.Context, name string, selfID int) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}
	existing, err := s.repo.FindByName(ctx, trimmed)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return trimmed, nil
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup category name")
	}
	if existing.ID != selfID {
		return "", pkgerrors.New(pkgerrors.CodeConflict, "category name is already in use")
	}
	return trimmed, nil
}
