package products

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

// Service exposes catalog browsing for the storefront and full CRUD for the
// console.
type Service interface {
	ListPublished(ctx context.Context, params pagination.Params) ([]ProductDTO, error)
	GetPublished(ctx context.Context, id int) (*ProductDTO, error)

	AdminList(ctx context.Context, params pagination.Params) ([]AdminProductDTO, error)
	AdminGet(ctx context.Context, id int) (*AdminProductDTO, error)
	Create(ctx context.Context, input CreateProductInput) (*AdminProductDTO, error)
	Update(ctx context.Context, id int, input UpdateProductInput) (*AdminProductDTO, error)
	Delete(ctx context.Context, id int) error
}

type productRepository interface {
	FindByID(ctx context.Context, id int) (*models.Product, error)
	FindPublishedByID(ctx context.Context, id int) (*models.Product, error)
	FindBySKU(ctx context.Context, sku string) (*models.Product, error)
	ListPublished(ctx context.Context, params pagination.Params) ([]models.Product, error)
	List(ctx context.Context, params pagination.Params) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	ReplaceImages(ctx context.Context, productID int, images []models.ProductImage) error
	ReplaceCategories(ctx context.Context, productID int, categoryIDs []int) error
	SoftDelete(ctx context.Context, id int) error
}

type categoryChecker interface {
	FindByID(ctx context.Context, id int) (*models.Category, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo       productRepository
	categories categoryChecker
	tx         txRunner
}

// NewService constructs a products service backed by the provided stack.
func NewService(repo productRepository, categories categoryChecker, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository is required")
	}
	if categories == nil {
		return nil, fmt.Errorf("categories repository is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	return &service{repo: repo, categories: categories, tx: tx}, nil
}

func (s *service) ListPublished(ctx context.Context, params pagination.Params) ([]ProductDTO, error) {
	rows, err := s.repo.ListPublished(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) GetPublished(ctx context.Context, id int) (*ProductDTO, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product ID must be positive")
	}
	product, err := s.repo.FindPublishedByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
	}
	return FromModel(product), nil
}

func (s *service) AdminList(ctx context.Context, params pagination.Params) ([]AdminProductDTO, error) {
	rows, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	out := make([]AdminProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *AdminFromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) AdminGet(ctx context.Context, id int) (*AdminProductDTO, error) {
	product, err := s.findActive(ctx, id)
	if err != nil {
		return nil, err
	}
	return AdminFromModel(product), nil
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (*AdminProductDTO, error) {
	sku := strings.TrimSpace(input.SKU)
	name := strings.TrimSpace(input.Name)
	if sku == "" || name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku and name are required")
	}
	if input.Price < 0 || input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price and stock must be non-negative")
	}
	images, err := normalizeImages(input.Images)
	if err != nil {
		return nil, err
	}
	if err := s.checkCategories(ctx, input.CategoryIDs); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindBySKU(ctx, sku); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku is already in use")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup sku")
	}

	product := &models.Product{
		SKU:         sku,
		Name:        name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		IsPublished: input.IsPublished,
		Images:      images,
	}
	for _, categoryID := range input.CategoryIDs {
		product.Categories = append(product.Categories, models.ProductCategory{CategoryID: categoryID})
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return s.AdminGet(ctx, created.ID)
}

func (s *service) Update(ctx context.Context, id int, input UpdateProductInput) (*AdminProductDTO, error) {
	product, err := s.findActive(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Price < 0 || input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price and stock must be non-negative")
	}
	images, err := normalizeImages(input.Images)
	if err != nil {
		return nil, err
	}
	if err := s.checkCategories(ctx, input.CategoryIDs); err != nil {
		return nil, err
	}

	product.Name = name
	product.Description = input.Description
	product.Price = input.Price
	product.Stock = input.Stock
	product.IsPublished = input.IsPublished

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := repoInTx(s.repo, tx)
		if err := repo.Update(ctx, product); err != nil {
			return err
		}
		if err := repo.ReplaceImages(ctx, id, images); err != nil {
			return err
		}
		return repo.ReplaceCategories(ctx, id, input.CategoryIDs)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}
	return s.AdminGet(ctx, id)
}

func (s *service) Delete(ctx context.Context, id int) error {
	if _, err := s.findActive(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	return nil
}

func (s *service) findActive(ctx context.Context, id int) (*models.Product, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product ID must be positive")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
	}
	return product, nil
}

func (s *service) checkCategories(ctx context.Context, categoryIDs []int) error {
	seen := make(map[int]struct{}, len(categoryIDs))
	for _, id := range categoryIDs {
		if id <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "category IDs must be positive")
		}
		if _, dup := seen[id]; dup {
			return pkgerrors.New(pkgerrors.CodeValidation, "duplicate category ID")
		}
		seen[id] = struct{}{}
		if _, err := s.categories.FindByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "unknown category ID")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup category")
		}
	}
	return nil
}

// normalizeImages validates the ordered image list. Sort orders must be
// unique so the main image is well defined.
func normalizeImages(inputs []ImageInput) ([]models.ProductImage, error) {
	seen := make(map[int]struct{}, len(inputs))
	images := make([]models.ProductImage, 0, len(inputs))
	for _, input := range inputs {
		url := strings.TrimSpace(input.URL)
		if url == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "image URL is required")
		}
		if input.SortOrder < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "image sort order must be non-negative")
		}
		if _, dup := seen[input.SortOrder]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate image sort order")
		}
		seen[input.SortOrder] = struct{}{}
		images = append(images, models.ProductImage{ImageURL: url, SortOrder: input.SortOrder})
	}
	return images, nil
}

// repoInTx rebinds the repository when it supports transactions. Stub repos
// in tests fall through unchanged.
func repoInTx(repo productRepository, tx *gorm.DB) productRepository {
	type txAware interface {
		WithTx(tx *gorm.DB) *Repository
	}
	if aware, ok := repo.(txAware); ok {
		return aware.WithTx(tx)
	}
	return repo
}
