package products

import (
	"context"

	"github.com/takuma-ones/ec-app/pkg/db/models"
	"github.com/takuma-ones/ec-app/pkg/pagination"
	"gorm.io/gorm"
)

// Repository exposes catalog persistence. Soft-deleted products are invisible
// to every query here; published filtering is the caller's choice.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a products repo bound to the provided GORM DB.
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

func (r *Repository) base(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Images").
		Preload("Categories.Category").
		Where("is_deleted = ?", false)
}

// FindByID loads a product regardless of publication state.
func (r *Repository) FindByID(ctx context.Context, id int) (*models.Product, error) {
	var product models.Product
	if err := r.base(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindPublishedByID loads a product visible to the storefront.
func (r *Repository) FindPublishedByID(ctx context.Context, id int) (*models.Product, error) {
	var product models.Product
	err := r.base(ctx).
		Where("id = ? AND is_published = ?", id, true).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindBySKU loads a product by its unique SKU.
func (r *Repository) FindBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var product models.Product
	if err := r.base(ctx).Where("sku = ?", sku).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListPublished returns storefront-visible products ordered by ID.
func (r *Repository) ListPublished(ctx context.Context, params pagination.Params) ([]models.Product, error) {
	params = params.Normalize()
	var rows []models.Product
	err := r.base(ctx).
		Where("is_published = ?", true).
		Order("id ASC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// List returns all active products for the console, ordered by ID.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.Product, error) {
	params = params.Normalize()
	var rows []models.Product
	err := r.base(ctx).
		Order("id ASC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Create inserts a product with its images and category links.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Update saves the product's scalar columns.
func (r *Repository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND is_deleted = ?", product.ID, false).
		Updates(map[string]any{
			"name":         product.Name,
			"description":  product.Description,
			"price":        product.Price,
			"stock":        product.Stock,
			"is_published": product.IsPublished,
		}).Error
}

// ReplaceImages atomically replaces the product's ordered image list.
func (r *Repository) ReplaceImages(ctx context.Context, productID int, images []models.ProductImage) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductImage{}).Error; err != nil {
		return err
	}
	if len(images) == 0 {
		return nil
	}
	for i := range images {
		images[i].ID = 0
		images[i].ProductID = productID
	}
	return tx.Create(&images).Error
}

// ReplaceCategories atomically replaces the product's category links.
func (r *Repository) ReplaceCategories(ctx context.Context, productID int, categoryIDs []int) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductCategory{}).Error; err != nil {
		return err
	}
	if len(categoryIDs) == 0 {
		return nil
	}
	links := make([]models.ProductCategory, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		links = append(links, models.ProductCategory{ProductID: productID, CategoryID: id})
	}
	return tx.Create(&links).Error
}

// DecrementStock reduces stock by quantity, failing when the remaining stock
// would go negative. Returns gorm.ErrRecordNotFound when no row qualified.
func (r *Repository) DecrementStock(ctx context.Context, productID, quantity int) error {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND is_deleted = ? AND stock >= ?", productID, false, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SoftDelete flags the product as deleted and unpublishes it.
func (r *Repository) SoftDelete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]any{"is_deleted": true, "is_published": false}).Error
}
