package products

import (
	"sort"
	"time"

	"github.com/takuma-ones/ec-app/pkg/db/models"
)

// ImageDTO is one entry in the ordered image list. Order comes from
// SortOrder, never from URL string position.
type ImageDTO struct {
	URL       string `json:"url"`
	SortOrder int    `json:"sortOrder"`
}

// ProductDTO is the storefront view of a catalog entry.
type ProductDTO struct {
	ID          int        `json:"id"`
	SKU         string     `json:"sku"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       int        `json:"price"`
	Stock       int        `json:"stock"`
	Images      []ImageDTO `json:"images"`
	Categories  []string   `json:"categories"`
}

// AdminProductDTO extends the storefront view with console-only fields.
type AdminProductDTO struct {
	ProductDTO
	IsPublished bool      `json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ImageInput is a single image in a create/update request.
type ImageInput struct {
	URL       string `json:"url" validate:"required,url,max=255"`
	SortOrder int    `json:"sortOrder" validate:"min=0"`
}

// CreateProductInput carries a new catalog entry.
type CreateProductInput struct {
	SKU         string       `json:"sku" validate:"required,max=255"`
	Name        string       `json:"name" validate:"required,max=255"`
	Description string       `json:"description"`
	Price       int          `json:"price" validate:"min=0"`
	Stock       int          `json:"stock" validate:"min=0"`
	IsPublished bool         `json:"isPublished"`
	Images      []ImageInput `json:"images" validate:"dive"`
	CategoryIDs []int        `json:"categoryIds"`
}

// UpdateProductInput carries a full replacement of an existing entry.
type UpdateProductInput struct {
	Name        string       `json:"name" validate:"required,max=255"`
	Description string       `json:"description"`
	Price       int          `json:"price" validate:"min=0"`
	Stock       int          `json:"stock" validate:"min=0"`
	IsPublished bool         `json:"isPublished"`
	Images      []ImageInput `json:"images" validate:"dive"`
	CategoryIDs []int        `json:"categoryIds"`
}

// FromModel maps a persisted product onto the storefront shape. Images come
// back sorted by SortOrder ascending.
func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	images := make([]ImageDTO, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, ImageDTO{URL: img.ImageURL, SortOrder: img.SortOrder})
	}
	sort.Slice(images, func(i, j int) bool { return images[i].SortOrder < images[j].SortOrder })

	categories := make([]string, 0, len(p.Categories))
	for _, pc := range p.Categories {
		if pc.Category.Name != "" && !pc.Category.IsDeleted {
			categories = append(categories, pc.Category.Name)
		}
	}
	sort.Strings(categories)

	return &ProductDTO{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Images:      images,
		Categories:  categories,
	}
}

// AdminFromModel maps a persisted product onto the console shape.
func AdminFromModel(p *models.Product) *AdminProductDTO {
	if p == nil {
		return nil
	}
	return &AdminProductDTO{
		ProductDTO:  *FromModel(p),
		IsPublished: p.IsPublished,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
