package models

import "time"

// Product is a catalog entry. Price is the unit price in whole yen.
type Product struct {
	ID          int               `gorm:"column:id;primaryKey;autoIncrement"`
	SKU         string            `gorm:"column:sku;not null;uniqueIndex"`
	Name        string            `gorm:"column:name;not null"`
	Description string            `gorm:"column:description;type:text"`
	Price       int               `gorm:"column:price;not null"`
	Stock       int               `gorm:"column:stock;not null"`
	IsPublished bool              `gorm:"column:is_published;not null;default:true"`
	IsDeleted   bool              `gorm:"column:is_deleted;not null;default:false"`
	Images      []ProductImage    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Categories  []ProductCategory `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }

// MainImage returns the image with the lowest sort order among those with a
// non-empty URL, or nil when no image qualifies.
func (p Product) MainImage() *ProductImage {
	var main *ProductImage
	for i := range p.Images {
		img := &p.Images[i]
		if img.ImageURL == "" {
			continue
		}
		if main == nil || img.SortOrder < main.SortOrder {
			main = img
		}
	}
	return main
}
