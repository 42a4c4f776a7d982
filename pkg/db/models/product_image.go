package models

import "time"

// ProductImage is one entry in a product's ordered image list.
type ProductImage struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID int       `gorm:"column:product_id;not null;index"`
	ImageURL  string    `gorm:"column:image_url;not null;size:255"`
	SortOrder int       `gorm:"column:sort_order;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ProductImage) TableName() string { return "product_images" }
