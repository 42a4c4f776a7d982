package models

// ProductCategory links a product to a category.
type ProductCategory struct {
	ID         int      `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID  int      `gorm:"column:product_id;not null;index:idx_product_category,unique"`
	CategoryID int      `gorm:"column:category_id;not null;index:idx_product_category,unique"`
	Category   Category `gorm:"foreignKey:CategoryID"`
}

func (ProductCategory) TableName() string { return "product_categories" }
