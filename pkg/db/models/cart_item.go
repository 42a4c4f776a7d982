package models

import "time"

// CartItem is one product line in a cart.
type CartItem struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement"`
	CartID    int       `gorm:"column:cart_id;not null;index:idx_cart_product,unique"`
	ProductID int       `gorm:"column:product_id;not null;index:idx_cart_product,unique"`
	Quantity  int       `gorm:"column:quantity;not null"`
	Product   Product   `gorm:"foreignKey:ProductID"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (CartItem) TableName() string { return "cart_items" }
