package models

import "time"

// Cart is the authoritative per-user cart. One row per user; items are owned
// rows deleted through explicit removal, never cascaded from product changes.
type Cart struct {
	ID        int        `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    int        `gorm:"column:user_id;not null;uniqueIndex"`
	IsDeleted bool       `gorm:"column:is_deleted;not null;default:false"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Cart) TableName() string { return "carts" }

// TotalQuantity recomputes the aggregate item count from the loaded items.
func (c Cart) TotalQuantity() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// TotalPrice recomputes the subtotal from the loaded items and their products.
func (c Cart) TotalPrice() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity * item.Product.Price
	}
	return total
}
