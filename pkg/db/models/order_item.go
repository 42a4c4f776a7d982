package models

import "time"

// OrderItem snapshots a cart line at purchase time. Price is the unit price
// captured when the order was created, immune to later product edits.
type OrderItem struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID   int       `gorm:"column:order_id;not null;index"`
	ProductID int       `gorm:"column:product_id;not null"`
	Quantity  int       `gorm:"column:quantity;not null"`
	Price     int       `gorm:"column:price;not null"`
	Product   Product   `gorm:"foreignKey:ProductID"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (OrderItem) TableName() string { return "order_items" }
