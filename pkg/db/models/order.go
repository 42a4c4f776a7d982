package models

import (
	"time"

	"github.com/takuma-ones/ec-app/pkg/enums"
)

// Order is a purchased snapshot of a cart. TotalAmount is the item subtotal
// in whole yen; shipping and tax are display derivations, never persisted.
type Order struct {
	ID              int               `gorm:"column:id;primaryKey;autoIncrement"`
	UserID          int               `gorm:"column:user_id;not null;index"`
	TotalAmount     int               `gorm:"column:total_amount;not null"`
	Status          enums.OrderStatus `gorm:"column:status;not null"`
	ShippingAddress string            `gorm:"column:shipping_address;type:text;not null"`
	Items           []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (Order) TableName() string { return "orders" }
