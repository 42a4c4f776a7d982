package orders

import (
	"time"

	"github.com/takuma-ones/ec-app/pkg/db/models"
)

// ItemDTO is one purchased line with the unit price captured at checkout.
type ItemDTO struct {
	ProductID   int    `json:"productId"`
	ProductName string `json:"productName"`
	Price       int    `json:"price"`
	Quantity    int    `json:"quantity"`
}

// OrderDTO is a completed purchase. TotalAmount is the item subtotal in whole
// yen; shipping fee and tax are derived by clients at display time.
type OrderDTO struct {
	ID              int       `json:"id"`
	TotalAmount     int       `json:"totalAmount"`
	Status          string    `json:"status"`
	ShippingAddress string    `json:"shippingAddress"`
	Items           []ItemDTO `json:"items"`
	CreatedAt       time.Time `json:"createdAt"`
}

// AdminOrderDTO adds the purchaser to the console view.
type AdminOrderDTO struct {
	OrderDTO
	UserID int `json:"userId"`
}

// CreateOrderRequest is the checkout payload.
type CreateOrderRequest struct {
	ShippingAddress string `json:"shippingAddress" validate:"required"`
}

// UpdateStatusRequest is the console payload for advancing an order.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// FromModel maps a persisted order with preloaded items onto the transport
// shape.
func FromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	items := make([]ItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, ItemDTO{
			ProductID:   item.ProductID,
			ProductName: item.Product.Name,
			Price:       item.Price,
			Quantity:    item.Quantity,
		})
	}
	return &OrderDTO{
		ID:              o.ID,
		TotalAmount:     o.TotalAmount,
		Status:          o.Status.String(),
		ShippingAddress: o.ShippingAddress,
		Items:           items,
		CreatedAt:       o.CreatedAt,
	}
}

// AdminFromModel maps a persisted order onto the console shape.
func AdminFromModel(o *models.Order) *AdminOrderDTO {
	if o == nil {
		return nil
	}
	return &AdminOrderDTO{
		OrderDTO: *FromModel(o),
		UserID:   o.UserID,
	}
}
