package cart

import "github.com/takuma-ones/ec-app/pkg/db/models"

// ItemDTO is one cart line with its current catalog data.
type ItemDTO struct {
	ProductID   int    `json:"productId"`
	ProductName string `json:"productName"`
	Price       int    `json:"price"`
	Quantity    int    `json:"quantity"`
	ImageURL    string `json:"imageUrl"`
}

// CartDTO is the full cart view. Totals are recomputed from the lines on
// every read so stale aggregates cannot leak out.
type CartDTO struct {
	ID            int       `json:"id"`
	Items         []ItemDTO `json:"cartItems"`
	TotalQuantity int       `json:"totalQuantity"`
	TotalPrice    int       `json:"totalPrice"`
}

// QuantityDTO is the lightweight badge payload.
type QuantityDTO struct {
	TotalQuantity int `json:"totalQuantity"`
}

// FromModel maps a cart with preloaded items and products onto the transport
// shape.
func FromModel(c *models.Cart) *CartDTO {
	if c == nil {
		return nil
	}
	items := make([]ItemDTO, 0, len(c.Items))
	for _, item := range c.Items {
		dto := ItemDTO{
			ProductID:   item.ProductID,
			ProductName: item.Product.Name,
			Price:       item.Product.Price,
			Quantity:    item.Quantity,
		}
		if main := item.Product.MainImage(); main != nil {
			dto.ImageURL = main.ImageURL
		}
		items = append(items, dto)
	}
	return &CartDTO{
		ID:            c.ID,
		Items:         items,
		TotalQuantity: c.TotalQuantity(),
		TotalPrice:    c.TotalPrice(),
	}
}
