package storefront

import (
	"context"
	"fmt"
	"net/http"
	"time"

	pkgerrors "github.com/takuma-ones/ec-app/pkg/errors"
)

// ProductImage is one entry in a product's ordered image list.
type ProductImage struct {
	URL       string `json:"url"`
	SortOrder int    `json:"sortOrder"`
}

// Product is the catalog view returned by the product endpoints.
type Product struct {
	ID          int            `json:"id"`
	SKU         string         `json:"sku"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Price       int            `json:"price"`
	Stock       int            `json:"stock"`
	Images      []ProductImage `json:"images"`
	Categories  []string       `json:"categories"`
}

// MainImageURL returns the lowest sort-order image URL, or "" when the
// product has no usable image.
func (p Product) MainImageURL() string {
	var main *ProductImage
	for i := range p.Images {
		img := &p.Images[i]
		if img.URL == "" {
			continue
		}
		if main == nil || img.SortOrder < main.SortOrder {
			main = img
		}
	}
	if main == nil {
		return ""
	}
	return main.URL
}

// CartItem is one cart line as returned by the cart endpoints.
type CartItem struct {
	ProductID   int    `json:"productId"`
	ProductName string `json:"productName"`
	Price       int    `json:"price"`
	Quantity    int    `json:"quantity"`
	ImageURL    string `json:"imageUrl"`
}

// Cart is the full cart view with server-recomputed totals.
type Cart struct {
	ID            int        `json:"id"`
	Items         []CartItem `json:"cartItems"`
	TotalQuantity int        `json:"totalQuantity"`
	TotalPrice    int        `json:"totalPrice"`
}

// CartQuantity is the lightweight badge payload.
type CartQuantity struct {
	TotalQuantity int `json:"totalQuantity"`
}

// OrderItem is one purchased line with its snapshotted unit price.
type OrderItem struct {
	ProductID   int    `json:"productId"`
	ProductName string `json:"productName"`
	Price       int    `json:"price"`
	Quantity    int    `json:"quantity"`
}

// Order is a completed purchase.
type Order struct {
	ID              int         `json:"id"`
	TotalAmount     int         `json:"totalAmount"`
	Status          string      `json:"status"`
	ShippingAddress string      `json:"shippingAddress"`
	Items           []OrderItem `json:"items"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// ListProducts fetches the published catalog. No credential is required.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.doJSON(ctx, http.MethodGet, "/user/products", nil, &products, false); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct fetches one published product by ID.
func (c *Client) GetProduct(ctx context.Context, productID int) (*Product, error) {
	if productID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product ID must be positive")
	}
	var product Product
	path := fmt.Sprintf("/user/products/%d", productID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &product, false); err != nil {
		return nil, err
	}
	return &product, nil
}

// GetCart fetches the session user's full cart.
func (c *Client) GetCart(ctx context.Context) (*Cart, error) {
	var cart Cart
	if err := c.doJSON(ctx, http.MethodGet, "/user/carts", nil, &cart, true); err != nil {
		return nil, err
	}
	return &cart, nil
}

// GetCartQuantity fetches only the aggregate item count for the badge.
func (c *Client) GetCartQuantity(ctx context.Context) (int, error) {
	var quantity CartQuantity
	if err := c.doJSON(ctx, http.MethodGet, "/user/carts/quantity", nil, &quantity, true); err != nil {
		return 0, err
	}
	return quantity.TotalQuantity, nil
}

type cartItemRequest struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

// AddCartItem adds quantity of a product to the cart, merging with any
// existing line. Returns the updated cart.
func (c *Client) AddCartItem(ctx context.Context, productID, quantity int) (*Cart, error) {
	if productID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product ID must be positive")
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	var cart Cart
	body := cartItemRequest{ProductID: productID, Quantity: quantity}
	if err := c.doJSON(ctx, http.MethodPost, "/user/carts", body, &cart, true); err != nil {
		return nil, err
	}
	return &cart, nil
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateCartItem sets the quantity of an existing cart line. Zero is not
// treated as a removal here; it is sent through and the server rejects it.
func (c *Client) UpdateCartItem(ctx context.Context, productID, quantity int) (*Cart, error) {
	if productID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product ID must be positive")
	}
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be non-negative")
	}
	var cart Cart
	body := updateQuantityRequest{Quantity: quantity}
	path := fmt.Sprintf("/user/carts/items/%d", productID)
	if err := c.doJSON(ctx, http.MethodPut, path, body, &cart, true); err != nil {
		return nil, err
	}
	return &cart, nil
}

// RemoveCartItem deletes one cart line. Returns the updated cart.
func (c *Client) RemoveCartItem(ctx context.Context, productID int) (*Cart, error) {
	if productID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product ID must be positive")
	}
	var cart Cart
	path := fmt.Sprintf("/user/carts/items/%d", productID)
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, &cart, true); err != nil {
		return nil, err
	}
	return &cart, nil
}

type createOrderRequest struct {
	ShippingAddress string `json:"shippingAddress"`
}

// CreateOrder converts the current cart into an order shipped to the given
// address. The server clears the cart in the same transaction.
func (c *Client) CreateOrder(ctx context.Context, shippingAddress string) (*Order, error) {
	if shippingAddress == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address is required")
	}
	var order Order
	body := createOrderRequest{ShippingAddress: shippingAddress}
	if err := c.doJSON(ctx, http.MethodPost, "/user/orders", body, &order, true); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders fetches the session user's order history, newest first.
func (c *Client) ListOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.doJSON(ctx, http.MethodGet, "/user/orders", nil, &orders, true); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder fetches one of the session user's orders by ID.
func (c *Client) GetOrder(ctx context.Context, orderID int) (*Order, error) {
	if orderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order ID must be positive")
	}
	var order Order
	path := fmt.Sprintf("/user/orders/%d", orderID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &order, true); err != nil {
		return nil, err
	}
	return &order, nil
}
