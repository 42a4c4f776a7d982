package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/takuma-ones/ec-app/internal/cart"
	"github.com/takuma-ones/ec-app/internal/products"
	"github.com/takuma-ones/ec-app/pkg/db/models"
	"github.com/takuma-ones/ec-app/pkg/enums"
	pkgerrors "github.com/takuma-ones/ec-app/pkg/errors"
	"github.com/takuma-ones/ec-app/pkg/pagination"
	"gorm.io/gorm"
)

// Service converts carts into orders and serves order history.
type Service interface {
	CreateFromCart(ctx context.Context, userID int, req CreateOrderRequest) (*OrderDTO, error)
	List(ctx context.Context, userID int) ([]OrderDTO, error)
	Get(ctx context.Context, userID, orderID int) (*OrderDTO, error)

	AdminList(ctx context.Context, params pagination.Params) ([]AdminOrderDTO, error)
	AdminGet(ctx context.Context, orderID int) (*AdminOrderDTO, error)
	UpdateStatus(ctx context.Context, orderID int, req UpdateStatusRequest) (*AdminOrderDTO, error)
}

// OrderRepository defines the persistence surface required by the service.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id int) (*models.Order, error)
	FindByIDAndUser(ctx context.Context, id, userID int) (*models.Order, error)
	ListByUser(ctx context.Context, userID int) ([]models.Order, error)
	List(ctx context.Context, params pagination.Params) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id int, status enums.OrderStatus) error
}

type cartLoader interface {
	FindOrCreateByUser(ctx context.Context, userID int) (*models.Cart, error)
	ClearItems(ctx context.Context, cartID int) error
}

type stockAdjuster interface {
	DecrementStock(ctx context.Context, productID, quantity int) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Orders advance PAID -> SHIPPED -> DELIVERED; cancellation is only possible
// before shipment.
var statusTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPaid:    {enums.OrderStatusShipped, enums.OrderStatusCancelled},
	enums.OrderStatusShipped: {enums.OrderStatusDelivered},
}

type service struct {
	repo     OrderRepository
	carts    cartLoader
	products stockAdjuster
	tx       txRunner
}

// NewService constructs an orders service backed by the provided stack.
func NewService(repo OrderRepository, carts cartLoader, products stockAdjuster, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart loader is required")
	}
	if products == nil {
		return nil, fmt.Errorf("stock adjuster is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	return &service{repo: repo, carts: carts, products: products, tx: tx}, nil
}

// CreateFromCart snapshots the user's cart into a PAID order and clears the
// cart, all in one transaction. An empty cart cannot be checked out.
func (s *service) CreateFromCart(ctx context.Context, userID int, req CreateOrderRequest) (*OrderDTO, error) {
	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user ID must be positive")
	}
	address := strings.TrimSpace(req.ShippingAddress)
	if address == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address is required")
	}

	var created *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		carts := cartsInTx(s.carts, tx)
		products := stockInTx(s.products, tx)
		repo := ordersInTx(s.repo, tx)

		cart, err := carts.FindOrCreateByUser(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
		}
		if len(cart.Items) == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
		}

		subtotal := 0
		items := make([]models.OrderItem, 0, len(cart.Items))
		for _, line := range cart.Items {
			if err := products.DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock")
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reserve stock")
			}
			subtotal += line.Quantity * line.Product.Price
			items = append(items, models.OrderItem{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Price:     line.Product.Price,
			})
		}

		order := &models.Order{
			UserID:          userID,
			TotalAmount:     subtotal,
			Status:          enums.OrderStatusPaid,
			ShippingAddress: address,
			Items:           items,
		}
		if created, err = repo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
		}

		if err := carts.ClearItems(ctx, cart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
		}
		return nil
	})
	if err != nil {
		if coded := pkgerrors.As(err); coded != nil {
			return nil, coded
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checkout")
	}

	return s.Get(ctx, userID, created.ID)
}

func (s *service) List(ctx context.Context, userID int) ([]OrderDTO, error) {
	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user ID must be positive")
	}
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, userID, orderID int) (*OrderDTO, error) {
	if userID <= 0 || orderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user and order IDs must be positive")
	}
	order, err := s.repo.FindByIDAndUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup order")
	}
	return FromModel(order), nil
}

func (s *service) AdminList(ctx context.Context, params pagination.Params) ([]AdminOrderDTO, error) {
	rows, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	out := make([]AdminOrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *AdminFromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) AdminGet(ctx context.Context, orderID int) (*AdminOrderDTO, error) {
	if orderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order ID must be positive")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup order")
	}
	return AdminFromModel(order), nil
}

func (s *service) UpdateStatus(ctx context.Context, orderID int, req UpdateStatusRequest) (*AdminOrderDTO, error) {
	target, err := enums.ParseOrderStatus(req.Status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}

	current, err := s.AdminGet(ctx, orderID)
	if err != nil {
		return nil, err
	}

	from, err := enums.ParseOrderStatus(current.Status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parse stored status")
	}
	if !transitionAllowed(from, target) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %s to %s", from, target))
	}

	if err := s.repo.UpdateStatus(ctx, orderID, target); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status")
	}
	return s.AdminGet(ctx, orderID)
}

func transitionAllowed(from, to enums.OrderStatus) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// The tx rebinding helpers let concrete repos join the checkout transaction
// while test stubs pass through unchanged.

func ordersInTx(repo OrderRepository, tx *gorm.DB) OrderRepository {
	type txAware interface {
		WithTx(tx *gorm.DB) *Repository
	}
	if aware, ok := repo.(txAware); ok {
		return aware.WithTx(tx)
	}
	return repo
}

func cartsInTx(carts cartLoader, tx *gorm.DB) cartLoader {
	if aware, ok := carts.(*cart.Repository); ok {
		return aware.WithTx(tx)
	}
	return carts
}

func stockInTx(adjuster stockAdjuster, tx *gorm.DB) stockAdjuster {
	if aware, ok := adjuster.(*products.Repository); ok {
		return aware.WithTx(tx)
	}
	return adjuster
}
