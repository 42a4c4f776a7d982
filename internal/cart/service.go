package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/takuma-ones/ec-app/pkg/db/models"
	pkgerrors "github.com/takuma-ones/ec-app/pkg/errors"
	"gorm.io/gorm"
)

// Service exposes the session user's cart operations. Every mutation returns
// the full refreshed cart so clients can update their caches from the
// authoritative state.
type Service interface {
	Get(ctx context.Context, userID int) (*CartDTO, error)
	GetQuantity(ctx context.Context, userID int) (*QuantityDTO, error)
	AddItem(ctx context.Context, userID, productID, quantity int) (*CartDTO, error)
	UpdateItem(ctx context.Context, userID, productID, quantity int) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, productID int) (*CartDTO, error)
}

// CartRepository defines the persistence surface required by the service.
type CartRepository interface {
	FindOrCreateByUser(ctx context.Context, userID int) (*models.Cart, error)
	FindItem(ctx context.Context, cartID, productID int) (*models.CartItem, error)
	CreateItem(ctx context.Context, item *models.CartItem) error
	UpdateItemQuantity(ctx context.Context, itemID, quantity int) error
	DeleteItem(ctx context.Context, cartID, productID int) error
}

type productLoader interface {
	FindPublishedByID(ctx context.Context, id int) (*models.Product, error)
}

type service struct {
	repo     CartRepository
	products productLoader
}

// NewService constructs a cart service backed by the provided stack.
func NewService(repo CartRepository, products productLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader is required")
	}
	return &service{repo: repo, products: products}, nil
}

func (s *service) Get(ctx context.Context, userID int) (*CartDTO, error) {
	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FromModel(cart), nil
}

func (s *service) GetQuantity(ctx context.Context, userID int) (*QuantityDTO, error) {
	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &QuantityDTO{TotalQuantity: cart.TotalQuantity()}, nil
}

// AddItem merges quantity into any existing line for the product. The merged
// quantity is bounded by current stock.
func (s *service) AddItem(ctx context.Context, userID, productID, quantity int) (*CartDTO, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindItem(ctx, cart.ID, productID)
	switch {
	case err == nil:
		merged := existing.Quantity + quantity
		if merged > product.Stock {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "requested quantity exceeds stock")
		}
		if err := s.repo.UpdateItemQuantity(ctx, existing.ID, merged); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "merge cart item")
		}

	case errors.Is(err, gorm.ErrRecordNotFound):
		if quantity > product.Stock {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "requested quantity exceeds stock")
		}
		item := &models.CartItem{CartID: cart.ID, ProductID: productID, Quantity: quantity}
		if err := s.repo.CreateItem(ctx, item); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create cart item")
		}

	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup cart item")
	}

	return s.Get(ctx, userID)
}

// UpdateItem sets an existing line to an absolute quantity. Zero is rejected;
// removal is a distinct operation.
func (s *service) UpdateItem(ctx context.Context, userID, productID, quantity int) (*CartDTO, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if quantity > product.Stock {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "requested quantity exceeds stock")
	}
	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindItem(ctx, cart.ID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product is not in the cart")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup cart item")
	}
	if err := s.repo.UpdateItemQuantity(ctx, existing.ID, quantity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart item")
	}

	return s.Get(ctx, userID)
}

// RemoveItem deletes one line. Removing a product that is not in the cart is
// a not-found error.
func (s *service) RemoveItem(ctx context.Context, userID, productID int) (*CartDTO, error) {
	if productID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product ID must be positive")
	}
	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.FindItem(ctx, cart.ID, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product is not in the cart")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup cart item")
	}
	if err := s.repo.DeleteItem(ctx, cart.ID, productID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete cart item")
	}

	return s.Get(ctx, userID)
}

func (s *service) loadCart(ctx context.Context, userID int) (*models.Cart, error) {
	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user ID must be positive")
	}
	cart, err := s.repo.FindOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	return cart, nil
}

func (s *service) loadProduct(ctx context.Context, productID int) (*models.Product, error) {
	if productID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product ID must be positive")
	}
	product, err := s.products.FindPublishedByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
	}
	return product, nil
}
