package storefront

import (
	"context"
	"fmt"
	"strings"
	"sync"

	pkgerrors "github.com/takuma-ones/ec-app/pkg/errors"
	"github.com/takuma-ones/ec-app/pkg/logger"
	"github.com/takuma-ones/ec-app/pkg/pricing"
	api "github.com/takuma-ones/ec-app/pkg/storefront"
)

// CheckoutState is the flow's position in Loading -> Ready -> Submitting ->
// {Succeeded, Failed}. A failed submission lands back in Ready so the user
// can retry; Failed is never a dead end.
type CheckoutState string

const (
	CheckoutLoading    CheckoutState = "loading"
	CheckoutReady      CheckoutState = "ready"
	CheckoutSubmitting CheckoutState = "submitting"
	CheckoutSucceeded  CheckoutState = "succeeded"
)

// LoadOutcome tells the caller where to go after loading the cart.
type LoadOutcome string

const (
	// OutcomeProceed means the cart has items and checkout may continue.
	OutcomeProceed LoadOutcome = "proceed"
	// OutcomeRedirectCart means the cart is empty; an empty cart cannot
	// check out, so the flow terminates by sending the user back to the
	// cart view. This is a guard, not a failure.
	OutcomeRedirectCart LoadOutcome = "redirect_cart"
)

// checkoutStore is the data access surface the flow needs.
type checkoutStore interface {
	GetCart(ctx context.Context) (*api.Cart, error)
	CreateOrder(ctx context.Context, shippingAddress string) (*api.Order, error)
}

// Totals is the order summary shown on the confirmation step, derived from
// the loaded cart with the pricing policy.
type Totals struct {
	Subtotal    int `json:"subtotal"`
	ShippingFee int `json:"shippingFee"`
	Tax         int `json:"tax"`
	GrandTotal  int `json:"grandTotal"`
}

// Checkout drives one checkout attempt for the session cart.
type Checkout struct {
	store checkoutStore
	logg  *logger.Logger

	mu      sync.Mutex
	state   CheckoutState
	cart    *api.Cart
	order   *api.Order
	lastErr string
}

// NewCheckout builds a checkout flow starting in Loading.
func NewCheckout(store checkoutStore, logg *logger.Logger) (*Checkout, error) {
	if store == nil {
		return nil, fmt.Errorf("checkout store is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Checkout{
		store: store,
		logg:  logg,
		state: CheckoutLoading,
	}, nil
}

// State returns the flow's current position.
func (c *Checkout) State() CheckoutState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Cart returns the cart loaded for this attempt, nil before Load.
func (c *Checkout) Cart() *api.Cart {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cart
}

// Order returns the created order after a successful submit.
func (c *Checkout) Order() *api.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order
}

// LastError returns the retryable error message from the last failed submit.
func (c *Checkout) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Totals derives the display summary from the loaded cart. Before a cart is
// loaded there is nothing to price, so every figure is zero rather than the
// base shipping fee on an empty subtotal.
func (c *Checkout) Totals() Totals {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cart == nil {
		return Totals{}
	}
	subtotal := c.cart.TotalPrice
	fee := pricing.ShippingFee(subtotal)
	return Totals{
		Subtotal:    subtotal,
		ShippingFee: fee,
		Tax:         pricing.Tax(subtotal + fee),
		GrandTotal:  pricing.GrandTotal(subtotal),
	}
}

// Load fetches the cart and moves Loading -> Ready. An empty cart (or a cart
// that failed to load, which degrades to empty) terminates the flow with a
// redirect to the cart view instead of entering Ready.
func (c *Checkout) Load(ctx context.Context) (LoadOutcome, error) {
	c.mu.Lock()
	if c.state != CheckoutLoading {
		c.mu.Unlock()
		return "", pkgerrors.New(pkgerrors.CodeStateConflict, "checkout already loaded")
	}
	c.mu.Unlock()

	cart, err := c.store.GetCart(ctx)
	if err != nil {
		c.logg.Warn(c.logg.WithField(ctx, "component", "checkout"), "cart fetch failed, treating as empty")
		return OutcomeRedirectCart, nil
	}
	if len(cart.Items) == 0 {
		return OutcomeRedirectCart, nil
	}

	c.mu.Lock()
	c.cart = cart
	c.state = CheckoutReady
	c.mu.Unlock()
	return OutcomeProceed, nil
}

// Submit places the order. A blank shipping address is rejected locally with
// no network call and the state stays Ready. While a submission is in flight
// further submits are rejected, which is the double-submit guard.
func (c *Checkout) Submit(ctx context.Context, shippingAddress string) (*api.Order, error) {
	address := strings.TrimSpace(shippingAddress)

	c.mu.Lock()
	switch c.state {
	case CheckoutReady:
	case CheckoutSubmitting:
		c.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "submission already in progress")
	default:
		state := c.state
		c.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cannot submit from %s", state))
	}
	if address == "" {
		c.lastErr = "shipping address is required"
		c.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address is required")
	}
	c.state = CheckoutSubmitting
	c.lastErr = ""
	c.mu.Unlock()

	order, err := c.store.CreateOrder(ctx, address)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.logg.Warn(c.logg.WithField(ctx, "component", "checkout"), "order creation failed")
		c.state = CheckoutReady
		c.lastErr = "order could not be placed, please retry"
		return nil, err
	}

	c.state = CheckoutSucceeded
	c.order = order
	return order, nil
}
