// Package storefront holds the client-side session state for a storefront
// frontend: the shared cart badge counter and the checkout flow. Both are
// built on the typed API client and are safe for concurrent use from
// multiple UI components.
package storefront

import (
	"context"
	"fmt"
	"sync"

	"github.com/takuma-ones/ec-app/pkg/logger"
	api "github.com/takuma-ones/ec-app/pkg/storefront"
)

// BadgeStatus distinguishes "truly empty" from "not loaded yet" and "failed
// to load" so the UI never conflates them into a bare zero.
type BadgeStatus string

const (
	BadgeUnknown BadgeStatus = "unknown"
	BadgeLoaded  BadgeStatus = "loaded"
	BadgeErrored BadgeStatus = "errored"
)

// cartStore is the data access surface the badge needs.
type cartStore interface {
	HasCredential(ctx context.Context) bool
	GetCartQuantity(ctx context.Context) (int, error)
	AddCartItem(ctx context.Context, productID, quantity int) (*api.Cart, error)
	UpdateCartItem(ctx context.Context, productID, quantity int) (*api.Cart, error)
	RemoveCartItem(ctx context.Context, productID int) (*api.Cart, error)
}

// CartState caches the cart's aggregate item count for the whole session.
// Every mutation refreshes the cache from the server instead of patching it
// locally, and refresh completions apply in issue order: each refresh gets a
// sequence number and a completion is discarded when a later refresh has
// already applied.
type CartState struct {
	store cartStore
	logg  *logger.Logger

	mu       sync.Mutex
	seq      uint64
	applied  uint64
	quantity int
	status   BadgeStatus
}

// NewCartState builds the session badge cache. The quantity starts unknown
// until the first refresh.
func NewCartState(store cartStore, logg *logger.Logger) (*CartState, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &CartState{
		store:  store,
		logg:   logg,
		status: BadgeUnknown,
	}, nil
}

// Quantity returns the cached count. Outside the loaded state it degrades to
// zero so the badge never blocks rendering.
func (c *CartState) Quantity() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != BadgeLoaded {
		return 0
	}
	return c.quantity
}

// Status reports whether the cached quantity is trustworthy.
func (c *CartState) Status() BadgeStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Refresh fetches the aggregate quantity and replaces the cache. Without a
// credential the cache stays at zero and no request is made. Fetch failures
// are logged and mark the badge errored rather than surfacing an error.
func (c *CartState) Refresh(ctx context.Context) {
	seq := c.nextSeq()

	if !c.store.HasCredential(ctx) {
		c.apply(seq, 0, BadgeUnknown)
		return
	}

	quantity, err := c.store.GetCartQuantity(ctx)
	if err != nil {
		c.logg.Warn(c.logg.WithField(ctx, "component", "cart_badge"), "cart quantity refresh failed")
		c.apply(seq, 0, BadgeErrored)
		return
	}
	c.apply(seq, quantity, BadgeLoaded)
}

// AddItem adds a product to the remote cart and refreshes the badge. The
// returned cart is the server's post-mutation state.
func (c *CartState) AddItem(ctx context.Context, productID, quantity int) (*api.Cart, error) {
	cart, err := c.store.AddCartItem(ctx, productID, quantity)
	if err != nil {
		return nil, err
	}
	c.Refresh(ctx)
	return cart, nil
}

// UpdateItem sets a line's quantity and refreshes the badge. Zero is passed
// through to the server unchanged; removal is a distinct operation.
func (c *CartState) UpdateItem(ctx context.Context, productID, quantity int) (*api.Cart, error) {
	cart, err := c.store.UpdateCartItem(ctx, productID, quantity)
	if err != nil {
		return nil, err
	}
	c.Refresh(ctx)
	return cart, nil
}

// RemoveItem deletes a line and refreshes the badge.
func (c *CartState) RemoveItem(ctx context.Context, productID int) (*api.Cart, error) {
	cart, err := c.store.RemoveCartItem(ctx, productID)
	if err != nil {
		return nil, err
	}
	c.Refresh(ctx)
	return cart, nil
}

// Reset zeroes the cache synchronously with no network call, for logout. The
// sequence bump makes any in-flight refresh completion stale so a late
// response cannot resurrect the old session's count.
func (c *CartState) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.applied = c.seq
	c.quantity = 0
	c.status = BadgeUnknown
}

func (c *CartState) nextSeq() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// apply installs a refresh result unless a later refresh already completed.
func (c *CartState) apply(seq uint64, quantity int, status BadgeStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq <= c.applied {
		return
	}
	c.applied = seq
	c.quantity = quantity
	c.status = status
}
