package storefront

import (
	"fmt"

	"github.com/takuma-ones/ec-app/pkg/config"
	"github.com/takuma-ones/ec-app/pkg/logger"
	api "github.com/takuma-ones/ec-app/pkg/storefront"
)

// Session wires one storefront session together: a configured API client,
// the shared cart badge, and a factory for checkout attempts. All components
// share the same client so a login or logout on the token source is seen by
// every surface at once.
type Session struct {
	client *api.Client
	cart   *CartState
	logg   *logger.Logger
}

// NewSession builds a session from the environment-driven client settings.
// Extra client options are forwarded, so tests can swap the HTTP transport.
func NewSession(cfg config.StorefrontConfig, tokens api.TokenSource, logg *logger.Logger, opts ...api.Option) (*Session, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}

	combined := make([]api.Option, 0, len(opts)+1)
	combined = append(combined, api.WithTokenSource(tokens))
	combined = append(combined, opts...)

	client, err := api.NewClientFromConfig(cfg, combined...)
	if err != nil {
		return nil, fmt.Errorf("build storefront client: %w", err)
	}

	cart, err := NewCartState(client, logg)
	if err != nil {
		return nil, err
	}

	return &Session{
		client: client,
		cart:   cart,
		logg:   logg,
	}, nil
}

// Cart returns the session-wide badge cache.
func (s *Session) Cart() *CartState {
	return s.cart
}

// Client exposes the underlying API client for direct catalog reads.
func (s *Session) Client() *api.Client {
	return s.client
}

// BeginCheckout starts a fresh checkout attempt over the session's client.
// Each attempt is independent; an abandoned one is simply dropped.
func (s *Session) BeginCheckout() (*Checkout, error) {
	return NewCheckout(s.client, s.logg)
}
