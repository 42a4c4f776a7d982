package storefront

import (
	"context"
	"errors"
	"sync"
	"testing"

	pkgerrors "github.com/takuma-ones/ec-app/pkg/errors"
	api "github.com/takuma-ones/ec-app/pkg/storefront"
)

type stubCheckoutStore struct {
	mu          sync.Mutex
	cart        *api.Cart
	cartErr     error
	order       *api.Order
	orderErr    error
	orderCalls  int
	orderGate   chan struct{}
	gateEntered chan struct{}
}

func (s *stubCheckoutStore) GetCart(ctx context.Context) (*api.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart, s.cartErr
}

func (s *stubCheckoutStore) CreateOrder(ctx context.Context, shippingAddress string) (*api.Order, error) {
	s.mu.Lock()
	s.orderCalls++
	gate := s.orderGate
	entered := s.gateEntered
	order := s.order
	err := s.orderErr
	s.mu.Unlock()

	if gate != nil {
		if entered != nil {
			entered <- struct{}{}
		}
		<-gate
	}
	return order, err
}

func filledCart() *api.Cart {
	return &api.Cart{
		ID: 1,
		Items: []api.CartItem{
			{ProductID: 1, ProductName: "Green Tea", Price: 1000, Quantity: 2},
			{ProductID: 2, ProductName: "Teacup", Price: 500, Quantity: 1},
		},
		TotalQuantity: 3,
		TotalPrice:    2500,
	}
}

func newTestCheckout(t *testing.T, store *stubCheckoutStore) *Checkout {
	t.Helper()
	flow, err := NewCheckout(store, testLogger())
	if err != nil {
		t.Fatalf("new checkout: %v", err)
	}
	return flow
}

func TestLoadEmptyCartRedirects(t *testing.T) {
	store := &stubCheckoutStore{cart: &api.Cart{ID: 1}}
	flow := newTestCheckout(t, store)

	outcome, err := flow.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if outcome != OutcomeRedirectCart {
		t.Fatalf("expected redirect, got %s", outcome)
	}
	if flow.State() == CheckoutSubmitting {
		t.Fatal("empty cart must never reach submitting")
	}

	// The guard also blocks a direct submit attempt.
	if _, err := flow.Submit(context.Background(), "1-2-3 Chiyoda, Tokyo"); err == nil {
		t.Fatal("expected submit to be rejected before Ready")
	}
	if store.orderCalls != 0 {
		t.Fatalf("no order call expected, got %d", store.orderCalls)
	}
}

func TestLoadFetchFailureRedirects(t *testing.T) {
	store := &stubCheckoutStore{cartErr: errors.New("boom")}
	flow := newTestCheckout(t, store)

	outcome, err := flow.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if outcome != OutcomeRedirectCart {
		t.Fatalf("expected redirect on fetch failure, got %s", outcome)
	}
}

func TestSubmitBlankAddressStaysReadyWithoutNetwork(t *testing.T) {
	store := &stubCheckoutStore{cart: filledCart()}
	flow := newTestCheckout(t, store)
	ctx := context.Background()

	if outcome, err := flow.Load(ctx); err != nil || outcome != OutcomeProceed {
		t.Fatalf("load: outcome %v err %v", outcome, err)
	}

	_, err := flow.Submit(ctx, "   ")
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if store.orderCalls != 0 {
		t.Fatalf("no order call expected for blank address, got %d", store.orderCalls)
	}
	if flow.State() != CheckoutReady {
		t.Fatalf("expected state ready, got %s", flow.State())
	}
}

func TestSubmitFailureReturnsToReadyAndAllowsRetry(t *testing.T) {
	store := &stubCheckoutStore{cart: filledCart(), orderErr: errors.New("service down")}
	flow := newTestCheckout(t, store)
	ctx := context.Background()

	if _, err := flow.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	if _, err := flow.Submit(ctx, "1-2-3 Chiyoda, Tokyo"); err == nil {
		t.Fatal("expected submit failure")
	}
	if flow.State() != CheckoutReady {
		t.Fatalf("expected state ready after failure, got %s", flow.State())
	}
	if flow.LastError() == "" {
		t.Fatal("expected user-visible retry message")
	}

	store.mu.Lock()
	store.orderErr = nil
	store.order = &api.Order{ID: 10, TotalAmount: 2500, Status: "PAID"}
	store.mu.Unlock()

	order, err := flow.Submit(ctx, "1-2-3 Chiyoda, Tokyo")
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if order.ID != 10 {
		t.Fatalf("unexpected order %+v", order)
	}
	if flow.State() != CheckoutSucceeded {
		t.Fatalf("expected succeeded, got %s", flow.State())
	}
	if flow.LastError() != "" {
		t.Fatalf("expected cleared error, got %q", flow.LastError())
	}
}

func TestSubmitWhileSubmittingIsRejected(t *testing.T) {
	gate := make(chan struct{})
	entered := make(chan struct{})
	store := &stubCheckoutStore{
		cart:        filledCart(),
		order:       &api.Order{ID: 11},
		orderGate:   gate,
		gateEntered: entered,
	}
	flow := newTestCheckout(t, store)
	ctx := context.Background()

	if _, err := flow.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	var inflight sync.WaitGroup
	inflight.Add(1)
	go func() {
		defer inflight.Done()
		_, _ = flow.Submit(ctx, "1-2-3 Chiyoda, Tokyo")
	}()
	<-entered

	_, err := flow.Submit(ctx, "1-2-3 Chiyoda, Tokyo")
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict for double submit, got %v", err)
	}

	close(gate)
	inflight.Wait()

	if store.orderCalls != 1 {
		t.Fatalf("expected exactly one order call, got %d", store.orderCalls)
	}
}

func TestTotalsAreZeroBeforeLoad(t *testing.T) {
	store := &stubCheckoutStore{cart: filledCart()}
	flow := newTestCheckout(t, store)

	totals := flow.Totals()
	if totals != (Totals{}) {
		t.Fatalf("expected all-zero totals before load, got %+v", totals)
	}
}

func TestTotalsDeriveFromLoadedCart(t *testing.T) {
	store := &stubCheckoutStore{cart: filledCart()}
	flow := newTestCheckout(t, store)
	ctx := context.Background()

	if _, err := flow.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	totals := flow.Totals()
	if totals.Subtotal != 2500 {
		t.Fatalf("expected subtotal 2500, got %d", totals.Subtotal)
	}
	if totals.ShippingFee != 500 {
		t.Fatalf("expected shipping 500, got %d", totals.ShippingFee)
	}
	if totals.Tax != 300 {
		t.Fatalf("expected tax 300, got %d", totals.Tax)
	}
	if totals.GrandTotal != 3300 {
		t.Fatalf("expected grand total 3300, got %d", totals.GrandTotal)
	}
}
