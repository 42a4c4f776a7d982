package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/takuma-ones/ec-app/api/middleware"
	cartsvc "github.com/takuma-ones/ec-app/internal/cart"
	pkgerrors "github.com/takuma-ones/ec-app/pkg/errors"
)

type stubCartService struct {
	cart     *cartsvc.CartDTO
	quantity *cartsvc.QuantityDTO
	err      error

	addedProductID int
	addedQuantity  int
	updatedQty     int
}

func (s *stubCartService) Get(ctx context.Context, userID int) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

func (s *stubCartService) GetQuantity(ctx context.Context, userID int) (*cartsvc.QuantityDTO, error) {
	return s.quantity, s.err
}

func (s *stubCartService) AddItem(ctx context.Context, userID, productID, quantity int) (*cartsvc.CartDTO, error) {
	s.addedProductID = productID
	s.addedQuantity = quantity
	return s.cart, s.err
}

func (s *stubCartService) UpdateItem(ctx context.Context, userID, productID, quantity int) (*cartsvc.CartDTO, error) {
	s.updatedQty = quantity
	return s.cart, s.err
}

func (s *stubCartService) RemoveItem(ctx context.Context, userID, productID int) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

func authedRequest(method, target string, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(middleware.WithSubjectID(req.Context(), 7))
}

func TestCartFetchSuccess(t *testing.T) {
	svc := &stubCartService{cart: &cartsvc.CartDTO{
		ID:            3,
		Items:         []cartsvc.ItemDTO{{ProductID: 9, ProductName: "Green Tea", Price: 1000, Quantity: 2}},
		TotalQuantity: 2,
		TotalPrice:    2000,
	}}
	handler := CartFetch(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/user/carts", ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	// The line list serializes under cartItems, not items.
	if _, ok := envelope.Data["cartItems"]; !ok {
		t.Fatalf("expected cartItems field, got keys %v", keysOf(envelope.Data))
	}
	var cart cartsvc.CartDTO
	raw, _ := json.Marshal(envelope.Data)
	if err := json.Unmarshal(raw, &cart); err != nil {
		t.Fatalf("unmarshal cart: %v", err)
	}
	if cart.ID != 3 || cart.TotalPrice != 2000 || len(cart.Items) != 1 {
		t.Fatalf("unexpected cart payload: %+v", cart)
	}
}

func keysOf(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func TestCartFetchRequiresSubject(t *testing.T) {
	handler := CartFetch(&stubCartService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/user/carts", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartQuantitySuccess(t *testing.T) {
	svc := &stubCartService{quantity: &cartsvc.QuantityDTO{TotalQuantity: 5}}
	handler := CartQuantity(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/user/carts/quantity", ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data cartsvc.QuantityDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.TotalQuantity != 5 {
		t.Fatalf("expected quantity 5 got %d", envelope.Data.TotalQuantity)
	}
}

func TestCartAddItemPassesBodyToService(t *testing.T) {
	svc := &stubCartService{cart: &cartsvc.CartDTO{ID: 1}}
	handler := CartAddItem(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/user/carts", `{"productId":9,"quantity":3}`))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.addedProductID != 9 || svc.addedQuantity != 3 {
		t.Fatalf("unexpected service args: product %d quantity %d", svc.addedProductID, svc.addedQuantity)
	}
}

func TestCartAddItemRejectsMissingFields(t *testing.T) {
	svc := &stubCartService{}
	handler := CartAddItem(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/user/carts", `{"quantity":3}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if svc.addedProductID != 0 {
		t.Fatal("service must not run on invalid payload")
	}
}

func TestCartUpdateItemConflictSurfacesStatus(t *testing.T) {
	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock")}

	router := chi.NewRouter()
	router.Put("/user/carts/items/{productId}", CartUpdateItem(svc, nil))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest(http.MethodPut, "/user/carts/items/4", `{"quantity":99}`))

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestCartRemoveItemRejectsBadParam(t *testing.T) {
	router := chi.NewRouter()
	router.Delete("/user/carts/items/{productId}", CartRemoveItem(&stubCartService{}, nil))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest(http.MethodDelete, "/user/carts/items/abc", ""))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
