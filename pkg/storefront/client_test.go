package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	pkgerrors "github.com/takuma-ones/ec-app/pkg/errors"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func testClient(t *testing.T, token string, rt roundTripFunc) *Client {
	t.Helper()
	opts := []Option{WithHTTPClient(&http.Client{Transport: rt})}
	if token != "" {
		opts = append(opts, WithTokenSource(StaticToken(token)))
	}
	client, err := NewClient("http://api.test", opts...)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{},
	}
}

func TestClientGetCartQuantity(t *testing.T) {
	const expectedURL = "http://api.test/user/carts/quantity"

	var capturedURL string
	var capturedAuth string
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		capturedAuth = req.Header.Get("Authorization")
		return jsonResponse(http.StatusOK, `{"data":{"totalQuantity":7}}`), nil
	})

	client := testClient(t, "token-abc", rt)
	quantity, err := client.GetCartQuantity(context.Background())
	if err != nil {
		t.Fatalf("get cart quantity: %v", err)
	}
	if quantity != 7 {
		t.Fatalf("unexpected quantity %d", quantity)
	}
	if capturedURL != expectedURL {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
	if capturedAuth != "Bearer token-abc" {
		t.Fatalf("unexpected authorization header %q", capturedAuth)
	}
}

func TestClientAuthenticatedCallWithoutCredential(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		t.Fatal("no request should be issued without a credential")
		return nil, nil
	})

	client := testClient(t, "", rt)
	if _, err := client.GetCartQuantity(context.Background()); !errors.Is(err, ErrNoCredential) {
		t.Fatalf("expected ErrNoCredential, got %v", err)
	}
	if client.HasCredential(context.Background()) {
		t.Fatal("expected HasCredential to be false")
	}
}

func TestClientAddCartItemSendsBody(t *testing.T) {
	var capturedMethod string
	var capturedPayload map[string]any
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedMethod = req.Method
		body, err := io.ReadAll(req.Body)
		if err != nil {
			t.Fatalf("read request body: %v", err)
		}
		if err := json.Unmarshal(body, &capturedPayload); err != nil {
			t.Fatalf("unmarshal request body: %v", err)
		}
		return jsonResponse(http.StatusOK, `{"data":{"id":1,"cartItems":[{"productId":3,"productName":"Tea","price":500,"quantity":2}],"totalQuantity":2,"totalPrice":1000}}`), nil
	})

	client := testClient(t, "token-abc", rt)
	cart, err := client.AddCartItem(context.Background(), 3, 2)
	if err != nil {
		t.Fatalf("add cart item: %v", err)
	}
	if capturedMethod != http.MethodPost {
		t.Fatalf("unexpected method %q", capturedMethod)
	}
	if capturedPayload["productId"] != float64(3) || capturedPayload["quantity"] != float64(2) {
		t.Fatalf("unexpected payload %+v", capturedPayload)
	}
	if cart.TotalQuantity != 2 || cart.TotalPrice != 1000 {
		t.Fatalf("unexpected cart %+v", cart)
	}
	if len(cart.Items) != 1 || cart.Items[0].ProductID != 3 {
		t.Fatalf("expected line list decoded from cartItems, got %+v", cart.Items)
	}
}

func TestClientMapsAPIErrorCodes(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusUnprocessableEntity, `{"error":{"code":"STATE_CONFLICT","message":"cart is empty"}}`), nil
	})

	client := testClient(t, "token-abc", rt)
	_, err := client.CreateOrder(context.Background(), "1-2-3 Chiyoda, Tokyo")
	if err == nil {
		t.Fatal("expected error")
	}
	apiErr := pkgerrors.As(err)
	if apiErr == nil {
		t.Fatalf("expected coded error, got %v", err)
	}
	if apiErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("unexpected code %q", apiErr.Code())
	}
}

func TestClientRejectsInvalidInputsBeforeRequest(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		t.Fatal("no request should be issued for invalid input")
		return nil, nil
	})
	client := testClient(t, "token-abc", rt)
	ctx := context.Background()

	if _, err := client.AddCartItem(ctx, 0, 1); err == nil {
		t.Fatal("expected error for zero product ID")
	}
	if _, err := client.UpdateCartItem(ctx, 3, -1); err == nil {
		t.Fatal("expected error for negative quantity")
	}
	if _, err := client.CreateOrder(ctx, ""); err == nil {
		t.Fatal("expected error for blank address")
	}
}

func TestProductMainImageURL(t *testing.T) {
	product := Product{
		Images: []ProductImage{
			{URL: "", SortOrder: 0},
			{URL: "https://img.test/b.jpg", SortOrder: 2},
			{URL: "https://img.test/a.jpg", SortOrder: 1},
		},
	}
	if got := product.MainImageURL(); got != "https://img.test/a.jpg" {
		t.Fatalf("unexpected main image %q", got)
	}

	empty := Product{Images: []ProductImage{{URL: "", SortOrder: 0}}}
	if got := empty.MainImageURL(); got != "" {
		t.Fatalf("expected empty main image, got %q", got)
	}
}
