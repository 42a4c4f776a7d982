package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authsvc "github.com/takuma-ones/ec-app/internal/auth"
	cartsvc "github.com/takuma-ones/ec-app/internal/cart"
	categorysvc "github.com/takuma-ones/ec-app/internal/categories"
	ordersvc "github.com/takuma-ones/ec-app/internal/orders"
	productsvc "github.com/takuma-ones/ec-app/internal/products"
	usersvc "github.com/takuma-ones/ec-app/internal/users"
	pkgAuth "github.com/takuma-ones/ec-app/pkg/auth"
	"github.com/takuma-ones/ec-app/pkg/auth/session"
	"github.com/takuma-ones/ec-app/pkg/config"
	"github.com/takuma-ones/ec-app/pkg/enums"
	"github.com/takuma-ones/ec-app/pkg/logger"
	"github.com/takuma-ones/ec-app/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) SignUp(ctx context.Context, req authsvc.SignUpRequest) (*authsvc.LoginResponse, error) {
	return &authsvc.LoginResponse{}, nil
}

func (stubAuthService) Login(ctx context.Context, req authsvc.LoginRequest) (*authsvc.LoginResponse, error) {
	return &authsvc.LoginResponse{}, nil
}

func (stubAuthService) AdminLogin(ctx context.Context, req authsvc.LoginRequest) (*authsvc.AdminLoginResponse, error) {
	return &authsvc.AdminLoginResponse{}, nil
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error {
	return nil
}

type stubUserService struct{}

func (stubUserService) Get(ctx context.Context, id int) (*usersvc.UserDTO, error) {
	return &usersvc.UserDTO{ID: id}, nil
}

func (stubUserService) List(ctx context.Context, params pagination.Params) ([]usersvc.UserDTO, error) {
	return nil, nil
}

func (stubUserService) UpdateName(ctx context.Context, id int, name string) (*usersvc.UserDTO, error) {
	return &usersvc.UserDTO{ID: id, Name: name}, nil
}

func (stubUserService) Delete(ctx context.Context, id int) error {
	return nil
}

type stubProductService struct{}

func (stubProductService) ListPublished(ctx context.Context, params pagination.Params) ([]productsvc.ProductDTO, error) {
	return nil, nil
}

func (stubProductService) GetPublished(ctx context.Context, id int) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{ID: id}, nil
}

func (stubProductService) AdminList(ctx context.Context, params pagination.Params) ([]productsvc.AdminProductDTO, error) {
	return nil, nil
}

func (stubProductService) AdminGet(ctx context.Context, id int) (*productsvc.AdminProductDTO, error) {
	return nil, nil
}

func (stubProductService) Create(ctx context.Context, input productsvc.CreateProductInput) (*productsvc.AdminProductDTO, error) {
	return nil, nil
}

func (stubProductService) Update(ctx context.Context, id int, input productsvc.UpdateProductInput) (*productsvc.AdminProductDTO, error) {
	return nil, nil
}

func (stubProductService) Delete(ctx context.Context, id int) error {
	return nil
}

type stubCategoryService struct{}

func (stubCategoryService) List(ctx context.Context) ([]categorysvc.CategoryDTO, error) {
	return nil, nil
}

func (stubCategoryService) Get(ctx context.Context, id int) (*categorysvc.CategoryDTO, error) {
	return nil, nil
}

func (stubCategoryService) Create(ctx context.Context, name string) (*categorysvc.CategoryDTO, error) {
	return nil, nil
}

func (stubCategoryService) Rename(ctx context.Context, id int, name string) (*categorysvc.CategoryDTO, error) {
	return nil, nil
}

func (stubCategoryService) Delete(ctx context.Context, id int) error {
	return nil
}

type stubCartService struct{}

func (stubCartService) Get(ctx context.Context, userID int) (*cartsvc.CartDTO, error) {
	return &cartsvc.CartDTO{}, nil
}

func (stubCartService) GetQuantity(ctx context.Context, userID int) (*cartsvc.QuantityDTO, error) {
	return &cartsvc.QuantityDTO{}, nil
}

func (stubCartService) AddItem(ctx context.Context, userID, productID, quantity int) (*cartsvc.CartDTO, error) {
	return &cartsvc.CartDTO{}, nil
}

func (stubCartService) UpdateItem(ctx context.Context, userID, productID, quantity int) (*cartsvc.CartDTO, error) {
	return &cartsvc.CartDTO{}, nil
}

func (stubCartService) RemoveItem(ctx context.Context, userID, productID int) (*cartsvc.CartDTO, error) {
	return &cartsvc.CartDTO{}, nil
}

type stubOrderService struct{}

func (stubOrderService) CreateFromCart(ctx context.Context, userID int, req ordersvc.CreateOrderRequest) (*ordersvc.OrderDTO, error) {
	return &ordersvc.OrderDTO{}, nil
}

func (stubOrderService) List(ctx context.Context, userID int) ([]ordersvc.OrderDTO, error) {
	return nil, nil
}

func (stubOrderService) Get(ctx context.Context, userID, orderID int) (*ordersvc.OrderDTO, error) {
	return nil, nil
}

func (stubOrderService) AdminList(ctx context.Context, params pagination.Params) ([]ordersvc.AdminOrderDTO, error) {
	return nil, nil
}

func (stubOrderService) AdminGet(ctx context.Context, orderID int) (*ordersvc.AdminOrderDTO, error) {
	return nil, nil
}

func (stubOrderService) UpdateStatus(ctx context.Context, orderID int, req ordersvc.UpdateStatusRequest) (*ordersvc.AdminOrderDTO, error) {
	return nil, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Deps{
		Config:          cfg,
		Logger:          logg,
		DB:              stubPinger{},
		Redis:           stubPinger{},
		Sessions:        stubSessionChecker{},
		AuthService:     stubAuthService{},
		UserService:     stubUserService{},
		ProductService:  stubProductService{},
		CategoryService: stubCategoryService{},
		CartService:     stubCartService{},
		OrderService:    stubOrderService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, role enums.ActorRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		SubjectID: 7,
		Role:      role,
		JTI:       session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestProductsArePublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/user/products", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestCartGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/user/carts", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestCartGroupSucceedsWithUserJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/user/carts/quantity", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ActorRoleUser))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	nonAdmin := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	nonAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ActorRoleUser))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, nonAdmin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ActorRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestUserGroupRejectsAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/user/profile", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ActorRoleAdmin))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for admin on user route got %d", resp.Code)
	}
}
