package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/takuma-ones/ec-app/api/controllers"
	"github.com/takuma-ones/ec-app/api/middleware"
	"github.com/takuma-ones/ec-app/internal/auth"
	"github.com/takuma-ones/ec-app/internal/cart"
	"github.com/takuma-ones/ec-app/internal/categories"
	"github.com/takuma-ones/ec-app/internal/orders"
	"github.com/takuma-ones/ec-app/internal/products"
	"github.com/takuma-ones/ec-app/internal/users"
	"github.com/takuma-ones/ec-app/pkg/auth/session"
	"github.com/takuma-ones/ec-app/pkg/config"
	"github.com/takuma-ones/ec-app/pkg/db"
	"github.com/takuma-ones/ec-app/pkg/enums"
	"github.com/takuma-ones/ec-app/pkg/logger"
	"github.com/takuma-ones/ec-app/pkg/metrics"
	"github.com/takuma-ones/ec-app/pkg/redis"
)

// Deps carries everything the HTTP surface needs. Nil optional members
// degrade gracefully (probes and instrumentation are skipped).
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    redis.Pinger
	Sessions session.AccessSessionChecker
	Registry *prometheus.Registry
	Metrics  *metrics.HTTPMetrics

	AuthService     auth.Service
	UserService     users.Service
	ProductService  products.Service
	CategoryService categories.Service
	CartService     cart.Service
	OrderService    orders.Service
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(cfg.CORS),
		middleware.Logging(logg),
		middleware.Metrics(d.Metrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.DB, d.Redis))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/user", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", controllers.AuthSignUp(d.AuthService, logg))
			r.Post("/login", controllers.AuthLogin(d.AuthService, logg))
			r.With(middleware.Auth(cfg.JWT, d.Sessions, logg)).
				Post("/logout", controllers.AuthLogout(d.AuthService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(d.ProductService, logg))
			r.Get("/{productId}", controllers.ProductDetail(d.ProductService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
			r.Use(middleware.RequireRole(enums.ActorRoleUser, logg))

			r.Get("/profile", controllers.Profile(d.UserService, logg))
			r.Put("/profile", controllers.ProfileUpdate(d.UserService, logg))

			r.Route("/carts", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(d.CartService, logg))
				r.Get("/quantity", controllers.CartQuantity(d.CartService, logg))
				r.Post("/", controllers.CartAddItem(d.CartService, logg))
				r.Put("/items/{productId}", controllers.CartUpdateItem(d.CartService, logg))
				r.Delete("/items/{productId}", controllers.CartRemoveItem(d.CartService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", controllers.OrderCreate(d.OrderService, logg))
				r.Get("/", controllers.OrderList(d.OrderService, logg))
				r.Get("/{orderId}", controllers.OrderDetail(d.OrderService, logg))
			})
		})
	})

	r.Route("/admin", func(r chi.Router) {
		r.Post("/auth/login", controllers.AdminAuthLogin(d.AuthService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
			r.Use(middleware.RequireRole(enums.ActorRoleAdmin, logg))

			r.Post("/auth/logout", controllers.AuthLogout(d.AuthService, logg))

			r.Route("/users", func(r chi.Router) {
				r.Get("/", controllers.AdminUserList(d.UserService, logg))
				r.Get("/{userId}", controllers.AdminUserDetail(d.UserService, logg))
				r.Delete("/{userId}", controllers.AdminUserDelete(d.UserService, logg))
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.AdminProductList(d.ProductService, logg))
				r.Post("/", controllers.AdminProductCreate(d.ProductService, logg))
				r.Get("/{productId}", controllers.AdminProductDetail(d.ProductService, logg))
				r.Put("/{productId}", controllers.AdminProductUpdate(d.ProductService, logg))
				r.Delete("/{productId}", controllers.AdminProductDelete(d.ProductService, logg))
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", controllers.AdminCategoryList(d.CategoryService, logg))
				r.Post("/", controllers.AdminCategoryCreate(d.CategoryService, logg))
				r.Get("/{categoryId}", controllers.AdminCategoryDetail(d.CategoryService, logg))
				r.Put("/{categoryId}", controllers.AdminCategoryUpdate(d.CategoryService, logg))
				r.Delete("/{categoryId}", controllers.AdminCategoryDelete(d.CategoryService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.AdminOrderList(d.OrderService, logg))
				r.Get("/{orderId}", controllers.AdminOrderDetail(d.OrderService, logg))
				r.Put("/{orderId}/status", controllers.AdminOrderUpdateStatus(d.OrderService, logg))
			})
		})
	})

	return r
}
