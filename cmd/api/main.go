package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/takuma-ones/ec-app/api/routes"
	"github.com/takuma-ones/ec-app/internal/admins"
	"github.com/takuma-ones/ec-app/internal/auth"
	"github.com/takuma-ones/ec-app/internal/cart"
	"github.com/takuma-ones/ec-app/internal/categories"
	"github.com/takuma-ones/ec-app/internal/orders"
	"github.com/takuma-ones/ec-app/internal/products"
	"github.com/takuma-ones/ec-app/internal/users"
	"github.com/takuma-ones/ec-app/pkg/auth/session"
	"github.com/takuma-ones/ec-app/pkg/config"
	"github.com/takuma-ones/ec-app/pkg/db"
	"github.com/takuma-ones/ec-app/pkg/logger"
	"github.com/takuma-ones/ec-app/pkg/metrics"
	"github.com/takuma-ones/ec-app/pkg/migrate"
	"github.com/takuma-ones/ec-app/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	userRepo := users.NewRepository(dbClient.DB())
	adminRepo := admins.NewRepository(dbClient.DB())
	categoryRepo := categories.NewRepository(dbClient.DB())
	productRepo := products.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	orderRepo := orders.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		AdminRepo:      adminRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	userService, err := users.NewService(userRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}

	categoryService, err := categories.NewService(categoryRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create category service", err)
		os.Exit(1)
	}

	productService, err := products.NewService(productRepo, categoryRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cartRepo, productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orderRepo, cartRepo, productRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:          cfg,
			Logger:          logg,
			DB:              dbClient,
			Redis:           redisClient,
			Sessions:        sessionManager,
			Registry:        registry,
			Metrics:         httpMetrics,
			AuthService:     authService,
			UserService:     userService,
			ProductService:  productService,
			CategoryService: categoryService,
			CartService:     cartService,
			OrderService:    orderService,
		}),
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var closeErr error
	closeErr = multierr.Append(closeErr, server.Shutdown(shutdownCtx))
	closeErr = multierr.Append(closeErr, redisClient.Close())
	closeErr = multierr.Append(closeErr, dbClient.Close())
	if closeErr != nil {
		logg.Error(ctx, "shutdown finished with errors", closeErr)
		os.Exit(1)
	}

	logg.Info(ctx, "api server stopped")
}
