package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mrbebidas/catalog-backend/api/routes"
	"github.com/mrbebidas/catalog-backend/internal/auth"
	"github.com/mrbebidas/catalog-backend/internal/cart"
	"github.com/mrbebidas/catalog-backend/internal/catalog"
	"github.com/mrbebidas/catalog-backend/internal/categories"
	checkoutsvc "github.com/mrbebidas/catalog-backend/internal/checkout"
	"github.com/mrbebidas/catalog-backend/internal/products"
	"github.com/mrbebidas/catalog-backend/internal/realtime"
	settingssvc "github.com/mrbebidas/catalog-backend/internal/settings"
	"github.com/mrbebidas/catalog-backend/internal/users"
	"github.com/mrbebidas/catalog-backend/pkg/auth/session"
	"github.com/mrbebidas/catalog-backend/pkg/config"
	"github.com/mrbebidas/catalog-backend/pkg/db"
	"github.com/mrbebidas/catalog-backend/pkg/logger"
	"github.com/mrbebidas/catalog-backend/pkg/metrics"
	"github.com/mrbebidas/catalog-backend/pkg/migrate"
	"github.com/mrbebidas/catalog-backend/pkg/outbox"
	"github.com/mrbebidas/catalog-backend/pkg/redis"
)

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(ctx, "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	catalogMetrics := metrics.NewCatalogMetrics(registry)

	hub := realtime.NewHub(redisClient, cfg.Catalog.ChangeChannel, logg, catalogMetrics)
	go func() {
		if err := hub.Run(ctx); err != nil && ctx.Err() == nil {
			logg.Error(ctx, "catalog change hub stopped", err)
		}
	}()

	notifier, err := realtime.NewNotifier(redisClient, cfg.Catalog.ChangeChannel, logg)
	if err != nil {
		logg.Error(ctx, "failed to create change notifier", err)
		os.Exit(1)
	}

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(ctx, "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(ctx, "failed to create register service", err)
		os.Exit(1)
	}

	catalogRepo := catalog.NewRepository(dbClient.DB())
	settingsRepo := settingssvc.NewRepository(dbClient.DB())

	catalogService, err := catalog.NewService(catalogRepo, settingsRepo, cfg.Catalog, logg, catalogMetrics)
	if err != nil {
		logg.Error(ctx, "failed to create catalog service", err)
		os.Exit(1)
	}

	cartRegistry := cart.NewRegistry(cfg.Cart)
	go cartRegistry.Sweep(ctx, logg)

	cartService, err := cart.NewService(cartRegistry, catalogRepo, catalogMetrics)
	if err != nil {
		logg.Error(ctx, "failed to create cart service", err)
		os.Exit(1)
	}

	settingsService, err := settingssvc.NewService(settingsRepo, dbClient, outboxService, notifier, cfg.Catalog, cfg.Checkout)
	if err != nil {
		logg.Error(ctx, "failed to create settings service", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(cartService, settingsService, dbClient, outboxService, cfg.Checkout, catalogMetrics)
	if err != nil {
		logg.Error(ctx, "failed to create checkout service", err)
		os.Exit(1)
	}

	categoriesService, err := categories.NewService(categories.NewRepository(dbClient.DB()), dbClient, outboxService, notifier)
	if err != nil {
		logg.Error(ctx, "failed to create categories service", err)
		os.Exit(1)
	}

	productsService, err := products.NewService(products.NewRepository(dbClient.DB()), categories.NewRepository(dbClient.DB()), dbClient, outboxService, notifier)
	if err != nil {
		logg.Error(ctx, "failed to create products service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	startCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(startCtx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			sessionManager,
			registry,
			hub,
			authService,
			registerService,
			catalogService,
			cartService,
			checkoutService,
			settingsService,
			categoriesService,
			productsService,
		),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(startCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(startCtx, "api server shutdown failed", err)
			os.Exit(1)
		}
		logg.Info(startCtx, "api server shut down gracefully")
	}
}
