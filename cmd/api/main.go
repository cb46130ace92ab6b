package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/codecuphq/codecup-backend/api/routes"
	"github.com/codecuphq/codecup-backend/internal/auth"
	"github.com/codecuphq/codecup-backend/internal/cart"
	"github.com/codecuphq/codecup-backend/internal/catalog"
	checkoutsvc "github.com/codecuphq/codecup-backend/internal/checkout"
	"github.com/codecuphq/codecup-backend/internal/loyalty"
	"github.com/codecuphq/codecup-backend/internal/orders"
	"github.com/codecuphq/codecup-backend/internal/rewards"
	"github.com/codecuphq/codecup-backend/pkg/auth/session"
	"github.com/codecuphq/codecup-backend/pkg/config"
	"github.com/codecuphq/codecup-backend/pkg/db"
	"github.com/codecuphq/codecup-backend/pkg/locks"
	"github.com/codecuphq/codecup-backend/pkg/logger"
	"github.com/codecuphq/codecup-backend/pkg/metrics"
	"github.com/codecuphq/codecup-backend/pkg/migrate"
	"github.com/codecuphq/codecup-backend/pkg/redis"
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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	catalogRepo := catalog.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	loyaltyRepo := loyalty.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	rewardsRepo := rewards.NewRepository(dbClient.DB())
	userLocks := locks.NewUserLocks()

	if cfg.FeatureFlags.SeedCatalog {
		if err := catalog.SeedIfEmpty(context.Background(), catalogRepo, rewardsRepo, logg); err != nil {
			logg.Error(context.Background(), "failed to seed catalog", err)
			os.Exit(1)
		}
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	engineMetrics := metrics.NewEngineMetrics(registry)

	catalogService, err := catalog.NewService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cartRepo, catalogService)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	loyaltyService, err := loyalty.NewService(loyaltyRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create loyalty service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(ordersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(
		dbClient,
		userLocks,
		cartRepo,
		loyaltyRepo,
		ordersRepo,
		catalogRepo,
		engineMetrics,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	rewardsService, err := rewards.NewService(
		dbClient,
		userLocks,
		rewardsRepo,
		loyaltyRepo,
		ordersRepo,
		catalogRepo,
		engineMetrics,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create rewards service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		AccountRepo:    loyaltyRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

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
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, registry, routes.Services{
			Auth:     authService,
			Catalog:  catalogService,
			Cart:     cartService,
			Checkout: checkoutService,
			Rewards:  rewardsService,
			Orders:   ordersService,
			Loyalty:  loyaltyService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
