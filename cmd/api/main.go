package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/huddlebuy/huddlebuy-backend/api/routes"
	"github.com/huddlebuy/huddlebuy-backend/internal/auth"
	"github.com/huddlebuy/huddlebuy-backend/internal/finalization"
	"github.com/huddlebuy/huddlebuy-backend/internal/groups"
	"github.com/huddlebuy/huddlebuy-backend/internal/orders"
	product "github.com/huddlebuy/huddlebuy-backend/internal/products"
	"github.com/huddlebuy/huddlebuy-backend/internal/tiers"
	"github.com/huddlebuy/huddlebuy-backend/internal/users"
	"github.com/huddlebuy/huddlebuy-backend/pkg/auth/session"
	"github.com/huddlebuy/huddlebuy-backend/pkg/config"
	"github.com/huddlebuy/huddlebuy-backend/pkg/db"
	"github.com/huddlebuy/huddlebuy-backend/pkg/logger"
	"github.com/huddlebuy/huddlebuy-backend/pkg/metrics"
	"github.com/huddlebuy/huddlebuy-backend/pkg/migrate"
	"github.com/huddlebuy/huddlebuy-backend/pkg/redis"
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
	groupMetrics := metrics.NewGroupBuyingMetrics(registry)

	userRepo := users.NewRepository(dbClient.DB())
	productRepo := product.NewRepository(dbClient.DB())
	groupRepo := groups.NewRepository(dbClient.DB())
	orderRepo := orders.NewRepository(dbClient.DB())
	tierRepo := tiers.NewRepository(dbClient.DB())
	finalizeRepo := finalization.NewRepository(dbClient.DB())

	authService, err := auth.NewService(userRepo, sessionManager, cfg.JWT, cfg.Password, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	groupService, err := groups.NewService(groupRepo, productRepo, dbClient, cfg.GroupBuying, groupMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create group service", err)
		os.Exit(1)
	}

	productService, err := product.NewService(productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	tierService, err := tiers.NewService(tierRepo, productRepo, dbClient, cfg.GroupBuying)
	if err != nil {
		logg.Error(context.Background(), "failed to create tier service", err)
		os.Exit(1)
	}

	bulkApplier, err := tiers.NewBulkApplier(tierService, groupMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create bulk applier", err)
		os.Exit(1)
	}

	finalizeService, err := finalization.NewService(finalizeRepo, orderRepo, dbClient, groupMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create finalization service", err)
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
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			sessionManager,
			registry,
			authService,
			groupService,
			finalizeService,
			productService,
			tierService,
			bulkApplier,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
