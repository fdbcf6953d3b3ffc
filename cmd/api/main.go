package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/eventa-app/eventa-backend/api/routes"
	"github.com/eventa-app/eventa-backend/internal/catalog"
	"github.com/eventa-app/eventa-backend/internal/orders"
	"github.com/eventa-app/eventa-backend/internal/proposals"
	"github.com/eventa-app/eventa-backend/internal/reconciliation"
	"github.com/eventa-app/eventa-backend/internal/recommendation"
	"github.com/eventa-app/eventa-backend/pkg/config"
	"github.com/eventa-app/eventa-backend/pkg/db"
	"github.com/eventa-app/eventa-backend/pkg/logger"
	"github.com/eventa-app/eventa-backend/pkg/paygate"
	"github.com/eventa-app/eventa-backend/pkg/redis"
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
		Format:      cfg.App.LogFormat,
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

	gatewayClient, err := paygate.NewClient(context.Background(), cfg.Gateway, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create gateway client", err)
		os.Exit(1)
	}

	synonyms, err := cfg.Selector.Synonyms()
	if err != nil {
		logg.Error(context.Background(), "failed to parse selector synonyms", err)
		os.Exit(1)
	}

	catalogRepo := catalog.NewRepository(dbClient.DB())
	selector, err := recommendation.NewSelector(catalogRepo, recommendation.NewCategoryMatcher(synonyms))
	if err != nil {
		logg.Error(context.Background(), "failed to create selector", err)
		os.Exit(1)
	}

	proposalRepo := proposals.NewRepository(dbClient.DB())
	proposalSvc, err := proposals.NewService(proposalRepo, selector, dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create proposal service", err)
		os.Exit(1)
	}

	orderRepo := orders.NewRepository(dbClient.DB())
	orderSvc, err := orders.NewService(orderRepo, proposalRepo, catalogRepo, dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	paymentRepo := reconciliation.NewRepository(dbClient.DB())
	reconcileSvc, err := reconciliation.NewService(paymentRepo, orderRepo, gatewayClient, redisClient, dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create reconciliation service", err)
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
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, proposalSvc, orderSvc, reconcileSvc),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
