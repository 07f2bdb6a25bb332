package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lauracastellan/velora-backend/api/controllers"
	"github.com/lauracastellan/velora-backend/api/routes"
	"github.com/lauracastellan/velora-backend/internal/cart"
	"github.com/lauracastellan/velora-backend/internal/catalog"
	"github.com/lauracastellan/velora-backend/internal/feedback"
	"github.com/lauracastellan/velora-backend/pkg/config"
	"github.com/lauracastellan/velora-backend/pkg/logger"
	"github.com/lauracastellan/velora-backend/pkg/metrics"
	"github.com/lauracastellan/velora-backend/pkg/redis"
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

	var redisClient *redis.Client
	if cfg.Redis.URL != "" || cfg.Redis.Address != "" {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	}

	registry := prometheus.NewRegistry()
	catalogMetrics := metrics.NewCatalogMetrics(registry)

	sourceClient, err := catalog.NewSourceClient(cfg.Catalog.BaseURL, catalog.WithTimeout(cfg.Catalog.FetchTimeout))
	if err != nil {
		logg.Error(context.Background(), "failed to create product source client", err)
		os.Exit(1)
	}

	serviceParams := catalog.ServiceParams{
		Source:   sourceClient,
		Metrics:  catalogMetrics,
		CacheTTL: cfg.Catalog.CacheTTL,
	}
	if cfg.FeatureFlags.CatalogCache && redisClient != nil {
		serviceParams.Cache = redisClient
	}
	catalogService, err := catalog.NewService(serviceParams)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartRegistry := cart.NewRegistry(cfg.Cart.SessionTTL)
	cartRegistry.StartSweeper(context.Background(), cfg.Cart.SweepInterval, logg)

	var feedbackClient controllers.FeedbackSubmitter
	if cfg.Feedback.SinkURL != "" {
		client, err := feedback.NewClient(cfg.Feedback.SinkURL, feedback.WithTimeout(cfg.Feedback.SubmitTimeout))
		if err != nil {
			logg.Error(context.Background(), "failed to create feedback client", err)
			os.Exit(1)
		}
		feedbackClient = client
	} else {
		logg.Warn(context.Background(), "feedback sink not configured, submissions will be rejected")
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
		Handler: routes.NewRouter(routes.RouterParams{
			Config:          cfg,
			Logger:          logg,
			Catalog:         catalogService,
			CartRegistry:    cartRegistry,
			Feedback:        feedbackClient,
			RedisClient:     redisClient,
			MetricsGatherer: registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
