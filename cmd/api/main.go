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
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/rocklimedev/quotations-backend/api/routes"
	"github.com/rocklimedev/quotations-backend/internal/customers"
	"github.com/rocklimedev/quotations-backend/internal/products"
	"github.com/rocklimedev/quotations-backend/internal/quotations"
	"github.com/rocklimedev/quotations-backend/pkg/config"
	"github.com/rocklimedev/quotations-backend/pkg/db"
	"github.com/rocklimedev/quotations-backend/pkg/logger"
	"github.com/rocklimedev/quotations-backend/pkg/metrics"
	"github.com/rocklimedev/quotations-backend/pkg/migrate"
	"github.com/rocklimedev/quotations-backend/pkg/redis"
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

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	sagaMetrics := metrics.NewSagaMetrics(registry)

	headerStore := quotations.NewRepository(dbClient.DB(), dbClient)
	documentStore := quotations.NewDocumentStore(redisClient, cfg.Quotation.DocumentTTL)

	resolver, err := quotations.NewResolver(products.NewRepository(dbClient.DB()), cfg.Quotation.BestEffortEnrichment)
	if err != nil {
		logg.Error(context.Background(), "failed to create line resolver", err)
		os.Exit(1)
	}

	coordinator, err := quotations.NewCoordinator(headerStore, documentStore, logg, sagaMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create persistence coordinator", err)
		os.Exit(1)
	}

	quotationService, err := quotations.NewService(
		customers.NewRepository(dbClient.DB()),
		resolver,
		coordinator,
		headerStore,
		documentStore,
		cfg.Quotation,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create quotation service", err)
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
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, redisClient, registry, quotationService),
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-shutdown:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
