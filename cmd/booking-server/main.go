// Command booking-server serves the item booking API over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/AntonStoeckl/item-booking-go/booking/oteladapters"
	"github.com/AntonStoeckl/item-booking-go/httpapi"
	"github.com/AntonStoeckl/item-booking-go/shell/config"
)

const (
	serviceName     = "item-booking"
	shutdownTimeout = 10 * time.Second
	migrateTimeout  = 30 * time.Second
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("booking-server failed: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logHandler, closeLog := newLogHandler(cfg)
	defer closeLog()

	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	meterProvider := sdkmetric.NewMeterProvider()
	otel.SetMeterProvider(meterProvider)

	defer func() {
		if shutdownErr := meterProvider.Shutdown(context.Background()); shutdownErr != nil {
			logger.Warn("meter provider shutdown failed", "error", shutdownErr.Error())
		}
	}()

	obs := observability{
		logger:           logger,
		contextualLogger: oteladapters.NewSlogBridgeLoggerWithHandler(logHandler),
		metrics:          oteladapters.NewMetricsCollector(meterProvider.Meter(serviceName)),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, obs)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer closeStore()

	migrateCtx, cancelMigrate := context.WithTimeout(ctx, migrateTimeout)
	defer cancelMigrate()

	if migrateErr := store.Migrate(migrateCtx); migrateErr != nil {
		return fmt.Errorf("failed to migrate schema: %w", migrateErr)
	}

	handlers, err := newHandlers(store, obs)
	if err != nil {
		return fmt.Errorf("failed to create handlers: %w", err)
	}

	routerOptions, closeLimiter, err := newRouterOptions(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create rate limiter: %w", err)
	}
	defer closeLimiter()

	gin.SetMode(gin.ReleaseMode)

	router, err := httpapi.NewRouter(handlers, routerOptions...)
	if err != nil {
		return fmt.Errorf("failed to create router: %w", err)
	}

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverDone := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", cfg.HTTPAddr, "db_driver", cfg.DBDriver, "replica", cfg.HasReplica())
		serverDone <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case serveErr := <-serverDone:
		if !errors.Is(serveErr, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", serveErr)
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
		return fmt.Errorf("http server shutdown failed: %w", shutdownErr)
	}

	logger.Info("http server stopped gracefully")

	return nil
}
