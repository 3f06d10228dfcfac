package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dukerupert/kinderkit/internal"
	"github.com/dukerupert/kinderkit/internal/bridge"
	"github.com/dukerupert/kinderkit/internal/cart"
	"github.com/dukerupert/kinderkit/internal/catalog"
	"github.com/dukerupert/kinderkit/internal/handler"
	"github.com/dukerupert/kinderkit/internal/handler/storefront"
	"github.com/dukerupert/kinderkit/internal/middleware"
	"github.com/dukerupert/kinderkit/internal/notification"
	"github.com/dukerupert/kinderkit/internal/router"
	"github.com/dukerupert/kinderkit/internal/routes"
	"github.com/dukerupert/kinderkit/internal/storage"
	"github.com/dukerupert/kinderkit/internal/telemetry"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logOut, logCloser := internal.LogWriter(os.Stdout, cfg.LogFile)
	defer logCloser.Close()
	logger := internal.NewLogger(logOut, cfg.Env, cfg.LogLevel)

	// Error tracking
	flushSentry, err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:              cfg.Sentry.DSN,
		Enabled:          cfg.Sentry.Enabled,
		Environment:      cfg.Sentry.Environment,
		Release:          cfg.Sentry.Release,
		SampleRate:       cfg.Sentry.SampleRate,
		TracesSampleRate: cfg.Sentry.TracesSampleRate,
		Debug:            cfg.Sentry.Debug,
	}, logger)
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	defer flushSentry()

	// Durable state
	logger.Info("Opening storage...", "provider", cfg.Storage.Provider)
	store, err := storage.NewStorage(cfg.Storage)
	if err != nil {
		return fmt.Errorf("storage initialization failed: %w", err)
	}
	defer store.Close()

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	business := telemetry.NewBusinessMetrics("kinderkit", reg)
	httpMetrics := middleware.NewMetrics("kinderkit", reg)

	// Engines, rehydrated from storage
	cartEngine := cart.NewEngine(ctx, store, cart.Options{
		Logger:   logger,
		Reporter: business,
		Observer: business,
	})
	notificationEngine := notification.NewEngine(ctx, store, notification.Options{
		Logger:   logger,
		Reporter: business,
		Observer: business,
		Limits: notification.Limits{
			Recent:  cfg.Notifications.Recent,
			History: cfg.Notifications.History,
		},
	})
	business.SeedCart(cartEngine.State())
	business.SeedNotifications(notificationEngine.State())
	logger.Info("Engines ready",
		"cart_items", cartEngine.TotalItems(),
		"orders", len(cartEngine.Orders()),
		"notifications", len(notificationEngine.AllNotifications()),
	)

	// Upstream catalog
	cat, closeCatalog, err := catalog.Open(ctx, cfg.Catalog, logger)
	if err != nil {
		return fmt.Errorf("catalog initialization failed: %w", err)
	}
	defer closeCatalog()

	// Order events
	var publisher bridge.Publisher
	if cfg.Events.NATSURL != "" {
		nats, err := bridge.NewNATSPublisher(cfg.Events.NATSURL, cfg.Events.Subject, logger)
		if err != nil {
			return fmt.Errorf("nats initialization failed: %w", err)
		}
		defer nats.Close()
		publisher = nats
	}

	b := bridge.New(cartEngine, notificationEngine, publisher, logger)

	storefrontDeps := routes.StorefrontDeps{
		CartHandler:         storefront.NewCartHandler(cartEngine, b, cat),
		NotificationHandler: storefront.NewNotificationHandler(notificationEngine),
		ProductHandler:      storefront.NewProductHandler(cat),
	}
	opsDeps := routes.OpsDeps{
		HealthHandler: func(w http.ResponseWriter, req *http.Request) {
			handler.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
		},
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	}

	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		middleware.WithRequestLogger(logger),
		telemetry.SentryMiddleware(),
		httpMetrics.Middleware,
		router.CORS(cfg.AllowedOrigins),
		middleware.SecurityHeaders,
		router.Logger(logger),
	)
	routes.RegisterOpsRoutes(r, opsDeps)
	routes.RegisterStorefrontRoutes(r, storefrontDeps)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting storefront server", "address", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down", "grace", cfg.ShutdownGrace)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
