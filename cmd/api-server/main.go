package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/hackgods/salon-booking/internal/api"
	"github.com/hackgods/salon-booking/internal/app"
	"github.com/hackgods/salon-booking/internal/config"
	"github.com/hackgods/salon-booking/internal/logging"
	"github.com/hackgods/salon-booking/internal/telemetry"
)

var version = "dev"

func main() {
	logger := logging.New("api-server")
	logger.Info("api-server starting up", "version", version)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config load error", "err", err)
		os.Exit(1)
	}

	logger.Info("config loaded",
		"env", cfg.Env,
		"http_port", cfg.HTTPPort,
		"storage", cfg.Storage,
		"timezone", cfg.Location.String(),
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(rootCtx, telemetry.Config{
		Enabled:      cfg.OTelEnabled,
		ServiceName:  "salon-api",
		OTLPEndpoint: cfg.OTelEndpoint,
		SampleRatio:  cfg.OTelSamplingRate,
	})
	if err != nil {
		logger.Error("telemetry setup error", "err", err)
		os.Exit(1)
	}

	sentryEnabled := false
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Env,
			Release:     version,
		}); err != nil {
			logger.Error("sentry init failed", "err", err)
		} else {
			sentryEnabled = true
			defer sentry.Flush(2 * time.Second)
		}
	}

	stack, err := app.Build(rootCtx, cfg, logger)
	if err != nil {
		logger.Error("startup error", "err", err)
		os.Exit(1)
	}
	defer stack.Close()

	handler := api.NewRouter(api.RouterConfig{
		Appointments: stack.Appointments,
		Customers:    stack.Customers,
		Catalog:      stack.Catalog,
		PgPool:       stack.Pool,
		Redis:        stack.Redis,
		Logger:       logger,
		Env:          cfg.Env,
		Version:      version,
		Sentry:       sentryEnabled,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-rootCtx.Done():
	case err := <-errCh:
		if err != nil {
			logger.Error("http server error", "err", err)
		}
	}

	logger.Info("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", "err", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("tracer shutdown error", "err", err)
	}
}
