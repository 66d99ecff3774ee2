package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hackgods/salon-booking/internal/config"
	"github.com/hackgods/salon-booking/internal/db"
	"github.com/hackgods/salon-booking/internal/events"
	"github.com/hackgods/salon-booking/internal/logging"
)

func main() {
	logger := logging.New("event-relay")
	logger.Info("event-relay starting up")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config load error", "err", err)
		os.Exit(1)
	}
	if cfg.Storage != config.StoragePostgres {
		logger.Error("event relay needs STORAGE=postgres", "storage", cfg.Storage)
		os.Exit(1)
	}
	if cfg.KafkaBrokers == "" {
		logger.Error("KAFKA_BROKERS is required")
		os.Exit(1)
	}

	logger.Info("relaying appointment events",
		"env", cfg.Env,
		"topic", cfg.EventTopic,
		"interval", cfg.RelayInterval,
		"batch_size", cfg.RelayBatchSize,
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		logger.Error("postgres connection error", "err", err)
		os.Exit(1)
	}
	defer pgPool.Close()
	logger.Info("connected to Postgres")

	writer := events.NewKafkaWriter(cfg.KafkaBrokers)
	defer func() {
		if err := writer.Close(); err != nil {
			logger.Warn("error closing kafka writer", "err", err)
		}
	}()

	relay := events.NewRelay(events.NewPgStore(pgPool), writer, logger, events.RelayConfig{
		Topic:     cfg.EventTopic,
		PollEvery: cfg.RelayInterval,
		BatchSize: cfg.RelayBatchSize,
	})

	relay.Run(rootCtx)
	logger.Info("shutdown signal received, event relay stopped")
}
