package main

import (
	"context"
	"os"
	"time"

	"github.com/hackgods/salon-booking/internal/config"
	"github.com/hackgods/salon-booking/internal/db"
	"github.com/hackgods/salon-booking/internal/logging"
)

func main() {
	logger := logging.New("migrate")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config load error", "err", err)
		os.Exit(1)
	}
	if cfg.Storage != config.StoragePostgres {
		logger.Info("nothing to migrate", "storage", cfg.Storage)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Error("connect postgres", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	applied, err := db.Migrate(ctx, pool)
	if err != nil {
		logger.Error("migration failed", "err", err)
		os.Exit(1)
	}

	if len(applied) == 0 {
		logger.Info("schema up to date")
		return
	}
	for _, name := range applied {
		logger.Info("applied migration", "name", name)
	}
}
