// Package app assembles the storage, lock and domain services from config so
// every binary wires them the same way.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/hackgods/salon-booking/internal/appointment"
	"github.com/hackgods/salon-booking/internal/catalog"
	"github.com/hackgods/salon-booking/internal/config"
	"github.com/hackgods/salon-booking/internal/customer"
	"github.com/hackgods/salon-booking/internal/db"
	"github.com/hackgods/salon-booking/internal/memstore"
	redisclient "github.com/hackgods/salon-booking/internal/redis"
)

// The salon has a single chair, so one timeline is shared by every booking.
const timelineName = "salon"

type Stack struct {
	Customers    *customer.Manager
	Catalog      *catalog.Manager
	Appointments *appointment.Service

	Pool  *pgxpool.Pool // nil with in-memory storage
	Redis *redis.Client // nil when the local lock is used
}

func Build(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Stack, error) {
	st := &Stack{}

	var (
		customerRepo customer.Repository
		serviceRepo  catalog.Repository
		apptRepo     appointment.Repository
	)

	switch cfg.Storage {
	case config.StorageMemory:
		mem := memstore.New()
		customerRepo, serviceRepo, apptRepo = mem.Customers(), mem.Services(), mem.Appointments()
		logger.Info("using in-memory storage")

	default:
		pgCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		pool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("postgres connection: %w", err)
		}
		st.Pool = pool
		customerRepo = customer.NewPgRepository(pool)
		serviceRepo = catalog.NewPgRepository(pool)
		apptRepo = appointment.NewPgRepository(pool)
		logger.Info("connected to Postgres")
	}

	var locker appointment.Locker
	if cfg.RedisAddr != "" {
		rdb, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("redis connection: %w", err)
		}
		st.Redis = rdb
		locker = redisclient.NewTimelineLocker(rdb, timelineName, cfg.LockTTL, cfg.LockWait)
		logger.Info("connected to Redis", "lock_ttl", cfg.LockTTL, "lock_wait", cfg.LockWait)
	} else {
		locker = appointment.NewLocalLocker()
		logger.Info("REDIS_ADDR not set, using in-process timeline lock")
	}

	st.Customers = customer.NewManager(customerRepo, logger)
	st.Catalog = catalog.NewManager(serviceRepo, logger)
	st.Appointments = appointment.NewService(apptRepo, st.Customers, st.Catalog, locker,
		appointment.WithLocation(cfg.Location),
		appointment.WithLogger(logger),
	)

	return st, nil
}

func (s *Stack) Close() {
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			slog.Warn("error closing redis", "err", err)
		}
	}
	if s.Pool != nil {
		s.Pool.Close()
	}
}
