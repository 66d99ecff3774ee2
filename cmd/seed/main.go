package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"

	"github.com/hackgods/salon-booking/internal/catalog"
	"github.com/hackgods/salon-booking/internal/config"
	"github.com/hackgods/salon-booking/internal/customer"
	"github.com/hackgods/salon-booking/internal/db"
	"github.com/hackgods/salon-booking/internal/logging"
)

// The salon's starting menu.
var defaultServices = []struct {
	name        string
	description string
	price       string
	minutes     int
}{
	{"Corte Feminino", "Corte de cabelo feminino", "45.00", 60},
	{"Corte Masculino", "Corte de cabelo masculino", "30.00", 30},
	{"Coloração", "Coloração completa", "120.00", 120},
	{"Manicure", "Cuidado das unhas das mãos", "35.00", 45},
	{"Pedicure", "Cuidado das unhas dos pés", "40.00", 45},
	{"Escova", "Escova modeladora", "80.00", 90},
	{"Hidratação", "Hidratação capilar", "60.00", 60},
	{"Pintura", "Pintura de unhas", "50.00", 45},
}

func main() {
	logger := logging.New("seed")
	logger.Info("seed starting")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config load error", "err", err)
		os.Exit(1)
	}
	if cfg.Storage != config.StoragePostgres {
		logger.Error("seed needs STORAGE=postgres", "storage", cfg.Storage)
		os.Exit(1)
	}

	count := 50
	if v := os.Getenv("SEED_CUSTOMERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			count = n
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Error("connect postgres", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	services := catalog.NewManager(catalog.NewPgRepository(pool), logger)
	customers := customer.NewManager(customer.NewPgRepository(pool), logger)

	if err := seedServices(ctx, logger, services); err != nil {
		logger.Error("seed services", "err", err)
		os.Exit(1)
	}
	if err := seedCustomers(ctx, logger, customers, count); err != nil {
		logger.Error("seed customers", "err", err)
		os.Exit(1)
	}

	logger.Info("seed complete")
}

// seedServices only runs against an empty catalog.
func seedServices(ctx context.Context, logger *slog.Logger, m *catalog.Manager) error {
	existing, err := m.ListAll(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logger.Info("services already present, skipping", "count", len(existing))
		return nil
	}

	for _, s := range defaultServices {
		minutes := s.minutes
		if _, err := m.Create(ctx, catalog.Input{
			Name:            s.name,
			Description:     s.description,
			Price:           decimal.RequireFromString(s.price),
			DurationMinutes: &minutes,
		}); err != nil {
			return fmt.Errorf("create %q: %w", s.name, err)
		}
	}

	logger.Info("services seeded", "count", len(defaultServices))
	return nil
}

// seedCustomers only runs against an empty customer table. Fake emails can
// collide, those are skipped.
func seedCustomers(ctx context.Context, logger *slog.Logger, m *customer.Manager, count int) error {
	existing, err := m.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logger.Info("customers already present, skipping", "count", len(existing))
		return nil
	}

	created := 0
	for i := 0; i < count; i++ {
		_, err := m.Register(ctx, customer.Input{
			Name:    gofakeit.Name(),
			Email:   gofakeit.Email(),
			Phone:   gofakeit.Phone(),
			Address: gofakeit.Street() + ", " + gofakeit.City(),
		})
		if errors.Is(err, customer.ErrDuplicateEmail) {
			continue
		}
		if err != nil {
			return err
		}
		created++
	}

	logger.Info("customers seeded", "count", created)
	return nil
}
