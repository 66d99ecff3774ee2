package api

import (
	"log/slog"
	"net/http"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/hackgods/salon-booking/internal/appointment"
	"github.com/hackgods/salon-booking/internal/catalog"
	"github.com/hackgods/salon-booking/internal/customer"
)

type RouterConfig struct {
	Appointments *appointment.Service
	Customers    *customer.Manager
	Catalog      *catalog.Manager
	PgPool       *pgxpool.Pool // nil with in-memory storage
	Redis        *redis.Client // nil when the local lock is used
	Logger       *slog.Logger
	Env          string
	Version      string
	Sentry       bool
}

func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(logger))
	if cfg.Sentry {
		r.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	}

	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	dashboard := dashboardHandler{appointments: cfg.Appointments, customers: cfg.Customers, catalog: cfg.Catalog}
	r.Get("/dashboard", dashboard.summary)

	customers := customerHandlers{customers: cfg.Customers, appointments: cfg.Appointments}
	r.Route("/customers", func(r chi.Router) {
		r.Post("/", customers.create)
		r.Get("/", customers.list)
		r.Get("/{id}", customers.get)
		r.Put("/{id}", customers.update)
		r.Delete("/{id}", customers.delete)
		r.Get("/{id}/appointments", customers.appointmentsOf)
	})

	services := serviceHandlers{catalog: cfg.Catalog, appointments: cfg.Appointments}
	r.Route("/services", func(r chi.Router) {
		r.Post("/", services.create)
		r.Get("/", services.list)
		r.Get("/{id}", services.get)
		r.Put("/{id}", services.update)
		r.Delete("/{id}", services.delete)
		r.Post("/{id}/activate", services.setActive(true))
		r.Post("/{id}/deactivate", services.setActive(false))
		r.Get("/{id}/appointments", services.appointmentsOf)
	})

	appts := appointmentHandlers{svc: cfg.Appointments}
	r.Route("/appointments", func(r chi.Router) {
		r.Post("/", appts.create)
		r.Get("/", appts.list)
		r.Get("/{id}", appts.get)
		r.Put("/{id}", appts.update)
		r.Delete("/{id}", appts.delete)
		r.Patch("/{id}/status", appts.setStatus)
		r.Post("/{id}/cancel", appts.transition(cfg.Appointments.Cancel))
		r.Post("/{id}/confirm", appts.transition(cfg.Appointments.Confirm))
		r.Post("/{id}/complete", appts.transition(cfg.Appointments.Complete))
		r.Post("/{id}/no-show", appts.transition(cfg.Appointments.MarkNoShow))
	})

	return otelhttp.NewHandler(r, "salon-api")
}
