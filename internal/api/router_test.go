package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hackgods/salon-booking/internal/appointment"
	"github.com/hackgods/salon-booking/internal/catalog"
	"github.com/hackgods/salon-booking/internal/customer"
	"github.com/hackgods/salon-booking/internal/memstore"
)

var salon = time.FixedZone("BRT", -3*60*60)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memstore.New()
	customers := customer.NewManager(store.Customers(), logger)
	services := catalog.NewManager(store.Services(), logger)
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, salon)
	appts := appointment.NewService(store.Appointments(), customers, services, nil,
		appointment.WithClock(func() time.Time { return now }),
		appointment.WithLocation(salon),
		appointment.WithLogger(logger),
	)

	srv := httptest.NewServer(NewRouter(RouterConfig{
		Appointments: appts,
		Customers:    customers,
		Catalog:      services,
		Logger:       logger,
		Env:          "test",
		Version:      "test",
	}))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path string, body any, out any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return resp
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("%s %s: expected %d, got %d", resp.Request.Method, resp.Request.URL.Path, want, resp.StatusCode)
	}
}

type parties struct {
	customerID string
	serviceID  string
}

func setupParties(t *testing.T, srv *httptest.Server) parties {
	t.Helper()
	var c CustomerResponse
	expectStatus(t, do(t, srv, http.MethodPost, "/customers", CustomerRequest{Name: "Maria", Email: "maria@example.com"}, &c), http.StatusCreated)

	var s ServiceResponse
	expectStatus(t, do(t, srv, http.MethodPost, "/services", map[string]any{
		"name": "Corte Feminino", "price": "45.00", "duration_minutes": 60,
	}, &s), http.StatusCreated)
	if s.Price != "45.00" || !s.Active {
		t.Fatalf("unexpected service %+v", s)
	}
	return parties{customerID: c.ID.String(), serviceID: s.ID.String()}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, srv, http.MethodGet, "/health/live", nil, nil)
	expectStatus(t, resp, http.StatusOK)
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatal("expected a request id header")
	}

	var ready ReadinessResponse
	expectStatus(t, do(t, srv, http.MethodGet, "/health/ready", nil, &ready), http.StatusOK)
	if ready.Status != "ok" || ready.Dependencies["postgres"] != "disabled" {
		t.Fatalf("unexpected readiness %+v", ready)
	}
}

func TestCustomerEndpoints(t *testing.T) {
	srv := newTestServer(t)

	var c CustomerResponse
	expectStatus(t, do(t, srv, http.MethodPost, "/customers", CustomerRequest{Name: "Ana", Email: "ANA@example.com"}, &c), http.StatusCreated)
	if c.Email != "ana@example.com" {
		t.Fatalf("expected normalized email, got %q", c.Email)
	}

	var e ErrorResponse
	expectStatus(t, do(t, srv, http.MethodPost, "/customers", CustomerRequest{Name: "Ana 2", Email: "ana@example.com"}, &e), http.StatusUnprocessableEntity)
	if e.Error != "duplicate_email" {
		t.Fatalf("unexpected error code %q", e.Error)
	}
	expectStatus(t, do(t, srv, http.MethodPost, "/customers", CustomerRequest{Email: "x@example.com"}, nil), http.StatusUnprocessableEntity)

	var list []CustomerResponse
	expectStatus(t, do(t, srv, http.MethodGet, "/customers?name=an", nil, &list), http.StatusOK)
	if len(list) != 1 {
		t.Fatalf("expected one match, got %d", len(list))
	}

	expectStatus(t, do(t, srv, http.MethodGet, "/customers/not-a-uuid", nil, nil), http.StatusBadRequest)
	expectStatus(t, do(t, srv, http.MethodGet, "/customers/"+c.ID.String(), nil, nil), http.StatusOK)
	expectStatus(t, do(t, srv, http.MethodDelete, "/customers/"+c.ID.String(), nil, nil), http.StatusNoContent)
	expectStatus(t, do(t, srv, http.MethodGet, "/customers/"+c.ID.String(), nil, nil), http.StatusNotFound)
}

func TestServiceEndpoints(t *testing.T) {
	srv := newTestServer(t)

	var s ServiceResponse
	expectStatus(t, do(t, srv, http.MethodPost, "/services", map[string]any{"name": "Escova", "price": 80}, &s), http.StatusCreated)
	expectStatus(t, do(t, srv, http.MethodPost, "/services", map[string]any{"name": "Grátis", "price": 0}, nil), http.StatusUnprocessableEntity)

	var off ServiceResponse
	expectStatus(t, do(t, srv, http.MethodPost, "/services/"+s.ID.String()+"/deactivate", nil, &off), http.StatusOK)
	if off.Active {
		t.Fatal("expected service to be inactive")
	}

	var active []ServiceResponse
	expectStatus(t, do(t, srv, http.MethodGet, "/services?active=true", nil, &active), http.StatusOK)
	if len(active) != 0 {
		t.Fatalf("expected no active services, got %d", len(active))
	}

	var all []ServiceResponse
	expectStatus(t, do(t, srv, http.MethodGet, "/services", nil, &all), http.StatusOK)
	if len(all) != 1 || all[0].Price != "80.00" {
		t.Fatalf("unexpected listing %+v", all)
	}

	expectStatus(t, do(t, srv, http.MethodGet, "/services?min_price=abc", nil, nil), http.StatusBadRequest)
}

func TestBookingFlow(t *testing.T) {
	srv := newTestServer(t)
	p := setupParties(t, srv)

	req := AppointmentRequest{CustomerID: p.customerID, ServiceID: p.serviceID, StartTime: "2026-03-03T10:00"}

	var a AppointmentResponse
	expectStatus(t, do(t, srv, http.MethodPost, "/appointments", req, &a), http.StatusCreated)
	if a.Status != "SCHEDULED" || a.StatusDescription != "Agendado" || a.Price != "45.00" {
		t.Fatalf("unexpected appointment %+v", a)
	}
	if !a.EndTime.Equal(time.Date(2026, 3, 3, 11, 0, 0, 0, salon)) {
		t.Fatalf("unexpected end %s", a.EndTime)
	}

	var e ErrorResponse
	overlap := req
	overlap.StartTime = "2026-03-03T10:30:00-03:00"
	expectStatus(t, do(t, srv, http.MethodPost, "/appointments", overlap, &e), http.StatusConflict)
	if e.Error != "slot_already_booked" {
		t.Fatalf("unexpected error code %q", e.Error)
	}

	var detail AppointmentResponse
	expectStatus(t, do(t, srv, http.MethodGet, "/appointments/"+a.ID.String(), nil, &detail), http.StatusOK)
	if detail.Customer == nil || detail.Service == nil || detail.Service.Name != "Corte Feminino" {
		t.Fatalf("expected customer and service in detail, got %+v", detail)
	}

	var cancelled AppointmentResponse
	expectStatus(t, do(t, srv, http.MethodPatch, "/appointments/"+a.ID.String()+"/status", StatusRequest{Status: "cancelado"}, &cancelled), http.StatusOK)
	if cancelled.Status != "CANCELLED" {
		t.Fatalf("expected CANCELLED, got %s", cancelled.Status)
	}

	var rebooked AppointmentResponse
	expectStatus(t, do(t, srv, http.MethodPost, "/appointments", overlap, &rebooked), http.StatusCreated)

	expectStatus(t, do(t, srv, http.MethodPost, "/appointments/"+a.ID.String()+"/confirm", nil, &e), http.StatusConflict)

	var mine []AppointmentResponse
	expectStatus(t, do(t, srv, http.MethodGet, "/customers/"+p.customerID+"/appointments", nil, &mine), http.StatusOK)
	if len(mine) != 2 {
		t.Fatalf("expected 2 appointments for the customer, got %d", len(mine))
	}

	expectStatus(t, do(t, srv, http.MethodDelete, "/customers/"+p.customerID, nil, &e), http.StatusConflict)
	if e.Error != "customer_in_use" {
		t.Fatalf("unexpected error code %q", e.Error)
	}
}

func TestBookingErrors(t *testing.T) {
	srv := newTestServer(t)
	p := setupParties(t, srv)

	cases := []struct {
		name   string
		req    AppointmentRequest
		status int
		code   string
	}{
		{"in past", AppointmentRequest{p.customerID, p.serviceID, "2026-03-01T10:00", ""}, http.StatusUnprocessableEntity, "in_past"},
		{"too far", AppointmentRequest{p.customerID, p.serviceID, "2027-06-01T10:00", ""}, http.StatusUnprocessableEntity, "too_far_future"},
		{"after hours", AppointmentRequest{p.customerID, p.serviceID, "2026-03-03T18:00", ""}, http.StatusUnprocessableEntity, "outside_business_hours"},
		{"bad time", AppointmentRequest{p.customerID, p.serviceID, "tomorrow", ""}, http.StatusBadRequest, "invalid_start_time"},
		{"bad customer id", AppointmentRequest{"nope", p.serviceID, "2026-03-03T10:00", ""}, http.StatusBadRequest, "invalid_customer_id"},
		{"unknown customer", AppointmentRequest{"8f7c5a1e-0000-4000-8000-000000000000", p.serviceID, "2026-03-03T10:00", ""}, http.StatusNotFound, "customer_not_found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var e ErrorResponse
			expectStatus(t, do(t, srv, http.MethodPost, "/appointments", tc.req, &e), tc.status)
			if e.Error != tc.code {
				t.Fatalf("expected code %q, got %q", tc.code, e.Error)
			}
		})
	}

	expectStatus(t, do(t, srv, http.MethodGet, "/appointments?view=yesterday", nil, nil), http.StatusBadRequest)
	expectStatus(t, do(t, srv, http.MethodGet, "/appointments?status=pending", nil, nil), http.StatusBadRequest)
}

func TestAppointmentViews(t *testing.T) {
	srv := newTestServer(t)
	p := setupParties(t, srv)

	for _, start := range []string{"2026-03-02T15:00", "2026-03-03T10:00", "2026-03-04T10:00"} {
		expectStatus(t, do(t, srv, http.MethodPost, "/appointments",
			AppointmentRequest{CustomerID: p.customerID, ServiceID: p.serviceID, StartTime: start}, nil), http.StatusCreated)
	}

	var today []AppointmentResponse
	expectStatus(t, do(t, srv, http.MethodGet, "/appointments?view=today", nil, &today), http.StatusOK)
	if len(today) != 1 {
		t.Fatalf("expected 1 appointment today, got %d", len(today))
	}

	var ranged []AppointmentResponse
	expectStatus(t, do(t, srv, http.MethodGet, "/appointments?from=2026-03-03T00:00&to=2026-03-04T10:00", nil, &ranged), http.StatusOK)
	if len(ranged) != 2 {
		t.Fatalf("expected 2 appointments in range, got %d", len(ranged))
	}

	var halfOpen ErrorResponse
	expectStatus(t, do(t, srv, http.MethodGet, "/appointments?from=2026-03-03T00:00", nil, &halfOpen), http.StatusBadRequest)
	if halfOpen.Error != "invalid_range" {
		t.Fatalf("expected invalid_range, got %+v", halfOpen)
	}

	var all []AppointmentResponse
	expectStatus(t, do(t, srv, http.MethodGet, "/appointments", nil, &all), http.StatusOK)
	if len(all) != 3 || !all[0].StartTime.After(all[2].StartTime) {
		t.Fatalf("expected newest first, got %+v", all)
	}
}

func TestDashboard(t *testing.T) {
	srv := newTestServer(t)
	p := setupParties(t, srv)

	var inactive ServiceResponse
	expectStatus(t, do(t, srv, http.MethodPost, "/services", map[string]any{
		"name": "Pintura", "price": "50.00", "duration_minutes": 45, "active": false,
	}, &inactive), http.StatusCreated)

	for _, start := range []string{"2026-03-02T15:00", "2026-03-03T10:00"} {
		expectStatus(t, do(t, srv, http.MethodPost, "/appointments",
			AppointmentRequest{CustomerID: p.customerID, ServiceID: p.serviceID, StartTime: start}, nil), http.StatusCreated)
	}

	var d DashboardResponse
	expectStatus(t, do(t, srv, http.MethodGet, "/dashboard", nil, &d), http.StatusOK)
	if len(d.Today) != 1 || len(d.Upcoming) != 2 {
		t.Fatalf("expected 1 today and 2 upcoming, got %d and %d", len(d.Today), len(d.Upcoming))
	}
	if d.TotalCustomers != 1 || d.ActiveServices != 1 {
		t.Fatalf("unexpected totals %+v", d)
	}
}
