package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hackgods/salon-booking/internal/appointment"
	"github.com/hackgods/salon-booking/internal/catalog"
	"github.com/hackgods/salon-booking/internal/customer"
)

func seed(t *testing.T, s *Store) (customer.Customer, catalog.Service) {
	t.Helper()
	ctx := context.Background()
	c, err := s.Customers().CreateCustomer(ctx, &customer.Customer{ID: uuid.New(), Name: "Ana", Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("CreateCustomer failed: %v", err)
	}
	svc, err := s.Services().CreateService(ctx, &catalog.Service{ID: uuid.New(), Name: "Corte", Price: decimal.NewFromInt(45), Active: true})
	if err != nil {
		t.Fatalf("CreateService failed: %v", err)
	}
	return *c, *svc
}

func booking(c customer.Customer, svc catalog.Service, start time.Time, status appointment.Status) *appointment.Appointment {
	return &appointment.Appointment{
		ID:         uuid.New(),
		CustomerID: c.ID,
		ServiceID:  svc.ID,
		StartTime:  start,
		EndTime:    start.Add(time.Hour),
		Price:      svc.Price,
		Status:     status,
	}
}

func TestAppointmentsEnforceReferences(t *testing.T) {
	s := New()
	c, svc := seed(t, s)
	repo := s.Appointments()
	start := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)

	orphan := booking(c, svc, start, appointment.StatusScheduled)
	orphan.CustomerID = uuid.New()
	if _, err := repo.CreateAppointment(context.Background(), orphan); !errors.Is(err, appointment.ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}

	orphan = booking(c, svc, start, appointment.StatusScheduled)
	orphan.ServiceID = uuid.New()
	if _, err := repo.CreateAppointment(context.Background(), orphan); !errors.Is(err, appointment.ErrServiceNotFound) {
		t.Fatalf("expected ErrServiceNotFound, got %v", err)
	}
}

func TestAppointmentsExclusion(t *testing.T) {
	s := New()
	c, svc := seed(t, s)
	repo := s.Appointments()
	ctx := context.Background()
	start := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)

	first := booking(c, svc, start, appointment.StatusScheduled)
	if _, err := repo.CreateAppointment(ctx, first); err != nil {
		t.Fatalf("CreateAppointment failed: %v", err)
	}
	if _, err := repo.CreateAppointment(ctx, booking(c, svc, start.Add(30*time.Minute), appointment.StatusScheduled)); !errors.Is(err, appointment.ErrSchedulingConflict) {
		t.Fatalf("expected ErrSchedulingConflict, got %v", err)
	}
	if _, err := repo.CreateAppointment(ctx, booking(c, svc, start, appointment.StatusCancelled)); err != nil {
		t.Fatalf("inactive rows may share a slot: %v", err)
	}

	conflict, err := repo.HasConflict(ctx, start, start.Add(time.Hour), &first.ID)
	if err != nil || conflict {
		t.Fatalf("HasConflict excluding self = %v, %v", conflict, err)
	}
}

func TestDeletesAreRestricted(t *testing.T) {
	s := New()
	c, svc := seed(t, s)
	ctx := context.Background()

	a := booking(c, svc, time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC), appointment.StatusScheduled)
	if _, err := s.Appointments().CreateAppointment(ctx, a); err != nil {
		t.Fatalf("CreateAppointment failed: %v", err)
	}

	if err := s.Customers().DeleteCustomer(ctx, c.ID); !errors.Is(err, customer.ErrInUse) {
		t.Fatalf("expected customer.ErrInUse, got %v", err)
	}
	if err := s.Services().DeleteService(ctx, svc.ID); !errors.Is(err, catalog.ErrInUse) {
		t.Fatalf("expected catalog.ErrInUse, got %v", err)
	}

	if err := s.Appointments().DeleteAppointment(ctx, a.ID); err != nil {
		t.Fatalf("DeleteAppointment failed: %v", err)
	}
	if err := s.Customers().DeleteCustomer(ctx, c.ID); err != nil {
		t.Fatalf("DeleteCustomer failed: %v", err)
	}
}

func TestDuplicateEmail(t *testing.T) {
	s := New()
	seed(t, s)

	_, err := s.Customers().CreateCustomer(context.Background(), &customer.Customer{ID: uuid.New(), Name: "Outra Ana", Email: "ana@example.com"})
	if !errors.Is(err, customer.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestListAppointmentsOrdering(t *testing.T) {
	s := New()
	c, svc := seed(t, s)
	repo := s.Appointments()
	ctx := context.Background()
	base := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)

	var ids []uuid.UUID
	for _, offset := range []int{2, 0, 4} {
		a := booking(c, svc, base.Add(time.Duration(offset)*time.Hour), appointment.StatusScheduled)
		if _, err := repo.CreateAppointment(ctx, a); err != nil {
			t.Fatalf("CreateAppointment failed: %v", err)
		}
		ids = append(ids, a.ID)
	}

	asc, _ := repo.ListAppointments(ctx, appointment.Filter{Order: appointment.Ascending})
	if asc[0].ID != ids[1] || asc[1].ID != ids[0] || asc[2].ID != ids[2] {
		t.Fatal("expected ascending start order")
	}

	desc, _ := repo.ListAppointments(ctx, appointment.Filter{Order: appointment.Descending})
	if desc[0].ID != ids[2] || desc[2].ID != ids[1] {
		t.Fatal("expected descending start order")
	}

	to := base.Add(2 * time.Hour)
	ranged, _ := repo.ListAppointments(ctx, appointment.Filter{From: &base, To: &to})
	if len(ranged) != 2 {
		t.Fatalf("expected inclusive range to hold 2, got %d", len(ranged))
	}
}

func TestEventsAreCopied(t *testing.T) {
	s := New()
	id := uuid.New()
	if err := s.Appointments().InsertEvent(context.Background(), appointment.EventLog{EventType: "APPOINTMENT_CREATED", AppointmentID: &id}); err != nil {
		t.Fatalf("InsertEvent failed: %v", err)
	}

	events := s.Events()
	if len(events) != 1 || events[0].ID != 1 {
		t.Fatalf("expected one event with id 1, got %+v", events)
	}
	events[0].EventType = "changed"
	if s.Events()[0].EventType != "APPOINTMENT_CREATED" {
		t.Fatal("Events must return a copy")
	}
}
