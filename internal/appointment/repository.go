package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/salon-booking/internal/catalog"
	"github.com/hackgods/salon-booking/internal/customer"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrServiceNotFound     = errors.New("service not found")
)

// Repository contains all DB interactions needed by the service.
type Repository interface {
	GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// For conflict checks: true when an active appointment other than
	// excludeID overlaps [start, end).
	HasConflict(ctx context.Context, start, end time.Time, excludeID *uuid.UUID) (bool, error)

	// Creation and updates. Implementations return ErrSchedulingConflict
	// when the store itself rejects an overlapping active interval.
	CreateAppointment(ctx context.Context, a *Appointment) (*Appointment, error)
	UpdateAppointment(ctx context.Context, a *Appointment) (*Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, status Status) (*Appointment, error)
	DeleteAppointment(ctx context.Context, id uuid.UUID) error

	ListAppointments(ctx context.Context, f Filter) ([]Appointment, error)

	// Event logging
	InsertEvent(ctx context.Context, ev EventLog) error
}

// CustomerResolver and ServiceResolver look up the parties of a booking.
// customer.Manager and catalog.Manager satisfy them.
type CustomerResolver interface {
	Get(ctx context.Context, id uuid.UUID) (*customer.Customer, error)
}

type ServiceResolver interface {
	Get(ctx context.Context, id uuid.UUID) (*catalog.Service, error)
}
