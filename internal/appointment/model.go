package appointment

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hackgods/salon-booking/internal/catalog"
	"github.com/hackgods/salon-booking/internal/customer"
)

type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
	StatusNoShow    Status = "NO_SHOW"
)

var statusAliases = map[string]Status{
	"AGENDADO":       StatusScheduled,
	"CONFIRMADO":     StatusConfirmed,
	"CANCELADO":      StatusCancelled,
	"REALIZADO":      StatusCompleted,
	"NAO_COMPARECEU": StatusNoShow,
}

var statusDescriptions = map[Status]string{
	StatusScheduled: "Agendado",
	StatusConfirmed: "Confirmado",
	StatusCancelled: "Cancelado",
	StatusCompleted: "Realizado",
	StatusNoShow:    "Não Compareceu",
}

// ParseStatus accepts the stored value or its Portuguese name, any case.
func ParseStatus(raw string) (Status, error) {
	key := strings.ToUpper(strings.TrimSpace(raw))
	key = strings.ReplaceAll(key, "-", "_")
	if s, ok := statusAliases[key]; ok {
		return s, nil
	}
	if _, ok := statusDescriptions[Status(key)]; ok {
		return Status(key), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
}

// Active reports whether an appointment in this status holds its slot.
func (s Status) Active() bool {
	return s != StatusCancelled && s != StatusNoShow
}

func (s Status) Description() string {
	return statusDescriptions[s]
}

type Appointment struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	ServiceID  uuid.UUID
	StartTime  time.Time
	EndTime    time.Time
	Price      decimal.Decimal // captured from the service when booked
	Status     Status
	Notes      string
	CreatedAt  time.Time
}

type EventLog struct {
	ID            int64
	EventType     string
	AppointmentID *uuid.UUID
	Payload       []byte
	CreatedAt     time.Time
}

type AppointmentDetail struct {
	Appointment
	Customer *customer.Customer
	Service  *catalog.Service
}

// SortOrder is applied to start_time.
type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

// Filter narrows ListAppointments. Nil fields do not constrain the result.
type Filter struct {
	CustomerID *uuid.UUID
	ServiceID  *uuid.UUID
	Status     *Status
	From       *time.Time // start_time >= From
	To         *time.Time // start_time <= To
	After      *time.Time // start_time > After
	Before     *time.Time // start_time < Before
	Order      SortOrder
}

// Matches applies the filter to a single appointment. In-memory stores use
// it; the Postgres repository translates the same fields into SQL.
func (f Filter) Matches(a *Appointment) bool {
	switch {
	case f.CustomerID != nil && a.CustomerID != *f.CustomerID:
		return false
	case f.ServiceID != nil && a.ServiceID != *f.ServiceID:
		return false
	case f.Status != nil && a.Status != *f.Status:
		return false
	case f.From != nil && a.StartTime.Before(*f.From):
		return false
	case f.To != nil && a.StartTime.After(*f.To):
		return false
	case f.After != nil && !a.StartTime.After(*f.After):
		return false
	case f.Before != nil && !a.StartTime.Before(*f.Before):
		return false
	}
	return true
}
