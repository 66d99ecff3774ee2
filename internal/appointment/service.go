package appointment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hackgods/salon-booking/internal/catalog"
	"github.com/hackgods/salon-booking/internal/customer"
	redisclient "github.com/hackgods/salon-booking/internal/redis"
)

const (
	EventAppointmentCreated       = "APPOINTMENT_CREATED"
	EventAppointmentUpdated       = "APPOINTMENT_UPDATED"
	EventAppointmentStatusChanged = "APPOINTMENT_STATUS_CHANGED"
	EventAppointmentDeleted       = "APPOINTMENT_DELETED"
)

var (
	ErrSchedulingConflict = errors.New("there is already an appointment at this time")
	ErrTimelineBusy       = errors.New("schedule is being changed by another request, please retry")
	ErrInvalidStatus      = errors.New("invalid appointment status")
)

var tracer = otel.Tracer("github.com/hackgods/salon-booking/internal/appointment")

type CreateInput struct {
	CustomerID uuid.UUID
	ServiceID  uuid.UUID
	Start      time.Time
	Notes      string
}

// UpdateInput has the same shape as CreateInput; status is not editable here.
type UpdateInput = CreateInput

type Service struct {
	repo      Repository
	customers CustomerResolver
	services  ServiceResolver
	locker    Locker
	logger    *slog.Logger
	loc       *time.Location
	now       func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the salon's time zone for business hours and "today".
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func NewService(repo Repository, customers CustomerResolver, services ServiceResolver, locker Locker, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		customers: customers,
		services:  services,
		locker:    locker,
		logger:    slog.Default(),
		loc:       time.Local,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.locker == nil {
		s.locker = NewLocalLocker()
	}
	return s
}

// booking is a validated, not yet persisted, timing for an appointment.
type booking struct {
	customer *customer.Customer
	service  *catalog.Service
	start    time.Time
	end      time.Time
}

// prepare resolves the parties and validates the window. It runs outside the
// timeline lock since none of it depends on other appointments.
func (s *Service) prepare(ctx context.Context, in CreateInput) (*booking, error) {
	c, err := s.customers.Get(ctx, in.CustomerID)
	if err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("load customer: %w", err)
	}

	svc, err := s.services.Get(ctx, in.ServiceID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("load service: %w", err)
	}

	if err := ValidateWindow(in.Start, s.now(), s.loc); err != nil {
		return nil, err
	}

	return &booking{
		customer: c,
		service:  svc,
		start:    in.Start,
		end:      in.Start.Add(svc.Duration()),
	}, nil
}

// withTimeline runs fn under the timeline lock and normalizes lock failures.
func (s *Service) withTimeline(ctx context.Context, fn func(ctx context.Context) error) error {
	err := s.locker.WithTimelineLock(ctx, fn)
	if errors.Is(err, redisclient.ErrLockNotAcquired) {
		return ErrTimelineBusy
	}
	return err
}

func (s *Service) checkConflict(ctx context.Context, start, end time.Time, excludeID *uuid.UUID) error {
	conflict, err := s.repo.HasConflict(ctx, start, end, excludeID)
	if err != nil {
		return err
	}
	if conflict {
		return ErrSchedulingConflict
	}
	return nil
}

// Create books a new appointment in SCHEDULED status. The conflict check and
// the insert run under the timeline lock.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Appointment, error) {
	ctx, span := tracer.Start(ctx, "appointment.Create", trace.WithAttributes(
		attribute.String("customer_id", in.CustomerID.String()),
		attribute.String("service_id", in.ServiceID.String()),
	))
	defer span.End()

	b, err := s.prepare(ctx, in)
	if err != nil {
		return nil, spanError(span, err)
	}

	var created *Appointment

	err = s.withTimeline(ctx, func(lockCtx context.Context) error {
		if err := s.checkConflict(lockCtx, b.start, b.end, nil); err != nil {
			return err
		}

		appt, err := s.repo.CreateAppointment(lockCtx, &Appointment{
			ID:         uuid.New(),
			CustomerID: b.customer.ID,
			ServiceID:  b.service.ID,
			StartTime:  b.start,
			EndTime:    b.end,
			Price:      b.service.Price,
			Status:     StatusScheduled,
			Notes:      strings.TrimSpace(in.Notes),
			CreatedAt:  s.now(),
		})
		if err != nil {
			if errors.Is(err, ErrSchedulingConflict) {
				return err
			}
			return fmt.Errorf("create appointment: %w", err)
		}

		created = appt

		s.logEvent(lockCtx, appt.ID, EventAppointmentCreated, map[string]any{
			"customer_id": appt.CustomerID.String(),
			"service_id":  appt.ServiceID.String(),
			"start_time":  appt.StartTime,
			"end_time":    appt.EndTime,
			"price":       appt.Price.StringFixed(2),
		})
		return nil
	})
	if err != nil {
		return nil, spanError(span, err)
	}

	s.logger.Info("appointment created",
		"appointment_id", created.ID,
		"start_time", created.StartTime,
		"end_time", created.EndTime,
	)
	return created, nil
}

// Update re-books an existing appointment. The appointment's own stored
// interval is excluded from the conflict check; status is left alone.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Appointment, error) {
	ctx, span := tracer.Start(ctx, "appointment.Update", trace.WithAttributes(
		attribute.String("appointment_id", id.String()),
	))
	defer span.End()

	existing, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, spanError(span, err)
	}

	b, err := s.prepare(ctx, in)
	if err != nil {
		return nil, spanError(span, err)
	}

	var updated *Appointment

	err = s.withTimeline(ctx, func(lockCtx context.Context) error {
		if err := s.checkConflict(lockCtx, b.start, b.end, &id); err != nil {
			return err
		}

		next := *existing
		next.CustomerID = b.customer.ID
		next.ServiceID = b.service.ID
		next.StartTime = b.start
		next.EndTime = b.end
		next.Price = b.service.Price
		next.Notes = strings.TrimSpace(in.Notes)

		appt, err := s.repo.UpdateAppointment(lockCtx, &next)
		if err != nil {
			if errors.Is(err, ErrSchedulingConflict) || errors.Is(err, ErrAppointmentNotFound) {
				return err
			}
			return fmt.Errorf("update appointment: %w", err)
		}

		updated = appt

		s.logEvent(lockCtx, appt.ID, EventAppointmentUpdated, map[string]any{
			"previous_start": existing.StartTime,
			"start_time":     appt.StartTime,
			"end_time":       appt.EndTime,
			"service_id":     appt.ServiceID.String(),
			"price":          appt.Price.StringFixed(2),
		})
		return nil
	})
	if err != nil {
		return nil, spanError(span, err)
	}

	return updated, nil
}

// SetStatus overwrites the status; any status may follow any other. Moving a
// cancelled or no-show appointment back to an active status re-checks its
// slot under the timeline lock, against the row as it is at that point.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status Status) (*Appointment, error) {
	ctx, span := tracer.Start(ctx, "appointment.SetStatus", trace.WithAttributes(
		attribute.String("appointment_id", id.String()),
		attribute.String("status", string(status)),
	))
	defer span.End()

	if _, ok := statusDescriptions[status]; !ok {
		return nil, spanError(span, fmt.Errorf("%w: %q", ErrInvalidStatus, status))
	}

	existing, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, spanError(span, err)
	}
	from := existing.Status

	apply := func(ctx context.Context, locked bool) error {
		if locked {
			// another writer may have moved or cancelled it since the first read
			current, err := s.repo.GetAppointmentByID(ctx, id)
			if err != nil {
				return err
			}
			existing, from = current, current.Status
			if !from.Active() {
				if err := s.checkConflict(ctx, current.StartTime, current.EndTime, &id); err != nil {
					return err
				}
			}
		}
		appt, err := s.repo.UpdateAppointmentStatus(ctx, id, status)
		if err != nil {
			if errors.Is(err, ErrSchedulingConflict) || errors.Is(err, ErrAppointmentNotFound) {
				return err
			}
			return fmt.Errorf("update appointment status: %w", err)
		}
		existing = appt
		return nil
	}

	// any write that leaves the appointment active may start blocking the slot
	if status.Active() {
		err = s.withTimeline(ctx, func(ctx context.Context) error { return apply(ctx, true) })
	} else {
		err = apply(ctx, false)
	}
	if err != nil {
		return nil, spanError(span, err)
	}

	s.logEvent(ctx, id, EventAppointmentStatusChanged, map[string]any{
		"from": string(from),
		"to":   string(existing.Status),
	})
	s.logger.Info("appointment status changed", "appointment_id", id, "from", from, "to", existing.Status)

	return existing, nil
}

func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.SetStatus(ctx, id, StatusCancelled)
}

func (s *Service) Confirm(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.SetStatus(ctx, id, StatusConfirmed)
}

func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.SetStatus(ctx, id, StatusCompleted)
}

func (s *Service) MarkNoShow(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.SetStatus(ctx, id, StatusNoShow)
}

// Delete removes an appointment permanently, whatever its status.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteAppointment(ctx, id); err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return err
		}
		return fmt.Errorf("delete appointment: %w", err)
	}

	s.logEvent(ctx, id, EventAppointmentDeleted, map[string]any{})
	s.logger.Info("appointment deleted", "appointment_id", id)
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetAppointmentByID(ctx, id)
}

// GetDetail retrieves an appointment together with its customer and service.
// A party that no longer resolves is left nil.
func (s *Service) GetDetail(ctx context.Context, id uuid.UUID) (*AppointmentDetail, error) {
	appt, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &AppointmentDetail{Appointment: *appt}

	c, err := s.customers.Get(ctx, appt.CustomerID)
	switch {
	case err == nil:
		detail.Customer = c
	case !errors.Is(err, customer.ErrNotFound):
		return nil, fmt.Errorf("load customer: %w", err)
	}

	svc, err := s.services.Get(ctx, appt.ServiceID)
	switch {
	case err == nil:
		detail.Service = svc
	case !errors.Is(err, catalog.ErrNotFound):
		return nil, fmt.Errorf("load service: %w", err)
	}

	return detail, nil
}

func (s *Service) logEvent(ctx context.Context, appointmentID uuid.UUID, eventType string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Warn("failed to marshal event payload", "event_type", eventType, "err", err)
		data = nil
	}

	apptID := appointmentID

	ev := EventLog{
		EventType:     eventType,
		AppointmentID: &apptID,
		Payload:       data,
		CreatedAt:     s.now(),
	}

	if err := s.repo.InsertEvent(ctx, ev); err != nil {
		s.logger.Warn("failed to insert event log",
			"event_type", eventType,
			"appointment_id", appointmentID,
			"err", err,
		)
	}
}

func spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
