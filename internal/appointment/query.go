package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Read-only projections. None of them take the timeline lock.

func (s *Service) ListAll(ctx context.Context) ([]Appointment, error) {
	return s.repo.ListAppointments(ctx, Filter{Order: Descending})
}

// ListToday returns appointments starting on the current calendar day in the
// salon's time zone.
func (s *Service) ListToday(ctx context.Context) ([]Appointment, error) {
	now := s.now().In(s.loc)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	dayEnd := dayStart.AddDate(0, 0, 1)
	return s.repo.ListAppointments(ctx, Filter{From: &dayStart, Before: &dayEnd, Order: Ascending})
}

func (s *Service) ListUpcoming(ctx context.Context) ([]Appointment, error) {
	now := s.now()
	return s.repo.ListAppointments(ctx, Filter{After: &now, Order: Ascending})
}

func (s *Service) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]Appointment, error) {
	return s.repo.ListAppointments(ctx, Filter{CustomerID: &customerID, Order: Descending})
}

func (s *Service) ListByService(ctx context.Context, serviceID uuid.UUID) ([]Appointment, error) {
	return s.repo.ListAppointments(ctx, Filter{ServiceID: &serviceID, Order: Descending})
}

func (s *Service) ListByStatus(ctx context.Context, status Status) ([]Appointment, error) {
	return s.repo.ListAppointments(ctx, Filter{Status: &status, Order: Ascending})
}

// ListByRange returns appointments whose start lies in [from, to].
func (s *Service) ListByRange(ctx context.Context, from, to time.Time) ([]Appointment, error) {
	return s.repo.ListAppointments(ctx, Filter{From: &from, To: &to, Order: Ascending})
}

// Location is the salon time zone the service validates against.
func (s *Service) Location() *time.Location {
	return s.loc
}
