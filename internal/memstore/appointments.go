package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/salon-booking/internal/appointment"
)

type Appointments struct {
	s *Store
}

var _ appointment.Repository = (*Appointments)(nil)

func (r *Appointments) GetAppointmentByID(_ context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.appointments[id]
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	return &a, nil
}

func (r *Appointments) HasConflict(_ context.Context, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return appointment.ConflictsWith(r.snapshotLocked(), start, end, excludeID), nil
}

func (r *Appointments) snapshotLocked() []appointment.Appointment {
	out := make([]appointment.Appointment, 0, len(r.s.appointments))
	for _, a := range r.s.appointments {
		out = append(out, a)
	}
	return out
}

// checkLocked mirrors the Postgres foreign keys and exclusion constraint.
func (r *Appointments) checkLocked(a *appointment.Appointment) error {
	if _, ok := r.s.customers[a.CustomerID]; !ok {
		return appointment.ErrCustomerNotFound
	}
	if _, ok := r.s.services[a.ServiceID]; !ok {
		return appointment.ErrServiceNotFound
	}
	if a.Status.Active() && appointment.ConflictsWith(r.snapshotLocked(), a.StartTime, a.EndTime, &a.ID) {
		return appointment.ErrSchedulingConflict
	}
	return nil
}

func (r *Appointments) CreateAppointment(_ context.Context, a *appointment.Appointment) (*appointment.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.checkLocked(a); err != nil {
		return nil, err
	}
	stored := *a
	r.s.appointments[a.ID] = stored
	return &stored, nil
}

func (r *Appointments) UpdateAppointment(_ context.Context, a *appointment.Appointment) (*appointment.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.appointments[a.ID]
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	existing.CustomerID = a.CustomerID
	existing.ServiceID = a.ServiceID
	existing.StartTime = a.StartTime
	existing.EndTime = a.EndTime
	existing.Price = a.Price
	existing.Notes = a.Notes
	if err := r.checkLocked(&existing); err != nil {
		return nil, err
	}
	r.s.appointments[a.ID] = existing
	return &existing, nil
}

func (r *Appointments) UpdateAppointmentStatus(_ context.Context, id uuid.UUID, status appointment.Status) (*appointment.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.appointments[id]
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	existing.Status = status
	if err := r.checkLocked(&existing); err != nil {
		return nil, err
	}
	r.s.appointments[id] = existing
	return &existing, nil
}

func (r *Appointments) DeleteAppointment(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.appointments[id]; !ok {
		return appointment.ErrAppointmentNotFound
	}
	delete(r.s.appointments, id)
	return nil
}

func (r *Appointments) ListAppointments(_ context.Context, f appointment.Filter) ([]appointment.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []appointment.Appointment
	for _, a := range r.s.appointments {
		if f.Matches(&a) {
			out = append(out, a)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.StartTime.Equal(b.StartTime) {
			if f.Order == appointment.Descending {
				return a.StartTime.After(b.StartTime)
			}
			return a.StartTime.Before(b.StartTime)
		}
		if f.Order == appointment.Descending {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return out, nil
}

func (r *Appointments) InsertEvent(_ context.Context, ev appointment.EventLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextEventID++
	ev.ID = r.s.nextEventID
	r.s.events = append(r.s.events, ev)
	return nil
}
