// Package memstore keeps customers, services and appointments in process
// memory. It backs STORAGE=memory and the package tests; data is lost on exit.
package memstore

import (
	"sync"

	"github.com/google/uuid"

	"github.com/hackgods/salon-booking/internal/appointment"
	"github.com/hackgods/salon-booking/internal/catalog"
	"github.com/hackgods/salon-booking/internal/customer"
)

// Store holds every table behind one lock so cross-table rules (an
// appointment must reference existing rows, deletes are restricted) hold.
type Store struct {
	mu           sync.RWMutex
	customers    map[uuid.UUID]customer.Customer
	services     map[uuid.UUID]catalog.Service
	appointments map[uuid.UUID]appointment.Appointment
	events       []appointment.EventLog
	nextEventID  int64
}

func New() *Store {
	return &Store{
		customers:    make(map[uuid.UUID]customer.Customer),
		services:     make(map[uuid.UUID]catalog.Service),
		appointments: make(map[uuid.UUID]appointment.Appointment),
	}
}

func (s *Store) Customers() *Customers       { return &Customers{s: s} }
func (s *Store) Services() *Services         { return &Services{s: s} }
func (s *Store) Appointments() *Appointments { return &Appointments{s: s} }

// Events returns a copy of the recorded appointment events.
func (s *Store) Events() []appointment.EventLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]appointment.EventLog, len(s.events))
	copy(out, s.events)
	return out
}
