package memstore

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/salon-booking/internal/customer"
)

type Customers struct {
	s *Store
}

var _ customer.Repository = (*Customers)(nil)

func (r *Customers) GetCustomerByID(_ context.Context, id uuid.UUID) (*customer.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, customer.ErrNotFound
	}
	return &c, nil
}

func (r *Customers) GetCustomerByEmail(_ context.Context, email string) (*customer.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.customers {
		if c.Email == email {
			return &c, nil
		}
	}
	return nil, customer.ErrNotFound
}

func (r *Customers) emailTakenLocked(email string, except uuid.UUID) bool {
	for id, c := range r.s.customers {
		if id != except && c.Email == email {
			return true
		}
	}
	return false
}

func (r *Customers) CreateCustomer(_ context.Context, c *customer.Customer) (*customer.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.emailTakenLocked(c.Email, uuid.Nil) {
		return nil, customer.ErrDuplicateEmail
	}
	stored := *c
	r.s.customers[c.ID] = stored
	return &stored, nil
}

func (r *Customers) UpdateCustomer(_ context.Context, c *customer.Customer) (*customer.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.customers[c.ID]
	if !ok {
		return nil, customer.ErrNotFound
	}
	if r.emailTakenLocked(c.Email, c.ID) {
		return nil, customer.ErrDuplicateEmail
	}
	existing.Name = c.Name
	existing.Email = c.Email
	existing.Phone = c.Phone
	existing.Address = c.Address
	r.s.customers[c.ID] = existing
	return &existing, nil
}

func (r *Customers) DeleteCustomer(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers[id]; !ok {
		return customer.ErrNotFound
	}
	for _, a := range r.s.appointments {
		if a.CustomerID == id {
			return customer.ErrInUse
		}
	}
	delete(r.s.customers, id)
	return nil
}

func (r *Customers) list(keep func(customer.Customer) bool) []customer.Customer {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []customer.Customer
	for _, c := range r.s.customers {
		if keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *Customers) ListCustomers(_ context.Context) ([]customer.Customer, error) {
	return r.list(func(customer.Customer) bool { return true }), nil
}

func (r *Customers) SearchCustomersByName(_ context.Context, fragment string) ([]customer.Customer, error) {
	fragment = strings.ToLower(fragment)
	return r.list(func(c customer.Customer) bool {
		return strings.Contains(strings.ToLower(c.Name), fragment)
	}), nil
}

func (r *Customers) ListCustomersByPhone(_ context.Context, phone string) ([]customer.Customer, error) {
	return r.list(func(c customer.Customer) bool { return c.Phone == phone }), nil
}

func (r *Customers) ListCustomersRegisteredBetween(_ context.Context, from, to time.Time) ([]customer.Customer, error) {
	out := r.list(func(c customer.Customer) bool {
		return !c.RegisteredAt.Before(from) && !c.RegisteredAt.After(to)
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].RegisteredAt.Before(out[j].RegisteredAt) })
	return out, nil
}
