package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hackgods/salon-booking/internal/catalog"
)

type Services struct {
	s *Store
}

var _ catalog.Repository = (*Services)(nil)

func cloneService(svc catalog.Service) *catalog.Service {
	if svc.DurationMinutes != nil {
		d := *svc.DurationMinutes
		svc.DurationMinutes = &d
	}
	return &svc
}

func (r *Services) GetServiceByID(_ context.Context, id uuid.UUID) (*catalog.Service, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	svc, ok := r.s.services[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return cloneService(svc), nil
}

func (r *Services) CreateService(_ context.Context, svc *catalog.Service) (*catalog.Service, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := cloneService(*svc)
	r.s.services[svc.ID] = *stored
	return cloneService(*stored), nil
}

func (r *Services) UpdateService(_ context.Context, svc *catalog.Service) (*catalog.Service, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.services[svc.ID]; !ok {
		return nil, catalog.ErrNotFound
	}
	stored := cloneService(*svc)
	r.s.services[svc.ID] = *stored
	return cloneService(*stored), nil
}

func (r *Services) SetServiceActive(_ context.Context, id uuid.UUID, active bool) (*catalog.Service, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	svc, ok := r.s.services[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	svc.Active = active
	r.s.services[id] = svc
	return cloneService(svc), nil
}

func (r *Services) DeleteService(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.services[id]; !ok {
		return catalog.ErrNotFound
	}
	for _, a := range r.s.appointments {
		if a.ServiceID == id {
			return catalog.ErrInUse
		}
	}
	delete(r.s.services, id)
	return nil
}

func (r *Services) list(keep func(catalog.Service) bool) []catalog.Service {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []catalog.Service
	for _, svc := range r.s.services {
		if keep(svc) {
			out = append(out, *cloneService(svc))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *Services) ListServices(_ context.Context) ([]catalog.Service, error) {
	return r.list(func(catalog.Service) bool { return true }), nil
}

func (r *Services) ListActiveServices(_ context.Context) ([]catalog.Service, error) {
	return r.list(func(svc catalog.Service) bool { return svc.Active }), nil
}

func (r *Services) SearchServicesByName(_ context.Context, fragment string) ([]catalog.Service, error) {
	fragment = strings.ToLower(fragment)
	return r.list(func(svc catalog.Service) bool {
		return strings.Contains(strings.ToLower(svc.Name), fragment)
	}), nil
}

func (r *Services) ListActiveServicesByPrice(_ context.Context, min, max decimal.Decimal) ([]catalog.Service, error) {
	out := r.list(func(svc catalog.Service) bool {
		return svc.Active && svc.Price.GreaterThanOrEqual(min) && svc.Price.LessThanOrEqual(max)
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Price.LessThan(out[j].Price) })
	return out, nil
}
