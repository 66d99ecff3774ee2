package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Manager handles the staff-facing service catalog.
type Manager struct {
	repo   Repository
	logger *slog.Logger
}

func NewManager(repo Repository, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{repo: repo, logger: logger}
}

// MaxDurationMinutes caps a single service at one day.
const MaxDurationMinutes = 24 * 60

func validate(in Input) (Input, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Price = in.Price.Round(2)

	if in.Name == "" {
		return in, ErrNameRequired
	}
	if !in.Price.GreaterThan(decimal.Zero) {
		return in, ErrInvalidPrice
	}
	if in.DurationMinutes != nil && (*in.DurationMinutes < 0 || *in.DurationMinutes > MaxDurationMinutes) {
		return in, ErrInvalidDuration
	}
	return in, nil
}

func (m *Manager) Create(ctx context.Context, in Input) (*Service, error) {
	in, err := validate(in)
	if err != nil {
		return nil, err
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}

	s, err := m.repo.CreateService(ctx, &Service{
		ID:              uuid.New(),
		Name:            in.Name,
		Description:     in.Description,
		Price:           in.Price,
		DurationMinutes: in.DurationMinutes,
		Active:          active,
	})
	if err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}

	m.logger.Info("service created", "service_id", s.ID, "price", s.Price.StringFixed(2))
	return s, nil
}

// Update overwrites name, description, price, duration and, when given, the
// active flag. Appointments already booked keep the price they captured.
func (m *Manager) Update(ctx context.Context, id uuid.UUID, in Input) (*Service, error) {
	existing, err := m.repo.GetServiceByID(ctx, id)
	if err != nil {
		return nil, err
	}

	in, err = validate(in)
	if err != nil {
		return nil, err
	}

	existing.Name = in.Name
	existing.Description = in.Description
	existing.Price = in.Price
	existing.DurationMinutes = in.DurationMinutes
	if in.Active != nil {
		existing.Active = *in.Active
	}

	updated, err := m.repo.UpdateService(ctx, existing)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update service: %w", err)
	}
	return updated, nil
}

func (m *Manager) Get(ctx context.Context, id uuid.UUID) (*Service, error) {
	return m.repo.GetServiceByID(ctx, id)
}

func (m *Manager) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := m.repo.GetServiceByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (m *Manager) Activate(ctx context.Context, id uuid.UUID) (*Service, error) {
	return m.repo.SetServiceActive(ctx, id, true)
}

func (m *Manager) Deactivate(ctx context.Context, id uuid.UUID) (*Service, error) {
	return m.repo.SetServiceActive(ctx, id, false)
}

func (m *Manager) Delete(ctx context.Context, id uuid.UUID) error {
	if err := m.repo.DeleteService(ctx, id); err != nil {
		return err
	}
	m.logger.Info("service deleted", "service_id", id)
	return nil
}

func (m *Manager) ListAll(ctx context.Context) ([]Service, error) {
	return m.repo.ListServices(ctx)
}

func (m *Manager) ListActive(ctx context.Context) ([]Service, error) {
	return m.repo.ListActiveServices(ctx)
}

func (m *Manager) SearchByName(ctx context.Context, fragment string) ([]Service, error) {
	return m.repo.SearchServicesByName(ctx, strings.TrimSpace(fragment))
}

// ListByPriceRange returns active services priced within [min, max].
func (m *Manager) ListByPriceRange(ctx context.Context, min, max decimal.Decimal) ([]Service, error) {
	if min.GreaterThan(max) {
		min, max = max, min
	}
	return m.repo.ListActiveServicesByPrice(ctx, min, max)
}
