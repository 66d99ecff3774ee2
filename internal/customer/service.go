package customer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Manager owns customer registration and edits. Every write validates its
// input first, so a rejected call never touches the repository.
type Manager struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewManager(repo Repository, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{repo: repo, logger: logger, now: time.Now}
}

// WithClock replaces the clock used for registration timestamps.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

func normalize(in Input) (Input, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)

	if in.Name == "" {
		return in, ErrNameRequired
	}
	if in.Email == "" {
		return in, ErrEmailRequired
	}
	return in, nil
}

// Register validates and stores a new customer.
func (m *Manager) Register(ctx context.Context, in Input) (*Customer, error) {
	in, err := normalize(in)
	if err != nil {
		return nil, err
	}

	if _, err := m.repo.GetCustomerByEmail(ctx, in.Email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	c, err := m.repo.CreateCustomer(ctx, &Customer{
		ID:           uuid.New(),
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		Address:      in.Address,
		RegisteredAt: m.now(),
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("create customer: %w", err)
	}

	m.logger.Info("customer registered", "customer_id", c.ID)
	return c, nil
}

// Update overwrites the editable fields. The email may stay the same but must
// not belong to a different customer.
func (m *Manager) Update(ctx context.Context, id uuid.UUID, in Input) (*Customer, error) {
	existing, err := m.repo.GetCustomerByID(ctx, id)
	if err != nil {
		return nil, err
	}

	in, err = normalize(in)
	if err != nil {
		return nil, err
	}

	other, err := m.repo.GetCustomerByEmail(ctx, in.Email)
	switch {
	case err == nil && other.ID != id:
		return nil, ErrDuplicateEmail
	case err != nil && !errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("check email: %w", err)
	}

	existing.Name = in.Name
	existing.Email = in.Email
	existing.Phone = in.Phone
	existing.Address = in.Address

	updated, err := m.repo.UpdateCustomer(ctx, existing)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) || errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update customer: %w", err)
	}
	return updated, nil
}

func (m *Manager) Get(ctx context.Context, id uuid.UUID) (*Customer, error) {
	return m.repo.GetCustomerByID(ctx, id)
}

func (m *Manager) GetByEmail(ctx context.Context, email string) (*Customer, error) {
	return m.repo.GetCustomerByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (m *Manager) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := m.repo.GetCustomerByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (m *Manager) List(ctx context.Context) ([]Customer, error) {
	return m.repo.ListCustomers(ctx)
}

func (m *Manager) SearchByName(ctx context.Context, fragment string) ([]Customer, error) {
	return m.repo.SearchCustomersByName(ctx, strings.TrimSpace(fragment))
}

func (m *Manager) SearchByPhone(ctx context.Context, phone string) ([]Customer, error) {
	return m.repo.ListCustomersByPhone(ctx, strings.TrimSpace(phone))
}

func (m *Manager) RegisteredBetween(ctx context.Context, from, to time.Time) ([]Customer, error) {
	return m.repo.ListCustomersRegisteredBetween(ctx, from, to)
}

func (m *Manager) Delete(ctx context.Context, id uuid.UUID) error {
	if err := m.repo.DeleteCustomer(ctx, id); err != nil {
		return err
	}
	m.logger.Info("customer deleted", "customer_id", id)
	return nil
}
