package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("service not found")
	ErrInUse    = errors.New("service is referenced by appointments")

	ErrInvalid         = errors.New("invalid service")
	ErrNameRequired    = fmt.Errorf("%w: name is required", ErrInvalid)
	ErrInvalidPrice    = fmt.Errorf("%w: price must be greater than zero", ErrInvalid)
	ErrInvalidDuration = fmt.Errorf("%w: duration must be between 0 and 1440 minutes", ErrInvalid)
)

type Repository interface {
	GetServiceByID(ctx context.Context, id uuid.UUID) (*Service, error)

	CreateService(ctx context.Context, s *Service) (*Service, error)
	UpdateService(ctx context.Context, s *Service) (*Service, error)
	SetServiceActive(ctx context.Context, id uuid.UUID, active bool) (*Service, error)
	DeleteService(ctx context.Context, id uuid.UUID) error

	ListServices(ctx context.Context) ([]Service, error)
	ListActiveServices(ctx context.Context) ([]Service, error)
	SearchServicesByName(ctx context.Context, fragment string) ([]Service, error)
	ListActiveServicesByPrice(ctx context.Context, min, max decimal.Decimal) ([]Service, error)
}
