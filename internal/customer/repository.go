package customer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("customer not found")
	ErrInUse    = errors.New("customer still has appointments")

	ErrInvalid        = errors.New("invalid customer")
	ErrNameRequired   = fmt.Errorf("%w: name is required", ErrInvalid)
	ErrEmailRequired  = fmt.Errorf("%w: email is required", ErrInvalid)
	ErrDuplicateEmail = fmt.Errorf("%w: a customer with this email already exists", ErrInvalid)
)

type Repository interface {
	GetCustomerByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	GetCustomerByEmail(ctx context.Context, email string) (*Customer, error)

	CreateCustomer(ctx context.Context, c *Customer) (*Customer, error)
	UpdateCustomer(ctx context.Context, c *Customer) (*Customer, error)
	DeleteCustomer(ctx context.Context, id uuid.UUID) error

	// Listing, ordered by name unless stated otherwise
	ListCustomers(ctx context.Context) ([]Customer, error)
	SearchCustomersByName(ctx context.Context, fragment string) ([]Customer, error)
	ListCustomersByPhone(ctx context.Context, phone string) ([]Customer, error)
	ListCustomersRegisteredBetween(ctx context.Context, from, to time.Time) ([]Customer, error)
}
