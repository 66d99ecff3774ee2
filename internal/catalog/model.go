package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service is something the salon sells, e.g. a haircut or a manicure.
type Service struct {
	ID              uuid.UUID
	Name            string
	Description     string
	Price           decimal.Decimal
	DurationMinutes *int // nil means an instant service
	Active          bool
}

// Duration is zero when the service has no duration set.
func (s *Service) Duration() time.Duration {
	if s.DurationMinutes == nil {
		return 0
	}
	return time.Duration(*s.DurationMinutes) * time.Minute
}

type Input struct {
	Name            string
	Description     string
	Price           decimal.Decimal
	DurationMinutes *int
	Active          *bool // nil keeps the current value on update, true on create
}
