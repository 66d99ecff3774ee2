package customer

import (
	"time"

	"github.com/google/uuid"
)

type Customer struct {
	ID           uuid.UUID
	Name         string
	Email        string
	Phone        string
	Address      string
	RegisteredAt time.Time
}

// Input carries the editable fields of a customer.
type Input struct {
	Name    string
	Email   string
	Phone   string
	Address string
}
