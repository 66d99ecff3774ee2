package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hackgods/salon-booking/internal/appointment"
	"github.com/hackgods/salon-booking/internal/catalog"
	"github.com/hackgods/salon-booking/internal/customer"
)

type AppointmentRequest struct {
	CustomerID string `json:"customer_id"`
	ServiceID  string `json:"service_id"`
	StartTime  string `json:"start_time"`
	Notes      string `json:"notes"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type AppointmentResponse struct {
	ID                uuid.UUID         `json:"id"`
	CustomerID        uuid.UUID         `json:"customer_id"`
	ServiceID         uuid.UUID         `json:"service_id"`
	StartTime         time.Time         `json:"start_time"`
	EndTime           time.Time         `json:"end_time"`
	Price             string            `json:"price"`
	Status            string            `json:"status"`
	StatusDescription string            `json:"status_description"`
	Notes             string            `json:"notes,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	Customer          *CustomerResponse `json:"customer,omitempty"`
	Service           *ServiceResponse  `json:"service,omitempty"`
}

type CustomerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type CustomerResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`
}

type ServiceRequest struct {
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	DurationMinutes *int            `json:"duration_minutes"`
	Active          *bool           `json:"active"`
}

type ServiceResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Price           string    `json:"price"`
	DurationMinutes *int      `json:"duration_minutes"`
	Active          bool      `json:"active"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func toAppointmentResponse(a *appointment.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:                a.ID,
		CustomerID:        a.CustomerID,
		ServiceID:         a.ServiceID,
		StartTime:         a.StartTime,
		EndTime:           a.EndTime,
		Price:             a.Price.StringFixed(2),
		Status:            string(a.Status),
		StatusDescription: a.Status.Description(),
		Notes:             a.Notes,
		CreatedAt:         a.CreatedAt,
	}
}

func toAppointmentList(list []appointment.Appointment) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(list))
	for i := range list {
		out = append(out, toAppointmentResponse(&list[i]))
	}
	return out
}

func toCustomerResponse(c *customer.Customer) CustomerResponse {
	return CustomerResponse{
		ID:           c.ID,
		Name:         c.Name,
		Email:        c.Email,
		Phone:        c.Phone,
		Address:      c.Address,
		RegisteredAt: c.RegisteredAt,
	}
}

func toCustomerList(list []customer.Customer) []CustomerResponse {
	out := make([]CustomerResponse, 0, len(list))
	for i := range list {
		out = append(out, toCustomerResponse(&list[i]))
	}
	return out
}

func toServiceResponse(s *catalog.Service) ServiceResponse {
	return ServiceResponse{
		ID:              s.ID,
		Name:            s.Name,
		Description:     s.Description,
		Price:           s.Price.StringFixed(2),
		DurationMinutes: s.DurationMinutes,
		Active:          s.Active,
	}
}

func toServiceList(list []catalog.Service) []ServiceResponse {
	out := make([]ServiceResponse, 0, len(list))
	for i := range list {
		out = append(out, toServiceResponse(&list[i]))
	}
	return out
}
