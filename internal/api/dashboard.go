package api

import (
	"net/http"

	"github.com/hackgods/salon-booking/internal/appointment"
	"github.com/hackgods/salon-booking/internal/catalog"
	"github.com/hackgods/salon-booking/internal/customer"
)

type DashboardResponse struct {
	Today          []AppointmentResponse `json:"today"`
	Upcoming       []AppointmentResponse `json:"upcoming"`
	TotalCustomers int                   `json:"total_customers"`
	ActiveServices int                   `json:"active_services"`
}

type dashboardHandler struct {
	appointments *appointment.Service
	customers    *customer.Manager
	catalog      *catalog.Manager
}

// summary is the front-desk landing view.
func (h dashboardHandler) summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	today, err := h.appointments.ListToday(ctx)
	if err != nil {
		writeInternal(w, r, err)
		return
	}
	upcoming, err := h.appointments.ListUpcoming(ctx)
	if err != nil {
		writeInternal(w, r, err)
		return
	}
	customers, err := h.customers.List(ctx)
	if err != nil {
		writeInternal(w, r, err)
		return
	}
	active, err := h.catalog.ListActive(ctx)
	if err != nil {
		writeInternal(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, DashboardResponse{
		Today:          toAppointmentList(today),
		Upcoming:       toAppointmentList(upcoming),
		TotalCustomers: len(customers),
		ActiveServices: len(active),
	})
}
