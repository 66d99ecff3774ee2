package api

import (
	"errors"
	"net/http"

	"github.com/hackgods/salon-booking/internal/appointment"
	"github.com/hackgods/salon-booking/internal/customer"
)

type customerHandlers struct {
	customers    *customer.Manager
	appointments *appointment.Service
}

func (h customerHandlers) input(w http.ResponseWriter, r *http.Request) (customer.Input, bool) {
	var req CustomerRequest
	if !decodeJSON(w, r, &req) {
		return customer.Input{}, false
	}
	return customer.Input{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}, true
}

func (h customerHandlers) create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.input(w, r)
	if !ok {
		return
	}

	c, err := h.customers.Register(r.Context(), in)
	if err != nil {
		handleCustomerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCustomerResponse(c))
}

func (h customerHandlers) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	in, ok := h.input(w, r)
	if !ok {
		return
	}

	c, err := h.customers.Update(r.Context(), id, in)
	if err != nil {
		handleCustomerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toCustomerResponse(c))
}

func (h customerHandlers) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	c, err := h.customers.Get(r.Context(), id)
	if err != nil {
		handleCustomerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toCustomerResponse(c))
}

func (h customerHandlers) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.customers.Delete(r.Context(), id); err != nil {
		handleCustomerError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h customerHandlers) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		list []customer.Customer
		err  error
	)
	switch {
	case q.Get("name") != "":
		list, err = h.customers.SearchByName(r.Context(), q.Get("name"))
	case q.Get("phone") != "":
		list, err = h.customers.SearchByPhone(r.Context(), q.Get("phone"))
	default:
		list, err = h.customers.List(r.Context())
	}
	if err != nil {
		handleCustomerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toCustomerList(list))
}

func (h customerHandlers) appointmentsOf(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	exists, err := h.customers.Exists(r.Context(), id)
	if err != nil {
		handleCustomerError(w, r, err)
		return
	}
	if !exists {
		handleCustomerError(w, r, customer.ErrNotFound)
		return
	}

	list, err := h.appointments.ListByCustomer(r.Context(), id)
	if err != nil {
		handleAppointmentError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toAppointmentList(list))
}

func handleCustomerError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, customer.ErrNotFound):
		writeError(w, http.StatusNotFound, "customer_not_found", err.Error())
	case errors.Is(err, customer.ErrDuplicateEmail):
		writeError(w, http.StatusUnprocessableEntity, "duplicate_email", err.Error())
	case errors.Is(err, customer.ErrInvalid):
		writeError(w, http.StatusUnprocessableEntity, "validation_failed", err.Error())
	case errors.Is(err, customer.ErrInUse):
		writeError(w, http.StatusConflict, "customer_in_use", err.Error())
	default:
		writeInternal(w, r, err)
	}
}
