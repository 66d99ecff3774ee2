package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/hackgods/salon-booking/internal/appointment"
)

type appointmentHandlers struct {
	svc *appointment.Service
}

func (h appointmentHandlers) input(w http.ResponseWriter, r *http.Request) (appointment.CreateInput, bool) {
	var req AppointmentRequest
	if !decodeJSON(w, r, &req) {
		return appointment.CreateInput{}, false
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_customer_id", "customer_id must be a valid UUID")
		return appointment.CreateInput{}, false
	}

	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_service_id", "service_id must be a valid UUID")
		return appointment.CreateInput{}, false
	}

	start, err := parseTimestamp(req.StartTime, h.svc.Location())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_start_time", err.Error())
		return appointment.CreateInput{}, false
	}

	return appointment.CreateInput{
		CustomerID: customerID,
		ServiceID:  serviceID,
		Start:      start,
		Notes:      req.Notes,
	}, true
}

func (h appointmentHandlers) create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.input(w, r)
	if !ok {
		return
	}

	appt, err := h.svc.Create(r.Context(), in)
	if err != nil {
		handleAppointmentError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAppointmentResponse(appt))
}

func (h appointmentHandlers) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	in, ok := h.input(w, r)
	if !ok {
		return
	}

	appt, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		handleAppointmentError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
}

func (h appointmentHandlers) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	detail, err := h.svc.GetDetail(r.Context(), id)
	if err != nil {
		handleAppointmentError(w, r, err)
		return
	}

	resp := toAppointmentResponse(&detail.Appointment)
	if detail.Customer != nil {
		c := toCustomerResponse(detail.Customer)
		resp.Customer = &c
	}
	if detail.Service != nil {
		s := toServiceResponse(detail.Service)
		resp.Service = &s
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h appointmentHandlers) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		handleAppointmentError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// list picks a single query: view first, then customer_id, service_id,
// status and finally a from/to range. No parameters lists everything.
func (h appointmentHandlers) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ctx := r.Context()

	var (
		list []appointment.Appointment
		err  error
	)

	switch {
	case q.Get("view") != "":
		switch strings.ToLower(q.Get("view")) {
		case "today":
			list, err = h.svc.ListToday(ctx)
		case "upcoming":
			list, err = h.svc.ListUpcoming(ctx)
		default:
			writeError(w, http.StatusBadRequest, "invalid_view", "view must be today or upcoming")
			return
		}

	case q.Get("customer_id") != "":
		id, perr := uuid.Parse(q.Get("customer_id"))
		if perr != nil {
			writeError(w, http.StatusBadRequest, "invalid_customer_id", "customer_id must be a valid UUID")
			return
		}
		list, err = h.svc.ListByCustomer(ctx, id)

	case q.Get("service_id") != "":
		id, perr := uuid.Parse(q.Get("service_id"))
		if perr != nil {
			writeError(w, http.StatusBadRequest, "invalid_service_id", "service_id must be a valid UUID")
			return
		}
		list, err = h.svc.ListByService(ctx, id)

	case q.Get("status") != "":
		status, perr := appointment.ParseStatus(q.Get("status"))
		if perr != nil {
			writeError(w, http.StatusBadRequest, "invalid_status", perr.Error())
			return
		}
		list, err = h.svc.ListByStatus(ctx, status)

	case q.Get("from") != "" || q.Get("to") != "":
		if q.Get("from") == "" || q.Get("to") == "" {
			writeError(w, http.StatusBadRequest, "invalid_range", "both from and to are required")
			return
		}
		from, perr := parseTimestamp(q.Get("from"), h.svc.Location())
		if perr != nil {
			writeError(w, http.StatusBadRequest, "invalid_from", perr.Error())
			return
		}
		to, perr := parseTimestamp(q.Get("to"), h.svc.Location())
		if perr != nil {
			writeError(w, http.StatusBadRequest, "invalid_to", perr.Error())
			return
		}
		list, err = h.svc.ListByRange(ctx, from, to)

	default:
		list, err = h.svc.ListAll(ctx)
	}

	if err != nil {
		handleAppointmentError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toAppointmentList(list))
}

// setStatus accepts canonical names and the Portuguese aliases.
func (h appointmentHandlers) setStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req StatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	status, err := appointment.ParseStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_status", err.Error())
		return
	}

	appt, err := h.svc.SetStatus(r.Context(), id, status)
	if err != nil {
		handleAppointmentError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
}

type statusOp func(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error)

// transition wraps one of the fixed status shortcuts (cancel, confirm...).
func (h appointmentHandlers) transition(op statusOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathUUID(w, r, "id")
		if !ok {
			return
		}

		appt, err := op(r.Context(), id)
		if err != nil {
			handleAppointmentError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

func handleAppointmentError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, appointment.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, appointment.ErrCustomerNotFound):
		writeError(w, http.StatusNotFound, "customer_not_found", err.Error())
	case errors.Is(err, appointment.ErrServiceNotFound):
		writeError(w, http.StatusNotFound, "service_not_found", err.Error())
	case errors.Is(err, appointment.ErrInPast):
		writeError(w, http.StatusUnprocessableEntity, "in_past", err.Error())
	case errors.Is(err, appointment.ErrTooFarFuture):
		writeError(w, http.StatusUnprocessableEntity, "too_far_future", err.Error())
	case errors.Is(err, appointment.ErrOutsideBusinessHours):
		writeError(w, http.StatusUnprocessableEntity, "outside_business_hours", err.Error())
	case errors.Is(err, appointment.ErrInvalidWindow):
		writeError(w, http.StatusUnprocessableEntity, "invalid_window", err.Error())
	case errors.Is(err, appointment.ErrSchedulingConflict):
		writeError(w, http.StatusConflict, "slot_already_booked", err.Error())
	case errors.Is(err, appointment.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "invalid_status", err.Error())
	case errors.Is(err, appointment.ErrTimelineBusy):
		writeError(w, http.StatusServiceUnavailable, "timeline_busy", err.Error())
	default:
		writeInternal(w, r, err)
	}
}
