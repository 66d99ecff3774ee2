package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/hackgods/salon-booking/internal/appointment"
	"github.com/hackgods/salon-booking/internal/catalog"
)

type serviceHandlers struct {
	catalog      *catalog.Manager
	appointments *appointment.Service
}

func (h serviceHandlers) create(w http.ResponseWriter, r *http.Request) {
	var req ServiceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	svc, err := h.catalog.Create(r.Context(), catalog.Input(req))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toServiceResponse(svc))
}

func (h serviceHandlers) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req ServiceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	svc, err := h.catalog.Update(r.Context(), id, catalog.Input(req))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toServiceResponse(svc))
}

func (h serviceHandlers) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	svc, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toServiceResponse(svc))
}

func (h serviceHandlers) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.catalog.Delete(r.Context(), id); err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h serviceHandlers) setActive(active bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathUUID(w, r, "id")
		if !ok {
			return
		}

		var (
			svc *catalog.Service
			err error
		)
		if active {
			svc, err = h.catalog.Activate(r.Context(), id)
		} else {
			svc, err = h.catalog.Deactivate(r.Context(), id)
		}
		if err != nil {
			handleServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, toServiceResponse(svc))
	}
}

// list: a price range implies active services only, as does active=true.
func (h serviceHandlers) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ctx := r.Context()

	var (
		list []catalog.Service
		err  error
	)

	switch {
	case q.Get("min_price") != "" || q.Get("max_price") != "":
		lo, perr := parsePrice(q.Get("min_price"), decimal.Zero)
		if perr != nil {
			writeError(w, http.StatusBadRequest, "invalid_min_price", perr.Error())
			return
		}
		hi, perr := parsePrice(q.Get("max_price"), decimal.New(1, 9))
		if perr != nil {
			writeError(w, http.StatusBadRequest, "invalid_max_price", perr.Error())
			return
		}
		list, err = h.catalog.ListByPriceRange(ctx, lo, hi)

	case q.Get("name") != "":
		list, err = h.catalog.SearchByName(ctx, q.Get("name"))

	case q.Get("active") != "":
		active, perr := strconv.ParseBool(q.Get("active"))
		if perr != nil {
			writeError(w, http.StatusBadRequest, "invalid_active", "active must be true or false")
			return
		}
		if active {
			list, err = h.catalog.ListActive(ctx)
		} else {
			list, err = h.catalog.ListAll(ctx)
		}

	default:
		list, err = h.catalog.ListAll(ctx)
	}

	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toServiceList(list))
}

func (h serviceHandlers) appointmentsOf(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	exists, err := h.catalog.Exists(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if !exists {
		handleServiceError(w, r, catalog.ErrNotFound)
		return
	}

	list, err := h.appointments.ListByService(r.Context(), id)
	if err != nil {
		handleAppointmentError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toAppointmentList(list))
}

func parsePrice(raw string, fallback decimal.Decimal) (decimal.Decimal, error) {
	if raw == "" {
		return fallback, nil
	}
	return decimal.NewFromString(raw)
}

func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, "service_not_found", err.Error())
	case errors.Is(err, catalog.ErrInvalid):
		writeError(w, http.StatusUnprocessableEntity, "validation_failed", err.Error())
	case errors.Is(err, catalog.ErrInUse):
		writeError(w, http.StatusConflict, "service_in_use", err.Error())
	default:
		writeInternal(w, r, err)
	}
}
