package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/robertarktes/holidaze-gateway/internal/domain"
	"github.com/robertarktes/holidaze-gateway/internal/outbox"
	"github.com/robertarktes/holidaze-gateway/internal/session"
)

func (h *Handlers) GetBooking(w http.ResponseWriter, r *http.Request) {
	b, err := h.clientFor(r).GetBooking(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if b == nil {
		h.writeError(w, r, domain.ErrNotFound)
		return
	}
	writeData(w, http.StatusOK, b)
}

func (h *Handlers) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	var form domain.BookingUpdateForm
	if err := decodeJSON(w, r, &form); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := form.Validate(); err != nil {
		h.writeError(w, r, err)
		return
	}

	b, err := h.clientFor(r).UpdateBooking(r.Context(), chi.URLParam(r, "id"), form)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	s, _ := session.FromContext(r.Context())
	h.outbox.Enqueue(outbox.NewBookingEvent(outbox.BookingUpdated, s.Name, b))
	writeData(w, http.StatusOK, b)
}

func (h *Handlers) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.clientFor(r).DeleteBooking(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	s, _ := session.FromContext(r.Context())
	h.outbox.Enqueue(outbox.NewBookingEvent(outbox.BookingCancelled, s.Name, &domain.Booking{ID: id}))
	w.WriteHeader(http.StatusNoContent)
}
