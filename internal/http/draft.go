package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/robertarktes/holidaze-gateway/internal/booking"
	"github.com/robertarktes/holidaze-gateway/internal/domain"
	"github.com/robertarktes/holidaze-gateway/internal/idempotency"
	"github.com/robertarktes/holidaze-gateway/internal/observability"
	"github.com/robertarktes/holidaze-gateway/internal/outbox"
	"github.com/robertarktes/holidaze-gateway/internal/session"
)

type startDraftRequest struct {
	VenueID string `json:"venueId"`
}

type datesRequest struct {
	DateFrom *string `json:"dateFrom"`
	DateTo   *string `json:"dateTo"`
}

// calendarDate is the layout date pickers post; such dates are read as UTC
// midnight.
const calendarDate = "2006-01-02"

// parse resolves both bounds. Absent or empty bounds stay nil.
func (d datesRequest) parse() (from, to *time.Time, err error) {
	ve := domain.NewValidationError()
	from = parseDraftDate(ve, "dateFrom", d.DateFrom)
	to = parseDraftDate(ve, "dateTo", d.DateTo)
	if err := ve.Err(); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

func parseDraftDate(ve *domain.ValidationError, field string, raw *string) *time.Time {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil
	}
	v := strings.TrimSpace(*raw)
	if t, err := time.Parse(calendarDate, v); err == nil {
		return &t
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t
	}
	ve.Add(field, field+" must be a date like 2024-06-01")
	return nil
}

type guestsRequest struct {
	Guests int `json:"guests"`
}

// draftStore returns the caller's store. With mustExist it fails unless a
// draft has been started.
func (h *Handlers) draftStore(r *http.Request, mustExist bool) (*booking.Store, error) {
	s, _ := session.FromContext(r.Context())
	if !mustExist {
		return h.drafts.For(s.ID), nil
	}
	store, ok := h.drafts.Lookup(s.ID)
	if !ok || store.Snapshot().Draft == nil {
		return nil, errNoDraft
	}
	return store, nil
}

func (h *Handlers) StartDraft(w http.ResponseWriter, r *http.Request) {
	var req startDraftRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	req.VenueID = strings.TrimSpace(req.VenueID)
	if req.VenueID == "" {
		ve := domain.NewValidationError()
		ve.Add("venueId", "venueId is required")
		h.writeError(w, r, ve)
		return
	}

	venue, err := h.venueSummary(r, req.VenueID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	store, _ := h.draftStore(r, false)
	store.Initialize(venue)
	writeData(w, http.StatusCreated, store.Snapshot())
}

func (h *Handlers) GetDraft(w http.ResponseWriter, r *http.Request) {
	s, _ := session.FromContext(r.Context())
	store, ok := h.drafts.Lookup(s.ID)
	if !ok {
		writeData(w, http.StatusOK, booking.Snapshot{})
		return
	}
	writeData(w, http.StatusOK, store.Snapshot())
}

func (h *Handlers) ClearDraft(w http.ResponseWriter, r *http.Request) {
	s, _ := session.FromContext(r.Context())
	if store, ok := h.drafts.Lookup(s.ID); ok {
		store.Clear()
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) SetDraftDates(w http.ResponseWriter, r *http.Request) {
	store, err := h.draftStore(r, true)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req datesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	from, to, err := req.parse()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	store.SetDates(from, to)
	writeData(w, http.StatusOK, store.Snapshot())
}

func (h *Handlers) SetDraftGuests(w http.ResponseWriter, r *http.Request) {
	store, err := h.draftStore(r, true)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req guestsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	store.SetGuests(req.Guests)
	writeData(w, http.StatusOK, store.Snapshot())
}

func (h *Handlers) IncrementDraftGuests(w http.ResponseWriter, r *http.Request) {
	h.stepGuests(w, r, (*booking.Store).IncrementGuests)
}

func (h *Handlers) DecrementDraftGuests(w http.ResponseWriter, r *http.Request) {
	h.stepGuests(w, r, (*booking.Store).DecrementGuests)
}

func (h *Handlers) stepGuests(w http.ResponseWriter, r *http.Request, step func(*booking.Store)) {
	store, err := h.draftStore(r, true)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	step(store)
	writeData(w, http.StatusOK, store.Snapshot())
}

func (h *Handlers) OpenDraftModal(w http.ResponseWriter, r *http.Request) {
	s, _ := session.FromContext(r.Context())
	store := h.drafts.For(s.ID)
	if !store.OpenModal() {
		h.writeError(w, r, booking.ErrIncompleteDraft)
		return
	}
	writeData(w, http.StatusOK, store.Snapshot())
}

func (h *Handlers) CloseDraftModal(w http.ResponseWriter, r *http.Request) {
	s, _ := session.FromContext(r.Context())
	store := h.drafts.For(s.ID)
	store.CloseModal()
	writeData(w, http.StatusOK, store.Snapshot())
}

// SubmitDraft sends the draft to the API. A repeated Idempotency-Key replays
// the first response instead of booking twice.
func (h *Handlers) SubmitDraft(w http.ResponseWriter, r *http.Request) {
	s, _ := session.FromContext(r.Context())
	var idempKey string
	if key := r.Header.Get("Idempotency-Key"); key != "" {
		idempKey = s.ID + ":" + key
	}

	existing, err := h.idemp.Get(r.Context(), idempKey)
	if err != nil {
		loggerFrom(r, h.logger).WithError(err).Warn("idempotency lookup failed")
	}
	if existing != nil {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Idempotent-Replayed", "true")
		w.WriteHeader(existing.Status)
		w.Write(existing.Result)
		return
	}

	store := h.drafts.For(s.ID)
	before := store.Snapshot()

	created, err := store.Submit(r.Context(), h.clientFor(r))
	if err != nil {
		observability.BookingSubmissions.WithLabelValues(submitOutcome(err)).Inc()
		loggerFrom(r, h.logger).WithError(err).Warn("booking submission failed")
		h.writeError(w, r, err)
		return
	}
	observability.BookingSubmissions.WithLabelValues("ok").Inc()

	e := outbox.NewBookingEvent(outbox.BookingCreated, s.Name, created)
	e.TotalPrice = before.TotalPrice
	if e.VenueID == "" && before.Draft != nil {
		e.VenueID = before.Draft.VenueID
	}
	h.outbox.Enqueue(e)

	var buf bytes.Buffer
	json.NewEncoder(&buf).Encode(envelope{Data: created})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	w.Write(buf.Bytes())

	if err := h.idemp.Set(r.Context(), idempKey, idempotency.Response{Status: http.StatusCreated, Result: buf.Bytes()}); err != nil {
		loggerFrom(r, h.logger).WithError(err).Warn("idempotency store failed")
	}
}

func submitOutcome(err error) string {
	switch {
	case errors.Is(err, booking.ErrIncompleteDraft), errors.Is(err, booking.ErrInvalidDateRange):
		return "rejected"
	case errors.Is(err, booking.ErrSubmitInProgress):
		return "in_progress"
	default:
		return "error"
	}
}
