package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/robertarktes/holidaze-gateway/internal/api"
	"github.com/robertarktes/holidaze-gateway/internal/domain"
	"github.com/robertarktes/holidaze-gateway/internal/venues"
)

type venueList struct {
	Venues  []domain.VenueSummary `json:"venues"`
	Filters venues.Filters        `json:"filters"`
}

// ListVenues fetches one page from the API and runs it through the filter
// and sort pipeline.
func (h *Handlers) ListVenues(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := api.ListOptions{}
	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 0 {
		opts.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 {
		opts.Limit = limit
	}

	client := h.clientFor(r)
	var (
		page *api.VenuePage
		err  error
	)
	if term := strings.TrimSpace(q.Get("q")); term != "" {
		page, err = client.SearchVenues(r.Context(), term, opts)
	} else {
		page, err = client.ListVenues(r.Context(), opts)
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	filters := venues.ParseFilters(q)
	list := venues.Apply(domain.Summaries(page.Venues), filters)
	writeJSON(w, http.StatusOK, envelope{
		Data: venueList{Venues: list, Filters: filters},
		Meta: page.Meta,
	})
}

func (h *Handlers) GetVenue(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	v, err := h.clientFor(r).GetVenue(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if v == nil {
		h.writeError(w, r, errVenueAbsent)
		return
	}
	h.cacheSummary(r.Context(), v.Summary())
	writeData(w, http.StatusOK, v)
}

func (h *Handlers) ListVenueBookings(w http.ResponseWriter, r *http.Request) {
	list, err := h.clientFor(r).ListVenueBookings(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, list)
}

func (h *Handlers) CreateVenue(w http.ResponseWriter, r *http.Request) {
	var form domain.VenueForm
	if err := decodeJSON(w, r, &form); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := form.Validate(); err != nil {
		h.writeError(w, r, err)
		return
	}
	v, err := h.clientFor(r).CreateVenue(r.Context(), form)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, v)
}

func (h *Handlers) UpdateVenue(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var form domain.VenueForm
	if err := decodeJSON(w, r, &form); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := form.Validate(); err != nil {
		h.writeError(w, r, err)
		return
	}
	v, err := h.clientFor(r).UpdateVenue(r.Context(), id, form)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.forgetVenue(r.Context(), id)
	writeData(w, http.StatusOK, v)
}

func (h *Handlers) DeleteVenue(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.clientFor(r).DeleteVenue(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.forgetVenue(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

// venueSummary resolves the projection used to start a booking draft, going
// to the API only on a cache miss.
func (h *Handlers) venueSummary(r *http.Request, id string) (domain.VenueSummary, error) {
	var s domain.VenueSummary
	if h.cache != nil {
		ok, err := h.cache.GetJSON(r.Context(), venueKey(id), &s)
		if err != nil {
			loggerFrom(r, h.logger).WithError(err).Warn("venue cache read failed")
		}
		if ok {
			return s, nil
		}
	}

	v, err := h.clientFor(r).GetVenue(r.Context(), id)
	if err != nil {
		return s, err
	}
	if v == nil {
		return s, errVenueAbsent
	}
	s = v.Summary()
	h.cacheSummary(r.Context(), s)
	return s, nil
}

func (h *Handlers) cacheSummary(ctx context.Context, s domain.VenueSummary) {
	if h.cache == nil {
		return
	}
	if err := h.cache.SetJSON(ctx, venueKey(s.ID), s, venueCacheTTL); err != nil {
		h.logger.WithError(err).Warn("venue cache write failed")
	}
}

func (h *Handlers) forgetVenue(ctx context.Context, id string) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Delete(ctx, venueKey(id)); err != nil {
		h.logger.WithError(err).Warn("venue cache delete failed")
	}
}

func venueKey(id string) string {
	return "venue:" + id
}
