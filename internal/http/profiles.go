package http

import (
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/robertarktes/holidaze-gateway/internal/domain"
	"github.com/robertarktes/holidaze-gateway/internal/session"
	"golang.org/x/sync/errgroup"
)

type profileOverview struct {
	Profile  *domain.Profile  `json:"profile"`
	Upcoming []domain.Booking `json:"upcoming"`
	Past     []domain.Booking `json:"past"`
	Venues   []domain.Venue   `json:"venues"`
}

func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.clientFor(r).GetProfile(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if p == nil {
		h.writeError(w, r, domain.ErrNotFound)
		return
	}
	writeData(w, http.StatusOK, p)
}

// UpdateProfile forwards the change and keeps the caller's session in step
// when they edit their own profile.
func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var form domain.ProfileForm
	if err := decodeJSON(w, r, &form); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := form.Validate(); err != nil {
		h.writeError(w, r, err)
		return
	}

	p, err := h.clientFor(r).UpdateProfile(r.Context(), name, form)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	s, _ := session.FromContext(r.Context())
	if p != nil && s.Name == p.Name {
		s.VenueManager = p.VenueManager
		s.Avatar = p.Avatar
		if err := h.sessions.Refresh(r.Context(), s); err != nil {
			loggerFrom(r, h.logger).WithError(err).Warn("could not refresh session")
		}
	}
	writeData(w, http.StatusOK, p)
}

func (h *Handlers) ListProfileBookings(w http.ResponseWriter, r *http.Request) {
	list, err := h.clientFor(r).ListProfileBookings(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, list)
}

func (h *Handlers) ListProfileVenues(w http.ResponseWriter, r *http.Request) {
	list, err := h.clientFor(r).ListProfileVenues(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, list)
}

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// BookingHistory lists the audit trail of the caller's own booking changes.
// Other profiles' trails are reported as not found.
func (h *Handlers) BookingHistory(w http.ResponseWriter, r *http.Request) {
	s, _ := session.FromContext(r.Context())
	if chi.URLParam(r, "name") != s.Name {
		h.writeError(w, r, domain.ErrNotFound)
		return
	}
	if h.audit == nil {
		h.writeError(w, r, errAuditDisabled)
		return
	}

	limit := defaultHistoryLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = min(v, maxHistoryLimit)
	}
	logs, err := h.audit.ListByProfile(r.Context(), s.Name, int64(limit))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, logs)
}

// ProfileOverview loads the profile, its bookings and its venues
// concurrently. The first failure cancels the rest.
func (h *Handlers) ProfileOverview(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	client := h.clientFor(r)

	var (
		profile  *domain.Profile
		bookings []domain.Booking
		venues   []domain.Venue
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		profile, err = client.GetProfile(ctx, name)
		return err
	})
	g.Go(func() error {
		var err error
		bookings, err = client.ListProfileBookings(ctx, name)
		return err
	})
	g.Go(func() error {
		var err error
		venues, err = client.ListProfileVenues(ctx, name)
		return err
	})
	if err := g.Wait(); err != nil {
		h.writeError(w, r, err)
		return
	}
	if profile == nil {
		h.writeError(w, r, domain.ErrNotFound)
		return
	}

	upcoming, past := splitBookings(bookings, time.Now())
	writeData(w, http.StatusOK, profileOverview{
		Profile:  profile,
		Upcoming: upcoming,
		Past:     past,
		Venues:   venues,
	})
}

// splitBookings partitions by check-out date. Upcoming bookings are ordered
// soonest first, past bookings most recent first.
func splitBookings(list []domain.Booking, now time.Time) (upcoming, past []domain.Booking) {
	upcoming, past = []domain.Booking{}, []domain.Booking{}
	for _, b := range list {
		if b.DateTo.After(now) {
			upcoming = append(upcoming, b)
		} else {
			past = append(past, b)
		}
	}
	slices.SortStableFunc(upcoming, func(a, b domain.Booking) int { return a.DateFrom.Compare(b.DateFrom) })
	slices.SortStableFunc(past, func(a, b domain.Booking) int { return b.DateFrom.Compare(a.DateFrom) })
	return upcoming, past
}
