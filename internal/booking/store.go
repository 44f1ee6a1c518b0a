package booking

import (
	"context"
	"sync"
	"time"

	"github.com/robertarktes/holidaze-gateway/internal/domain"
)

// Creator sends a finished draft to the remote booking endpoint.
type Creator interface {
	CreateBooking(ctx context.Context, req domain.BookingRequest) (*domain.Booking, error)
}

// Draft is the in-progress reservation for a single venue. Price and guest
// limit are snapshots taken when the draft was initialized.
type Draft struct {
	VenueID       string     `json:"venueId"`
	PricePerNight float64    `json:"pricePerNight"`
	MaxGuests     int        `json:"maxGuests"`
	DateFrom      *time.Time `json:"dateFrom"`
	DateTo        *time.Time `json:"dateTo"`
	Guests        int        `json:"guests"`
}

func (d *Draft) complete() bool {
	return d != nil && d.DateFrom != nil && d.DateTo != nil && d.Guests != 0
}

func (d *Draft) request() domain.BookingRequest {
	return domain.BookingRequest{
		DateFrom: d.DateFrom.UTC().Format(time.RFC3339),
		DateTo:   d.DateTo.UTC().Format(time.RFC3339),
		Guests:   d.Guests,
		VenueID:  d.VenueID,
	}
}

type Snapshot struct {
	Draft      *Draft  `json:"draft"`
	Nights     int     `json:"nights"`
	TotalPrice float64 `json:"totalPrice"`
	ModalOpen  bool    `json:"modalOpen"`
	Loading    bool    `json:"loading"`
	Error      string  `json:"error,omitempty"`
}

// Store holds at most one booking draft plus the confirmation dialog state and
// the last user-facing error.
type Store struct {
	mu        sync.Mutex
	draft     *Draft
	modalOpen bool
	loading   bool
	err       string
	touched   time.Time
	now       func() time.Time
}

func NewStore() *Store {
	return newStoreWithClock(time.Now)
}

func newStoreWithClock(now func() time.Time) *Store {
	return &Store{now: now, touched: now()}
}

// Initialize replaces any existing draft with a fresh one for venue.
func (s *Store) Initialize(venue domain.VenueSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()

	maxGuests := venue.MaxGuests
	if maxGuests < 1 {
		maxGuests = 1
	}
	s.draft = &Draft{
		VenueID:       venue.ID,
		PricePerNight: venue.Price,
		MaxGuests:     maxGuests,
		Guests:        1,
	}
	s.modalOpen = false
	s.err = ""
	s.touch()
}

// SetDates stores the range as given. Ordering is checked at submit time.
func (s *Store) SetDates(from, to *time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft == nil {
		return
	}
	s.draft.DateFrom = copyTime(from)
	s.draft.DateTo = copyTime(to)
	s.touch()
}

// SetGuests stores n without clamping; the stepper methods clamp.
func (s *Store) SetGuests(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft == nil {
		return
	}
	s.draft.Guests = n
	s.touch()
}

func (s *Store) IncrementGuests() {
	s.step(func(g *GuestCounter) { g.Increment() })
}

func (s *Store) DecrementGuests() {
	s.step(func(g *GuestCounter) { g.Decrement() })
}

func (s *Store) step(fn func(g *GuestCounter)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft == nil {
		return
	}
	g := NewGuestCounter(s.draft.Guests, s.draft.MaxGuests)
	fn(&g)
	s.draft.Guests = g.Value
	s.touch()
}

// OpenModal opens the confirmation dialog. It reports false and records an
// error when dates or guests are missing.
func (s *Store) OpenModal() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch()
	if !s.draft.complete() {
		s.err = MsgIncompleteDraft
		return false
	}
	s.modalOpen = true
	return true
}

func (s *Store) CloseModal() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.modalOpen = false
	s.touch()
}

// Submit sends the draft through creator. On success the draft is cleared and
// the created booking returned; on failure the error message is kept for
// display and the error returned. Nothing is retried.
func (s *Store) Submit(ctx context.Context, creator Creator) (*domain.Booking, error) {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return nil, ErrSubmitInProgress
	}
	s.touch()
	if !s.draft.complete() {
		s.err = MsgIncompleteDraft
		s.mu.Unlock()
		return nil, ErrIncompleteDraft
	}
	if Nights(s.draft.DateFrom, s.draft.DateTo) == 0 {
		s.err = MsgInvalidRange
		s.mu.Unlock()
		return nil, ErrInvalidDateRange
	}
	req := s.draft.request()
	s.loading = true
	s.err = ""
	s.mu.Unlock()

	created, err := creator.CreateBooking(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading = false
	s.touch()
	if err != nil {
		s.err = err.Error()
		return nil, err
	}
	s.draft = nil
	s.modalOpen = false
	return created, nil
}

// Clear discards the draft and all dialog state.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.draft = nil
	s.modalOpen = false
	s.loading = false
	s.err = ""
	s.touch()
}

func (s *Store) Nights() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft == nil {
		return 0
	}
	return Nights(s.draft.DateFrom, s.draft.DateTo)
}

func (s *Store) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft == nil {
		return 0
	}
	return TotalPrice(s.draft.PricePerNight, s.draft.DateFrom, s.draft.DateTo)
}

func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.err
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ModalOpen: s.modalOpen,
		Loading:   s.loading,
		Error:     s.err,
	}
	if s.draft != nil {
		d := *s.draft
		d.DateFrom = copyTime(d.DateFrom)
		d.DateTo = copyTime(d.DateTo)
		snap.Draft = &d
		snap.Nights = Nights(d.DateFrom, d.DateTo)
		snap.TotalPrice = TotalPrice(d.PricePerNight, d.DateFrom, d.DateTo)
	}
	return snap
}

func (s *Store) idleSince() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.touched, s.loading
}

// markUsed refreshes the idle clock for a caller about to act on the store.
func (s *Store) markUsed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch()
}

func (s *Store) touch() {
	s.touched = s.now()
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
