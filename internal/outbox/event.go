package outbox

import (
	"time"

	"github.com/google/uuid"
	"github.com/robertarktes/holidaze-gateway/internal/domain"
)

const (
	BookingCreated   = "booking.created"
	BookingUpdated   = "booking.updated"
	BookingCancelled = "booking.cancelled"
)

// Event describes a booking lifecycle change made through the gateway.
type Event struct {
	ID         uuid.UUID `json:"id"`
	Type       string    `json:"type"`
	Profile    string    `json:"profile"`
	BookingID  string    `json:"bookingId"`
	VenueID    string    `json:"venueId,omitempty"`
	Guests     int       `json:"guests,omitempty"`
	DateFrom   time.Time `json:"dateFrom"`
	DateTo     time.Time `json:"dateTo"`
	TotalPrice float64   `json:"totalPrice,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

func NewBookingEvent(eventType, profile string, b *domain.Booking) Event {
	e := Event{
		ID:         uuid.New(),
		Type:       eventType,
		Profile:    profile,
		OccurredAt: time.Now().UTC(),
	}
	if b != nil {
		e.BookingID = b.ID
		e.Guests = b.Guests
		e.DateFrom = b.DateFrom
		e.DateTo = b.DateTo
		if b.Venue != nil {
			e.VenueID = b.Venue.ID
		}
	}
	return e
}
