package domain

import "time"

type Media struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

type Location struct {
	Address   string  `json:"address,omitempty"`
	City      string  `json:"city,omitempty"`
	Zip       string  `json:"zip,omitempty"`
	Country   string  `json:"country,omitempty"`
	Continent string  `json:"continent,omitempty"`
	Lat       float64 `json:"lat,omitempty"`
	Lng       float64 `json:"lng,omitempty"`
}

// Meta holds the facility flags a venue advertises.
type Meta struct {
	Wifi      bool `json:"wifi"`
	Parking   bool `json:"parking"`
	Breakfast bool `json:"breakfast"`
	Pets      bool `json:"pets"`
}

type Venue struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Media       []Media   `json:"media,omitempty"`
	Price       float64   `json:"price"`
	MaxGuests   int       `json:"maxGuests"`
	Rating      float64   `json:"rating"`
	Created     time.Time `json:"created,omitempty"`
	Updated     time.Time `json:"updated,omitempty"`
	Meta        Meta      `json:"meta"`
	Location    Location  `json:"location"`
	Owner       *Profile  `json:"owner,omitempty"`
	Bookings    []Booking `json:"bookings,omitempty"`
}

// VenueSummary is the read-only projection used by listings and the booking draft.
type VenueSummary struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	Rating    float64  `json:"rating"`
	MaxGuests int      `json:"maxGuests"`
	Location  Location `json:"location"`
	Meta      Meta     `json:"meta"`
	Thumbnail *Media   `json:"thumbnail,omitempty"`
}

func (v Venue) Summary() VenueSummary {
	s := VenueSummary{
		ID:        v.ID,
		Name:      v.Name,
		Price:     v.Price,
		Rating:    v.Rating,
		MaxGuests: v.MaxGuests,
		Location:  Location{City: v.Location.City, Country: v.Location.Country},
		Meta:      v.Meta,
	}
	if len(v.Media) > 0 {
		thumb := v.Media[0]
		s.Thumbnail = &thumb
	}
	return s
}

func Summaries(venues []Venue) []VenueSummary {
	out := make([]VenueSummary, len(venues))
	for i, v := range venues {
		out[i] = v.Summary()
	}
	return out
}

type Booking struct {
	ID       string    `json:"id"`
	DateFrom time.Time `json:"dateFrom"`
	DateTo   time.Time `json:"dateTo"`
	Guests   int       `json:"guests"`
	Created  time.Time `json:"created,omitempty"`
	Updated  time.Time `json:"updated,omitempty"`
	Venue    *Venue    `json:"venue,omitempty"`
	Customer *Profile  `json:"customer,omitempty"`
}

// BookingRequest is the body sent to the remote booking-creation endpoint.
// Dates are ISO-8601 strings.
type BookingRequest struct {
	DateFrom string `json:"dateFrom"`
	DateTo   string `json:"dateTo"`
	Guests   int    `json:"guests"`
	VenueID  string `json:"venueId"`
}

type Profile struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Bio          string `json:"bio,omitempty"`
	Avatar       *Media `json:"avatar,omitempty"`
	Banner       *Media `json:"banner,omitempty"`
	VenueManager bool   `json:"venueManager"`
	Count        *Count `json:"_count,omitempty"`
}

type Count struct {
	Venues   int `json:"venues"`
	Bookings int `json:"bookings"`
}

// AuthProfile is a profile returned by login, carrying the access token.
type AuthProfile struct {
	Profile
	AccessToken string `json:"accessToken"`
}

type APIKey struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Key    string `json:"key"`
}
