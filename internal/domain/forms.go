package domain

import (
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	NoroffEmailDomain = "@stud.noroff.no"
	MinPasswordLength = 8
	MaxVenueGuests    = 100
	MaxBioLength      = 160
)

var profileNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

type RegisterForm struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Bio          string `json:"bio,omitempty"`
	Avatar       *Media `json:"avatar,omitempty"`
	Banner       *Media `json:"banner,omitempty"`
	VenueManager bool   `json:"venueManager"`
}

func (f *RegisterForm) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))

	ve := NewValidationError()
	if !profileNamePattern.MatchString(f.Name) {
		ve.Add("name", "name may only contain letters, digits and underscores")
	}
	validateEmail(ve, f.Email)
	if len(f.Password) < MinPasswordLength {
		ve.Add("password", "password must be at least 8 characters")
	}
	if len(f.Bio) > MaxBioLength {
		ve.Add("bio", "bio must be at most 160 characters")
	}
	validateMedia(ve, "avatar", f.Avatar)
	validateMedia(ve, "banner", f.Banner)
	return ve.Err()
}

type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (f *LoginForm) Validate() error {
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))

	ve := NewValidationError()
	validateEmail(ve, f.Email)
	if f.Password == "" {
		ve.Add("password", "password is required")
	}
	return ve.Err()
}

// ProfileForm is a partial update; nil fields are left untouched remotely.
type ProfileForm struct {
	Bio          *string `json:"bio,omitempty"`
	Avatar       *Media  `json:"avatar,omitempty"`
	Banner       *Media  `json:"banner,omitempty"`
	VenueManager *bool   `json:"venueManager,omitempty"`
}

func (f *ProfileForm) Validate() error {
	ve := NewValidationError()
	if f.Bio == nil && f.Avatar == nil && f.Banner == nil && f.VenueManager == nil {
		ve.Add("profile", "provide at least one field to update")
	}
	if f.Bio != nil && len(*f.Bio) > MaxBioLength {
		ve.Add("bio", "bio must be at most 160 characters")
	}
	validateMedia(ve, "avatar", f.Avatar)
	validateMedia(ve, "banner", f.Banner)
	return ve.Err()
}

type VenueForm struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Media       []Media  `json:"media,omitempty"`
	Price       float64  `json:"price"`
	MaxGuests   int      `json:"maxGuests"`
	Rating      float64  `json:"rating,omitempty"`
	Meta        Meta     `json:"meta"`
	Location    Location `json:"location"`
}

func (f *VenueForm) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)

	ve := NewValidationError()
	if f.Name == "" {
		ve.Add("name", "name is required")
	}
	if f.Description == "" {
		ve.Add("description", "description is required")
	}
	if f.Price < 0 {
		ve.Add("price", "price must not be negative")
	}
	if f.MaxGuests < 1 || f.MaxGuests > MaxVenueGuests {
		ve.Add("maxGuests", "maxGuests must be between 1 and 100")
	}
	if f.Rating < 0 || f.Rating > 5 {
		ve.Add("rating", "rating must be between 0 and 5")
	}
	for i := range f.Media {
		validateMedia(ve, "media", &f.Media[i])
	}
	return ve.Err()
}

type BookingUpdateForm struct {
	DateFrom *time.Time `json:"dateFrom,omitempty"`
	DateTo   *time.Time `json:"dateTo,omitempty"`
	Guests   *int       `json:"guests,omitempty"`
}

func (f *BookingUpdateForm) Validate() error {
	ve := NewValidationError()
	if f.DateFrom == nil && f.DateTo == nil && f.Guests == nil {
		ve.Add("booking", "provide at least one field to update")
	}
	if f.DateFrom != nil && f.DateTo != nil && !f.DateFrom.Before(*f.DateTo) {
		ve.Add("dateTo", "check-out must be after check-in")
	}
	if f.Guests != nil && *f.Guests < 1 {
		ve.Add("guests", "guests must be at least 1")
	}
	return ve.Err()
}

func validateEmail(ve *ValidationError, email string) {
	if _, err := mail.ParseAddress(email); err != nil {
		ve.Add("email", "provide a valid email")
		return
	}
	if !strings.HasSuffix(email, NoroffEmailDomain) {
		ve.Add("email", "email must be a stud.noroff.no address")
	}
}

func validateMedia(ve *ValidationError, field string, m *Media) {
	if m == nil {
		return
	}
	if !IsValidURL(m.URL) {
		ve.Add(field, "provide a valid image url")
	}
}

// IsValidURL reports whether raw is an absolute http(s) URL with a host.
func IsValidURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
