package domain_test

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/robertarktes/holidaze-gateway/internal/domain"
)

func TestRegisterForm_Validate(t *testing.T) {
	tests := []struct {
		name   string
		form   domain.RegisterForm
		fields []string
	}{
		{
			name: "valid",
			form: domain.RegisterForm{Name: "kari_n", Email: " Kari@stud.noroff.no ", Password: "secret123"},
		},
		{
			name:   "bad name and short password",
			form:   domain.RegisterForm{Name: "kari n", Email: "kari@stud.noroff.no", Password: "short"},
			fields: []string{"name", "password"},
		},
		{
			name:   "foreign email domain",
			form:   domain.RegisterForm{Name: "kari", Email: "kari@example.com", Password: "secret123"},
			fields: []string{"email"},
		},
		{
			name: "invalid avatar url",
			form: domain.RegisterForm{
				Name: "kari", Email: "kari@stud.noroff.no", Password: "secret123",
				Avatar: &domain.Media{URL: "not a url"},
			},
			fields: []string{"avatar"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			if len(tt.fields) == 0 {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			ve, ok := domain.AsValidationError(err)
			if !ok {
				t.Fatalf("expected validation error, got %v", err)
			}
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("expected error to match ErrInvalidInput")
			}
			for _, f := range tt.fields {
				if _, ok := ve.Fields()[f]; !ok {
					t.Errorf("expected field %s in %v", f, ve.Fields())
				}
			}
			if ve.Len() != len(tt.fields) {
				t.Errorf("expected %d fields, got %v", len(tt.fields), ve.Fields())
			}
		})
	}
}

func TestRegisterForm_NormalizesEmail(t *testing.T) {
	form := domain.RegisterForm{Name: "kari", Email: " Kari@Stud.Noroff.no", Password: "secret123"}
	if err := form.Validate(); err != nil {
		t.Fatal(err)
	}
	if form.Email != "kari@stud.noroff.no" {
		t.Errorf("expected normalized email, got %q", form.Email)
	}
}

func TestProfileForm_RequiresAField(t *testing.T) {
	var form domain.ProfileForm
	if err := form.Validate(); err == nil {
		t.Fatal("expected error for empty profile update")
	}

	manager := true
	form.VenueManager = &manager
	if err := form.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestVenueForm_Validate(t *testing.T) {
	form := domain.VenueForm{
		Name:        "Cabin",
		Description: "Quiet cabin",
		Price:       -1,
		MaxGuests:   0,
		Rating:      6,
		Media:       []domain.Media{{URL: "ftp://example.com/a.png"}},
	}
	ve, ok := domain.AsValidationError(form.Validate())
	if !ok {
		t.Fatal("expected validation error")
	}
	for _, f := range []string{"price", "maxGuests", "rating", "media"} {
		if _, ok := ve.Fields()[f]; !ok {
			t.Errorf("expected field %s in %v", f, ve.Fields())
		}
	}
}

func TestBookingUpdateForm_Validate(t *testing.T) {
	from := time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	form := domain.BookingUpdateForm{DateFrom: &from, DateTo: &to}
	if err := form.Validate(); err == nil {
		t.Fatal("expected error for reversed dates")
	}

	guests := 2
	if err := (&domain.BookingUpdateForm{Guests: &guests}).Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestIsValidURL(t *testing.T) {
	cases := map[string]bool{
		"https://images.test/a.jpg": true,
		"http://x.test":             true,
		"/relative/path.png":        false,
		"javascript:alert(1)":       false,
		"":                          false,
	}
	for raw, want := range cases {
		if got := domain.IsValidURL(raw); got != want {
			t.Errorf("IsValidURL(%q) = %v, want %v", raw, got, want)
		}
	}
}
