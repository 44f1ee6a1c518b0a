package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/robertarktes/holidaze-gateway/internal/api"
	"github.com/robertarktes/holidaze-gateway/internal/domain"
	"github.com/robertarktes/holidaze-gateway/internal/observability"
)

func newClient(t *testing.T, h http.HandlerFunc) *api.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return api.New(api.Config{BaseURL: srv.URL}, observability.NewDiscardLogger())
}

func TestClient_ListVenuesIsPublic(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/holidaze/venues" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" || r.Header.Get(api.APIKeyHeader) != "" {
			t.Errorf("expected no credentials on public endpoint")
		}
		if r.URL.Query().Get("page") != "2" {
			t.Errorf("expected page=2, got %s", r.URL.RawQuery)
		}
		io.WriteString(w, `{"data":[{"id":"v1","name":"Cabin","price":80,"maxGuests":2,"meta":{"wifi":true}}],"meta":{"currentPage":2,"isLastPage":true}}`)
	}).With(api.Credentials{AccessToken: "tok", APIKey: "key"})

	page, err := c.ListVenues(context.Background(), api.ListOptions{Page: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Venues) != 1 || page.Venues[0].ID != "v1" || !page.Venues[0].Meta.Wifi {
		t.Errorf("unexpected venues %+v", page.Venues)
	}
	if page.Meta == nil || page.Meta.CurrentPage != 2 || !page.Meta.IsLastPage {
		t.Errorf("unexpected meta %+v", page.Meta)
	}
}

func TestClient_AuthenticatedHeaders(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("unexpected authorization %q", got)
		}
		if got := r.Header.Get(api.APIKeyHeader); got != "key" {
			t.Errorf("unexpected api key %q", got)
		}
		var body domain.BookingRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
			return
		}
		if body.VenueID != "v1" || body.Guests != 2 || body.DateFrom != "2024-06-01T00:00:00Z" {
			t.Errorf("unexpected body %+v", body)
		}
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"data":{"id":"b1","guests":2,"dateFrom":"2024-06-01T00:00:00.000Z","dateTo":"2024-06-04T00:00:00.000Z"}}`)
	}).With(api.Credentials{AccessToken: "tok", APIKey: "key"})

	b, err := c.CreateBooking(context.Background(), domain.BookingRequest{
		DateFrom: "2024-06-01T00:00:00Z",
		DateTo:   "2024-06-04T00:00:00Z",
		Guests:   2,
		VenueID:  "v1",
	})
	if err != nil {
		t.Fatal(err)
	}
	if b.ID != "b1" || b.DateTo.Day() != 4 {
		t.Errorf("unexpected booking %+v", b)
	}
}

func TestClient_ErrorNormalization(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
		is      error
	}{
		{"errors array", http.StatusUnauthorized, `{"errors":[{"message":"Invalid email or password"}],"status":"Unauthorized","statusCode":401}`, "Invalid email or password", domain.ErrUnauthorized},
		{"message field", http.StatusForbidden, `{"message":"Forbidden"}`, "Forbidden", domain.ErrUnauthorized},
		{"several errors", http.StatusBadRequest, `{"errors":[{"message":"a"},{"message":"b"}]}`, "a; b", domain.ErrInvalidInput},
		{"html body", http.StatusBadGateway, `<html>bad gateway</html>`, "Request failed with status 502", nil},
		{"empty body", http.StatusNotFound, ``, "Request failed with status 404", domain.ErrNotFound},
		{"conflict", http.StatusConflict, `{"errors":[{"message":"Booking overlaps"}]}`, "Booking overlaps", domain.ErrConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})

			_, err := c.GetProfile(context.Background(), "kari")
			var apiErr *api.Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *api.Error, got %T %v", err, err)
			}
			if apiErr.Status != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, apiErr.Status)
			}
			if err.Error() != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, err.Error())
			}
			if strings.Contains(err.Error(), "{") {
				t.Errorf("message leaks body structure: %q", err.Error())
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("expected error to match %v", tt.is)
			}
		})
	}
}

func TestClient_NoContent(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("unexpected method %s", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := c.DeleteBooking(context.Background(), "b1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestClient_ZeroContentLengthIsNoData(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "0")
		w.WriteHeader(http.StatusOK)
	})

	v, err := c.GetVenue(context.Background(), "v1")
	if err != nil || v != nil {
		t.Fatalf("expected nil venue and nil error, got %+v %v", v, err)
	}
}

func TestClient_NonJSONSuccessIsNoData(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "OK")
	})

	list, err := c.ListProfileVenues(context.Background(), "kari")
	if err != nil {
		t.Fatalf("expected parse error to be swallowed, got %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Errorf("expected empty list, got %#v", list)
	}
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := api.New(api.Config{BaseURL: srv.URL}, observability.NewDiscardLogger())

	_, err := c.ListVenues(context.Background(), api.ListOptions{})
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Status != 0 {
		t.Fatalf("expected transport *api.Error, got %v", err)
	}
	if err.Error() != "Could not reach the booking service" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestClient_LoginAndAPIKey(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			if r.URL.Query().Get("_holidaze") != "true" {
				t.Errorf("expected _holidaze flag")
			}
			io.WriteString(w, `{"data":{"name":"kari","email":"kari@stud.noroff.no","venueManager":true,"accessToken":"tok"}}`)
		case "/auth/create-api-key":
			if r.Header.Get("Authorization") != "Bearer tok" {
				t.Errorf("expected bearer token on key creation")
			}
			io.WriteString(w, `{"data":{"name":"gateway","status":"ACTIVE","key":"k-123"}}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	p, err := c.Login(context.Background(), domain.LoginForm{Email: "kari@stud.noroff.no", Password: "secret123"})
	if err != nil {
		t.Fatal(err)
	}
	if p.AccessToken != "tok" || p.Name != "kari" || !p.VenueManager {
		t.Errorf("unexpected profile %+v", p)
	}

	k, err := c.With(api.Credentials{AccessToken: p.AccessToken}).CreateAPIKey(context.Background(), "gateway")
	if err != nil {
		t.Fatal(err)
	}
	if k.Key != "k-123" {
		t.Errorf("unexpected key %+v", k)
	}
}

func TestClient_ThrottleBurst(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":[]}`)
	}))
	t.Cleanup(srv.Close)

	tests := []struct {
		name string
		cfg  api.Config
	}{
		{"burst covers a fan-out", api.Config{BaseURL: srv.URL, RatePerSec: 1, Burst: 3}},
		{"zero rate disables throttling", api.Config{BaseURL: srv.URL}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := api.New(tt.cfg, observability.NewDiscardLogger())
			start := time.Now()
			for i := 0; i < 3; i++ {
				if _, err := c.ListVenues(context.Background(), api.ListOptions{}); err != nil {
					t.Fatal(err)
				}
			}
			if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
				t.Errorf("expected three calls without waiting, took %v", elapsed)
			}
		})
	}
}
