package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	mongoadapter "github.com/robertarktes/holidaze-gateway/internal/adapters/mongo"
	"github.com/robertarktes/holidaze-gateway/internal/api"
	"github.com/robertarktes/holidaze-gateway/internal/booking"
	"github.com/robertarktes/holidaze-gateway/internal/domain"
	"github.com/robertarktes/holidaze-gateway/internal/idempotency"
	"github.com/robertarktes/holidaze-gateway/internal/observability"
	"github.com/robertarktes/holidaze-gateway/internal/outbox"
	"github.com/robertarktes/holidaze-gateway/internal/session"
)

const (
	SessionCookie = "holidaze_session"
	venueCacheTTL = 5 * time.Minute
	maxBodyBytes  = 1 << 20
)

var (
	errNoDraft       = errors.New("no booking in progress")
	errVenueAbsent   = errors.Wrap(domain.ErrNotFound, "venue not found")
	errAuditDisabled = errors.New("booking history is not configured")
)

// VenueCache holds venue summaries between draft initializations.
type VenueCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// AuditTrail reads the recorded booking events of a profile.
type AuditTrail interface {
	ListByProfile(ctx context.Context, profile string, limit int64) ([]mongoadapter.AuditLog, error)
}

// Check reports whether a backing service is usable.
type Check func(ctx context.Context) error

type Deps struct {
	Client     *api.Client
	Sessions   *session.Manager
	Drafts     *booking.Registry
	Idemp      *idempotency.Idempotency
	Cache      VenueCache
	Outbox     *outbox.Outbox
	Audit      AuditTrail
	SessionTTL time.Duration
	Checks     map[string]Check
	Logger     observability.Logger
}

type Handlers struct {
	client     *api.Client
	sessions   *session.Manager
	drafts     *booking.Registry
	idemp      *idempotency.Idempotency
	cache      VenueCache
	outbox     *outbox.Outbox
	audit      AuditTrail
	sessionTTL time.Duration
	checks     map[string]Check
	logger     observability.Logger
}

func NewHandlers(d Deps) *Handlers {
	return &Handlers{
		client:     d.Client,
		sessions:   d.Sessions,
		drafts:     d.Drafts,
		idemp:      d.Idemp,
		cache:      d.Cache,
		outbox:     d.Outbox,
		audit:      d.Audit,
		sessionTTL: d.SessionTTL,
		checks:     d.Checks,
		logger:     d.Logger,
	}
}

// clientFor returns the API client carrying the caller's credentials, if any.
func (h *Handlers) clientFor(r *http.Request) *api.Client {
	if s, ok := session.FromContext(r.Context()); ok {
		return h.client.With(s.Credentials())
	}
	return h.client
}

type envelope struct {
	Data any       `json:"data"`
	Meta *api.Meta `json:"meta,omitempty"`
}

type errorBody struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Data: data})
}

// writeError maps err to a status and a message safe to show to a visitor.
func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := h.describe(err)
	if status >= http.StatusInternalServerError {
		loggerFrom(r, h.logger).WithError(err).Error("request failed")
	}
	writeJSON(w, status, body)
}

func (h *Handlers) describe(err error) (int, errorBody) {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		status := apiErr.Status
		if status == 0 {
			status = http.StatusBadGateway
		}
		return status, errorBody{Error: apiErr.Message}
	}

	if ve, ok := domain.AsValidationError(err); ok {
		return http.StatusBadRequest, errorBody{Error: "Please correct the highlighted fields", Fields: ve.Fields()}
	}

	switch {
	case errors.Is(err, booking.ErrIncompleteDraft):
		return http.StatusUnprocessableEntity, errorBody{Error: booking.MsgIncompleteDraft}
	case errors.Is(err, booking.ErrInvalidDateRange):
		return http.StatusUnprocessableEntity, errorBody{Error: booking.MsgInvalidRange}
	case errors.Is(err, booking.ErrSubmitInProgress):
		return http.StatusConflict, errorBody{Error: "Your booking is already being submitted"}
	case errors.Is(err, errNoDraft):
		return http.StatusNotFound, errorBody{Error: "No booking in progress"}
	case errors.Is(err, errVenueAbsent):
		return http.StatusNotFound, errorBody{Error: "Venue not found"}
	case errors.Is(err, errAuditDisabled):
		return http.StatusServiceUnavailable, errorBody{Error: "Booking history is unavailable"}
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, errorBody{Error: "Please sign in to continue"}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, errorBody{Error: "Not found"}
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, errorBody{Error: "Invalid request"}
	case errors.Is(err, api.ErrEmptyResponse):
		return http.StatusBadGateway, errorBody{Error: "The booking service returned no data"}
	}
	return http.StatusInternalServerError, errorBody{Error: "Something went wrong"}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		ve := domain.NewValidationError()
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			ve.Add(typeErr.Field, typeErr.Field+" has the wrong type")
		} else {
			ve.Add("body", "request body must be valid JSON")
		}
		return ve
	}
	return nil
}

func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// Readyz runs every registered check and reports the failing ones.
func (h *Handlers) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	failing := map[string]string{}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			failing[name] = err.Error()
		}
	}
	if len(failing) > 0 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable", "failing": failing})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
