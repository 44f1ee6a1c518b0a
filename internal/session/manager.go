package session

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/robertarktes/holidaze-gateway/internal/api"
	"github.com/robertarktes/holidaze-gateway/internal/booking"
	"github.com/robertarktes/holidaze-gateway/internal/domain"
	"github.com/robertarktes/holidaze-gateway/internal/observability"
)

const (
	apiKeyName         = "Holidaze gateway"
	defaultKeyRetries  = 3
	defaultBackoffStep = 2 * time.Second
)

type ManagerConfig struct {
	TTL          time.Duration
	PresetAPIKey string
	KeyRetries   int           // retries after the first attempt
	BackoffStep  time.Duration // wait before retry n is n*BackoffStep
}

// Manager is the only component that creates, loads and destroys sessions.
type Manager struct {
	store  Store
	client *api.Client
	drafts *booking.Registry
	cfg    ManagerConfig
	logger observability.Logger
}

func NewManager(store Store, client *api.Client, drafts *booking.Registry, cfg ManagerConfig, logger observability.Logger) *Manager {
	if cfg.KeyRetries <= 0 {
		cfg.KeyRetries = defaultKeyRetries
	}
	if cfg.BackoffStep <= 0 {
		cfg.BackoffStep = defaultBackoffStep
	}
	return &Manager{store: store, client: client, drafts: drafts, cfg: cfg, logger: logger}
}

func (m *Manager) Register(ctx context.Context, form domain.RegisterForm) (*domain.Profile, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	return m.client.Register(ctx, form)
}

// SignIn logs in against the API, provisions an API key when none is cached
// and stores the new session.
func (m *Manager) SignIn(ctx context.Context, form domain.LoginForm) (*Session, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	profile, err := m.client.Login(ctx, form)
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:           uuid.New().String(),
		Name:         profile.Name,
		Email:        profile.Email,
		Avatar:       profile.Avatar,
		VenueManager: profile.VenueManager,
		AccessToken:  profile.AccessToken,
		CreatedAt:    time.Now().UTC(),
	}

	m.bootstrapAPIKey(ctx, s)

	if err := m.store.Save(ctx, s, m.cfg.TTL); err != nil {
		return nil, errors.Wrap(err, "save session")
	}
	m.logger.WithField("profile", s.Name).Info("signed in")
	return s, nil
}

func (m *Manager) Load(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, domain.ErrUnauthorized
	}
	s, err := m.store.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, errors.Wrap(err, "load session")
	}
	return s, nil
}

// Refresh persists changes made to s, such as an updated venue manager flag.
func (m *Manager) Refresh(ctx context.Context, s *Session) error {
	return errors.Wrap(m.store.Save(ctx, s, m.cfg.TTL), "refresh session")
}

// SignOut forgets the session and discards its booking draft.
func (m *Manager) SignOut(ctx context.Context, id string) error {
	m.drafts.Drop(id)
	if err := m.store.Delete(ctx, id); err != nil {
		return errors.Wrap(err, "delete session")
	}
	return nil
}

// bootstrapAPIKey never fails the sign-in: when every attempt fails the
// session continues without a key and the failure is only logged.
func (m *Manager) bootstrapAPIKey(ctx context.Context, s *Session) {
	if m.cfg.PresetAPIKey != "" {
		s.APIKey = m.cfg.PresetAPIKey
		return
	}
	if key, err := m.store.GetAPIKey(ctx, s.Name); err == nil && key != "" {
		s.APIKey = key
		return
	}

	client := m.client.With(s.Credentials())
	logger := m.logger.WithField("profile", s.Name)

	attempts := m.cfg.KeyRetries + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		key, err := client.CreateAPIKey(ctx, apiKeyName)
		if err == nil {
			s.APIKey = key.Key
			if err := m.store.SaveAPIKey(ctx, s.Name, key.Key); err != nil {
				logger.WithError(err).Warn("could not cache api key")
			}
			return
		}
		logger.WithError(err).WithField("attempt", attempt).Warn("api key request failed")
		if attempt == attempts {
			break
		}

		observability.APIKeyBootstrapRetries.Inc()
		select {
		case <-ctx.Done():
			logger.WithError(ctx.Err()).Error("api key bootstrap cancelled")
			return
		case <-time.After(time.Duration(attempt) * m.cfg.BackoffStep):
		}
	}
	logger.Error("giving up on api key bootstrap")
}
