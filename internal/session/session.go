// Package session owns the signed-in visitor's state: who they are and the
// credentials used for authenticated API calls.
package session

import (
	"context"
	"time"

	"github.com/robertarktes/holidaze-gateway/internal/api"
	"github.com/robertarktes/holidaze-gateway/internal/domain"
)

type Session struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	Avatar       *domain.Media `json:"avatar,omitempty"`
	VenueManager bool          `json:"venueManager"`
	AccessToken  string        `json:"accessToken"`
	APIKey       string        `json:"apiKey,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
}

func (s *Session) Credentials() api.Credentials {
	return api.Credentials{AccessToken: s.AccessToken, APIKey: s.APIKey}
}

// Store is the key-value storage behind sessions. Writes are last-write-wins.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
	GetAPIKey(ctx context.Context, name string) (string, error)
	SaveAPIKey(ctx context.Context, name, key string) error
}

type contextKey string

const sessionKey contextKey = "session"

func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey).(*Session)
	return s, ok && s != nil
}
