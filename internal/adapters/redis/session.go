package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
	"github.com/robertarktes/holidaze-gateway/internal/domain"
	"github.com/robertarktes/holidaze-gateway/internal/session"
)

// SessionStore keeps sessions as JSON under session:<id>. API keys are cached
// per profile without expiry, mirroring browser local storage.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) Get(ctx context.Context, id string) (*session.Session, error) {
	val, err := s.client.Get(ctx, "session:"+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get session")
	}
	var sess session.Session
	if err := json.Unmarshal(val, &sess); err != nil {
		return nil, errors.Wrap(err, "decode session")
	}
	return &sess, nil
}

func (s *SessionStore) Save(ctx context.Context, sess *session.Session, ttl time.Duration) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return errors.Wrap(err, "encode session")
	}
	return s.client.Set(ctx, "session:"+sess.ID, data, ttl).Err()
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, "session:"+id).Err()
}

func (s *SessionStore) GetAPIKey(ctx context.Context, name string) (string, error) {
	key, err := s.client.Get(ctx, "apikey:"+name).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", errors.Wrap(err, "get api key")
	}
	return key, nil
}

func (s *SessionStore) SaveAPIKey(ctx context.Context, name, key string) error {
	return s.client.Set(ctx, "apikey:"+name, key, 0).Err()
}
