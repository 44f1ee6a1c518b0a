package session

import (
	"context"
	"sync"
	"time"

	"github.com/robertarktes/holidaze-gateway/internal/domain"
)

type memoryEntry struct {
	session   Session
	expiresAt time.Time
}

// MemoryStore keeps sessions in process. It backs tests and local runs
// without Redis.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	apiKeys  map[string]string
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		apiKeys:  make(map[string]string),
		now:      time.Now,
	}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !e.expiresAt.IsZero() && m.now().After(e.expiresAt) {
		delete(m.sessions, id)
		return nil, domain.ErrNotFound
	}
	s := e.session
	return &s, nil
}

func (m *MemoryStore) Save(_ context.Context, s *Session, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := memoryEntry{session: *s}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.sessions[s.ID] = e
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	return nil
}

func (m *MemoryStore) GetAPIKey(_ context.Context, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key, ok := m.apiKeys[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return key, nil
}

func (m *MemoryStore) SaveAPIKey(_ context.Context, name, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.apiKeys[name] = key
	return nil
}
