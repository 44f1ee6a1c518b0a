// Package idempotency replays stored responses for requests that carry an
// Idempotency-Key already seen.
package idempotency

import (
	"context"
	"sync"
	"time"
)

const MinKeyLength = 16

type Response struct {
	Status int
	Result []byte
}

type Store interface {
	Get(ctx context.Context, key string) (*Response, error)
	Set(ctx context.Context, key string, resp Response, ttl time.Duration) error
}

type Idempotency struct {
	store Store
	ttl   time.Duration
}

func NewIdempotency(store Store, ttl time.Duration) *Idempotency {
	return &Idempotency{store: store, ttl: ttl}
}

// Get returns the recorded response for key, or nil when there is none.
func (i *Idempotency) Get(ctx context.Context, key string) (*Response, error) {
	if i == nil || key == "" {
		return nil, nil
	}
	return i.store.Get(ctx, key)
}

func (i *Idempotency) Set(ctx context.Context, key string, resp Response) error {
	if i == nil || key == "" {
		return nil
	}
	return i.store.Set(ctx, key, resp, i.ttl)
}

type memoryEntry struct {
	resp      Response
	expiresAt time.Time
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, nil
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		delete(m.entries, key)
		return nil, nil
	}
	resp := e.resp
	return &resp, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, resp Response, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := memoryEntry{resp: resp}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	m.entries[key] = e
	return nil
}
