package booking

import (
	"sync"
	"time"
)

// Registry keeps one Store per session.
type Registry struct {
	mu     sync.Mutex
	stores map[string]*Store
	now    func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{stores: make(map[string]*Store), now: time.Now}
}

// For returns the session's store, creating an empty one on first use.
// Handing out a store counts as activity, so a concurrent Sweep either
// removes it before the caller gets it or leaves it in place.
func (r *Registry) For(sessionID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.stores[sessionID]
	if !ok {
		s = newStoreWithClock(r.now)
		r.stores[sessionID] = s
		return s
	}
	s.markUsed()
	return s
}

// Lookup returns the session's store if one exists, marking it used like For.
func (r *Registry) Lookup(sessionID string) (*Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.stores[sessionID]
	if ok {
		s.markUsed()
	}
	return s, ok
}

func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	s, ok := r.stores[sessionID]
	delete(r.stores, sessionID)
	r.mu.Unlock()

	if ok {
		s.Clear()
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.stores)
}

// Sweep drops stores untouched for longer than idle and returns how many were
// removed. Stores with a submission in flight are kept.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.stores {
		touched, loading := s.idleSince()
		if loading || touched.After(cutoff) {
			continue
		}
		delete(r.stores, id)
		s.Clear()
		removed++
	}
	return removed
}
