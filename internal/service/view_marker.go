package service

import (
	"context"
	"sync"
	"time"
)

// ViewMarkerStore debounces duplicate view-count increments per viewer
// session. Markers are best effort and short lived; losing them only means a
// view gets counted twice. The Redis store is the multi-instance option; the
// in-memory store covers single-node deployments and tests.
type ViewMarkerStore interface {
	Seen(ctx context.Context, sessionID string, resourceID uint) (bool, error)
	Mark(ctx context.Context, sessionID string, resourceID uint, ttl time.Duration) error
}

type NoopViewMarkerStore struct{}

func NewNoopViewMarkerStore() *NoopViewMarkerStore { return &NoopViewMarkerStore{} }

func (s *NoopViewMarkerStore) Seen(context.Context, string, uint) (bool, error) { return false, nil }

func (s *NoopViewMarkerStore) Mark(context.Context, string, uint, time.Duration) error { return nil }

type InMemoryViewMarkerStore struct {
	mu    sync.RWMutex
	store map[string]time.Time
}

func NewInMemoryViewMarkerStore() *InMemoryViewMarkerStore {
	return &InMemoryViewMarkerStore{store: make(map[string]time.Time)}
}

func (s *InMemoryViewMarkerStore) Seen(_ context.Context, sessionID string, resourceID uint) (bool, error) {
	key := markerKey(sessionID, resourceID)
	now := time.Now().UTC()
	s.mu.RLock()
	expiresAt, ok := s.store[key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if now.After(expiresAt) {
		s.mu.Lock()
		if exp, ok := s.store[key]; ok && now.After(exp) {
			delete(s.store, key)
		}
		s.mu.Unlock()
		return false, nil
	}
	return true, nil
}

func (s *InMemoryViewMarkerStore) Mark(_ context.Context, sessionID string, resourceID uint, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	s.store[markerKey(sessionID, resourceID)] = time.Now().UTC().Add(ttl)
	s.mu.Unlock()
	return nil
}
