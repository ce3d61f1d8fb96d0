package lockout

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	count     int
	expiresAt time.Time
}

// InMemory is the single-instance fallback used when Redis is not configured.
type InMemory struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]entry
}

type Option func(*InMemory)

func WithClock(now func() time.Time) Option {
	return func(s *InMemory) {
		if now != nil {
			s.now = now
		}
	}
}

func NewInMemory(opts ...Option) *InMemory {
	s := &InMemory{now: time.Now, entries: make(map[string]entry)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemory) Failures(_ context.Context, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.live(key)
	if !ok {
		return 0, nil
	}
	return e.count, nil
}

func (s *InMemory) RecordFailure(_ context.Context, key string, window time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.live(key)
	if !ok {
		e = entry{expiresAt: s.now().Add(window)}
	}
	e.count++
	s.entries[key] = e
	return e.count, nil
}

func (s *InMemory) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// live returns the entry for key, dropping it if expired. Callers hold mu.
func (s *InMemory) live(key string) (entry, bool) {
	e, ok := s.entries[key]
	if !ok {
		return entry{}, false
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		return entry{}, false
	}
	return e, true
}
