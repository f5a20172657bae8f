// Package memory is a process-local counter store for single-instance deployments.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/kailas-cloud/shopsearch/internal/db"
)

var _ db.Store = (*Store)(nil)

// sweepEvery is the number of Incr calls between expired-key sweeps.
const sweepEvery = 1024

type counter struct {
	value    int64
	expireAt time.Time // zero means no expiry
}

// Store keeps expiring counters in a map guarded by a mutex.
type Store struct {
	mu       sync.Mutex
	counters map[string]*counter
	ops      int
	now      func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{counters: make(map[string]*counter), now: time.Now}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Close drops all counters.
func (s *Store) Close() {
	s.mu.Lock()
	s.counters = make(map[string]*counter)
	s.mu.Unlock()
}

// WaitForReady returns immediately.
func (s *Store) WaitForReady(context.Context, time.Duration) error { return nil }

// Incr increments key, starting from zero when it is absent or expired.
func (s *Store) Incr(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.ops++
	if s.ops%sweepEvery == 0 {
		s.sweep(now)
	}

	c, ok := s.counters[key]
	if !ok || c.expired(now) {
		c = &counter{}
		s.counters[key] = c
	}
	c.value++
	return c.value, nil
}

// Expire sets the TTL of an existing key. When nx is set, a key that already
// expires is left untouched.
func (s *Store) Expire(_ context.Context, key string, ttl time.Duration, nx bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	c, ok := s.counters[key]
	if !ok || c.expired(now) {
		return nil
	}
	if nx && !c.expireAt.IsZero() {
		return nil
	}
	c.expireAt = now.Add(ttl)
	return nil
}

// Len returns the number of live counters.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep(s.now())
	return len(s.counters)
}

func (s *Store) sweep(now time.Time) {
	for k, c := range s.counters {
		if c.expired(now) {
			delete(s.counters, k)
		}
	}
}

func (c *counter) expired(now time.Time) bool {
	return !c.expireAt.IsZero() && !now.Before(c.expireAt)
}
