package db

import (
	"context"
	"time"
)

// Store is the shared counter store used for admission control.
type Store interface {
	Pinger
	CounterStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CounterStore provides expiring integer counters.
type CounterStore interface {
	// Incr atomically increments key by one and returns the new value.
	Incr(ctx context.Context, key string) (int64, error)
	// Expire sets a TTL on key. When nx is set, only a key without expiry is touched.
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
}
