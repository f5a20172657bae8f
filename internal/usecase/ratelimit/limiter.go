// Package ratelimit admits requests under a fixed per-client quota per fixed time window.
package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// store is the consumer interface for counter operations (ISP).
type store interface {
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
}

const defaultPrefix = "shopsearch:rl:"

// Decision is the admission outcome for one request.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAfter time.Duration
}

// Limiter counts requests per client in aligned windows.
type Limiter struct {
	store  store
	limit  int
	window time.Duration
	prefix string
	now    func() time.Time
}

// New creates a limiter admitting limit requests per window per client.
func New(s store, limit int, window time.Duration) (*Limiter, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("rate limit must be positive, got %d", limit)
	}
	if window < time.Second {
		return nil, fmt.Errorf("rate limit window must be at least 1s, got %s", window)
	}
	return &Limiter{
		store:  s,
		limit:  limit,
		window: window,
		prefix: defaultPrefix,
		now:    time.Now,
	}, nil
}

// Allow counts one request for client. On a store error the decision is
// returned as allowed together with the error.
func (l *Limiter) Allow(ctx context.Context, client string) (Decision, error) {
	now := l.now()
	start := now.Truncate(l.window)
	reset := start.Add(l.window).Sub(now)

	key := l.prefix + client + ":" + strconv.FormatInt(start.Unix(), 10)

	n, err := l.store.Incr(ctx, key)
	if err != nil {
		return Decision{Allowed: true, Limit: l.limit, Remaining: l.limit, ResetAfter: reset},
			fmt.Errorf("rate limit incr: %w", err)
	}
	if n == 1 {
		if err := l.store.Expire(ctx, key, l.window, true); err != nil {
			return Decision{Allowed: true, Limit: l.limit, Remaining: l.limit - 1, ResetAfter: reset},
				fmt.Errorf("rate limit expire: %w", err)
		}
	}

	return Decision{
		Allowed:    n <= int64(l.limit),
		Limit:      l.limit,
		Remaining:  max(l.limit-int(n), 0),
		ResetAfter: reset,
	}, nil
}

// Window returns the configured window length.
func (l *Limiter) Window() time.Duration { return l.window }
