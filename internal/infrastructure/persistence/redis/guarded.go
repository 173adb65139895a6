package redis

import (
	"context"
	"errors"

	"github.com/educationaltr/study-tracker/internal/domain/leaderboard"
	"github.com/educationaltr/study-tracker/pkg/circuitbreaker"
)

// GuardedCache runs every call to an inner leaderboard.Cache through a
// circuit breaker. While the breaker is open calls fail fast with
// circuitbreaker.ErrCircuitOpen and callers fall back to the database.
type GuardedCache struct {
	inner   leaderboard.Cache
	breaker *circuitbreaker.CircuitBreaker
}

var _ leaderboard.Cache = (*GuardedCache)(nil)

// NewGuardedCache wraps inner with breaker.
func NewGuardedCache(inner leaderboard.Cache, breaker *circuitbreaker.CircuitBreaker) *GuardedCache {
	return &GuardedCache{inner: inner, breaker: breaker}
}

// Top reads through the breaker. A cache miss is not counted as a failure.
func (g *GuardedCache) Top(ctx context.Context, metric leaderboard.Metric, limit int) ([]leaderboard.Entry, error) {
	return circuitbreaker.Call(ctx, g.breaker, func(ctx context.Context) ([]leaderboard.Entry, error) {
		return g.inner.Top(ctx, metric, limit)
	})
}

// Replace writes through the breaker.
func (g *GuardedCache) Replace(ctx context.Context, metric leaderboard.Metric, entries []leaderboard.Entry) error {
	return g.breaker.Execute(ctx, func(ctx context.Context) error {
		return g.inner.Replace(ctx, metric, entries)
	})
}

// UpdateScore writes through the breaker.
func (g *GuardedCache) UpdateScore(ctx context.Context, metric leaderboard.Metric, entry leaderboard.Entry) error {
	return g.breaker.Execute(ctx, func(ctx context.Context) error {
		return g.inner.UpdateScore(ctx, metric, entry)
	})
}

// Invalidate writes through the breaker.
func (g *GuardedCache) Invalidate(ctx context.Context, metrics ...leaderboard.Metric) error {
	return g.breaker.Execute(ctx, func(ctx context.Context) error {
		return g.inner.Invalidate(ctx, metrics...)
	})
}

// IsCacheFailure is the breaker failure predicate for leaderboard caches:
// a plain miss means Redis answered, so it does not count.
func IsCacheFailure(err error) bool {
	return err != nil && !errors.Is(err, leaderboard.ErrCacheMiss)
}
