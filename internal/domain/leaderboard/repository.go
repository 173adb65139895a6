package leaderboard

import (
	"context"
	"errors"
)

// ErrCacheMiss is returned by Cache.Top when no ranking is cached for a metric.
var ErrCacheMiss = errors.New("leaderboard cache miss")

//go:generate mockgen -source=repository.go -destination=../../mocks/leaderboard/mock_repository.go -package=mock_leaderboard

// Repository computes rankings from the primary store.
type Repository interface {
	// Ranking returns up to limit non-admin students ordered by metric.
	// A non-positive limit returns all of them. Students with a zero score
	// are included so new accounts appear.
	Ranking(ctx context.Context, metric Metric, limit int) ([]Entry, error)
}

// Cache is a fast read-through copy of rankings.
type Cache interface {
	// Top returns the cached ranking. Returns ErrCacheMiss when nothing is cached.
	Top(ctx context.Context, metric Metric, limit int) ([]Entry, error)

	// Replace swaps the cached ranking for metric.
	Replace(ctx context.Context, metric Metric, entries []Entry) error

	// UpdateScore adjusts one student's score in an existing cached ranking.
	UpdateScore(ctx context.Context, metric Metric, entry Entry) error

	// Invalidate drops the cached rankings for the given metrics.
	Invalidate(ctx context.Context, metrics ...Metric) error
}
