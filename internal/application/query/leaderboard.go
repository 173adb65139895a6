package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/educationaltr/study-tracker/internal/domain/leaderboard"
	"github.com/educationaltr/study-tracker/internal/domain/shared"
	"github.com/educationaltr/study-tracker/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LEADERBOARD QUERY
// Serves rankings from the cache when possible and rebuilds it from the
// database on a miss.
// ══════════════════════════════════════════════════════════════════════════════

// Leaderboard limits.
const (
	DefaultLeaderboardLimit = 20
	MaxLeaderboardLimit     = 100
)

// GetLeaderboardQuery contains the ranking parameters.
type GetLeaderboardQuery struct {
	// Metric defaults to current_streak.
	Metric string

	// Limit defaults to 20, capped at 100.
	Limit int
}

// Validate normalizes the query.
func (q *GetLeaderboardQuery) Validate() (leaderboard.Metric, error) {
	if q.Limit < 0 {
		return "", shared.NewDomainError("leaderboard", "Validate", shared.ErrInvalidInput, "limit cannot be negative")
	}
	if q.Limit == 0 {
		q.Limit = DefaultLeaderboardLimit
	}
	if q.Limit > MaxLeaderboardLimit {
		q.Limit = MaxLeaderboardLimit
	}
	return leaderboard.ParseMetric(q.Metric)
}

// GetLeaderboardResult is one ranking.
type GetLeaderboardResult struct {
	Metric  leaderboard.Metric  `json:"metric"`
	Entries []leaderboard.Entry `json:"entries"`

	// FromCache reports whether the ranking came from the cache.
	FromCache bool `json:"from_cache"`
}

// GetLeaderboardHandler handles GetLeaderboardQuery.
type GetLeaderboardHandler struct {
	repo  leaderboard.Repository
	cache leaderboard.Cache
	log   *slog.Logger
}

// NewGetLeaderboardHandler creates a GetLeaderboardHandler. cache may be nil.
func NewGetLeaderboardHandler(repo leaderboard.Repository, cache leaderboard.Cache, log *slog.Logger) *GetLeaderboardHandler {
	return &GetLeaderboardHandler{repo: repo, cache: cache, log: log.With(logger.Component("leaderboard"))}
}

// Handle returns the ranking. Cache errors are logged and never returned.
func (h *GetLeaderboardHandler) Handle(ctx context.Context, q GetLeaderboardQuery) (*GetLeaderboardResult, error) {
	metric, err := q.Validate()
	if err != nil {
		return nil, err
	}

	if h.cache != nil {
		entries, err := h.cache.Top(ctx, metric, q.Limit)
		if err == nil {
			return &GetLeaderboardResult{Metric: metric, Entries: entries, FromCache: true}, nil
		}
		if !errors.Is(err, leaderboard.ErrCacheMiss) {
			h.log.WarnContext(ctx, "leaderboard cache read failed, using database", logger.Metric(string(metric)), logger.Err(err))
		}
	}

	// The full ranking is cached so any later limit can be served.
	entries, err := h.repo.Ranking(ctx, metric, 0)
	if err != nil {
		return nil, fmt.Errorf("get_leaderboard: %w", err)
	}

	if h.cache != nil {
		if err := h.cache.Replace(ctx, metric, entries); err != nil {
			h.log.WarnContext(ctx, "leaderboard cache refill failed", logger.Metric(string(metric)), logger.Err(err))
		}
	}

	if len(entries) > q.Limit {
		entries = entries[:q.Limit]
	}
	if entries == nil {
		entries = []leaderboard.Entry{}
	}
	return &GetLeaderboardResult{Metric: metric, Entries: entries}, nil
}
