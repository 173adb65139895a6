// Package jobs contains the periodic jobs run by the API process.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/educationaltr/study-tracker/internal/domain/leaderboard"
	"github.com/educationaltr/study-tracker/pkg/logger"
)

// RefreshLeaderboardName is the scheduler name of RefreshLeaderboardJob.
const RefreshLeaderboardName = "refresh_leaderboard"

// RefreshLeaderboardJob recomputes every ranking from the database and
// replaces the cached copy, so lapsed streaks and deleted sessions show up
// in the cache without waiting for the TTL.
type RefreshLeaderboardJob struct {
	repo    leaderboard.Repository
	cache   leaderboard.Cache
	metrics []leaderboard.Metric
	log     *slog.Logger
}

// NewRefreshLeaderboardJob creates the job for every metric.
func NewRefreshLeaderboardJob(repo leaderboard.Repository, cache leaderboard.Cache, log *slog.Logger) *RefreshLeaderboardJob {
	return &RefreshLeaderboardJob{
		repo:    repo,
		cache:   cache,
		metrics: leaderboard.AllMetrics(),
		log:     log.With(logger.Component(RefreshLeaderboardName)),
	}
}

// Name implements scheduler.Job.
func (j *RefreshLeaderboardJob) Name() string {
	return RefreshLeaderboardName
}

// Run refreshes each metric independently. A failing metric does not stop
// the others; all failures are returned joined.
func (j *RefreshLeaderboardJob) Run(ctx context.Context) error {
	var errs []error
	for _, metric := range j.metrics {
		if err := j.refresh(ctx, metric); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (j *RefreshLeaderboardJob) refresh(ctx context.Context, metric leaderboard.Metric) error {
	entries, err := j.repo.Ranking(ctx, metric, 0)
	if err != nil {
		return fmt.Errorf("rank %s: %w", metric, err)
	}
	if err := j.cache.Replace(ctx, metric, entries); err != nil {
		return fmt.Errorf("cache %s: %w", metric, err)
	}

	j.log.DebugContext(ctx, "leaderboard refreshed", logger.Metric(string(metric)), slog.Int("entries", len(entries)))
	return nil
}
