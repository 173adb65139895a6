package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/educationaltr/study-tracker/internal/domain/leaderboard"
	mock_leaderboard "github.com/educationaltr/study-tracker/internal/mocks/leaderboard"
	"github.com/educationaltr/study-tracker/pkg/logger"
)

func TestRefreshLeaderboardJob_ReplacesEveryMetric(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_leaderboard.NewMockRepository(ctrl)
	cache := mock_leaderboard.NewMockCache(ctrl)

	for _, m := range leaderboard.AllMetrics() {
		entries := []leaderboard.Entry{{Rank: 1, StudentID: 2, Username: "ayse", Score: 3}}
		repo.EXPECT().Ranking(gomock.Any(), m, 0).Return(entries, nil)
		cache.EXPECT().Replace(gomock.Any(), m, entries).Return(nil)
	}

	job := NewRefreshLeaderboardJob(repo, cache, logger.Discard())
	assert.Equal(t, RefreshLeaderboardName, job.Name())
	require.NoError(t, job.Run(context.Background()))
}

func TestRefreshLeaderboardJob_ContinuesAfterFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_leaderboard.NewMockRepository(ctrl)
	cache := mock_leaderboard.NewMockCache(ctrl)

	dbErr := errors.New("db down")
	cacheErr := errors.New("redis down")

	repo.EXPECT().Ranking(gomock.Any(), leaderboard.MetricCurrentStreak, 0).Return(nil, dbErr)
	repo.EXPECT().Ranking(gomock.Any(), leaderboard.MetricLongestStreak, 0).Return(nil, nil)
	cache.EXPECT().Replace(gomock.Any(), leaderboard.MetricLongestStreak, gomock.Any()).Return(cacheErr)
	repo.EXPECT().Ranking(gomock.Any(), leaderboard.MetricTotalHours, 0).Return(nil, nil)
	cache.EXPECT().Replace(gomock.Any(), leaderboard.MetricTotalHours, gomock.Any()).Return(nil)

	err := NewRefreshLeaderboardJob(repo, cache, logger.Discard()).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, dbErr)
	assert.ErrorIs(t, err, cacheErr)
	assert.Contains(t, err.Error(), "rank current_streak")
	assert.Contains(t, err.Error(), "cache longest_streak")
}
