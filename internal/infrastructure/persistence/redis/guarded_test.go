package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/educationaltr/study-tracker/internal/domain/leaderboard"
	mock_leaderboard "github.com/educationaltr/study-tracker/internal/mocks/leaderboard"
	"github.com/educationaltr/study-tracker/pkg/circuitbreaker"
)

func newGuarded(t *testing.T, threshold int) (*GuardedCache, *mock_leaderboard.MockCache, *[]circuitbreaker.State) {
	ctrl := gomock.NewController(t)
	inner := mock_leaderboard.NewMockCache(ctrl)

	var transitions []circuitbreaker.State
	breaker := circuitbreaker.CacheBreaker("leaderboard-cache", threshold, time.Hour,
		func(_ string, _, to circuitbreaker.State) { transitions = append(transitions, to) },
		circuitbreaker.WithIsFailure(IsCacheFailure),
	)
	return NewGuardedCache(inner, breaker), inner, &transitions
}

func TestGuardedCache_MissesDoNotTrip(t *testing.T) {
	g, inner, transitions := newGuarded(t, 2)
	ctx := context.Background()

	inner.EXPECT().Top(gomock.Any(), leaderboard.MetricCurrentStreak, 10).Return(nil, leaderboard.ErrCacheMiss).Times(5)

	for range 5 {
		_, err := g.Top(ctx, leaderboard.MetricCurrentStreak, 10)
		assert.ErrorIs(t, err, leaderboard.ErrCacheMiss)
	}
	assert.Empty(t, *transitions)
}

func TestGuardedCache_OpensAfterFailures(t *testing.T) {
	g, inner, transitions := newGuarded(t, 2)
	ctx := context.Background()

	inner.EXPECT().Invalidate(gomock.Any(), leaderboard.MetricTotalHours).Return(ErrCacheConnection).Times(2)

	for range 2 {
		err := g.Invalidate(ctx, leaderboard.MetricTotalHours)
		assert.ErrorIs(t, err, ErrCacheConnection)
	}
	require.Equal(t, []circuitbreaker.State{circuitbreaker.StateOpen}, *transitions)

	// The inner cache is no longer called.
	_, err := g.Top(ctx, leaderboard.MetricTotalHours, 5)
	assert.True(t, circuitbreaker.IsRejected(err))
	err = g.UpdateScore(ctx, leaderboard.MetricTotalHours, leaderboard.Entry{StudentID: 1})
	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
}

func TestGuardedCache_PassesThrough(t *testing.T) {
	g, inner, _ := newGuarded(t, 3)
	ctx := context.Background()
	entries := []leaderboard.Entry{{Rank: 1, StudentID: 2, Username: "ali", Score: 4}}

	inner.EXPECT().Replace(gomock.Any(), leaderboard.MetricLongestStreak, entries).Return(nil)
	inner.EXPECT().Top(gomock.Any(), leaderboard.MetricLongestStreak, 1).Return(entries, nil)

	require.NoError(t, g.Replace(ctx, leaderboard.MetricLongestStreak, entries))
	got, err := g.Top(ctx, leaderboard.MetricLongestStreak, 1)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}
