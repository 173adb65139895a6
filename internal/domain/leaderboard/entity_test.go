package leaderboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/educationaltr/study-tracker/internal/domain/shared"
)

func TestAssignRanks(t *testing.T) {
	entries := []Entry{
		{StudentID: 1, Username: "cem", Score: 3},
		{StudentID: 2, Username: "ali", Score: 7},
		{StudentID: 3, Username: "bora", Score: 3},
		{StudentID: 4, Username: "deniz", Score: 1},
	}

	got := AssignRanks(entries)

	require.Len(t, got, 4)
	assert.Equal(t, []string{"ali", "bora", "cem", "deniz"}, []string{got[0].Username, got[1].Username, got[2].Username, got[3].Username})
	assert.Equal(t, []Rank{1, 2, 2, 4}, []Rank{got[0].Rank, got[1].Rank, got[2].Rank, got[3].Rank})
}

func TestParseMetric(t *testing.T) {
	m, err := ParseMetric("")
	require.NoError(t, err)
	assert.Equal(t, MetricCurrentStreak, m)

	m, err = ParseMetric("total_hours")
	require.NoError(t, err)
	assert.Equal(t, MetricTotalHours, m)

	_, err = ParseMetric("xp")
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
}
