// Package leaderboard ranks students by streak or study time.
package leaderboard

import (
	"fmt"
	"sort"

	"github.com/educationaltr/study-tracker/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Rank is a 1-based position. Tied scores share a rank.
type Rank int

// IsValid checks that the rank is positive.
func (r Rank) IsValid() bool {
	return r > 0
}

// String returns "#N".
func (r Rank) String() string {
	return fmt.Sprintf("#%d", r)
}

// Metric is the value students are ranked by.
type Metric string

const (
	// MetricCurrentStreak ranks by the stored current streak.
	MetricCurrentStreak Metric = "current_streak"
	// MetricLongestStreak ranks by the best streak ever reached.
	MetricLongestStreak Metric = "longest_streak"
	// MetricTotalHours ranks by the sum of all session hours.
	MetricTotalHours Metric = "total_hours"
)

// AllMetrics lists every supported metric.
func AllMetrics() []Metric {
	return []Metric{MetricCurrentStreak, MetricLongestStreak, MetricTotalHours}
}

// IsValid reports whether m is a supported metric.
func (m Metric) IsValid() bool {
	switch m {
	case MetricCurrentStreak, MetricLongestStreak, MetricTotalHours:
		return true
	default:
		return false
	}
}

// ParseMetric parses a metric name. Empty defaults to MetricCurrentStreak.
func ParseMetric(raw string) (Metric, error) {
	if raw == "" {
		return MetricCurrentStreak, nil
	}
	m := Metric(raw)
	if !m.IsValid() {
		return "", shared.NewDomainError("leaderboard", "ParseMetric", shared.ErrInvalidInput,
			fmt.Sprintf("unknown metric %q", raw))
	}
	return m, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTRY
// ══════════════════════════════════════════════════════════════════════════════

// Entry is one row of a leaderboard.
type Entry struct {
	Rank      Rank             `json:"rank"`
	StudentID shared.StudentID `json:"student_id"`
	Username  string           `json:"username"`
	FullName  string           `json:"full_name"`
	Score     float64          `json:"score"`
}

// AssignRanks sorts entries by score (descending, then username) and
// assigns standard competition ranks: equal scores share a rank and the
// next distinct score skips ahead (1, 2, 2, 4).
func AssignRanks(entries []Entry) []Entry {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Username < entries[j].Username
	})

	for i := range entries {
		if i > 0 && entries[i].Score == entries[i-1].Score {
			entries[i].Rank = entries[i-1].Rank
			continue
		}
		entries[i].Rank = Rank(i + 1)
	}
	return entries
}
