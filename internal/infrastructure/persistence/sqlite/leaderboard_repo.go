package sqlite

import (
	"context"
	"fmt"

	"github.com/educationaltr/study-tracker/internal/domain/leaderboard"
	"github.com/educationaltr/study-tracker/internal/domain/shared"
)

// LeaderboardRepository implements leaderboard.Repository.
type LeaderboardRepository struct {
	db *DB
}

// NewLeaderboardRepository creates a new LeaderboardRepository.
func NewLeaderboardRepository(db *DB) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

var rankingQueries = map[leaderboard.Metric]string{
	leaderboard.MetricCurrentStreak: `
		SELECT id, username, full_name, CAST(current_streak AS REAL) AS score
		FROM students WHERE is_admin = 0
		ORDER BY score DESC, username ASC
		LIMIT ?`,
	leaderboard.MetricLongestStreak: `
		SELECT id, username, full_name, CAST(longest_streak AS REAL) AS score
		FROM students WHERE is_admin = 0
		ORDER BY score DESC, username ASC
		LIMIT ?`,
	leaderboard.MetricTotalHours: `
		SELECT s.id, s.username, s.full_name, COALESCE(SUM(ss.hours), 0.0) AS score
		FROM students s
		LEFT JOIN study_sessions ss ON ss.student_id = s.id
		WHERE s.is_admin = 0
		GROUP BY s.id, s.username, s.full_name
		ORDER BY score DESC, s.username ASC
		LIMIT ?`,
}

// Ranking returns up to limit students ranked by metric.
// A non-positive limit returns every student.
func (r *LeaderboardRepository) Ranking(ctx context.Context, metric leaderboard.Metric, limit int) ([]leaderboard.Entry, error) {
	query, ok := rankingQueries[metric]
	if !ok {
		return nil, fmt.Errorf("unsupported metric %q", metric)
	}
	if limit <= 0 {
		limit = -1
	}

	var rows []struct {
		ID       int64   `db:"id"`
		Username string  `db:"username"`
		FullName string  `db:"full_name"`
		Score    float64 `db:"score"`
	}
	if err := r.db.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("query ranking: %w", err)
	}

	entries := make([]leaderboard.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, leaderboard.Entry{
			StudentID: shared.StudentID(row.ID),
			Username:  row.Username,
			FullName:  row.FullName,
			Score:     shared.Round2(row.Score),
		})
	}
	return leaderboard.AssignRanks(entries), nil
}
