package postgres

import (
	"context"
	"fmt"

	"github.com/educationaltr/study-tracker/internal/domain/leaderboard"
	"github.com/educationaltr/study-tracker/internal/domain/shared"
)

// LeaderboardRepository implements leaderboard.Repository.
type LeaderboardRepository struct {
	conn *Connection
}

// NewLeaderboardRepository creates a new LeaderboardRepository.
func NewLeaderboardRepository(conn *Connection) *LeaderboardRepository {
	return &LeaderboardRepository{conn: conn}
}

// rankingQueries hold one query per metric. Each selects
// id, username, full_name, score for non-admin students.
var rankingQueries = map[leaderboard.Metric]string{
	leaderboard.MetricCurrentStreak: `
		SELECT id, username, full_name, current_streak::float8 AS score
		FROM students WHERE NOT is_admin
		ORDER BY score DESC, username ASC
		LIMIT $1`,
	leaderboard.MetricLongestStreak: `
		SELECT id, username, full_name, longest_streak::float8 AS score
		FROM students WHERE NOT is_admin
		ORDER BY score DESC, username ASC
		LIMIT $1`,
	leaderboard.MetricTotalHours: `
		SELECT s.id, s.username, s.full_name, COALESCE(SUM(ss.hours), 0)::float8 AS score
		FROM students s
		LEFT JOIN study_sessions ss ON ss.student_id = s.id
		WHERE NOT s.is_admin
		GROUP BY s.id, s.username, s.full_name
		ORDER BY score DESC, s.username ASC
		LIMIT $1`,
}

// Ranking returns up to limit students ranked by metric.
// A non-positive limit returns every student (LIMIT NULL).
func (r *LeaderboardRepository) Ranking(ctx context.Context, metric leaderboard.Metric, limit int) ([]leaderboard.Entry, error) {
	query, ok := rankingQueries[metric]
	if !ok {
		return nil, fmt.Errorf("unsupported metric %q", metric)
	}

	var limitArg *int
	if limit > 0 {
		limitArg = &limit
	}

	rows, err := r.conn.Query(ctx, query, limitArg)
	if err != nil {
		return nil, fmt.Errorf("failed to query ranking: %w", err)
	}
	defer rows.Close()

	var entries []leaderboard.Entry
	for rows.Next() {
		var e leaderboard.Entry
		var id int64
		if err := rows.Scan(&id, &e.Username, &e.FullName, &e.Score); err != nil {
			return nil, fmt.Errorf("failed to scan ranking row: %w", err)
		}
		e.StudentID = shared.StudentID(id)
		e.Score = shared.Round2(e.Score)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ranking: %w", err)
	}

	return leaderboard.AssignRanks(entries), nil
}
