package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/educationaltr/study-tracker/internal/domain/shared"
	"github.com/educationaltr/study-tracker/internal/domain/streak"
	"github.com/educationaltr/study-tracker/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// StudentRepository implements student.Repository and student.StreakRepository.
type StudentRepository struct {
	conn *Connection
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(conn *Connection) *StudentRepository {
	return &StudentRepository{conn: conn}
}

const studentColumns = `
	id, username, password, full_name, email, is_admin,
	current_streak, longest_streak, last_study_date, created_at`

// ─────────────────────────────────────────────────────────────────────────────
// Accounts
// ─────────────────────────────────────────────────────────────────────────────

// Create inserts a student and sets its ID.
func (r *StudentRepository) Create(ctx context.Context, s *student.Student) error {
	query := `
		INSERT INTO students (
			username, password, full_name, email, is_admin,
			current_streak, longest_streak, last_study_date, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	var id int64
	err := r.conn.QueryRow(ctx, query,
		s.Username,
		s.PasswordHash,
		s.FullName,
		nullString(s.Email),
		s.IsAdmin,
		s.Streak.CurrentStreak,
		s.Streak.LongestStreak,
		s.Streak.LastStudyDate,
		s.CreatedAt,
	).Scan(&id)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrStudentAlreadyExists
		}
		return fmt.Errorf("failed to create student: %w", err)
	}

	s.ID = shared.StudentID(id)
	return nil
}

// GetByID returns a student by ID.
func (r *StudentRepository) GetByID(ctx context.Context, id shared.StudentID) (*student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`
	return scanStudent(r.conn.QueryRow(ctx, query, id.Int64()))
}

// GetByUsername returns a student by normalized username.
func (r *StudentRepository) GetByUsername(ctx context.Context, username string) (*student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE username = $1`
	return scanStudent(r.conn.QueryRow(ctx, query, shared.NormalizeUsername(username)))
}

// ExistsByUsername reports whether a username is taken.
func (r *StudentRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM students WHERE username = $1)`,
		shared.NormalizeUsername(username),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return exists, nil
}

// List returns students ordered per opts.
func (r *StudentRepository) List(ctx context.Context, opts student.ListOptions) ([]*student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students`
	if !opts.IncludeAdmins {
		query += ` WHERE NOT is_admin`
	}
	query += ` ORDER BY ` + orderClause(opts)

	args := []any{}
	if opts.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, len(args)+1)
		args = append(args, opts.Limit)
	}
	if opts.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, len(args)+1)
		args = append(args, opts.Offset)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	var students []*student.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// ─────────────────────────────────────────────────────────────────────────────
// Streak
// ─────────────────────────────────────────────────────────────────────────────

// GetStreak returns the stored streak state of a student.
func (r *StudentRepository) GetStreak(ctx context.Context, id shared.StudentID) (streak.State, error) {
	return getStreak(ctx, r.conn, id, false)
}

// UpdateStreak locks the student row, applies fn and stores the result.
func (r *StudentRepository) UpdateStreak(
	ctx context.Context,
	id shared.StudentID,
	fn func(streak.State) (streak.State, error),
) (streak.State, error) {
	var updated streak.State

	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		current, err := getStreak(ctx, tx, id, true)
		if err != nil {
			return err
		}

		next, err := fn(current)
		if err != nil {
			return err
		}
		if err := next.Validate(); err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			UPDATE students
			SET current_streak = $1, longest_streak = $2, last_study_date = $3
			WHERE id = $4
		`, next.CurrentStreak, next.LongestStreak, next.LastStudyDate, id.Int64())
		if err != nil {
			return fmt.Errorf("failed to update streak: %w", err)
		}

		updated = next
		return nil
	})
	if err != nil {
		return streak.State{}, err
	}
	return updated, nil
}

func getStreak(ctx context.Context, q Querier, id shared.StudentID, forUpdate bool) (streak.State, error) {
	query := `SELECT current_streak, longest_streak, last_study_date FROM students WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var state streak.State
	var last *time.Time
	err := q.QueryRow(ctx, query, id.Int64()).Scan(&state.CurrentStreak, &state.LongestStreak, &last)
	if IsNoRows(err) {
		return streak.State{}, shared.ErrStudentNotFound
	}
	if err != nil {
		return streak.State{}, fmt.Errorf("failed to load streak: %w", err)
	}

	state.LastStudyDate = normalizeDate(last)
	return state, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scanning
// ─────────────────────────────────────────────────────────────────────────────

func scanStudent(row pgx.Row) (*student.Student, error) {
	var s student.Student
	var id int64
	var email *string
	var last *time.Time

	err := row.Scan(
		&id,
		&s.Username,
		&s.PasswordHash,
		&s.FullName,
		&email,
		&s.IsAdmin,
		&s.Streak.CurrentStreak,
		&s.Streak.LongestStreak,
		&last,
		&s.CreatedAt,
	)
	if IsNoRows(err) {
		return nil, shared.ErrStudentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan student: %w", err)
	}

	s.ID = shared.StudentID(id)
	if email != nil {
		s.Email = *email
	}
	s.Streak.LastStudyDate = normalizeDate(last)
	return &s, nil
}

func orderClause(opts student.ListOptions) string {
	column := "full_name"
	switch opts.SortBy {
	case "username", "created_at", "current_streak":
		column = opts.SortBy
	}
	dir := "ASC"
	if opts.SortDesc {
		dir = "DESC"
	}
	return column + " " + dir + ", id ASC"
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// normalizeDate strips any location pgx attached to a DATE value.
func normalizeDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}
