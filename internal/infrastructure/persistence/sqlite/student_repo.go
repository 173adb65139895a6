package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/educationaltr/study-tracker/internal/domain/shared"
	"github.com/educationaltr/study-tracker/internal/domain/streak"
	"github.com/educationaltr/study-tracker/internal/domain/student"
)

// StudentRepository implements student.Repository and student.StreakRepository.
type StudentRepository struct {
	db *DB
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(db *DB) *StudentRepository {
	return &StudentRepository{db: db}
}

type studentRow struct {
	ID            int64          `db:"id"`
	Username      string         `db:"username"`
	Password      string         `db:"password"`
	FullName      string         `db:"full_name"`
	Email         sql.NullString `db:"email"`
	IsAdmin       bool           `db:"is_admin"`
	CurrentStreak int            `db:"current_streak"`
	LongestStreak int            `db:"longest_streak"`
	LastStudyDate sql.NullString `db:"last_study_date"`
	CreatedAt     int64          `db:"created_at"`
}

type streakRow struct {
	CurrentStreak int            `db:"current_streak"`
	LongestStreak int            `db:"longest_streak"`
	LastStudyDate sql.NullString `db:"last_study_date"`
}

// state normalizes the stored columns into a streak.State.
func (r streakRow) state() (streak.State, error) {
	last, err := parseNullDate(r.LastStudyDate)
	if err != nil {
		return streak.State{}, err
	}
	return streak.State{
		CurrentStreak: r.CurrentStreak,
		LongestStreak: r.LongestStreak,
		LastStudyDate: last,
	}, nil
}

func (r studentRow) toDomain() (*student.Student, error) {
	state, err := streakRow{
		CurrentStreak: r.CurrentStreak,
		LongestStreak: r.LongestStreak,
		LastStudyDate: r.LastStudyDate,
	}.state()
	if err != nil {
		return nil, err
	}
	return &student.Student{
		ID:           shared.StudentID(r.ID),
		Username:     r.Username,
		PasswordHash: r.Password,
		FullName:     r.FullName,
		Email:        r.Email.String,
		IsAdmin:      r.IsAdmin,
		Streak:       state,
		CreatedAt:    fromMillis(r.CreatedAt),
	}, nil
}

const studentColumns = `id, username, password, full_name, email, is_admin,
	current_streak, longest_streak, last_study_date, created_at`

// Create inserts a student and sets its ID.
func (r *StudentRepository) Create(ctx context.Context, s *student.Student) error {
	res, err := r.db.db.ExecContext(ctx, `
		INSERT INTO students (
			username, password, full_name, email, is_admin,
			current_streak, longest_streak, last_study_date, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.Username,
		s.PasswordHash,
		s.FullName,
		nullString(s.Email),
		s.IsAdmin,
		s.Streak.CurrentStreak,
		s.Streak.LongestStreak,
		nullDate(s.Streak.LastStudyDate),
		toMillis(s.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return shared.ErrStudentAlreadyExists
		}
		return fmt.Errorf("create student: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	s.ID = shared.StudentID(id)
	return nil
}

// GetByID returns a student by ID.
func (r *StudentRepository) GetByID(ctx context.Context, id shared.StudentID) (*student.Student, error) {
	return r.get(ctx, `SELECT `+studentColumns+` FROM students WHERE id = ?`, id.Int64())
}

// GetByUsername returns a student by normalized username.
func (r *StudentRepository) GetByUsername(ctx context.Context, username string) (*student.Student, error) {
	return r.get(ctx, `SELECT `+studentColumns+` FROM students WHERE username = ?`, shared.NormalizeUsername(username))
}

func (r *StudentRepository) get(ctx context.Context, query string, arg any) (*student.Student, error) {
	var row studentRow
	if err := r.db.db.GetContext(ctx, &row, query, arg); err != nil {
		if isNoRows(err) {
			return nil, shared.ErrStudentNotFound
		}
		return nil, fmt.Errorf("get student: %w", err)
	}
	return row.toDomain()
}

// ExistsByUsername reports whether a username is taken.
func (r *StudentRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM students WHERE username = ?)`,
		shared.NormalizeUsername(username))
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return exists, nil
}

// List returns students ordered per opts.
func (r *StudentRepository) List(ctx context.Context, opts student.ListOptions) ([]*student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students`
	if !opts.IncludeAdmins {
		query += ` WHERE is_admin = 0`
	}
	query += ` ORDER BY ` + orderClause(opts)

	args := []any{}
	if opts.Limit > 0 || opts.Offset > 0 {
		limit := opts.Limit
		if limit <= 0 {
			limit = -1
		}
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, opts.Offset)
	}

	var rows []studentRow
	if err := r.db.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}

	students := make([]*student.Student, 0, len(rows))
	for _, row := range rows {
		s, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, nil
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

// GetStreak returns the stored streak state of a student.
func (r *StudentRepository) GetStreak(ctx context.Context, id shared.StudentID) (streak.State, error) {
	return getStreak(ctx, r.db.db, id)
}

// UpdateStreak applies fn inside an immediate (write-locked) transaction.
func (r *StudentRepository) UpdateStreak(
	ctx context.Context,
	id shared.StudentID,
	fn func(streak.State) (streak.State, error),
) (streak.State, error) {
	var updated streak.State

	err := r.db.withTx(ctx, func(tx *sqlx.Tx) error {
		current, err := getStreak(ctx, tx, id)
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

		_, err = tx.ExecContext(ctx, `
			UPDATE students
			SET current_streak = ?, longest_streak = ?, last_study_date = ?
			WHERE id = ?`,
			next.CurrentStreak, next.LongestStreak, nullDate(next.LastStudyDate), id.Int64())
		if err != nil {
			return fmt.Errorf("update streak: %w", err)
		}

		updated = next
		return nil
	})
	if err != nil {
		return streak.State{}, err
	}
	return updated, nil
}

func getStreak(ctx context.Context, q sqlx.QueryerContext, id shared.StudentID) (streak.State, error) {
	var row streakRow
	err := sqlx.GetContext(ctx, q, &row,
		`SELECT current_streak, longest_streak, last_study_date FROM students WHERE id = ?`, id.Int64())
	if err != nil {
		if isNoRows(err) {
			return streak.State{}, shared.ErrStudentNotFound
		}
		return streak.State{}, fmt.Errorf("load streak: %w", err)
	}
	return row.state()
}
