package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/educationaltr/study-tracker/internal/domain/shared"
	"github.com/educationaltr/study-tracker/internal/domain/study"
)

// StudyRepository implements study.Repository and study.StatsRepository.
type StudyRepository struct {
	conn *Connection
}

// NewStudyRepository creates a new StudyRepository.
func NewStudyRepository(conn *Connection) *StudyRepository {
	return &StudyRepository{conn: conn}
}

// ─────────────────────────────────────────────────────────────────────────────
// Sessions
// ─────────────────────────────────────────────────────────────────────────────

const sessionColumns = `id, student_id, date, subject, hours, efficiency, notes, difficulties, created_at`

// CreateSession inserts a session and sets its ID.
func (r *StudyRepository) CreateSession(ctx context.Context, s *study.Session) error {
	query := `
		INSERT INTO study_sessions (student_id, date, subject, hours, efficiency, notes, difficulties, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := r.conn.QueryRow(ctx, query,
		s.StudentID.Int64(),
		s.Date,
		s.Subject,
		s.Hours,
		s.Efficiency,
		nullString(s.Notes),
		nullString(s.Difficulties),
		s.CreatedAt,
	).Scan(&s.ID)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return shared.ErrStudentNotFound
		}
		return fmt.Errorf("failed to create study session: %w", err)
	}
	return nil
}

// GetSession returns a session by ID.
func (r *StudyRepository) GetSession(ctx context.Context, id int64) (*study.Session, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+sessionColumns+` FROM study_sessions WHERE id = $1`, id)
	s, err := scanSession(row)
	if IsNoRows(err) {
		return nil, shared.ErrSessionNotFound
	}
	return s, err
}

// DeleteSession removes a session.
func (r *StudyRepository) DeleteSession(ctx context.Context, id int64) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM study_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete study session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrSessionNotFound
	}
	return nil
}

// ListSessions returns a student's sessions, newest first.
func (r *StudyRepository) ListSessions(ctx context.Context, studentID shared.StudentID, limit int) ([]*study.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM study_sessions WHERE student_id = $1 ORDER BY date DESC, id DESC`
	args := []any{studentID.Int64()}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list study sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*study.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func scanSession(row pgx.Row) (*study.Session, error) {
	var s study.Session
	var studentID int64
	var notes, difficulties *string

	err := row.Scan(&s.ID, &studentID, &s.Date, &s.Subject, &s.Hours, &s.Efficiency, &notes, &difficulties, &s.CreatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan study session: %w", err)
	}

	s.StudentID = shared.StudentID(studentID)
	s.Date = *normalizeDate(&s.Date)
	s.Notes = deref(notes)
	s.Difficulties = deref(difficulties)
	return &s, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Exams
// ─────────────────────────────────────────────────────────────────────────────

const examColumns = `id, student_id, exam_name, score, max_score, exam_date, created_at`

// CreateExam inserts an exam result and sets its ID.
func (r *StudyRepository) CreateExam(ctx context.Context, e *study.Exam) error {
	query := `
		INSERT INTO exam_results (student_id, exam_name, score, max_score, exam_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.conn.QueryRow(ctx, query,
		e.StudentID.Int64(), e.Name, e.Score, e.MaxScore, e.ExamDate, e.CreatedAt,
	).Scan(&e.ID)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return shared.ErrStudentNotFound
		}
		return fmt.Errorf("failed to create exam result: %w", err)
	}
	return nil
}

// GetExam returns an exam result by ID.
func (r *StudyRepository) GetExam(ctx context.Context, id int64) (*study.Exam, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+examColumns+` FROM exam_results WHERE id = $1`, id)
	e, err := scanExam(row)
	if IsNoRows(err) {
		return nil, shared.ErrExamNotFound
	}
	return e, err
}

// DeleteExam removes an exam result.
func (r *StudyRepository) DeleteExam(ctx context.Context, id int64) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM exam_results WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete exam result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrExamNotFound
	}
	return nil
}

// ListExams returns a student's exams, newest first.
func (r *StudyRepository) ListExams(ctx context.Context, studentID shared.StudentID) ([]*study.Exam, error) {
	rows, err := r.conn.Query(ctx,
		`SELECT `+examColumns+` FROM exam_results WHERE student_id = $1 ORDER BY created_at DESC, id DESC`,
		studentID.Int64(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list exam results: %w", err)
	}
	defer rows.Close()

	var exams []*study.Exam
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, err
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

func scanExam(row pgx.Row) (*study.Exam, error) {
	var e study.Exam
	var studentID int64
	var examDate *time.Time

	err := row.Scan(&e.ID, &studentID, &e.Name, &e.Score, &e.MaxScore, &examDate, &e.CreatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan exam result: %w", err)
	}

	e.StudentID = shared.StudentID(studentID)
	e.ExamDate = normalizeDate(examDate)
	return &e, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Aggregates
// ─────────────────────────────────────────────────────────────────────────────

// Totals summarizes every session of a student.
func (r *StudyRepository) Totals(ctx context.Context, studentID shared.StudentID) (study.Totals, error) {
	var t study.Totals
	err := r.conn.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(hours), 0)::float8,
		       COALESCE(AVG(efficiency), 0)::float8,
		       COUNT(DISTINCT date)
		FROM study_sessions
		WHERE student_id = $1
	`, studentID.Int64()).Scan(&t.Sessions, &t.Hours, &t.AverageEfficiency, &t.StudyDays)
	if err != nil {
		return study.Totals{}, fmt.Errorf("failed to compute totals: %w", err)
	}

	t.Hours = shared.Round2(t.Hours)
	t.AverageEfficiency = shared.Round2(t.AverageEfficiency)
	return t, nil
}

// DailySummaries returns one row per study day on or after since.
func (r *StudyRepository) DailySummaries(ctx context.Context, studentID shared.StudentID, since time.Time) ([]study.DailySummary, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT date, SUM(hours)::float8, AVG(efficiency)::float8, COUNT(*)
		FROM study_sessions
		WHERE student_id = $1 AND date >= $2
		GROUP BY date
		ORDER BY date ASC
	`, studentID.Int64(), since)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily summaries: %w", err)
	}
	defer rows.Close()

	var out []study.DailySummary
	for rows.Next() {
		var d study.DailySummary
		if err := rows.Scan(&d.Date, &d.Hours, &d.AverageEfficiency, &d.Sessions); err != nil {
			return nil, fmt.Errorf("failed to scan daily summary: %w", err)
		}
		d.Date = *normalizeDate(&d.Date)
		d.Hours = shared.Round2(d.Hours)
		d.AverageEfficiency = shared.Round2(d.AverageEfficiency)
		out = append(out, d)
	}
	return out, rows.Err()
}

// SubjectHours returns subjects by total hours, largest first.
func (r *StudyRepository) SubjectHours(ctx context.Context, studentID shared.StudentID, limit int) ([]study.SubjectHours, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT subject, SUM(hours)::float8 AS total, COUNT(*)
		FROM study_sessions
		WHERE student_id = $1
		GROUP BY subject
		ORDER BY total DESC, subject ASC
		LIMIT $2
	`, studentID.Int64(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query subject hours: %w", err)
	}
	defer rows.Close()

	var out []study.SubjectHours
	for rows.Next() {
		var s study.SubjectHours
		if err := rows.Scan(&s.Subject, &s.Hours, &s.Sessions); err != nil {
			return nil, fmt.Errorf("failed to scan subject hours: %w", err)
		}
		s.Hours = shared.Round2(s.Hours)
		out = append(out, s)
	}
	return out, rows.Err()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
