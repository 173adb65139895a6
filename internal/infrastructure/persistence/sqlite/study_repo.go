package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/educationaltr/study-tracker/internal/domain/shared"
	"github.com/educationaltr/study-tracker/internal/domain/study"
)

// StudyRepository implements study.Repository and study.StatsRepository.
type StudyRepository struct {
	db *DB
}

// NewStudyRepository creates a new StudyRepository.
func NewStudyRepository(db *DB) *StudyRepository {
	return &StudyRepository{db: db}
}

// ─────────────────────────────────────────────────────────────────────────────
// Sessions
// ─────────────────────────────────────────────────────────────────────────────

type sessionRow struct {
	ID           int64          `db:"id"`
	StudentID    int64          `db:"student_id"`
	Date         string         `db:"date"`
	Subject      string         `db:"subject"`
	Hours        float64        `db:"hours"`
	Efficiency   int            `db:"efficiency"`
	Notes        sql.NullString `db:"notes"`
	Difficulties sql.NullString `db:"difficulties"`
	CreatedAt    int64          `db:"created_at"`
}

func (r sessionRow) toDomain() (*study.Session, error) {
	date, err := parseDate(r.Date)
	if err != nil {
		return nil, err
	}
	return &study.Session{
		ID:           r.ID,
		StudentID:    shared.StudentID(r.StudentID),
		Date:         date,
		Subject:      r.Subject,
		Hours:        r.Hours,
		Efficiency:   r.Efficiency,
		Notes:        r.Notes.String,
		Difficulties: r.Difficulties.String,
		CreatedAt:    fromMillis(r.CreatedAt),
	}, nil
}

const sessionColumns = `id, student_id, date, subject, hours, efficiency, notes, difficulties, created_at`

// CreateSession inserts a session and sets its ID.
func (r *StudyRepository) CreateSession(ctx context.Context, s *study.Session) error {
	res, err := r.db.db.ExecContext(ctx, `
		INSERT INTO study_sessions (student_id, date, subject, hours, efficiency, notes, difficulties, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.StudentID.Int64(),
		s.Date.Format(dateLayout),
		s.Subject,
		s.Hours,
		s.Efficiency,
		nullString(s.Notes),
		nullString(s.Difficulties),
		toMillis(s.CreatedAt),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return shared.ErrStudentNotFound
		}
		return fmt.Errorf("create study session: %w", err)
	}
	if s.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("create study session: %w", err)
	}
	return nil
}

// GetSession returns a session by ID.
func (r *StudyRepository) GetSession(ctx context.Context, id int64) (*study.Session, error) {
	var row sessionRow
	err := r.db.db.GetContext(ctx, &row, `SELECT `+sessionColumns+` FROM study_sessions WHERE id = ?`, id)
	if err != nil {
		if isNoRows(err) {
			return nil, shared.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get study session: %w", err)
	}
	return row.toDomain()
}

// DeleteSession removes a session.
func (r *StudyRepository) DeleteSession(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "study_sessions", id, shared.ErrSessionNotFound)
}

// ListSessions returns a student's sessions, newest first.
func (r *StudyRepository) ListSessions(ctx context.Context, studentID shared.StudentID, limit int) ([]*study.Session, error) {
	if limit <= 0 {
		limit = -1
	}

	var rows []sessionRow
	err := r.db.db.SelectContext(ctx, &rows,
		`SELECT `+sessionColumns+` FROM study_sessions WHERE student_id = ? ORDER BY date DESC, id DESC LIMIT ?`,
		studentID.Int64(), limit)
	if err != nil {
		return nil, fmt.Errorf("list study sessions: %w", err)
	}

	sessions := make([]*study.Session, 0, len(rows))
	for _, row := range rows {
		s, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Exams
// ─────────────────────────────────────────────────────────────────────────────

type examRow struct {
	ID        int64          `db:"id"`
	StudentID int64          `db:"student_id"`
	Name      string         `db:"exam_name"`
	Score     float64        `db:"score"`
	MaxScore  float64        `db:"max_score"`
	ExamDate  sql.NullString `db:"exam_date"`
	CreatedAt int64          `db:"created_at"`
}

func (r examRow) toDomain() (*study.Exam, error) {
	date, err := parseNullDate(r.ExamDate)
	if err != nil {
		return nil, err
	}
	return &study.Exam{
		ID:        r.ID,
		StudentID: shared.StudentID(r.StudentID),
		Name:      r.Name,
		Score:     r.Score,
		MaxScore:  r.MaxScore,
		ExamDate:  date,
		CreatedAt: fromMillis(r.CreatedAt),
	}, nil
}

const examColumns = `id, student_id, exam_name, score, max_score, exam_date, created_at`

// CreateExam inserts an exam result and sets its ID.
func (r *StudyRepository) CreateExam(ctx context.Context, e *study.Exam) error {
	res, err := r.db.db.ExecContext(ctx, `
		INSERT INTO exam_results (student_id, exam_name, score, max_score, exam_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.StudentID.Int64(), e.Name, e.Score, e.MaxScore, nullDate(e.ExamDate), toMillis(e.CreatedAt),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return shared.ErrStudentNotFound
		}
		return fmt.Errorf("create exam result: %w", err)
	}
	if e.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("create exam result: %w", err)
	}
	return nil
}

// GetExam returns an exam result by ID.
func (r *StudyRepository) GetExam(ctx context.Context, id int64) (*study.Exam, error) {
	var row examRow
	err := r.db.db.GetContext(ctx, &row, `SELECT `+examColumns+` FROM exam_results WHERE id = ?`, id)
	if err != nil {
		if isNoRows(err) {
			return nil, shared.ErrExamNotFound
		}
		return nil, fmt.Errorf("get exam result: %w", err)
	}
	return row.toDomain()
}

// DeleteExam removes an exam result.
func (r *StudyRepository) DeleteExam(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "exam_results", id, shared.ErrExamNotFound)
}

// ListExams returns a student's exams, newest first.
func (r *StudyRepository) ListExams(ctx context.Context, studentID shared.StudentID) ([]*study.Exam, error) {
	var rows []examRow
	err := r.db.db.SelectContext(ctx, &rows,
		`SELECT `+examColumns+` FROM exam_results WHERE student_id = ? ORDER BY created_at DESC, id DESC`,
		studentID.Int64())
	if err != nil {
		return nil, fmt.Errorf("list exam results: %w", err)
	}

	exams := make([]*study.Exam, 0, len(rows))
	for _, row := range rows {
		e, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		exams = append(exams, e)
	}
	return exams, nil
}

func (r *StudyRepository) deleteByID(ctx context.Context, table string, id int64, notFound error) error {
	res, err := r.db.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Aggregates
// ─────────────────────────────────────────────────────────────────────────────

// Totals summarizes every session of a student.
func (r *StudyRepository) Totals(ctx context.Context, studentID shared.StudentID) (study.Totals, error) {
	var row struct {
		Sessions   int     `db:"sessions"`
		Hours      float64 `db:"hours"`
		Efficiency float64 `db:"efficiency"`
		Days       int     `db:"days"`
	}
	err := r.db.db.GetContext(ctx, &row, `
		SELECT COUNT(*) AS sessions,
		       COALESCE(SUM(hours), 0.0) AS hours,
		       COALESCE(AVG(efficiency), 0.0) AS efficiency,
		       COUNT(DISTINCT date) AS days
		FROM study_sessions
		WHERE student_id = ?`, studentID.Int64())
	if err != nil {
		return study.Totals{}, fmt.Errorf("compute totals: %w", err)
	}

	return study.Totals{
		Sessions:          row.Sessions,
		Hours:             shared.Round2(row.Hours),
		AverageEfficiency: shared.Round2(row.Efficiency),
		StudyDays:         row.Days,
	}, nil
}

// DailySummaries returns one row per study day on or after since.
func (r *StudyRepository) DailySummaries(ctx context.Context, studentID shared.StudentID, since time.Time) ([]study.DailySummary, error) {
	var rows []struct {
		Date       string  `db:"date"`
		Hours      float64 `db:"hours"`
		Efficiency float64 `db:"efficiency"`
		Sessions   int     `db:"sessions"`
	}
	err := r.db.db.SelectContext(ctx, &rows, `
		SELECT date, SUM(hours) AS hours, AVG(efficiency) AS efficiency, COUNT(*) AS sessions
		FROM study_sessions
		WHERE student_id = ? AND date >= ?
		GROUP BY date
		ORDER BY date ASC`, studentID.Int64(), since.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("query daily summaries: %w", err)
	}

	out := make([]study.DailySummary, 0, len(rows))
	for _, row := range rows {
		date, err := parseDate(row.Date)
		if err != nil {
			return nil, err
		}
		out = append(out, study.DailySummary{
			Date:              date,
			Hours:             shared.Round2(row.Hours),
			AverageEfficiency: shared.Round2(row.Efficiency),
			Sessions:          row.Sessions,
		})
	}
	return out, nil
}

// SubjectHours returns subjects by total hours, largest first.
func (r *StudyRepository) SubjectHours(ctx context.Context, studentID shared.StudentID, limit int) ([]study.SubjectHours, error) {
	var rows []struct {
		Subject  string  `db:"subject"`
		Hours    float64 `db:"hours"`
		Sessions int     `db:"sessions"`
	}
	err := r.db.db.SelectContext(ctx, &rows, `
		SELECT subject, SUM(hours) AS hours, COUNT(*) AS sessions
		FROM study_sessions
		WHERE student_id = ?
		GROUP BY subject
		ORDER BY hours DESC, subject ASC
		LIMIT ?`, studentID.Int64(), limit)
	if err != nil {
		return nil, fmt.Errorf("query subject hours: %w", err)
	}

	out := make([]study.SubjectHours, 0, len(rows))
	for _, row := range rows {
		out = append(out, study.SubjectHours{
			Subject:  row.Subject,
			Hours:    shared.Round2(row.Hours),
			Sessions: row.Sessions,
		})
	}
	return out, nil
}
