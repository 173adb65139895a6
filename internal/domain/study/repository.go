package study

import (
	"context"
	"time"

	"github.com/educationaltr/study-tracker/internal/domain/shared"
)

//go:generate mockgen -source=repository.go -destination=../../mocks/study/mock_repository.go -package=mock_study

// Repository stores sessions and exam results.
type Repository interface {
	// CreateSession stores a session and assigns its ID.
	CreateSession(ctx context.Context, session *Session) error

	// GetSession returns ErrSessionNotFound when no row matches.
	GetSession(ctx context.Context, id int64) (*Session, error)

	// DeleteSession removes a session. Returns ErrSessionNotFound when no row matches.
	DeleteSession(ctx context.Context, id int64) error

	// ListSessions returns a student's sessions, newest date first.
	// A limit of zero returns all of them.
	ListSessions(ctx context.Context, studentID shared.StudentID, limit int) ([]*Session, error)

	// CreateExam stores an exam result and assigns its ID.
	CreateExam(ctx context.Context, exam *Exam) error

	// GetExam returns ErrExamNotFound when no row matches.
	GetExam(ctx context.Context, id int64) (*Exam, error)

	// DeleteExam removes an exam. Returns ErrExamNotFound when no row matches.
	DeleteExam(ctx context.Context, id int64) error

	// ListExams returns a student's exams, newest first.
	ListExams(ctx context.Context, studentID shared.StudentID) ([]*Exam, error)
}

// StatsRepository computes aggregates over sessions and exams.
type StatsRepository interface {
	// Totals summarizes every session of a student.
	Totals(ctx context.Context, studentID shared.StudentID) (Totals, error)

	// DailySummaries returns one entry per day with sessions on or after
	// since, in ascending date order.
	DailySummaries(ctx context.Context, studentID shared.StudentID, since time.Time) ([]DailySummary, error)

	// SubjectHours returns subjects ordered by total hours descending.
	SubjectHours(ctx context.Context, studentID shared.StudentID, limit int) ([]SubjectHours, error)
}
