package query

import (
	"context"
	"fmt"
	"time"

	"github.com/educationaltr/study-tracker/internal/domain/shared"
	"github.com/educationaltr/study-tracker/internal/domain/student"
	"github.com/educationaltr/study-tracker/internal/domain/study"
	"github.com/educationaltr/study-tracker/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADMIN QUERIES
// ══════════════════════════════════════════════════════════════════════════════

// StudentOverview is one row of the admin overview.
type StudentOverview struct {
	Student     StudentDTO   `json:"student"`
	Totals      study.Totals `json:"totals"`
	ExamCount   int          `json:"exam_count"`
	ExamAverage float64      `json:"exam_average"`
	Streak      StreakDTO    `json:"streak"`
}

// StudentDetail is the admin view of one student.
type StudentDetail struct {
	StudentOverview
	Sessions []SessionDTO `json:"sessions"`
	Exams    []ExamDTO    `json:"exams"`
}

// AdminHandler serves the admin pages.
type AdminHandler struct {
	students student.Repository
	records  study.Repository
	stats    study.StatsRepository
	clock    timeutil.Clock
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(students student.Repository, records study.Repository, stats study.StatsRepository, clock timeutil.Clock) *AdminHandler {
	return &AdminHandler{students: students, records: records, stats: stats, clock: clock}
}

// Overview lists every non-admin student ordered by full name.
func (h *AdminHandler) Overview(ctx context.Context, actor shared.Actor) ([]StudentOverview, error) {
	if !actor.IsAdmin {
		return nil, shared.ErrAdminRequired
	}

	list, err := h.students.List(ctx, student.DefaultListOptions())
	if err != nil {
		return nil, fmt.Errorf("admin_overview: %w", err)
	}

	today := h.clock.Today()
	out := make([]StudentOverview, 0, len(list))
	for _, s := range list {
		row, _, err := h.overview(ctx, s, today)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}

// Detail returns one student's full history.
func (h *AdminHandler) Detail(ctx context.Context, actor shared.Actor, id shared.StudentID) (*StudentDetail, error) {
	if !actor.IsAdmin {
		return nil, shared.ErrAdminRequired
	}

	s, err := h.students.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	row, exams, err := h.overview(ctx, s, h.clock.Today())
	if err != nil {
		return nil, err
	}

	sessions, err := h.records.ListSessions(ctx, id, 0)
	if err != nil {
		return nil, fmt.Errorf("admin_detail: %w", err)
	}

	return &StudentDetail{
		StudentOverview: row,
		Sessions:        NewSessionDTOs(sessions),
		Exams:           NewExamDTOs(exams),
	}, nil
}

func (h *AdminHandler) overview(ctx context.Context, s *student.Student, today time.Time) (StudentOverview, []*study.Exam, error) {
	totals, err := h.stats.Totals(ctx, s.ID)
	if err != nil {
		return StudentOverview{}, nil, fmt.Errorf("admin: totals for %s: %w", s.Username, err)
	}
	exams, err := h.records.ListExams(ctx, s.ID)
	if err != nil {
		return StudentOverview{}, nil, fmt.Errorf("admin: exams for %s: %w", s.Username, err)
	}

	return StudentOverview{
		Student:     NewStudentDTO(s),
		Totals:      totals,
		ExamCount:   len(exams),
		ExamAverage: study.AveragePercentage(exams),
		Streak:      NewStreakDTO(s.Streak, today),
	}, exams, nil
}
