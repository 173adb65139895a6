package query

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/educationaltr/study-tracker/internal/domain/shared"
	"github.com/educationaltr/study-tracker/internal/domain/streak"
	"github.com/educationaltr/study-tracker/internal/domain/student"
	"github.com/educationaltr/study-tracker/internal/domain/study"
	"github.com/educationaltr/study-tracker/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET DASHBOARD QUERY
// Everything the student's home page shows in one read.
// ══════════════════════════════════════════════════════════════════════════════

// GetDashboardQuery selects whose dashboard to build.
type GetDashboardQuery struct {
	Actor shared.Actor

	// StudentID defaults to the actor.
	StudentID shared.StudentID
}

// DashboardResult is the dashboard payload.
type DashboardResult struct {
	Student        StudentDTO   `json:"student"`
	Totals         study.Totals `json:"totals"`
	Daily          []DailyDTO   `json:"daily"`
	RecentSessions []SessionDTO `json:"recent_sessions"`
	Exams          []ExamDTO    `json:"exams"`
	ExamAverage    float64      `json:"exam_average"`
	Streak         StreakDTO    `json:"streak"`
}

// GetDashboardHandler handles GetDashboardQuery.
type GetDashboardHandler struct {
	students student.Repository
	records  study.Repository
	stats    study.StatsRepository
	clock    timeutil.Clock
	warnings func() bool
}

// NewGetDashboardHandler creates a GetDashboardHandler.
// warnings reports whether the at-risk warning feature is on; nil means on.
func NewGetDashboardHandler(
	students student.Repository,
	records study.Repository,
	stats study.StatsRepository,
	clock timeutil.Clock,
	warnings func() bool,
) *GetDashboardHandler {
	if warnings == nil {
		warnings = func() bool { return true }
	}
	return &GetDashboardHandler{
		students: students,
		records:  records,
		stats:    stats,
		clock:    clock,
		warnings: warnings,
	}
}

// Handle builds the dashboard. The streak is read as stored and classified
// against today; nothing is written.
func (h *GetDashboardHandler) Handle(ctx context.Context, q GetDashboardQuery) (*DashboardResult, error) {
	target, err := q.Actor.Target(q.StudentID)
	if err != nil {
		return nil, err
	}

	s, err := h.students.GetByID(ctx, target)
	if err != nil {
		return nil, err
	}

	today := h.clock.Today()

	var (
		totals study.Totals
		daily  []study.DailySummary
		recent []*study.Session
		exams  []*study.Exam
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		totals, err = h.stats.Totals(gctx, target)
		return err
	})
	g.Go(func() (err error) {
		daily, err = h.stats.DailySummaries(gctx, target, timeutil.DaysAgo(today, study.StatsWindowDays))
		return err
	})
	g.Go(func() (err error) {
		recent, err = h.records.ListSessions(gctx, target, study.RecentSessionsLimit)
		return err
	})
	g.Go(func() (err error) {
		exams, err = h.records.ListExams(gctx, target)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("get_dashboard: %w", err)
	}

	streakView := NewStreakDTO(s.Streak, today)
	streakView.ShowWarning = h.warnings() &&
		streakView.Danger == streak.DangerAtRisk &&
		!WarningShown(ctx)

	return &DashboardResult{
		Student:        NewStudentDTO(s),
		Totals:         totals,
		Daily:          newDailyDTOs(daily),
		RecentSessions: NewSessionDTOs(recent),
		Exams:          NewExamDTOs(exams),
		ExamAverage:    study.AveragePercentage(exams),
		Streak:         streakView,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// GET STREAK QUERY
// ══════════════════════════════════════════════════════════════════════════════

// GetStreakHandler returns just the streak view.
type GetStreakHandler struct {
	streaks  student.StreakRepository
	clock    timeutil.Clock
	warnings func() bool
}

// NewGetStreakHandler creates a GetStreakHandler. warnings may be nil.
func NewGetStreakHandler(streaks student.StreakRepository, clock timeutil.Clock, warnings func() bool) *GetStreakHandler {
	if warnings == nil {
		warnings = func() bool { return true }
	}
	return &GetStreakHandler{streaks: streaks, clock: clock, warnings: warnings}
}

// Handle classifies the stored streak of the target student.
func (h *GetStreakHandler) Handle(ctx context.Context, actor shared.Actor, studentID shared.StudentID) (*StreakDTO, error) {
	target, err := actor.Target(studentID)
	if err != nil {
		return nil, err
	}

	state, err := h.streaks.GetStreak(ctx, target)
	if err != nil {
		return nil, err
	}

	view := NewStreakDTO(state, h.clock.Today())
	view.ShowWarning = h.warnings() && view.Danger == streak.DangerAtRisk && !WarningShown(ctx)
	return &view, nil
}
