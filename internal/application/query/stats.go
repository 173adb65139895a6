package query

import (
	"context"
	"fmt"

	"github.com/educationaltr/study-tracker/internal/domain/shared"
	"github.com/educationaltr/study-tracker/internal/domain/study"
	"github.com/educationaltr/study-tracker/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET STATS QUERY
// Chart data: hours per day, hours per subject, efficiency per day.
// ══════════════════════════════════════════════════════════════════════════════

// StatsResult feeds the stats charts. Daily series are ascending by date.
type StatsResult struct {
	DailyHours      []DatePoint          `json:"daily_hours"`
	SubjectHours    []study.SubjectHours `json:"subject_hours"`
	EfficiencyTrend []DatePoint          `json:"efficiency_trend"`
}

// DatePoint is one value on a date axis.
type DatePoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// GetStatsHandler handles the stats query.
type GetStatsHandler struct {
	stats study.StatsRepository
	clock timeutil.Clock
}

// NewGetStatsHandler creates a GetStatsHandler.
func NewGetStatsHandler(stats study.StatsRepository, clock timeutil.Clock) *GetStatsHandler {
	return &GetStatsHandler{stats: stats, clock: clock}
}

// Handle returns the last StatsWindowDays of daily data and the top subjects.
func (h *GetStatsHandler) Handle(ctx context.Context, actor shared.Actor, studentID shared.StudentID) (*StatsResult, error) {
	target, err := actor.Target(studentID)
	if err != nil {
		return nil, err
	}

	since := timeutil.DaysAgo(h.clock.Today(), study.StatsWindowDays)
	days, err := h.stats.DailySummaries(ctx, target, since)
	if err != nil {
		return nil, fmt.Errorf("get_stats: %w", err)
	}

	subjects, err := h.stats.SubjectHours(ctx, target, study.TopSubjectsLimit)
	if err != nil {
		return nil, fmt.Errorf("get_stats: %w", err)
	}
	if subjects == nil {
		subjects = []study.SubjectHours{}
	}

	result := &StatsResult{
		DailyHours:      make([]DatePoint, 0, len(days)),
		SubjectHours:    subjects,
		EfficiencyTrend: make([]DatePoint, 0, len(days)),
	}
	for _, d := range days {
		date := timeutil.FormatDate(d.Date)
		result.DailyHours = append(result.DailyHours, DatePoint{Date: date, Value: d.Hours})
		result.EfficiencyTrend = append(result.EfficiencyTrend, DatePoint{Date: date, Value: d.AverageEfficiency})
	}
	return result, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// CALCULATE GRADE QUERY
// ══════════════════════════════════════════════════════════════════════════════

// CalculateGradeQuery asks what average the remaining exams need.
type CalculateGradeQuery struct {
	Actor          shared.Actor
	StudentID      shared.StudentID
	TargetAverage  float64
	RemainingExams int
}

// CalculateGradeHandler handles CalculateGradeQuery.
type CalculateGradeHandler struct {
	records study.Repository
}

// NewCalculateGradeHandler creates a CalculateGradeHandler.
func NewCalculateGradeHandler(records study.Repository) *CalculateGradeHandler {
	return &CalculateGradeHandler{records: records}
}

// Handle returns the plan. For an unreachable target both the plan and
// shared.ErrTargetUnreachable are returned.
func (h *CalculateGradeHandler) Handle(ctx context.Context, q CalculateGradeQuery) (study.GradePlan, error) {
	target, err := q.Actor.Target(q.StudentID)
	if err != nil {
		return study.GradePlan{}, err
	}

	exams, err := h.records.ListExams(ctx, target)
	if err != nil {
		return study.GradePlan{}, fmt.Errorf("calculate_grade: %w", err)
	}

	return study.CalculateGrade(exams, q.TargetAverage, q.RemainingExams)
}
