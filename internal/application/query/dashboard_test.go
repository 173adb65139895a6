package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/educationaltr/study-tracker/internal/domain/shared"
	"github.com/educationaltr/study-tracker/internal/domain/streak"
	"github.com/educationaltr/study-tracker/internal/domain/student"
	"github.com/educationaltr/study-tracker/internal/domain/study"
	mock_student "github.com/educationaltr/study-tracker/internal/mocks/student"
	mock_study "github.com/educationaltr/study-tracker/internal/mocks/study"
	"github.com/educationaltr/study-tracker/pkg/timeutil"
)

func day(s string) time.Time {
	d, err := timeutil.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func dayPtr(s string) *time.Time {
	d := day(s)
	return &d
}

type dashboardMocks struct {
	students *mock_student.MockRepository
	records  *mock_study.MockRepository
	stats    *mock_study.MockStatsRepository
}

func newDashboard(t *testing.T, today string, warnings bool) (*GetDashboardHandler, dashboardMocks) {
	ctrl := gomock.NewController(t)
	m := dashboardMocks{
		students: mock_student.NewMockRepository(ctrl),
		records:  mock_study.NewMockRepository(ctrl),
		stats:    mock_study.NewMockStatsRepository(ctrl),
	}
	clock := timeutil.FixedClock(day(today).Add(10 * time.Hour))
	h := NewGetDashboardHandler(m.students, m.records, m.stats, clock, func() bool { return warnings })
	return h, m
}

func (m dashboardMocks) expectReads(id shared.StudentID, since time.Time) {
	m.stats.EXPECT().Totals(gomock.Any(), id).Return(study.Totals{Sessions: 2, Hours: 3.5, AverageEfficiency: 4, StudyDays: 2}, nil)
	m.stats.EXPECT().DailySummaries(gomock.Any(), id, since).Return([]study.DailySummary{
		{Date: day("2024-03-08"), Hours: 2, Sessions: 1, AverageEfficiency: 4},
	}, nil)
	m.records.EXPECT().ListSessions(gomock.Any(), id, study.RecentSessionsLimit).Return([]*study.Session{
		{ID: 1, StudentID: id, Subject: "Maths", Hours: 2, Date: day("2024-03-08")},
	}, nil)
	m.records.EXPECT().ListExams(gomock.Any(), id).Return([]*study.Exam{
		{ID: 1, StudentID: id, Name: "Quiz", Score: 40, MaxScore: 50},
		{ID: 2, StudentID: id, Name: "Final", Score: 90, MaxScore: 100},
	}, nil)
}

func TestGetDashboard_WarningFlag(t *testing.T) {
	atRisk := &student.Student{
		ID:       7,
		Username: "ayse",
		FullName: "Ayse Y",
		Streak:   streak.State{CurrentStreak: 3, LongestStreak: 4, LastStudyDate: dayPtr("2024-03-08")},
	}

	tests := []struct {
		name     string
		warnings bool
		shown    bool
		want     bool
	}{
		{"at risk and not yet shown", true, false, true},
		{"already shown this session", true, true, false},
		{"feature disabled", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newDashboard(t, "2024-03-10", tt.warnings)
			m.students.EXPECT().GetByID(gomock.Any(), shared.StudentID(7)).Return(atRisk, nil)
			m.expectReads(7, timeutil.DaysAgo(day("2024-03-10"), study.StatsWindowDays))

			ctx := WithWarningShown(context.Background(), tt.shown)
			got, err := h.Handle(ctx, GetDashboardQuery{Actor: shared.Actor{StudentID: 7}})
			require.NoError(t, err)

			assert.Equal(t, streak.DangerAtRisk, got.Streak.Danger)
			assert.Equal(t, tt.want, got.Streak.ShowWarning)
			assert.Equal(t, 3, got.Streak.EffectiveStreak)
			assert.Equal(t, "2024-03-08", got.Streak.LastStudyDate)
		})
	}
}

func TestGetDashboard_Aggregates(t *testing.T) {
	h, m := newDashboard(t, "2024-03-10", true)
	s := &student.Student{ID: 7, Username: "ayse", FullName: "Ayse Y", Streak: streak.NewState()}
	m.students.EXPECT().GetByID(gomock.Any(), shared.StudentID(7)).Return(s, nil)
	m.expectReads(7, timeutil.DaysAgo(day("2024-03-10"), study.StatsWindowDays))

	got, err := h.Handle(context.Background(), GetDashboardQuery{Actor: shared.Actor{StudentID: 1, IsAdmin: true}, StudentID: 7})
	require.NoError(t, err)

	assert.Equal(t, "ayse", got.Student.Username)
	assert.Equal(t, 3.5, got.Totals.Hours)
	assert.Len(t, got.Daily, 1)
	assert.Len(t, got.RecentSessions, 1)
	assert.Len(t, got.Exams, 2)
	assert.Equal(t, 85.0, got.ExamAverage)
	assert.Equal(t, streak.DangerSafe, got.Streak.Danger)
	assert.False(t, got.Streak.ShowWarning)
}

func TestGetDashboard_Errors(t *testing.T) {
	t.Run("student may not read another dashboard", func(t *testing.T) {
		h, _ := newDashboard(t, "2024-03-10", true)
		_, err := h.Handle(context.Background(), GetDashboardQuery{Actor: shared.Actor{StudentID: 7}, StudentID: 8})
		assert.ErrorIs(t, err, shared.ErrAdminRequired)
	})

	t.Run("missing student", func(t *testing.T) {
		h, m := newDashboard(t, "2024-03-10", true)
		m.students.EXPECT().GetByID(gomock.Any(), shared.StudentID(7)).Return(nil, shared.ErrStudentNotFound)
		_, err := h.Handle(context.Background(), GetDashboardQuery{Actor: shared.Actor{StudentID: 7}})
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("storage failure", func(t *testing.T) {
		h, m := newDashboard(t, "2024-03-10", true)
		m.students.EXPECT().GetByID(gomock.Any(), shared.StudentID(7)).Return(&student.Student{ID: 7}, nil)
		m.stats.EXPECT().Totals(gomock.Any(), gomock.Any()).Return(study.Totals{}, errors.New("disk full")).AnyTimes()
		m.stats.EXPECT().DailySummaries(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
		m.records.EXPECT().ListSessions(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
		m.records.EXPECT().ListExams(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

		_, err := h.Handle(context.Background(), GetDashboardQuery{Actor: shared.Actor{StudentID: 7}})
		assert.ErrorContains(t, err, "disk full")
	})
}

func TestGetStreakHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	streaks := mock_student.NewMockStreakRepository(ctrl)
	h := NewGetStreakHandler(streaks, timeutil.FixedClock(day("2024-03-10")), nil)

	streaks.EXPECT().GetStreak(gomock.Any(), shared.StudentID(7)).
		Return(streak.State{CurrentStreak: 6, LongestStreak: 6, LastStudyDate: dayPtr("2024-03-01")}, nil)

	got, err := h.Handle(context.Background(), shared.Actor{StudentID: 7}, 0)
	require.NoError(t, err)
	assert.Equal(t, streak.DangerAlreadyBroken, got.Danger)
	assert.Equal(t, 6, got.CurrentStreak)
	assert.Equal(t, 0, got.EffectiveStreak)
	assert.False(t, got.ShowWarning)
}

func TestWarningShown_DefaultsToFalse(t *testing.T) {
	assert.False(t, WarningShown(context.Background()))
	assert.True(t, WarningShown(WithWarningShown(context.Background(), true)))
}
