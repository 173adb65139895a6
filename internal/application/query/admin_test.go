package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/educationaltr/study-tracker/internal/domain/schedule"
	"github.com/educationaltr/study-tracker/internal/domain/shared"
	"github.com/educationaltr/study-tracker/internal/domain/streak"
	"github.com/educationaltr/study-tracker/internal/domain/student"
	"github.com/educationaltr/study-tracker/internal/domain/study"
	mock_schedule "github.com/educationaltr/study-tracker/internal/mocks/schedule"
	mock_student "github.com/educationaltr/study-tracker/internal/mocks/student"
	mock_study "github.com/educationaltr/study-tracker/internal/mocks/study"
	"github.com/educationaltr/study-tracker/pkg/timeutil"
)

func TestAdminHandler_RequiresAdmin(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewAdminHandler(mock_student.NewMockRepository(ctrl), mock_study.NewMockRepository(ctrl),
		mock_study.NewMockStatsRepository(ctrl), timeutil.FixedClock(time.Now()))

	_, err := h.Overview(context.Background(), shared.Actor{StudentID: 3})
	assert.ErrorIs(t, err, shared.ErrAdminRequired)

	_, err = h.Detail(context.Background(), shared.Actor{StudentID: 3}, 4)
	assert.True(t, shared.IsForbidden(err))
}

func TestAdminHandler_Overview(t *testing.T) {
	ctrl := gomock.NewController(t)
	students := mock_student.NewMockRepository(ctrl)
	records := mock_study.NewMockRepository(ctrl)
	stats := mock_study.NewMockStatsRepository(ctrl)
	h := NewAdminHandler(students, records, stats, timeutil.FixedClock(day("2024-03-10")))

	students.EXPECT().List(gomock.Any(), student.DefaultListOptions()).Return([]*student.Student{
		{ID: 2, Username: "ali", FullName: "Ali", Streak: streak.State{CurrentStreak: 2, LongestStreak: 2, LastStudyDate: dayPtr("2024-03-10")}},
		{ID: 3, Username: "zeynep", FullName: "Zeynep", Streak: streak.NewState()},
	}, nil)
	stats.EXPECT().Totals(gomock.Any(), shared.StudentID(2)).Return(study.Totals{Sessions: 4, Hours: 6}, nil)
	stats.EXPECT().Totals(gomock.Any(), shared.StudentID(3)).Return(study.Totals{}, nil)
	records.EXPECT().ListExams(gomock.Any(), shared.StudentID(2)).Return([]*study.Exam{{Score: 70, MaxScore: 100}}, nil)
	records.EXPECT().ListExams(gomock.Any(), shared.StudentID(3)).Return(nil, nil)

	got, err := h.Overview(context.Background(), shared.Actor{StudentID: 1, IsAdmin: true})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "ali", got[0].Student.Username)
	assert.Equal(t, 6.0, got[0].Totals.Hours)
	assert.Equal(t, 1, got[0].ExamCount)
	assert.Equal(t, 70.0, got[0].ExamAverage)
	assert.Equal(t, 2, got[0].Streak.CurrentStreak)
	assert.Equal(t, 0, got[1].ExamCount)
}

func TestAdminHandler_Detail(t *testing.T) {
	ctrl := gomock.NewController(t)
	students := mock_student.NewMockRepository(ctrl)
	records := mock_study.NewMockRepository(ctrl)
	stats := mock_study.NewMockStatsRepository(ctrl)
	h := NewAdminHandler(students, records, stats, timeutil.FixedClock(day("2024-03-10")))

	students.EXPECT().GetByID(gomock.Any(), shared.StudentID(2)).Return(&student.Student{ID: 2, Username: "ali"}, nil)
	stats.EXPECT().Totals(gomock.Any(), shared.StudentID(2)).Return(study.Totals{Sessions: 1}, nil)
	records.EXPECT().ListExams(gomock.Any(), shared.StudentID(2)).Return([]*study.Exam{{ID: 5, Score: 8, MaxScore: 10}}, nil)
	records.EXPECT().ListSessions(gomock.Any(), shared.StudentID(2), 0).Return([]*study.Session{{ID: 9, Date: day("2024-03-09")}}, nil)

	got, err := h.Detail(context.Background(), shared.Actor{StudentID: 1, IsAdmin: true}, 2)
	require.NoError(t, err)
	assert.Len(t, got.Sessions, 1)
	require.Len(t, got.Exams, 1)
	assert.Equal(t, 80.0, got.Exams[0].Percentage)
}

func TestScheduleQueryHandler_Active(t *testing.T) {
	today := day("2024-03-10")

	t.Run("no schedules", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_schedule.NewMockRepository(ctrl)
		repo.EXPECT().ListByStudent(gomock.Any(), shared.StudentID(4)).Return(nil, nil)

		got, err := NewScheduleQueryHandler(repo, timeutil.FixedClock(today)).Active(context.Background(), shared.Actor{StudentID: 4}, 0)
		require.NoError(t, err)
		assert.Nil(t, got.Schedule)
		assert.Empty(t, got.Completions)
	})

	t.Run("newest schedule with completions", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_schedule.NewMockRepository(ctrl)
		older := &schedule.Schedule{ID: 1, StudentID: 4, Name: "Old", CreatedAt: today.Add(-48 * time.Hour)}
		newer := &schedule.Schedule{ID: 2, StudentID: 4, Name: "New", CreatedAt: today}
		repo.EXPECT().ListByStudent(gomock.Any(), shared.StudentID(4)).Return([]*schedule.Schedule{newer, older}, nil)
		repo.EXPECT().ListCompletions(gomock.Any(), int64(2), today).Return([]*schedule.Completion{
			{ID: 1, ItemID: 7, Date: day("2024-03-09"), IsCompleted: true},
		}, nil)

		got, err := NewScheduleQueryHandler(repo, timeutil.FixedClock(today)).Active(context.Background(), shared.Actor{StudentID: 4}, 0)
		require.NoError(t, err)
		assert.Equal(t, "New", got.Schedule.Name)
		assert.NotNil(t, got.Schedule.Items)
		require.Len(t, got.Completions, 1)
		assert.Equal(t, "2024-03-09", got.Completions[0].Date)
	})
}

func TestScheduleQueryHandler_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_schedule.NewMockRepository(ctrl)
	repo.EXPECT().Get(gomock.Any(), int64(2)).Return(&schedule.Schedule{ID: 2, StudentID: 4}, nil)

	_, err := NewScheduleQueryHandler(repo, timeutil.FixedClock(time.Now())).Get(context.Background(), shared.Actor{StudentID: 5}, 2)
	assert.ErrorIs(t, err, shared.ErrScheduleNotOwned)
}

func TestGetStatsHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	stats := mock_study.NewMockStatsRepository(ctrl)
	today := day("2024-03-10")

	stats.EXPECT().DailySummaries(gomock.Any(), shared.StudentID(4), timeutil.DaysAgo(today, study.StatsWindowDays)).
		Return([]study.DailySummary{
			{Date: day("2024-03-08"), Hours: 2, AverageEfficiency: 3.5},
			{Date: day("2024-03-09"), Hours: 1, AverageEfficiency: 5},
		}, nil)
	stats.EXPECT().SubjectHours(gomock.Any(), shared.StudentID(4), study.TopSubjectsLimit).Return(nil, nil)

	got, err := NewGetStatsHandler(stats, timeutil.FixedClock(today)).Handle(context.Background(), shared.Actor{StudentID: 4}, 0)
	require.NoError(t, err)
	assert.Equal(t, []DatePoint{{Date: "2024-03-08", Value: 2}, {Date: "2024-03-09", Value: 1}}, got.DailyHours)
	assert.Equal(t, []DatePoint{{Date: "2024-03-08", Value: 3.5}, {Date: "2024-03-09", Value: 5}}, got.EfficiencyTrend)
	assert.NotNil(t, got.SubjectHours)
}

func TestCalculateGradeHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	records := mock_study.NewMockRepository(ctrl)
	records.EXPECT().ListExams(gomock.Any(), shared.StudentID(4)).Return([]*study.Exam{
		{Score: 60, MaxScore: 100},
		{Score: 80, MaxScore: 100},
	}, nil)

	plan, err := NewCalculateGradeHandler(records).Handle(context.Background(), CalculateGradeQuery{
		Actor:          shared.Actor{StudentID: 4},
		TargetAverage:  80,
		RemainingExams: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 70.0, plan.CurrentAverage)
	assert.Equal(t, 90.0, plan.NeededAverage)
	assert.True(t, plan.Reachable)
}
