package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/educationaltr/study-tracker/internal/domain/leaderboard"
	"github.com/educationaltr/study-tracker/internal/domain/shared"
	"github.com/educationaltr/study-tracker/internal/domain/streak"
	"github.com/educationaltr/study-tracker/internal/domain/student"
	"github.com/educationaltr/study-tracker/internal/domain/study"
	mock_command "github.com/educationaltr/study-tracker/internal/mocks/command"
	mock_leaderboard "github.com/educationaltr/study-tracker/internal/mocks/leaderboard"
	mock_student "github.com/educationaltr/study-tracker/internal/mocks/student"
	mock_study "github.com/educationaltr/study-tracker/internal/mocks/study"
	"github.com/educationaltr/study-tracker/pkg/logger"
	"github.com/educationaltr/study-tracker/pkg/timeutil"
)

func day(s string) time.Time {
	d, err := timeutil.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

type recordMocks struct {
	students *mock_student.MockRepository
	streaks  *mock_student.MockStreakRepository
	sessions *mock_study.MockRepository
	cache    *mock_leaderboard.MockCache
	observer *mock_command.MockStreakObserver
}

func newRecordHandler(t *testing.T, today string) (*RecordSessionHandler, recordMocks) {
	ctrl := gomock.NewController(t)
	m := recordMocks{
		students: mock_student.NewMockRepository(ctrl),
		streaks:  mock_student.NewMockStreakRepository(ctrl),
		sessions: mock_study.NewMockRepository(ctrl),
		cache:    mock_leaderboard.NewMockCache(ctrl),
		observer: mock_command.NewMockStreakObserver(ctrl),
	}
	clock := timeutil.FixedClock(day(today).Add(15 * time.Hour))
	h := NewRecordSessionHandler(m.students, m.streaks, m.sessions, m.cache, m.observer, clock, logger.Discard())
	return h, m
}

func applyTo(state streak.State) func(context.Context, shared.StudentID, func(streak.State) (streak.State, error)) (streak.State, error) {
	return func(_ context.Context, _ shared.StudentID, fn func(streak.State) (streak.State, error)) (streak.State, error) {
		return fn(state)
	}
}

func TestRecordSessionHandler_Handle(t *testing.T) {
	owner := &student.Student{ID: 7, Username: "ayse", FullName: "Ayse Y"}
	last := day("2024-01-10")

	tests := []struct {
		name        string
		stored      streak.State
		sessionDate string
		wantOutcome streak.Outcome
		wantMessage string
		wantCurrent int
	}{
		{"first session starts a streak", streak.NewState(), "2024-01-11", streak.OutcomeStarted, "new streak begun", 1},
		{"next day extends", streak.State{CurrentStreak: 3, LongestStreak: 3, LastStudyDate: &last}, "2024-01-11", streak.OutcomeExtended, "streak now 4", 4},
		{"same day is unchanged", streak.State{CurrentStreak: 3, LongestStreak: 3, LastStudyDate: &last}, "2024-01-10", streak.OutcomeSameDay, "already logged today, streak unchanged", 3},
		{"gap resets", streak.State{CurrentStreak: 3, LongestStreak: 5, LastStudyDate: &last}, "2024-01-14", streak.OutcomeBroken, "streak reset to 1", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newRecordHandler(t, tt.sessionDate)

			m.students.EXPECT().GetByID(gomock.Any(), shared.StudentID(7)).Return(owner, nil)
			m.sessions.EXPECT().CreateSession(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, s *study.Session) error {
					assert.Equal(t, shared.StudentID(7), s.StudentID)
					assert.Equal(t, day(tt.sessionDate), s.Date)
					s.ID = 99
					return nil
				})
			m.streaks.EXPECT().UpdateStreak(gomock.Any(), shared.StudentID(7), gomock.Any()).DoAndReturn(applyTo(tt.stored))
			m.observer.EXPECT().ObserveStreakOutcome(tt.wantOutcome)
			m.cache.EXPECT().UpdateScore(gomock.Any(), leaderboard.MetricCurrentStreak, gomock.Any()).
				DoAndReturn(func(_ context.Context, _ leaderboard.Metric, e leaderboard.Entry) error {
					assert.Equal(t, float64(tt.wantCurrent), e.Score)
					assert.Equal(t, "ayse", e.Username)
					return nil
				})
			m.cache.EXPECT().UpdateScore(gomock.Any(), leaderboard.MetricLongestStreak, gomock.Any()).Return(nil)
			m.cache.EXPECT().Invalidate(gomock.Any(), leaderboard.MetricTotalHours).Return(nil)

			got, err := h.Handle(context.Background(), RecordSessionCommand{
				Actor:   shared.Actor{StudentID: 7},
				Date:    day(tt.sessionDate),
				Subject: "Maths",
				Hours:   1.5,
			})
			require.NoError(t, err)

			assert.Equal(t, int64(99), got.Session.ID)
			assert.Equal(t, study.DefaultEfficiency, got.Session.Efficiency)
			assert.Equal(t, tt.wantOutcome, got.Outcome)
			assert.Equal(t, tt.wantMessage, got.Message)
			require.NotNil(t, got.Streak)
			assert.Equal(t, tt.wantCurrent, got.Streak.CurrentStreak)
			assert.Empty(t, got.StreakError)
		})
	}
}

func TestRecordSessionHandler_StreakFailureKeepsSession(t *testing.T) {
	h, m := newRecordHandler(t, "2024-01-11")

	m.students.EXPECT().GetByID(gomock.Any(), shared.StudentID(7)).Return(&student.Student{ID: 7, Username: "ayse"}, nil)
	m.sessions.EXPECT().CreateSession(gomock.Any(), gomock.Any()).Return(nil)
	m.streaks.EXPECT().UpdateStreak(gomock.Any(), shared.StudentID(7), gomock.Any()).
		Return(streak.State{}, errors.New("database is locked"))
	m.observer.EXPECT().ObserveStreakFailure()
	// No session delete and no cache calls are expected.

	got, err := h.Handle(context.Background(), RecordSessionCommand{
		Actor:   shared.Actor{StudentID: 7},
		Date:    day("2024-01-11"),
		Subject: "Physics",
		Hours:   2,
	})
	require.NoError(t, err)

	assert.NotNil(t, got.Session)
	assert.Equal(t, "could not update streak", got.StreakError)
	assert.Nil(t, got.Streak)
	assert.Empty(t, got.Outcome)
}

func TestRecordSessionHandler_ValidationSavesNothing(t *testing.T) {
	h, m := newRecordHandler(t, "2024-01-11")
	m.students.EXPECT().GetByID(gomock.Any(), shared.StudentID(7)).Return(&student.Student{ID: 7}, nil)

	bad := 120
	_, err := h.Handle(context.Background(), RecordSessionCommand{
		Actor:      shared.Actor{StudentID: 7},
		Date:       day("2024-01-11"),
		Subject:    "",
		Hours:      0,
		Efficiency: &bad,
	})
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))

	var fields shared.FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "subject")
	assert.Contains(t, fields, "hours")
	assert.Contains(t, fields, "efficiency")
}

func TestRecordSessionHandler_RejectsFutureDate(t *testing.T) {
	h, m := newRecordHandler(t, "2024-01-11")
	m.students.EXPECT().GetByID(gomock.Any(), shared.StudentID(7)).Return(&student.Student{ID: 7}, nil)

	_, err := h.Handle(context.Background(), RecordSessionCommand{
		Actor:   shared.Actor{StudentID: 7},
		Date:    day("2024-01-12"),
		Subject: "Maths",
		Hours:   1,
	})
	require.Error(t, err)

	var fields shared.FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "date")
}

func TestRecordSessionHandler_OnBehalf(t *testing.T) {
	t.Run("admin may record for a student", func(t *testing.T) {
		h, m := newRecordHandler(t, "2024-01-11")

		m.students.EXPECT().GetByID(gomock.Any(), shared.StudentID(3)).Return(&student.Student{ID: 3, Username: "can"}, nil)
		m.sessions.EXPECT().CreateSession(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, s *study.Session) error {
				assert.Equal(t, shared.StudentID(3), s.StudentID)
				return nil
			})
		m.streaks.EXPECT().UpdateStreak(gomock.Any(), shared.StudentID(3), gomock.Any()).DoAndReturn(applyTo(streak.NewState()))
		m.observer.EXPECT().ObserveStreakOutcome(streak.OutcomeStarted)
		m.cache.EXPECT().UpdateScore(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
		m.cache.EXPECT().Invalidate(gomock.Any(), leaderboard.MetricTotalHours).Return(nil)

		_, err := h.Handle(context.Background(), RecordSessionCommand{
			Actor:     shared.Actor{StudentID: 1, IsAdmin: true},
			StudentID: 3,
			Date:      day("2024-01-11"),
			Subject:   "History",
			Hours:     1,
		})
		require.NoError(t, err)
	})

	t.Run("student may not record for someone else", func(t *testing.T) {
		h, _ := newRecordHandler(t, "2024-01-11")

		_, err := h.Handle(context.Background(), RecordSessionCommand{
			Actor:     shared.Actor{StudentID: 7},
			StudentID: 3,
			Date:      day("2024-01-11"),
			Subject:   "History",
			Hours:     1,
		})
		assert.True(t, shared.IsForbidden(err))
	})
}

func TestRecordSessionHandler_CacheErrorsAreIgnored(t *testing.T) {
	h, m := newRecordHandler(t, "2024-01-11")

	m.students.EXPECT().GetByID(gomock.Any(), shared.StudentID(7)).Return(&student.Student{ID: 7}, nil)
	m.sessions.EXPECT().CreateSession(gomock.Any(), gomock.Any()).Return(nil)
	m.streaks.EXPECT().UpdateStreak(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(applyTo(streak.NewState()))
	m.observer.EXPECT().ObserveStreakOutcome(streak.OutcomeStarted)
	m.cache.EXPECT().UpdateScore(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("redis down")).Times(2)
	m.cache.EXPECT().Invalidate(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

	got, err := h.Handle(context.Background(), RecordSessionCommand{
		Actor:   shared.Actor{StudentID: 7},
		Date:    day("2024-01-11"),
		Subject: "Art",
		Hours:   1,
	})
	require.NoError(t, err)
	assert.Equal(t, streak.OutcomeStarted, got.Outcome)
}

func TestRecordSessionHandler_SessionSaveFailure(t *testing.T) {
	h, m := newRecordHandler(t, "2024-01-11")

	m.students.EXPECT().GetByID(gomock.Any(), shared.StudentID(7)).Return(&student.Student{ID: 7}, nil)
	m.sessions.EXPECT().CreateSession(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	_, err := h.Handle(context.Background(), RecordSessionCommand{
		Actor:   shared.Actor{StudentID: 7},
		Date:    day("2024-01-11"),
		Subject: "Art",
		Hours:   1,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
