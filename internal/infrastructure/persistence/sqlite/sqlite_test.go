package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/educationaltr/study-tracker/internal/domain/leaderboard"
	"github.com/educationaltr/study-tracker/internal/domain/schedule"
	"github.com/educationaltr/study-tracker/internal/domain/shared"
	"github.com/educationaltr/study-tracker/internal/domain/streak"
	"github.com/educationaltr/study-tracker/internal/domain/student"
	"github.com/educationaltr/study-tracker/internal/domain/study"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "tracker.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Migrate(context.Background())
	require.NoError(t, err)
	return db
}

func createStudent(t *testing.T, repo *StudentRepository, username string, admin bool) *student.Student {
	t.Helper()
	s, err := student.NewStudent(student.NewStudentParams{
		Username:     username,
		PasswordHash: "hash",
		FullName:     "Student " + username,
		IsAdmin:      admin,
	})
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), s))
	return s
}

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	ran, err := db.Migrate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, ran)
}

func TestStudentRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewStudentRepository(openTestDB(t))

	s := createStudent(t, repo, "Ayse", false)
	assert.True(t, s.ID.IsValid())

	got, err := repo.GetByUsername(ctx, "AYSE")
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, "ayse", got.Username)
	assert.Nil(t, got.Streak.LastStudyDate)

	exists, err := repo.ExistsByUsername(ctx, "ayse")
	require.NoError(t, err)
	assert.True(t, exists)

	dup, err := student.NewStudent(student.NewStudentParams{Username: "ayse", PasswordHash: "x", FullName: "Dup"})
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Create(ctx, dup), shared.ErrStudentAlreadyExists)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, shared.ErrStudentNotFound)
}

func TestStudentRepository_ListExcludesAdmins(t *testing.T) {
	ctx := context.Background()
	repo := NewStudentRepository(openTestDB(t))
	createStudent(t, repo, "zeynep", false)
	createStudent(t, repo, "admin", true)
	createStudent(t, repo, "ali", false)

	list, err := repo.List(ctx, student.DefaultListOptions())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "ali", list[0].Username)
	assert.Equal(t, "zeynep", list[1].Username)

	all, err := repo.List(ctx, student.ListOptions{IncludeAdmins: true, Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestStudentRepository_UpdateStreak(t *testing.T) {
	ctx := context.Background()
	repo := NewStudentRepository(openTestDB(t))
	s := createStudent(t, repo, "mert", false)

	state, err := repo.UpdateStreak(ctx, s.ID, func(cur streak.State) (streak.State, error) {
		next, _ := streak.Update(cur, date("2024-01-10"), date("2024-01-10"))
		return next, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, state.CurrentStreak)

	stored, err := repo.GetStreak(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastStudyDate)
	assert.Equal(t, date("2024-01-10"), *stored.LastStudyDate)
	assert.Equal(t, 1, stored.LongestStreak)

	boom := errors.New("boom")
	_, err = repo.UpdateStreak(ctx, s.ID, func(streak.State) (streak.State, error) {
		return streak.State{}, boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = repo.UpdateStreak(ctx, 12345, func(cur streak.State) (streak.State, error) { return cur, nil })
	assert.ErrorIs(t, err, shared.ErrStudentNotFound)
}

func TestStudentRepository_UpdateStreakSerializes(t *testing.T) {
	ctx := context.Background()
	repo := NewStudentRepository(openTestDB(t))
	s := createStudent(t, repo, "deniz", false)

	days := []string{"2024-03-01", "2024-03-02", "2024-03-03", "2024-03-04"}
	_, err := repo.UpdateStreak(ctx, s.ID, func(cur streak.State) (streak.State, error) {
		next, _ := streak.Update(cur, date("2024-02-29"), date("2024-02-29"))
		return next, nil
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.UpdateStreak(ctx, s.ID, func(cur streak.State) (streak.State, error) {
				next, _ := streak.Update(cur, date(days[0]), date(days[0]))
				return next, nil
			})
		}()
	}
	wg.Wait()

	state, err := repo.GetStreak(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, state.CurrentStreak, "same-day updates must not double count")
}

func TestStudyRepository(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	students := NewStudentRepository(db)
	repo := NewStudyRepository(db)
	s := createStudent(t, students, "elif", false)

	for _, in := range []struct {
		date    string
		subject string
		hours   float64
		eff     int
	}{
		{"2024-01-01", "Maths", 2, 80},
		{"2024-01-01", "Physics", 1, 60},
		{"2024-01-03", "Maths", 1.5, 70},
	} {
		eff := in.eff
		session, err := study.NewSession(study.NewSessionParams{
			StudentID: s.ID, Date: date(in.date), Subject: in.subject, Hours: in.hours, Efficiency: &eff,
		})
		require.NoError(t, err)
		require.NoError(t, repo.CreateSession(ctx, session))
		assert.NotZero(t, session.ID)
	}

	recent, err := repo.ListSessions(ctx, s.ID, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, date("2024-01-03"), recent[0].Date)

	totals, err := repo.Totals(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, study.Totals{Sessions: 3, Hours: 4.5, AverageEfficiency: 70, StudyDays: 2}, totals)

	daily, err := repo.DailySummaries(ctx, s.ID, date("2024-01-02"))
	require.NoError(t, err)
	require.Len(t, daily, 1)
	assert.Equal(t, 1.5, daily[0].Hours)

	subjects, err := repo.SubjectHours(ctx, s.ID, 10)
	require.NoError(t, err)
	require.Len(t, subjects, 2)
	assert.Equal(t, "Maths", subjects[0].Subject)
	assert.Equal(t, 3.5, subjects[0].Hours)

	require.NoError(t, repo.DeleteSession(ctx, recent[0].ID))
	assert.ErrorIs(t, repo.DeleteSession(ctx, recent[0].ID), shared.ErrSessionNotFound)
	_, err = repo.GetSession(ctx, recent[0].ID)
	assert.ErrorIs(t, err, shared.ErrSessionNotFound)

	examDate := date("2024-02-01")
	exam, err := study.NewExam(study.NewExamParams{StudentID: s.ID, Name: "Midterm", Score: 45, ExamDate: &examDate})
	require.NoError(t, err)
	require.NoError(t, repo.CreateExam(ctx, exam))

	got, err := repo.GetExam(ctx, exam.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, got.MaxScore)
	require.NotNil(t, got.ExamDate)
	assert.Equal(t, examDate, *got.ExamDate)

	exams, err := repo.ListExams(ctx, s.ID)
	require.NoError(t, err)
	assert.Len(t, exams, 1)

	require.NoError(t, repo.DeleteExam(ctx, exam.ID))
	assert.ErrorIs(t, repo.DeleteExam(ctx, exam.ID), shared.ErrExamNotFound)
}

func TestScheduleRepository(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	s := createStudent(t, NewStudentRepository(db), "can", false)
	repo := NewScheduleRepository(db)

	sched, err := schedule.NewSchedule(s.ID, "Week A", "", []schedule.ItemInput{
		{DayOfWeek: 3, StartTime: "10:00", EndTime: "11:00", Subject: "History"},
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00", Subject: "Maths", Location: "R1"},
	})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, sched))
	require.NotZero(t, sched.ID)

	got, err := repo.Get(ctx, sched.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Maths", got.Items[0].Subject)
	assert.Equal(t, "R1", got.Items[0].Location)

	owner, err := repo.ItemOwner(ctx, got.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, owner)

	c, err := schedule.NewCompletion(got.Items[0].ID, date("2024-05-01"), date("2024-05-01"), false, "")
	require.NoError(t, err)
	require.NoError(t, repo.UpsertCompletion(ctx, c))
	firstID := c.ID

	c2, err := schedule.NewCompletion(got.Items[0].ID, date("2024-05-01"), date("2024-05-01"), true, "done")
	require.NoError(t, err)
	require.NoError(t, repo.UpsertCompletion(ctx, c2))
	assert.Equal(t, firstID, c2.ID)

	future, err := schedule.NewCompletion(got.Items[1].ID, date("2024-05-09"), date("2024-05-09"), true, "")
	require.NoError(t, err)
	require.NoError(t, repo.UpsertCompletion(ctx, future))

	completions, err := repo.ListCompletions(ctx, sched.ID, date("2024-05-02"))
	require.NoError(t, err)
	require.Len(t, completions, 1)
	assert.True(t, completions[0].IsCompleted)
	assert.Equal(t, "done", completions[0].Notes)

	got.Name = "Week B"
	got.Items = []schedule.Item{{DayOfWeek: 5, StartTime: "14:00", EndTime: "15:00", Subject: "Art"}}
	require.NoError(t, repo.Update(ctx, got))

	list, err := repo.ListByStudent(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Week B", list[0].Name)
	require.Len(t, list[0].Items, 1)
	assert.Equal(t, "Art", list[0].Items[0].Subject)

	require.NoError(t, repo.Delete(ctx, sched.ID))
	_, err = repo.Get(ctx, sched.ID)
	assert.ErrorIs(t, err, shared.ErrScheduleNotFound)
	_, err = repo.ItemOwner(ctx, list[0].Items[0].ID)
	assert.ErrorIs(t, err, shared.ErrScheduleItemNotFound)
}

func TestLeaderboardRepository(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	students := NewStudentRepository(db)
	sessions := NewStudyRepository(db)
	lb := NewLeaderboardRepository(db)

	aa := createStudent(t, students, "aa", false)
	bb := createStudent(t, students, "bb", false)
	cc := createStudent(t, students, "cc", false)
	dd := createStudent(t, students, "dd", false)
	root := createStudent(t, students, "root", true)

	logged := []struct {
		id    shared.StudentID
		hours float64
	}{
		{aa.ID, 2}, {aa.ID, 2},
		{bb.ID, 2},
		{cc.ID, 2},
		{dd.ID, 1},
		{root.ID, 9},
	}
	for _, l := range logged {
		session, err := study.NewSession(study.NewSessionParams{StudentID: l.id, Date: date("2024-01-01"), Subject: "x", Hours: l.hours})
		require.NoError(t, err)
		require.NoError(t, sessions.CreateSession(ctx, session))
	}
	_, err := students.UpdateStreak(ctx, bb.ID, func(cur streak.State) (streak.State, error) {
		next, _ := streak.Update(cur, date("2024-01-01"), date("2024-01-01"))
		return next, nil
	})
	require.NoError(t, err)

	t.Run("total hours with a tie", func(t *testing.T) {
		hours, err := lb.Ranking(ctx, leaderboard.MetricTotalHours, 10)
		require.NoError(t, err)
		require.Len(t, hours, 4)

		got := make([]string, 0, len(hours))
		ranks := make([]leaderboard.Rank, 0, len(hours))
		for _, e := range hours {
			got = append(got, e.Username)
			ranks = append(ranks, e.Rank)
		}
		assert.Equal(t, []string{"aa", "bb", "cc", "dd"}, got)
		assert.Equal(t, []leaderboard.Rank{1, 2, 2, 4}, ranks)
		assert.Equal(t, 4.0, hours[0].Score)
		assert.Equal(t, 1.0, hours[3].Score)
	})

	t.Run("current streak excludes admins", func(t *testing.T) {
		streaks, err := lb.Ranking(ctx, leaderboard.MetricCurrentStreak, 0)
		require.NoError(t, err)
		require.Len(t, streaks, 4)
		assert.Equal(t, "bb", streaks[0].Username)
		assert.Equal(t, leaderboard.Rank(1), streaks[0].Rank)
		for _, e := range streaks[1:] {
			assert.Equal(t, leaderboard.Rank(2), e.Rank)
			assert.NotEqual(t, root.ID, e.StudentID)
		}
	})

	t.Run("limit", func(t *testing.T) {
		top, err := lb.Ranking(ctx, leaderboard.MetricTotalHours, 2)
		require.NoError(t, err)
		require.Len(t, top, 2)
		assert.Equal(t, "bb", top[1].Username)
	})
}
