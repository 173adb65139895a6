package study

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/educationaltr/study-tracker/internal/domain/shared"
)

func exam(score, max float64) *Exam {
	return &Exam{StudentID: 1, Name: "quiz", Score: score, MaxScore: max}
}

func TestNewSession(t *testing.T) {
	t.Run("defaults efficiency and truncates date", func(t *testing.T) {
		s, err := NewSession(NewSessionParams{
			StudentID: 1,
			Date:      time.Date(2024, 3, 5, 18, 45, 0, 0, time.UTC),
			Subject:   "  Calculus ",
			Hours:     1.5,
		})
		require.NoError(t, err)
		assert.Equal(t, DefaultEfficiency, s.Efficiency)
		assert.Equal(t, "Calculus", s.Subject)
		assert.Equal(t, "2024-03-05", s.DateString())
	})

	t.Run("rejects invalid input per field", func(t *testing.T) {
		bad := 120
		_, err := NewSession(NewSessionParams{Hours: 0, Efficiency: &bad})
		require.Error(t, err)
		assert.True(t, shared.IsValidation(err))

		var fe shared.FieldErrors
		require.True(t, errors.As(err, &fe))
		assert.Contains(t, fe, "student_id")
		assert.Contains(t, fe, "date")
		assert.Contains(t, fe, "subject")
		assert.Contains(t, fe, "hours")
		assert.Contains(t, fe, "efficiency")
	})

	t.Run("zero efficiency is kept", func(t *testing.T) {
		zero := 0
		s, err := NewSession(NewSessionParams{StudentID: 1, Date: time.Now(), Subject: "x", Hours: 1, Efficiency: &zero})
		require.NoError(t, err)
		assert.Equal(t, 0, s.Efficiency)
	})
}

func TestNewExam(t *testing.T) {
	e, err := NewExam(NewExamParams{StudentID: 2, Name: "Midterm", Score: 42})
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxScore, e.MaxScore)
	assert.Nil(t, e.ExamDate)

	zero := 0.0
	_, err = NewExam(NewExamParams{StudentID: 2, Name: "", Score: -1, MaxScore: &zero})
	var fe shared.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Len(t, fe, 3)
}

func TestAveragePercentage(t *testing.T) {
	assert.Equal(t, 0.0, AveragePercentage(nil))
	assert.Equal(t, 75.0, AveragePercentage([]*Exam{exam(80, 100), exam(35, 50)}))
	assert.Equal(t, 33.33, AveragePercentage([]*Exam{exam(1, 3)}))
}

func TestCalculateGrade(t *testing.T) {
	t.Run("reachable target", func(t *testing.T) {
		plan, err := CalculateGrade([]*Exam{exam(60, 100), exam(70, 100)}, 75, 2)
		require.NoError(t, err)
		assert.Equal(t, 65.0, plan.CurrentAverage)
		assert.Equal(t, 85.0, plan.NeededAverage)
		assert.True(t, plan.Reachable)
	})

	t.Run("unreachable target still returns the plan", func(t *testing.T) {
		plan, err := CalculateGrade([]*Exam{exam(40, 100)}, 90, 1)
		assert.ErrorIs(t, err, shared.ErrTargetUnreachable)
		assert.Equal(t, 140.0, plan.NeededAverage)
		assert.False(t, plan.Reachable)
		assert.Equal(t, 40.0, plan.CurrentAverage)
	})

	t.Run("no exams", func(t *testing.T) {
		_, err := CalculateGrade(nil, 80, 1)
		assert.ErrorIs(t, err, shared.ErrNoExamResults)
	})

	t.Run("invalid inputs", func(t *testing.T) {
		_, err := CalculateGrade([]*Exam{exam(1, 1)}, 0, 0)
		var fe shared.FieldErrors
		require.True(t, errors.As(err, &fe))
		assert.Contains(t, fe, "target_average")
		assert.Contains(t, fe, "remaining_exams")

		_, err = CalculateGrade([]*Exam{exam(1, 1)}, 101, 1)
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("rounds to two decimals", func(t *testing.T) {
		plan, err := CalculateGrade([]*Exam{exam(2, 3)}, 70, 3)
		require.NoError(t, err)
		assert.Equal(t, 66.67, plan.CurrentAverage)
		assert.Equal(t, 71.11, plan.NeededAverage)
	})
}
