package study

import (
	"strings"
	"time"

	"github.com/educationaltr/study-tracker/internal/domain/shared"
	"github.com/educationaltr/study-tracker/pkg/timeutil"
)

// DefaultMaxScore is the max score of an exam when none is given.
const DefaultMaxScore = 100.0

// Exam is a recorded exam result.
type Exam struct {
	ID        int64            `json:"id"`
	StudentID shared.StudentID `json:"student_id"`
	Name      string           `json:"name"`
	Score     float64          `json:"score"`
	MaxScore  float64          `json:"max_score"`
	ExamDate  *time.Time       `json:"-"`
	CreatedAt time.Time        `json:"created_at"`
}

// NewExamParams holds the raw input for NewExam.
type NewExamParams struct {
	StudentID shared.StudentID
	Name      string
	Score     float64
	MaxScore  *float64
	ExamDate  *time.Time
}

// NewExam validates the input and builds an exam result.
func NewExam(p NewExamParams) (*Exam, error) {
	errs := shared.FieldErrors{}

	if !p.StudentID.IsValid() {
		errs.Add("student_id", "is required")
	}

	name := strings.TrimSpace(p.Name)
	if name == "" || len(name) > 255 {
		errs.Add("name", "is required and must be at most 255 characters")
	}

	maxScore := DefaultMaxScore
	if p.MaxScore != nil {
		maxScore = *p.MaxScore
	}
	if maxScore <= 0 {
		errs.Add("max_score", "must be greater than 0")
	}
	if p.Score < 0 {
		errs.Add("score", "must not be negative")
	}

	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	var examDate *time.Time
	if p.ExamDate != nil {
		d := timeutil.DateOf(*p.ExamDate)
		examDate = &d
	}

	return &Exam{
		StudentID: p.StudentID,
		Name:      name,
		Score:     p.Score,
		MaxScore:  maxScore,
		ExamDate:  examDate,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Percentage returns score as a percentage of max score.
func (e *Exam) Percentage() float64 {
	if e.MaxScore <= 0 {
		return 0
	}
	return e.Score * 100 / e.MaxScore
}

// AveragePercentage returns the mean percentage across exams, rounded to two
// decimals. It returns 0 for an empty slice.
func AveragePercentage(exams []*Exam) float64 {
	if len(exams) == 0 {
		return 0
	}
	var sum float64
	for _, e := range exams {
		sum += e.Percentage()
	}
	return shared.Round2(sum / float64(len(exams)))
}
