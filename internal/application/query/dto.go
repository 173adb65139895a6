// Package query contains read operations following CQRS pattern.
// Queries never modify state - they only read and return data.
// Each query is a self-contained use case with its own request/response types.
package query

import (
	"time"

	"github.com/educationaltr/study-tracker/internal/domain/schedule"
	"github.com/educationaltr/study-tracker/internal/domain/shared"
	"github.com/educationaltr/study-tracker/internal/domain/streak"
	"github.com/educationaltr/study-tracker/internal/domain/student"
	"github.com/educationaltr/study-tracker/internal/domain/study"
	"github.com/educationaltr/study-tracker/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// DATA TRANSFER OBJECTS
// Calendar dates leave the application as YYYY-MM-DD strings.
// ══════════════════════════════════════════════════════════════════════════════

// StudentDTO is the public view of an account.
type StudentDTO struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email,omitempty"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// NewStudentDTO converts a student. PasswordHash is never copied.
func NewStudentDTO(s *student.Student) StudentDTO {
	return StudentDTO{
		ID:        s.ID.Int64(),
		Username:  s.Username,
		FullName:  s.FullName,
		Email:     s.Email,
		IsAdmin:   s.IsAdmin,
		CreatedAt: s.CreatedAt,
	}
}

// SessionDTO is a study session.
type SessionDTO struct {
	ID           int64     `json:"id"`
	StudentID    int64     `json:"student_id"`
	Date         string    `json:"date"`
	Subject      string    `json:"subject"`
	Hours        float64   `json:"hours"`
	Efficiency   int       `json:"efficiency"`
	Notes        string    `json:"notes,omitempty"`
	Difficulties string    `json:"difficulties,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewSessionDTO converts a session.
func NewSessionDTO(s *study.Session) SessionDTO {
	return SessionDTO{
		ID:           s.ID,
		StudentID:    s.StudentID.Int64(),
		Date:         s.DateString(),
		Subject:      s.Subject,
		Hours:        s.Hours,
		Efficiency:   s.Efficiency,
		Notes:        s.Notes,
		Difficulties: s.Difficulties,
		CreatedAt:    s.CreatedAt,
	}
}

// NewSessionDTOs converts a list, never returning nil.
func NewSessionDTOs(sessions []*study.Session) []SessionDTO {
	out := make([]SessionDTO, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, NewSessionDTO(s))
	}
	return out
}

// ExamDTO is an exam result with its percentage.
type ExamDTO struct {
	ID         int64     `json:"id"`
	StudentID  int64     `json:"student_id"`
	Name       string    `json:"name"`
	Score      float64   `json:"score"`
	MaxScore   float64   `json:"max_score"`
	Percentage float64   `json:"percentage"`
	ExamDate   string    `json:"exam_date,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewExamDTO converts an exam.
func NewExamDTO(e *study.Exam) ExamDTO {
	return ExamDTO{
		ID:         e.ID,
		StudentID:  e.StudentID.Int64(),
		Name:       e.Name,
		Score:      e.Score,
		MaxScore:   e.MaxScore,
		Percentage: shared.Round2(e.Percentage()),
		ExamDate:   timeutil.FormatDatePtr(e.ExamDate),
		CreatedAt:  e.CreatedAt,
	}
}

// NewExamDTOs converts a list, never returning nil.
func NewExamDTOs(exams []*study.Exam) []ExamDTO {
	out := make([]ExamDTO, 0, len(exams))
	for _, e := range exams {
		out = append(out, NewExamDTO(e))
	}
	return out
}

// DailyDTO is one day of aggregated study.
type DailyDTO struct {
	Date              string  `json:"date"`
	Hours             float64 `json:"hours"`
	AverageEfficiency float64 `json:"average_efficiency"`
	Sessions          int     `json:"sessions"`
}

func newDailyDTOs(days []study.DailySummary) []DailyDTO {
	out := make([]DailyDTO, 0, len(days))
	for _, d := range days {
		out = append(out, DailyDTO{
			Date:              timeutil.FormatDate(d.Date),
			Hours:             d.Hours,
			AverageEfficiency: d.AverageEfficiency,
			Sessions:          d.Sessions,
		})
	}
	return out
}

// StreakDTO is the streak as shown on dashboards.
type StreakDTO struct {
	// CurrentStreak is the stored value.
	CurrentStreak int `json:"current_streak"`

	// EffectiveStreak is zero when the streak has lapsed but has not yet been
	// corrected by a new session.
	EffectiveStreak int `json:"effective_streak"`

	LongestStreak int           `json:"longest_streak"`
	LastStudyDate string        `json:"last_study_date,omitempty"`
	Danger        streak.Danger `json:"danger"`

	// ShowWarning asks the client to display the at-risk banner.
	ShowWarning bool `json:"show_warning"`
}

// NewStreakDTO classifies state against today.
func NewStreakDTO(state streak.State, today time.Time) StreakDTO {
	return StreakDTO{
		CurrentStreak:   state.CurrentStreak,
		EffectiveStreak: streak.EffectiveCurrent(state, today),
		LongestStreak:   state.LongestStreak,
		LastStudyDate:   timeutil.FormatDatePtr(state.LastStudyDate),
		Danger:          streak.CheckDanger(state, today),
	}
}

// CompletionDTO is a schedule completion mark.
type CompletionDTO struct {
	ID          int64     `json:"id"`
	ItemID      int64     `json:"schedule_item_id"`
	Date        string    `json:"completion_date"`
	IsCompleted bool      `json:"is_completed"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewCompletionDTO converts a completion.
func NewCompletionDTO(c *schedule.Completion) CompletionDTO {
	return CompletionDTO{
		ID:          c.ID,
		ItemID:      c.ItemID,
		Date:        timeutil.FormatDate(c.Date),
		IsCompleted: c.IsCompleted,
		Notes:       c.Notes,
		CreatedAt:   c.CreatedAt,
	}
}

// NewScheduleDTO returns s with a non-nil item list.
func NewScheduleDTO(s *schedule.Schedule) *schedule.Schedule {
	if s == nil {
		return nil
	}
	if s.Items == nil {
		s.Items = []schedule.Item{}
	}
	return s
}
