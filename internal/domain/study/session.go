// Package study holds study sessions, exam results and the calculations
// built on them.
package study

import (
	"strings"
	"time"

	"github.com/educationaltr/study-tracker/internal/domain/shared"
	"github.com/educationaltr/study-tracker/pkg/timeutil"
)

// DefaultEfficiency is used when a session is recorded without one.
const DefaultEfficiency = 50

// MaxSessionHours caps a single session at one calendar day.
const MaxSessionHours = 24

// ══════════════════════════════════════════════════════════════════════════════
// SESSION
// ══════════════════════════════════════════════════════════════════════════════

// Session is one block of study on a given date.
type Session struct {
	ID           int64            `json:"id"`
	StudentID    shared.StudentID `json:"student_id"`
	Date         time.Time        `json:"-"`
	Subject      string           `json:"subject"`
	Hours        float64          `json:"hours"`
	Efficiency   int              `json:"efficiency"`
	Notes        string           `json:"notes,omitempty"`
	Difficulties string           `json:"difficulties,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// NewSessionParams holds the raw input for NewSession.
type NewSessionParams struct {
	StudentID    shared.StudentID
	Date         time.Time
	Subject      string
	Hours        float64
	Efficiency   *int
	Notes        string
	Difficulties string
}

// NewSession validates the input and builds a session.
// The date is truncated to a calendar day.
func NewSession(p NewSessionParams) (*Session, error) {
	errs := shared.FieldErrors{}

	if !p.StudentID.IsValid() {
		errs.Add("student_id", "is required")
	}
	if p.Date.IsZero() {
		errs.Add("date", "is required")
	}

	subject := strings.TrimSpace(p.Subject)
	if subject == "" || len(subject) > 255 {
		errs.Add("subject", "is required and must be at most 255 characters")
	}

	if p.Hours <= 0 || p.Hours > MaxSessionHours {
		errs.Add("hours", "must be greater than 0 and at most 24")
	}

	efficiency := DefaultEfficiency
	if p.Efficiency != nil {
		efficiency = *p.Efficiency
	}
	if efficiency < 0 || efficiency > 100 {
		errs.Add("efficiency", "must be between 0 and 100")
	}

	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	return &Session{
		StudentID:    p.StudentID,
		Date:         timeutil.DateOf(p.Date),
		Subject:      subject,
		Hours:        p.Hours,
		Efficiency:   efficiency,
		Notes:        strings.TrimSpace(p.Notes),
		Difficulties: strings.TrimSpace(p.Difficulties),
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// DateString returns the session date as YYYY-MM-DD.
func (s *Session) DateString() string {
	return timeutil.FormatDate(s.Date)
}
