// Package streak tracks consecutive study days for a student.
//
// The package is pure: it never reads the wall clock and performs no I/O.
// Callers load a State, pass it to Update together with the session date and
// today's date, and persist the returned State themselves.
package streak

import (
	"fmt"
	"time"

	"github.com/educationaltr/study-tracker/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// STATE
// ══════════════════════════════════════════════════════════════════════════════

// State is a student's streak as of LastStudyDate.
type State struct {
	// CurrentStreak is the number of consecutive days ending at LastStudyDate.
	CurrentStreak int `json:"current_streak"`

	// LongestStreak is the best CurrentStreak ever reached. It never decreases.
	LongestStreak int `json:"longest_streak"`

	// LastStudyDate is the most recent credited date (date-only, UTC midnight).
	// Nil for a student who has never studied.
	LastStudyDate *time.Time `json:"last_study_date,omitempty"`
}

// NewState returns the state of a freshly registered student.
func NewState() State {
	return State{}
}

// HasStudied reports whether a date has ever been credited.
func (s State) HasStudied() bool {
	return s.LastStudyDate != nil
}

// Validate checks the structural invariants of a state loaded from storage.
func (s State) Validate() error {
	if s.CurrentStreak < 0 || s.LongestStreak < 0 {
		return fmt.Errorf("streak counters must be non-negative (current=%d, longest=%d)", s.CurrentStreak, s.LongestStreak)
	}
	if s.LongestStreak < s.CurrentStreak {
		return fmt.Errorf("longest streak %d is below current streak %d", s.LongestStreak, s.CurrentStreak)
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// OUTCOME
// ══════════════════════════════════════════════════════════════════════════════

// Outcome classifies what an Update did to the streak.
type Outcome string

const (
	// OutcomeStarted means the student had never studied before.
	OutcomeStarted Outcome = "started"
	// OutcomeExtended means the session was exactly one day after the last credited date.
	OutcomeExtended Outcome = "extended"
	// OutcomeSameDay means the date was already credited.
	OutcomeSameDay Outcome = "same_day"
	// OutcomeBroken means a day was skipped (or the date went backwards) and the streak restarted at 1.
	OutcomeBroken Outcome = "broken"
)

// Message renders the user-facing text for an outcome.
// current is the streak value after the update.
func (o Outcome) Message(current int) string {
	switch o {
	case OutcomeStarted:
		return "new streak begun"
	case OutcomeExtended:
		return fmt.Sprintf("streak now %d", current)
	case OutcomeSameDay:
		return "already logged today, streak unchanged"
	case OutcomeBroken:
		return "streak reset to 1"
	default:
		return ""
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE
// ══════════════════════════════════════════════════════════════════════════════

// Update credits a study session on sessionDate and returns the next state.
//
// Continuation is judged by the gap between sessionDate and the last credited
// date, never by today, so back-dated and admin-entered sessions follow the
// same rule as live ones. today is accepted so callers keep the computation
// deterministic; it is not consulted for continuation.
func Update(state State, sessionDate, today time.Time) (State, Outcome) {
	session := timeutil.DateOf(sessionDate)
	next := state

	var outcome Outcome
	switch {
	case !state.HasStudied():
		next.CurrentStreak = 1
		outcome = OutcomeStarted
	case timeutil.IsSameDay(*state.LastStudyDate, session):
		outcome = OutcomeSameDay
	case timeutil.IsConsecutiveDay(*state.LastStudyDate, session):
		next.CurrentStreak = state.CurrentStreak + 1
		outcome = OutcomeExtended
	default:
		next.CurrentStreak = 1
		outcome = OutcomeBroken
	}

	if next.CurrentStreak > next.LongestStreak {
		next.LongestStreak = next.CurrentStreak
	}

	if outcome != OutcomeSameDay {
		next.LastStudyDate = &session
	}

	return next, outcome
}
