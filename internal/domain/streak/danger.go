package streak

import (
	"time"

	"github.com/educationaltr/study-tracker/pkg/timeutil"
)

// Danger is the advisory classification shown on dashboards.
type Danger string

const (
	// DangerSafe means the streak survives even if nothing is logged today.
	DangerSafe Danger = "safe"
	// DangerAtRisk means the streak breaks unless a session is logged today.
	DangerAtRisk Danger = "at_risk"
	// DangerAlreadyBroken means the streak has lapsed.
	DangerAlreadyBroken Danger = "already_broken"
)

// CheckDanger classifies a stored state against today without mutating it.
//
// State is only corrected lazily by the next Update, so a stored
// CurrentStreak may still be positive long after the streak lapsed. Gaps of
// more than two days therefore report DangerAlreadyBroken as well.
//
// A last credited date after today (clock skew or a timezone change) is
// DangerSafe: the streak can still be continued.
func CheckDanger(state State, today time.Time) Danger {
	if !state.HasStudied() {
		return DangerSafe
	}
	if state.CurrentStreak == 0 {
		return DangerAlreadyBroken
	}

	switch gap := timeutil.DaysBetween(*state.LastStudyDate, today); {
	case gap <= 1:
		return DangerSafe
	case gap == 2:
		return DangerAtRisk
	default:
		return DangerAlreadyBroken
	}
}

// EffectiveCurrent returns the streak a reader should display today: the
// stored value while the streak can still be continued, zero once it lapsed.
func EffectiveCurrent(state State, today time.Time) int {
	if CheckDanger(state, today) == DangerAlreadyBroken {
		return 0
	}
	return state.CurrentStreak
}
