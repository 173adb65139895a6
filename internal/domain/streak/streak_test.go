package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

func TestUpdate_Scenarios(t *testing.T) {
	tests := []struct {
		name        string
		state       State
		sessionDate string
		today       string
		want        State
		wantOutcome Outcome
	}{
		{
			name:        "next day extends",
			state:       State{CurrentStreak: 3, LongestStreak: 5, LastStudyDate: dayPtr("2024-01-10")},
			sessionDate: "2024-01-11",
			today:       "2024-01-11",
			want:        State{CurrentStreak: 4, LongestStreak: 5, LastStudyDate: dayPtr("2024-01-11")},
			wantOutcome: OutcomeExtended,
		},
		{
			name:        "same day leaves state unchanged",
			state:       State{CurrentStreak: 4, LongestStreak: 5, LastStudyDate: dayPtr("2024-01-11")},
			sessionDate: "2024-01-11",
			today:       "2024-01-11",
			want:        State{CurrentStreak: 4, LongestStreak: 5, LastStudyDate: dayPtr("2024-01-11")},
			wantOutcome: OutcomeSameDay,
		},
		{
			name:        "gap of three days resets",
			state:       State{CurrentStreak: 4, LongestStreak: 5, LastStudyDate: dayPtr("2024-01-11")},
			sessionDate: "2024-01-14",
			today:       "2024-01-14",
			want:        State{CurrentStreak: 1, LongestStreak: 5, LastStudyDate: dayPtr("2024-01-14")},
			wantOutcome: OutcomeBroken,
		},
		{
			name:        "fresh student starts",
			state:       State{CurrentStreak: 0, LongestStreak: 5, LastStudyDate: nil},
			sessionDate: "2024-02-01",
			today:       "2024-02-01",
			want:        State{CurrentStreak: 1, LongestStreak: 5, LastStudyDate: dayPtr("2024-02-01")},
			wantOutcome: OutcomeStarted,
		},
		{
			name:        "first ever session raises longest to one",
			state:       NewState(),
			sessionDate: "2024-02-01",
			today:       "2024-02-03",
			want:        State{CurrentStreak: 1, LongestStreak: 1, LastStudyDate: dayPtr("2024-02-01")},
			wantOutcome: OutcomeStarted,
		},
		{
			name:        "extension past longest ratchets longest",
			state:       State{CurrentStreak: 5, LongestStreak: 5, LastStudyDate: dayPtr("2024-01-10")},
			sessionDate: "2024-01-11",
			today:       "2024-01-11",
			want:        State{CurrentStreak: 6, LongestStreak: 6, LastStudyDate: dayPtr("2024-01-11")},
			wantOutcome: OutcomeExtended,
		},
		{
			name:        "back-dated session before last credited date resets",
			state:       State{CurrentStreak: 4, LongestStreak: 7, LastStudyDate: dayPtr("2024-01-11")},
			sessionDate: "2024-01-09",
			today:       "2024-01-11",
			want:        State{CurrentStreak: 1, LongestStreak: 7, LastStudyDate: dayPtr("2024-01-09")},
			wantOutcome: OutcomeBroken,
		},
		{
			name:        "back-dated next day extends regardless of today",
			state:       State{CurrentStreak: 2, LongestStreak: 2, LastStudyDate: dayPtr("2024-01-05")},
			sessionDate: "2024-01-06",
			today:       "2024-01-20",
			want:        State{CurrentStreak: 3, LongestStreak: 3, LastStudyDate: dayPtr("2024-01-06")},
			wantOutcome: OutcomeExtended,
		},
		{
			name:        "stale zero streak with a last date restarts as broken",
			state:       State{CurrentStreak: 0, LongestStreak: 3, LastStudyDate: dayPtr("2024-01-01")},
			sessionDate: "2024-01-10",
			today:       "2024-01-10",
			want:        State{CurrentStreak: 1, LongestStreak: 3, LastStudyDate: dayPtr("2024-01-10")},
			wantOutcome: OutcomeBroken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, outcome := Update(tt.state, day(tt.sessionDate), day(tt.today))

			assert.Equal(t, tt.wantOutcome, outcome)
			assert.Equal(t, tt.want.CurrentStreak, got.CurrentStreak)
			assert.Equal(t, tt.want.LongestStreak, got.LongestStreak)
			require.NotNil(t, got.LastStudyDate)
			assert.True(t, tt.want.LastStudyDate.Equal(*got.LastStudyDate), "last study date: want %v, got %v", tt.want.LastStudyDate, got.LastStudyDate)
		})
	}
}

func TestUpdate_DoesNotAliasInputState(t *testing.T) {
	last := day("2024-01-10")
	state := State{CurrentStreak: 1, LongestStreak: 1, LastStudyDate: &last}

	_, _ = Update(state, day("2024-01-11"), day("2024-01-11"))

	assert.Equal(t, day("2024-01-10"), last)
	assert.Equal(t, 1, state.CurrentStreak)
}

func TestUpdate_TruncatesTimeOfDay(t *testing.T) {
	state := State{CurrentStreak: 2, LongestStreak: 2, LastStudyDate: dayPtr("2024-01-10")}

	got, outcome := Update(state, time.Date(2024, 1, 11, 23, 30, 0, 0, time.UTC), day("2024-01-11"))

	assert.Equal(t, OutcomeExtended, outcome)
	assert.Equal(t, day("2024-01-11"), *got.LastStudyDate)
}

func TestUpdate_Properties(t *testing.T) {
	starts := []State{
		NewState(),
		{CurrentStreak: 0, LongestStreak: 9, LastStudyDate: nil},
		{CurrentStreak: 3, LongestStreak: 5, LastStudyDate: dayPtr("2024-03-01")},
		{CurrentStreak: 8, LongestStreak: 8, LastStudyDate: dayPtr("2024-03-01")},
		{CurrentStreak: 0, LongestStreak: 2, LastStudyDate: dayPtr("2024-02-20")},
	}
	offsets := []int{-5, -1, 0, 1, 2, 3, 30}

	for _, start := range starts {
		for _, offset := range offsets {
			base := day("2024-03-01")
			if start.LastStudyDate != nil {
				base = *start.LastStudyDate
			}
			sessionDate := base.AddDate(0, 0, offset)

			got, outcome := Update(start, sessionDate, sessionDate)

			assert.GreaterOrEqual(t, got.LongestStreak, got.CurrentStreak, "longest >= current")
			assert.GreaterOrEqual(t, got.LongestStreak, start.LongestStreak, "longest never decreases")
			assert.NoError(t, got.Validate())

			if start.LastStudyDate == nil {
				assert.Equal(t, OutcomeStarted, outcome)
				assert.Equal(t, 1, got.CurrentStreak)
				continue
			}

			switch offset {
			case 0:
				assert.Equal(t, OutcomeSameDay, outcome)
				assert.Equal(t, start.CurrentStreak, got.CurrentStreak)
			case 1:
				assert.Equal(t, OutcomeExtended, outcome)
				assert.Equal(t, start.CurrentStreak+1, got.CurrentStreak)
			default:
				assert.Equal(t, OutcomeBroken, outcome)
				assert.Equal(t, 1, got.CurrentStreak)
			}
		}
	}
}

func TestUpdate_SecondIdenticalCallIsSameDay(t *testing.T) {
	states := []State{
		NewState(),
		{CurrentStreak: 3, LongestStreak: 5, LastStudyDate: dayPtr("2024-01-10")},
		{CurrentStreak: 4, LongestStreak: 5, LastStudyDate: dayPtr("2024-01-11")},
	}

	for _, s := range states {
		first, _ := Update(s, day("2024-01-12"), day("2024-01-12"))
		second, outcome := Update(first, day("2024-01-12"), day("2024-01-12"))

		assert.Equal(t, OutcomeSameDay, outcome)
		assert.Equal(t, first.CurrentStreak, second.CurrentStreak)
		assert.Equal(t, first.LongestStreak, second.LongestStreak)
	}
}

func TestUpdate_LongestRatchetOverSequence(t *testing.T) {
	state := NewState()
	dates := []string{
		"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", // reaches 4
		"2024-01-07", "2024-01-08", // broken, then 2
		"2024-01-01",               // back-dated, broken
		"2024-01-02", "2024-01-03", // 3
	}

	peak := 0
	for _, d := range dates {
		state, _ = Update(state, day(d), day(d))
		if state.CurrentStreak > peak {
			peak = state.CurrentStreak
		}
		assert.Equal(t, peak, state.LongestStreak)
	}
	assert.Equal(t, 4, state.LongestStreak)
	assert.Equal(t, 3, state.CurrentStreak)
}

func TestOutcome_Message(t *testing.T) {
	assert.Equal(t, "new streak begun", OutcomeStarted.Message(1))
	assert.Equal(t, "streak now 7", OutcomeExtended.Message(7))
	assert.Equal(t, "already logged today, streak unchanged", OutcomeSameDay.Message(3))
	assert.Equal(t, "streak reset to 1", OutcomeBroken.Message(1))
	assert.Equal(t, "", Outcome("unknown").Message(1))
}

func TestState_Validate(t *testing.T) {
	assert.NoError(t, NewState().Validate())
	assert.Error(t, State{CurrentStreak: -1}.Validate())
	assert.Error(t, State{CurrentStreak: 3, LongestStreak: 2}.Validate())
}

func TestState_HasStudied(t *testing.T) {
	assert.False(t, NewState().HasStudied())
	assert.True(t, State{CurrentStreak: 1, LongestStreak: 1, LastStudyDate: dayPtr("2024-01-10")}.HasStudied())
}

func TestCheckDanger(t *testing.T) {
	tests := []struct {
		name  string
		state State
		today string
		want  Danger
	}{
		{"never studied", NewState(), "2024-01-10", DangerSafe},
		{"studied today", State{CurrentStreak: 2, LongestStreak: 2, LastStudyDate: dayPtr("2024-01-10")}, "2024-01-10", DangerSafe},
		{"studied yesterday", State{CurrentStreak: 2, LongestStreak: 2, LastStudyDate: dayPtr("2024-01-09")}, "2024-01-10", DangerSafe},
		{"two days ago", State{CurrentStreak: 2, LongestStreak: 2, LastStudyDate: dayPtr("2024-01-08")}, "2024-01-10", DangerAtRisk},
		{"lapsed but not yet corrected", State{CurrentStreak: 2, LongestStreak: 2, LastStudyDate: dayPtr("2024-01-01")}, "2024-01-10", DangerAlreadyBroken},
		{"zero streak with history", State{CurrentStreak: 0, LongestStreak: 4, LastStudyDate: dayPtr("2024-01-09")}, "2024-01-10", DangerAlreadyBroken},
		{"last date after today", State{CurrentStreak: 3, LongestStreak: 3, LastStudyDate: dayPtr("2024-01-11")}, "2024-01-10", DangerSafe},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckDanger(tt.state, day(tt.today)))
		})
	}
}

func TestCheckDanger_DoesNotMutate(t *testing.T) {
	state := State{CurrentStreak: 2, LongestStreak: 3, LastStudyDate: dayPtr("2024-01-01")}
	_ = CheckDanger(state, day("2024-01-10"))

	assert.Equal(t, 2, state.CurrentStreak)
	assert.Equal(t, day("2024-01-01"), *state.LastStudyDate)
}

func TestEffectiveCurrent(t *testing.T) {
	state := State{CurrentStreak: 5, LongestStreak: 5, LastStudyDate: dayPtr("2024-01-08")}

	assert.Equal(t, 5, EffectiveCurrent(state, day("2024-01-09")))
	assert.Equal(t, 5, EffectiveCurrent(state, day("2024-01-10")))
	assert.Equal(t, 0, EffectiveCurrent(state, day("2024-01-11")))
}
