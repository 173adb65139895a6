package command

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/educationaltr/study-tracker/internal/domain/leaderboard"
	"github.com/educationaltr/study-tracker/internal/domain/shared"
	"github.com/educationaltr/study-tracker/internal/domain/streak"
	"github.com/educationaltr/study-tracker/internal/domain/student"
	"github.com/educationaltr/study-tracker/internal/domain/study"
	"github.com/educationaltr/study-tracker/pkg/logger"
	"github.com/educationaltr/study-tracker/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD SESSION COMMAND
// Saves a study session and credits its date to the student's streak.
// The session is the primary record: a failed streak update never undoes it.
// ══════════════════════════════════════════════════════════════════════════════

// RecordSessionCommand contains the data for one study session.
type RecordSessionCommand struct {
	// Actor is the authenticated account.
	Actor shared.Actor

	// StudentID is whose session this is. Zero means the actor.
	// Only admins may record for someone else.
	StudentID shared.StudentID

	// Date is the calendar day the study happened on.
	Date time.Time

	Subject      string
	Hours        float64
	Efficiency   *int
	Notes        string
	Difficulties string
}

// RecordSessionResult contains the saved session and the streak outcome.
type RecordSessionResult struct {
	Session *study.Session `json:"session"`

	// Outcome and Message are empty when the streak update failed.
	Outcome streak.Outcome `json:"streak_outcome,omitempty"`
	Message string         `json:"streak_message,omitempty"`

	// Streak is the state after the update, nil when the update failed.
	Streak *streak.State `json:"streak,omitempty"`

	// StreakError is set when the session was saved but the streak was not.
	StreakError string `json:"streak_error,omitempty"`
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// RecordSessionHandler handles RecordSessionCommand.
type RecordSessionHandler struct {
	students student.Repository
	streaks  student.StreakRepository
	sessions study.Repository
	cache    leaderboard.Cache
	observer StreakObserver
	clock    timeutil.Clock
	log      *slog.Logger
}

// NewRecordSessionHandler creates a RecordSessionHandler.
// cache and observer may be nil.
func NewRecordSessionHandler(
	students student.Repository,
	streaks student.StreakRepository,
	sessions study.Repository,
	cache leaderboard.Cache,
	observer StreakObserver,
	clock timeutil.Clock,
	log *slog.Logger,
) *RecordSessionHandler {
	if observer == nil {
		observer = noopObserver{}
	}
	return &RecordSessionHandler{
		students: students,
		streaks:  streaks,
		sessions: sessions,
		cache:    cache,
		observer: observer,
		clock:    clock,
		log:      log.With(logger.Component("record_session")),
	}
}

// Handle validates and saves the session, then updates the streak.
func (h *RecordSessionHandler) Handle(ctx context.Context, cmd RecordSessionCommand) (*RecordSessionResult, error) {
	target, err := cmd.Actor.Target(cmd.StudentID)
	if err != nil {
		return nil, err
	}

	owner, err := h.students.GetByID(ctx, target)
	if err != nil {
		return nil, err
	}

	session, err := study.NewSession(study.NewSessionParams{
		StudentID:    target,
		Date:         cmd.Date,
		Subject:      cmd.Subject,
		Hours:        cmd.Hours,
		Efficiency:   cmd.Efficiency,
		Notes:        cmd.Notes,
		Difficulties: cmd.Difficulties,
	})
	if err != nil {
		return nil, err
	}

	// Credited dates never run ahead of the clock.
	today := h.clock.Today()
	if session.Date.After(today) {
		return nil, shared.FieldErrors{"date": "must not be in the future"}
	}

	if err := h.sessions.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("record_session: failed to save session: %w", err)
	}

	result := &RecordSessionResult{Session: session}

	// Best effort from here on.
	var outcome streak.Outcome
	state, err := h.streaks.UpdateStreak(ctx, target, func(current streak.State) (streak.State, error) {
		var next streak.State
		next, outcome = streak.Update(current, session.Date, today)
		return next, nil
	})
	if err != nil {
		h.observer.ObserveStreakFailure()
		h.log.ErrorContext(ctx, "streak update failed, session kept",
			logger.StudentID(target.Int64()),
			logger.SessionID(session.ID),
			logger.Err(err),
		)
		result.StreakError = shared.ErrStreakUpdateFailed.Message
		return result, nil
	}

	h.observer.ObserveStreakOutcome(outcome)
	result.Outcome = outcome
	result.Message = outcome.Message(state.CurrentStreak)
	result.Streak = &state

	h.log.InfoContext(ctx, "study session recorded",
		logger.StudentID(target.Int64()),
		logger.SessionID(session.ID),
		logger.Outcome(string(outcome)),
		logger.Streak(state.CurrentStreak, state.LongestStreak),
	)

	h.refreshLeaderboard(ctx, owner, state)
	return result, nil
}

func (h *RecordSessionHandler) refreshLeaderboard(ctx context.Context, owner *student.Student, state streak.State) {
	if h.cache == nil || owner.IsAdmin {
		return
	}

	entry := leaderboard.Entry{StudentID: owner.ID, Username: owner.Username, FullName: owner.FullName}

	entry.Score = float64(state.CurrentStreak)
	if err := h.cache.UpdateScore(ctx, leaderboard.MetricCurrentStreak, entry); err != nil {
		h.log.WarnContext(ctx, "leaderboard cache update failed", logger.Metric(string(leaderboard.MetricCurrentStreak)), logger.Err(err))
	}

	entry.Score = float64(state.LongestStreak)
	if err := h.cache.UpdateScore(ctx, leaderboard.MetricLongestStreak, entry); err != nil {
		h.log.WarnContext(ctx, "leaderboard cache update failed", logger.Metric(string(leaderboard.MetricLongestStreak)), logger.Err(err))
	}

	// Hours are an aggregate the cache cannot adjust incrementally.
	if err := h.cache.Invalidate(ctx, leaderboard.MetricTotalHours); err != nil {
		h.log.WarnContext(ctx, "leaderboard cache invalidate failed", logger.Metric(string(leaderboard.MetricTotalHours)), logger.Err(err))
	}
}
