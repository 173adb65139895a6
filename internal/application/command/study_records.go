package command

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/educationaltr/study-tracker/internal/domain/leaderboard"
	"github.com/educationaltr/study-tracker/internal/domain/shared"
	"github.com/educationaltr/study-tracker/internal/domain/study"
	"github.com/educationaltr/study-tracker/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADD EXAM
// ══════════════════════════════════════════════════════════════════════════════

// AddExamCommand contains one exam result.
type AddExamCommand struct {
	Actor     shared.Actor
	StudentID shared.StudentID

	Name     string
	Score    float64
	MaxScore *float64
	ExamDate *time.Time
}

// AddExamHandler stores exam results.
type AddExamHandler struct {
	records study.Repository
}

// NewAddExamHandler creates an AddExamHandler.
func NewAddExamHandler(records study.Repository) *AddExamHandler {
	return &AddExamHandler{records: records}
}

// Handle validates and saves the exam.
func (h *AddExamHandler) Handle(ctx context.Context, cmd AddExamCommand) (*study.Exam, error) {
	target, err := cmd.Actor.Target(cmd.StudentID)
	if err != nil {
		return nil, err
	}

	exam, err := study.NewExam(study.NewExamParams{
		StudentID: target,
		Name:      cmd.Name,
		Score:     cmd.Score,
		MaxScore:  cmd.MaxScore,
		ExamDate:  cmd.ExamDate,
	})
	if err != nil {
		return nil, err
	}

	if err := h.records.CreateExam(ctx, exam); err != nil {
		return nil, fmt.Errorf("add_exam: failed to save exam: %w", err)
	}
	return exam, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DELETE RECORDS
// Deleting a session does not rewind the streak: the streak is a record of
// credited days, not a recomputation over sessions.
// ══════════════════════════════════════════════════════════════════════════════

// DeleteRecordCommand identifies a session or exam to delete.
type DeleteRecordCommand struct {
	Actor shared.Actor
	ID    int64
}

// DeleteRecordHandler deletes sessions and exams after an ownership check.
type DeleteRecordHandler struct {
	records study.Repository
	cache   leaderboard.Cache
	log     *slog.Logger
}

// NewDeleteRecordHandler creates a DeleteRecordHandler. cache may be nil.
func NewDeleteRecordHandler(records study.Repository, cache leaderboard.Cache, log *slog.Logger) *DeleteRecordHandler {
	return &DeleteRecordHandler{records: records, cache: cache, log: log.With(logger.Component("delete_record"))}
}

// DeleteSession returns ErrSessionNotFound (404) or ErrSessionNotOwned (403).
func (h *DeleteRecordHandler) DeleteSession(ctx context.Context, cmd DeleteRecordCommand) error {
	session, err := h.records.GetSession(ctx, cmd.ID)
	if err != nil {
		return err
	}
	if !cmd.Actor.CanAccess(session.StudentID) {
		return shared.ErrSessionNotOwned
	}

	if err := h.records.DeleteSession(ctx, cmd.ID); err != nil {
		return err
	}

	if h.cache != nil {
		if err := h.cache.Invalidate(ctx, leaderboard.MetricTotalHours); err != nil {
			h.log.WarnContext(ctx, "leaderboard cache invalidate failed", logger.Err(err))
		}
	}
	return nil
}

// DeleteExam returns ErrExamNotFound (404) or ErrExamNotOwned (403).
func (h *DeleteRecordHandler) DeleteExam(ctx context.Context, cmd DeleteRecordCommand) error {
	exam, err := h.records.GetExam(ctx, cmd.ID)
	if err != nil {
		return err
	}
	if !cmd.Actor.CanAccess(exam.StudentID) {
		return shared.ErrExamNotOwned
	}
	return h.records.DeleteExam(ctx, cmd.ID)
}
