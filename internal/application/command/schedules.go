package command

import (
	"context"
	"fmt"
	"time"

	"github.com/educationaltr/study-tracker/internal/domain/schedule"
	"github.com/educationaltr/study-tracker/internal/domain/shared"
	"github.com/educationaltr/study-tracker/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// SAVE SCHEDULE
// ══════════════════════════════════════════════════════════════════════════════

// SaveScheduleCommand creates a schedule, or replaces one when ID is set.
type SaveScheduleCommand struct {
	Actor     shared.Actor
	StudentID shared.StudentID

	// ID of the schedule to update. Zero creates a new schedule.
	ID int64

	Name        string
	Description string
	Items       []schedule.ItemInput
}

// ScheduleHandler handles schedule writes.
type ScheduleHandler struct {
	schedules schedule.Repository
	clock     timeutil.Clock
}

// NewScheduleHandler creates a ScheduleHandler.
func NewScheduleHandler(schedules schedule.Repository, clock timeutil.Clock) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules, clock: clock}
}

// Save validates the timetable and stores it. On update every item is
// replaced, so existing completion marks for old items are dropped.
func (h *ScheduleHandler) Save(ctx context.Context, cmd SaveScheduleCommand) (*schedule.Schedule, error) {
	owner, err := cmd.Actor.Target(cmd.StudentID)
	if err != nil {
		return nil, err
	}

	if cmd.ID != 0 {
		existing, err := h.authorize(ctx, cmd.Actor, cmd.ID)
		if err != nil {
			return nil, err
		}
		owner = existing.StudentID
	}

	s, err := schedule.NewSchedule(owner, cmd.Name, cmd.Description, cmd.Items)
	if err != nil {
		return nil, err
	}

	if cmd.ID == 0 {
		if err := h.schedules.Create(ctx, s); err != nil {
			return nil, fmt.Errorf("save_schedule: %w", err)
		}
		return s, nil
	}

	s.ID = cmd.ID
	if err := h.schedules.Update(ctx, s); err != nil {
		return nil, fmt.Errorf("save_schedule: %w", err)
	}
	return h.schedules.Get(ctx, s.ID)
}

// Delete removes a schedule with its items and completions.
func (h *ScheduleHandler) Delete(ctx context.Context, actor shared.Actor, id int64) error {
	if _, err := h.authorize(ctx, actor, id); err != nil {
		return err
	}
	return h.schedules.Delete(ctx, id)
}

func (h *ScheduleHandler) authorize(ctx context.Context, actor shared.Actor, id int64) (*schedule.Schedule, error) {
	s, err := h.schedules.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(s.StudentID) {
		return nil, shared.ErrScheduleNotOwned
	}
	return s, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// COMPLETE ITEM
// ══════════════════════════════════════════════════════════════════════════════

// CompleteItemCommand marks a schedule item done (or not) on a date.
type CompleteItemCommand struct {
	Actor  shared.Actor
	ItemID int64

	// Date defaults to today when zero.
	Date        time.Time
	IsCompleted bool
	Notes       string
}

// CompleteItem upserts the completion mark for (item, date).
func (h *ScheduleHandler) CompleteItem(ctx context.Context, cmd CompleteItemCommand) (*schedule.Completion, error) {
	owner, err := h.schedules.ItemOwner(ctx, cmd.ItemID)
	if err != nil {
		return nil, err
	}
	if !cmd.Actor.CanAccess(owner) {
		return nil, shared.ErrScheduleItemNotOwned
	}

	completion, err := schedule.NewCompletion(cmd.ItemID, cmd.Date, h.clock.Today(), cmd.IsCompleted, cmd.Notes)
	if err != nil {
		return nil, err
	}

	if err := h.schedules.UpsertCompletion(ctx, completion); err != nil {
		return nil, fmt.Errorf("complete_item: %w", err)
	}
	return completion, nil
}
