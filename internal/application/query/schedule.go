package query

import (
	"context"
	"fmt"

	"github.com/educationaltr/study-tracker/internal/domain/schedule"
	"github.com/educationaltr/study-tracker/internal/domain/shared"
	"github.com/educationaltr/study-tracker/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// SCHEDULE QUERIES
// ══════════════════════════════════════════════════════════════════════════════

// ScheduleView is a schedule with its completion marks up to today.
type ScheduleView struct {
	Schedule    *schedule.Schedule `json:"schedule"`
	Completions []CompletionDTO    `json:"completions"`
}

// ScheduleQueryHandler reads schedules.
type ScheduleQueryHandler struct {
	schedules schedule.Repository
	clock     timeutil.Clock
}

// NewScheduleQueryHandler creates a ScheduleQueryHandler.
func NewScheduleQueryHandler(schedules schedule.Repository, clock timeutil.Clock) *ScheduleQueryHandler {
	return &ScheduleQueryHandler{schedules: schedules, clock: clock}
}

// List returns every schedule of the target student.
func (h *ScheduleQueryHandler) List(ctx context.Context, actor shared.Actor, studentID shared.StudentID) ([]*schedule.Schedule, error) {
	target, err := actor.Target(studentID)
	if err != nil {
		return nil, err
	}

	list, err := h.schedules.ListByStudent(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("list_schedules: %w", err)
	}
	out := make([]*schedule.Schedule, 0, len(list))
	for _, s := range list {
		out = append(out, NewScheduleDTO(s))
	}
	return out, nil
}

// Active returns the most recently created schedule with its completions.
// The view has a nil Schedule when the student has none.
func (h *ScheduleQueryHandler) Active(ctx context.Context, actor shared.Actor, studentID shared.StudentID) (*ScheduleView, error) {
	target, err := actor.Target(studentID)
	if err != nil {
		return nil, err
	}

	list, err := h.schedules.ListByStudent(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("active_schedule: %w", err)
	}

	active := schedule.Active(list)
	if active == nil {
		return &ScheduleView{Completions: []CompletionDTO{}}, nil
	}
	return h.view(ctx, active)
}

// Get returns one schedule with its completions after an ownership check.
func (h *ScheduleQueryHandler) Get(ctx context.Context, actor shared.Actor, id int64) (*ScheduleView, error) {
	s, err := h.schedules.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(s.StudentID) {
		return nil, shared.ErrScheduleNotOwned
	}
	return h.view(ctx, s)
}

func (h *ScheduleQueryHandler) view(ctx context.Context, s *schedule.Schedule) (*ScheduleView, error) {
	completions, err := h.schedules.ListCompletions(ctx, s.ID, h.clock.Today())
	if err != nil {
		return nil, fmt.Errorf("schedule_view: %w", err)
	}

	view := &ScheduleView{
		Schedule:    NewScheduleDTO(s),
		Completions: make([]CompletionDTO, 0, len(completions)),
	}
	for _, c := range completions {
		view.Completions = append(view.Completions, NewCompletionDTO(c))
	}
	return view, nil
}
