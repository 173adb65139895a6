package schedule

import (
	"context"
	"time"

	"github.com/educationaltr/study-tracker/internal/domain/shared"
)

//go:generate mockgen -source=repository.go -destination=../../mocks/schedule/mock_repository.go -package=mock_schedule

// Repository stores schedules, their items and completion marks.
type Repository interface {
	// Create stores a schedule with its items in one transaction and
	// assigns IDs to both.
	Create(ctx context.Context, s *Schedule) error

	// Get returns a schedule with its items.
	// Returns ErrScheduleNotFound when no row matches.
	Get(ctx context.Context, id int64) (*Schedule, error)

	// ListByStudent returns a student's schedules, newest first, with items.
	ListByStudent(ctx context.Context, studentID shared.StudentID) ([]*Schedule, error)

	// Update rewrites name and description and replaces every item.
	Update(ctx context.Context, s *Schedule) error

	// Delete removes a schedule, its items and their completions.
	Delete(ctx context.Context, id int64) error

	// ItemOwner returns the student owning the schedule an item belongs to.
	// Returns ErrScheduleItemNotFound when no row matches.
	ItemOwner(ctx context.Context, itemID int64) (shared.StudentID, error)

	// UpsertCompletion inserts or replaces the mark for (item, date).
	UpsertCompletion(ctx context.Context, c *Completion) error

	// ListCompletions returns marks for a schedule's items dated on or before
	// upTo, newest first.
	ListCompletions(ctx context.Context, scheduleID int64, upTo time.Time) ([]*Completion, error)
}
