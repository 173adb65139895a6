package student

import (
	"context"

	"github.com/educationaltr/study-tracker/internal/domain/shared"
	"github.com/educationaltr/study-tracker/internal/domain/streak"
)

//go:generate mockgen -source=repository.go -destination=../../mocks/student/mock_repository.go -package=mock_student

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Implementations live in infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository defines account storage.
type Repository interface {
	// Create stores a new student and assigns its ID.
	// Returns ErrStudentAlreadyExists when the username is taken.
	Create(ctx context.Context, student *Student) error

	// GetByID returns ErrStudentNotFound when no row matches.
	GetByID(ctx context.Context, id shared.StudentID) (*Student, error)

	// GetByUsername looks up a normalized username.
	// Returns ErrStudentNotFound when no row matches.
	GetByUsername(ctx context.Context, username string) (*Student, error)

	// ExistsByUsername reports whether a normalized username is taken.
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// List returns students according to opts.
	List(ctx context.Context, opts ListOptions) ([]*Student, error)
}

// StreakRepository stores the per-student streak state.
//
// Implementations normalize storage rows into streak.State so callers never
// see backend-specific types.
type StreakRepository interface {
	// GetStreak returns ErrStudentNotFound when the student does not exist.
	GetStreak(ctx context.Context, id shared.StudentID) (streak.State, error)

	// UpdateStreak loads the state, applies fn, and writes the result back
	// while holding a per-student lock, so concurrent sessions for one
	// student serialize. If fn returns an error nothing is written.
	UpdateStreak(ctx context.Context, id shared.StudentID, fn func(streak.State) (streak.State, error)) (streak.State, error)
}

// ListOptions contains pagination and sorting parameters.
type ListOptions struct {
	// Offset for pagination.
	Offset int

	// Limit caps the number of rows. Zero means no limit.
	Limit int

	// SortBy is one of "full_name", "username", "created_at", "current_streak".
	SortBy string

	// SortDesc sorts descending.
	SortDesc bool

	// IncludeAdmins includes admin accounts.
	IncludeAdmins bool
}

// DefaultListOptions returns the admin overview ordering: non-admin students by full name.
func DefaultListOptions() ListOptions {
	return ListOptions{
		Offset:        0,
		Limit:         0,
		SortBy:        "full_name",
		SortDesc:      false,
		IncludeAdmins: false,
	}
}

// WithLimit sets the limit.
func (o ListOptions) WithLimit(limit int) ListOptions {
	o.Limit = limit
	return o
}

// WithSort sets sorting.
func (o ListOptions) WithSort(field string, desc bool) ListOptions {
	o.SortBy = field
	o.SortDesc = desc
	return o
}
