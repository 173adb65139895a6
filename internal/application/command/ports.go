// Package command contains write operations (CQRS - Commands).
// Each command is a self-contained use case with its own input and result types.
package command

import (
	"time"

	"github.com/educationaltr/study-tracker/internal/domain/shared"
	"github.com/educationaltr/study-tracker/internal/domain/streak"
)

//go:generate mockgen -source=ports.go -destination=../../mocks/command/mock_ports.go -package=mock_command

// PasswordHasher hashes and verifies account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) (bool, error)
}

// TokenIssuer issues access tokens after a successful login.
type TokenIssuer interface {
	Issue(id shared.StudentID, username string, isAdmin bool) (token string, expiresAt time.Time, err error)
}

// StreakObserver is told about every streak update attempt.
// The HTTP layer implements it with Prometheus counters.
type StreakObserver interface {
	ObserveStreakOutcome(outcome streak.Outcome)
	ObserveStreakFailure()
}

type noopObserver struct{}

func (noopObserver) ObserveStreakOutcome(streak.Outcome) {}
func (noopObserver) ObserveStreakFailure()               {}
