// Package shared contains common domain errors and identifiers used across all
// domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrValueOutOfRange = errors.New("value out of range")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Infrastructure errors
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "student", "study", "schedule"
	Op      string // Operation that failed, e.g., "Create", "Delete"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// FIELD VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// FieldErrors maps an input field name to a human-readable problem.
// It always matches ErrValidation.
type FieldErrors map[string]string

// Error implements the error interface with a stable field order.
func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+f[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is makes FieldErrors match ErrValidation.
func (f FieldErrors) Is(target error) bool {
	return target == ErrValidation
}

// Add records a problem for field, keeping the first message per field.
func (f FieldErrors) Add(field, message string) {
	if _, exists := f[field]; !exists {
		f[field] = message
	}
}

// OrNil returns nil when no field has a problem.
func (f FieldErrors) OrNil() error {
	if len(f) == 0 {
		return nil
	}
	return f
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

// Student domain errors
var (
	ErrStudentNotFound      = NewDomainError("student", "Find", ErrNotFound, "student not found")
	ErrStudentAlreadyExists = NewDomainError("student", "Create", ErrAlreadyExists, "username is already taken")
	ErrInvalidCredentials   = NewDomainError("student", "Authenticate", ErrUnauthorized, "invalid username or password")
	ErrRegistrationClosed   = NewDomainError("student", "Register", ErrForbidden, "registration is disabled")
	ErrAdminRequired        = NewDomainError("student", "Authorize", ErrForbidden, "admin role required")
)

// Study domain errors
var (
	ErrSessionNotFound   = NewDomainError("study", "FindSession", ErrNotFound, "study session not found")
	ErrSessionNotOwned   = NewDomainError("study", "DeleteSession", ErrForbidden, "study session belongs to another student")
	ErrExamNotFound      = NewDomainError("study", "FindExam", ErrNotFound, "exam result not found")
	ErrExamNotOwned      = NewDomainError("study", "DeleteExam", ErrForbidden, "exam result belongs to another student")
	ErrNoExamResults     = NewDomainError("study", "CalculateGrade", ErrInvalidInput, "no exam results recorded yet")
	ErrTargetUnreachable = NewDomainError("study", "CalculateGrade", ErrValueOutOfRange, "target average is not reachable")
)

// Streak errors
var (
	ErrStreakUpdateFailed = NewDomainError("streak", "Update", ErrServiceUnavailable, "could not update streak")
)

// Schedule domain errors
var (
	ErrScheduleNotFound     = NewDomainError("schedule", "Find", ErrNotFound, "schedule not found")
	ErrScheduleNotOwned     = NewDomainError("schedule", "Authorize", ErrForbidden, "schedule belongs to another student")
	ErrScheduleItemNotFound = NewDomainError("schedule", "FindItem", ErrNotFound, "schedule item not found")
	ErrScheduleItemNotOwned = NewDomainError("schedule", "AuthorizeItem", ErrForbidden, "schedule item belongs to another student")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrValueOutOfRange)
}

// IsUnauthorized checks if the error is an authentication failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsForbidden checks if the error is an authorization failure.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsRetryable checks if the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout)
}
