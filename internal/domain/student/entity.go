// Package student contains the student account model and its storage contracts.
package student

import (
	"net/mail"
	"strings"
	"time"

	"github.com/educationaltr/study-tracker/internal/domain/shared"
	"github.com/educationaltr/study-tracker/internal/domain/streak"
)

// ══════════════════════════════════════════════════════════════════════════════
// ROLE
// ══════════════════════════════════════════════════════════════════════════════

// Role is the access level of an account.
type Role string

const (
	// RoleStudent can only read and write its own records.
	RoleStudent Role = "student"
	// RoleAdmin can read every student and record sessions on their behalf.
	RoleAdmin Role = "admin"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: STUDENT
// ══════════════════════════════════════════════════════════════════════════════

// Student is a registered account. Admins are students with IsAdmin set.
type Student struct {
	// ID is assigned by storage on Create.
	ID shared.StudentID

	// Username is unique, normalized to lower case.
	Username string

	// PasswordHash is a bcrypt hash. Never serialized.
	PasswordHash string

	// FullName is the display name.
	FullName string

	// Email is optional.
	Email string

	// IsAdmin grants access to every student's records.
	IsAdmin bool

	// Streak is the consecutive-study-day state, stored alongside the account.
	Streak streak.State

	// CreatedAt is when the account was registered.
	CreatedAt time.Time
}

// NewStudentParams holds the validated inputs for NewStudent.
type NewStudentParams struct {
	Username     string
	PasswordHash string
	FullName     string
	Email        string
	IsAdmin      bool
}

// NewStudent builds a student with an empty streak.
func NewStudent(params NewStudentParams) (*Student, error) {
	errs := shared.FieldErrors{}

	username := shared.NormalizeUsername(params.Username)
	if !shared.IsValidUsername(username) {
		errs.Add("username", "must be 2-50 letters, digits, '.', '_' or '-'")
	}

	if params.PasswordHash == "" {
		errs.Add("password", "is required")
	}

	fullName := strings.TrimSpace(params.FullName)
	if fullName == "" || len(fullName) > 255 {
		errs.Add("full_name", "is required and must be at most 255 characters")
	}

	email := strings.TrimSpace(params.Email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			errs.Add("email", "must be a valid email address")
		}
	}

	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	return &Student{
		Username:     username,
		PasswordHash: params.PasswordHash,
		FullName:     fullName,
		Email:        email,
		IsAdmin:      params.IsAdmin,
		Streak:       streak.NewState(),
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// Role returns the access level of the account.
func (s *Student) Role() Role {
	if s.IsAdmin {
		return RoleAdmin
	}
	return RoleStudent
}

// CanAccess reports whether s may read or write records owned by owner.
func (s *Student) CanAccess(owner shared.StudentID) bool {
	return s.IsAdmin || s.ID == owner
}
