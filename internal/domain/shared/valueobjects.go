package shared

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// StudentID identifies a student row.
type StudentID int64

// IsValid checks if the ID could refer to a stored row.
func (s StudentID) IsValid() bool {
	return s > 0
}

// Int64 returns the underlying value.
func (s StudentID) Int64() int64 {
	return int64(s)
}

// String returns the decimal representation.
func (s StudentID) String() string {
	return strconv.FormatInt(int64(s), 10)
}

// ParseStudentID parses a decimal student ID from a path or token claim.
func ParseStudentID(raw string) (StudentID, error) {
	id, err := ParseID(raw)
	if err != nil {
		return 0, err
	}
	return StudentID(id), nil
}

// ParseID parses a positive decimal row identifier.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Username
// ═══════════════════════════════════════════════════════════════════════════

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]{1,49}$`)

// NormalizeUsername trims and lowercases a username.
func NormalizeUsername(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// IsValidUsername reports whether a normalized username is acceptable.
func IsValidUsername(username string) bool {
	return usernameRegex.MatchString(username)
}

// ═══════════════════════════════════════════════════════════════════════════
// Numbers
// ═══════════════════════════════════════════════════════════════════════════

// Round2 rounds to two decimal places, the precision used for averages.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ═══════════════════════════════════════════════════════════════════════════
// Actor
// ═══════════════════════════════════════════════════════════════════════════

// Actor is the authenticated account performing an operation.
type Actor struct {
	StudentID StudentID
	IsAdmin   bool
}

// CanAccess reports whether the actor may read or write records of owner.
func (a Actor) CanAccess(owner StudentID) bool {
	return a.IsAdmin || a.StudentID == owner
}

// Target resolves whose records an operation touches: requested when set,
// otherwise the actor itself. Non-admins may only target themselves.
func (a Actor) Target(requested StudentID) (StudentID, error) {
	if requested == 0 || requested == a.StudentID {
		return a.StudentID, nil
	}
	if !a.IsAdmin {
		return 0, ErrAdminRequired
	}
	return requested, nil
}
