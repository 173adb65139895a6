// Package timeutil provides calendar-date helpers for study tracking.
// Study sessions, exams and streaks are all keyed by calendar day, so most
// helpers here work on date-only values normalized to UTC midnight.
package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// Layouts used across the API and storage layers.
const (
	// DateLayout is the wire and storage format for calendar dates.
	DateLayout = "2006-01-02"

	// ClockLayout is the format for schedule start and end times.
	ClockLayout = "15:04"
)

// ══════════════════════════════════════════════════════════════════════════════
// CLOCK
// ══════════════════════════════════════════════════════════════════════════════

// Clock answers "what day is it" for a configured timezone.
// The zero value uses time.Now in UTC.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock creates a Clock for the named IANA timezone.
// An empty name means UTC.
func NewClock(timezone string) (Clock, error) {
	if strings.TrimSpace(timezone) == "" {
		return Clock{loc: time.UTC, now: time.Now}, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return Clock{}, fmt.Errorf("failed to load timezone %q: %w", timezone, err)
	}
	return Clock{loc: loc, now: time.Now}, nil
}

// FixedClock returns a Clock that always reports the given instant.
func FixedClock(t time.Time) Clock {
	return Clock{loc: time.UTC, now: func() time.Time { return t }}
}

// Now returns the current instant in the clock's timezone.
func (c Clock) Now() time.Time {
	now := c.now
	if now == nil {
		now = time.Now
	}
	loc := c.loc
	if loc == nil {
		loc = time.UTC
	}
	return now().In(loc)
}

// Today returns the current calendar date in the clock's timezone,
// normalized to UTC midnight.
func (c Clock) Today() time.Time {
	return DateOf(c.Now())
}

// Location returns the clock's timezone.
func (c Clock) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// ══════════════════════════════════════════════════════════════════════════════
// DATE HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// DateOf drops the time-of-day component, keeping the calendar day as seen
// in t's own location, and returns it at UTC midnight.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Date builds a date-only value.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the signed number of calendar days from a to b.
// It is positive when b is after a.
func DaysBetween(a, b time.Time) int {
	da, db := DateOf(a), DateOf(b)
	return int(db.Sub(da).Hours() / 24)
}

// IsSameDay reports whether a and b fall on the same calendar day.
func IsSameDay(a, b time.Time) bool {
	return DaysBetween(a, b) == 0
}

// IsConsecutiveDay reports whether b is the calendar day right after a.
func IsConsecutiveDay(a, b time.Time) bool {
	return DaysBetween(a, b) == 1
}

// DaysAgo returns the date n days before the given date.
func DaysAgo(from time.Time, n int) time.Time {
	return DateOf(from).AddDate(0, 0, -n)
}

// ══════════════════════════════════════════════════════════════════════════════
// PARSING AND FORMATTING
// ══════════════════════════════════════════════════════════════════════════════

// ParseDate parses a YYYY-MM-DD string into a date-only value.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value)
	}
	return t, nil
}

// FormatDate formats a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatDatePtr formats an optional date. Nil yields an empty string.
func FormatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return FormatDate(*t)
}

// ParseClock validates an HH:MM time of day and returns it normalized.
func ParseClock(value string) (string, error) {
	t, err := time.Parse(ClockLayout, strings.TrimSpace(value))
	if err != nil {
		return "", fmt.Errorf("invalid time %q: expected HH:MM", value)
	}
	return t.Format(ClockLayout), nil
}
