package study

import "time"

// Totals summarizes every session of a student.
type Totals struct {
	Sessions          int     `json:"total_sessions"`
	Hours             float64 `json:"total_hours"`
	AverageEfficiency float64 `json:"average_efficiency"`
	StudyDays         int     `json:"study_days"`
}

// DailySummary aggregates the sessions of one calendar day.
type DailySummary struct {
	Date              time.Time `json:"-"`
	Hours             float64   `json:"hours"`
	AverageEfficiency float64   `json:"average_efficiency"`
	Sessions          int       `json:"sessions"`
}

// SubjectHours is the total time spent on one subject.
type SubjectHours struct {
	Subject  string  `json:"subject"`
	Hours    float64 `json:"hours"`
	Sessions int     `json:"sessions"`
}

// StatsWindowDays is the length of the dashboard and stats history.
const StatsWindowDays = 30

// TopSubjectsLimit caps the subject breakdown.
const TopSubjectsLimit = 10

// RecentSessionsLimit caps the dashboard's recent session list.
const RecentSessionsLimit = 10
