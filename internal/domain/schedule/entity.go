// Package schedule models weekly study timetables and per-day completion marks.
package schedule

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/educationaltr/study-tracker/internal/domain/shared"
	"github.com/educationaltr/study-tracker/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// SCHEDULE
// ══════════════════════════════════════════════════════════════════════════════

// Schedule is a named weekly timetable. A student's active schedule is the
// one created most recently.
type Schedule struct {
	ID          int64            `json:"id"`
	StudentID   shared.StudentID `json:"student_id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Items       []Item           `json:"items"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// Item is one recurring slot of a schedule.
type Item struct {
	ID         int64  `json:"id"`
	ScheduleID int64  `json:"schedule_id"`
	DayOfWeek  int    `json:"day_of_week"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Subject    string `json:"subject"`
	Location   string `json:"location,omitempty"`
	Instructor string `json:"instructor,omitempty"`
}

// Completion records whether an item was done on a date.
type Completion struct {
	ID          int64     `json:"id"`
	ItemID      int64     `json:"schedule_item_id"`
	Date        time.Time `json:"-"`
	IsCompleted bool      `json:"is_completed"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ItemInput is the unvalidated form of an Item.
type ItemInput struct {
	DayOfWeek  int
	StartTime  string
	EndTime    string
	Subject    string
	Location   string
	Instructor string
}

// NewSchedule validates the input and builds a schedule with sorted items.
func NewSchedule(studentID shared.StudentID, name, description string, items []ItemInput) (*Schedule, error) {
	errs := shared.FieldErrors{}

	if !studentID.IsValid() {
		errs.Add("student_id", "is required")
	}
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 255 {
		errs.Add("name", "is required and must be at most 255 characters")
	}

	built := make([]Item, 0, len(items))
	for i, in := range items {
		item, err := newItem(in)
		if err != nil {
			errs.Add("items", "item "+strconv.Itoa(i)+": "+err.Error())
			continue
		}
		built = append(built, item)
	}

	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	SortItems(built)
	now := time.Now().UTC()
	return &Schedule{
		StudentID:   studentID,
		Name:        name,
		Description: strings.TrimSpace(description),
		Items:       built,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func newItem(in ItemInput) (Item, error) {
	errs := shared.FieldErrors{}

	if in.DayOfWeek < 0 || in.DayOfWeek > 6 {
		errs.Add("day_of_week", "must be between 0 and 6")
	}
	start, err := timeutil.ParseClock(in.StartTime)
	if err != nil {
		errs.Add("start_time", "must be HH:MM")
	}
	end, err := timeutil.ParseClock(in.EndTime)
	if err != nil {
		errs.Add("end_time", "must be HH:MM")
	}
	if start != "" && end != "" && end <= start {
		errs.Add("end_time", "must be after start_time")
	}
	subject := strings.TrimSpace(in.Subject)
	if subject == "" {
		errs.Add("subject", "is required")
	}

	if err := errs.OrNil(); err != nil {
		return Item{}, err
	}
	return Item{
		DayOfWeek:  in.DayOfWeek,
		StartTime:  start,
		EndTime:    end,
		Subject:    subject,
		Location:   strings.TrimSpace(in.Location),
		Instructor: strings.TrimSpace(in.Instructor),
	}, nil
}

// SortItems orders items by day of week, then start time.
func SortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].DayOfWeek != items[j].DayOfWeek {
			return items[i].DayOfWeek < items[j].DayOfWeek
		}
		return items[i].StartTime < items[j].StartTime
	})
}

// NewCompletion builds a completion mark. A zero date means today.
func NewCompletion(itemID int64, date, today time.Time, completed bool, notes string) (*Completion, error) {
	if itemID <= 0 {
		return nil, shared.ErrInvalidID
	}
	if date.IsZero() {
		date = today
	}
	return &Completion{
		ItemID:      itemID,
		Date:        timeutil.DateOf(date),
		IsCompleted: completed,
		Notes:       strings.TrimSpace(notes),
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// Active returns the most recently created schedule, or nil.
func Active(schedules []*Schedule) *Schedule {
	var active *Schedule
	for _, s := range schedules {
		if active == nil || s.CreatedAt.After(active.CreatedAt) ||
			(s.CreatedAt.Equal(active.CreatedAt) && s.ID > active.ID) {
			active = s
		}
	}
	return active
}
