package model

import (
	"fmt"
	"strings"
	"time"
)

// Priority is the urgency level of a reminder.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every valid priority, lowest first.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority converts user input into a Priority.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	default:
		return "", fmt.Errorf("invalid priority %q, use low, medium or high", s)
	}
}

// DefaultCategory is assigned to reminders created without a category.
const DefaultCategory = "general"

// Categories offered by the reminder form. Reminders may carry any other
// free-form category as well.
var Categories = []string{"general", "work", "personal", "health", "shopping", "finance"}

// Date and time layouts used for the stored date and time fields.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var timeLayouts = []string{TimeLayout, "15:04:05"}

// Reminder is a user task with an optional due date and time.
type Reminder struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Date      string    `json:"date,omitempty"`
	Time      string    `json:"time,omitempty"`
	Priority  Priority  `json:"priority"`
	Category  string    `json:"category"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// DueAt combines Date and Time in loc. It reports false when either part is
// missing or cannot be parsed.
func (r Reminder) DueAt(loc *time.Location) (time.Time, bool) {
	if r.Date == "" || r.Time == "" {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation(DateLayout, r.Date, loc)
	if err != nil {
		return time.Time{}, false
	}
	clock, ok := parseClock(r.Time)
	if !ok {
		return time.Time{}, false
	}
	return time.Date(d.Year(), d.Month(), d.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), 0, loc), true
}

// IsOverdue reports whether a pending reminder's due instant has passed.
func (r Reminder) IsOverdue(now time.Time) bool {
	if r.Completed {
		return false
	}
	due, ok := r.DueAt(now.Location())
	return ok && due.Before(now)
}

// Draft is the input for creating a reminder.
type Draft struct {
	Text     string
	Date     string
	Time     string
	Priority Priority
	Category string
}

// Patch holds optional fields for a partial update. Nil fields are left
// untouched.
type Patch struct {
	Text     *string
	Date     *string
	Time     *string
	Priority *Priority
	Category *string
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Text == nil && p.Date == nil && p.Time == nil &&
		p.Priority == nil && p.Category == nil
}

// Apply merges the patch into r and returns the result. ID, CreatedAt and
// Completed are never touched.
func (p Patch) Apply(r Reminder) Reminder {
	if p.Text != nil {
		r.Text = *p.Text
	}
	if p.Date != nil {
		r.Date = *p.Date
	}
	if p.Time != nil {
		r.Time = *p.Time
	}
	if p.Priority != nil {
		r.Priority = *p.Priority
	}
	if p.Category != nil {
		r.Category = *p.Category
	}
	return r
}

// ValidateDate accepts an empty string or a YYYY-MM-DD date.
func ValidateDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := time.Parse(DateLayout, strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
	}
	return nil
}

// ValidateTime accepts an empty string or an HH:MM clock time.
func ValidateTime(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, ok := parseClock(strings.TrimSpace(s)); !ok {
		return fmt.Errorf("invalid time %q, use HH:MM", s)
	}
	return nil
}

func parseClock(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
