package model

import "fmt"

// StatusFilter selects reminders by completion state.
type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusPending   StatusFilter = "pending"
	StatusCompleted StatusFilter = "completed"
)

// StatusFilters lists the filters in the order the UI cycles through them.
var StatusFilters = []StatusFilter{StatusAll, StatusPending, StatusCompleted}

// ParseStatusFilter converts user input into a StatusFilter. Empty input
// means all.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch f := StatusFilter(s); f {
	case "":
		return StatusAll, nil
	case StatusAll, StatusPending, StatusCompleted:
		return f, nil
	default:
		return "", fmt.Errorf("invalid status %q, use all, pending or completed", s)
	}
}

// AllCategories is the category filter value that matches every reminder.
const AllCategories = "all"

// Filter is the UI's current view state. It is never persisted.
type Filter struct {
	Status   StatusFilter
	Category string
	Search   string
}

// DefaultFilter matches every reminder.
func DefaultFilter() Filter {
	return Filter{Status: StatusAll, Category: AllCategories}
}

// IsDefault reports whether the filter passes everything through.
func (f Filter) IsDefault() bool {
	return (f.Status == "" || f.Status == StatusAll) &&
		(f.Category == "" || f.Category == AllCategories) &&
		f.Search == ""
}
