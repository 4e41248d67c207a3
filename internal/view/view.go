// Package view derives what the UI shows from a reminder snapshot. Every
// function is pure and never modifies its input.
package view

import (
	"slices"
	"strings"
	"time"

	"github.com/nhle/reminders/internal/model"
)

// Counts are global totals over the unfiltered collection.
type Counts struct {
	Pending   int
	Completed int
}

// Total returns Pending + Completed.
func (c Counts) Total() int { return c.Pending + c.Completed }

// Result bundles everything a list screen needs for one render.
type Result struct {
	Visible    []model.Reminder
	Counts     Counts
	Categories []string
}

// Apply returns the reminders matching f, keeping their original order.
// Status is checked first, then category, then a case-insensitive substring
// match of the search term against the text.
func Apply(items []model.Reminder, f model.Filter) []model.Reminder {
	search := strings.ToLower(f.Search)

	out := make([]model.Reminder, 0, len(items))
	for _, r := range items {
		if !matchStatus(r, f.Status) {
			continue
		}
		if f.Category != "" && f.Category != model.AllCategories && r.Category != f.Category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(r.Text), search) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchStatus(r model.Reminder, s model.StatusFilter) bool {
	switch s {
	case model.StatusPending:
		return !r.Completed
	case model.StatusCompleted:
		return r.Completed
	default:
		return true
	}
}

// Count tallies pending and completed reminders.
func Count(items []model.Reminder) Counts {
	var c Counts
	for _, r := range items {
		if r.Completed {
			c.Completed++
		} else {
			c.Pending++
		}
	}
	return c
}

// Categories returns "all" followed by each distinct category in the order
// it first appears.
func Categories(items []model.Reminder) []string {
	out := []string{model.AllCategories}
	seen := map[string]bool{model.AllCategories: true}
	for _, r := range items {
		if r.Category == "" || seen[r.Category] {
			continue
		}
		seen[r.Category] = true
		out = append(out, r.Category)
	}
	return out
}

// Compute runs Apply, Count and Categories over the same snapshot.
func Compute(items []model.Reminder, f model.Filter) Result {
	return Result{
		Visible:    Apply(items, f),
		Counts:     Count(items),
		Categories: Categories(items),
	}
}

// Due returns the pending reminders whose due instant is at or before
// now+window, overdue ones included, soonest first. Reminders without both a
// date and a time are never due.
func Due(items []model.Reminder, now time.Time, window time.Duration, loc *time.Location) []model.Reminder {
	type dueItem struct {
		r  model.Reminder
		at time.Time
	}

	var due []dueItem
	limit := now.Add(window)
	for _, r := range items {
		if r.Completed {
			continue
		}
		at, ok := r.DueAt(loc)
		if !ok || at.After(limit) {
			continue
		}
		due = append(due, dueItem{r, at})
	}
	slices.SortStableFunc(due, func(a, b dueItem) int { return a.at.Compare(b.at) })

	out := make([]model.Reminder, len(due))
	for i, d := range due {
		out[i] = d.r
	}
	return out
}
