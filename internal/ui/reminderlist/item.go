package reminderlist

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/reminders/internal/model"
	"github.com/nhle/reminders/internal/theme"
)

// Item wraps a model.Reminder so it can be used in a bubbles/list.
type Item struct {
	Reminder model.Reminder
}

// FilterValue returns the string used for fuzzy filtering.
func (i Item) FilterValue() string { return i.Reminder.Text }

// Title returns the reminder text.
func (i Item) Title() string { return i.Reminder.Text }

// Description returns the category and due line.
func (i Item) Description() string {
	return i.Reminder.Category + " | " + FormatDue(i.Reminder)
}

// ItemDelegate implements list.ItemDelegate for rendering reminders.
type ItemDelegate struct {
	// search is highlighted inside reminder text. Shared by pointer with the
	// list Model so edits are visible without rebuilding the delegate.
	search *string
	now    func() time.Time
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 2 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a reminder as a title line and a detail line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(Item)
	if !ok {
		return
	}
	r := it.Reminder

	check := "○"
	if r.Completed {
		check = "✓"
	}

	pri := theme.PriorityStyle(r.Priority).Render(theme.PriorityIcon(r.Priority))

	search := ""
	if d.search != nil {
		search = *d.search
	}
	text := Highlight(r.Text, search)

	overdue := ""
	if d.now != nil && r.IsOverdue(d.now()) {
		overdue = theme.OverdueStyle.Render(" OVERDUE")
	}

	title := fmt.Sprintf("%s %s %s%s", check, pri, text, overdue)
	detail := theme.DueDateStyle.Render(fmt.Sprintf("    %s %s  ·  %s",
		theme.CategoryIcon(r.Category), r.Category, FormatDue(r)))

	if r.Completed {
		title = theme.DimmedStyle.Render(fmt.Sprintf("%s %s %s", check, theme.PriorityIcon(r.Priority), r.Text))
	}

	line := lipgloss.JoinVertical(lipgloss.Left, title, detail)
	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// FormatDue renders the date and time as "Jan 5, 2024 at 09:00", either part
// alone, or "No date/time set".
func FormatDue(r model.Reminder) string {
	var parts []string
	if r.Date != "" {
		if d, err := time.Parse(model.DateLayout, r.Date); err == nil {
			parts = append(parts, d.Format("Jan 2, 2006"))
		} else {
			parts = append(parts, r.Date)
		}
	}
	if r.Time != "" {
		parts = append(parts, r.Time)
	}
	if len(parts) == 0 {
		return "No date/time set"
	}
	return strings.Join(parts, " at ")
}

// Highlight marks every case-insensitive occurrence of term in text.
func Highlight(text, term string) string {
	if term == "" {
		return text
	}
	lower := strings.ToLower(text)
	needle := strings.ToLower(term)
	// Lowercasing can change byte lengths for some scripts; fall back to
	// plain text rather than slicing at a wrong offset.
	if len(lower) != len(text) {
		return text
	}

	var b strings.Builder
	for {
		i := strings.Index(lower, needle)
		if i < 0 {
			b.WriteString(text)
			return b.String()
		}
		b.WriteString(text[:i])
		b.WriteString(theme.HighlightStyle.Render(text[i : i+len(needle)]))
		text = text[i+len(needle):]
		lower = lower[i+len(needle):]
	}
}
