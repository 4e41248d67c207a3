package reminderlist

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/reminders/internal/keys"
	"github.com/nhle/reminders/internal/model"
	"github.com/nhle/reminders/internal/theme"
	"github.com/nhle/reminders/internal/view"
)

// ToggleMsg asks the app to flip a reminder's completion.
type ToggleMsg struct{ ID int64 }

// DeleteMsg asks the app to remove a reminder.
type DeleteMsg struct{ ID int64 }

// EditMsg asks the app to open the edit form for a reminder.
type EditMsg struct{ Reminder model.Reminder }

// chromeHeight is the number of lines above the list: tabs, categories and
// the search bar.
const chromeHeight = 3

// Model is the reminder list view. It owns the filter state and recomputes
// the visible reminders from the latest snapshot.
type Model struct {
	list        list.Model
	keys        *keys.KeyMap
	all         []model.Reminder
	filter      model.Filter
	result      view.Result
	search      *string
	searchMode  bool
	searchInput textinput.Model
	width       int
	height      int
}

// New creates a new reminder list model.
func New(k *keys.KeyMap, width, height int, now func() time.Time) Model {
	search := new(string)
	delegate := ItemDelegate{search: search, now: now}

	l := list.New([]list.Item{}, delegate, width, max(height-chromeHeight, 1))
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	si := textinput.New()
	si.Placeholder = "search reminders..."
	si.Prompt = "/ "
	si.Width = width - 4

	m := Model{
		list:        l,
		keys:        k,
		filter:      model.DefaultFilter(),
		search:      search,
		searchInput: si,
		width:       width,
		height:      height,
	}
	m.result = view.Compute(nil, m.filter)
	return m
}

// SetReminders replaces the snapshot and recomputes the visible list.
func (m *Model) SetReminders(items []model.Reminder) tea.Cmd {
	m.all = items
	return m.refresh()
}

// Filter returns the current filter state.
func (m Model) Filter() model.Filter { return m.filter }

// SetFilter replaces the filter state.
func (m *Model) SetFilter(f model.Filter) tea.Cmd {
	if f.Status == "" {
		f.Status = model.StatusAll
	}
	if f.Category == "" {
		f.Category = model.AllCategories
	}
	m.filter = f
	*m.search = f.Search
	m.searchInput.SetValue(f.Search)
	return m.refresh()
}

// Counts returns the global pending and completed totals.
func (m Model) Counts() view.Counts { return m.result.Counts }

// Visible returns the reminders currently shown.
func (m Model) Visible() []model.Reminder { return m.result.Visible }

// Searching reports whether the search input has focus.
func (m Model) Searching() bool { return m.searchMode }

// SelectedReminder returns the reminder under the cursor.
func (m Model) SelectedReminder() (model.Reminder, bool) {
	it, ok := m.list.SelectedItem().(Item)
	if !ok {
		return model.Reminder{}, false
	}
	return it.Reminder, true
}

func (m *Model) refresh() tea.Cmd {
	m.result = view.Compute(m.all, m.filter)

	// A category that disappeared from the collection falls back to all.
	if !slices.Contains(m.result.Categories, m.filter.Category) {
		m.filter.Category = model.AllCategories
		m.result = view.Compute(m.all, m.filter)
	}

	items := make([]list.Item, len(m.result.Visible))
	for i, r := range m.result.Visible {
		items[i] = Item{Reminder: r}
	}
	return m.list.SetItems(items)
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the reminder list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys filters as the user types; enter keeps the term and esc
// clears it.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.searchInput.Blur()
		return m, nil

	case "esc":
		m.searchMode = false
		m.searchInput.Blur()
		m.searchInput.Reset()
		m.filter.Search = ""
		*m.search = ""
		return m, m.refresh()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if v := m.searchInput.Value(); v != m.filter.Search {
		m.filter.Search = v
		*m.search = v
		return m, tea.Batch(cmd, m.refresh())
	}
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Toggle):
		if r, ok := m.SelectedReminder(); ok {
			return m, func() tea.Msg { return ToggleMsg{ID: r.ID} }
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if r, ok := m.SelectedReminder(); ok {
			return m, func() tea.Msg { return DeleteMsg{ID: r.ID} }
		}
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		if r, ok := m.SelectedReminder(); ok {
			return m, func() tea.Msg { return EditMsg{Reminder: r} }
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.SetValue(m.filter.Search)
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.CycleStatus):
		m.filter.Status = next(model.StatusFilters, m.filter.Status)
		return m, m.refresh()

	case key.Matches(msg, m.keys.CycleCategory):
		m.filter.Category = next(m.result.Categories, m.filter.Category)
		return m, m.refresh()

	case key.Matches(msg, m.keys.ClearFilters):
		return m, m.SetFilter(model.DefaultFilter())
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// next returns the element after cur, wrapping around. An unknown cur yields
// the first element.
func next[T comparable](values []T, cur T) T {
	i := slices.Index(values, cur)
	return values[(i+1)%len(values)]
}

// View renders the reminder list view.
func (m Model) View() string {
	parts := []string{m.renderStatusTabs(), m.renderCategoryTabs(), m.renderSearchBar()}

	if len(m.result.Visible) == 0 {
		parts = append(parts, m.renderEmptyState())
	} else {
		parts = append(parts, m.list.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderStatusTabs() string {
	labels := map[model.StatusFilter]string{
		model.StatusAll:       fmt.Sprintf("All (%d)", m.result.Counts.Total()),
		model.StatusPending:   fmt.Sprintf("Pending (%d)", m.result.Counts.Pending),
		model.StatusCompleted: fmt.Sprintf("Completed (%d)", m.result.Counts.Completed),
	}
	tabs := make([]string, 0, len(model.StatusFilters))
	for _, s := range model.StatusFilters {
		style := theme.TabStyle
		if s == m.filter.Status {
			style = theme.ActiveTabStyle
		}
		tabs = append(tabs, style.Render(labels[s]))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderCategoryTabs() string {
	tabs := make([]string, 0, len(m.result.Categories))
	for _, c := range m.result.Categories {
		style := theme.TabStyle
		if c == m.filter.Category {
			style = theme.ActiveTabStyle
		}
		tabs = append(tabs, style.Render(theme.CategoryIcon(c)+" "+capitalize(c)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderSearchBar() string {
	if m.searchMode {
		return lipgloss.NewStyle().Padding(0, 1).Render(m.searchInput.View())
	}
	if m.filter.Search != "" {
		return theme.HelpStyle.Padding(0, 1).Render("search: " + m.filter.Search + "  (/ to change)")
	}
	return ""
}

// renderEmptyState shows guidance text when nothing is visible.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(max(m.height-chromeHeight, 1)).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if len(m.all) > 0 {
		return style.Render("No matching reminders.\nTry adjusting your filters.")
	}
	return style.Render("○\n\nNo reminders yet\nAdd your first reminder to get started!\n\nPress n to add one.")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, max(height-chromeHeight, 1))
	m.searchInput.Width = width - 4
}
