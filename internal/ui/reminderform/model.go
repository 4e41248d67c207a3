package reminderform

import (
	"errors"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/reminders/internal/model"
	"github.com/nhle/reminders/internal/theme"
)

// CreatedMsg is dispatched when a new reminder is submitted.
type CreatedMsg struct {
	Draft model.Draft
}

// UpdatedMsg is dispatched when an existing reminder is edited.
type UpdatedMsg struct {
	ID    int64
	Patch model.Patch
}

// CancelMsg is dispatched when the user leaves the form without saving.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	text     string
	date     string
	time     string
	priority model.Priority
	category string
}

// Model is the Bubble Tea model for the reminder create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	editMode bool
	editID   int64
	width    int
	height   int
}

// New creates a new reminder form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{priority: model.PriorityMedium, category: model.DefaultCategory},
		width:  width,
		height: height,
	}
}

// StartCreate resets the form for a new reminder.
func (m *Model) StartCreate() tea.Cmd {
	m.editMode = false
	m.editID = 0
	*m.fb = formBindings{priority: model.PriorityMedium, category: model.DefaultCategory}
	m.form = m.buildForm(model.DefaultCategory)
	return m.form.Init()
}

// StartEdit fills the form with an existing reminder.
func (m *Model) StartEdit(r model.Reminder) tea.Cmd {
	m.editMode = true
	m.editID = r.ID
	*m.fb = formBindings{
		text:     r.Text,
		date:     r.Date,
		time:     r.Time,
		priority: r.Priority,
		category: r.Category,
	}
	if m.fb.priority == "" {
		m.fb.priority = model.PriorityMedium
	}
	if m.fb.category == "" {
		m.fb.category = model.DefaultCategory
	}
	m.form = m.buildForm(m.fb.category)
	return m.form.Init()
}

// Editing reports whether the form edits an existing reminder.
func (m Model) Editing() bool { return m.editMode }

// Update handles messages for the reminder form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		cmd = m.handleSubmit()
		m.form = nil
		return m, cmd
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the reminder form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "Add New Reminder"
	if m.editMode {
		titleText = "Edit Reminder"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	hint := theme.HelpStyle.Render("enter: next  •  esc: cancel")
	content := titleStyle.Render(titleText) + "\n" + m.form.View() + "\n" + hint

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.form != nil {
		m.form = m.form.WithWidth(m.formWidth()).WithHeight(m.formHeight())
	}
}

func (m *Model) buildForm(current string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Reminder").
				Placeholder("What do you need to remember?").
				Value(&m.fb.text).
				Validate(validateRequired),
			huh.NewInput().
				Title("Date").
				Placeholder("YYYY-MM-DD (optional)").
				Value(&m.fb.date).
				Validate(model.ValidateDate),
			huh.NewInput().
				Title("Time").
				Placeholder("HH:MM (optional)").
				Value(&m.fb.time).
				Validate(model.ValidateTime),
			huh.NewSelect[model.Priority]().
				Title("Priority").
				Options(
					huh.NewOption("Low", model.PriorityLow),
					huh.NewOption("Medium", model.PriorityMedium),
					huh.NewOption("High", model.PriorityHigh),
				).
				Value(&m.fb.priority),
			huh.NewSelect[string]().
				Title("Category").
				Options(categoryOptions(current)...).
				Value(&m.fb.category).
				Description("enter on the last field saves"),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

// categoryOptions lists the built-in categories plus current when it is a
// free-form category the reminder already carries.
func categoryOptions(current string) []huh.Option[string] {
	cats := model.Categories
	if current != "" && !slices.Contains(cats, current) {
		cats = append(slices.Clone(cats), current)
	}
	opts := make([]huh.Option[string], len(cats))
	for i, c := range cats {
		opts[i] = huh.NewOption(theme.CategoryIcon(c)+" "+strings.ToUpper(c[:1])+c[1:], c)
	}
	return opts
}

func (m Model) handleSubmit() tea.Cmd {
	text := strings.TrimSpace(m.fb.text)
	date := strings.TrimSpace(m.fb.date)
	clock := strings.TrimSpace(m.fb.time)
	priority := m.fb.priority
	category := m.fb.category

	if m.editMode {
		id := m.editID
		patch := model.Patch{
			Text:     &text,
			Date:     &date,
			Time:     &clock,
			Priority: &priority,
			Category: &category,
		}
		return func() tea.Msg { return UpdatedMsg{ID: id, Patch: patch} }
	}

	draft := model.Draft{
		Text:     text,
		Date:     date,
		Time:     clock,
		Priority: priority,
		Category: category,
	}
	return func() tea.Msg { return CreatedMsg{Draft: draft} }
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 40), 100)
}

func (m Model) formHeight() int {
	return max(m.height-6, 10)
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("reminder text is required")
	}
	return nil
}
