package profile

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/reminders/internal/account"
	"github.com/nhle/reminders/internal/model"
	"github.com/nhle/reminders/internal/theme"
)

// SaveMsg carries the edited profile back to the app.
type SaveMsg struct {
	User model.User
}

// SignOutMsg asks the app to sign the user out.
type SignOutMsg struct{}

// BackMsg returns to the reminder list.
type BackMsg struct{}

var (
	editKey    = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit profile"))
	signOutKey = key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "sign out"))
	backKey    = key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc", "back"))
)

type formBindings struct {
	name          string
	bio           string
	notifications bool
	theme         string
}

// Model shows the signed-in user's profile and an edit form for it.
type Model struct {
	user   model.User
	form   *huh.Form
	fb     *formBindings
	width  int
	height int
}

// New creates the profile page.
func New(width, height int) Model {
	return Model{fb: &formBindings{}, width: width, height: height}
}

// SetUser replaces the displayed profile and closes any open form.
func (m *Model) SetUser(u model.User) {
	m.user = u
	m.form = nil
}

// Editing reports whether the edit form is open.
func (m Model) Editing() bool { return m.form != nil }

// StartEdit opens the edit form prefilled from the current user.
func (m *Model) StartEdit() tea.Cmd {
	themeName := m.user.Theme
	if themeName == "" {
		themeName = account.DefaultTheme
	}
	*m.fb = formBindings{
		name:          m.user.Name,
		bio:           m.user.Bio,
		notifications: m.user.NotificationsEnabled(),
		theme:         themeName,
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the profile page.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		if k, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(k, editKey):
				cmd := m.StartEdit()
				return m, cmd
			case key.Matches(k, signOutKey):
				return m, func() tea.Msg { return SignOutMsg{} }
			case key.Matches(k, backKey):
				return m, func() tea.Msg { return BackMsg{} }
			}
		}
		return m, nil
	}

	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		m.form = nil
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.form = nil
		return m, m.save()
	case huh.StateAborted:
		m.form = nil
		return m, nil
	}
	return m, cmd
}

func (m Model) save() tea.Cmd {
	u := m.user
	u.Name = strings.TrimSpace(m.fb.name)
	u.Bio = strings.TrimSpace(m.fb.bio)
	notifications := m.fb.notifications
	u.Notifications = &notifications
	u.Theme = m.fb.theme
	return func() tea.Msg { return SaveMsg{User: u} }
}

// View renders the profile page.
func (m Model) View() string {
	if m.form != nil {
		title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1).Render("Edit Profile")
		hint := theme.HelpStyle.Render("enter: next  •  esc: cancel")
		return lipgloss.NewStyle().Padding(1, 2).Render(title + "\n" + m.form.View() + "\n" + hint)
	}

	avatar := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Foreground(theme.ColorWhite).
		Background(theme.ColorBeige).
		Render(m.user.Initials())

	label := lipgloss.NewStyle().Foreground(theme.ColorGray).Width(15)
	row := func(name, value string) string {
		return label.Render(name) + value
	}

	bio := m.user.Bio
	if bio == "" {
		bio = theme.HelpStyle.Render("No bio yet")
	}
	notifications := "On"
	if !m.user.NotificationsEnabled() {
		notifications = "Off"
	}
	themeName := m.user.Theme
	if themeName == "" {
		themeName = account.DefaultTheme
	}

	card := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Center, avatar, "  ", lipgloss.NewStyle().Bold(true).Render(m.user.Name)),
		theme.HelpStyle.Render(m.user.Email),
		"",
		row("Bio", bio),
		row("Notifications", notifications),
		row("Theme", themeName),
		"",
		theme.HelpStyle.Render("e: edit profile  •  o: sign out  •  esc: back"),
	)
	return lipgloss.NewStyle().Padding(1, 2).Render(theme.PanelStyle.Render(card))
}

// SetSize updates the page dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.form != nil {
		m.form = m.form.WithWidth(m.formWidth())
	}
}

func (m *Model) buildForm() *huh.Form {
	themes := make([]huh.Option[string], len(account.Themes))
	for i, t := range account.Themes {
		themes[i] = huh.NewOption(strings.ToUpper(t[:1])+t[1:], t)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&m.fb.name).
				Validate(func(s string) error {
					return account.ValidateName(strings.TrimSpace(s))
				}),
			huh.NewText().
				Title("Bio").
				Placeholder("Tell us about yourself").
				CharLimit(account.MaxBioLength).
				Value(&m.fb.bio),
			huh.NewConfirm().
				Title("Notifications").
				Affirmative("On").
				Negative("Off").
				Value(&m.fb.notifications),
			huh.NewSelect[string]().
				Title("Theme").
				Options(themes...).
				Value(&m.fb.theme),
		),
	).WithWidth(m.formWidth())
}

func (m Model) formWidth() int {
	return min(max(m.width-8, 40), 80)
}
