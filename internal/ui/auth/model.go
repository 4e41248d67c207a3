package auth

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/nhle/reminders/internal/account"
	"github.com/nhle/reminders/internal/theme"
)

// SignInMsg is dispatched when the sign-in form is submitted.
type SignInMsg struct {
	Email    string
	Password string
}

// SignUpMsg is dispatched when the sign-up form is submitted.
type SignUpMsg struct {
	Name     string
	Email    string
	Password string
	Confirm  string
}

// DemoMsg asks the app to sign in as the demo user.
type DemoMsg struct{}

// BackMsg closes the auth screen without signing in.
type BackMsg struct{}

// Mode selects which form is shown.
type Mode int

const (
	ModeSignIn Mode = iota
	ModeSignUp
)

var (
	switchKey = key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "switch form"))
	demoKey   = key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "demo account"))
	backKey   = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back"))
)

type formBindings struct {
	name     string
	email    string
	password string
	confirm  string
}

// Model is the sign-in / sign-up screen. It is optional: reminders work
// without an account.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	mode   Mode
	err    string
	width  int
	height int
}

// New creates the auth screen in sign-in mode.
func New(width, height int) Model {
	m := Model{fb: &formBindings{}, width: width, height: height}
	m.form = m.buildForm()
	return m
}

// Mode returns the form currently shown.
func (m Model) Mode() Mode { return m.mode }

// Init starts the form.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// Reset clears every field and returns to sign-in.
func (m *Model) Reset() tea.Cmd {
	return m.SetMode(ModeSignIn)
}

// SetMode switches forms, keeping the email the user already typed.
func (m *Model) SetMode(mode Mode) tea.Cmd {
	email := m.fb.email
	*m.fb = formBindings{email: email}
	m.mode = mode
	m.err = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// SetError shows a rejection from the account manager and reopens the form.
func (m *Model) SetError(err error) tea.Cmd {
	m.err = describe(err)
	m.fb.password = ""
	m.fb.confirm = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// describe flattens field errors into one line.
func describe(err error) string {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, field := range []string{"name", "email", "password", "confirm"} {
			if e, ok := verrs[field]; ok && e != nil {
				msgs = append(msgs, e.Error())
			}
		}
		return strings.Join(msgs, "; ")
	}
	return err.Error()
}

// Update handles messages for the auth screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, switchKey):
			next := ModeSignUp
			if m.mode == ModeSignUp {
				next = ModeSignIn
			}
			cmd := m.SetMode(next)
			return m, cmd
		case key.Matches(k, demoKey):
			return m, func() tea.Msg { return DemoMsg{} }
		case key.Matches(k, backKey):
			return m, back
		}
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		submit := m.submit()
		m.form = m.buildForm()
		return m, tea.Batch(m.form.Init(), submit)
	case huh.StateAborted:
		m.form = m.buildForm()
		return m, back
	}
	return m, cmd
}

func back() tea.Msg { return BackMsg{} }

func (m Model) submit() tea.Cmd {
	fb := *m.fb
	if m.mode == ModeSignUp {
		return func() tea.Msg {
			return SignUpMsg{Name: fb.name, Email: fb.email, Password: fb.password, Confirm: fb.confirm}
		}
	}
	return func() tea.Msg { return SignInMsg{Email: fb.email, Password: fb.password} }
}

// View renders the auth screen.
func (m Model) View() string {
	title := "Welcome Back"
	subtitle := "Sign in to personalise your reminders"
	if m.mode == ModeSignUp {
		title = "Create Account"
		subtitle = "Sign up to start organizing your reminders"
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorBeige)
	parts := []string{
		titleStyle.Render("🔔 " + title),
		theme.HelpStyle.Render(subtitle),
		"",
		m.form.View(),
	}
	if m.err != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.ColorRed).Render(m.err))
	}

	other := "Don't have an account? ctrl+n to sign up"
	if m.mode == ModeSignUp {
		other = "Already have an account? ctrl+n to sign in"
	}
	parts = append(parts, "",
		theme.HelpStyle.Render(other),
		theme.HelpStyle.Render("ctrl+d to try the demo account"),
		theme.HelpStyle.Render("esc to keep using reminders without an account"))

	box := theme.PanelStyle.Width(m.formWidth() + 4).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.form = m.form.WithWidth(m.formWidth())
}

func (m *Model) buildForm() *huh.Form {
	var fields []huh.Field
	if m.mode == ModeSignUp {
		fields = append(fields, huh.NewInput().
			Title("Full Name").
			Placeholder("Enter your full name").
			Value(&m.fb.name).
			Validate(func(s string) error { return account.ValidateName(strings.TrimSpace(s)) }))
	}

	fields = append(fields,
		huh.NewInput().
			Title("Email").
			Placeholder("you@example.com").
			Value(&m.fb.email).
			Validate(func(s string) error { return account.ValidateEmail(strings.TrimSpace(s)) }),
	)

	password := huh.NewInput().
		Title("Password").
		EchoMode(huh.EchoModePassword).
		Value(&m.fb.password).
		Validate(account.ValidatePassword)
	if m.mode == ModeSignUp {
		password = password.DescriptionFunc(func() string {
			return strengthLabel(m.fb.password)
		}, &m.fb.password)
	}
	fields = append(fields, password)

	if m.mode == ModeSignUp {
		fields = append(fields, huh.NewInput().
			Title("Confirm Password").
			EchoMode(huh.EchoModePassword).
			Value(&m.fb.confirm).
			Validate(func(s string) error {
				if s != m.fb.password {
					return errors.New("passwords do not match")
				}
				return nil
			}))
	}

	return huh.NewForm(huh.NewGroup(fields...)).
		WithWidth(m.formWidth()).
		WithShowHelp(false)
}

// strengthLabel renders a four-step bar and the strength name.
func strengthLabel(pw string) string {
	s := account.PasswordStrength(pw)
	if s == account.StrengthNone {
		return ""
	}
	filled := map[account.Strength]int{
		account.StrengthWeak:   1,
		account.StrengthMedium: 2,
		account.StrengthStrong: 4,
	}[s]
	return strings.Repeat("■", filled) + strings.Repeat("□", 4-filled) + " " + s.String()
}

func (m Model) formWidth() int {
	return min(max(m.width/2, 36), 60)
}
