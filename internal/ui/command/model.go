package command

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/reminders/internal/model"
	"github.com/nhle/reminders/internal/theme"
)

// CommandMsg is emitted when the user executes a command.
type CommandMsg struct {
	Name string
	Args []string
}

// CancelMsg is emitted when the palette is closed without a command.
type CancelMsg struct{}

// Usage lists the commands the palette understands, shown under the input.
var Usage = []string{
	"add <text> [date:YYYY-MM-DD] [time:HH:MM] [!low|!medium|!high] [#category]",
	"status all|pending|completed  •  category <name>  •  search <term>  •  clear",
	"dismiss  •  profile  •  signin  •  signup  •  signout  •  about  •  help  •  quit",
}

// Parse splits a command line into its name and arguments. The name is
// lower-cased; arguments keep their case.
func Parse(line string) (CommandMsg, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return CommandMsg{}, false
	}
	return CommandMsg{Name: strings.ToLower(fields[0]), Args: fields[1:]}, true
}

// ParseDraft builds a reminder from "add" arguments. Tokens prefixed with
// date:, time:, ! and # set the matching field; everything else is text.
func ParseDraft(args []string) (model.Draft, error) {
	d := model.Draft{Priority: model.PriorityMedium, Category: model.DefaultCategory}
	var text []string
	for _, a := range args {
		switch {
		case strings.HasPrefix(a, "date:"):
			d.Date = strings.TrimPrefix(a, "date:")
			if err := model.ValidateDate(d.Date); err != nil {
				return model.Draft{}, err
			}
		case strings.HasPrefix(a, "time:"):
			d.Time = strings.TrimPrefix(a, "time:")
			if err := model.ValidateTime(d.Time); err != nil {
				return model.Draft{}, err
			}
		case len(a) > 1 && strings.HasPrefix(a, "!"):
			p, err := model.ParsePriority(a[1:])
			if err != nil {
				return model.Draft{}, err
			}
			d.Priority = p
		case len(a) > 1 && strings.HasPrefix(a, "#"):
			d.Category = strings.ToLower(a[1:])
		default:
			text = append(text, a)
		}
	}
	d.Text = strings.Join(text, " ")
	if d.Text == "" {
		return model.Draft{}, fmt.Errorf("add needs reminder text")
	}
	return d, nil
}

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	width  int
	height int
}

// New creates a new command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "type a command..."
	ti.Prompt = ": "
	ti.Focus()
	ti.Width = width - 6

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEnter:
			line := m.input.Value()
			m.input.Reset()
			if c, ok := Parse(line); ok {
				return m, func() tea.Msg { return c }
			}
			return m, func() tea.Msg { return CancelMsg{} }
		case tea.KeyEsc:
			m.input.Reset()
			return m, func() tea.Msg { return CancelMsg{} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the command palette.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite)

	lines := []string{titleStyle.Render("Command Palette"), m.input.View()}
	for _, u := range Usage {
		lines = append(lines, theme.HelpStyle.Render(u))
	}

	return theme.PanelStyle.
		Width(max(m.width-4, 0)).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}
