package about

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/reminders/internal/theme"
	"github.com/nhle/reminders/internal/view"
)

// Version is stamped into the About page and the CLI.
var Version = "1.0.0"

// BackMsg returns to the reminder list.
type BackMsg struct{}

var backKey = key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc", "back"))

type section struct {
	title string
	body  []string
}

var sections = []section{
	{"Overview", []string{
		"Reminders keeps track of the things you need to do, right in your terminal.",
		"Everything is stored in a local database; nothing leaves your machine.",
	}},
	{"Features", []string{
		"Smart reminders      create, edit, complete and delete with dates and times",
		"Categories           work, personal, health, shopping, finance and your own",
		"Search               filter as you type with highlighted matches",
		"Due alerts           a toast appears shortly before a reminder is due",
		"Priorities           high, medium and low markers",
		"Local storage        one SQLite file, shared with the CLI and the MCP server",
	}},
	{"Keyboard", []string{
		"Press ? for the full list of shortcuts and : for the command palette.",
	}},
}

// Model is the About page.
type Model struct {
	viewport viewport.Model
	counts   view.Counts
	width    int
	height   int
}

// New creates the About page.
func New(width, height int) Model {
	m := Model{viewport: viewport.New(width, max(height-2, 1)), width: width, height: height}
	m.viewport.SetContent(m.render())
	return m
}

// SetCounts refreshes the statistics section.
func (m *Model) SetCounts(c view.Counts) {
	m.counts = c
	m.viewport.SetContent(m.render())
}

// Update scrolls the page and handles the back key.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, backKey) {
		return m, func() tea.Msg { return BackMsg{} }
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the About page.
func (m Model) View() string {
	footer := theme.HelpStyle.Render(fmt.Sprintf("↑/↓ scroll  •  esc back  •  %3.f%%", m.viewport.ScrollPercent()*100))
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), footer)
}

// SetSize updates the page dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = max(height-2, 1)
	m.viewport.SetContent(m.render())
}

func (m Model) render() string {
	heading := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorBeige)
	body := lipgloss.NewStyle().Width(max(m.width-6, 20))

	var b strings.Builder
	b.WriteString(heading.Render("About Reminders"))
	b.WriteString("\n\n")
	for _, s := range sections {
		b.WriteString(heading.Render(s.title))
		b.WriteString("\n")
		for _, line := range s.body {
			b.WriteString(body.Render("  " + line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(heading.Render("Your Statistics"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  Total %d  •  Pending %d  •  Completed %d\n\n",
		m.counts.Total(), m.counts.Pending, m.counts.Completed)

	b.WriteString(theme.HelpStyle.Render("Version " + Version))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
