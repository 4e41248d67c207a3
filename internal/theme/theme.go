package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/reminders/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorBeige   = lipgloss.AdaptiveColor{Dark: "#C8B48A", Light: "#8B7355"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// accents maps a profile theme name to its header color.
var accents = map[string]lipgloss.AdaptiveColor{
	"beige": ColorBeige,
	"dark":  ColorSubtle,
	"light": ColorBlue,
}

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBeige).
	Padding(0, 1)

// HeaderFor returns HeaderStyle recolored for the named theme. Unknown names
// fall back to beige.
func HeaderFor(name string) lipgloss.Style {
	accent, ok := accents[name]
	if !ok {
		accent = ColorBeige
	}
	return HeaderStyle.Background(accent)
}

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// PanelStyle wraps overlay content such as help, about and forms.
var PanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// DimmedStyle renders completed reminders.
var DimmedStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Strikethrough(true)

// OverdueStyle flags pending reminders whose due time has passed.
var OverdueStyle = lipgloss.NewStyle().
	Foreground(ColorRed).
	Bold(true)

// DueDateStyle renders the date/time column.
var DueDateStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// HighlightStyle marks search matches inside reminder text.
var HighlightStyle = lipgloss.NewStyle().
	Foreground(ColorYellow).
	Bold(true).
	Underline(true)

// TabStyle and ActiveTabStyle render the status and category filter tabs.
var (
	TabStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Padding(0, 1)

	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Background(ColorBlue).
			Bold(true).
			Padding(0, 1)
)

// PriorityStyle returns a color-coded style for the given priority.
func PriorityStyle(p model.Priority) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch p {
	case model.PriorityHigh:
		return base.Foreground(ColorRed)
	case model.PriorityMedium:
		return base.Foreground(ColorYellow)
	case model.PriorityLow:
		return base.Foreground(ColorGreen)
	default:
		return base.Foreground(ColorGray)
	}
}

// PriorityIcon returns the glyph shown before a reminder of priority p.
func PriorityIcon(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return "●"
	case model.PriorityMedium:
		return "◐"
	case model.PriorityLow:
		return "◯"
	default:
		return "○"
	}
}

// CategoryIcon returns the glyph for a category tab or badge.
func CategoryIcon(category string) string {
	switch category {
	case "work", "finance":
		return "⬢"
	case "personal":
		return "◈"
	case "health":
		return "⬟"
	case "shopping":
		return "⬡"
	default:
		return "◉"
	}
}

// ToastStyle returns the bordered style for a notification of the given kind.
func ToastStyle(kind model.NotificationKind) lipgloss.Style {
	base := lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder())

	switch kind {
	case model.KindSuccess:
		return base.BorderForeground(ColorGreen).Foreground(ColorGreen)
	case model.KindWarning:
		return base.BorderForeground(ColorOrange).Foreground(ColorOrange)
	case model.KindError:
		return base.BorderForeground(ColorRed).Foreground(ColorRed)
	default:
		return base.BorderForeground(ColorBlue).Foreground(ColorBlue)
	}
}

// ToastIcon returns the leading glyph for a notification kind.
func ToastIcon(kind model.NotificationKind) string {
	switch kind {
	case model.KindSuccess:
		return "✓"
	case model.KindWarning:
		return "⚠"
	case model.KindError:
		return "✗"
	default:
		return "ℹ"
	}
}
