package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/reminders/internal/model"
	"github.com/nhle/reminders/internal/theme"
)

// maxToasts caps how many notifications are drawn at once; older ones stay
// queued until they expire.
const maxToasts = 3

// Layout manages the terminal layout dimensions.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
// HeaderHeight and StatusBarHeight default to 1.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the main content area,
// accounting for the header and status bar.
func (l Layout) ContentHeight() int {
	return l.Height - l.HeaderHeight - l.StatusBarHeight
}

// RenderHeader renders the top bar with a title on the left and status text
// (counts, signed-in user) on the right.
func (l Layout) RenderHeader(style lipgloss.Style, title, status string) string {
	titleRendered := style.Render(title)
	statusRendered := style.Align(lipgloss.Right).Render(status)

	gap := max(l.Width-lipgloss.Width(titleRendered)-lipgloss.Width(statusRendered), 0)
	filler := lipgloss.NewStyle().
		Width(gap).
		Background(style.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, titleRendered, filler, statusRendered)
}

// RenderStatusBar renders the bottom status bar with keyboard hints.
func (l Layout) RenderStatusBar(hints string) string {
	rendered := theme.StatusBarStyle.Render(hints)

	gap := max(l.Width-lipgloss.Width(rendered), 0)
	filler := lipgloss.NewStyle().
		Width(gap).
		Background(theme.StatusBarStyle.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered, filler)
}

// RenderWithFrame composes a full terminal view by vertically joining
// the header, content area, and status bar.
func (l Layout) RenderWithFrame(header, content, statusBar string) string {
	content = lipgloss.NewStyle().
		Height(max(l.ContentHeight(), 0)).
		MaxHeight(max(l.ContentHeight(), 0)).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

// RenderToasts stacks the newest notifications right-aligned, newest at the
// bottom. It returns an empty string when there is nothing to show.
func (l Layout) RenderToasts(entries []model.Notification) string {
	if len(entries) == 0 {
		return ""
	}
	if len(entries) > maxToasts {
		entries = entries[len(entries)-maxToasts:]
	}

	width := min(max(l.Width/3, 24), max(l.Width-2, 1))
	toasts := make([]string, 0, len(entries))
	for _, n := range entries {
		text := theme.ToastIcon(n.Kind) + " " + n.Message
		toasts = append(toasts, theme.ToastStyle(n.Kind).Width(width).Render(text))
	}
	block := lipgloss.JoinVertical(lipgloss.Right, toasts...)
	return lipgloss.PlaceHorizontal(l.Width, lipgloss.Right, block)
}

// OverlayBottom replaces the last lines of content with overlay so toasts
// sit above the status bar without shifting the list.
func OverlayBottom(content, overlay string, height int) string {
	if overlay == "" {
		return content
	}
	lines := strings.Split(content, "\n")
	for len(lines) < height {
		lines = append(lines, "")
	}
	over := strings.Split(overlay, "\n")
	start := max(len(lines)-len(over), 0)
	for i, o := range over {
		if start+i < len(lines) {
			lines[start+i] = o
		}
	}
	return strings.Join(lines, "\n")
}
