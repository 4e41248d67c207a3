package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/nhle/reminders/internal/model"
	"github.com/nhle/reminders/internal/theme"
)

func TestContentHeight(t *testing.T) {
	l := NewLayout(80, 24)
	assert.Equal(t, 22, l.ContentHeight())
	assert.Equal(t, 80, l.ContentWidth())
}

func TestRenderHeaderFillsWidth(t *testing.T) {
	l := NewLayout(60, 20)
	out := l.RenderHeader(theme.HeaderFor("beige"), "Reminders", "2 pending")
	assert.Equal(t, 60, lipgloss.Width(out))
	assert.Contains(t, out, "Reminders")
	assert.Contains(t, out, "2 pending")
}

func TestRenderToastsShowsNewest(t *testing.T) {
	l := NewLayout(90, 30)
	assert.Empty(t, l.RenderToasts(nil))

	var entries []model.Notification
	for _, msg := range []string{"one", "two", "three", "four"} {
		entries = append(entries, model.Notification{Message: msg, Kind: model.KindInfo})
	}
	out := l.RenderToasts(entries)
	assert.NotContains(t, out, "one")
	assert.Contains(t, out, "four")
}

func TestOverlayBottom(t *testing.T) {
	out := OverlayBottom("a\nb\nc", "X", 5)
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 5)
	assert.Equal(t, "X", lines[4])
	assert.Equal(t, "a", lines[0])

	assert.Equal(t, "a", OverlayBottom("a", "", 3))
}
