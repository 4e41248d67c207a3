package about

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/reminders/internal/view"
)

func TestRenderIncludesStatistics(t *testing.T) {
	m := New(100, 80)
	m.SetCounts(view.Counts{Pending: 2, Completed: 3})

	out := m.render()
	assert.Contains(t, out, "About Reminders")
	assert.Contains(t, out, "Total 5")
	assert.Contains(t, out, "Version "+Version)
}

func TestBackKey(t *testing.T) {
	m := New(100, 40)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, BackMsg{}, cmd())
}
