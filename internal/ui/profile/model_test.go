package profile

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/reminders/internal/model"
)

func TestViewShowsProfile(t *testing.T) {
	m := New(100, 30)
	m.SetUser(model.User{Name: "Ann Lee", Email: "ann@example.com"})

	out := m.View()
	assert.Contains(t, out, "AL")
	assert.Contains(t, out, "ann@example.com")
	assert.Contains(t, out, "No bio yet")
	assert.Contains(t, out, "beige")
}

func TestKeysEmitMessages(t *testing.T) {
	m := New(100, 30)
	m.SetUser(model.User{Name: "Ann", Email: "ann@example.com"})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("o")})
	require.NotNil(t, cmd)
	assert.Equal(t, SignOutMsg{}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, BackMsg{}, cmd())
}

func TestEditPrefillsAndSaves(t *testing.T) {
	off := false
	m := New(100, 30)
	m.SetUser(model.User{Name: "Ann", Email: "ann@example.com", Notifications: &off, Theme: "dark"})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	require.True(t, m.Editing())
	assert.Equal(t, "Ann", m.fb.name)
	assert.False(t, m.fb.notifications)
	assert.Equal(t, "dark", m.fb.theme)

	m.fb.name = " Ann Lee "
	m.fb.bio = "Gardener"
	msg := m.save()()
	saved, ok := msg.(SaveMsg)
	require.True(t, ok)
	assert.Equal(t, "Ann Lee", saved.User.Name)
	assert.Equal(t, "Gardener", saved.User.Bio)
	assert.Equal(t, "ann@example.com", saved.User.Email)
	require.NotNil(t, saved.User.Notifications)
	assert.False(t, *saved.User.Notifications)
}

func TestEscClosesForm(t *testing.T) {
	m := New(100, 30)
	m.SetUser(model.User{Name: "Ann", Email: "ann@example.com"})
	m.StartEdit()

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.False(t, m.Editing())
}
