package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nhle/reminders/internal/model"
	"github.com/nhle/reminders/internal/ui/auth"
)

// sessionMsg reports the result of an account operation. A nil user with no
// error means the user signed out.
type sessionMsg struct {
	op   string
	user *model.User
	err  error
}

func (m *Model) signIn(msg auth.SignInMsg) tea.Cmd {
	a := m.accounts
	return func() tea.Msg {
		u, err := a.SignIn(context.Background(), msg.Email, msg.Password)
		return sessionMsg{op: "sign in", user: &u, err: err}
	}
}

func (m *Model) signUp(msg auth.SignUpMsg) tea.Cmd {
	a := m.accounts
	return func() tea.Msg {
		u, err := a.SignUp(context.Background(), msg.Name, msg.Email, msg.Password, msg.Confirm)
		return sessionMsg{op: "sign up", user: &u, err: err}
	}
}

func (m *Model) demo() tea.Cmd {
	a := m.accounts
	return func() tea.Msg {
		u, err := a.Demo(context.Background())
		return sessionMsg{op: "demo", user: &u, err: err}
	}
}

func (m *Model) saveProfile(profile model.User) tea.Cmd {
	a := m.accounts
	return func() tea.Msg {
		u, err := a.Update(context.Background(), profile)
		return sessionMsg{op: "update", user: &u, err: err}
	}
}

func (m *Model) signOut() tea.Cmd {
	a := m.accounts
	return func() tea.Msg {
		return sessionMsg{op: "sign out", err: a.SignOut(context.Background())}
	}
}

// handleSession applies the result of an account operation. Every outcome
// except a rejected form ends on the reminder list.
func (m Model) handleSession(msg sessionMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Info("account operation rejected", zap.String("op", msg.op), zap.Error(msg.err))
		switch m.currentView {
		case ViewAuth:
			cmd := m.authView.SetError(msg.err)
			return m, cmd
		case ViewProfile:
			m.queue.Push(msg.err.Error(), model.KindError)
		}
		return m, nil
	}

	if msg.user == nil {
		m.setUser(nil)
		m.currentView = ViewList
		cmd := m.authView.Reset()
		return m, cmd
	}

	m.setUser(msg.user)
	if msg.op == "update" {
		m.profileView.SetUser(*msg.user)
		return m, nil
	}
	m.currentView = ViewList
	return m, nil
}
