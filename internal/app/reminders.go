package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/reminders/internal/model"
	"github.com/nhle/reminders/internal/notify"
)

// snapshotMsg carries the latest reminder collection from the store.
type snapshotMsg []model.Reminder

// toastsMsg signals that the notification queue changed.
type toastsMsg struct{}

// opResultMsg reports the outcome of a reminder mutation. The store has
// already surfaced failures as notifications; the app only logs them.
type opResultMsg struct {
	op  string
	err error
}

// waitForSnapshot blocks until the store publishes a new collection.
func waitForSnapshot(ch <-chan []model.Reminder) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return nil
		}
		return snapshotMsg(snap)
	}
}

// waitForToasts blocks until the notification queue changes.
func waitForToasts(q *notify.Queue) tea.Cmd {
	return func() tea.Msg {
		<-q.Changes()
		return toastsMsg{}
	}
}

func (m *Model) addReminder(d model.Draft) tea.Cmd {
	rs := m.reminders
	return func() tea.Msg {
		_, err := rs.Add(context.Background(), d)
		return opResultMsg{op: "add", err: err}
	}
}

func (m *Model) toggleReminder(id int64) tea.Cmd {
	rs := m.reminders
	return func() tea.Msg {
		_, _, err := rs.Toggle(context.Background(), id)
		return opResultMsg{op: "toggle", err: err}
	}
}

func (m *Model) editReminder(id int64, p model.Patch) tea.Cmd {
	rs := m.reminders
	return func() tea.Msg {
		_, _, err := rs.Edit(context.Background(), id, p)
		return opResultMsg{op: "edit", err: err}
	}
}

func (m *Model) removeReminder(id int64) tea.Cmd {
	rs := m.reminders
	return func() tea.Msg {
		_, err := rs.Remove(context.Background(), id)
		return opResultMsg{op: "remove", err: err}
	}
}
