package app

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/reminders/internal/model"
	"github.com/nhle/reminders/internal/ui/auth"
	"github.com/nhle/reminders/internal/ui/command"
)

// executeCommand handles a command from the command palette.
func (m *Model) executeCommand(c command.CommandMsg) tea.Cmd {
	arg := strings.Join(c.Args, " ")

	switch c.Name {
	case "add", "new":
		d, err := command.ParseDraft(c.Args)
		if err != nil {
			m.queue.Push(err.Error(), model.KindError)
			return nil
		}
		m.currentView = ViewList
		return m.addReminder(d)

	case "status", "filter":
		s, err := model.ParseStatusFilter(strings.ToLower(arg))
		if err != nil {
			m.queue.Push(err.Error(), model.KindError)
			return nil
		}
		f := m.list.Filter()
		f.Status = s
		m.currentView = ViewList
		return m.list.SetFilter(f)

	case "category":
		f := m.list.Filter()
		f.Category = strings.ToLower(arg)
		m.currentView = ViewList
		return m.list.SetFilter(f)

	case "search":
		f := m.list.Filter()
		f.Search = arg
		m.currentView = ViewList
		return m.list.SetFilter(f)

	case "clear":
		m.currentView = ViewList
		return m.list.SetFilter(model.DefaultFilter())

	case "dismiss":
		m.queue.DismissAll()
		return nil

	case "profile", "account":
		if m.currentView == ViewList {
			return m.openAccount()
		}
		return nil

	case "signin", "login":
		if m.user != nil {
			return nil
		}
		return m.openAuth(auth.ModeSignIn)

	case "signup", "register":
		if m.user != nil {
			return nil
		}
		return m.openAuth(auth.ModeSignUp)

	case "about":
		m.previousView = ViewList
		m.currentView = ViewAbout
		return nil

	case "help":
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return nil

	case "signout", "logout":
		if m.user == nil {
			return nil
		}
		return m.signOut()

	case "quit", "q":
		return m.quit()

	default:
		m.queue.Push("Unknown command: "+c.Name, model.KindWarning)
		return nil
	}
}
