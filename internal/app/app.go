package app

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nhle/reminders/internal/account"
	"github.com/nhle/reminders/internal/keys"
	"github.com/nhle/reminders/internal/logging"
	"github.com/nhle/reminders/internal/model"
	"github.com/nhle/reminders/internal/notify"
	"github.com/nhle/reminders/internal/reminder"
	"github.com/nhle/reminders/internal/theme"
	"github.com/nhle/reminders/internal/ui"
	"github.com/nhle/reminders/internal/ui/about"
	"github.com/nhle/reminders/internal/ui/auth"
	"github.com/nhle/reminders/internal/ui/command"
	helpview "github.com/nhle/reminders/internal/ui/help"
	"github.com/nhle/reminders/internal/ui/profile"
	"github.com/nhle/reminders/internal/ui/reminderform"
	"github.com/nhle/reminders/internal/ui/reminderlist"
	"github.com/nhle/reminders/internal/watch"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewAuth
	ViewForm
	ViewProfile
	ViewAbout
	ViewHelp
	ViewCommand
)

// ConfigChangedMsg carries a reloaded configuration into the program.
type ConfigChangedMsg struct {
	Config *model.AppConfig
}

// Deps are the long-lived services the UI drives.
type Deps struct {
	Reminders *reminder.Store
	Queue     *notify.Queue
	Watcher   *watch.Watcher
	Accounts  *account.Manager
	Config    *model.AppConfig
	Logger    *zap.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Model is the root Bubble Tea model that manages view routing, layout and
// the reminder, notification and account services.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap

	reminders *reminder.Store
	queue     *notify.Queue
	watcher   *watch.Watcher
	accounts  *account.Manager
	cfg       *model.AppConfig
	logger    *zap.Logger

	snapshots   <-chan []model.Reminder
	unsubscribe func()
	toasts      []model.Notification
	user        *model.User

	list        reminderlist.Model
	form        reminderform.Model
	authView    auth.Model
	profileView profile.Model
	aboutView   about.Model
	helpView    helpview.Model
	commandView command.Model
	ready       bool
}

// New creates the root model. The reminder store and account manager should
// already be loaded.
func New(d Deps) Model {
	k := keys.DefaultKeyMap()
	now := d.Now
	if now == nil {
		now = time.Now
	}
	snaps, unsub := d.Reminders.Subscribe()

	m := Model{
		currentView: ViewList,
		layout:      ui.NewLayout(80, 24),
		keys:        k,
		reminders:   d.Reminders,
		queue:       d.Queue,
		watcher:     d.Watcher,
		accounts:    d.Accounts,
		cfg:         d.Config,
		logger:      logging.OrNop(d.Logger),
		snapshots:   snaps,
		unsubscribe: unsub,
		list:        reminderlist.New(k, 80, 22, now),
		form:        reminderform.New(80, 22),
		authView:    auth.New(80, 22),
		profileView: profile.New(80, 22),
		aboutView:   about.New(80, 22),
		helpView:    helpview.New(k, 80, 22),
		commandView: command.New(80, 22),
	}
	if m.cfg == nil {
		m.cfg = &model.AppConfig{}
	}

	m.list.SetReminders(d.Reminders.Snapshot())
	m.aboutView.SetCounts(m.list.Counts())
	if u, ok := d.Accounts.Current(); ok {
		m.user = &u
	}
	m.toasts = d.Queue.Entries()
	return m
}

// Init starts the watcher and begins listening for store and queue changes.
func (m Model) Init() tea.Cmd {
	m.syncWatcher()
	return tea.Batch(
		waitForSnapshot(m.snapshots),
		waitForToasts(m.queue),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.list.SetSize(w, h)
		m.form.SetSize(w, h)
		m.authView.SetSize(w, h)
		m.profileView.SetSize(w, h)
		m.aboutView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		return m.updateActiveView(msg)

	case snapshotMsg:
		cmd := m.list.SetReminders(msg)
		m.aboutView.SetCounts(m.list.Counts())
		return m, tea.Batch(cmd, waitForSnapshot(m.snapshots))

	case toastsMsg:
		m.toasts = m.queue.Entries()
		return m, waitForToasts(m.queue)

	case opResultMsg:
		if msg.err != nil {
			m.logger.Warn("reminder operation failed", zap.String("op", msg.op), zap.Error(msg.err))
		}
		return m, nil

	case ConfigChangedMsg:
		m.applyConfig(msg.Config)
		return m, nil

	case reminderlist.ToggleMsg:
		return m, m.toggleReminder(msg.ID)

	case reminderlist.DeleteMsg:
		return m, m.removeReminder(msg.ID)

	case reminderlist.EditMsg:
		m.previousView = ViewList
		m.currentView = ViewForm
		cmd := m.form.StartEdit(msg.Reminder)
		return m, cmd

	case reminderform.CreatedMsg:
		m.currentView = ViewList
		return m, m.addReminder(msg.Draft)

	case reminderform.UpdatedMsg:
		m.currentView = ViewList
		return m, m.editReminder(msg.ID, msg.Patch)

	case reminderform.CancelMsg:
		m.currentView = ViewList
		return m, nil

	case auth.SignInMsg:
		return m, m.signIn(msg)

	case auth.SignUpMsg:
		return m, m.signUp(msg)

	case auth.DemoMsg:
		return m, m.demo()

	case sessionMsg:
		return m.handleSession(msg)

	case profile.SaveMsg:
		return m, m.saveProfile(msg.User)

	case profile.SignOutMsg:
		return m, m.signOut()

	case profile.BackMsg, about.BackMsg, auth.BackMsg:
		m.currentView = ViewList
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		cmd := m.executeCommand(msg)
		return m, cmd

	case command.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case tea.KeyMsg:
		if next, cmd, handled := m.handleGlobalKeys(msg); handled {
			return next, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKeys processes keys that work outside text inputs.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		return m, m.quit(), true
	}

	// Forms, the palette and the search box own every other key.
	if m.typing() {
		return m, nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Quit) && m.currentView == ViewList:
		return m, m.quit(), true

	case key.Matches(msg, m.keys.Help):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil, true

	case key.Matches(msg, m.keys.Back) && m.currentView == ViewHelp:
		m.currentView = m.previousView
		return m, nil, true

	case key.Matches(msg, m.keys.Command):
		m.previousView = m.currentView
		m.currentView = ViewCommand
		cmd := m.commandView.Focus()
		return m, cmd, true

	case key.Matches(msg, m.keys.Dismiss):
		if len(m.toasts) > 0 {
			m.queue.Dismiss(m.toasts[len(m.toasts)-1].ID)
		}
		return m, nil, true

	case key.Matches(msg, m.keys.DismissAll):
		m.queue.DismissAll()
		return m, nil, true
	}

	if m.currentView != ViewList {
		return m, nil, false
	}

	switch {
	case key.Matches(msg, m.keys.New):
		m.previousView = ViewList
		m.currentView = ViewForm
		cmd := m.form.StartCreate()
		return m, cmd, true

	case key.Matches(msg, m.keys.Account):
		cmd := m.openAccount()
		return m, cmd, true

	case key.Matches(msg, m.keys.About):
		m.previousView = ViewList
		m.currentView = ViewAbout
		return m, nil, true
	}
	return m, nil, false
}

// typing reports whether keystrokes belong to a text field.
func (m Model) typing() bool {
	switch m.currentView {
	case ViewAuth, ViewForm, ViewCommand:
		return true
	case ViewProfile:
		return m.profileView.Editing()
	case ViewList:
		return m.list.Searching()
	}
	return false
}

// openAccount shows the profile, or the sign-in screen when nobody is
// signed in.
func (m *Model) openAccount() tea.Cmd {
	if m.user == nil {
		return m.openAuth(auth.ModeSignIn)
	}
	m.profileView.SetUser(*m.user)
	m.previousView = ViewList
	m.currentView = ViewProfile
	return nil
}

func (m *Model) openAuth(mode auth.Mode) tea.Cmd {
	m.previousView = ViewList
	m.currentView = ViewAuth
	return m.authView.SetMode(mode)
}

// quit stops background work before leaving the program.
func (m Model) quit() tea.Cmd {
	m.watcher.Stop()
	m.queue.Close()
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	return tea.Quit
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewAuth:
		m.authView, cmd = m.authView.Update(msg)
	case ViewList:
		m.list, cmd = m.list.Update(msg)
	case ViewForm:
		m.form, cmd = m.form.Update(msg)
	case ViewProfile:
		m.profileView, cmd = m.profileView.Update(msg)
	case ViewAbout:
		m.aboutView, cmd = m.aboutView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader(theme.HeaderFor(m.themeName()), "🔔 Reminders", m.headerStatus())
	content := ui.OverlayBottom(m.renderContent(), m.layout.RenderToasts(m.toasts), m.layout.ContentHeight())
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewAuth:
		return m.authView.View()
	case ViewList:
		return m.list.View()
	case ViewForm:
		return m.form.View()
	case ViewProfile:
		return m.profileView.View()
	case ViewAbout:
		return m.aboutView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	default:
		return ""
	}
}

// headerStatus shows the pending count and who is signed in.
func (m Model) headerStatus() string {
	if m.user == nil {
		return "signed out"
	}
	c := m.list.Counts()
	return fmt.Sprintf("%d pending  •  %s %s", c.Pending, m.user.Initials(), m.user.Name)
}

// themeName prefers the profile theme over the configured default.
func (m Model) themeName() string {
	if m.user != nil && m.user.Theme != "" {
		return m.user.Theme
	}
	return m.cfg.Display.Theme
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewAuth:
		return "enter next | ctrl+n switch | ctrl+d demo | esc back"
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | esc close"
	case ViewForm:
		return "enter next | esc cancel"
	case ViewProfile:
		if m.profileView.Editing() {
			return "enter next | esc cancel"
		}
		return "e edit | o sign out | esc back"
	case ViewAbout:
		return "j/k scroll | esc back"
	default:
		if m.list.Searching() {
			return "enter keep search | esc clear"
		}
		if !m.list.Filter().IsDefault() {
			return "0 clear filters | tab status | c category | / search"
		}
		if m.user == nil {
			return "q quit | ? help | n new | x done | e edit | d delete | / search | p sign in"
		}
		return "q quit | ? help | n new | x done | e edit | d delete | / search | p profile"
	}
}

// applyConfig pushes reloaded settings into the running services.
func (m *Model) applyConfig(cfg *model.AppConfig) {
	if cfg == nil {
		return
	}
	m.cfg = cfg
	m.watcher.SetInterval(cfg.Watcher.Interval())
	m.watcher.SetLookahead(cfg.Watcher.Lookahead())
	m.watcher.SetRepeat(cfg.Watcher.Repeat)
	m.queue.SetTTL(cfg.Notifications.TTL())
	m.logger.Info("configuration reloaded",
		zap.Duration("interval", cfg.Watcher.Interval()),
		zap.Duration("lookahead", cfg.Watcher.Lookahead()),
		zap.Bool("repeat", cfg.Watcher.Repeat))
}

// setUser records the signed-in user and starts or stops due alerts to match
// the profile's notification preference.
func (m *Model) setUser(u *model.User) {
	m.user = u
	m.syncWatcher()
}

func (m Model) syncWatcher() {
	if m.user != nil && !m.user.NotificationsEnabled() {
		m.watcher.Stop()
		return
	}
	m.watcher.Start()
}
