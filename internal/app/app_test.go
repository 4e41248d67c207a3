package app

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/reminders/internal/account"
	"github.com/nhle/reminders/internal/model"
	"github.com/nhle/reminders/internal/notify"
	"github.com/nhle/reminders/internal/reminder"
	"github.com/nhle/reminders/internal/ui/auth"
	"github.com/nhle/reminders/internal/ui/command"
	"github.com/nhle/reminders/internal/ui/reminderform"
	"github.com/nhle/reminders/internal/watch"
	"github.com/nhle/reminders/tests/testutil"
)

type fixture struct {
	reminders *reminder.Store
	queue     *notify.Queue
	watcher   *watch.Watcher
	accounts  *account.Manager
}

func newFixture(t *testing.T, signedIn bool) (Model, fixture) {
	t.Helper()
	kv := testutil.NewTestStore(t)
	q := notify.New(notify.WithTTL(time.Hour))
	t.Cleanup(q.Close)

	rs := reminder.New(kv, q)
	accts := account.New(kv, q, nil)
	if signedIn {
		_, err := accts.Demo(context.Background())
		require.NoError(t, err)
	}
	w := watch.New(rs, q, nil, watch.WithInterval(time.Hour))
	t.Cleanup(w.Stop)

	cfg, err := model.LoadConfig(t.TempDir() + "/missing.yaml")
	require.NoError(t, err)

	m := New(Deps{Reminders: rs, Queue: q, Watcher: w, Accounts: accts, Config: cfg})
	return m, fixture{reminders: rs, queue: q, watcher: w, accounts: accts}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSignedOutStartsOnList(t *testing.T) {
	m, _ := newFixture(t, false)
	assert.Equal(t, ViewList, m.currentView)
	assert.Nil(t, m.user)
	assert.Equal(t, "Loading...", m.View())

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Contains(t, m.View(), "signed out")
	assert.Contains(t, m.keyHints(), "p sign in")
}

func TestSignedOutCanAddReminder(t *testing.T) {
	m, f := newFixture(t, false)

	m, _ = update(t, m, keyMsg("n"))
	require.Equal(t, ViewForm, m.currentView)

	m, cmd := update(t, m, reminderform.CreatedMsg{Draft: model.Draft{Text: "Water plants"}})
	assert.Equal(t, ViewList, m.currentView)
	require.NotNil(t, cmd)
	res, ok := cmd().(opResultMsg)
	require.True(t, ok)
	require.NoError(t, res.err)

	items := f.reminders.Snapshot()
	require.Len(t, items, 1)
	assert.Equal(t, "Water plants", items[0].Text)
}

func TestAccountKeyOpensAuthAndEscReturns(t *testing.T) {
	m, _ := newFixture(t, false)

	m, _ = update(t, m, keyMsg("p"))
	require.Equal(t, ViewAuth, m.currentView)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	back := cmd()
	assert.Equal(t, auth.BackMsg{}, back)

	m, _ = update(t, m, back)
	assert.Equal(t, ViewList, m.currentView)

	_, cmd = update(t, m, keyMsg("q"))
	assert.NotNil(t, cmd)
}

func TestSignInCommandOpensAuth(t *testing.T) {
	m, _ := newFixture(t, false)

	m, _ = update(t, m, keyMsg(":"))
	m, _ = update(t, m, command.CommandMsg{Name: "signup"})
	assert.Equal(t, ViewAuth, m.currentView)
	assert.Equal(t, auth.ModeSignUp, m.authView.Mode())
}

func TestSessionRouting(t *testing.T) {
	m, _ := newFixture(t, false)

	m, _ = update(t, m, keyMsg("p"))
	require.Equal(t, ViewAuth, m.currentView)

	u := model.User{Name: "Ann", Email: "ann@example.com"}
	m, _ = update(t, m, sessionMsg{op: "sign in", user: &u})
	assert.Equal(t, ViewList, m.currentView)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Contains(t, m.View(), "Ann")

	m, _ = update(t, m, keyMsg("p"))
	assert.Equal(t, ViewProfile, m.currentView)

	m, _ = update(t, m, sessionMsg{op: "sign out"})
	assert.Equal(t, ViewList, m.currentView)
	assert.Nil(t, m.user)
}

func TestCreateFlowReachesList(t *testing.T) {
	m, f := newFixture(t, true)
	require.Equal(t, ViewList, m.currentView)

	m, cmd := update(t, m, keyMsg("n"))
	assert.Equal(t, ViewForm, m.currentView)
	assert.NotNil(t, cmd)

	m, cmd = update(t, m, reminderform.CreatedMsg{Draft: model.Draft{Text: "Pay rent"}})
	assert.Equal(t, ViewList, m.currentView)
	require.NotNil(t, cmd)

	res, ok := cmd().(opResultMsg)
	require.True(t, ok)
	require.NoError(t, res.err)
	assert.Equal(t, 1, f.reminders.Len())

	snap := waitForSnapshot(m.snapshots)()
	m, _ = update(t, m, snap)
	require.Len(t, m.list.Visible(), 1)
	assert.Equal(t, "Pay rent", m.list.Visible()[0].Text)
	assert.Equal(t, 1, m.list.Counts().Pending)
}

func TestToastsFollowQueue(t *testing.T) {
	m, f := newFixture(t, true)

	f.queue.Push("hello", model.KindInfo)
	msg := waitForToasts(f.queue)()
	m, _ = update(t, m, msg)
	require.Len(t, m.toasts, 2)
	assert.Equal(t, "hello", m.toasts[1].Message)

	m, _ = update(t, m, keyMsg("z"))
	assert.Equal(t, 1, f.queue.Len())

	update(t, m, keyMsg("Z"))
	assert.Zero(t, f.queue.Len())
}

func TestCommandPaletteFilters(t *testing.T) {
	m, _ := newFixture(t, true)

	m, _ = update(t, m, keyMsg(":"))
	assert.Equal(t, ViewCommand, m.currentView)

	m, _ = update(t, m, command.CommandMsg{Name: "status", Args: []string{"pending"}})
	assert.Equal(t, ViewList, m.currentView)
	assert.Equal(t, model.StatusPending, m.list.Filter().Status)

	m, _ = update(t, m, command.CommandMsg{Name: "clear"})
	assert.True(t, m.list.Filter().IsDefault())
}

func TestCommandAdd(t *testing.T) {
	m, f := newFixture(t, true)

	_, cmd := update(t, m, command.CommandMsg{Name: "add", Args: []string{"Buy", "milk", "#shopping"}})
	require.NotNil(t, cmd)
	cmd()

	items := f.reminders.Snapshot()
	require.Len(t, items, 1)
	assert.Equal(t, "Buy milk", items[0].Text)
	assert.Equal(t, "shopping", items[0].Category)
}

func TestConfigChangeApplies(t *testing.T) {
	m, _ := newFixture(t, true)

	cfg := *m.cfg
	cfg.Display.Theme = "dark"
	m, _ = update(t, m, ConfigChangedMsg{Config: &cfg})
	assert.Equal(t, "dark", m.cfg.Display.Theme)
}

func TestNotificationPreferenceControlsWatcher(t *testing.T) {
	m, f := newFixture(t, true)
	m.Init()
	assert.True(t, f.watcher.Running())

	off := false
	u := model.User{Name: "Demo User", Email: "demo@example.com", Notifications: &off}
	m, _ = update(t, m, sessionMsg{op: "update", user: &u})
	assert.False(t, f.watcher.Running())

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.NotNil(t, cmd)
}
