package mcpserver

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/reminders/internal/model"
	"github.com/nhle/reminders/internal/reminder"
	"github.com/nhle/reminders/tests/testutil"
)

var fixedNow = time.Date(2024, 1, 5, 8, 58, 0, 0, time.UTC)

func testServer(t *testing.T) (*Server, *reminder.Store) {
	t.Helper()

	kv := testutil.NewTestStore(t)
	rs := reminder.New(kv, nil)
	require.NoError(t, rs.Load(context.Background()))

	srv := New(rs,
		WithClock(func() time.Time { return fixedNow }),
		WithLocation(time.UTC),
	)
	return srv, rs
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	handlers := map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		"add_reminder":    srv.handleAdd,
		"list_reminders":  srv.handleList,
		"toggle_reminder": srv.handleToggle,
		"edit_reminder":   srv.handleEdit,
		"delete_reminder": srv.handleDelete,
		"due_reminders":   srv.handleDue,
	}
	h, ok := handlers[name]
	require.True(t, ok, "unknown tool %s", name)

	res, err := h(ctx, req)
	require.NoError(t, err)
	return res
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func addRent(t *testing.T, srv *Server) model.Reminder {
	t.Helper()
	res := callTool(t, srv, "add_reminder", map[string]any{
		"text": "Pay rent", "date": "2024-01-05", "time": "09:00",
		"priority": "high", "category": "finance",
	})
	require.False(t, res.IsError, resultText(res))

	var r model.Reminder
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &r))
	return r
}

func TestToolsRegistered(t *testing.T) {
	srv, _ := testServer(t)

	resp := srv.MCPServer().HandleMessage(context.Background(),
		json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	for _, name := range []string{"add_reminder", "list_reminders", "toggle_reminder", "edit_reminder", "delete_reminder", "due_reminders"} {
		assert.Contains(t, string(raw), `"`+name+`"`)
	}
}

func TestAddAndList(t *testing.T) {
	srv, rs := testServer(t)

	r := addRent(t, srv)
	assert.Equal(t, "Pay rent", r.Text)
	assert.Equal(t, model.PriorityHigh, r.Priority)
	assert.Equal(t, 1, rs.Len())

	res := callTool(t, srv, "list_reminders", map[string]any{"search": "RENT"})
	var got listResult
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &got))
	assert.Equal(t, 1, got.Pending)
	require.Len(t, got.Reminders, 1)
	assert.Equal(t, r.ID, got.Reminders[0].ID)

	res = callTool(t, srv, "list_reminders", map[string]any{"search": "xyz"})
	assert.Equal(t, "No reminders found.", resultText(res))
}

func TestAddValidation(t *testing.T) {
	srv, rs := testServer(t)

	for name, args := range map[string]map[string]any{
		"missing text": {},
		"blank text":   {"text": "  "},
		"bad date":     {"text": "x", "date": "tomorrow"},
		"bad time":     {"text": "x", "time": "9am"},
		"bad priority": {"text": "x", "priority": "urgent"},
	} {
		t.Run(name, func(t *testing.T) {
			res := callTool(t, srv, "add_reminder", args)
			assert.True(t, res.IsError)
		})
	}
	assert.Zero(t, rs.Len())
}

func TestToggleEditDelete(t *testing.T) {
	srv, rs := testServer(t)
	r := addRent(t, srv)
	id := float64(r.ID)

	res := callTool(t, srv, "toggle_reminder", map[string]any{"id": id})
	require.False(t, res.IsError)
	got, _ := rs.Get(r.ID)
	assert.True(t, got.Completed)

	res = callTool(t, srv, "list_reminders", map[string]any{"status": "completed", "search": "rent"})
	assert.Contains(t, resultText(res), "Pay rent")

	res = callTool(t, srv, "edit_reminder", map[string]any{"id": id, "text": "Pay rent early", "time": "08:30"})
	require.False(t, res.IsError, resultText(res))
	got, _ = rs.Get(r.ID)
	assert.Equal(t, "Pay rent early", got.Text)
	assert.Equal(t, "08:30", got.Time)
	assert.Equal(t, "2024-01-05", got.Date)
	assert.True(t, got.Completed)

	res = callTool(t, srv, "edit_reminder", map[string]any{"id": id})
	assert.True(t, res.IsError)

	res = callTool(t, srv, "delete_reminder", map[string]any{"id": id})
	assert.Equal(t, "Reminder "+strconv.FormatInt(r.ID, 10)+" deleted.", resultText(res))
	assert.Zero(t, rs.Len())

	// Operations on a deleted id are reported, not failed.
	for _, tool := range []string{"toggle_reminder", "delete_reminder"} {
		res = callTool(t, srv, tool, map[string]any{"id": id})
		assert.False(t, res.IsError)
		assert.Contains(t, resultText(res), "not found")
	}
}

func TestInvalidID(t *testing.T) {
	srv, _ := testServer(t)

	assert.True(t, callTool(t, srv, "toggle_reminder", map[string]any{}).IsError)
	assert.True(t, callTool(t, srv, "delete_reminder", map[string]any{"id": -3.0}).IsError)
}

func TestDueReminders(t *testing.T) {
	srv, _ := testServer(t)

	res := callTool(t, srv, "due_reminders", nil)
	assert.Equal(t, "No due reminders.", resultText(res))

	addRent(t, srv)
	res = callTool(t, srv, "due_reminders", nil)
	assert.Contains(t, resultText(res), "Pay rent")

	res = callTool(t, srv, "due_reminders", map[string]any{"within_minutes": 1.0})
	assert.Equal(t, "No due reminders.", resultText(res))
}

func TestSeesWritesFromOtherProcesses(t *testing.T) {
	kv := testutil.NewTestStore(t)
	mine := reminder.New(kv, nil)
	require.NoError(t, mine.Load(context.Background()))
	srv := New(mine)

	other := reminder.New(kv, nil)
	require.NoError(t, other.Load(context.Background()))
	_, err := other.Add(context.Background(), model.Draft{Text: "from the TUI"})
	require.NoError(t, err)

	res := callTool(t, srv, "list_reminders", nil)
	assert.Contains(t, resultText(res), "from the TUI")
}
