// Package mcpserver exposes the reminder collection as MCP tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/nhle/reminders/internal/logging"
	"github.com/nhle/reminders/internal/model"
	"github.com/nhle/reminders/internal/reminder"
	"github.com/nhle/reminders/internal/view"
	"github.com/nhle/reminders/internal/watch"
)

const (
	serverName    = "reminders"
	serverVersion = "1.0.0"
)

// Server wraps the MCP server with reminder tools.
type Server struct {
	mcp       *server.MCPServer
	reminders *reminder.Store
	logger    *zap.Logger
	lookahead time.Duration
	now       func() time.Time
	loc       *time.Location
}

// Option configures a Server.
type Option func(*Server)

// WithLookahead sets the default window of the due_reminders tool.
func WithLookahead(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.lookahead = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithLocation sets the zone reminder dates and times are read in.
func WithLocation(loc *time.Location) Option {
	return func(s *Server) { s.loc = loc }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.logger = logging.OrNop(l) }
}

// New creates a Server with every tool registered.
func New(reminders *reminder.Store, opts ...Option) *Server {
	s := &Server{
		reminders: reminders,
		logger:    zap.NewNop(),
		lookahead: watch.DefaultLookahead,
		now:       time.Now,
		loc:       time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mcp = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
	)
	s.registerTools()
	return s
}

// ServeStdio serves MCP on stdin/stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("add_reminder",
			mcp.WithDescription("Add a reminder. It is placed at the top of the list."),
			mcp.WithString("text", mcp.Required(), mcp.Description("What to be reminded of")),
			mcp.WithString("date", mcp.Description("Due date as YYYY-MM-DD")),
			mcp.WithString("time", mcp.Description("Due time as HH:MM (24h)")),
			mcp.WithString("priority", mcp.Description("low, medium or high (default: medium)")),
			mcp.WithString("category", mcp.Description("Category tag (default: general)")),
		),
		s.handleAdd,
	)

	s.mcp.AddTool(
		mcp.NewTool("list_reminders",
			mcp.WithDescription("List reminders newest first, with global pending/completed counts"),
			mcp.WithString("status", mcp.Description("all, pending or completed (default: all)")),
			mcp.WithString("category", mcp.Description("Only this category (default: all)")),
			mcp.WithString("search", mcp.Description("Case-insensitive text to look for")),
		),
		s.handleList,
	)

	s.mcp.AddTool(
		mcp.NewTool("toggle_reminder",
			mcp.WithDescription("Flip a reminder between pending and completed"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Reminder ID")),
		),
		s.handleToggle,
	)

	s.mcp.AddTool(
		mcp.NewTool("edit_reminder",
			mcp.WithDescription("Change some fields of a reminder. Omitted fields keep their value."),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Reminder ID")),
			mcp.WithString("text", mcp.Description("New text")),
			mcp.WithString("date", mcp.Description("New due date as YYYY-MM-DD")),
			mcp.WithString("time", mcp.Description("New due time as HH:MM")),
			mcp.WithString("priority", mcp.Description("New priority: low, medium, high")),
			mcp.WithString("category", mcp.Description("New category")),
		),
		s.handleEdit,
	)

	s.mcp.AddTool(
		mcp.NewTool("delete_reminder",
			mcp.WithDescription("Delete a reminder permanently"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Reminder ID")),
		),
		s.handleDelete,
	)

	s.mcp.AddTool(
		mcp.NewTool("due_reminders",
			mcp.WithDescription("Pending reminders that are overdue or due within the lookahead window, soonest first"),
			mcp.WithNumber("within_minutes", mcp.Description("Lookahead in minutes (default: 5)")),
		),
		s.handleDue,
	)
}

// refresh picks up writes made by other processes sharing the database.
func (s *Server) refresh(ctx context.Context) error {
	if err := s.reminders.Load(ctx); err != nil {
		s.logger.Error("reloading reminders", zap.Error(err))
		return err
	}
	return nil
}

func (s *Server) handleAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	draft := model.Draft{
		Text:     text,
		Date:     req.GetString("date", ""),
		Time:     req.GetString("time", ""),
		Category: req.GetString("category", ""),
	}
	if err := errors.Join(model.ValidateDate(draft.Date), model.ValidateTime(draft.Time)); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if p := req.GetString("priority", ""); p != "" {
		if draft.Priority, err = model.ParsePriority(p); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	if err := s.refresh(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load reminders: %v", err)), nil
	}
	added, err := s.reminders.Add(ctx, draft)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add reminder: %v", err)), nil
	}
	return jsonResult(added)
}

type listResult struct {
	Pending   int              `json:"pending"`
	Completed int              `json:"completed"`
	Reminders []model.Reminder `json:"reminders"`
}

func (s *Server) handleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := model.ParseStatusFilter(req.GetString("status", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	f := model.Filter{
		Status:   status,
		Category: req.GetString("category", model.AllCategories),
		Search:   req.GetString("search", ""),
	}

	if err := s.refresh(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load reminders: %v", err)), nil
	}
	res := view.Compute(s.reminders.Snapshot(), f)
	if len(res.Visible) == 0 {
		return mcp.NewToolResultText("No reminders found."), nil
	}
	return jsonResult(listResult{
		Pending:   res.Counts.Pending,
		Completed: res.Counts.Completed,
		Reminders: res.Visible,
	})
}

func (s *Server) handleToggle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.refresh(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load reminders: %v", err)), nil
	}
	r, found, err := s.reminders.Toggle(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to toggle reminder: %v", err)), nil
	}
	if !found {
		return mcp.NewToolResultText(fmt.Sprintf("Reminder %d not found.", id)), nil
	}
	return jsonResult(r)
}

func (s *Server) handleEdit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var p model.Patch
	args := req.GetArguments()
	if _, ok := args["text"]; ok {
		v := req.GetString("text", "")
		p.Text = &v
	}
	if _, ok := args["date"]; ok {
		v := strings.TrimSpace(req.GetString("date", ""))
		if err := model.ValidateDate(v); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		p.Date = &v
	}
	if _, ok := args["time"]; ok {
		v := strings.TrimSpace(req.GetString("time", ""))
		if err := model.ValidateTime(v); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		p.Time = &v
	}
	if v := req.GetString("priority", ""); v != "" {
		pr, err := model.ParsePriority(v)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		p.Priority = &pr
	}
	if v := strings.TrimSpace(req.GetString("category", "")); v != "" {
		p.Category = &v
	}
	if p.IsEmpty() {
		return mcp.NewToolResultError("nothing to change"), nil
	}

	if err := s.refresh(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load reminders: %v", err)), nil
	}
	r, found, err := s.reminders.Edit(ctx, id, p)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to edit reminder: %v", err)), nil
	}
	if !found {
		return mcp.NewToolResultText(fmt.Sprintf("Reminder %d not found.", id)), nil
	}
	return jsonResult(r)
}

func (s *Server) handleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.refresh(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load reminders: %v", err)), nil
	}
	found, err := s.reminders.Remove(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete reminder: %v", err)), nil
	}
	if !found {
		return mcp.NewToolResultText(fmt.Sprintf("Reminder %d not found.", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Reminder %d deleted.", id)), nil
}

func (s *Server) handleDue(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	window := s.lookahead
	if m := req.GetFloat("within_minutes", 0); m > 0 {
		window = time.Duration(m * float64(time.Minute))
	}

	if err := s.refresh(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load reminders: %v", err)), nil
	}
	due := view.Due(s.reminders.Snapshot(), s.now(), window, s.loc)
	if len(due) == 0 {
		return mcp.NewToolResultText("No due reminders."), nil
	}
	return jsonResult(due)
}

func requireID(req mcp.CallToolRequest) (int64, error) {
	id, err := req.RequireFloat("id")
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, errors.New("id must be a positive number")
	}
	return int64(id), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}
