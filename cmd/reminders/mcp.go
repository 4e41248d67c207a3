package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/reminders/internal/mcpserver"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve reminder tools over MCP on stdio",
		Long: `Run a Model Context Protocol server on stdin/stdout.

The server exposes add_reminder, list_reminders, toggle_reminder,
edit_reminder, delete_reminder and due_reminders against the same database
the UI uses.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := openServices(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			srv := mcpserver.New(svc.reminders,
				mcpserver.WithLogger(svc.logger),
				mcpserver.WithLookahead(svc.cfg.Watcher.Lookahead()),
				mcpserver.WithLocation(time.Local),
			)
			svc.logger.Info("mcp server started")
			return srv.ServeStdio()
		},
	}
}
