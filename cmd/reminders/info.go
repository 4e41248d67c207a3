package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nhle/reminders/internal/store"
	"github.com/nhle/reminders/internal/view"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show where reminders are stored and when they last changed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := openServices(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			version, err := svc.kv.SchemaVersion(cmd.Context())
			if err != nil {
				return err
			}
			lastSaved := "never"
			switch t, err := svc.kv.UpdatedAt(cmd.Context(), store.KeyReminders); {
			case errors.Is(err, store.ErrNotFound):
			case err != nil:
				return err
			default:
				lastSaved = t.Local().Format("Jan 2, 2006 at 15:04")
			}
			c := view.Count(svc.reminders.Snapshot())

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "Config:\t%s\n", configPath)
			fmt.Fprintf(tw, "Database:\t%s\n", svc.cfg.DatabasePath())
			fmt.Fprintf(tw, "Log:\t%s\n", svc.cfg.LogPath())
			fmt.Fprintf(tw, "Schema version:\t%d\n", version)
			fmt.Fprintf(tw, "Last saved:\t%s\n", lastSaved)
			fmt.Fprintf(tw, "Reminders:\t%d (%d pending, %d completed)\n", c.Total(), c.Pending, c.Completed)
			return tw.Flush()
		},
	}
}
