package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nhle/reminders/internal/model"
	"github.com/nhle/reminders/internal/ui/reminderlist"
	"github.com/nhle/reminders/internal/view"
)

func newAddCmd() *cobra.Command {
	var d model.Draft
	var priority string

	cmd := &cobra.Command{
		Use:   "add TEXT...",
		Short: "Add a reminder",
		Long: `Add a reminder. Words after the flags are joined into the reminder text.

Examples:
  reminders add Call the dentist --category health
  reminders add "Pay rent" --date 2024-01-05 --time 09:00 --priority high`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := model.ParsePriority(priority)
			if err != nil {
				return err
			}
			d.Priority = p
			d.Text = strings.Join(args, " ")
			if err := errors.Join(model.ValidateDate(d.Date), model.ValidateTime(d.Time)); err != nil {
				return err
			}

			svc, err := openServices(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			r, err := svc.reminders.Add(cmd.Context(), d)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added reminder %d: %s\n", r.ID, r.Text)
			return nil
		},
	}

	cmd.Flags().StringVar(&d.Date, "date", "", "due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&d.Time, "time", "", "due time (HH:MM)")
	cmd.Flags().StringVar(&priority, "priority", string(model.PriorityMedium), "low, medium or high")
	cmd.Flags().StringVar(&d.Category, "category", model.DefaultCategory, "category")
	return cmd
}

func newListCmd() *cobra.Command {
	var status, category, search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reminders, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := model.ParseStatusFilter(status)
			if err != nil {
				return err
			}

			svc, err := openServices(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			res := view.Compute(svc.reminders.Snapshot(), model.Filter{Status: s, Category: category, Search: search})
			out := cmd.OutOrStdout()
			if len(res.Visible) == 0 {
				fmt.Fprintln(out, "No reminders found.")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDONE\tPRIORITY\tCATEGORY\tDUE\tTEXT")
			for _, r := range res.Visible {
				done := " "
				if r.Completed {
					done = "x"
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
					r.ID, done, r.Priority, r.Category, reminderlist.FormatDue(r), r.Text)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%d pending, %d completed\n", res.Counts.Pending, res.Counts.Completed)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "all", "all, pending or completed")
	cmd.Flags().StringVar(&category, "category", model.AllCategories, "category to show")
	cmd.Flags().StringVar(&search, "search", "", "case-insensitive text search")
	return cmd
}

func newDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done ID",
		Short: "Toggle a reminder between pending and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			svc, err := openServices(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			r, found, err := svc.reminders.Toggle(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("reminder %d not found", id)
			}
			state := "pending"
			if r.Completed {
				state = "completed"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reminder %d marked %s\n", id, state)
			return nil
		},
	}
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a reminder",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			svc, err := openServices(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			found, err := svc.reminders.Remove(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("reminder %d not found", id)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reminder %d deleted\n", id)
			return nil
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid reminder id %q", s)
	}
	return id, nil
}
