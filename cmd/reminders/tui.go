package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nhle/reminders/internal/account"
	"github.com/nhle/reminders/internal/app"
	"github.com/nhle/reminders/internal/model"
	"github.com/nhle/reminders/internal/watch"
)

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive reminder UI (default)",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}
}

func runTUI(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	svc, err := openServices(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	accounts := account.New(svc.kv, svc.queue, svc.logger)
	if err := accounts.Load(ctx); err != nil {
		return err
	}

	w := watch.New(svc.reminders, svc.queue, svc.logger,
		watch.WithInterval(svc.cfg.Watcher.Interval()),
		watch.WithLookahead(svc.cfg.Watcher.Lookahead()),
		watch.WithRepeat(svc.cfg.Watcher.Repeat),
		watch.WithLocation(time.Local),
	)
	defer w.Stop()

	m := app.New(app.Deps{
		Reminders: svc.reminders,
		Queue:     svc.queue,
		Watcher:   w,
		Accounts:  accounts,
		Config:    svc.cfg,
		Logger:    svc.logger,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	model.WatchConfig(configPath,
		func(cfg *model.AppConfig) { p.Send(app.ConfigChangedMsg{Config: cfg}) },
		func(err error) { svc.logger.Warn("ignoring invalid config edit", zap.Error(err)) },
	)

	svc.logger.Info("tui started")
	_, err = p.Run()
	return err
}
