// Package main implements the reminders CLI: the terminal UI, one-shot
// reminder commands and the MCP server.
package main

import (
	"context"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nhle/reminders/internal/logging"
	"github.com/nhle/reminders/internal/model"
	"github.com/nhle/reminders/internal/notify"
	"github.com/nhle/reminders/internal/reminder"
	"github.com/nhle/reminders/internal/store"
	"github.com/nhle/reminders/internal/ui/about"
)

var (
	// configPath is the YAML configuration file.
	configPath string
	// dbPath overrides storage.path from the configuration.
	dbPath string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "reminders",
		Short: "Keep track of reminders from the terminal",
		Long: `reminders is a terminal reminder tracker.

Run without a subcommand to open the interactive UI.

Examples:
  # Open the UI
  reminders

  # Add a reminder due tomorrow morning
  reminders add "Pay rent" --date 2024-01-05 --time 09:00 --priority high --category finance

  # Show pending reminders
  reminders list --status pending`,
		Version:       about.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTUI,
	}

	root.PersistentFlags().StringVar(&configPath, "config", model.DefaultConfigPath(), "configuration file")
	root.PersistentFlags().StringVar(&dbPath, "db", "", "database file (overrides storage.path)")

	root.AddCommand(newTUICmd())
	root.AddCommand(newAddCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newDoneCmd())
	root.AddCommand(newRemoveCmd())
	root.AddCommand(newInfoCmd())
	root.AddCommand(newMCPCmd())
	return root
}

// services are the components shared by every subcommand.
type services struct {
	cfg       *model.AppConfig
	logger    *zap.Logger
	kv        *store.SQLiteStore
	queue     *notify.Queue
	reminders *reminder.Store
}

// openServices loads configuration (writing the defaults on first run), opens
// the log file and the database and restores the saved reminders.
func openServices(ctx context.Context) (*services, error) {
	created, err := model.EnsureConfig(configPath)
	if err != nil {
		return nil, err
	}
	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Storage.Path = dbPath
	}

	logger, err := logging.New(cfg.LogPath(), cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	kv, err := store.NewSQLiteStore(cfg.DatabasePath())
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("opening database: %w", err)
	}

	q := notify.New(notify.WithTTL(cfg.Notifications.TTL()))
	rs := reminder.New(kv, q, reminder.WithLogger(logger))
	if err := rs.Load(ctx); err != nil {
		q.Close()
		_ = kv.Close()
		_ = logger.Sync()
		return nil, fmt.Errorf("loading reminders: %w", err)
	}

	if created {
		logger.Info("wrote default configuration", zap.String("path", configPath))
	}
	logger.Debug("services ready",
		zap.String("db", cfg.DatabasePath()),
		zap.Int("reminders", rs.Len()))

	return &services{cfg: cfg, logger: logger, kv: kv, queue: q, reminders: rs}, nil
}

// Close releases the database and flushes the log.
func (s *services) Close() {
	s.queue.Close()
	if err := s.kv.Close(); err != nil {
		s.logger.Warn("closing database", zap.Error(err))
	}
	_ = s.logger.Sync()
}
