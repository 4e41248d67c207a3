package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"
)

// envPrefix scopes environment overrides, e.g. REMINDERS_WATCHER_REPEAT.
const envPrefix = "REMINDERS"

// StorageConfig locates the local database.
type StorageConfig struct {
	// Path is the SQLite database file. Empty means DefaultDataPath().
	Path string `mapstructure:"path" yaml:"path"`
}

// WatcherConfig tunes the due-reminder watcher.
type WatcherConfig struct {
	// IntervalSec is how often (in seconds) reminders are checked.
	IntervalSec int `mapstructure:"interval_sec" yaml:"interval_sec"`

	// LookaheadSec is how far ahead (in seconds) a reminder counts as due soon.
	LookaheadSec int `mapstructure:"lookahead_sec" yaml:"lookahead_sec"`

	// Repeat re-notifies on every tick while a reminder stays in the window.
	Repeat bool `mapstructure:"repeat" yaml:"repeat"`
}

// Interval returns IntervalSec as a duration.
func (c WatcherConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSec) * time.Second
}

// Lookahead returns LookaheadSec as a duration.
func (c WatcherConfig) Lookahead() time.Duration {
	return time.Duration(c.LookaheadSec) * time.Second
}

// NotificationConfig tunes the toast queue.
type NotificationConfig struct {
	TTLMillis int `mapstructure:"ttl_ms" yaml:"ttl_ms"`
}

// TTL returns TTLMillis as a duration.
func (c NotificationConfig) TTL() time.Duration {
	return time.Duration(c.TTLMillis) * time.Millisecond
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// LogConfig controls the file logger. The terminal belongs to the UI, so
// logs never go to stdout.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Storage       StorageConfig      `mapstructure:"storage" yaml:"storage"`
	Watcher       WatcherConfig      `mapstructure:"watcher" yaml:"watcher"`
	Notifications NotificationConfig `mapstructure:"notifications" yaml:"notifications"`
	Display       DisplayConfig      `mapstructure:"display" yaml:"display"`
	Log           LogConfig          `mapstructure:"log" yaml:"log"`
}

// Validate checks value ranges after defaults and overrides are applied.
func (c *AppConfig) Validate() error {
	if err := validation.ValidateStruct(&c.Watcher,
		validation.Field(&c.Watcher.IntervalSec, validation.Required, validation.Min(1)),
		validation.Field(&c.Watcher.LookaheadSec, validation.Required, validation.Min(1)),
	); err != nil {
		return fmt.Errorf("watcher: %w", err)
	}
	if err := validation.ValidateStruct(&c.Notifications,
		validation.Field(&c.Notifications.TTLMillis, validation.Required, validation.Min(100)),
	); err != nil {
		return fmt.Errorf("notifications: %w", err)
	}
	if err := validation.ValidateStruct(&c.Log,
		validation.Field(&c.Log.Level, validation.In("debug", "info", "warn", "error")),
	); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

// DatabasePath returns the configured database path or the default one.
func (c *AppConfig) DatabasePath() string {
	if c.Storage.Path != "" {
		return expandHome(c.Storage.Path)
	}
	return filepath.Join(DefaultDataDir(), "reminders.db")
}

// LogPath returns the configured log file or the default one.
func (c *AppConfig) LogPath() string {
	if c.Log.File != "" {
		return expandHome(c.Log.File)
	}
	return filepath.Join(DefaultDataDir(), "reminders.log")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/reminders/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "reminders", "config.yaml")
}

// DefaultDataDir returns ~/.local/share/reminders.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "reminders")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Watcher: WatcherConfig{
			IntervalSec:  60,
			LookaheadSec: 300,
		},
		Notifications: NotificationConfig{
			TTLMillis: 5000,
		},
		Display: DisplayConfig{
			Theme: "beige",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults so missing keys resolve to sensible values.
	d := defaultAppConfig()
	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("watcher.interval_sec", d.Watcher.IntervalSec)
	v.SetDefault("watcher.lookahead_sec", d.Watcher.LookaheadSec)
	v.SetDefault("watcher.repeat", d.Watcher.Repeat)
	v.SetDefault("notifications.ttl_ms", d.Notifications.TTLMillis)
	v.SetDefault("display.theme", d.Display.Theme)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	return v
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, defaults plus environment overrides are used.
func LoadConfig(path string) (*AppConfig, error) {
	v := newViper(path)
	if err := readConfig(v, path); err != nil {
		return nil, err
	}
	return decodeConfig(v, path)
}

func readConfig(v *viper.Viper, path string) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	return nil
}

func decodeConfig(v *viper.Viper, path string) (*AppConfig, error) {
	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config %s: %w", path, err)
	}
	return cfg, nil
}

// WatchConfig re-reads the file at path whenever it changes and passes the
// new configuration to onChange. Invalid edits are reported through onError
// and otherwise ignored. Watching does nothing if the file does not exist.
func WatchConfig(path string, onChange func(*AppConfig), onError func(error)) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	v := newViper(path)
	if err := readConfig(v, path); err != nil {
		onError(err)
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := decodeConfig(v, e.Name)
		if err != nil {
			onError(err)
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
}

// SaveConfig validates cfg and writes it to a YAML file at path, creating
// parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("storage.path", cfg.Storage.Path)
	v.Set("watcher.interval_sec", cfg.Watcher.IntervalSec)
	v.Set("watcher.lookahead_sec", cfg.Watcher.LookaheadSec)
	v.Set("watcher.repeat", cfg.Watcher.Repeat)
	v.Set("notifications.ttl_ms", cfg.Notifications.TTLMillis)
	v.Set("display.theme", cfg.Display.Theme)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// EnsureConfig writes the default configuration to path when no file exists
// there yet, so there is something to edit while the UI watches it. It
// reports whether a file was created.
func EnsureConfig(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, fmt.Errorf("checking config %s: %w", path, err)
	}
	if err := SaveConfig(path, defaultAppConfig()); err != nil {
		return false, err
	}
	return true, nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
