package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, defaultAppConfig(), cfg)
}

func TestSaveThenLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := defaultAppConfig()
	cfg.Storage.Path = "/tmp/reminders.db"
	cfg.Watcher.IntervalSec = 30
	cfg.Watcher.LookaheadSec = 600
	cfg.Watcher.Repeat = true
	cfg.Notifications.TTLMillis = 8000
	cfg.Display.Theme = "dark"
	cfg.Log.Level = "debug"
	cfg.Log.File = "/tmp/reminders.log"

	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSaveConfigRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := defaultAppConfig()
	cfg.Watcher.IntervalSec = 0
	assert.Error(t, SaveConfig(path, cfg))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestEnsureConfigWritesDefaultsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reminders", "config.yaml")

	created, err := EnsureConfig(path)
	require.NoError(t, err)
	assert.True(t, created)

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, defaultAppConfig(), loaded)

	edited := defaultAppConfig()
	edited.Watcher.IntervalSec = 5
	require.NoError(t, SaveConfig(path, edited))

	created, err = EnsureConfig(path)
	require.NoError(t, err)
	assert.False(t, created)

	loaded, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 5, loaded.Watcher.IntervalSec)
}
