package config_test

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/archidraw/internal/config"
)

// These tests modify the environment, so they do not run in parallel.

func TestLoadFromEnv(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	t.Setenv(config.EnvDB, filepath.Join(dir, "studio.db"))
	t.Setenv(config.EnvLog, "")
	t.Setenv(config.EnvLogLevel, "DEBUG")
	t.Setenv(config.EnvAPIKey, "sk-test")
	t.Setenv(config.EnvModel, "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(filepath.Join(dir, "studio.db"), cfg.DBPath)
	assert.Equal(filepath.Join(dir, "debug.log"), cfg.LogPath)
	assert.Equal(zerolog.DebugLevel, cfg.LogLevel)
	assert.True(cfg.SuggestionsEnabled())
}

func TestLoadDefaults(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)
	t.Setenv(config.EnvDB, "")
	t.Setenv(config.EnvLog, "")
	t.Setenv(config.EnvLogLevel, "")
	t.Setenv(config.EnvAPIKey, "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(filepath.Join(dir, "archidraw", "archidraw.db"), cfg.DBPath)
	assert.Equal(zerolog.InfoLevel, cfg.LogLevel)
	assert.False(cfg.SuggestionsEnabled())
}

func TestLoadBadLevel(t *testing.T) {
	t.Setenv(config.EnvDB, filepath.Join(t.TempDir(), "x.db"))
	t.Setenv(config.EnvLogLevel, "chatty")

	_, err := config.Load()
	assert.Error(t, err)
}
