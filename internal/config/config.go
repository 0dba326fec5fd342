package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/tgienger/archidraw/internal/db"
)

// Environment variables read by Load
const (
	EnvDB       = "ARCHIDRAW_DB"
	EnvLog      = "ARCHIDRAW_LOG"
	EnvLogLevel = "ARCHIDRAW_LOG_LEVEL"
	EnvAPIKey   = "ANTHROPIC_API_KEY"
	EnvModel    = "ARCHIDRAW_MODEL"
)

// Config holds runtime settings for the CLI and TUI
type Config struct {
	DBPath   string
	LogPath  string
	LogLevel zerolog.Level
	APIKey   string
	Model    string
}

// Load reads .env files if present, then the environment
func Load() (*Config, error) {
	// .env files are optional
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	cfg := &Config{
		DBPath: os.Getenv(EnvDB),
		APIKey: os.Getenv(EnvAPIKey),
		Model:  os.Getenv(EnvModel),
	}

	if cfg.DBPath == "" {
		path, err := db.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("error resolving database path: %w", err)
		}
		cfg.DBPath = path
	}

	cfg.LogPath = os.Getenv(EnvLog)
	if cfg.LogPath == "" {
		cfg.LogPath = filepath.Join(filepath.Dir(cfg.DBPath), "debug.log")
	}

	if err := cfg.SetLogLevel(os.Getenv(EnvLogLevel)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SetLogLevel parses a level name; empty means info
func (c *Config) SetLogLevel(level string) error {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		c.LogLevel = zerolog.InfoLevel
		return nil
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	c.LogLevel = lvl
	return nil
}

// SuggestionsEnabled reports whether an API key is configured
func (c *Config) SuggestionsEnabled() bool {
	return c.APIKey != ""
}
