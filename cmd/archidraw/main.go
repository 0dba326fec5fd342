package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/tgienger/archidraw/internal/config"
	"github.com/tgienger/archidraw/internal/db"
	"github.com/tgienger/archidraw/internal/phase"
	"github.com/tgienger/archidraw/internal/studio"
	"github.com/tgienger/archidraw/internal/suggest"
	"github.com/tgienger/archidraw/internal/ui"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagDB       string
	flagLogLevel string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "archidraw",
		Short: "Track drawing phases, reviews and revisions for an interior studio",
		Long: `archidraw keeps each project's design phases moving through review.
Phase tasks are sent to a stakeholder, approved or rejected with feedback,
and every rejection opens the next revision with its history attached.

Run without a subcommand to open the terminal UI.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStudio(cmd.Context(), runTUI)
		},
	}

	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Database path (default: $"+config.EnvDB+" or the XDG data dir)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(timelineCmd())
	rootCmd.AddCommand(rescheduleCmd())
	rootCmd.AddCommand(reviewsCmd())
	rootCmd.AddCommand(stakeholdersCmd())
	rootCmd.AddCommand(suggestCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// env is everything a command needs once storage is open
type env struct {
	cfg    *config.Config
	db     *db.DB
	studio *studio.Studio
}

// withStudio loads config, starts logging, opens the database and the studio, runs fn
// and closes everything again
func withStudio(ctx context.Context, fn func(ctx context.Context, e *env) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if flagDB != "" {
		cfg.DBPath = flagDB
		cfg.LogPath = filepath.Join(filepath.Dir(flagDB), "debug.log")
	}
	if flagLogLevel != "" {
		if err := cfg.SetLogLevel(flagLogLevel); err != nil {
			return err
		}
	}

	logFile, err := openLog(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()

	log.Info().Str("version", version).Str("db", cfg.DBPath).Msg("starting archidraw")

	database, err := db.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("error initializing database: %w", err)
	}
	defer database.Close()

	var suggester suggest.Suggester = suggest.Noop{}
	if cfg.SuggestionsEnabled() {
		client, err := suggest.NewClient(cfg.APIKey, cfg.Model)
		if err != nil {
			return err
		}
		suggester = client
	} else {
		log.Info().Msg("no API key configured, subtask suggestions disabled")
	}

	st, err := studio.Open(ctx, database, phase.NewEngine(), suggester)
	if err != nil {
		return fmt.Errorf("error loading studio: %w", err)
	}

	return fn(ctx, &env{cfg: cfg, db: database, studio: st})
}

func openLog(cfg *config.Config) (*os.File, error) {
	filePerms := 0o666

	if err := os.MkdirAll(filepath.Dir(cfg.LogPath), 0o755); err != nil {
		return nil, fmt.Errorf("error creating log directory: %w", err)
	}
	logFile, err := os.OpenFile(cfg.LogPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, fs.FileMode(filePerms))
	if err != nil {
		return nil, fmt.Errorf("error opening log file: %w", err)
	}

	zerolog.SetGlobalLevel(cfg.LogLevel)
	log.Logger = log.With().Caller().Logger().Output(zerolog.ConsoleWriter{
		Out: logFile, TimeFormat: "2006-01-02_15:04:05",
	})
	return logFile, nil
}

func runTUI(ctx context.Context, e *env) error {
	app := ui.NewApp(ctx, e.studio, e.db)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running application: %w", err)
	}
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("archidraw %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}
