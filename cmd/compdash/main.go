// Package main provides the compdash CLI entry point. Run without
// arguments it launches the interactive terminal dashboard; subcommands
// expose every operation for scripting.
package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"compdash/cmd/compdash/dashboard"
	"compdash/internal/api"
	"compdash/internal/config"
	"compdash/internal/logging"
	"compdash/internal/session"
)

var (
	// Global flags
	cfgPath   string
	serverURL string
	verbose   bool

	cfg      *config.Config
	client   *api.Client
	sessions *session.Store
)

var rootCmd = &cobra.Command{
	Use:   "compdash",
	Short: "compdash - compliance intelligence dashboard",
	Long: `compdash is a terminal client for the compliance intelligence platform.

It uploads regulatory datasets, triggers the analysis workflow, and tracks
results, metrics, logs and notifications as the backend produces them.

Run without arguments to start the interactive dashboard.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgPath == "" {
			cfgPath = config.DefaultPath()
		}
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if serverURL != "" {
			cfg.Server.BaseURL = serverURL
		}

		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}
		// Logs go to a file so they never corrupt the TUI.
		logFile := cfg.Logging.File
		if logFile == "" {
			logFile = logging.DefaultFile()
		}
		if err := logging.Init(level, logFile); err != nil {
			return fmt.Errorf("init logging: %w", err)
		}

		client = api.New(cfg.Server.BaseURL, cfg.RequestTimeout())
		sessions = session.NewStore("")
		if s, err := sessions.Load(); err == nil && s != nil && s.Valid() {
			client.SetToken(s.Token)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard()
	},
}

func runDashboard() error {
	saved, err := sessions.Load()
	if err != nil {
		logging.L().Warn("session load failed", zap.Error(err))
	}

	opts := dashboard.Options{Session: saved}

	// Config edits apply live while the dashboard runs.
	done := make(chan struct{})
	defer close(done)
	if updates, err := config.Watch(cfgPath, done); err == nil {
		opts.ConfigUpdates = updates
	} else {
		logging.L().Warn("config watch unavailable", zap.Error(err))
	}

	m := dashboard.New(cfg, client, sessions, opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default: user config dir)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "backend base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(executeCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(notificationsCmd)
	rootCmd.AddCommand(healthCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// requestTimeout is a convenience for subcommands issuing one-shot calls.
func requestTimeout() time.Duration { return cfg.RequestTimeout() }
