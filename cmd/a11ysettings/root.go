// Package main provides the CLI entrypoint for a11ysettings.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/a11ysettings/internal/a11y"
	"github.com/jmylchreest/a11ysettings/internal/catalog"
	"github.com/jmylchreest/a11ysettings/internal/config"
	"github.com/jmylchreest/a11ysettings/internal/dbus"
	"github.com/jmylchreest/a11ysettings/internal/dialog"
	"github.com/jmylchreest/a11ysettings/internal/launcher"
	"github.com/jmylchreest/a11ysettings/internal/settings"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	cfg        *config.Config
	globalOpts struct {
		verbose    bool
		configPath string
		dryRun     bool
	}
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "a11ysettings",
	Short: "Accessibility settings for the MATE desktop",
	Long: `a11ysettings configures the accessibility options of a MATE desktop:
high contrast, large print, the mouse pointer theme and size, and which
assistive technologies start with the session.

Running a11ysettings without a subcommand opens the settings dialog.`,
	Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		var err error
		cfg, err = config.LoadConfig(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
	RunE: runDialog,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/a11ysettings/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&globalOpts.dryRun, "dry-run", false,
		"Keep settings in memory instead of writing them to the desktop")
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, opts)
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// selectBackend returns the configured settings backend. The GSettings
// backend is only used when every schema is installed; otherwise changes
// are kept in memory.
func selectBackend() settings.Backend {
	if globalOpts.dryRun || cfg.Session.Backend == config.BackendMemory {
		return settings.NewMemoryBackend(a11y.Schemas()...)
	}

	gs := settings.NewGSettingsBackend(logger)
	for _, schema := range a11y.Schemas() {
		s, err := gs.Open(schema.ID)
		if err != nil {
			logger.Warn("settings schema missing, changes will not be saved", "schema", schema.ID, "error", err)
			return settings.NewMemoryBackend(a11y.Schemas()...)
		}
		_ = s.Close()
	}
	return gs
}

// openContext opens a controller on the selected backend and loads the
// pending autostart choices. The caller closes the controller.
func openContext() (*a11y.Context, error) {
	ctrl, err := a11y.NewController(a11y.Options{
		Backend: selectBackend(),
		Config:  cfg,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open accessibility settings: %w", err)
	}

	c, err := a11y.NewContext(ctrl, launcher.New(logger), logger)
	if err != nil {
		_ = ctrl.Close()
		return nil, err
	}
	return c, nil
}

// buildCatalog scans the configured theme directories and sorts the result.
func buildCatalog() *catalog.Catalog {
	themes := catalog.NewBuilder(logger).Build(cfg.SearchDirs())
	themes.Sort(catalog.NewCollator())
	return themes
}

func runDialog(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	session, err := dbus.ConnectSession(logger)
	if err != nil {
		logger.Warn("session bus unavailable, logout prompt disabled", "error", err)
	}

	status := dialog.Run(ctx, dialog.AppOptions{
		Config:  cfg,
		Backend: selectBackend(),
		Session: session,
		Logger:  logger,
	})
	if status != 0 {
		return fmt.Errorf("dialog exited with status %d", status)
	}
	return nil
}
