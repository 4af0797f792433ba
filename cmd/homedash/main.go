// Homedash is a terminal client for a home-automation dashboard server.
//
// It polls the server's state, renders rooms, devices and rules in an
// interactive dashboard, and sends control commands. Every dashboard action
// is also available as a one-shot command for scripts.
//
// Usage:
//
//	homedash [command] [flags]
//
// Running without arguments launches the interactive dashboard.
// See 'homedash --help' for available commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/homedash/internal/config"
	"github.com/muurk/homedash/internal/homeapi"
	"github.com/muurk/homedash/internal/logging"
	"github.com/muurk/homedash/internal/status"
	"github.com/muurk/homedash/internal/version"
)

// errReported marks a failure whose error box has already been printed.
var errReported = errors.New("reported")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logging.Sync()

	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// Global flags
var (
	serverURL      string
	configPath     string
	logLevel       string
	logFile        string
	metricsAddr    string
	requestTimeout time.Duration
)

// cfg is the loaded configuration with flag overrides applied.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "homedash",
	Short: "Home automation dashboard client",
	Long: `A terminal client for a home-automation dashboard server.

Polls the server for rooms, devices, energy use and rules, and lets you
toggle and adjust devices, manage rooms and rules, and search devices.

If no command is specified, the interactive dashboard will launch.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDashboard,
}

func init() {
	// Assigned here rather than in the literal to break the
	// rootCmd -> setup -> isInteractive -> rootCmd initialization cycle.
	rootCmd.PersistentPreRunE = setup
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "", "Dashboard server URL (default from config, then http://localhost:8080)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default <config dir>/homedash/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); silent when unset")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Log file (dashboard default <config dir>/homedash/homedash.log)")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while the dashboard runs (e.g. :9110)")
	rootCmd.PersistentFlags().DurationVar(&requestTimeout, "timeout", 0, "Per-request timeout (default 10s)")

	rootCmd.AddCommand(versionCmd)
}

// setup loads the configuration, applies flags on top and starts logging.
func setup(cmd *cobra.Command, args []string) error {
	if cmd == versionCmd {
		return nil
	}

	var err error
	if configPath != "" {
		cfg, err = config.LoadWithEnv(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	prefs := cfg.Preferences
	if serverURL != "" {
		cfg.Server = serverURL
	}
	if logLevel != "" {
		prefs.LogLevel = logLevel
	}
	if logFile != "" {
		prefs.LogFile = logFile
	}
	if metricsAddr != "" {
		prefs.MetricsAddr = metricsAddr
	}
	if requestTimeout > 0 {
		prefs.RequestTimeout = requestTimeout
	}

	output := prefs.LogFile
	if output == "" && isInteractive(cmd) {
		// The dashboard owns the terminal.
		if err := config.EnsureConfigDir(); err != nil {
			return err
		}
		if output, err = config.DefaultLogPath(); err != nil {
			return err
		}
	}
	if err := logging.InitializeWithOptions(logging.Options{Level: prefs.LogLevel, Output: output}); err != nil {
		return err
	}

	logging.Debug("Configuration loaded",
		zap.String("server", cfg.Server),
		zap.Duration("poll_interval", prefs.PollInterval),
		zap.Duration("request_timeout", prefs.RequestTimeout),
	)
	return nil
}

func isInteractive(cmd *cobra.Command) bool {
	return cmd == rootCmd || cmd == dashboardCmd
}

// newClient builds an API client for the configured server.
func newClient() *homeapi.Client {
	client := homeapi.NewClientWithURL(cfg.Server)
	client.SetTimeout(cfg.Preferences.RequestTimeout)
	return client
}

func newParser() *status.RegexParser {
	p := status.New()
	p.StrictOnMatch = cfg.Preferences.StrictOnMatch
	return p
}

// requestContext bounds a one-shot request by the configured timeout.
func requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), cfg.Preferences.RequestTimeout)
}

// rememberServer records the server being used. The file is re-read so
// flag and environment overrides are not persisted. Failures are only logged.
func rememberServer(baseURL string) {
	path := configPath
	if path == "" {
		var err error
		if path, err = config.GetConfigPath(); err != nil {
			logging.Warn("Failed to locate config", zap.Error(err))
			return
		}
		if err := config.EnsureConfigDir(); err != nil {
			logging.Warn("Failed to create config dir", zap.Error(err))
			return
		}
	}

	stored, err := config.LoadFile(path)
	if err != nil {
		logging.Warn("Failed to reload config", zap.Error(err))
		return
	}
	stored.RememberServer(baseURL, time.Now())
	if err := stored.SaveFile(path); err != nil {
		logging.Warn("Failed to save config", zap.Error(err))
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("homedash %s (commit: %s)\n", version.Version, version.Commit)
	},
}
