package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/homedash/internal/dashboard"
	"github.com/muurk/homedash/internal/logging"
	"github.com/muurk/homedash/internal/metrics"
	"github.com/muurk/homedash/internal/tui"
)

// dashboardCmd launches the interactive dashboard
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Launch the interactive dashboard",
	Long: `Launch the interactive terminal dashboard.

The dashboard polls the server every poll interval (default 2s) and shows
rooms, devices, energy use and rules. From it you can toggle and adjust
devices, search, add rooms, devices and rules, check the schedule and apply
presets.

Log output goes to a file so it does not disturb the screen.`,
	Example: `  # Launch against the configured server
  homedash dashboard
  # Or simply (dashboard is default):
  homedash

  # Launch against a specific server and export metrics
  homedash --server http://192.168.1.20:8080 --metrics-addr :9110`,
	RunE: runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	prefs := cfg.Preferences
	client := newClient()
	parser := newParser()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var obs dashboard.Observer = dashboard.NopObserver{}
	if prefs.MetricsAddr != "" {
		reg := metrics.NewRegistry()
		obs = metrics.NewRecorder(reg, parser)
		go func() {
			if err := metrics.Serve(ctx, prefs.MetricsAddr, reg); err != nil {
				logging.Error("Metrics server stopped", zap.Error(err))
			}
		}()
	}

	logging.Info("Starting dashboard",
		zap.String("server", client.BaseURL),
		zap.Duration("poll_interval", prefs.PollInterval),
	)
	rememberServer(client.BaseURL)

	model := tui.New(tui.Options{
		API:            client,
		Server:         client.BaseURL,
		Parser:         parser,
		Observer:       obs,
		PollInterval:   prefs.PollInterval,
		SearchDelay:    prefs.SearchDebounce,
		RequestTimeout: prefs.RequestTimeout,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("dashboard error: %w", err)
	}
	return nil
}
