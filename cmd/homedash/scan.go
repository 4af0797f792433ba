package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/homedash/internal/discovery"
)

var (
	scanTimeout time.Duration
	scanSave    bool
)

// scanCmd discovers dashboard servers on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for dashboard servers on the network",
	Long: `Scan for dashboard servers using mDNS/DNS-SD discovery.

Servers are recognised by an "app=smarthome" TXT record or by their
advertised instance name.`,
	Example: `  # Scan with the configured timeout (default 5s)
  homedash scan

  # Longer scan, remembering every server found
  homedash scan --timeout 15s --save`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", 0, "Scan timeout (default from config, 5s)")
	scanCmd.Flags().BoolVar(&scanSave, "save", false, "Remember discovered servers in the config file")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	scanner := discovery.NewScanner()
	scanner.Timeout = cfg.Preferences.ScanTimeout
	if scanTimeout > 0 {
		scanner.Timeout = scanTimeout
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Scanning for dashboard servers (timeout: %s)...\n\n", scanner.Timeout)

	servers, err := scanner.Scan(cmd.Context())
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(servers) == 0 {
		fmt.Fprintln(out, "No servers found.")
		fmt.Fprintln(out, "\nTroubleshooting:")
		fmt.Fprintln(out, "  - Ensure the dashboard server is running")
		fmt.Fprintln(out, "  - Check that your computer is on the same network")
		fmt.Fprintln(out, "  - Try increasing --timeout for slower networks")
		fmt.Fprintln(out, "  - Use --server to connect directly if discovery fails")
		return nil
	}

	fmt.Fprintf(out, "Found %d server(s):\n\n", len(servers))
	for i, s := range servers {
		fmt.Fprintf(out, "%d. %s\n", i+1, s.Instance)
		fmt.Fprintf(out, "   URL:   %s\n", s.BaseURL())
		fmt.Fprintf(out, "   Host:  %s\n", s.Hostname)
		if len(s.Metadata) > 0 {
			fmt.Fprintf(out, "   Metadata: %v\n", s.Metadata)
		}
		fmt.Fprintln(out)
		if scanSave {
			rememberServer(s.BaseURL())
		}
	}

	fmt.Fprintln(out, "Use 'homedash --server <url>' to open the dashboard")
	return nil
}
