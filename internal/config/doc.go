// Package config manages the homedash configuration file.
//
// Configuration is read from a YAML file in the OS-appropriate config
// directory and then overridden by HOMEDASH_* environment variables.
// Command-line flags are applied last by the CLI.
//
// # File Location
//
//   - Linux: $XDG_CONFIG_HOME/homedash/config.yaml or ~/.config/homedash/config.yaml
//   - macOS: ~/.config/homedash/config.yaml
//   - Windows: %LOCALAPPDATA%\homedash\config.yaml
//
// # Example
//
//	version: 1
//	server: http://192.168.1.20:8080
//	preferences:
//	  poll_interval: 2s
//	  search_debounce: 300ms
//	  request_timeout: 10s
//	  strict_on_match: false
//	  metrics_addr: ":9110"
//	servers:
//	  http://192.168.1.20:8080:
//	    nickname: Living room Pi
//	    last_seen: 2026-10-01T18:00:00Z
//
// Saves are atomic: the file is written to a temporary path and renamed.
package config
