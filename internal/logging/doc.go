// Package logging provides structured logging for homedash.
//
// This package wraps a global zap logger with convenience functions. Logging
// is silent unless a level is set, either explicitly or through the
// HOMEDASH_LOG_LEVEL environment variable.
//
// # Log Levels
//
//   - Debug: every state fetch, dropped stale responses, debounce firings
//   - Info: commands sent, connectivity transitions
//   - Warn: failed fetches and failed commands
//   - Error: startup failures
//
// # Output
//
// The interactive dashboard owns the terminal, so it logs to a file:
//
//	if err := logging.InitializeWithOptions(logging.Options{
//	    Level:  "debug",
//	    Output: "/home/me/.config/homedash/homedash.log",
//	}); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// One-shot commands log to stderr.
//
// # Specialized Logging
//
//	logging.LogPoll(seq, elapsed, err)
//	logging.LogStale("snapshot", seq, latest)
//	logging.LogConnectivity("Connected", "Disconnected")
//	logging.LogCommand("toggle", deviceID, err)
package logging
