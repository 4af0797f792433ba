// Package ui renders styled terminal output for the one-shot homedash
// commands (toggle, set, room add and so on).
//
// Output follows a "print once and exit" pattern: a Header box naming the
// command, then a Result box. The interactive dashboard lives in package tui
// and shares only the color palette with this package.
//
//	p := ui.NewPrinter(os.Stdout)
//	p.PrintHeader("Toggle Device", "homedash toggle 3", ui.Detail{Key: "Server", Value: url})
//	p.PrintSuccess("Device toggled", ui.Detail{Key: "Status", Value: "ON"})
//
// Logging is silent unless HOMEDASH_LOG_LEVEL or --log-level is set, so the
// boxes are the only thing a user sees.
package ui
