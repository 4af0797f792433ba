// Package tui implements the interactive terminal dashboard.
//
// The dashboard is a single Bubble Tea model with three panes:
//   - Rooms: every room with its devices, energy draw and rules. Devices are
//     toggled, adjusted and removed from here.
//   - Search: a debounced device search box with removable results.
//   - Manage: forms to add rooms, devices and rules, check the schedule and
//     apply presets.
//
// All state lives in a dashboard.Document that is only touched from Update.
// Network calls run as tea.Cmd functions and report back as messages
// (SnapshotMsg, CommandResultMsg, SearchResultMsg), so no locking is needed.
// Poll ticks fire every interval whether or not a fetch is outstanding; the
// poller drops responses that arrive after a newer one was applied.
//
// Every successful command triggers exactly one state refresh. A failed
// command opens a blocking notice with the server's message and changes
// nothing locally.
//
// # Usage Example
//
//	m := tui.New(tui.Options{API: client, Server: client.BaseURL})
//	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
//	    return err
//	}
package tui
