// Package dashboard keeps the on-screen home state in sync with the server.
//
// The pieces, leaf first:
//
//   - SnapshotRenderer maps a homeapi.Snapshot onto a Document, using a
//     status.Parser for controls and Reconcile for the selectors.
//   - Poller fetches the state every interval, numbers each request and
//     applies only responses newer than the last one applied. It owns the
//     Connectivity indicator.
//   - CommandClient sends mutations. The caller refreshes once after every
//     success and shows a notice after every failure.
//   - SearchController debounces the search box and orders its responses.
//
// Everything here is driven from a single Bubble Tea update loop: methods
// that touch state run in Update, and the tea.Cmd values they return only
// perform I/O and hand back messages.
package dashboard
