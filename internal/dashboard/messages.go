package dashboard

import (
	"time"

	"github.com/muurk/homedash/internal/homeapi"
)

// PollTickMsg fires every poll interval.
type PollTickMsg struct {
	At time.Time
}

// SnapshotMsg carries the result of one state fetch.
type SnapshotMsg struct {
	Seq      uint64
	Snapshot *homeapi.Snapshot
	Err      error
}

// CommandResultMsg carries the outcome of a mutating request.
type CommandResultMsg struct {
	Op     Op
	Target string
	// Notice is shown to the user on success, if set.
	Notice string
	Err    error
}

// SearchDueMsg fires when the debounce delay has elapsed.
type SearchDueMsg struct {
	Gen   uint64
	Query string
}

// SearchResultMsg carries search hits for the request numbered Gen.
type SearchResultMsg struct {
	Gen     uint64
	Query   string
	Results []homeapi.SearchResult
	Err     error
}
