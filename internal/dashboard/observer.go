package dashboard

import (
	"time"

	"github.com/muurk/homedash/internal/homeapi"
)

// Observer receives dashboard events for instrumentation.
// Fetch and command callbacks run on command goroutines.
type Observer interface {
	ObserveFetch(elapsed time.Duration, err error)
	ObserveSnapshot(snap *homeapi.Snapshot)
	ObserveConnectivity(connected bool)
	ObserveCommand(op string, err error)
	ObserveStale(kind string)
}

// NopObserver discards everything.
type NopObserver struct{}

func (NopObserver) ObserveFetch(time.Duration, error) {}
func (NopObserver) ObserveSnapshot(*homeapi.Snapshot) {}
func (NopObserver) ObserveConnectivity(bool)          {}
func (NopObserver) ObserveCommand(string, error)      {}
func (NopObserver) ObserveStale(string)               {}
