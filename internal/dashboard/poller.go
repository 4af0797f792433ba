package dashboard

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/homedash/internal/homeapi"
	"github.com/muurk/homedash/internal/logging"
)

const (
	// DefaultPollInterval is how often the full state is fetched.
	DefaultPollInterval = 2 * time.Second
)

// Poller fetches the state on a fixed interval and tracks connectivity.
// Ticks fire regardless of in-flight requests; overlapping responses are
// ordered by sequence number instead.
//
// Poller is owned by the Bubble Tea update loop. The commands it returns
// only capture copies of what they need.
type Poller struct {
	api      API
	interval time.Duration
	timeout  time.Duration
	obs      Observer

	seq   Sequencer
	state Connectivity
}

// NewPoller creates a poller. Zero durations use the defaults.
func NewPoller(api API, interval, timeout time.Duration, obs Observer) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if timeout <= 0 {
		timeout = homeapi.DefaultTimeout
	}
	if obs == nil {
		obs = NopObserver{}
	}
	return &Poller{api: api, interval: interval, timeout: timeout, obs: obs}
}

// Interval returns the poll period.
func (p *Poller) Interval() time.Duration { return p.interval }

// State returns the current connectivity.
func (p *Poller) State() Connectivity { return p.state }

// Tick schedules the next PollTickMsg.
func (p *Poller) Tick() tea.Cmd {
	return tea.Tick(p.interval, func(t time.Time) tea.Msg {
		return PollTickMsg{At: t}
	})
}

// Fetch issues a numbered state request.
func (p *Poller) Fetch() tea.Cmd {
	seq := p.seq.Next()
	api, timeout, obs := p.api, p.timeout, p.obs

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		start := time.Now()
		snap, err := api.FetchSnapshot(ctx)
		elapsed := time.Since(start)

		obs.ObserveFetch(elapsed, err)
		logging.LogPoll(seq, elapsed, err)
		return SnapshotMsg{Seq: seq, Snapshot: snap, Err: err}
	}
}

// Receive applies a fetch result to the connectivity state and reports
// whether msg.Snapshot should be rendered. Results older than one already
// applied are dropped without touching the state.
func (p *Poller) Receive(msg SnapshotMsg) bool {
	if !p.seq.Accept(msg.Seq) {
		logging.LogStale("snapshot", msg.Seq, p.seq.Applied())
		p.obs.ObserveStale("snapshot")
		return false
	}

	next := Connected
	if msg.Err != nil || msg.Snapshot == nil {
		next = Disconnected
	}
	if next != p.state {
		logging.LogConnectivity(p.state.String(), next.String())
		p.state = next
		p.obs.ObserveConnectivity(next == Connected)
	}
	if next == Connected {
		p.obs.ObserveSnapshot(msg.Snapshot)
	}
	return next == Connected
}
