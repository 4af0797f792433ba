package dashboard

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/homedash/internal/homeapi"
	"github.com/muurk/homedash/internal/logging"
)

// DefaultSearchDelay is the quiet period after the last keystroke.
const DefaultSearchDelay = 300 * time.Millisecond

// Debouncer collapses bursts of input into one firing. Every Arm replaces
// the pending timer; only the most recent one is honoured when it fires.
type Debouncer struct {
	delay time.Duration
	gen   uint64
}

// NewDebouncer creates a debouncer with the given quiet period.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Arm starts a new timer for query, superseding any pending one.
func (d *Debouncer) Arm(query string) tea.Cmd {
	d.gen++
	gen := d.gen
	return tea.Tick(d.delay, func(time.Time) tea.Msg {
		return SearchDueMsg{Gen: gen, Query: query}
	})
}

// Cancel drops any pending timer.
func (d *Debouncer) Cancel() {
	d.gen++
}

// Due reports whether msg comes from the most recent Arm.
func (d *Debouncer) Due(msg SearchDueMsg) bool {
	return msg.Gen == d.gen
}

// SearchController debounces the search box and orders its responses.
type SearchController struct {
	api      API
	timeout  time.Duration
	debounce *Debouncer
	seq      Sequencer
	obs      Observer
}

// NewSearchController creates a controller. A zero delay uses
// DefaultSearchDelay.
func NewSearchController(api API, delay, timeout time.Duration, obs Observer) *SearchController {
	if delay <= 0 {
		delay = DefaultSearchDelay
	}
	if timeout <= 0 {
		timeout = homeapi.DefaultTimeout
	}
	if obs == nil {
		obs = NopObserver{}
	}
	return &SearchController{
		api:      api,
		timeout:  timeout,
		debounce: NewDebouncer(delay),
		obs:      obs,
	}
}

// Input handles a change of the search box. An empty query clears the
// panel immediately, cancels the pending timer and sends nothing.
func (s *SearchController) Input(query string, panel *SearchPanel) tea.Cmd {
	q := strings.TrimSpace(query)
	if q == "" {
		s.debounce.Cancel()
		s.seq.Invalidate()
		*panel = SearchPanel{}
		return nil
	}
	panel.Query = q
	panel.Pending = true
	return s.debounce.Arm(q)
}

// Due issues the request once the debounce timer for the latest input fires.
func (s *SearchController) Due(msg SearchDueMsg) tea.Cmd {
	if !s.debounce.Due(msg) {
		return nil
	}

	gen := s.seq.Next()
	api, timeout, query := s.api, s.timeout, msg.Query
	logging.Debug("Search fired", zap.String("query", query), zap.Uint64("gen", gen))

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		results, err := api.SearchDevices(ctx, query)
		return SearchResultMsg{Gen: gen, Query: query, Results: results, Err: err}
	}
}

// Receive renders a search response into panel unless a newer request has
// already been answered or the box has changed since.
func (s *SearchController) Receive(msg SearchResultMsg, panel *SearchPanel) bool {
	if msg.Query != panel.Query || !s.seq.Accept(msg.Gen) {
		logging.LogStale("search", msg.Gen, s.seq.Applied())
		s.obs.ObserveStale("search")
		return false
	}

	panel.Pending = false
	if msg.Err != nil {
		logging.Warn("Search failed", zap.String("query", msg.Query), zap.Error(msg.Err))
		return false
	}

	rows := make([]SearchRow, len(msg.Results))
	for i, r := range msg.Results {
		rows[i] = SearchRow{ID: r.ID, Name: r.Name, Type: string(r.Type), Room: r.Room}
	}
	panel.Rows = rows
	panel.Shown = true
	return true
}
