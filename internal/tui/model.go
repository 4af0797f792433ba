package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/homedash/internal/dashboard"
	"github.com/muurk/homedash/internal/homeapi"
	"github.com/muurk/homedash/internal/status"
)

// Pane is one tab of the dashboard.
type Pane int

const (
	PaneRooms Pane = iota
	PaneSearch
	PaneManage
	paneCount
)

func (p Pane) String() string {
	switch p {
	case PaneSearch:
		return "Search"
	case PaneManage:
		return "Manage"
	default:
		return "Rooms"
	}
}

// notice is a blocking message the user dismisses.
type notice struct {
	Title string
	Body  string
	Error bool
}

// removal is a device deletion awaiting confirmation.
type removal struct {
	ID   string
	Name string
}

// Options configures a dashboard model.
type Options struct {
	API            dashboard.API
	Server         string
	Parser         status.Parser
	Observer       dashboard.Observer
	PollInterval   time.Duration
	SearchDelay    time.Duration
	RequestTimeout time.Duration
}

// Model is the interactive dashboard.
type Model struct {
	Server string
	Doc    *dashboard.Document

	poller   *dashboard.Poller
	commands *dashboard.CommandClient
	search   *dashboard.SearchController
	renderer dashboard.Renderer

	Pane         Pane
	Cursor       int // device row on the rooms pane
	SearchCursor int

	notice  *notice
	confirm *removal

	SearchInput textinput.Model
	form        manageForm

	Spinner     spinner.Model
	Viewport    viewport.Model
	Help        help.Model
	keys        keyMap
	ShowingHelp bool

	Width  int
	Height int
}

// New creates a dashboard model wired to opts.API.
func New(opts Options) Model {
	parser := opts.Parser
	if parser == nil {
		parser = status.New()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	searchInput := textinput.New()
	searchInput.Placeholder = "Search devices..."
	searchInput.CharLimit = 64
	searchInput.Width = 40

	return Model{
		Server:      opts.Server,
		Doc:         dashboard.NewDocument(),
		poller:      dashboard.NewPoller(opts.API, opts.PollInterval, opts.RequestTimeout, opts.Observer),
		commands:    dashboard.NewCommandClient(opts.API, opts.RequestTimeout, opts.Observer),
		search:      dashboard.NewSearchController(opts.API, opts.SearchDelay, opts.RequestTimeout, opts.Observer),
		renderer:    dashboard.NewRenderer(parser),
		SearchInput: searchInput,
		form:        newManageForm(),
		Spinner:     s,
		Viewport:    viewport.New(MinTerminalWidth-4, 20),
		Help:        help.New(),
		keys:        newKeyMap(),
		Width:       MinTerminalWidth,
		Height:      30,
	}
}

// Init fetches the state immediately and starts the poll timer.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.poller.Fetch(), m.poller.Tick(), m.Spinner.Tick)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	m.syncViewport()
	return m, cmd
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Help.Width = msg.Width
		return nil

	case dashboard.PollTickMsg:
		return tea.Batch(m.poller.Fetch(), m.poller.Tick())

	case dashboard.SnapshotMsg:
		if m.poller.Receive(msg) {
			device, result := m.focusedIDs()
			m.renderer.Render(m.Doc, msg.Snapshot)
			m.restoreFocus(device, result)
		}
		m.Doc.Connection = m.poller.State()
		return nil

	case dashboard.CommandResultMsg:
		return m.handleCommandResult(msg)

	case dashboard.SearchDueMsg:
		return m.search.Due(msg)

	case dashboard.SearchResultMsg:
		device, result := m.focusedIDs()
		m.search.Receive(msg, &m.Doc.Search)
		m.restoreFocus(device, result)
		return nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return nil
}

// handleCommandResult shows failures as notices and refreshes once after
// every success.
func (m *Model) handleCommandResult(msg dashboard.CommandResultMsg) tea.Cmd {
	if msg.Err != nil {
		m.notice = &notice{
			Title: msg.Op.FailureTitle(),
			Body:  homeapi.UserMessage(msg.Err),
			Error: true,
		}
		return nil
	}

	if msg.Notice != "" {
		m.notice = &notice{Title: successTitle(msg.Op), Body: msg.Notice}
	}
	if msg.Op == dashboard.OpRemoveDevice {
		device, result := m.focusedIDs()
		m.Doc.Search.Drop(msg.Target)
		m.restoreFocus(device, result)
	}
	m.resetForm(msg.Op)
	return m.poller.Fetch()
}

func successTitle(op dashboard.Op) string {
	switch op {
	case dashboard.OpAddDevice:
		return "Device added"
	case dashboard.OpAddRule:
		return "Rule created"
	case dashboard.OpSchedule:
		return "Schedule"
	case dashboard.OpPreset:
		return "Preset applied"
	default:
		return "Done"
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}

	// Modals block everything else until dismissed.
	if m.notice != nil {
		switch msg.String() {
		case "enter", "esc", " ", "q":
			m.notice = nil
		}
		return nil
	}
	if m.confirm != nil {
		switch msg.String() {
		case "y", "Y", "enter":
			id := m.confirm.ID
			m.confirm = nil
			return m.commands.RemoveDevice(id)
		case "n", "N", "esc", "q":
			m.confirm = nil
		}
		return nil
	}
	if m.ShowingHelp {
		if key.Matches(msg, m.keys.Help) || msg.String() == "esc" {
			m.ShowingHelp = false
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.NextPane):
		return m.switchPane(m.Pane + 1)
	case key.Matches(msg, m.keys.PrevPane):
		return m.switchPane(m.Pane - 1)
	case key.Matches(msg, m.keys.PageUp):
		m.Viewport.SetYOffset(m.Viewport.YOffset - m.Viewport.Height)
		return nil
	case key.Matches(msg, m.keys.PageDown):
		m.Viewport.SetYOffset(m.Viewport.YOffset + m.Viewport.Height)
		return nil
	}

	switch m.Pane {
	case PaneSearch:
		return m.handleSearchKey(msg)
	case PaneManage:
		return m.handleManageKey(msg)
	default:
		return m.handleRoomsKey(msg)
	}
}

func (m *Model) switchPane(p Pane) tea.Cmd {
	m.Pane = ((p % paneCount) + paneCount) % paneCount
	m.SearchInput.Blur()
	m.blurForm()
	m.Viewport.GotoTop()

	switch m.Pane {
	case PaneSearch:
		return m.SearchInput.Focus()
	case PaneManage:
		return m.focusField(m.form.focus)
	}
	return nil
}

func (m *Model) handleRoomsKey(msg tea.KeyMsg) tea.Cmd {
	rows := m.Doc.Devices()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.ShowingHelp = true
	case key.Matches(msg, m.keys.Up):
		if m.Cursor > 0 {
			m.Cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.Cursor < len(rows)-1 {
			m.Cursor++
		}
	case key.Matches(msg, m.keys.Refresh):
		return m.poller.Fetch()
	case key.Matches(msg, m.keys.BulkOn):
		return m.commands.BulkOn()
	case key.Matches(msg, m.keys.BulkOff):
		return m.commands.BulkOff()
	}

	if m.Cursor >= len(rows) {
		return nil
	}
	row := rows[m.Cursor]

	switch {
	case key.Matches(msg, m.keys.Toggle):
		return m.commands.Toggle(row.ID)
	case key.Matches(msg, m.keys.Increase):
		return m.adjust(row, 1)
	case key.Matches(msg, m.keys.Decrease):
		return m.adjust(row, -1)
	case key.Matches(msg, m.keys.Remove):
		m.confirm = &removal{ID: row.ID, Name: row.Name}
	}
	return nil
}

// adjust moves a device's slider one step and sends the new value.
func (m *Model) adjust(row dashboard.DeviceRow, steps int) tea.Cmd {
	if row.Control == nil {
		return nil
	}
	next := row.Control.Adjust(steps)
	if next.Value == row.Control.Value {
		return nil
	}
	return m.commands.SetAttribute(row.ID, next.Action, next.Wire())
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	rows := m.Doc.Search.Rows

	switch msg.Type {
	case tea.KeyUp:
		if m.SearchCursor > 0 {
			m.SearchCursor--
		}
		return nil
	case tea.KeyDown:
		if m.SearchCursor < len(rows)-1 {
			m.SearchCursor++
		}
		return nil
	case tea.KeyDelete:
		if m.SearchCursor < len(rows) {
			row := rows[m.SearchCursor]
			m.confirm = &removal{ID: row.ID, Name: row.Name}
		}
		return nil
	case tea.KeyEsc:
		m.SearchInput.Reset()
		return m.search.Input("", &m.Doc.Search)
	}

	before := m.SearchInput.Value()
	var cmd tea.Cmd
	m.SearchInput, cmd = m.SearchInput.Update(msg)
	if m.SearchInput.Value() == before {
		return cmd
	}
	m.SearchCursor = 0
	return tea.Batch(cmd, m.search.Input(m.SearchInput.Value(), &m.Doc.Search))
}

func (m *Model) handleManageKey(msg tea.KeyMsg) tea.Cmd {
	fl := m.form.focus

	switch msg.Type {
	case tea.KeyUp:
		return m.focusField(fl - 1)
	case tea.KeyDown:
		return m.focusField(fl + 1)
	case tea.KeyEnter:
		return m.submit()
	}

	if sel := m.selector(fl); sel != nil {
		switch {
		case key.Matches(msg, m.keys.Left):
			sel.Step(-1)
		case key.Matches(msg, m.keys.Right):
			sel.Step(1)
		case key.Matches(msg, m.keys.Quit):
			return tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.ShowingHelp = true
		}
		return nil
	}

	in := m.form.input(fl)
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	return cmd
}

// focusedIDs returns the ids of the rows under the cursors.
func (m *Model) focusedIDs() (device, result string) {
	if rows := m.Doc.Devices(); m.Cursor < len(rows) {
		device = rows[m.Cursor].ID
	}
	if rows := m.Doc.Search.Rows; m.SearchCursor < len(rows) {
		result = rows[m.SearchCursor].ID
	}
	return device, result
}

// restoreFocus puts each cursor back on the row with the given id after the
// rows changed. A cursor whose row is gone stays at its index, clamped.
func (m *Model) restoreFocus(device, result string) {
	if device != "" {
		for i, row := range m.Doc.Devices() {
			if row.ID == device {
				m.Cursor = i
				break
			}
		}
	}
	if result != "" {
		for i, row := range m.Doc.Search.Rows {
			if row.ID == result {
				m.SearchCursor = i
				break
			}
		}
	}
	m.clampCursors()
}

// clampCursors keeps cursors on existing rows.
func (m *Model) clampCursors() {
	if n := len(m.Doc.Devices()); m.Cursor >= n {
		m.Cursor = max(n-1, 0)
	}
	if n := len(m.Doc.Search.Rows); m.SearchCursor >= n {
		m.SearchCursor = max(n-1, 0)
	}
}

// syncViewport sizes the viewport to the terminal and keeps the cursor line
// in view.
func (m *Model) syncViewport() {
	m.Viewport.Width = max(m.Width-4, MinTerminalWidth-4)
	// header, tabs, footer and borders
	m.Viewport.Height = max(m.Height-9, 5)

	content, cursorLine := m.paneContent()
	m.Viewport.SetContent(content)

	if cursorLine < 0 {
		return
	}
	if cursorLine < m.Viewport.YOffset {
		m.Viewport.SetYOffset(cursorLine)
	} else if cursorLine >= m.Viewport.YOffset+m.Viewport.Height {
		m.Viewport.SetYOffset(cursorLine - m.Viewport.Height + 1)
	}
}

// lineOf returns the index of the first line of content containing marker.
func lineOf(content, marker string) int {
	idx := strings.Index(content, marker)
	if idx < 0 {
		return -1
	}
	return strings.Count(content[:idx], "\n")
}
