package tui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/homedash/internal/dashboard"
	"github.com/muurk/homedash/internal/homeapi"
)

// fakeServer serves a tiny home over the dashboard API.
type fakeServer struct {
	mu       sync.Mutex
	snap     homeapi.Snapshot
	failNext int
	hits     map[string]int
}

func newFakeServer(t *testing.T) (*fakeServer, *homeapi.Client) {
	t.Helper()
	f := &fakeServer{
		hits: map[string]int{},
		snap: homeapi.Snapshot{
			TotalEnergy: 60,
			Rooms: []homeapi.Room{
				{Name: "Living Room", Devices: []homeapi.Device{
					{ID: "L1", Name: "Lamp", Type: homeapi.TypeLight, Status: "OFF", Energy: 0},
					{ID: "T1", Name: "Heater", Type: homeapi.TypeThermostat, Status: "ON | Target: 22°C", Energy: 60},
				}},
			},
		},
	}
	server := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(server.Close)
	return f, homeapi.NewClientWithURL(server.URL)
}

func (f *fakeServer) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.hits[r.URL.Path]++
	if f.failNext > 0 {
		f.failNext--
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	q := r.URL.Query()
	switch r.URL.Path {
	case "/api/stats":
		_ = json.NewEncoder(w).Encode(f.snap)
	case "/api/control":
		for ri := range f.snap.Rooms {
			for di := range f.snap.Rooms[ri].Devices {
				d := &f.snap.Rooms[ri].Devices[di]
				if d.ID == q.Get("id") && q.Get("action") == homeapi.ActionToggle {
					if d.Status == "OFF" {
						d.Status = "ON"
					} else {
						d.Status = "OFF"
					}
				}
			}
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	case "/api/devices/remove":
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	case "/api/devices/search":
		_, _ = w.Write([]byte(`[{"id":"L1","name":"Lamp","type":"Light","room":"Living Room"}]`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeServer) hitCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func newTestModel(client *homeapi.Client) Model {
	m := New(Options{
		API:          client,
		Server:       client.BaseURL,
		PollInterval: 10 * time.Millisecond,
		SearchDelay:  time.Millisecond,
	})
	m.Width, m.Height = 100, 40
	return m
}

// collect runs cmd and any batched commands, returning the messages that
// arrive promptly. Slow commands such as cursor blinks are skipped.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, collect(c)...)
			}
			return out
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(200 * time.Millisecond):
		return nil
	}
}

func find[T any](msgs []tea.Msg) (T, int) {
	var (
		first T
		n     int
	)
	for _, msg := range msgs {
		if v, ok := msg.(T); ok {
			if n == 0 {
				first = v
			}
			n++
		}
	}
	return first, n
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// poll drives one poll cycle through the model.
func poll(t *testing.T, m Model) Model {
	t.Helper()
	m, cmd := update(t, m, dashboard.PollTickMsg{At: time.Now()})
	snap, n := find[dashboard.SnapshotMsg](collect(cmd))
	if n != 1 {
		t.Fatalf("poll tick produced %d snapshot messages, want 1", n)
	}
	m, _ = update(t, m, snap)
	return m
}

func TestModel_DisconnectedThenConnected(t *testing.T) {
	home, client := newFakeServer(t)
	m := newTestModel(client)

	if !strings.Contains(m.View(), "Connecting...") {
		t.Error("initial view should show Connecting...")
	}

	home.failNext = 1
	m = poll(t, m)
	if m.Doc.Connection != dashboard.Disconnected {
		t.Fatalf("Connection = %v, want Disconnected", m.Doc.Connection)
	}
	if !strings.Contains(m.View(), "Disconnected") {
		t.Error("view should show Disconnected")
	}
	if m.Doc.Rendered {
		t.Error("failed poll must not render")
	}

	m = poll(t, m)
	if m.Doc.Connection != dashboard.Connected {
		t.Fatalf("Connection = %v, want Connected", m.Doc.Connection)
	}
	view := m.View()
	for _, want := range []string{"Live Connected", "Living Room", "Lamp", "Heater", "60.00 W"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_ToggleRefreshesOnce(t *testing.T) {
	home, client := newFakeServer(t)
	m := poll(t, newTestModel(client))

	if row, _ := m.Doc.Device("L1"); row.On {
		t.Fatal("lamp should start off")
	}

	m, cmd := update(t, m, runes("t"))
	result, n := find[dashboard.CommandResultMsg](collect(cmd))
	if n != 1 {
		t.Fatalf("toggle produced %d command results, want 1", n)
	}
	if result.Err != nil {
		t.Fatalf("toggle failed: %v", result.Err)
	}

	m, cmd = update(t, m, result)
	msgs := collect(cmd)
	snap, n := find[dashboard.SnapshotMsg](msgs)
	if n != 1 {
		t.Fatalf("command result produced %d refreshes, want 1", n)
	}
	m, _ = update(t, m, snap)

	if got := home.hitCount("/api/stats"); got != 2 {
		t.Errorf("/api/stats hits = %d, want 2", got)
	}
	row, _ := m.Doc.Device("L1")
	if !row.On || row.ToggleLabel != "ON" || row.StatusClass != "status-on" {
		t.Errorf("after toggle row = %+v, want on", row)
	}
}

func TestModel_CommandFailureShowsNotice(t *testing.T) {
	_, client := newFakeServer(t)
	m := newTestModel(client)

	m, cmd := update(t, m, dashboard.CommandResultMsg{
		Op:  dashboard.OpAddRoom,
		Err: homeapi.NewHTTPError(http.StatusBadRequest, "Room already exists"),
	})
	if cmd != nil {
		t.Error("failed command must not refresh")
	}
	view := m.View()
	if !strings.Contains(view, "Error adding room") || !strings.Contains(view, "Room already exists") {
		t.Errorf("notice not shown:\n%s", view)
	}

	// The notice blocks input until dismissed.
	m, cmd = update(t, m, runes("t"))
	if cmd != nil {
		t.Error("keys must be swallowed while a notice is open")
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if strings.Contains(m.View(), "Error adding room") {
		t.Error("notice should be dismissed by enter")
	}
}

func TestModel_RemoveAsksFirst(t *testing.T) {
	home, client := newFakeServer(t)
	m := poll(t, newTestModel(client))

	m, cmd := update(t, m, runes("x"))
	if cmd != nil {
		t.Fatal("remove must wait for confirmation")
	}
	if !strings.Contains(m.View(), `"Lamp"`) {
		t.Error("confirmation should name the device")
	}

	m, cmd = update(t, m, runes("n"))
	if cmd != nil {
		t.Fatal("declined removal must not send a request")
	}

	m, _ = update(t, m, runes("x"))
	_, cmd = update(t, m, runes("y"))
	result, n := find[dashboard.CommandResultMsg](collect(cmd))
	if n != 1 || result.Op != dashboard.OpRemoveDevice || result.Target != "L1" {
		t.Fatalf("confirmed removal = %+v (%d), want remove_device L1", result, n)
	}
	if got := home.hitCount("/api/devices/remove"); got != 1 {
		t.Errorf("remove hits = %d, want 1", got)
	}
}

func TestModel_AdjustSendsSteppedValue(t *testing.T) {
	_, client := newFakeServer(t)
	m := poll(t, newTestModel(client))

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.Cursor != 1 {
		t.Fatalf("Cursor = %d, want 1", m.Cursor)
	}

	row, _ := m.Doc.Device("T1")
	if row.Control == nil {
		t.Fatal("thermostat should have a control")
	}
	want := row.Control.Adjust(1)

	_, cmd := update(t, m, runes("+"))
	result, n := find[dashboard.CommandResultMsg](collect(cmd))
	if n != 1 || result.Op != dashboard.OpSet || result.Err != nil {
		t.Fatalf("adjust result = %+v (%d)", result, n)
	}
	if want.Value == row.Control.Value {
		t.Fatal("step should change the value")
	}
}

func TestModel_SearchDebouncesTyping(t *testing.T) {
	home, client := newFakeServer(t)
	m := newTestModel(client)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Pane != PaneSearch {
		t.Fatalf("Pane = %v, want Search", m.Pane)
	}

	var dues []dashboard.SearchDueMsg
	for _, r := range "lam" {
		var cmd tea.Cmd
		m, cmd = update(t, m, runes(string(r)))
		if due, n := find[dashboard.SearchDueMsg](collect(cmd)); n == 1 {
			dues = append(dues, due)
		}
	}
	if len(dues) != 3 {
		t.Fatalf("got %d debounce timers, want 3", len(dues))
	}

	var results []dashboard.SearchResultMsg
	for _, due := range dues {
		var cmd tea.Cmd
		m, cmd = update(t, m, due)
		if res, n := find[dashboard.SearchResultMsg](collect(cmd)); n == 1 {
			results = append(results, res)
		}
	}
	if len(results) != 1 {
		t.Fatalf("got %d searches, want 1", len(results))
	}
	if got := home.hitCount("/api/devices/search"); got != 1 {
		t.Errorf("search hits = %d, want 1", got)
	}

	m, _ = update(t, m, results[0])
	if !strings.Contains(m.View(), "Lamp (Light) Room: Living Room") {
		t.Errorf("search result not rendered:\n%s", m.View())
	}
}

func TestModel_PaneCycle(t *testing.T) {
	_, client := newFakeServer(t)
	m := newTestModel(client)

	for _, want := range []Pane{PaneSearch, PaneManage, PaneRooms} {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
		if m.Pane != want {
			t.Fatalf("Pane = %v, want %v", m.Pane, want)
		}
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.Pane != PaneManage {
		t.Errorf("Pane = %v, want Manage", m.Pane)
	}
}

func TestModel_ManageValidationShowsNotice(t *testing.T) {
	home, client := newFakeServer(t)
	m := newTestModel(client)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.Pane != PaneManage {
		t.Fatalf("Pane = %v, want Manage", m.Pane)
	}

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	result, n := find[dashboard.CommandResultMsg](collect(cmd))
	if n != 1 || result.Op != dashboard.OpAddRoom {
		t.Fatalf("submit result = %+v (%d), want add_room", result, n)
	}
	if !homeapi.IsValidationError(result.Err) {
		t.Errorf("empty room name err = %v, want validation error", result.Err)
	}
	if got := home.hitCount("/api/rooms/add"); got != 0 {
		t.Errorf("invalid input reached the server %d times", got)
	}
}

func TestModel_FocusFollowsDeviceAcrossRefresh(t *testing.T) {
	home, client := newFakeServer(t)
	home.mu.Lock()
	home.snap.Rooms[0].Devices = append(home.snap.Rooms[0].Devices,
		homeapi.Device{ID: "X1", Name: "Motion", Type: homeapi.TypeMotionSensor, Status: "OFF"})
	home.mu.Unlock()

	m := poll(t, newTestModel(client))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if rows := m.Doc.Devices(); rows[m.Cursor].ID != "T1" {
		t.Fatalf("focused %s, want T1", rows[m.Cursor].ID)
	}

	// The lamp above the cursor disappears on the server.
	home.mu.Lock()
	home.snap.Rooms[0].Devices = home.snap.Rooms[0].Devices[1:]
	home.mu.Unlock()
	m = poll(t, m)

	if m.Cursor != 0 {
		t.Errorf("Cursor = %d, want 0", m.Cursor)
	}
	_, cmd := update(t, m, runes("t"))
	result, n := find[dashboard.CommandResultMsg](collect(cmd))
	if n != 1 || result.Target != "T1" {
		t.Fatalf("toggle after refresh = %+v (%d), want target T1", result, n)
	}
}

func TestModel_FocusClampsWhenDeviceGone(t *testing.T) {
	home, client := newFakeServer(t)
	m := poll(t, newTestModel(client))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})

	home.mu.Lock()
	home.snap.Rooms[0].Devices = home.snap.Rooms[0].Devices[:1]
	home.mu.Unlock()
	m = poll(t, m)

	if m.Cursor != 0 {
		t.Fatalf("Cursor = %d, want 0", m.Cursor)
	}
	if rows := m.Doc.Devices(); len(rows) != 1 || rows[0].ID != "L1" {
		t.Errorf("rows = %+v, want only L1", rows)
	}
}

func TestModel_RemoveFromSearchDropsRow(t *testing.T) {
	home, client := newFakeServer(t)
	m := poll(t, newTestModel(client))

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, cmd := update(t, m, runes("l"))
	due, n := find[dashboard.SearchDueMsg](collect(cmd))
	if n != 1 {
		t.Fatalf("typing produced %d debounce timers, want 1", n)
	}
	m, cmd = update(t, m, due)
	res, n := find[dashboard.SearchResultMsg](collect(cmd))
	if n != 1 {
		t.Fatalf("debounce produced %d searches, want 1", n)
	}
	m, _ = update(t, m, res)
	if len(m.Doc.Search.Rows) != 1 {
		t.Fatalf("search rows = %+v, want the lamp", m.Doc.Search.Rows)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDelete})
	m, cmd = update(t, m, runes("y"))
	result, n := find[dashboard.CommandResultMsg](collect(cmd))
	if n != 1 || result.Err != nil || result.Target != "L1" {
		t.Fatalf("removal = %+v (%d), want success for L1", result, n)
	}
	if got := home.hitCount("/api/devices/remove"); got != 1 {
		t.Errorf("remove hits = %d, want 1", got)
	}

	m, _ = update(t, m, result)
	if len(m.Doc.Search.Rows) != 0 {
		t.Errorf("search rows = %+v, want none after removal", m.Doc.Search.Rows)
	}
	if strings.Contains(m.View(), "Lamp (Light) Room") {
		t.Error("removed device still listed in search results")
	}
}
