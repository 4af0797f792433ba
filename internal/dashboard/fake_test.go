package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/muurk/homedash/internal/homeapi"
)

// fakeHome is an in-memory server speaking the dashboard API.
type fakeHome struct {
	mu       sync.Mutex
	snap     homeapi.Snapshot
	failNext int
	hits     map[string]int
	controls []homeapi.ControlRequest
	queries  []string
}

func newFakeHome(t *testing.T) (*fakeHome, *homeapi.Client) {
	t.Helper()
	h := &fakeHome{
		hits: map[string]int{},
		snap: homeapi.Snapshot{
			TotalEnergy: 70.5,
			Rooms: []homeapi.Room{
				{Name: "Living Room", Devices: []homeapi.Device{
					{ID: "L1", Name: "Lamp", Type: homeapi.TypeLight, Status: "OFF", Energy: 0},
					{ID: "T1", Name: "Heater", Type: homeapi.TypeThermostat, Status: "ON | Target: 24.5°C", Energy: 60},
				}},
				{Name: "Hall", Devices: []homeapi.Device{
					{ID: "M1", Name: "Sensor", Type: homeapi.TypeMotionSensor, Status: "ON", Energy: 10.5},
				}},
			},
			Rules: []homeapi.Rule{{Name: "Night", Active: true}},
		},
	}
	server := httptest.NewServer(http.HandlerFunc(h.serve))
	t.Cleanup(server.Close)
	return h, homeapi.NewClientWithURL(server.URL)
}

func (h *fakeHome) serve(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.hits[r.URL.Path]++
	if h.failNext > 0 {
		h.failNext--
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	q := r.URL.Query()
	switch r.URL.Path {
	case "/api/stats":
		_ = json.NewEncoder(w).Encode(h.snap)
	case "/api/control":
		req := homeapi.ControlRequest{DeviceID: q.Get("id"), Action: q.Get("action"), Value: q.Get("value")}
		h.controls = append(h.controls, req)
		if req.Action == homeapi.ActionToggle {
			h.toggle(req.DeviceID)
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	case "/api/devices/search":
		h.queries = append(h.queries, q.Get("q"))
		var out []homeapi.SearchResult
		for _, l := range h.snap.AllDevices() {
			if strings.Contains(strings.ToLower(l.Device.Name), strings.ToLower(q.Get("q"))) {
				out = append(out, homeapi.SearchResult{ID: l.Device.ID, Name: l.Device.Name, Type: l.Device.Type, Room: l.Room})
			}
		}
		if out == nil {
			out = []homeapi.SearchResult{}
		}
		_ = json.NewEncoder(w).Encode(out)
	case "/api/rooms/add":
		if q.Get("name") == "Hall" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"Room already exists"}`))
			return
		}
		h.snap.Rooms = append(h.snap.Rooms, homeapi.Room{Name: q.Get("name")})
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *fakeHome) toggle(id string) {
	for ri := range h.snap.Rooms {
		for di := range h.snap.Rooms[ri].Devices {
			d := &h.snap.Rooms[ri].Devices[di]
			if d.ID != id {
				continue
			}
			if d.Status == "OFF" {
				d.Status = "ON"
			} else {
				d.Status = "OFF"
			}
		}
	}
}

func (h *fakeHome) count(path string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hits[path]
}

func (h *fakeHome) searches() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.queries...)
}

func (h *fakeHome) fail(n int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failNext = n
}
