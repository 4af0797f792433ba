package dashboard

import (
	"testing"
	"time"

	"github.com/muurk/homedash/internal/homeapi"
	"github.com/muurk/homedash/internal/status"
)

func TestToggleRoundTrip(t *testing.T) {
	home, client := newFakeHome(t)
	obs := &recordingObserver{}
	cmds := NewCommandClient(client, time.Second, obs)
	p := NewPoller(client, time.Second, time.Second, obs)
	r := NewRenderer(status.New())
	doc := NewDocument()

	msg := p.Fetch()().(SnapshotMsg)
	p.Receive(msg)
	r.Render(doc, msg.Snapshot)
	if row, _ := doc.Device("L1"); row.ToggleLabel != "OFF" {
		t.Fatalf("lamp starts %q, want OFF", row.ToggleLabel)
	}

	result := cmds.Toggle("L1")().(CommandResultMsg)
	if result.Err != nil {
		t.Fatalf("Toggle error = %v", result.Err)
	}
	if result.Op != OpToggle || result.Target != "L1" {
		t.Errorf("result = %+v", result)
	}

	msg = p.Fetch()().(SnapshotMsg)
	if p.Receive(msg) {
		r.Render(doc, msg.Snapshot)
	}

	row, _ := doc.Device("L1")
	if row.StatusClass != "status-on" || row.ToggleLabel != "ON" {
		t.Errorf("lamp after toggle = %+v", row)
	}
	if got := home.count("/api/stats"); got != 2 {
		t.Errorf("stats requests = %d, want 2", got)
	}
	if obs.commands["toggle:ok"] != 1 {
		t.Errorf("observed commands = %v", obs.commands)
	}
}

func TestCommandFailureCarriesServerMessage(t *testing.T) {
	home, client := newFakeHome(t)
	cmds := NewCommandClient(client, time.Second, nil)

	result := cmds.AddRoom("Hall")().(CommandResultMsg)
	if result.Err == nil {
		t.Fatal("expected error for duplicate room")
	}
	if got := homeapi.UserMessage(result.Err); got != "Room already exists" {
		t.Errorf("UserMessage() = %q", got)
	}
	if result.Op.FailureTitle() != "Error adding room" {
		t.Errorf("FailureTitle() = %q", result.Op.FailureTitle())
	}
	if got := home.count("/api/rooms/add"); got != 1 {
		t.Errorf("add requests = %d, want 1", got)
	}
}

func TestCommandValidationSkipsRequest(t *testing.T) {
	home, client := newFakeHome(t)
	cmds := NewCommandClient(client, time.Second, nil)

	tests := []struct {
		name string
		msg  CommandResultMsg
	}{
		{"empty room", cmds.AddRoom("  ")().(CommandResultMsg)},
		{"device without room", cmds.AddDevice("", "Lamp", homeapi.TypeLight)().(CommandResultMsg)},
		{"incomplete rule", cmds.AddRule(homeapi.RuleRequest{Name: "x"})().(CommandResultMsg)},
		{"bad time", cmds.CheckSchedule("25:00")().(CommandResultMsg)},
		{"empty id", cmds.Toggle("")().(CommandResultMsg)},
	}
	for _, tt := range tests {
		if !homeapi.IsValidationError(tt.msg.Err) {
			t.Errorf("%s: error = %v, want validation error", tt.name, tt.msg.Err)
		}
	}

	for _, path := range []string{"/api/rooms/add", "/api/devices/add", "/api/rules/add", "/api/schedule/check", "/api/control"} {
		if n := home.count(path); n != 0 {
			t.Errorf("%s hit %d times, want 0", path, n)
		}
	}
}

func TestSetAttributeSendsValue(t *testing.T) {
	home, client := newFakeHome(t)
	cmds := NewCommandClient(client, time.Second, nil)

	if msg := cmds.SetAttribute("T1", homeapi.ActionSetTargetTemperature, "25")().(CommandResultMsg); msg.Err != nil {
		t.Fatalf("SetAttribute error = %v", msg.Err)
	}
	if msg := cmds.SetPower("T1", false)().(CommandResultMsg); msg.Err != nil || msg.Op != OpOff {
		t.Fatalf("SetPower = %+v", msg)
	}

	home.mu.Lock()
	defer home.mu.Unlock()
	if len(home.controls) != 2 {
		t.Fatalf("controls = %+v", home.controls)
	}
	if c := home.controls[0]; c.Action != "setTargetTemperature" || c.Value != "25" {
		t.Errorf("first control = %+v", c)
	}
	if c := home.controls[1]; c.Action != "off" || c.Value != "" {
		t.Errorf("second control = %+v", c)
	}
}
