package dashboard

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/muurk/homedash/internal/homeapi"
)

func TestPresetPlan(t *testing.T) {
	snap := testSnapshot()

	heat, ok := LookupPreset("Heat6AM")
	if !ok {
		t.Fatal("Heat6AM preset missing")
	}
	reqs := heat.Plan(snap)
	if len(reqs) != 1 || reqs[0].DeviceID != "T1" || reqs[0].Value != "ON|06:00" || reqs[0].Action != "setSchedule" {
		t.Errorf("Heat6AM plan = %+v", reqs)
	}

	sensors, _ := LookupPreset("CheckSensors")
	if got := sensors.Plan(snap); len(got) != 0 {
		t.Errorf("CheckSensors plan = %+v, want none", got)
	}

	if _, ok := LookupPreset("Party"); ok {
		t.Error("unknown preset should not resolve")
	}
}

func TestApplyPreset(t *testing.T) {
	home, client := newFakeHome(t)
	home.mu.Lock()
	home.snap.Rooms[1].Devices = append(home.snap.Rooms[1].Devices,
		homeapi.Device{ID: "L2", Name: "Porch", Type: homeapi.TypeLight, Status: "OFF"})
	home.mu.Unlock()

	lights, _ := LookupPreset("Lights8PM")
	n, err := ApplyPreset(context.Background(), client, lights)
	if err != nil {
		t.Fatalf("ApplyPreset() error = %v", err)
	}
	if n != 2 {
		t.Errorf("scheduled %d devices, want 2", n)
	}

	home.mu.Lock()
	var ids []string
	for _, c := range home.controls {
		if c.Value != "off|20:00" {
			t.Errorf("control value = %q, want off|20:00", c.Value)
		}
		ids = append(ids, c.DeviceID)
	}
	home.mu.Unlock()
	sort.Strings(ids)
	if len(ids) != 2 || ids[0] != "L1" || ids[1] != "L2" {
		t.Errorf("scheduled ids = %v", ids)
	}
}

func TestApplyPresetCommandNotice(t *testing.T) {
	_, client := newFakeHome(t)
	cmds := NewCommandClient(client, time.Second, nil)

	heat, _ := LookupPreset("Heat6AM")
	msg := cmds.ApplyPreset(heat)().(CommandResultMsg)
	if msg.Err != nil {
		t.Fatalf("ApplyPreset error = %v", msg.Err)
	}
	if msg.Notice != "Preset 'Heat6AM' applied to matching devices." {
		t.Errorf("Notice = %q", msg.Notice)
	}
}

func TestApplyPresetFetchFailure(t *testing.T) {
	home, client := newFakeHome(t)
	home.fail(1)

	heat, _ := LookupPreset("Heat6AM")
	if _, err := ApplyPreset(context.Background(), client, heat); !homeapi.IsHTTPError(err) {
		t.Errorf("error = %v, want HTTP error", err)
	}
}
