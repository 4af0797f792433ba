package dashboard

import (
	"strings"
	"testing"

	"github.com/muurk/homedash/internal/homeapi"
	"github.com/muurk/homedash/internal/status"
)

func testSnapshot() *homeapi.Snapshot {
	return &homeapi.Snapshot{
		TotalEnergy: 70.5,
		Rooms: []homeapi.Room{
			{Name: "Living Room", Devices: []homeapi.Device{
				{ID: "L1", Name: "Lamp", Type: homeapi.TypeLight, Status: "ON | Brightness: 45%", Energy: 9.5},
				{ID: "T1", Name: "Heater", Type: homeapi.TypeThermostat, Status: "OFF", Energy: 60},
			}},
			{Name: "Hall", Devices: []homeapi.Device{
				{ID: "TV", Name: "Telly", Type: homeapi.TypeSmartTV, Status: "off-duty", Energy: 1},
			}},
		},
		Rules: []homeapi.Rule{
			{Name: "Night", Active: true},
			{Name: "Away", Active: false},
		},
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	r := NewRenderer(status.New())
	doc := NewDocument()
	snap := testSnapshot()

	r.Render(doc, snap)
	first := doc.Text()
	rebuilds := doc.TriggerSelect.Rebuilds

	r.Render(doc, snap)
	if got := doc.Text(); got != first {
		t.Errorf("second render differs:\n--- first\n%s\n--- second\n%s", first, got)
	}
	if doc.TriggerSelect.Rebuilds != rebuilds {
		t.Errorf("Rebuilds = %d, want %d", doc.TriggerSelect.Rebuilds, rebuilds)
	}
	if len(doc.Rooms) != 2 {
		t.Errorf("rooms = %d, want 2 (replaced, not appended)", len(doc.Rooms))
	}
}

func TestRenderDeviceRows(t *testing.T) {
	doc := NewDocument()
	NewRenderer(status.New()).Render(doc, testSnapshot())

	if doc.TotalEnergy != "70.50 W" {
		t.Errorf("TotalEnergy = %q, want 70.50 W", doc.TotalEnergy)
	}
	if doc.Rooms[0].Energy != "69.5 W" {
		t.Errorf("room energy = %q, want 69.5 W", doc.Rooms[0].Energy)
	}

	lamp, _ := doc.Device("L1")
	if lamp.StatusClass != "status-on" || lamp.ToggleLabel != "ON" || lamp.ToggleClass != "btn-on" {
		t.Errorf("lamp row = %+v", lamp)
	}
	if lamp.Control == nil || lamp.Control.Label() != "45%" {
		t.Errorf("lamp control = %+v", lamp.Control)
	}
	if lamp.Energy != "9.5 W" {
		t.Errorf("lamp energy = %q", lamp.Energy)
	}

	heater, _ := doc.Device("T1")
	if heater.StatusClass != "status-off" || heater.ToggleLabel != "OFF" {
		t.Errorf("heater row = %+v", heater)
	}
	if heater.Control == nil || heater.Control.Label() != "22°C" {
		t.Errorf("heater control = %+v", heater.Control)
	}

	tv, _ := doc.Device("TV")
	if tv.Control != nil {
		t.Error("SmartTV should have no control")
	}
	if tv.On {
		t.Error("off-duty should render off")
	}
}

func TestRenderRules(t *testing.T) {
	doc := NewDocument()
	r := NewRenderer(status.New())
	r.Render(doc, testSnapshot())

	for _, list := range []RuleList{doc.DashboardRules, doc.ManageRules} {
		if list.Empty || len(list.Items) != 2 {
			t.Fatalf("rule list = %+v", list)
		}
		if list.Items[0].State != "ACTIVE" || list.Items[0].Class != "rule-active" {
			t.Errorf("first rule = %+v", list.Items[0])
		}
		if list.Items[1].State != "INACTIVE" || list.Items[1].Class != "rule-inactive" {
			t.Errorf("second rule = %+v", list.Items[1])
		}
	}

	snap := testSnapshot()
	snap.Rules = nil
	r.Render(doc, snap)
	if !doc.DashboardRules.Empty || !doc.ManageRules.Empty {
		t.Error("empty rules should render the placeholder in both lists")
	}
	if got := strings.Count(doc.Text(), NoRulesText); got != 2 {
		t.Errorf("placeholder count = %d, want 2", got)
	}
}

func TestRenderSelectors(t *testing.T) {
	doc := NewDocument()
	r := NewRenderer(status.New())
	r.Render(doc, testSnapshot())

	if got := doc.RoomSelect.Values(); strings.Join(got, ",") != "Living Room,Hall" {
		t.Errorf("room values = %v", got)
	}
	if doc.TriggerSelect.Options[2].Label != "Telly (Hall)" {
		t.Errorf("device label = %q, want Telly (Hall)", doc.TriggerSelect.Options[2].Label)
	}

	doc.RoomSelect.Choose("Hall")
	doc.TargetSelect.Choose("T1")
	doc.TriggerSelect.Choose("TV")

	// The TV disappears and a room is added.
	snap := testSnapshot()
	snap.Rooms[1].Devices = nil
	snap.Rooms = append(snap.Rooms, homeapi.Room{Name: "Attic"})
	r.Render(doc, snap)

	if doc.RoomSelect.Value != "Hall" {
		t.Errorf("room selection = %q, want Hall", doc.RoomSelect.Value)
	}
	if doc.TargetSelect.Value != "T1" {
		t.Errorf("target selection = %q, want T1", doc.TargetSelect.Value)
	}
	if doc.TriggerSelect.Value != "" {
		t.Errorf("trigger selection = %q, want placeholder", doc.TriggerSelect.Value)
	}
	if doc.RoomSelect.Rebuilds != 2 || doc.TriggerSelect.Rebuilds != 2 {
		t.Errorf("rebuilds = %d/%d, want 2/2", doc.RoomSelect.Rebuilds, doc.TriggerSelect.Rebuilds)
	}
}

func TestRenderKeepsSearchPanel(t *testing.T) {
	doc := NewDocument()
	doc.Search = SearchPanel{Query: "lam", Shown: true, Rows: []SearchRow{{ID: "L1", Name: "Lamp"}}}

	NewRenderer(status.New()).Render(doc, testSnapshot())
	if len(doc.Search.Rows) != 1 {
		t.Error("render must not touch search results")
	}
}
