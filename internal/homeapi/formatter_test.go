package homeapi

import (
	"strings"
	"testing"
)

func sampleSnapshot() *Snapshot {
	return &Snapshot{
		TotalEnergy: 12.5,
		Rooms: []Room{
			{Name: "Kitchen", Devices: []Device{
				{ID: "L1", Name: "Lamp", Type: TypeLight, Status: "ON", Energy: 5.25},
				{ID: "T1", Name: "Heat", Type: TypeThermostat, Status: "OFF", Energy: 7.25},
			}},
			{Name: "Empty"},
		},
		Rules: []Rule{{Name: "Night", Description: "If M1 ON then L1 turnOn", Active: false}},
	}
}

func TestSummary(t *testing.T) {
	if got := sampleSnapshot().Summary(); got != "2 rooms, 2 devices, 1 rules, 12.50 W" {
		t.Errorf("Summary() = %q", got)
	}
}

func TestRoomEnergy(t *testing.T) {
	if got := sampleSnapshot().Rooms[0].Energy(); got != 12.5 {
		t.Errorf("Energy() = %v, want 12.5", got)
	}
}

func TestFormatCompact(t *testing.T) {
	out := sampleSnapshot().FormatCompact()

	for _, want := range []string{"Total: 12.50 W", "Kitchen (12.5 W)", "Empty (0.0 W)", "Night (INACTIVE)"} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatCompact() missing %q:\n%s", want, out)
		}
	}
}

func TestFormatDetailed(t *testing.T) {
	out := sampleSnapshot().FormatDetailed()

	for _, want := range []string{"HOME DASHBOARD STATE", "Total Consumption: 12.50 W", "(no devices)", "If M1 ON then L1 turnOn"} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatDetailed() missing %q", want)
		}
	}

	empty := (&Snapshot{}).FormatDetailed()
	if !strings.Contains(empty, "No active rules.") {
		t.Error("empty rule list should show placeholder")
	}
}

func TestFormatSearchResults(t *testing.T) {
	if got := FormatSearchResults(nil); got != "No devices found.\n" {
		t.Errorf("FormatSearchResults(nil) = %q", got)
	}
	got := FormatSearchResults([]SearchResult{{ID: "L1", Name: "Lamp", Type: TypeLight, Room: "Kitchen"}})
	if got != "Lamp (Light)  Room: Kitchen  id=L1\n" {
		t.Errorf("FormatSearchResults() = %q", got)
	}
}
