package dashboard

import (
	"fmt"
	"strings"

	"github.com/muurk/homedash/internal/homeapi"
	"github.com/muurk/homedash/internal/status"
)

// Placeholders shown when a list is empty.
const (
	NoRulesText       = "No active rules."
	NoResultsText     = "No devices found."
	RoomPlaceholder   = "Select a room..."
	DevicePlaceholder = "Select device..."
)

// Document is the view model the dashboard draws. Renderer owns everything
// except the selectors' chosen values and the search panel, which carry
// user state across renders.
type Document struct {
	Connection  Connectivity
	TotalEnergy string
	Rooms       []RoomCard

	// Rules appear in the dashboard panel and in the management panel.
	DashboardRules RuleList
	ManageRules    RuleList

	RoomSelect    *Select
	TriggerSelect *Select
	TargetSelect  *Select

	Search SearchPanel

	// Rendered is false until the first snapshot has been applied.
	Rendered bool
}

// NewDocument returns an empty document with placeholder selectors.
func NewDocument() *Document {
	return &Document{
		RoomSelect:     NewSelect(RoomPlaceholder),
		TriggerSelect:  NewSelect(DevicePlaceholder),
		TargetSelect:   NewSelect(DevicePlaceholder),
		DashboardRules: RuleList{Empty: true},
		ManageRules:    RuleList{Empty: true},
	}
}

// RoomCard is one room with its energy sum and devices.
type RoomCard struct {
	Name    string
	Energy  string
	Devices []DeviceRow
}

// DeviceRow is a single rendered device.
type DeviceRow struct {
	ID          string
	Name        string
	Type        homeapi.DeviceType
	Status      string
	StatusClass string // status-on or status-off
	On          bool
	Control     *status.Control
	Energy      string
	ToggleLabel string // ON or OFF
	ToggleClass string // btn-on or btn-off
}

// RuleList is one rendering of the rule sequence.
type RuleList struct {
	Items []RuleItem
	Empty bool
}

// RuleItem is one rendered rule.
type RuleItem struct {
	Name        string
	Description string
	State       string // ACTIVE or INACTIVE
	Class       string // rule-active or rule-inactive
}

// SearchRow is one rendered search hit.
type SearchRow struct {
	ID   string
	Name string
	Type string
	Room string
}

// SearchPanel holds the rendered search results. Cleared panels show
// nothing; a completed search with no hits shows NoResultsText.
type SearchPanel struct {
	Query   string
	Rows    []SearchRow
	Shown   bool
	Pending bool
}

// Drop removes the row for a device the server confirmed deleted. It reports
// whether a row was removed.
func (p *SearchPanel) Drop(id string) bool {
	for i, row := range p.Rows {
		if row.ID == id {
			p.Rows = append(p.Rows[:i:i], p.Rows[i+1:]...)
			return true
		}
	}
	return false
}

// Devices returns every rendered device row in display order.
func (d *Document) Devices() []DeviceRow {
	var out []DeviceRow
	for _, r := range d.Rooms {
		out = append(out, r.Devices...)
	}
	return out
}

// Device finds a rendered row by id.
func (d *Document) Device(id string) (DeviceRow, bool) {
	for _, r := range d.Rooms {
		for _, row := range r.Devices {
			if row.ID == id {
				return row, true
			}
		}
	}
	return DeviceRow{}, false
}

// Text returns a plain-text dump of everything visible. Two documents with
// equal Text look identical on screen.
func (d *Document) Text() string {
	var b strings.Builder

	fmt.Fprintf(&b, "connection: %s\n", d.Connection.Label())
	fmt.Fprintf(&b, "total-energy: %s\n", d.TotalEnergy)

	for _, r := range d.Rooms {
		fmt.Fprintf(&b, "room %s [%s]\n", r.Name, r.Energy)
		for _, row := range r.Devices {
			fmt.Fprintf(&b, "  device %s %s (%s) %s", row.ID, row.Name, row.StatusClass, row.Status)
			if row.Control != nil {
				fmt.Fprintf(&b, " %s %s [%s..%s]", row.Control.Icon, row.Control.Label(),
					status.FormatValue(row.Control.Min), status.FormatValue(row.Control.Max))
			}
			fmt.Fprintf(&b, " %s <%s %s> <remove>\n", row.Energy, row.ToggleClass, row.ToggleLabel)
		}
	}

	writeRules(&b, "dashboard-rules", d.DashboardRules)
	writeRules(&b, "rules", d.ManageRules)

	for _, sel := range []struct {
		name string
		s    *Select
	}{
		{"room-select", d.RoomSelect},
		{"trigger-device", d.TriggerSelect},
		{"target-device", d.TargetSelect},
	} {
		if sel.s == nil {
			continue
		}
		fmt.Fprintf(&b, "%s: %q [", sel.name, sel.s.Value)
		for i, o := range sel.s.Options {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%s", o.Value, o.Label)
		}
		b.WriteString("]\n")
	}

	if d.Search.Shown {
		if len(d.Search.Rows) == 0 {
			fmt.Fprintf(&b, "search: %s\n", NoResultsText)
		}
		for _, row := range d.Search.Rows {
			fmt.Fprintf(&b, "search: %s (%s) Room: %s <remove %s>\n", row.Name, row.Type, row.Room, row.ID)
		}
	}

	return b.String()
}

func writeRules(b *strings.Builder, name string, list RuleList) {
	if list.Empty {
		fmt.Fprintf(b, "%s: %s\n", name, NoRulesText)
		return
	}
	for _, r := range list.Items {
		fmt.Fprintf(b, "%s: %s %s (%s)\n", name, r.Name, r.State, r.Class)
	}
}
