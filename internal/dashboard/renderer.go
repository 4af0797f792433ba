package dashboard

import (
	"fmt"

	"github.com/muurk/homedash/internal/homeapi"
	"github.com/muurk/homedash/internal/status"
)

// Renderer maps a snapshot onto a document.
type Renderer interface {
	Render(doc *Document, snap *homeapi.Snapshot)
}

// SnapshotRenderer is the Renderer used by the dashboard.
type SnapshotRenderer struct {
	parser status.Parser
}

// NewRenderer returns a renderer that derives controls with parser.
func NewRenderer(parser status.Parser) *SnapshotRenderer {
	return &SnapshotRenderer{parser: parser}
}

// Render replaces the room cards and rule lists wholesale and reconciles the
// selectors so a user's choice survives the refresh. Rendering the same
// snapshot twice leaves the document unchanged.
func (r *SnapshotRenderer) Render(doc *Document, snap *homeapi.Snapshot) {
	doc.TotalEnergy = fmt.Sprintf("%.2f W", snap.TotalEnergy)

	rooms := make([]RoomCard, 0, len(snap.Rooms))
	for _, room := range snap.Rooms {
		card := RoomCard{
			Name:    room.Name,
			Energy:  fmt.Sprintf("%.1f W", room.Energy()),
			Devices: make([]DeviceRow, 0, len(room.Devices)),
		}
		for _, d := range room.Devices {
			card.Devices = append(card.Devices, r.deviceRow(d))
		}
		rooms = append(rooms, card)
	}
	doc.Rooms = rooms

	rules := ruleList(snap.Rules)
	doc.DashboardRules = rules
	doc.ManageRules = ruleList(snap.Rules)

	Reconcile(doc.RoomSelect, roomOptions(snap))
	devices := deviceOptions(snap)
	Reconcile(doc.TriggerSelect, devices)
	Reconcile(doc.TargetSelect, devices)

	doc.Rendered = true
}

func (r *SnapshotRenderer) deviceRow(d homeapi.Device) DeviceRow {
	on := r.parser.IsOn(d.Status)
	row := DeviceRow{
		ID:          d.ID,
		Name:        d.Name,
		Type:        d.Type,
		Status:      d.Status,
		On:          on,
		Energy:      fmt.Sprintf("%.1f W", d.Energy),
		StatusClass: "status-off",
		ToggleLabel: "OFF",
		ToggleClass: "btn-off",
	}
	if on {
		row.StatusClass = "status-on"
		row.ToggleLabel = "ON"
		row.ToggleClass = "btn-on"
	}
	if c, ok := r.parser.Control(d.Type, d.Status); ok {
		row.Control = &c
	}
	return row
}

func ruleList(rules []homeapi.Rule) RuleList {
	if len(rules) == 0 {
		return RuleList{Empty: true}
	}
	items := make([]RuleItem, len(rules))
	for i, rule := range rules {
		items[i] = RuleItem{
			Name:        rule.Name,
			Description: rule.Description,
			State:       homeapi.FormatRuleState(rule.Active),
			Class:       "rule-inactive",
		}
		if rule.Active {
			items[i].Class = "rule-active"
		}
	}
	return RuleList{Items: items}
}

func roomOptions(snap *homeapi.Snapshot) []Option {
	opts := make([]Option, len(snap.Rooms))
	for i, room := range snap.Rooms {
		opts[i] = Option{Value: room.Name, Label: room.Name}
	}
	return opts
}

func deviceOptions(snap *homeapi.Snapshot) []Option {
	all := snap.AllDevices()
	opts := make([]Option, len(all))
	for i, l := range all {
		opts[i] = Option{Value: l.Device.ID, Label: fmt.Sprintf("%s (%s)", l.Device.Name, l.Room)}
	}
	return opts
}
