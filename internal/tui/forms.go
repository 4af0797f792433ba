package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/homedash/internal/dashboard"
	"github.com/muurk/homedash/internal/homeapi"
)

// field is a focusable control on the manage pane.
type field int

const (
	fieldRoomName field = iota
	fieldDeviceRoom
	fieldDeviceName
	fieldDeviceType
	fieldRuleName
	fieldRuleTrigger
	fieldRuleTriggerState
	fieldRuleTarget
	fieldRuleAction
	fieldScheduleTime
	fieldPreset
	fieldCount
)

// form groups fields that are submitted together.
type form int

const (
	formRoom form = iota
	formDevice
	formRule
	formSchedule
	formPreset
)

func (f field) form() form {
	switch {
	case f == fieldRoomName:
		return formRoom
	case f <= fieldDeviceType:
		return formDevice
	case f <= fieldRuleAction:
		return formRule
	case f == fieldScheduleTime:
		return formSchedule
	default:
		return formPreset
	}
}

var fieldLabels = map[field]string{
	fieldRoomName:         "Room name",
	fieldDeviceRoom:       "Room",
	fieldDeviceName:       "Device name",
	fieldDeviceType:       "Type",
	fieldRuleName:         "Rule name",
	fieldRuleTrigger:      "When device",
	fieldRuleTriggerState: "Turns",
	fieldRuleTarget:       "Then device",
	fieldRuleAction:       "Action",
	fieldScheduleTime:     "Time (HH:MM)",
	fieldPreset:           "Preset",
}

// manageForm holds the add/create forms. The room, trigger and target
// selectors live on the document so refreshes reconcile them.
type manageForm struct {
	focus field

	roomName     textinput.Model
	deviceName   textinput.Model
	ruleName     textinput.Model
	scheduleTime textinput.Model

	deviceType   *dashboard.Select
	triggerState *dashboard.Select
	ruleAction   *dashboard.Select
	preset       *dashboard.Select
}

func newTextInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Width = 30
	in.Prompt = ""
	return in
}

func newManageForm() manageForm {
	types := make([]dashboard.Option, len(homeapi.CreatableTypes))
	for i, t := range homeapi.CreatableTypes {
		types[i] = dashboard.Option{Value: string(t), Label: string(t)}
	}
	states := make([]dashboard.Option, len(homeapi.TriggerStates))
	for i, s := range homeapi.TriggerStates {
		states[i] = dashboard.Option{Value: s, Label: s}
	}
	actions := []dashboard.Option{
		{Value: "turnOn", Label: "Turn On"},
		{Value: "turnOff", Label: "Turn Off"},
	}
	presets := make([]dashboard.Option, len(dashboard.Presets))
	for i, p := range dashboard.Presets {
		presets[i] = dashboard.Option{Value: p.Name, Label: p.Name}
	}

	scheduleTime := newTextInput("18:30", 5)

	return manageForm{
		roomName:     newTextInput("Kitchen", 64),
		deviceName:   newTextInput("Ceiling Light", 64),
		ruleName:     newTextInput("Night mode", 64),
		scheduleTime: scheduleTime,
		deviceType:   dashboard.NewSelect("Select type...", types...),
		triggerState: dashboard.NewSelect("Select state...", states...),
		ruleAction:   dashboard.NewSelect("Select action...", actions...),
		preset:       dashboard.NewSelect("Select preset...", presets...),
	}
}

// input returns the text input for f, or nil for selector fields.
func (f *manageForm) input(fl field) *textinput.Model {
	switch fl {
	case fieldRoomName:
		return &f.roomName
	case fieldDeviceName:
		return &f.deviceName
	case fieldRuleName:
		return &f.ruleName
	case fieldScheduleTime:
		return &f.scheduleTime
	}
	return nil
}

// selector returns the dropdown for fl, or nil for text fields.
func (m *Model) selector(fl field) *dashboard.Select {
	switch fl {
	case fieldDeviceRoom:
		return m.Doc.RoomSelect
	case fieldDeviceType:
		return m.form.deviceType
	case fieldRuleTrigger:
		return m.Doc.TriggerSelect
	case fieldRuleTriggerState:
		return m.form.triggerState
	case fieldRuleTarget:
		return m.Doc.TargetSelect
	case fieldRuleAction:
		return m.form.ruleAction
	case fieldPreset:
		return m.form.preset
	}
	return nil
}

// focusField moves focus to fl and returns the cursor blink command.
func (m *Model) focusField(fl field) tea.Cmd {
	fl = ((fl % fieldCount) + fieldCount) % fieldCount
	for i := field(0); i < fieldCount; i++ {
		if in := m.form.input(i); in != nil {
			in.Blur()
		}
	}
	m.form.focus = fl
	if in := m.form.input(fl); in != nil {
		return in.Focus()
	}
	return nil
}

func (m *Model) blurForm() {
	for i := field(0); i < fieldCount; i++ {
		if in := m.form.input(i); in != nil {
			in.Blur()
		}
	}
}

// submit sends the form the focused field belongs to.
func (m *Model) submit() tea.Cmd {
	f := &m.form
	switch f.focus.form() {
	case formRoom:
		return m.commands.AddRoom(strings.TrimSpace(f.roomName.Value()))
	case formDevice:
		return m.commands.AddDevice(
			m.Doc.RoomSelect.Value,
			strings.TrimSpace(f.deviceName.Value()),
			homeapi.DeviceType(f.deviceType.Value),
		)
	case formRule:
		return m.commands.AddRule(homeapi.RuleRequest{
			Name:          strings.TrimSpace(f.ruleName.Value()),
			TriggerDevice: m.Doc.TriggerSelect.Value,
			TriggerState:  f.triggerState.Value,
			TargetDevice:  m.Doc.TargetSelect.Value,
			Action:        f.ruleAction.Value,
		})
	case formSchedule:
		return m.commands.CheckSchedule(strings.TrimSpace(f.scheduleTime.Value()))
	case formPreset:
		p, ok := dashboard.LookupPreset(f.preset.Value)
		if !ok {
			m.notice = &notice{Title: "Presets", Body: "Please select a preset", Error: true}
			return nil
		}
		return m.commands.ApplyPreset(p)
	}
	return nil
}

// resetForm clears the inputs of the form that produced op.
func (m *Model) resetForm(op dashboard.Op) {
	f := &m.form
	switch op {
	case dashboard.OpAddRoom:
		f.roomName.Reset()
	case dashboard.OpAddDevice:
		f.deviceName.Reset()
		f.deviceType.Reset()
		m.Doc.RoomSelect.Reset()
	case dashboard.OpAddRule:
		f.ruleName.Reset()
		f.triggerState.Reset()
		f.ruleAction.Reset()
		m.Doc.TriggerSelect.Reset()
		m.Doc.TargetSelect.Reset()
	case dashboard.OpPreset:
		f.preset.Reset()
	}
}
