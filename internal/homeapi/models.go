package homeapi

import "strings"

// DeviceType is the device category reported by the server.
type DeviceType string

const (
	TypeLight        DeviceType = "Light"
	TypeThermostat   DeviceType = "Thermostat"
	TypeMotionSensor DeviceType = "MotionSensor"
	TypeSmartTV      DeviceType = "SmartTV"
	TypeSmartAlarm   DeviceType = "SmartAlarm"
)

// CreatableTypes lists the device types the server accepts on add.
var CreatableTypes = []DeviceType{
	TypeLight,
	TypeThermostat,
	TypeMotionSensor,
	TypeSmartTV,
	TypeSmartAlarm,
}

// HasControl reports whether the type carries an adjustable attribute.
// Every other type is treated as "Other" and only exposes on/off.
func (t DeviceType) HasControl() bool {
	switch t {
	case TypeLight, TypeThermostat, TypeMotionSensor:
		return true
	}
	return false
}

// Snapshot is the full home state returned by GET /api/stats.
// A snapshot is never mutated after decoding; the next poll replaces it.
type Snapshot struct {
	TotalEnergy float64 `json:"totalEnergy"`
	Rooms       []Room  `json:"rooms"`
	Rules       []Rule  `json:"rules"`
}

// Room groups devices. Room names are unique and used as selection keys.
type Room struct {
	Name    string   `json:"name"`
	Devices []Device `json:"devices"`
}

// Energy returns the summed draw of all devices in the room.
func (r Room) Energy() float64 {
	var sum float64
	for _, d := range r.Devices {
		sum += d.Energy
	}
	return sum
}

// Device is a single controllable device. Status is free text.
type Device struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Type   DeviceType `json:"type"`
	Status string     `json:"status"`
	Energy float64    `json:"energy"`
}

// Rule is an automation rule summary.
type Rule struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
}

// SearchResult is one row of GET /api/devices/search.
type SearchResult struct {
	ID   string     `json:"id"`
	Name string     `json:"name"`
	Type DeviceType `json:"type"`
	Room string     `json:"room"`
}

// Located pairs a device with the room it lives in.
type Located struct {
	Room   string
	Device Device
}

// AllDevices flattens the snapshot in room order.
func (s *Snapshot) AllDevices() []Located {
	if s == nil {
		return nil
	}
	var out []Located
	for _, r := range s.Rooms {
		for _, d := range r.Devices {
			out = append(out, Located{Room: r.Name, Device: d})
		}
	}
	return out
}

// FindDevice looks a device up by id.
func (s *Snapshot) FindDevice(id string) (Located, bool) {
	for _, l := range s.AllDevices() {
		if l.Device.ID == id {
			return l, true
		}
	}
	return Located{}, false
}

// DeviceCount returns the number of devices across all rooms.
func (s *Snapshot) DeviceCount() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, r := range s.Rooms {
		n += len(r.Devices)
	}
	return n
}

// Result is the envelope returned by every mutating endpoint.
//
//	{"status":"ok","message":"..."}
//	{"error":"..."}
type Result struct {
	Status   string `json:"status,omitempty"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
	NewState string `json:"newState,omitempty"`
}

// OK reports whether the server acknowledged the operation.
func (r *Result) OK() bool {
	return r != nil && strings.EqualFold(r.Status, "ok")
}

// RuleRequest is the JSON body of POST /api/rules/add.
type RuleRequest struct {
	Name          string `json:"name"`
	TriggerDevice string `json:"triggerDevice"`
	TriggerState  string `json:"triggerState"`
	TargetDevice  string `json:"targetDevice"`
	Action        string `json:"action"`
}

// ControlRequest addresses one device command.
type ControlRequest struct {
	DeviceID string
	Action   string
	Value    string
}

// Control actions understood by /api/control.
const (
	ActionToggle               = "toggle"
	ActionOn                   = "on"
	ActionOff                  = "off"
	ActionSetBrightness        = "setBrightness"
	ActionSetTargetTemperature = "setTargetTemperature"
	ActionSetSensitivity       = "setSensitivity"
	ActionSetSchedule          = "setSchedule"
)

// Rule trigger states and target actions offered by the rule form.
var (
	TriggerStates = []string{"ON", "OFF"}
	RuleActions   = []string{"turnOn", "turnOff"}
)
