package dashboard

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/homedash/internal/homeapi"
	"github.com/muurk/homedash/internal/logging"
)

// Op names a mutating operation.
type Op string

const (
	OpToggle       Op = "toggle"
	OpOn           Op = "on"
	OpOff          Op = "off"
	OpSet          Op = "set"
	OpAddRoom      Op = "add_room"
	OpAddDevice    Op = "add_device"
	OpRemoveDevice Op = "remove_device"
	OpAddRule      Op = "add_rule"
	OpSchedule     Op = "schedule_check"
	OpBulkOn       Op = "bulk_on"
	OpBulkOff      Op = "bulk_off"
	OpPreset       Op = "preset"
)

// FailureTitle heads the notice shown when op fails.
func (op Op) FailureTitle() string {
	switch op {
	case OpAddRoom:
		return "Error adding room"
	case OpAddDevice:
		return "Error adding device"
	case OpRemoveDevice:
		return "Error removing device"
	case OpAddRule:
		return "Error creating rule"
	case OpSchedule:
		return "Schedule check failed"
	case OpBulkOn, OpBulkOff:
		return "Bulk switch failed"
	case OpPreset:
		return "Error applying preset"
	default:
		return "Command failed"
	}
}

// CommandClient turns user intents into server requests. Each method
// returns a tea.Cmd producing a CommandResultMsg. A successful result is
// followed by exactly one state refresh; a failed one changes nothing
// locally.
type CommandClient struct {
	api     API
	timeout time.Duration
	obs     Observer
}

// NewCommandClient creates a command client. A zero timeout uses the
// client default.
func NewCommandClient(api API, timeout time.Duration, obs Observer) *CommandClient {
	if timeout <= 0 {
		timeout = homeapi.DefaultTimeout
	}
	if obs == nil {
		obs = NopObserver{}
	}
	return &CommandClient{api: api, timeout: timeout, obs: obs}
}

// Toggle flips a device.
func (c *CommandClient) Toggle(id string) tea.Cmd {
	return c.control(OpToggle, homeapi.ControlRequest{DeviceID: id, Action: homeapi.ActionToggle})
}

// SetPower switches a device on or off explicitly.
func (c *CommandClient) SetPower(id string, on bool) tea.Cmd {
	if on {
		return c.control(OpOn, homeapi.ControlRequest{DeviceID: id, Action: homeapi.ActionOn})
	}
	return c.control(OpOff, homeapi.ControlRequest{DeviceID: id, Action: homeapi.ActionOff})
}

// SetAttribute sends a slider change such as setBrightness.
func (c *CommandClient) SetAttribute(id, action, value string) tea.Cmd {
	return c.control(OpSet, homeapi.ControlRequest{DeviceID: id, Action: action, Value: value})
}

func (c *CommandClient) control(op Op, req homeapi.ControlRequest) tea.Cmd {
	return c.run(op, req.DeviceID, func(ctx context.Context) (string, error) {
		if err := homeapi.ValidateDeviceID(req.DeviceID); err != nil {
			return "", err
		}
		_, err := c.api.Control(ctx, req)
		return "", err
	})
}

// AddRoom creates a room.
func (c *CommandClient) AddRoom(name string) tea.Cmd {
	return c.run(OpAddRoom, name, func(ctx context.Context) (string, error) {
		if err := homeapi.ValidateRoomName(name); err != nil {
			return "", err
		}
		_, err := c.api.AddRoom(ctx, name)
		return "", err
	})
}

// AddDevice creates a device in room.
func (c *CommandClient) AddDevice(room, name string, typ homeapi.DeviceType) tea.Cmd {
	return c.run(OpAddDevice, name, func(ctx context.Context) (string, error) {
		if err := homeapi.ValidateNewDevice(room, name, typ); err != nil {
			return "", err
		}
		if _, err := c.api.AddDevice(ctx, room, name, typ); err != nil {
			return "", err
		}
		return fmt.Sprintf("Device %q added successfully to %q!", name, room), nil
	})
}

// RemoveDevice deletes a device. Callers confirm with the user first.
func (c *CommandClient) RemoveDevice(id string) tea.Cmd {
	return c.run(OpRemoveDevice, id, func(ctx context.Context) (string, error) {
		if err := homeapi.ValidateDeviceID(id); err != nil {
			return "", err
		}
		_, err := c.api.RemoveDevice(ctx, id)
		return "", err
	})
}

// AddRule creates an automation rule.
func (c *CommandClient) AddRule(rule homeapi.RuleRequest) tea.Cmd {
	return c.run(OpAddRule, rule.Name, func(ctx context.Context) (string, error) {
		if err := homeapi.ValidateRule(rule); err != nil {
			return "", err
		}
		if _, err := c.api.AddRule(ctx, rule); err != nil {
			return "", err
		}
		return "Rule created successfully!", nil
	})
}

// CheckSchedule asks what runs at hhmm; the answer becomes the notice.
func (c *CommandClient) CheckSchedule(hhmm string) tea.Cmd {
	return c.run(OpSchedule, hhmm, func(ctx context.Context) (string, error) {
		if err := homeapi.ValidateScheduleTime(hhmm); err != nil {
			return "", err
		}
		return c.api.CheckSchedule(ctx, hhmm)
	})
}

// BulkOn switches every device on.
func (c *CommandClient) BulkOn() tea.Cmd {
	return c.run(OpBulkOn, "all", func(ctx context.Context) (string, error) {
		return "", c.api.BulkOn(ctx)
	})
}

// BulkOff switches every device off.
func (c *CommandClient) BulkOff() tea.Cmd {
	return c.run(OpBulkOff, "all", func(ctx context.Context) (string, error) {
		return "", c.api.BulkOff(ctx)
	})
}

// ApplyPreset fetches fresh state and schedules every matching device.
func (c *CommandClient) ApplyPreset(p Preset) tea.Cmd {
	return c.run(OpPreset, p.Name, func(ctx context.Context) (string, error) {
		if _, err := ApplyPreset(ctx, c.api, p); err != nil {
			return "", err
		}
		return fmt.Sprintf("Preset '%s' applied to matching devices.", p.Name), nil
	})
}

func (c *CommandClient) run(op Op, target string, fn func(ctx context.Context) (string, error)) tea.Cmd {
	timeout, obs := c.timeout, c.obs

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		notice, err := fn(ctx)
		logging.LogCommand(string(op), target, err)
		obs.ObserveCommand(string(op), err)
		return CommandResultMsg{Op: op, Target: target, Notice: notice, Err: err}
	}
}
