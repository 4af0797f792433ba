package homeapi

import (
	"fmt"
	"regexp"
	"strings"
)

var scheduleTimePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// ValidateRoomName validates a room name before it is sent to the server.
func ValidateRoomName(name string) error {
	if strings.TrimSpace(name) == "" {
		return NewValidationError("Please enter a room name")
	}
	return nil
}

// ValidateNewDevice validates the add-device form.
func ValidateNewDevice(room, name string, typ DeviceType) error {
	if room == "" {
		return NewValidationError("Please select a room")
	}
	if strings.TrimSpace(name) == "" {
		return NewValidationError("Please enter a device name")
	}
	for _, t := range CreatableTypes {
		if t == typ {
			return nil
		}
	}
	return NewValidationError(fmt.Sprintf("unknown device type %q", typ))
}

// ValidateRule validates the add-rule form. Every field is required.
func ValidateRule(rule RuleRequest) error {
	if strings.TrimSpace(rule.Name) == "" ||
		rule.TriggerDevice == "" ||
		rule.TriggerState == "" ||
		rule.TargetDevice == "" ||
		rule.Action == "" {
		return NewValidationError("Please fill all fields for the rule.")
	}
	return nil
}

// ValidateScheduleTime checks a 24-hour HH:MM time.
func ValidateScheduleTime(hhmm string) error {
	if !scheduleTimePattern.MatchString(hhmm) {
		return NewValidationError(fmt.Sprintf("time must be HH:MM (24-hour), got %q", hhmm))
	}
	return nil
}

// ValidateDeviceID rejects an empty device id.
func ValidateDeviceID(id string) error {
	if strings.TrimSpace(id) == "" {
		return NewValidationError("device id cannot be empty")
	}
	return nil
}
