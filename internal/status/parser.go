// Package status derives structured controls from the free-text device
// status strings the server reports.
//
// The server only sends human-readable text such as
// "Lamp [Light] is ON - Brightness: 45%". Parser pulls the adjustable
// attribute and the on/off flag out of it. Parsing is lenient: a missing or
// malformed value yields the type's default, never an error.
package status

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/muurk/homedash/internal/homeapi"
)

// Parser maps a device's type and status text to its controls. A structured
// server contract can replace RegexParser without touching the renderer.
type Parser interface {
	// Control returns the adjustable attribute for the device, if its type
	// has one.
	Control(typ homeapi.DeviceType, status string) (Control, bool)

	// IsOn reports whether the status text describes a powered-on device.
	IsOn(status string) bool
}

// Control describes a single slider-style attribute.
type Control struct {
	Action string // command sent on change, e.g. setBrightness
	Icon   string
	Value  float64
	Min    float64
	Max    float64
	Step   float64
	Unit   string // rendered suffix: "%", "°C" or "/10"
}

// Label renders the value with its unit, e.g. "45%", "24.5°C", "5/10".
func (c Control) Label() string {
	return FormatValue(c.Value) + c.Unit
}

// Wire renders the value as sent in the control request.
func (c Control) Wire() string {
	return FormatValue(c.Value)
}

// gridEpsilon absorbs float error when testing whether a value sits on the
// step grid.
const gridEpsilon = 1e-9

// Adjust moves the value by steps increments along the Min+k*Step grid,
// clamped to the range. A value between grid points counts its nearest point
// in the direction of travel as the first step, so 24.5 moves to 25 or 24.
func (c Control) Adjust(steps int) Control {
	if steps == 0 || c.Step <= 0 {
		return c
	}

	pos := (c.Value - c.Min) / c.Step
	var k float64
	if steps > 0 {
		k = math.Floor(pos+gridEpsilon) + float64(steps)
	} else {
		k = math.Ceil(pos-gridEpsilon) + float64(steps)
	}
	c.Value = clamp(c.Min+k*c.Step, c.Min, c.Max)
	return c
}

// FormatValue prints the shortest decimal form: 22 rather than 22.0.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type rule struct {
	pattern  *regexp.Regexp
	action   string
	icon     string
	unit     string
	fallback float64
	min, max float64
}

var rules = map[homeapi.DeviceType]rule{
	homeapi.TypeLight: {
		pattern:  regexp.MustCompile(`Brightness: (\d+)%`),
		action:   homeapi.ActionSetBrightness,
		icon:     "🔆",
		unit:     "%",
		fallback: 0,
		min:      0,
		max:      100,
	},
	homeapi.TypeThermostat: {
		pattern:  regexp.MustCompile(`Target: ([\d.]+)°C`),
		action:   homeapi.ActionSetTargetTemperature,
		icon:     "🌡️",
		unit:     "°C",
		fallback: 22.0,
		min:      10,
		max:      35,
	},
	homeapi.TypeMotionSensor: {
		pattern:  regexp.MustCompile(`Sensitivity: (\d+)/10`),
		action:   homeapi.ActionSetSensitivity,
		icon:     "📡",
		unit:     "/10",
		fallback: 5,
		min:      1,
		max:      10,
	},
}

var wordOn = regexp.MustCompile(`(?i)\bON\b`)

// RegexParser extracts controls with one pattern per device type.
type RegexParser struct {
	// StrictOnMatch makes IsOn match "ON" only as a whole word. The default
	// substring match also fires on words like "CONNECTED".
	StrictOnMatch bool
}

// New returns a parser using substring on/off matching.
func New() *RegexParser {
	return &RegexParser{}
}

// Control implements Parser.
func (p *RegexParser) Control(typ homeapi.DeviceType, status string) (Control, bool) {
	r, ok := rules[typ]
	if !ok {
		return Control{}, false
	}

	value := r.fallback
	if m := r.pattern.FindStringSubmatch(status); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			value = clamp(v, r.min, r.max)
		}
	}

	return Control{
		Action: r.action,
		Icon:   r.icon,
		Value:  value,
		Min:    r.min,
		Max:    r.max,
		Step:   1,
		Unit:   r.unit,
	}, true
}

// IsOn implements Parser.
func (p *RegexParser) IsOn(status string) bool {
	if p.StrictOnMatch {
		return wordOn.MatchString(status)
	}
	return strings.Contains(strings.ToUpper(status), "ON")
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
