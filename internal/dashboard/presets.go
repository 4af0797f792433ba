package dashboard

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/muurk/homedash/internal/homeapi"
)

// maxPresetRequests bounds concurrent control requests while applying a preset.
const maxPresetRequests = 4

// Preset schedules every device of one type.
type Preset struct {
	Name     string
	Type     homeapi.DeviceType
	Schedule string // setSchedule value, "<state>|HH:MM"
}

// Presets are the quick actions offered by the dashboard.
var Presets = []Preset{
	{Name: "Heat6AM", Type: homeapi.TypeThermostat, Schedule: "ON|06:00"},
	{Name: "Lights8PM", Type: homeapi.TypeLight, Schedule: "off|20:00"},
	{Name: "CheckSensors", Type: homeapi.TypeMotionSensor, Schedule: "ON|12:00"},
}

// LookupPreset finds a preset by name.
func LookupPreset(name string) (Preset, bool) {
	for _, p := range Presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// Plan returns the control requests a preset issues against snap.
func (p Preset) Plan(snap *homeapi.Snapshot) []homeapi.ControlRequest {
	var reqs []homeapi.ControlRequest
	for _, l := range snap.AllDevices() {
		if l.Device.Type != p.Type {
			continue
		}
		reqs = append(reqs, homeapi.ControlRequest{
			DeviceID: l.Device.ID,
			Action:   homeapi.ActionSetSchedule,
			Value:    p.Schedule,
		})
	}
	return reqs
}

// ApplyPreset fetches the current state, then sends the planned requests
// concurrently. It returns how many devices were scheduled. The first
// failure cancels the remaining requests.
func ApplyPreset(ctx context.Context, api API, p Preset) (int, error) {
	snap, err := api.FetchSnapshot(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch state: %w", err)
	}

	reqs := p.Plan(snap)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxPresetRequests)
	for _, req := range reqs {
		g.Go(func() error {
			if _, err := api.Control(ctx, req); err != nil {
				return fmt.Errorf("schedule %s: %w", req.DeviceID, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(reqs), nil
}
