package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/muurk/homedash/internal/dashboard"
	"github.com/muurk/homedash/internal/homeapi"
	"github.com/muurk/homedash/internal/status"
	"github.com/muurk/homedash/internal/ui"
)

// Command flags
var (
	outputFormat string
	assumeYes    bool
	ruleTrigger  string
	ruleState    string
	ruleTarget   string
	ruleAction   string
)

func init() {
	statusCmd.Flags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, compact, json)")
	deviceRemoveCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Remove without asking")

	ruleAddCmd.Flags().StringVar(&ruleTrigger, "when", "", "Trigger device id")
	ruleAddCmd.Flags().StringVar(&ruleState, "is", "", "Trigger state (ON, OFF)")
	ruleAddCmd.Flags().StringVar(&ruleTarget, "then", "", "Target device id")
	ruleAddCmd.Flags().StringVar(&ruleAction, "do", "", "Target action (turnOn, turnOff)")

	roomCmd.AddCommand(roomAddCmd)
	deviceCmd.AddCommand(deviceAddCmd, deviceRemoveCmd)
	ruleCmd.AddCommand(ruleAddCmd, ruleListCmd)
	bulkCmd.AddCommand(bulkOnCmd, bulkOffCmd)

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(toggleCmd, onCmd, offCmd, setCmd)
	rootCmd.AddCommand(roomCmd, deviceCmd, ruleCmd)
	rootCmd.AddCommand(searchCmd, scheduleCmd, bulkCmd, presetCmd)
}

// statusCmd prints the current home state
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show rooms, devices, energy and rules",
	Long: `Fetch the current home state once and print it.

The detailed format lists every room and device with its status, parsed
control value and energy draw. The compact format prints one line per room.
The json format prints the raw state as returned by the server.`,
	Example: `  # Detailed view
  homedash status

  # One line per room
  homedash status --format compact

  # JSON output for scripting
  homedash status --format json`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	client := newClient()
	ctx, cancel := requestContext(cmd)
	defer cancel()

	snap, err := client.FetchSnapshot(ctx)
	if err != nil {
		return reportFailure(cmd, "Failed to fetch state", err)
	}
	rememberServer(client.BaseURL)

	out := cmd.OutOrStdout()
	switch outputFormat {
	case "compact":
		fmt.Fprint(out, snap.FormatCompact())
	case "json":
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
	case "detailed":
		fmt.Fprint(out, snap.FormatDetailed())
		printControls(cmd, snap)
	default:
		return fmt.Errorf("unknown format %q (use detailed, compact or json)", outputFormat)
	}
	return nil
}

// printControls lists the adjustable attribute of each device.
func printControls(cmd *cobra.Command, snap *homeapi.Snapshot) {
	parser := newParser()
	var lines []string
	for _, l := range snap.AllDevices() {
		c, ok := parser.Control(l.Device.Type, l.Device.Status)
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("  %-20s %s %s=%s (range %s-%s)",
			l.Device.Name, c.Icon, c.Action, c.Label(), status.FormatValue(c.Min), status.FormatValue(c.Max)))
	}
	if len(lines) == 0 {
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), "\nControls:")
	fmt.Fprintln(cmd.OutOrStdout(), strings.Join(lines, "\n"))
}

var toggleCmd = &cobra.Command{
	Use:     "toggle <device-id>",
	Short:   "Toggle a device on or off",
	Example: `  homedash toggle 3`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		commands := newCommands()
		return runDeviceCommand(cmd, "Toggle Device", "Device toggled", args[0], commands.Toggle(args[0]))
	},
}

var onCmd = &cobra.Command{
	Use:     "on <device-id>",
	Short:   "Switch a device on",
	Example: `  homedash on 3`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		commands := newCommands()
		return runDeviceCommand(cmd, "Switch On", "Device switched on", args[0], commands.SetPower(args[0], true))
	},
}

var offCmd = &cobra.Command{
	Use:     "off <device-id>",
	Short:   "Switch a device off",
	Example: `  homedash off 3`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		commands := newCommands()
		return runDeviceCommand(cmd, "Switch Off", "Device switched off", args[0], commands.SetPower(args[0], false))
	},
}

var setCmd = &cobra.Command{
	Use:   "set <device-id> <action> <value>",
	Short: "Set a device attribute",
	Long: `Send an attribute change to a device.

Actions understood by the server:
  setBrightness          Light brightness, 0-100
  setTargetTemperature   Thermostat target, 10-30
  setSensitivity         Motion sensor sensitivity, 1-10
  setSchedule            "<state>|HH:MM", e.g. "ON|06:00"`,
	Example: `  homedash set 3 setBrightness 75
  homedash set 7 setTargetTemperature 21.5
  homedash set 7 setSchedule "ON|06:00"`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		commands := newCommands()
		return runDeviceCommand(cmd, "Set Attribute", "Attribute updated", args[0], commands.SetAttribute(args[0], args[1], args[2]))
	},
}

var roomCmd = &cobra.Command{
	Use:   "room",
	Short: "Manage rooms",
}

var roomAddCmd = &cobra.Command{
	Use:     "add <name>",
	Short:   "Add a room",
	Example: `  homedash room add Kitchen`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, "Add Room", "Room added", newCommands().AddRoom(strings.TrimSpace(args[0])),
			ui.Detail{Key: "Room", Value: args[0]})
	},
}

var deviceCmd = &cobra.Command{
	Use:   "device",
	Short: "Manage devices",
}

var deviceAddCmd = &cobra.Command{
	Use:   "add <room> <name> <type>",
	Short: "Add a device to a room",
	Long: `Add a device to an existing room.

Types: Light, Thermostat, MotionSensor, SmartTV, SmartAlarm.`,
	Example: `  homedash device add Kitchen "Ceiling Light" Light`,
	Args:    cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		typ := parseDeviceType(args[2])
		return runCommand(cmd, "Add Device", "Device added", newCommands().AddDevice(args[0], strings.TrimSpace(args[1]), typ),
			ui.Detail{Key: "Room", Value: args[0]},
			ui.Detail{Key: "Name", Value: args[1]},
			ui.Detail{Key: "Type", Value: string(typ)},
		)
	},
}

// parseDeviceType matches a type name case-insensitively. Unknown names are
// passed through for validation to reject.
func parseDeviceType(s string) homeapi.DeviceType {
	for _, t := range homeapi.CreatableTypes {
		if strings.EqualFold(string(t), s) {
			return t
		}
	}
	return homeapi.DeviceType(s)
}

var deviceRemoveCmd = &cobra.Command{
	Use:   "remove <device-id>",
	Short: "Remove a device",
	Example: `  homedash device remove 3
  homedash device remove 3 --yes`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		if !assumeYes {
			name := id
			ctx, cancel := requestContext(cmd)
			snap, err := newClient().FetchSnapshot(ctx)
			cancel()
			if err == nil {
				if l, ok := snap.FindDevice(id); ok {
					name = l.Device.Name
				}
			}
			if !ui.ConfirmRemoval(os.Stdin, cmd.OutOrStdout(), name) {
				return nil
			}
		}
		return runCommand(cmd, "Remove Device", "Device removed", newCommands().RemoveDevice(id),
			ui.Detail{Key: "Device", Value: id})
	},
}

var ruleCmd = &cobra.Command{
	Use:   "rule",
	Short: "Manage automation rules",
}

var ruleAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create an automation rule",
	Long: `Create a rule: when one device reaches a state, act on another.

All of --when, --is, --then and --do are required.`,
	Example: `  homedash rule add "Hall light" --when 5 --is ON --then 2 --do turnOn`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rule := homeapi.RuleRequest{
			Name:          strings.TrimSpace(args[0]),
			TriggerDevice: ruleTrigger,
			TriggerState:  strings.ToUpper(ruleState),
			TargetDevice:  ruleTarget,
			Action:        ruleAction,
		}
		return runCommand(cmd, "Create Rule", "Rule created", newCommands().AddRule(rule),
			ui.Detail{Key: "Rule", Value: rule.Name},
			ui.Detail{Key: "When", Value: rule.TriggerDevice + " is " + rule.TriggerState},
			ui.Detail{Key: "Then", Value: rule.Action + " " + rule.TargetDevice},
		)
	},
}

var ruleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List automation rules",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext(cmd)
		defer cancel()

		rules, err := newClient().ListRules(ctx)
		if err != nil {
			return reportFailure(cmd, "Failed to list rules", err)
		}
		out := cmd.OutOrStdout()
		if len(rules) == 0 {
			fmt.Fprintln(out, dashboard.NoRulesText)
			return nil
		}
		for _, r := range rules {
			fmt.Fprintf(out, "%-24s %s", r.Name, homeapi.FormatRuleState(r.Active))
			if r.Description != "" {
				fmt.Fprintf(out, "  %s", r.Description)
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:     "search <query>",
	Short:   "Search devices by name",
	Example: `  homedash search lamp`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.TrimSpace(strings.Join(args, " "))
		if query == "" {
			return nil
		}
		ctx, cancel := requestContext(cmd)
		defer cancel()

		results, err := newClient().SearchDevices(ctx, query)
		if err != nil {
			return reportFailure(cmd, "Search failed", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), homeapi.FormatSearchResults(results))
		return nil
	},
}

var scheduleCmd = &cobra.Command{
	Use:     "schedule <HH:MM>",
	Short:   "Check what the server has scheduled at a time",
	Example: `  homedash schedule 06:00`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, "Check Schedule", "Schedule", newCommands().CheckSchedule(args[0]),
			ui.Detail{Key: "Time", Value: args[0]})
	},
}

var bulkCmd = &cobra.Command{
	Use:   "bulk",
	Short: "Switch every device at once",
}

var bulkOnCmd = &cobra.Command{
	Use:   "on",
	Short: "Switch every device on",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, "Bulk Switch", "All devices switched on", newCommands().BulkOn())
	},
}

var bulkOffCmd = &cobra.Command{
	Use:   "off",
	Short: "Switch every device off",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, "Bulk Switch", "All devices switched off", newCommands().BulkOff())
	},
}

var presetCmd = &cobra.Command{
	Use:   "preset [name]",
	Short: "Apply a preset schedule, or list presets",
	Long: `Apply a preset to every matching device.

Presets:
  Heat6AM        Thermostats on at 06:00
  Lights8PM      Lights off at 20:00
  CheckSensors   Motion sensors on at 12:00

Without a name the presets are listed.`,
	Example: `  homedash preset
  homedash preset Heat6AM`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			for _, p := range dashboard.Presets {
				fmt.Fprintf(out, "%-14s %s devices: setSchedule %s\n", p.Name, p.Type, p.Schedule)
			}
			return nil
		}

		p, ok := dashboard.LookupPreset(args[0])
		if !ok {
			return fmt.Errorf("unknown preset %q (run 'homedash preset' to list them)", args[0])
		}

		ctx, cancel := requestContext(cmd)
		defer cancel()
		n, err := dashboard.ApplyPreset(ctx, newClient(), p)
		if err != nil {
			return reportFailure(cmd, dashboard.OpPreset.FailureTitle(), err)
		}
		ui.NewPrinter(out).PrintSuccess("Preset applied",
			ui.Detail{Key: "Preset", Value: p.Name},
			ui.Detail{Key: "Devices", Value: fmt.Sprintf("%d", n)},
		)
		return nil
	},
}

func newCommands() *dashboard.CommandClient {
	return dashboard.NewCommandClient(newClient(), cfg.Preferences.RequestTimeout, nil)
}

// execute runs a dashboard command synchronously.
func execute(c tea.Cmd) dashboard.CommandResultMsg {
	msg, _ := c().(dashboard.CommandResultMsg)
	return msg
}

// runCommand sends one mutating request and prints its result box.
func runCommand(cmd *cobra.Command, title, successTitle string, c tea.Cmd, details ...ui.Detail) error {
	p := ui.NewPrinter(cmd.OutOrStdout())
	p.PrintHeader(title, cmd.CommandPath(), append([]ui.Detail{{Key: "Server", Value: cfg.Server}}, details...)...)

	res := execute(c)
	if res.Err != nil {
		return reportFailure(cmd, res.Op.FailureTitle(), res.Err)
	}
	if res.Notice != "" {
		details = append(details, ui.Detail{Key: "Server says", Value: res.Notice})
	}
	p.PrintSuccess(successTitle, details...)
	return nil
}

// runDeviceCommand sends a device command, then fetches the state once and
// prints the device as the server now reports it.
func runDeviceCommand(cmd *cobra.Command, title, successTitle, id string, c tea.Cmd) error {
	p := ui.NewPrinter(cmd.OutOrStdout())
	p.PrintHeader(title, cmd.CommandPath(),
		ui.Detail{Key: "Server", Value: cfg.Server},
		ui.Detail{Key: "Device", Value: id},
	)

	res := execute(c)
	if res.Err != nil {
		return reportFailure(cmd, res.Op.FailureTitle(), res.Err)
	}

	ctx, cancel := requestContext(cmd)
	defer cancel()
	snap, err := newClient().FetchSnapshot(ctx)
	if err != nil {
		p.PrintWarning(successTitle+", but the refresh failed", ui.Detail{Key: "Error", Value: homeapi.UserMessage(err)})
		return nil
	}

	l, ok := snap.FindDevice(id)
	if !ok {
		p.PrintSuccess(successTitle)
		return nil
	}
	parser := newParser()
	details := []ui.Detail{
		{Key: "Device", Value: l.Device.Name},
		{Key: "Room", Value: l.Room},
		{Key: "Status", Value: ui.StatusText(l.Device.Status, parser.IsOn(l.Device.Status))},
	}
	if ctl, ok := parser.Control(l.Device.Type, l.Device.Status); ok {
		details = append(details, ui.Detail{Key: "Setting", Value: ctl.Action + " " + ctl.Label()})
	}
	p.PrintSuccess(successTitle, details...)
	return nil
}

// reportFailure prints an error box with troubleshooting hints.
func reportFailure(cmd *cobra.Command, title string, err error) error {
	hints := strings.Split(homeapi.Troubleshooting(err), "\n")
	ui.NewPrinter(cmd.ErrOrStderr()).PrintError(title, errors.New(homeapi.UserMessage(err)), hints)
	return fmt.Errorf("%s: %w", title, errReported)
}
