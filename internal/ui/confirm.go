package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Confirm prints prompt followed by "[y/N]" and reads one line from in.
// Only "y" or "yes" (any case) confirms. EOF and read errors decline.
func Confirm(in io.Reader, out io.Writer, prompt string) bool {
	promptStyle := lipgloss.NewStyle().
		Foreground(WarningColor).
		Bold(true)
	_, _ = fmt.Fprint(out, promptStyle.Render(prompt+" [y/N]: "))

	input, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && input == "" {
		_, _ = fmt.Fprintln(out)
		return false
	}

	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true
	}

	cancelStyle := lipgloss.NewStyle().Foreground(MutedColor)
	_, _ = fmt.Fprintln(out, cancelStyle.Render("  Operation cancelled."))
	return false
}

// ConfirmRemoval asks before deleting a device.
func ConfirmRemoval(in io.Reader, out io.Writer, deviceName string) bool {
	return Confirm(in, out, fmt.Sprintf("Are you sure you want to remove device %q?", deviceName))
}
