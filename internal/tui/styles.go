package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/homedash/internal/dashboard"
	"github.com/muurk/homedash/internal/version"
)

// Application branding constants
const (
	AppName = "HOME DASHBOARD"
)

// Layout constants for responsive terminal width
const (
	MinTerminalWidth  = 72
	DefaultBoxPadding = 2
)

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#7D56F4") // Purple
	SecondaryColor = lipgloss.Color("#43BF6D") // Green
	WarningColor   = lipgloss.Color("#FFA500") // Orange
	ErrorColor     = lipgloss.Color("#FF5555") // Red

	TextColor      = lipgloss.Color("#FFFFFF")
	SubtleColor    = lipgloss.Color("#626262")
	BorderColor    = lipgloss.Color("#7D56F4")
	HighlightColor = lipgloss.Color("#43BF6D")
)

var (
	// RoomTitleStyle heads each room card
	RoomTitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	// SectionTitleStyle heads manage-pane forms
	SectionTitleStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				Bold(true).
				MarginTop(1)

	ListItemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	SelectedListItemStyle = lipgloss.NewStyle().
				Foreground(HighlightColor).
				Bold(true)

	StatusOnStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)

	StatusOffStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	ButtonOnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(SecondaryColor).
			Padding(0, 1)

	ButtonOffStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(SubtleColor).
			Padding(0, 1)

	RuleActiveStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)

	RuleInactiveStyle = lipgloss.NewStyle().
				Foreground(SubtleColor)

	FocusedInputStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true)

	BlurredInputStyle = lipgloss.NewStyle().
				Foreground(SubtleColor)

	TabActiveStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(PrimaryColor).
			Bold(true).
			Padding(0, 2)

	TabInactiveStyle = lipgloss.NewStyle().
				Foreground(SubtleColor).
				Padding(0, 2)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	NoticeBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(SecondaryColor).
			Padding(1, 2)

	ErrorBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ErrorColor).
			Padding(1, 2)

	WarningBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(WarningColor).
			Padding(1, 2)
)

// connectionStyle colors the connection indicator.
func connectionStyle(c dashboard.Connectivity) lipgloss.Style {
	switch c {
	case dashboard.Connected:
		return lipgloss.NewStyle().Foreground(SecondaryColor).Bold(true)
	case dashboard.Disconnected:
		return lipgloss.NewStyle().Foreground(ErrorColor).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(WarningColor)
	}
}

// BuildHeaderContent creates the header line: app name, version, server and
// connection indicator.
func BuildHeaderContent(server string, c dashboard.Connectivity) string {
	left := lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true).
		Render(AppName + " v" + version.Version)

	mid := lipgloss.NewStyle().
		Foreground(SubtleColor).
		Render(server)

	right := connectionStyle(c).Render("● " + c.Label())

	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", mid, "  ", right)
}

// RenderApplicationContainer wraps every screen: header, content, footer,
// outer border, sized to the terminal.
func RenderApplicationContainer(header, content, footer string, terminalWidth, terminalHeight int) string {
	if terminalWidth < MinTerminalWidth {
		terminalWidth = MinTerminalWidth
	}

	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth-4).
		Padding(0, 1)

	footerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth-4).
		Padding(0, 1)

	inner := lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render(header),
		lipgloss.NewStyle().Width(terminalWidth-4).Render(content),
		footerStyle.Render(footer),
	)

	border := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		Width(terminalWidth - 2).
		AlignVertical(lipgloss.Top)
	if terminalHeight > 2 {
		border = border.Height(terminalHeight - 2)
	}

	return border.Render(inner)
}

// SafeModalWidth keeps a modal inside the terminal.
func SafeModalWidth(requestedWidth, terminalWidth int) int {
	maxWidth := terminalWidth - 4
	if maxWidth < 40 {
		maxWidth = 40
	}
	if requestedWidth < maxWidth {
		return requestedWidth
	}
	return maxWidth
}

// RenderModal centers a modal over a dimmed background.
func RenderModal(modalContent string, terminalWidth, terminalHeight int) string {
	return lipgloss.Place(
		terminalWidth,
		terminalHeight,
		lipgloss.Center,
		lipgloss.Center,
		modalContent,
		lipgloss.WithWhitespaceChars("░"),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("240")),
	)
}
