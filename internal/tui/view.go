package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/homedash/internal/dashboard"
	"github.com/muurk/homedash/internal/status"
)

const cursorMark = "▶ "

// View renders the dashboard
func (m Model) View() string {
	switch {
	case m.notice != nil:
		return RenderModal(m.renderNotice(), m.Width, m.Height)
	case m.confirm != nil:
		return RenderModal(m.renderConfirm(), m.Width, m.Height)
	case m.ShowingHelp:
		box := NoticeBoxStyle.
			BorderForeground(PrimaryColor).
			Width(SafeModalWidth(70, m.Width)).
			Render(SectionTitleStyle.Render("Keys") + "\n\n" + m.Help.FullHelpView(m.keys.FullHelp()))
		return RenderModal(box, m.Width, m.Height)
	}

	vp := m.Viewport
	content, _ := m.paneContent()
	vp.SetContent(content)

	body := lipgloss.JoinVertical(lipgloss.Left, m.renderTabs(), "", vp.View())
	return RenderApplicationContainer(
		BuildHeaderContent(m.Server, m.Doc.Connection),
		body,
		m.Help.View(m.keys),
		m.Width,
		m.Height,
	)
}

func (m Model) renderTabs() string {
	var tabs []string
	for p := Pane(0); p < paneCount; p++ {
		style := TabInactiveStyle
		if p == m.Pane {
			style = TabActiveStyle
		}
		tabs = append(tabs, style.Render(p.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// paneContent renders the active pane and reports the line holding the
// cursor, or -1.
func (m Model) paneContent() (string, int) {
	var content string
	switch m.Pane {
	case PaneSearch:
		content = m.searchContent()
	case PaneManage:
		content = m.manageContent()
	default:
		content = m.roomsContent()
	}
	return content, lineOf(content, cursorMark)
}

func (m Model) roomsContent() string {
	doc := m.Doc
	var b strings.Builder

	if !doc.Rendered {
		if doc.Connection == dashboard.Disconnected {
			b.WriteString(SubtitleStyle.Render("Waiting for the server at " + m.Server + "..."))
		} else {
			b.WriteString(m.Spinner.View() + " Loading home state...")
		}
		return b.String()
	}

	fmt.Fprintf(&b, "Total energy: %s\n", lipgloss.NewStyle().Bold(true).Render(doc.TotalEnergy))

	i := 0
	for _, room := range doc.Rooms {
		fmt.Fprintf(&b, "\n%s  %s\n", RoomTitleStyle.Render(room.Name), SubtitleStyle.Render(room.Energy))
		if len(room.Devices) == 0 {
			b.WriteString(ListItemStyle.Render(SubtitleStyle.Render("No devices")) + "\n")
		}
		for _, row := range room.Devices {
			b.WriteString(renderDeviceRow(row, i == m.Cursor) + "\n")
			i++
		}
	}

	b.WriteString("\n" + RoomTitleStyle.Render("Rules") + "\n")
	b.WriteString(renderRules(doc.DashboardRules))
	return b.String()
}

func renderDeviceRow(row dashboard.DeviceRow, selected bool) string {
	name := fmt.Sprintf("%-20s", truncate(row.Name, 20))
	statusStyle := StatusOffStyle
	if row.On {
		statusStyle = StatusOnStyle
	}
	button := ButtonOffStyle.Render(row.ToggleLabel)
	if row.ToggleClass == "btn-on" {
		button = ButtonOnStyle.Render(row.ToggleLabel)
	}

	parts := []string{
		name,
		statusStyle.Render(fmt.Sprintf("%-24s", truncate(row.Status, 24))),
		fmt.Sprintf("%-20s", controlText(row.Control)),
		fmt.Sprintf("%9s", row.Energy),
		button,
	}
	line := strings.Join(parts, " ")

	if selected {
		return SelectedListItemStyle.Render(cursorMark) + line
	}
	return "  " + line
}

func controlText(c *status.Control) string {
	if c == nil {
		return ""
	}
	return fmt.Sprintf("%s %s [%s-%s]", c.Icon, c.Label(), status.FormatValue(c.Min), status.FormatValue(c.Max))
}

func renderRules(list dashboard.RuleList) string {
	if list.Empty {
		return ListItemStyle.Render(SubtitleStyle.Render(dashboard.NoRulesText)) + "\n"
	}
	var b strings.Builder
	for _, r := range list.Items {
		style := RuleInactiveStyle
		if r.Class == "rule-active" {
			style = RuleActiveStyle
		}
		line := fmt.Sprintf("%-24s %s", truncate(r.Name, 24), style.Render(r.State))
		if r.Description != "" {
			line += "  " + SubtitleStyle.Render(r.Description)
		}
		b.WriteString(ListItemStyle.Render(line) + "\n")
	}
	return b.String()
}

func (m Model) searchContent() string {
	var b strings.Builder
	b.WriteString("Search: " + m.SearchInput.View())
	if m.Doc.Search.Pending {
		b.WriteString(" " + m.Spinner.View())
	}
	b.WriteString("\n\n")

	panel := m.Doc.Search
	if !panel.Shown {
		return b.String()
	}
	if len(panel.Rows) == 0 {
		b.WriteString(ListItemStyle.Render(SubtitleStyle.Render(dashboard.NoResultsText)))
		return b.String()
	}
	for i, row := range panel.Rows {
		line := fmt.Sprintf("%s (%s) Room: %s", row.Name, row.Type, row.Room)
		if i == m.SearchCursor {
			b.WriteString(SelectedListItemStyle.Render(cursorMark+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	b.WriteString("\n" + SubtitleStyle.Render("del: remove selected device"))
	return b.String()
}

func (m Model) manageContent() string {
	var b strings.Builder

	section := func(title string, fields ...field) {
		b.WriteString(SectionTitleStyle.Render(title) + "\n")
		for _, fl := range fields {
			b.WriteString(m.renderField(fl) + "\n")
		}
	}

	section("Add Room", fieldRoomName)
	section("Add Device", fieldDeviceRoom, fieldDeviceName, fieldDeviceType)
	section("Create Rule", fieldRuleName, fieldRuleTrigger, fieldRuleTriggerState, fieldRuleTarget, fieldRuleAction)
	section("Check Schedule", fieldScheduleTime)
	section("Quick Actions", fieldPreset)

	b.WriteString(SectionTitleStyle.Render("Rules") + "\n")
	b.WriteString(renderRules(m.Doc.ManageRules))
	return b.String()
}

func (m Model) renderField(fl field) string {
	focused := m.Pane == PaneManage && m.form.focus == fl
	labelStyle := BlurredInputStyle
	prefix := "  "
	if focused {
		labelStyle = FocusedInputStyle
		prefix = SelectedListItemStyle.Render(cursorMark)
	}
	label := labelStyle.Render(fmt.Sprintf("%-14s", fieldLabels[fl]+":"))

	var value string
	if sel := m.selector(fl); sel != nil {
		value = renderSelect(sel, focused)
	} else {
		in := m.form.input(fl)
		value = in.View()
	}
	return prefix + label + " " + value
}

func renderSelect(s *dashboard.Select, focused bool) string {
	text := SubtitleStyle.Render(s.Placeholder)
	if opt, ok := s.Selected(); ok {
		text = opt.Label
	}
	if focused {
		return "◀ " + text + " ▶"
	}
	return text
}

func (m Model) renderNotice() string {
	style := NoticeBoxStyle
	titleColor := SecondaryColor
	if m.notice.Error {
		style = ErrorBoxStyle
		titleColor = ErrorColor
	}
	title := lipgloss.NewStyle().Foreground(titleColor).Bold(true).Render(m.notice.Title)
	return style.
		Width(SafeModalWidth(60, m.Width)).
		Render(title + "\n\n" + m.notice.Body + "\n\n" + SubtitleStyle.Render("Press enter to continue"))
}

func (m Model) renderConfirm() string {
	title := lipgloss.NewStyle().Foreground(WarningColor).Bold(true).Render("Remove device")
	body := fmt.Sprintf("Are you sure you want to remove device %q?", m.confirm.Name)
	return WarningBoxStyle.
		Width(SafeModalWidth(60, m.Width)).
		Render(title + "\n\n" + body + "\n\n" + SubtitleStyle.Render("y: remove   n/esc: cancel"))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
