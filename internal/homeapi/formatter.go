package homeapi

import (
	"fmt"
	"strings"
)

// Summary returns a one-line summary of the snapshot
func (s *Snapshot) Summary() string {
	return fmt.Sprintf("%d rooms, %d devices, %d rules, %.2f W",
		len(s.Rooms), s.DeviceCount(), len(s.Rules), s.TotalEnergy)
}

// FormatCompact returns one line per room and device
func (s *Snapshot) FormatCompact() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Total: %.2f W\n", s.TotalEnergy))
	for _, r := range s.Rooms {
		b.WriteString(fmt.Sprintf("%s (%.1f W)\n", r.Name, r.Energy()))
		for _, d := range r.Devices {
			b.WriteString(fmt.Sprintf("  %-10s %-20s %.1f W  %s\n", d.ID, d.Name, d.Energy, d.Status))
		}
	}
	if len(s.Rules) > 0 {
		b.WriteString(fmt.Sprintf("Rules: %s\n", formatRuleNames(s.Rules)))
	}

	return b.String()
}

// FormatDetailed returns a boxed, sectioned report of the whole state
func (s *Snapshot) FormatDetailed() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("╔════════════════════════════════════════════════════════════════╗\n")
	b.WriteString("║                     HOME DASHBOARD STATE                       ║\n")
	b.WriteString("╚════════════════════════════════════════════════════════════════╝\n")
	b.WriteString("\n")

	b.WriteString("=== Energy ===\n")
	b.WriteString(fmt.Sprintf("Total Consumption: %.2f W\n", s.TotalEnergy))
	b.WriteString("\n")

	for _, r := range s.Rooms {
		b.WriteString(fmt.Sprintf("=== %s (%.1f W) ===\n", r.Name, r.Energy()))
		if len(r.Devices) == 0 {
			b.WriteString("(no devices)\n")
		}
		for _, d := range r.Devices {
			b.WriteString(fmt.Sprintf("%s [%s] id=%s\n", d.Name, d.Type, d.ID))
			b.WriteString(fmt.Sprintf("  Status: %s\n", d.Status))
			b.WriteString(fmt.Sprintf("  Energy: %.1f W\n", d.Energy))
		}
		b.WriteString("\n")
	}

	b.WriteString("=== Rules ===\n")
	if len(s.Rules) == 0 {
		b.WriteString("No active rules.\n")
	}
	for _, rule := range s.Rules {
		b.WriteString(fmt.Sprintf("%s: %s\n", rule.Name, FormatRuleState(rule.Active)))
		if rule.Description != "" {
			b.WriteString(fmt.Sprintf("  %s\n", rule.Description))
		}
	}

	return b.String()
}

// FormatRuleState returns ACTIVE or INACTIVE
func FormatRuleState(active bool) string {
	if active {
		return "ACTIVE"
	}
	return "INACTIVE"
}

func formatRuleNames(rules []Rule) string {
	parts := make([]string, len(rules))
	for i, r := range rules {
		parts[i] = fmt.Sprintf("%s (%s)", r.Name, FormatRuleState(r.Active))
	}
	return strings.Join(parts, ", ")
}

// FormatSearchResults renders search rows the way the dashboard lists them
func FormatSearchResults(results []SearchResult) string {
	if len(results) == 0 {
		return "No devices found.\n"
	}
	var b strings.Builder
	for _, r := range results {
		b.WriteString(fmt.Sprintf("%s (%s)  Room: %s  id=%s\n", r.Name, r.Type, r.Room, r.ID))
	}
	return b.String()
}
