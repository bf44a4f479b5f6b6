package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Alert accents. These match the colours notifications carry.
var (
	Success = lipgloss.Color("#2ecc71")
	Danger  = lipgloss.Color("#e74c3c")
	Warning = lipgloss.Color("#f39c12")
	Info    = lipgloss.Color("#3498db")
)

// StatusStyle colours a reservation status badge.
func StatusStyle(status string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	switch strings.ToLower(status) {
	case "approved":
		return base.Foreground(Success)
	case "declined", "rejected", "cancelled":
		return base.Foreground(Danger)
	case "pending":
		return base.Foreground(Warning)
	}
	return base.Foreground(Info)
}

// Bar renders a horizontal utilization bar of the given cell width.
func Bar(percent float64, width int) string {
	if width < 1 {
		width = 1
	}
	filled := int(percent/100*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return lipgloss.NewStyle().Foreground(Info).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(Surface1).Render(strings.Repeat("░", width-filled))
}
