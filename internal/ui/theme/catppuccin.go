package theme

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// Catppuccin Mocha.
var (
	Base     = lipgloss.Color("#1e1e2e")
	Mantle   = lipgloss.Color("#181825")
	Surface1 = lipgloss.Color("#45475a")
	Text     = lipgloss.Color("#cdd6f4")
	Subtext0 = lipgloss.Color("#a6adc8")
	Lavender = lipgloss.Color("#b4befe")
	Sapphire = lipgloss.Color("#74c7ec")
	Peach    = lipgloss.Color("#fab387")
)

var (
	Title = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	Hot   = lipgloss.NewStyle().Foreground(Peach).Bold(true)

	// Card frames the login form.
	Card = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Lavender).
		Background(Mantle).
		Foreground(Text).
		Padding(1)

	TabActive = Hot.Padding(0, 1)
	TabIdle   = Muted.Padding(0, 1)
	ShellBar  = lipgloss.NewStyle().Background(Mantle)
)

// TableStyles is the shared look of the approvals and reports tables.
func TableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.Foreground(Sapphire).Bold(true)
	s.Selected = s.Selected.Foreground(Base).Background(Lavender)
	return s
}
