package tui

import "github.com/charmbracelet/lipgloss"

// Shared styles.
//
//nolint:gochecknoglobals // Styles are immutable values shared by every view.
var (
	HeaderStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	LabelStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	ValueStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	SubtleStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	InfoStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	CriticalStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	TableSelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
)

// TagStyle renders a filter chip in the category's color. Colors that lipgloss
// cannot use fall back to a neutral background.
func TagStyle(color string) lipgloss.Style {
	if color == "" {
		color = "240"
	}
	return lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color(color))
}
