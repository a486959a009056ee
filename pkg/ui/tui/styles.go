package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent  = lipgloss.Color("#00FFFF")
	good    = lipgloss.Color("#39FF14")
	caution = lipgloss.Color("#FF6700")
	bad     = lipgloss.Color("#FF0000")
	muted   = lipgloss.Color("#626262")

	titleStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 2)

	labelStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	dimStyle = lipgloss.NewStyle().
			Foreground(muted)

	helpStyle = lipgloss.NewStyle().
			Foreground(muted).
			PaddingTop(1)
)

func levelStyle(level string) lipgloss.Style {
	switch level {
	case levelSuccess:
		return lipgloss.NewStyle().Foreground(good)
	case levelWarn:
		return lipgloss.NewStyle().Foreground(caution)
	case levelError:
		return lipgloss.NewStyle().Foreground(bad)
	}
	return dimStyle
}
