package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/weekmenu/internal/rowedit"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Padding(0, 1)

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("205")).
			Padding(0, 1)

	docStyle = lipgloss.NewStyle().Padding(1, 2)
)

func severityStyle(s rowedit.Severity) lipgloss.Style {
	switch s {
	case rowedit.SeverityError:
		return dangerStyle
	case rowedit.SeverityWarning:
		return warningStyle
	case rowedit.SeveritySuccess:
		return successStyle
	default:
		return infoStyle
	}
}
