package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/weekmenu/internal/models"
	"github.com/julianstephens/weekmenu/internal/tui/components/column"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	columns := make([]string, 0, len(models.Weekdays))
	for i, day := range models.Weekdays {
		cursor := column.Cursor{Pick: -1}
		if i == m.day {
			cursor = column.Cursor{
				Focused:   true,
				Row:       m.row,
				Pick:      -1,
				Input:     m.input.View(),
				Composing: m.mode != modeBrowse && m.composing,
				Editing:   m.mode != modeBrowse && !m.composing,
			}
			if m.mode == modePicking {
				cursor.Pick = m.pick
			}
		}
		columns = append(columns, m.column.Render(m.board.Controller(day).View(), cursor))
	}

	title := titleStyle.Render("Week menu")
	if m.loading {
		title += infoStyle.Render(" loading…")
	}

	parts := []string{title, lipgloss.JoinHorizontal(lipgloss.Top, columns...)}
	if m.status != "" {
		parts = append(parts, severityStyle(m.severity).Render(m.status))
	}
	if m.confirm != nil {
		parts = append(parts, dialogStyle.Render(m.confirm.form.View()))
	}
	parts = append(parts, m.help.View(m.keys))

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
