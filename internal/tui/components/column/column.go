package column

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/weekmenu/internal/rowedit"
)

const addLabel = "+ add dish"

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Bold(true)

	focusedHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("205")).
				Bold(true)

	dishStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62"))

	addStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	suggestionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			PaddingLeft(2)

	pickedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true).
			PaddingLeft(2)

	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(lipgloss.Color("238")).
			PaddingRight(1)
)

// Cursor is where the user is in the column.
type Cursor struct {
	Focused bool
	// Row is the selected row; len(rows) selects the add slot.
	Row int
	// Pick is the highlighted suggestion, or -1.
	Pick int
	// Input is the rendered text field shown in place of the edited row or
	// the add slot.
	Input string
	// Composing shows Input in the add slot.
	Composing bool
	// Editing shows Input in place of the selected row.
	Editing bool
}

type Model struct {
	width int
}

func New(width int) Model {
	return Model{width: width}
}

func (m *Model) SetSize(width int) {
	m.width = width
}

func (m Model) Width() int {
	return m.width
}

// Render draws v. Suggestions are listed under the editing row, or under the
// add slot while composing, whenever the controller has them open.
func (m Model) Render(v rowedit.View, c Cursor) string {
	var b strings.Builder

	header := headerStyle
	if c.Focused {
		header = focusedHeaderStyle
	}
	b.WriteString(header.Render(v.Day.Name()))
	b.WriteString("\n\n")

	for i, row := range v.Rows {
		switch {
		case c.Focused && c.Editing && i == c.Row:
			b.WriteString(c.Input)
		case c.Focused && !c.Editing && !c.Composing && i == c.Row:
			b.WriteString(selectedStyle.Render(m.fit(row.DisplayName)))
		default:
			b.WriteString(dishStyle.Render(m.fit(row.DisplayName)))
		}
		b.WriteString("\n")
		if row.State.SuggestionsVisible() {
			m.renderSuggestions(&b, v.Suggestions, c.Pick)
		}
	}

	switch {
	case c.Focused && c.Composing:
		b.WriteString(c.Input)
	case c.Focused && !c.Editing && c.Row == len(v.Rows):
		b.WriteString(selectedStyle.Render(m.fit(addLabel)))
	default:
		b.WriteString(addStyle.Render(m.fit(addLabel)))
	}
	b.WriteString("\n")
	if v.Composing && v.ComposeSuggestionsVisible {
		m.renderSuggestions(&b, v.Suggestions, c.Pick)
	}

	return frameStyle.Width(m.width).Render(b.String())
}

func (m Model) renderSuggestions(b *strings.Builder, names []string, pick int) {
	for i, name := range names {
		if i == pick {
			b.WriteString(pickedStyle.Render("> " + m.fit(name)))
		} else {
			b.WriteString(suggestionStyle.Render("  " + m.fit(name)))
		}
		b.WriteString("\n")
	}
}

func (m Model) fit(s string) string {
	if s == "" {
		return "(empty)"
	}
	limit := m.width - 4
	if limit < 4 || lipgloss.Width(s) <= limit {
		return s
	}
	r := []rune(s)
	if len(r) > limit-1 {
		r = r[:limit-1]
	}
	return string(r) + "…"
}
