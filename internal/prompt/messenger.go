package prompt

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/weekmenu/internal/rowedit"
)

var _ rowedit.Messenger = (*ConsoleMessenger)(nil)

// ConsoleMessenger prints messages as styled lines.
type ConsoleMessenger struct {
	mu     sync.Mutex
	out    io.Writer
	styles map[rowedit.Severity]lipgloss.Style
	last   string
}

func NewConsoleMessenger(out io.Writer) *ConsoleMessenger {
	r := lipgloss.NewRenderer(out)
	return &ConsoleMessenger{
		out: out,
		styles: map[rowedit.Severity]lipgloss.Style{
			rowedit.SeverityInfo:    r.NewStyle().Foreground(lipgloss.Color("245")),
			rowedit.SeveritySuccess: r.NewStyle().Foreground(lipgloss.Color("42")),
			rowedit.SeverityWarning: r.NewStyle().Foreground(lipgloss.Color("214")).Italic(true),
			rowedit.SeverityError:   r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		},
	}
}

func (m *ConsoleMessenger) Show(severity rowedit.Severity, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = message
	style, ok := m.styles[severity]
	if !ok {
		style = m.styles[rowedit.SeverityInfo]
	}
	fmt.Fprintln(m.out, style.Render(message))
}

// Clear forgets the last message. Printed lines stay on the terminal.
func (m *ConsoleMessenger) Clear() {
	m.mu.Lock()
	m.last = ""
	m.mu.Unlock()
}

// Last returns the message shown since the last Clear, if any.
func (m *ConsoleMessenger) Last() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}
