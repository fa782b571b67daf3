package tui

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/weekmenu/internal/rowedit"
)

var (
	_ rowedit.Confirmer = (*Bridge)(nil)
	_ rowedit.Messenger = (*Bridge)(nil)
)

var errNotAttached = errors.New("editor is not running")

// Sender delivers messages into a running program. *tea.Program is one.
type Sender interface {
	Send(msg tea.Msg)
}

// confirmRequestMsg asks the editor to show a yes/no dialog. The answer goes
// to reply, which is buffered.
type confirmRequestMsg struct {
	message string
	reply   chan<- bool
}

type statusMsg struct {
	severity rowedit.Severity
	message  string
	clear    bool
}

type loggedOutMsg struct{}

// Bridge lets the controllers, which run off the UI goroutine, ask questions
// and post messages through the editor.
type Bridge struct {
	mu     sync.RWMutex
	sender Sender
}

func NewBridge() *Bridge {
	return &Bridge{}
}

// Attach connects the bridge to a running program.
func (b *Bridge) Attach(s Sender) {
	b.mu.Lock()
	b.sender = s
	b.mu.Unlock()
}

func (b *Bridge) send(msg tea.Msg) bool {
	b.mu.RLock()
	s := b.sender
	b.mu.RUnlock()
	if s == nil {
		return false
	}
	s.Send(msg)
	return true
}

// Confirm blocks until the dialog is answered or ctx is done.
func (b *Bridge) Confirm(ctx context.Context, message string) (bool, error) {
	reply := make(chan bool, 1)
	if !b.send(confirmRequestMsg{message: message, reply: reply}) {
		return false, errNotAttached
	}
	select {
	case ok := <-reply:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func (b *Bridge) Show(severity rowedit.Severity, message string) {
	b.send(statusMsg{severity: severity, message: message})
}

func (b *Bridge) Clear() {
	b.send(statusMsg{clear: true})
}

// LoggedOut is registered as a session logout listener.
func (b *Bridge) LoggedOut() {
	b.send(loggedOutMsg{})
}
