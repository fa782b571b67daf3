package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/weekmenu/internal/rowedit"
)

var (
	_ rowedit.Confirmer = (*HuhConfirmer)(nil)
	_ rowedit.Confirmer = AutoConfirmer{}
	_ rowedit.Confirmer = (*ScriptedConfirmer)(nil)
)

// NewConfirmForm builds the yes/no dialog used on the command line and in
// the editor.
func NewConfirmForm(message string, confirmed *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(message).
				Affirmative("Yes").
				Negative("No").
				Value(confirmed),
		),
	).WithShowHelp(false)
}

// HuhConfirmer asks on the terminal.
type HuhConfirmer struct {
	input  io.Reader
	output io.Writer
}

// NewHuhConfirmer creates a confirmer. Nil input or output means the
// terminal.
func NewHuhConfirmer(input io.Reader, output io.Writer) *HuhConfirmer {
	return &HuhConfirmer{input: input, output: output}
}

// Confirm shows the dialog. Aborting it (ctrl+c) counts as no.
func (c *HuhConfirmer) Confirm(ctx context.Context, message string) (bool, error) {
	var confirmed bool
	form := NewConfirmForm(message, &confirmed)
	if c.input != nil {
		form = form.WithInput(c.input)
	}
	if c.output != nil {
		form = form.WithOutput(c.output)
	}
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, fmt.Errorf("confirmation failed: %w", err)
	}
	return confirmed, nil
}

// AutoConfirmer answers every question the same way (the --yes flag).
type AutoConfirmer struct {
	Answer bool
}

func (a AutoConfirmer) Confirm(ctx context.Context, message string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return a.Answer, nil
}

// ScriptedConfirmer replays a fixed list of answers and records the
// questions. Once the answers run out it answers no.
type ScriptedConfirmer struct {
	mu      sync.Mutex
	answers []bool
	asked   []string
}

func NewScriptedConfirmer(answers ...bool) *ScriptedConfirmer {
	return &ScriptedConfirmer{answers: answers}
}

func (s *ScriptedConfirmer) Confirm(ctx context.Context, message string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.asked = append(s.asked, message)
	if len(s.answers) == 0 {
		return false, nil
	}
	answer := s.answers[0]
	s.answers = s.answers[1:]
	return answer, nil
}

// Asked returns the questions asked so far.
func (s *ScriptedConfirmer) Asked() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.asked...)
}
