package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/weekmenu/internal/models"
	"github.com/julianstephens/weekmenu/internal/rowedit"
	"github.com/julianstephens/weekmenu/internal/tui/components/column"
)

type mode int

const (
	modeBrowse mode = iota
	modeEditing
	modePicking
)

type op int

const (
	opLoad op = iota
	opSuggest
	opLeave
)

const (
	queueSize          = 64
	defaultColumnWidth = 18
	minColumnWidth     = 14
)

// job is one controller call.
type job func(ctx context.Context) tea.Msg

type jobDoneMsg struct {
	op      op
	day     models.WeekdayCode
	outcome rowedit.Outcome
	err     error
}

type confirmPrompt struct {
	form   *huh.Form
	answer bool
	reply  chan<- bool
}

type Model struct {
	ctx     context.Context
	board   *rowedit.Board
	fetcher rowedit.Fetcher
	jobs    chan job
	results chan tea.Msg

	keys   KeyMap
	help   help.Model
	input  textinput.Model
	column column.Model

	mode      mode
	day       int
	row       int
	pick      int
	composing bool
	pending   int
	confirm   *confirmPrompt
	status    string
	severity  rowedit.Severity
	loading   bool
	loggedOut bool
	quitting  bool
	width     int
	height    int
}

// New creates the editor and queues the first load of the week. The worker
// stops when ctx is done.
func New(ctx context.Context, board *rowedit.Board, fetcher rowedit.Fetcher) Model {
	in := textinput.New()
	in.Prompt = "› "
	in.Placeholder = "recipe name"
	in.CharLimit = 120

	m := Model{
		ctx:     ctx,
		board:   board,
		fetcher: fetcher,
		jobs:    make(chan job, queueSize),
		results: make(chan tea.Msg),
		keys:    DefaultKeyMap(),
		help:    help.New(),
		input:   in,
		column:  column.New(defaultColumnWidth),
		day:     dayIndex(models.WeekdayFromTime(time.Now())),
		pick:    -1,
	}
	go work(ctx, m.jobs, m.results)

	m.loading = true
	m.enqueue(loadJob(board, fetcher))
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForResult(m.results), textinput.Blink)
}

func work(ctx context.Context, jobs <-chan job, results chan<- tea.Msg) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-jobs:
			msg := j(ctx)
			select {
			case results <- msg:
			case <-ctx.Done():
				return
			}
		}
	}
}

func waitForResult(results <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-results
	}
}

// enqueue hands j to the worker. It fails only when the queue is full.
func (m *Model) enqueue(j job) bool {
	select {
	case m.jobs <- j:
		m.pending++
		return true
	default:
		m.status, m.severity = "Still working, try again in a moment.", rowedit.SeverityWarning
		return false
	}
}

func (m Model) current() *rowedit.Controller {
	return m.board.Controller(models.Weekdays[m.day])
}

func dayIndex(day models.WeekdayCode) int {
	for i, d := range models.Weekdays {
		if d == day {
			return i
		}
	}
	return 0
}

func columnWidth(total int) int {
	w := (total - 4) / len(models.Weekdays)
	if w < minColumnWidth {
		return minColumnWidth
	}
	return w
}

func loadJob(b *rowedit.Board, f rowedit.Fetcher) job {
	return func(ctx context.Context) tea.Msg {
		return jobDoneMsg{op: opLoad, err: b.Load(ctx, f)}
	}
}

func enterJob(c *rowedit.Controller, row int) job {
	return func(ctx context.Context) tea.Msg {
		return jobDoneMsg{op: opSuggest, day: c.Day(), err: c.EnterEdit(ctx, row)}
	}
}

func typeJob(c *rowedit.Controller, text string, composing bool) job {
	return func(ctx context.Context) tea.Msg {
		var err error
		if composing {
			err = c.ComposeType(ctx, text)
		} else {
			err = c.Type(ctx, text)
		}
		return jobDoneMsg{op: opSuggest, day: c.Day(), err: err}
	}
}

func leaveJob(c *rowedit.Controller) job {
	return func(ctx context.Context) tea.Msg {
		outcome, err := c.ClickOutside(ctx)
		return jobDoneMsg{op: opLeave, day: c.Day(), outcome: outcome, err: err}
	}
}

func pickJob(c *rowedit.Controller, name string, composing bool) job {
	return func(ctx context.Context) tea.Msg {
		var (
			outcome rowedit.Outcome
			err     error
		)
		if composing {
			outcome, err = c.AddSuggestionClick(ctx, name)
		} else {
			outcome, err = c.EditSuggestionClick(ctx, name)
		}
		return jobDoneMsg{op: opLeave, day: c.Day(), outcome: outcome, err: err}
	}
}

func cancelJob(c *rowedit.Controller) job {
	return func(ctx context.Context) tea.Msg {
		return jobDoneMsg{op: opLeave, day: c.Day(), outcome: c.Cancel()}
	}
}

// Run starts the editor full screen and blocks until the user quits.
func Run(ctx context.Context, board *rowedit.Board, fetcher rowedit.Fetcher, bridge *Bridge) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(New(ctx, board, fetcher), tea.WithAltScreen(), tea.WithContext(ctx))
	bridge.Attach(p)
	defer bridge.Attach(nil)

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("editor failed: %w", err)
	}
	return nil
}
