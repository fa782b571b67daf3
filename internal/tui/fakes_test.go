package tui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/weekmenu/internal/models"
	"github.com/julianstephens/weekmenu/internal/rowedit"
	"github.com/julianstephens/weekmenu/internal/suggest"
)

type fakeMenu struct {
	mu       sync.Mutex
	week     models.MenuListDict
	nextID   int64
	calls    []string
	fetchErr error
}

func (f *fakeMenu) FetchWeek(ctx context.Context) (models.MenuListDict, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.week.Clone(), nil
}

func (f *fakeMenu) EditEntry(ctx context.Context, id int64, name string) (models.MenuListDict, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "edit:"+name)
	for day, entries := range f.week {
		for i := range entries {
			if entries[i].ID == id {
				f.week[day][i].RecipeName = name
			}
		}
	}
	return f.week.Clone(), nil
}

func (f *fakeMenu) DeleteEntry(ctx context.Context, id int64) (models.MenuListDict, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "delete")
	for day, entries := range f.week {
		kept := entries[:0]
		for _, e := range entries {
			if e.ID != id {
				kept = append(kept, e)
			}
		}
		f.week[day] = kept
	}
	return f.week.Clone(), nil
}

func (f *fakeMenu) AddEntry(ctx context.Context, day models.WeekdayCode, name string) (models.MenuListDict, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "add:"+name)
	f.nextID++
	f.week[day] = append(f.week[day], models.MenuEntry{ID: f.nextID, Weekday: day, RecipeName: name})
	return f.week.Clone(), nil
}

func (f *fakeMenu) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// catalogue suggests every known name containing the typed text.
type catalogue []string

func (c catalogue) Suggest(ctx context.Context, partial string) (suggest.Set, error) {
	if partial == "" {
		return suggest.NewSet(), nil
	}
	var names []string
	for _, name := range c {
		if strings.Contains(strings.ToLower(name), strings.ToLower(partial)) {
			names = append(names, name)
		}
	}
	return suggest.NewSet(names...), nil
}

type fakeSender struct {
	msgs chan tea.Msg
}

func newFakeSender() *fakeSender {
	return &fakeSender{msgs: make(chan tea.Msg, 32)}
}

func (s *fakeSender) Send(msg tea.Msg) {
	s.msgs <- msg
}

type harness struct {
	model  Model
	menu   *fakeMenu
	sender *fakeSender
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	menu := &fakeMenu{
		nextID: 10,
		week: models.MenuListDict{
			models.Monday: {
				{ID: 1, Weekday: models.Monday, RecipeName: "Curry"},
				{ID: 2, Weekday: models.Monday, RecipeName: "Salad"},
			},
		},
	}
	sender := newFakeSender()
	bridge := NewBridge()
	bridge.Attach(sender)

	board, err := rowedit.NewBoard(rowedit.Deps{
		Service:     menu,
		Suggestions: catalogue{"Curry", "Salad", "Soup", "Sourdough", "Pizza"},
		Confirmer:   bridge,
		Messenger:   bridge,
	})
	if err != nil {
		t.Fatalf("NewBoard() error = %v", err)
	}

	h := &harness{model: New(ctx, board, menu), menu: menu, sender: sender}
	h.model.day = 0
	h.step(t)
	return h
}

func (h *harness) update(msg tea.Msg) {
	next, _ := h.model.Update(msg)
	h.model = next.(Model)
}

func (h *harness) press(keys ...tea.KeyMsg) {
	for _, k := range keys {
		h.update(k)
	}
}

func (h *harness) typeText(text string) {
	h.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

// step delivers the next finished job to the model.
func (h *harness) step(t *testing.T) {
	t.Helper()
	select {
	case msg := <-h.model.results:
		h.update(msg)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a job")
	}
}

// settle delivers finished jobs until none are pending.
func (h *harness) settle(t *testing.T) {
	t.Helper()
	for h.model.pending > 0 {
		h.step(t)
	}
}

// awaitConfirm feeds messages sent through the bridge until a dialog opens.
func (h *harness) awaitConfirm(t *testing.T) string {
	t.Helper()
	for {
		select {
		case msg := <-h.sender.msgs:
			h.update(msg)
			if req, ok := msg.(confirmRequestMsg); ok {
				return req.message
			}
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for a confirmation")
			return ""
		}
	}
}

func (h *harness) names(day models.WeekdayCode) []string {
	var names []string
	for _, row := range h.model.board.Controller(day).Rows() {
		names = append(names, row.DisplayName)
	}
	return names
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
	keyClear = tea.KeyMsg{Type: tea.KeyCtrlU}
	keyUndo  = tea.KeyMsg{Type: tea.KeyCtrlZ}
	keyAdd   = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")}
)
