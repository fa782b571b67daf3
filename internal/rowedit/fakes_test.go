package rowedit

import (
	"context"
	"strings"
	"sync"

	"github.com/julianstephens/weekmenu/internal/models"
	"github.com/julianstephens/weekmenu/internal/suggest"
)

type serviceCall struct {
	Op   string
	ID   int64
	Day  models.WeekdayCode
	Name string
}

// fakeService records calls and answers with next or err.
type fakeService struct {
	mu    sync.Mutex
	calls []serviceCall
	next  models.MenuListDict
	err   error
}

func (f *fakeService) record(call serviceCall) (models.MenuListDict, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	if f.err != nil {
		return nil, f.err
	}
	return f.next, nil
}

func (f *fakeService) EditEntry(ctx context.Context, id int64, name string) (models.MenuListDict, error) {
	return f.record(serviceCall{Op: "edit", ID: id, Name: name})
}

func (f *fakeService) DeleteEntry(ctx context.Context, id int64) (models.MenuListDict, error) {
	return f.record(serviceCall{Op: "delete", ID: id})
}

func (f *fakeService) AddEntry(ctx context.Context, day models.WeekdayCode, name string) (models.MenuListDict, error) {
	return f.record(serviceCall{Op: "add", Day: day, Name: name})
}

func (f *fakeService) FetchWeek(ctx context.Context) (models.MenuListDict, error) {
	return f.record(serviceCall{Op: "fetch"})
}

func (f *fakeService) Calls() []serviceCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]serviceCall(nil), f.calls...)
}

// fakeConfirmer answers with answer and records every prompt.
type fakeConfirmer struct {
	answer  bool
	err     error
	prompts []string
}

func (f *fakeConfirmer) Confirm(ctx context.Context, message string) (bool, error) {
	f.prompts = append(f.prompts, message)
	return f.answer, f.err
}

// catalogueSource matches names containing the partial text, ignoring case.
type catalogueSource struct {
	names   []string
	err     error
	queries []string
	// during runs inside Suggest, before the answer is returned
	during func(partial string)
}

func (s *catalogueSource) Suggest(ctx context.Context, partial string) (suggest.Set, error) {
	s.queries = append(s.queries, partial)
	if s.during != nil {
		during := s.during
		s.during = nil
		during(partial)
	}
	if s.err != nil {
		return suggest.Set{}, s.err
	}
	var out []string
	for _, name := range s.names {
		if partial != "" && strings.Contains(strings.ToLower(name), strings.ToLower(partial)) {
			out = append(out, name)
		}
	}
	return suggest.NewSet(out...), nil
}

type shownMessage struct {
	Severity Severity
	Text     string
}

type fakeMessenger struct {
	shown   []shownMessage
	cleared int
}

func (m *fakeMessenger) Show(severity Severity, message string) {
	m.shown = append(m.shown, shownMessage{severity, message})
}

func (m *fakeMessenger) Clear() {
	m.cleared++
}
