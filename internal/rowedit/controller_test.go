package rowedit

import (
	"context"
	"errors"
	"testing"

	"github.com/julianstephens/weekmenu/internal/apiclient"
	"github.com/julianstephens/weekmenu/internal/constants"
	"github.com/julianstephens/weekmenu/internal/models"
)

var catalogue = []string{"Curry", "Green Curry", "Ramen", "Udon"}

type fixture struct {
	ctrl     *Controller
	week     *Week
	service  *fakeService
	confirm  *fakeConfirmer
	source   *catalogueSource
	messages *fakeMessenger
}

func newFixture(t *testing.T, entries ...models.MenuEntry) *fixture {
	t.Helper()
	if len(entries) == 0 {
		entries = []models.MenuEntry{{ID: 1, Weekday: models.Monday, RecipeName: "Curry"}}
	}
	f := &fixture{
		week:     NewWeek(models.MenuListDict{models.Monday: entries}),
		service:  &fakeService{},
		confirm:  &fakeConfirmer{answer: true},
		source:   &catalogueSource{names: catalogue},
		messages: &fakeMessenger{},
	}
	ctrl, err := NewController(models.Monday, Deps{
		Week:        f.week,
		Service:     f.service,
		Suggestions: f.source,
		Confirmer:   f.confirm,
		Messenger:   f.messages,
	})
	if err != nil {
		t.Fatalf("NewController() error = %v", err)
	}
	f.ctrl = ctrl
	return f
}

func (f *fixture) mustEnter(t *testing.T, index int) {
	t.Helper()
	if err := f.ctrl.EnterEdit(context.Background(), index); err != nil {
		t.Fatalf("EnterEdit(%d) error = %v", index, err)
	}
}

func (f *fixture) mustType(t *testing.T, text string) {
	t.Helper()
	if err := f.ctrl.Type(context.Background(), text); err != nil {
		t.Fatalf("Type(%q) error = %v", text, err)
	}
}

func (f *fixture) mustCompose(t *testing.T, text string) {
	t.Helper()
	if err := f.ctrl.ComposeType(context.Background(), text); err != nil {
		t.Fatalf("ComposeType(%q) error = %v", text, err)
	}
}

func expectOutcome(t *testing.T, got Outcome, err error, want Outcome) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Fatalf("outcome = %v, want %v", got, want)
	}
}

func editingCount(rows []models.MenuEntryView) int {
	n := 0
	for _, r := range rows {
		if r.State.IsEditing() {
			n++
		}
	}
	return n
}

func TestNewControllerValidates(t *testing.T) {
	week := NewWeek(nil)
	if _, err := NewController("0", Deps{Week: week, Service: &fakeService{}, Confirmer: &fakeConfirmer{}}); err == nil {
		t.Error("expected error for invalid weekday")
	}
	if _, err := NewController(models.Monday, Deps{Week: week, Service: &fakeService{}}); err == nil {
		t.Error("expected error without confirmer")
	}
	if _, err := NewController(models.Monday, Deps{Service: &fakeService{}, Confirmer: &fakeConfirmer{}}); err == nil {
		t.Error("expected error without week")
	}
}

func TestEditCommitsKnownName(t *testing.T) {
	f := newFixture(t)
	f.service.next = models.MenuListDict{models.Monday: {{ID: 1, Weekday: models.Monday, RecipeName: "Ramen"}}}

	f.mustEnter(t, 0)
	f.mustType(t, "Ramen")
	if rows := f.ctrl.Rows(); rows[0].DisplayName != "Ramen" {
		t.Errorf("typed text not echoed: %q", rows[0].DisplayName)
	}

	outcome, err := f.ctrl.ClickOutside(context.Background())
	expectOutcome(t, outcome, err, OutcomeCommitted)

	if len(f.confirm.prompts) != 1 || f.confirm.prompts[0] != constants.MsgConfirmEdit {
		t.Errorf("prompts = %v", f.confirm.prompts)
	}
	calls := f.service.Calls()
	if len(calls) != 1 || calls[0] != (serviceCall{Op: "edit", ID: 1, Name: "Ramen"}) {
		t.Errorf("calls = %+v", calls)
	}
	if f.week.Version() != 1 {
		t.Errorf("canonical week replaced %d times, want 1", f.week.Version())
	}
	rows := f.ctrl.Rows()
	if rows[0].Entry.RecipeName != "Ramen" || rows[0].State != models.RowAtRest {
		t.Errorf("row after commit = %+v", rows[0])
	}
	if f.ctrl.Editing() {
		t.Error("edit session still open")
	}
	if f.messages.cleared != 1 {
		t.Errorf("messages cleared %d times, want 1", f.messages.cleared)
	}
}

func TestEditUnknownNameReverts(t *testing.T) {
	f := newFixture(t)

	f.mustEnter(t, 0)
	f.mustType(t, "Xyzzy")

	outcome, err := f.ctrl.ClickOutside(context.Background())
	expectOutcome(t, outcome, err, OutcomeReverted)

	if len(f.confirm.prompts) != 0 {
		t.Errorf("unexpected prompts %v", f.confirm.prompts)
	}
	if len(f.service.Calls()) != 0 {
		t.Errorf("unexpected calls %+v", f.service.Calls())
	}
	row := f.ctrl.Rows()[0]
	if row.DisplayName != "Curry" || row.State != models.RowAtRest {
		t.Errorf("row = %+v, want Curry at rest", row)
	}
}

func TestEditEmptyNameDeletes(t *testing.T) {
	f := newFixture(t)
	f.service.next = models.MenuListDict{}

	f.mustEnter(t, 0)
	f.mustType(t, "")

	outcome, err := f.ctrl.ClickOutside(context.Background())
	expectOutcome(t, outcome, err, OutcomeCommitted)

	if len(f.confirm.prompts) != 1 || f.confirm.prompts[0] != constants.MsgConfirmDelete {
		t.Errorf("prompts = %v", f.confirm.prompts)
	}
	calls := f.service.Calls()
	if len(calls) != 1 || calls[0] != (serviceCall{Op: "delete", ID: 1}) {
		t.Errorf("calls = %+v", calls)
	}
	if len(f.ctrl.Rows()) != 0 {
		t.Errorf("rows = %+v, want none", f.ctrl.Rows())
	}
}

func TestDeleteDeclinedRestoresRow(t *testing.T) {
	f := newFixture(t)
	f.confirm.answer = false

	f.mustEnter(t, 0)
	f.mustType(t, "")

	outcome, err := f.ctrl.ClickOutside(context.Background())
	expectOutcome(t, outcome, err, OutcomeDeclined)

	if len(f.service.Calls()) != 0 {
		t.Errorf("unexpected calls %+v", f.service.Calls())
	}
	row := f.ctrl.Rows()[0]
	if row.DisplayName != "Curry" || row.State != models.RowAtRest {
		t.Errorf("row = %+v, want Curry at rest", row)
	}
}

func TestEditDeclinedRestoresRow(t *testing.T) {
	f := newFixture(t)
	f.confirm.answer = false

	f.mustEnter(t, 0)
	f.mustType(t, "Ramen")

	outcome, err := f.ctrl.ClickOutside(context.Background())
	expectOutcome(t, outcome, err, OutcomeDeclined)

	if len(f.service.Calls()) != 0 {
		t.Errorf("unexpected calls %+v", f.service.Calls())
	}
	row := f.ctrl.Rows()[0]
	if row.DisplayName != "Curry" || row.State.IsEditing() {
		t.Errorf("row = %+v, want Curry at rest", row)
	}
}

func TestConfirmErrorIsReturned(t *testing.T) {
	f := newFixture(t)
	f.confirm.err = errors.New("user aborted")

	f.mustEnter(t, 0)
	f.mustType(t, "Ramen")

	outcome, err := f.ctrl.ClickOutside(context.Background())
	if outcome != OutcomeDeclined || err == nil {
		t.Errorf("ClickOutside() = %v, %v; want declined with error", outcome, err)
	}
	if len(f.service.Calls()) != 0 {
		t.Error("no request expected")
	}
}

func TestUnchangedNameNeverPrompts(t *testing.T) {
	t.Run("blur", func(t *testing.T) {
		f := newFixture(t)
		f.mustEnter(t, 0)
		f.mustType(t, "Cur")
		f.mustType(t, "Curry")

		outcome, err := f.ctrl.ClickOutside(context.Background())
		expectOutcome(t, outcome, err, OutcomeUnchanged)
		if len(f.confirm.prompts) != 0 || len(f.service.Calls()) != 0 {
			t.Errorf("prompts %v, calls %+v", f.confirm.prompts, f.service.Calls())
		}
		if editingCount(f.ctrl.Rows()) != 0 {
			t.Error("edit flag not cleared")
		}
	})

	t.Run("blur without typing", func(t *testing.T) {
		f := newFixture(t)
		f.mustEnter(t, 0)
		outcome, err := f.ctrl.ClickOutside(context.Background())
		expectOutcome(t, outcome, err, OutcomeUnchanged)
		if len(f.confirm.prompts) != 0 {
			t.Errorf("prompts %v", f.confirm.prompts)
		}
	})

	t.Run("suggestion click", func(t *testing.T) {
		f := newFixture(t)
		f.mustEnter(t, 0)
		f.mustType(t, "Cur")

		outcome, err := f.ctrl.EditSuggestionClick(context.Background(), "Curry")
		expectOutcome(t, outcome, err, OutcomeUnchanged)
		if len(f.confirm.prompts) != 0 || len(f.service.Calls()) != 0 {
			t.Errorf("prompts %v, calls %+v", f.confirm.prompts, f.service.Calls())
		}
		if row := f.ctrl.Rows()[0]; row.DisplayName != "Curry" {
			t.Errorf("display = %q", row.DisplayName)
		}
	})
}

func TestOnlyOneRowEditing(t *testing.T) {
	f := newFixture(t,
		models.MenuEntry{ID: 1, Weekday: models.Monday, RecipeName: "Curry"},
		models.MenuEntry{ID: 2, Weekday: models.Monday, RecipeName: "Ramen"},
		models.MenuEntry{ID: 3, Weekday: models.Monday, RecipeName: "Udon"},
	)

	for _, index := range []int{0, 2, 1, 1, 0} {
		f.mustEnter(t, index)
		rows := f.ctrl.Rows()
		if n := editingCount(rows); n != 1 {
			t.Fatalf("after EnterEdit(%d): %d rows editing", index, n)
		}
		if !rows[index].State.IsEditing() {
			t.Fatalf("row %d is not the editing row", index)
		}
		f.mustType(t, "typed")
	}

	// Switching rows drops the earlier typing without asking
	rows := f.ctrl.Rows()
	if rows[1].DisplayName != "Ramen" || rows[2].DisplayName != "Udon" {
		t.Errorf("abandoned rows not restored: %+v", rows)
	}
	if len(f.confirm.prompts) != 0 {
		t.Errorf("implicit close prompted: %v", f.confirm.prompts)
	}
}

func TestEnterEditOutOfRange(t *testing.T) {
	f := newFixture(t)
	if err := f.ctrl.EnterEdit(context.Background(), 5); err == nil {
		t.Error("expected error")
	}
	if err := f.ctrl.EnterEdit(context.Background(), -1); err == nil {
		t.Error("expected error")
	}
}

func TestEditSuggestionClickCommits(t *testing.T) {
	f := newFixture(t)
	f.service.next = models.MenuListDict{models.Monday: {{ID: 1, Weekday: models.Monday, RecipeName: "Ramen"}}}

	f.mustEnter(t, 0)
	f.mustType(t, "Ra")
	if row := f.ctrl.Rows()[0]; row.State != models.RowSuggestionsOpen {
		t.Errorf("state = %v, want suggestions open", row.State)
	}

	outcome, err := f.ctrl.EditSuggestionClick(context.Background(), "Ramen")
	expectOutcome(t, outcome, err, OutcomeCommitted)
	calls := f.service.Calls()
	if len(calls) != 1 || calls[0].Name != "Ramen" {
		t.Errorf("calls = %+v", calls)
	}
}

func TestEditSuggestionClickRejectsUnknown(t *testing.T) {
	f := newFixture(t)
	f.mustEnter(t, 0)
	f.mustType(t, "Ra")

	outcome, err := f.ctrl.EditSuggestionClick(context.Background(), "Pizza")
	expectOutcome(t, outcome, err, OutcomeReverted)
	if len(f.confirm.prompts) != 0 || len(f.service.Calls()) != 0 {
		t.Error("unknown name must not reach the prompt or the server")
	}
	if row := f.ctrl.Rows()[0]; row.DisplayName != "Curry" {
		t.Errorf("display = %q", row.DisplayName)
	}
}

func TestEditFailureSurfacesMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"server detail", &apiclient.Error{StatusCode: 400, Detail: "Recipe not found"}, "Recipe not found"},
		{"timeout", &apiclient.Error{TimeoutMessage: constants.MsgTimeout}, constants.MsgTimeout},
		{"no detail", &apiclient.Error{StatusCode: 500}, constants.MsgMissingRequest},
		{"foreign", errors.New("boom"), constants.MsgMissingRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.service.err = tt.err

			f.mustEnter(t, 0)
			f.mustType(t, "Ramen")

			outcome, err := f.ctrl.ClickOutside(context.Background())
			expectOutcome(t, outcome, err, OutcomeFailed)

			if len(f.messages.shown) != 1 {
				t.Fatalf("shown = %+v", f.messages.shown)
			}
			if got := f.messages.shown[0]; got.Severity != SeverityError || got.Text != tt.want {
				t.Errorf("shown = %+v, want error %q", got, tt.want)
			}
			if f.week.Version() != 0 {
				t.Error("canonical week must not change on failure")
			}
			calls := f.service.Calls()
			if len(calls) != 1 {
				t.Errorf("failed request retried: %+v", calls)
			}
			row := f.ctrl.Rows()[0]
			if row.DisplayName != "Ramen" || row.State.IsEditing() {
				t.Errorf("row = %+v, want Ramen shown at rest", row)
			}
		})
	}
}

func TestComposeAddsKnownName(t *testing.T) {
	f := newFixture(t)
	f.service.next = models.MenuListDict{models.Monday: {
		{ID: 1, Weekday: models.Monday, RecipeName: "Curry"},
		{ID: 2, Weekday: models.Monday, RecipeName: "Udon"},
	}}

	f.mustCompose(t, "Udon")
	if v := f.ctrl.View(); !v.Composing || !v.ComposeSuggestionsVisible || v.EditingIndex != -1 {
		t.Errorf("view = %+v", v)
	}
	if len(f.ctrl.Rows()) != 1 {
		t.Error("composition must not insert a row locally")
	}

	outcome, err := f.ctrl.ClickOutside(context.Background())
	expectOutcome(t, outcome, err, OutcomeCommitted)

	if len(f.confirm.prompts) != 1 || f.confirm.prompts[0] != constants.MsgConfirmAdd {
		t.Errorf("prompts = %v", f.confirm.prompts)
	}
	calls := f.service.Calls()
	if len(calls) != 1 || calls[0] != (serviceCall{Op: "add", Day: models.Monday, Name: "Udon"}) {
		t.Errorf("calls = %+v", calls)
	}
	if len(f.ctrl.Rows()) != 2 {
		t.Errorf("rows = %+v", f.ctrl.Rows())
	}
}

func TestComposeDiscards(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"unknown name", "Xyzzy"},
		{"partial name", "Ud"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.mustCompose(t, tt.text)

			outcome, err := f.ctrl.ClickOutside(context.Background())
			expectOutcome(t, outcome, err, OutcomeDiscarded)
			if len(f.confirm.prompts) != 0 || len(f.service.Calls()) != 0 {
				t.Errorf("prompts %v, calls %+v", f.confirm.prompts, f.service.Calls())
			}
			if f.ctrl.Editing() {
				t.Error("composition still open")
			}
		})
	}
}

func TestComposeDeclined(t *testing.T) {
	f := newFixture(t)
	f.confirm.answer = false
	f.mustCompose(t, "Udon")

	outcome, err := f.ctrl.ClickOutside(context.Background())
	expectOutcome(t, outcome, err, OutcomeDeclined)
	if len(f.service.Calls()) != 0 {
		t.Error("declined add must not reach the server")
	}
}

func TestAddSuggestionClick(t *testing.T) {
	t.Run("confirmed", func(t *testing.T) {
		f := newFixture(t)
		f.service.next = models.MenuListDict{}
		f.mustCompose(t, "ram")

		outcome, err := f.ctrl.AddSuggestionClick(context.Background(), "Ramen")
		expectOutcome(t, outcome, err, OutcomeCommitted)
		calls := f.service.Calls()
		if len(calls) != 1 || calls[0].Name != "Ramen" || calls[0].Day != models.Monday {
			t.Errorf("calls = %+v", calls)
		}
	})

	t.Run("declined still clears", func(t *testing.T) {
		f := newFixture(t)
		f.confirm.answer = false
		f.mustCompose(t, "ram")

		outcome, err := f.ctrl.AddSuggestionClick(context.Background(), "Ramen")
		expectOutcome(t, outcome, err, OutcomeDeclined)
		if f.ctrl.Editing() || f.ctrl.View().CurrentName != "" {
			t.Error("composition not cleared after decline")
		}
	})

	t.Run("not a suggestion", func(t *testing.T) {
		f := newFixture(t)
		f.mustCompose(t, "ram")

		outcome, err := f.ctrl.AddSuggestionClick(context.Background(), "Pizza")
		expectOutcome(t, outcome, err, OutcomeDiscarded)
		if len(f.confirm.prompts) != 0 {
			t.Error("unexpected prompt")
		}
	})

	t.Run("without composition", func(t *testing.T) {
		f := newFixture(t)
		outcome, err := f.ctrl.AddSuggestionClick(context.Background(), "Ramen")
		expectOutcome(t, outcome, err, OutcomeNone)
	})
}

func TestComposeClosesRowEdit(t *testing.T) {
	f := newFixture(t)
	f.mustEnter(t, 0)
	f.mustType(t, "Ramen")
	f.mustCompose(t, "U")

	row := f.ctrl.Rows()[0]
	if row.DisplayName != "Curry" || row.State.IsEditing() {
		t.Errorf("row = %+v, want Curry at rest", row)
	}
	if !f.ctrl.View().Composing {
		t.Error("expected composition")
	}
}

func TestClickOutsideWithoutSession(t *testing.T) {
	f := newFixture(t)
	outcome, err := f.ctrl.ClickOutside(context.Background())
	expectOutcome(t, outcome, err, OutcomeNone)
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	if got := f.ctrl.Cancel(); got != OutcomeNone {
		t.Errorf("Cancel() without session = %v", got)
	}

	f.mustEnter(t, 0)
	f.mustType(t, "Ramen")
	if got := f.ctrl.Cancel(); got != OutcomeReverted {
		t.Errorf("Cancel() = %v, want reverted", got)
	}
	if row := f.ctrl.Rows()[0]; row.DisplayName != "Curry" || row.State != models.RowAtRest {
		t.Errorf("row = %+v", row)
	}

	f.mustCompose(t, "Udon")
	if got := f.ctrl.Cancel(); got != OutcomeDiscarded {
		t.Errorf("Cancel() composing = %v, want discarded", got)
	}
	if len(f.confirm.prompts) != 0 || len(f.service.Calls()) != 0 {
		t.Error("cancel must not prompt or send")
	}
}

func TestCanonicalReplaceResetsEdit(t *testing.T) {
	f := newFixture(t)
	f.mustEnter(t, 0)
	f.mustType(t, "Ramen")

	f.week.Replace(models.MenuListDict{models.Monday: {
		{ID: 1, Weekday: models.Monday, RecipeName: "Udon"},
	}})

	if f.ctrl.Editing() {
		t.Error("edit survived a canonical replace")
	}
	row := f.ctrl.Rows()[0]
	if row.DisplayName != "Udon" || row.State != models.RowAtRest {
		t.Errorf("row = %+v", row)
	}
	outcome, err := f.ctrl.ClickOutside(context.Background())
	expectOutcome(t, outcome, err, OutcomeNone)
}

func TestStaleSuggestionsDropped(t *testing.T) {
	f := newFixture(t)
	f.mustEnter(t, 0)

	// The answer for "Cu" arrives after the user already typed "Ra"
	f.source.during = func(partial string) {
		if err := f.ctrl.Type(context.Background(), "Ra"); err != nil {
			t.Errorf("nested Type() error = %v", err)
		}
	}
	f.mustType(t, "Cu")

	set := f.ctrl.Suggestions()
	if !set.Contains("Ramen") || set.Contains("Curry") {
		t.Errorf("suggestions = %v, want the answer for Ra", set.Names())
	}
}

func TestSuggestionFailure(t *testing.T) {
	f := newFixture(t)
	f.mustEnter(t, 0)

	f.source.err = errors.New("index offline")
	if err := f.ctrl.Type(context.Background(), "Ramen"); err == nil {
		t.Fatal("expected error")
	}
	if f.ctrl.Suggestions().Len() != 0 {
		t.Error("suggestions must be empty after a failed query")
	}

	// Without suggestions nothing is a known name
	outcome, err := f.ctrl.ClickOutside(context.Background())
	expectOutcome(t, outcome, err, OutcomeReverted)
}

func TestSuggestionVisibility(t *testing.T) {
	f := newFixture(t)
	f.mustEnter(t, 0)
	f.mustType(t, "Ra")

	if got := f.ctrl.Rows()[0].State; got != models.RowSuggestionsOpen {
		t.Errorf("state = %v", got)
	}
	f.ctrl.HideSuggestions()
	if got := f.ctrl.Rows()[0].State; got != models.RowEditing {
		t.Errorf("state after hide = %v", got)
	}
	f.ctrl.ShowSuggestions()
	if got := f.ctrl.Rows()[0].State; got != models.RowSuggestionsOpen {
		t.Errorf("state after show = %v", got)
	}

	f.mustType(t, "zzz")
	if got := f.ctrl.Rows()[0].State; got != models.RowEditing {
		t.Errorf("state with no matches = %v", got)
	}
}

func TestCommitReplacesOtherColumns(t *testing.T) {
	f := newFixture(t)
	tuesday, err := NewController(models.Tuesday, Deps{
		Week:      f.week,
		Service:   f.service,
		Confirmer: f.confirm,
	})
	if err != nil {
		t.Fatalf("NewController() error = %v", err)
	}

	f.service.next = models.MenuListDict{
		models.Monday:  {{ID: 1, Weekday: models.Monday, RecipeName: "Ramen"}},
		models.Tuesday: {{ID: 7, Weekday: models.Tuesday, RecipeName: "Udon"}},
	}
	f.mustEnter(t, 0)
	f.mustType(t, "Ramen")
	outcome, err := f.ctrl.ClickOutside(context.Background())
	expectOutcome(t, outcome, err, OutcomeCommitted)

	rows := tuesday.Rows()
	if len(rows) != 1 || rows[0].Entry.RecipeName != "Udon" {
		t.Errorf("tuesday rows = %+v", rows)
	}
}
