package rowedit

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/julianstephens/weekmenu/internal/apiclient"
	"github.com/julianstephens/weekmenu/internal/constants"
	"github.com/julianstephens/weekmenu/internal/logger"
	"github.com/julianstephens/weekmenu/internal/models"
	"github.com/julianstephens/weekmenu/internal/suggest"
)

// Deps are the collaborators a Controller works with.
type Deps struct {
	Week        *Week
	Service     MenuService
	Suggestions suggest.Source
	Confirmer   Confirmer
	Messenger   Messenger
}

func (d Deps) validate() error {
	switch {
	case d.Week == nil:
		return errors.New("week is required")
	case d.Service == nil:
		return errors.New("menu service is required")
	case d.Confirmer == nil:
		return errors.New("confirmer is required")
	}
	return nil
}

// editSession is the in-progress edit of one column. While composing, the
// text belongs to the "add" slot rather than to a row.
type editSession struct {
	open         bool
	composing    bool
	entryID      int64
	originalName string
	currentName  string
}

// View is a point-in-time copy of a column for rendering.
type View struct {
	Day                       models.WeekdayCode
	Rows                      []models.MenuEntryView
	EditingIndex              int
	Composing                 bool
	CurrentName               string
	OriginalName              string
	Suggestions               []string
	ComposeSuggestionsVisible bool
}

// Controller owns the view state of one weekday column.
type Controller struct {
	day      models.WeekdayCode
	week     *Week
	service  MenuService
	source   suggest.Source
	confirm  Confirmer
	messages Messenger

	mu             sync.Mutex
	rows           []models.MenuEntryView
	session        editSession
	suggestions    suggest.Set
	composeVisible bool
	// gen changes whenever the session is opened, closed or reset, so late
	// suggestion answers for an older session are dropped.
	gen uint64
}

// NewController creates the controller for day and keeps it in sync with the
// canonical week.
func NewController(day models.WeekdayCode, deps Deps) (*Controller, error) {
	if !day.Valid() {
		return nil, fmt.Errorf("invalid weekday code %q", day)
	}
	if err := deps.validate(); err != nil {
		return nil, err
	}
	messages := deps.Messenger
	if messages == nil {
		messages = nopMessenger{}
	}

	c := &Controller{
		day:      day,
		week:     deps.Week,
		service:  deps.Service,
		source:   deps.Suggestions,
		confirm:  deps.Confirmer,
		messages: messages,
	}
	c.rebuild(deps.Week.Entries(day))
	deps.Week.Subscribe(func(dict models.MenuListDict) {
		c.rebuild(dict.Entries(day))
	})
	return c, nil
}

func (c *Controller) Day() models.WeekdayCode {
	return c.day
}

// rebuild derives fresh rows from canonical entries. Any open edit is
// dropped.
func (c *Controller) rebuild(entries []models.MenuEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = models.BuildViews(entries)
	c.endSession()
}

// View returns a snapshot for rendering.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := View{
		Day:                       c.day,
		Rows:                      append([]models.MenuEntryView(nil), c.rows...),
		EditingIndex:              c.editingIndex(),
		Composing:                 c.session.open && c.session.composing,
		CurrentName:               c.session.currentName,
		OriginalName:              c.session.originalName,
		Suggestions:               c.suggestions.Names(),
		ComposeSuggestionsVisible: c.composeVisible,
	}
	return v
}

// Rows returns a copy of the current rows.
func (c *Controller) Rows() []models.MenuEntryView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.MenuEntryView(nil), c.rows...)
}

// Suggestions returns the live suggestion set.
func (c *Controller) Suggestions() suggest.Set {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.suggestions
}

// Editing reports whether an edit or composition is open.
func (c *Controller) Editing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.open
}

// EnterEdit puts row index into edit mode. Any other open edit in the column
// is closed silently.
func (c *Controller) EnterEdit(ctx context.Context, index int) error {
	c.mu.Lock()
	if index < 0 || index >= len(c.rows) {
		c.mu.Unlock()
		return fmt.Errorf("row %d out of range (column has %d rows)", index, len(c.rows))
	}
	c.closeSilently()

	for i := range c.rows {
		c.rows[i].State = models.RowAtRest
	}
	row := &c.rows[index]
	row.State = models.RowEditing
	c.openSession(editSession{
		entryID:      row.Entry.ID,
		originalName: row.DisplayName,
		currentName:  row.DisplayName,
	})
	gen, text := c.gen, c.session.currentName
	c.mu.Unlock()

	return c.refreshSuggestions(ctx, gen, text)
}

// Type records a keystroke in the editing row and echoes it locally.
func (c *Controller) Type(ctx context.Context, text string) error {
	c.mu.Lock()
	if !c.session.open || c.session.composing {
		c.mu.Unlock()
		return nil
	}
	c.session.currentName = text
	if i := c.indexOf(c.session.entryID); i >= 0 {
		c.rows[i].DisplayName = text
	}
	gen := c.gen
	c.mu.Unlock()

	return c.refreshSuggestions(ctx, gen, text)
}

// ComposeType records a keystroke in the "add" slot, opening a composition
// if needed.
func (c *Controller) ComposeType(ctx context.Context, text string) error {
	c.mu.Lock()
	if !c.session.open || !c.session.composing {
		c.closeSilently()
		c.openSession(editSession{composing: true})
	}
	c.session.currentName = text
	gen := c.gen
	c.mu.Unlock()

	return c.refreshSuggestions(ctx, gen, text)
}

// ShowSuggestions opens the suggestion list of the open edit.
func (c *Controller) ShowSuggestions() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.open {
		c.setSuggestionsVisible(true)
	}
}

// HideSuggestions closes the suggestion list without ending the edit.
func (c *Controller) HideSuggestions() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.open {
		c.setSuggestionsVisible(false)
	}
}

// Cancel abandons the open edit without running the decision policy.
func (c *Controller) Cancel() Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.session.open {
		return OutcomeNone
	}
	composing := c.session.composing
	c.closeSilently()
	if composing {
		return OutcomeDiscarded
	}
	return OutcomeReverted
}

// ClickOutside is the blur trigger. A composition becomes an add only when
// its text is a known suggestion. An edited row is deleted when emptied,
// committed when its name is a known suggestion, and reverted otherwise.
func (c *Controller) ClickOutside(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	if !c.session.open {
		c.mu.Unlock()
		return OutcomeNone, nil
	}
	s, set := c.session, c.suggestions
	c.endSession()

	if s.composing {
		c.mu.Unlock()
		if s.currentName == "" || !set.Contains(s.currentName) {
			return OutcomeDiscarded, nil
		}
		return c.submitAdd(ctx, s.currentName)
	}

	i := c.indexOf(s.entryID)
	if i < 0 {
		c.mu.Unlock()
		return OutcomeNone, nil
	}
	name := c.rows[i].DisplayName
	switch {
	case name == "":
		c.mu.Unlock()
		return c.submitDelete(ctx, s)
	case set.Contains(name):
		c.mu.Unlock()
		return c.submitEdit(ctx, s, name)
	default:
		c.rows[i].DisplayName = s.originalName
		c.rows[i].State = models.RowAtRest
		c.mu.Unlock()
		logger.Debug("Discarded unknown recipe name", "weekday", c.day, "name", name)
		return OutcomeReverted, nil
	}
}

// EditSuggestionClick commits a picked suggestion for the editing row.
func (c *Controller) EditSuggestionClick(ctx context.Context, suggestion string) (Outcome, error) {
	c.mu.Lock()
	if !c.session.open || c.session.composing {
		c.mu.Unlock()
		return OutcomeNone, nil
	}
	s, set := c.session, c.suggestions
	c.endSession()
	if !set.Contains(suggestion) {
		c.restoreRow(s.entryID, s.originalName)
		c.mu.Unlock()
		return OutcomeReverted, nil
	}
	c.mu.Unlock()

	return c.submitEdit(ctx, s, suggestion)
}

// AddSuggestionClick adds a picked suggestion to the column. The composition
// is cleared whatever the answer.
func (c *Controller) AddSuggestionClick(ctx context.Context, suggestion string) (Outcome, error) {
	c.mu.Lock()
	if !c.session.open || !c.session.composing {
		c.mu.Unlock()
		return OutcomeNone, nil
	}
	set := c.suggestions
	c.endSession()
	c.mu.Unlock()

	if !set.Contains(suggestion) {
		return OutcomeDiscarded, nil
	}
	return c.submitAdd(ctx, suggestion)
}

// submitEdit never prompts for an unchanged name.
func (c *Controller) submitEdit(ctx context.Context, s editSession, name string) (Outcome, error) {
	if name == s.originalName {
		c.settleRow(s.entryID, name)
		return OutcomeUnchanged, nil
	}

	ok, err := c.confirm.Confirm(ctx, constants.MsgConfirmEdit)
	if err != nil || !ok {
		c.mu.Lock()
		c.restoreRow(s.entryID, s.originalName)
		c.mu.Unlock()
		return OutcomeDeclined, err
	}

	c.settleRow(s.entryID, name)
	c.messages.Clear()
	logger.Debug("Editing menu entry", "weekday", c.day, "id", s.entryID, "recipe", name)
	week, err := c.service.EditEntry(ctx, s.entryID, name)
	if err != nil {
		c.surface(err)
		return OutcomeFailed, nil
	}
	c.week.Replace(week)
	return OutcomeCommitted, nil
}

func (c *Controller) submitDelete(ctx context.Context, s editSession) (Outcome, error) {
	ok, err := c.confirm.Confirm(ctx, constants.MsgConfirmDelete)
	if err != nil || !ok {
		c.mu.Lock()
		c.restoreRow(s.entryID, s.originalName)
		c.mu.Unlock()
		return OutcomeDeclined, err
	}

	c.settleRow(s.entryID, "")
	c.messages.Clear()
	logger.Debug("Deleting menu entry", "weekday", c.day, "id", s.entryID)
	week, err := c.service.DeleteEntry(ctx, s.entryID)
	if err != nil {
		c.surface(err)
		return OutcomeFailed, nil
	}
	c.week.Replace(week)
	return OutcomeCommitted, nil
}

// submitAdd inserts nothing locally; the row appears with the server's week.
func (c *Controller) submitAdd(ctx context.Context, name string) (Outcome, error) {
	ok, err := c.confirm.Confirm(ctx, constants.MsgConfirmAdd)
	if err != nil || !ok {
		return OutcomeDeclined, err
	}

	c.messages.Clear()
	logger.Debug("Adding menu entry", "weekday", c.day, "recipe", name)
	week, err := c.service.AddEntry(ctx, c.day, name)
	if err != nil {
		c.surface(err)
		return OutcomeFailed, nil
	}
	c.week.Replace(week)
	return OutcomeCommitted, nil
}

func (c *Controller) surface(err error) {
	logger.Warn("Menu update failed", "weekday", c.day, "error", err)
	c.messages.Show(SeverityError, apiclient.UserMessage(err))
}

func (c *Controller) refreshSuggestions(ctx context.Context, gen uint64, text string) error {
	set := suggest.NewSet()
	var err error
	if c.source != nil {
		set, err = c.source.Suggest(ctx, text)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.session.open || c.gen != gen || c.session.currentName != text {
		return nil
	}
	if err != nil {
		c.suggestions = suggest.NewSet()
		c.setSuggestionsVisible(false)
		return fmt.Errorf("failed to load suggestions: %w", err)
	}
	c.suggestions = set
	c.setSuggestionsVisible(set.Len() > 0)
	return nil
}

// The helpers below expect c.mu to be held, except settleRow.

func (c *Controller) openSession(s editSession) {
	s.open = true
	c.session = s
	c.suggestions = suggest.NewSet()
	c.composeVisible = false
	c.gen++
}

func (c *Controller) endSession() {
	c.session = editSession{}
	c.suggestions = suggest.NewSet()
	c.composeVisible = false
	c.gen++
}

// closeSilently ends the open edit, restoring an edited row.
func (c *Controller) closeSilently() {
	if c.session.open && !c.session.composing {
		c.restoreRow(c.session.entryID, c.session.originalName)
	}
	c.endSession()
}

func (c *Controller) restoreRow(id int64, name string) {
	if i := c.indexOf(id); i >= 0 {
		c.rows[i].DisplayName = name
		c.rows[i].State = models.RowAtRest
	}
}

// settleRow clears the edit flag on every row and shows name on the edited
// one.
func (c *Controller) settleRow(id int64, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.rows {
		c.rows[i].State = models.RowAtRest
		if c.rows[i].Entry.ID == id {
			c.rows[i].DisplayName = name
		}
	}
}

func (c *Controller) setSuggestionsVisible(visible bool) {
	if c.session.composing {
		c.composeVisible = visible
		return
	}
	if i := c.indexOf(c.session.entryID); i >= 0 && c.rows[i].State.IsEditing() {
		if visible {
			c.rows[i].State = models.RowSuggestionsOpen
		} else {
			c.rows[i].State = models.RowEditing
		}
	}
}

func (c *Controller) indexOf(id int64) int {
	for i, row := range c.rows {
		if row.Entry.ID == id {
			return i
		}
	}
	return -1
}

func (c *Controller) editingIndex() int {
	for i, row := range c.rows {
		if row.State.IsEditing() {
			return i
		}
	}
	return -1
}
