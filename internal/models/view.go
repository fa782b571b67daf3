package models

// RowState is the display state of one row in a weekday column. A row is at
// rest, being edited, or being edited with its suggestion list open.
type RowState int

const (
	RowAtRest RowState = iota
	RowEditing
	RowSuggestionsOpen
)

func (s RowState) String() string {
	switch s {
	case RowAtRest:
		return "at_rest"
	case RowEditing:
		return "editing"
	case RowSuggestionsOpen:
		return "suggestions_open"
	default:
		return "unknown"
	}
}

// IsEditing reports whether the row holds the edit focus.
func (s RowState) IsEditing() bool {
	return s == RowEditing || s == RowSuggestionsOpen
}

// SuggestionsVisible reports whether the row shows its suggestion list.
func (s RowState) SuggestionsVisible() bool {
	return s == RowSuggestionsOpen
}

// MenuEntryView is a MenuEntry as displayed. DisplayName echoes typed text
// while the row is being edited.
type MenuEntryView struct {
	Entry       MenuEntry
	DisplayName string
	State       RowState
}

// BuildViews derives a fresh view list from canonical entries. Every row
// starts at rest.
func BuildViews(entries []MenuEntry) []MenuEntryView {
	views := make([]MenuEntryView, len(entries))
	for i, e := range entries {
		views[i] = MenuEntryView{Entry: e, DisplayName: e.RecipeName, State: RowAtRest}
	}
	return views
}
