package rowedit

import (
	"context"

	"github.com/julianstephens/weekmenu/internal/models"
)

// Outcome tells the caller what an operation ended up doing.
type Outcome int

const (
	// OutcomeNone means there was nothing to act on.
	OutcomeNone Outcome = iota
	// OutcomeUnchanged means the name was not changed; no prompt, no request.
	OutcomeUnchanged
	// OutcomeCommitted means the server accepted the change and the canonical
	// week was replaced.
	OutcomeCommitted
	// OutcomeDeclined means the user answered no to the confirmation.
	OutcomeDeclined
	// OutcomeReverted means an unknown name was rejected and the row restored.
	OutcomeReverted
	// OutcomeDiscarded means a new-entry composition was dropped.
	OutcomeDiscarded
	// OutcomeFailed means the request failed; the message was surfaced.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeCommitted:
		return "committed"
	case OutcomeDeclined:
		return "declined"
	case OutcomeReverted:
		return "reverted"
	case OutcomeDiscarded:
		return "discarded"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MenuService persists mutations. Each call returns the full post-change week.
type MenuService interface {
	EditEntry(ctx context.Context, id int64, recipeName string) (models.MenuListDict, error)
	DeleteEntry(ctx context.Context, id int64) (models.MenuListDict, error)
	AddEntry(ctx context.Context, day models.WeekdayCode, recipeName string) (models.MenuListDict, error)
}

// Confirmer asks the user a yes/no question. Every commit, delete and add
// waits for it.
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// Severity tags a message for display.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// Messenger displays recoverable failures without stopping the editor.
type Messenger interface {
	Show(severity Severity, message string)
	Clear()
}

type nopMessenger struct{}

func (nopMessenger) Show(Severity, string) {}
func (nopMessenger) Clear()                {}
