package rowedit

import (
	"context"

	"github.com/julianstephens/weekmenu/internal/models"
)

// Fetcher loads the canonical week from the server.
type Fetcher interface {
	FetchWeek(ctx context.Context) (models.MenuListDict, error)
}

// Board is the whole week: one controller per weekday over a shared Week.
type Board struct {
	week        *Week
	controllers map[models.WeekdayCode]*Controller
}

// NewBoard creates the seven column controllers. deps.Week may be nil, in
// which case an empty week is created.
func NewBoard(deps Deps) (*Board, error) {
	if deps.Week == nil {
		deps.Week = NewWeek(nil)
	}
	b := &Board{
		week:        deps.Week,
		controllers: make(map[models.WeekdayCode]*Controller, len(models.Weekdays)),
	}
	for _, day := range models.Weekdays {
		c, err := NewController(day, deps)
		if err != nil {
			return nil, err
		}
		b.controllers[day] = c
	}
	return b, nil
}

func (b *Board) Week() *Week {
	return b.week
}

// Controller returns the column for day, or nil for an unknown code.
func (b *Board) Controller(day models.WeekdayCode) *Controller {
	return b.controllers[day]
}

// Load fetches the week and installs it as canonical.
func (b *Board) Load(ctx context.Context, f Fetcher) error {
	week, err := f.FetchWeek(ctx)
	if err != nil {
		return err
	}
	b.week.Replace(week)
	return nil
}
