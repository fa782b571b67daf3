package menu

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/weekmenu/internal/cli"
	"github.com/julianstephens/weekmenu/internal/constants"
	"github.com/julianstephens/weekmenu/internal/logger"
	"github.com/julianstephens/weekmenu/internal/models"
	"github.com/julianstephens/weekmenu/internal/rowedit"
)

var (
	// ErrUnknownRecipe is returned when a name is not among the suggestions.
	ErrUnknownRecipe = errors.New("unknown recipe name, see 'weekmenu suggest'")
	// ErrRequestFailed is returned after the server refused a change.
	ErrRequestFailed = errors.New("the menu was not updated")
)

// column loads the week and returns the controller for day.
func column(ctx *cli.Context, dayArg string) (*rowedit.Controller, func(), error) {
	if err := ctx.RequireLogin(); err != nil {
		return nil, nil, err
	}
	day, err := models.ParseWeekday(dayArg)
	if err != nil {
		return nil, nil, err
	}

	board, release, err := ctx.NewBoard(ctx.Context(), ctx.Confirm(), ctx.Messenger())
	if err != nil {
		return nil, nil, err
	}
	if err := board.Load(ctx.Context(), ctx.Menu); err != nil {
		release()
		return nil, nil, fmt.Errorf("failed to load week menu: %w", err)
	}
	return board.Controller(day), release, nil
}

func enterRow(c *rowedit.Controller, position int) (models.MenuEntryView, error) {
	rows := c.Rows()
	if position < 1 || position > len(rows) {
		return models.MenuEntryView{}, fmt.Errorf("%s has no entry %d (it has %d)", c.Day().Name(), position, len(rows))
	}
	return rows[position-1], nil
}

// report turns an outcome into command output.
func report(ctx *cli.Context, outcome rowedit.Outcome, err error, done string) error {
	if err != nil {
		return err
	}
	switch outcome {
	case rowedit.OutcomeCommitted:
		fmt.Fprintln(ctx.Out, "✓ "+done)
	case rowedit.OutcomeUnchanged:
		fmt.Fprintln(ctx.Out, "Nothing to change.")
	case rowedit.OutcomeDeclined:
		fmt.Fprintln(ctx.Out, "Cancelled.")
	case rowedit.OutcomeReverted, rowedit.OutcomeDiscarded:
		return ErrUnknownRecipe
	case rowedit.OutcomeFailed:
		return ErrRequestFailed
	}
	return nil
}

type EditCmd struct {
	Day      string `arg:"" help:"Day of the week (name, short name or 1-7)."`
	Position int    `arg:"" help:"Entry position within the day, as listed by 'weekmenu week <day>'."`
	Recipe   string `arg:"" help:"New recipe name. An empty name deletes the entry."`
}

func (cmd *EditCmd) Run(ctx *cli.Context) error {
	c, release, err := column(ctx, cmd.Day)
	if err != nil {
		return err
	}
	defer release()

	row, err := enterRow(c, cmd.Position)
	if err != nil {
		return err
	}
	outcome, err := editRow(ctx.Context(), c, cmd.Position-1, cmd.Recipe)
	if cmd.Recipe == "" {
		return report(ctx, outcome, err, fmt.Sprintf("Removed %s from %s", row.DisplayName, c.Day().Name()))
	}
	return report(ctx, outcome, err, fmt.Sprintf("%s: %s → %s", c.Day().Name(), row.DisplayName, cmd.Recipe))
}

// editRow types name into the row and leaves it, like a user clicking
// elsewhere. Suggestions for the old name are only a display aid, and an
// empty name is a delete that needs none, so lookup failures there are
// logged and the blur decides.
func editRow(ctx context.Context, c *rowedit.Controller, index int, name string) (rowedit.Outcome, error) {
	if err := c.EnterEdit(ctx, index); err != nil {
		if !c.Editing() {
			return rowedit.OutcomeNone, err
		}
		logger.Debug("Ignoring suggestion lookup failure", "weekday", c.Day(), "error", err)
	}
	if err := c.Type(ctx, name); err != nil {
		if name != "" || !c.Editing() {
			c.Cancel()
			return rowedit.OutcomeNone, err
		}
		logger.Debug("Ignoring suggestion lookup failure", "weekday", c.Day(), "error", err)
	}
	outcome, err := c.ClickOutside(ctx)
	if err != nil {
		c.Cancel()
	}
	return outcome, err
}

type DeleteCmd struct {
	Day      string `arg:"" help:"Day of the week (name, short name or 1-7)."`
	Position int    `arg:"" help:"Entry position within the day."`
}

func (cmd *DeleteCmd) Run(ctx *cli.Context) error {
	c, release, err := column(ctx, cmd.Day)
	if err != nil {
		return err
	}
	defer release()

	row, err := enterRow(c, cmd.Position)
	if err != nil {
		return err
	}
	outcome, err := editRow(ctx.Context(), c, cmd.Position-1, "")
	return report(ctx, outcome, err, fmt.Sprintf("Removed %s from %s", row.DisplayName, c.Day().Name()))
}

type AddCmd struct {
	Day    string `arg:"" help:"Day of the week (name, short name or 1-7)."`
	Recipe string `arg:"" help:"Recipe name. It must be a known recipe."`
}

func (cmd *AddCmd) Run(ctx *cli.Context) error {
	c, release, err := column(ctx, cmd.Day)
	if err != nil {
		return err
	}
	defer release()

	bg := ctx.Context()
	if err := c.ComposeType(bg, cmd.Recipe); err != nil {
		c.Cancel()
		return err
	}
	outcome, err := c.AddSuggestionClick(bg, cmd.Recipe)
	return report(ctx, outcome, err, fmt.Sprintf("Added %s to %s", cmd.Recipe, c.Day().Name()))
}

type SuggestCmd struct {
	Partial string `arg:"" help:"Part of a recipe name."`
}

func (cmd *SuggestCmd) Run(ctx *cli.Context) error {
	if ctx.Config.Suggest != constants.SuggestSourceIndex {
		if err := ctx.RequireLogin(); err != nil {
			return err
		}
	}
	source, release, err := ctx.SuggestionSource(ctx.Context())
	if err != nil {
		return err
	}
	defer release()

	set, err := source.Suggest(ctx.Context(), cmd.Partial)
	if err != nil {
		return fmt.Errorf("failed to load suggestions: %w", err)
	}
	if set.Len() == 0 {
		fmt.Fprintln(ctx.Out, emptyStyle.Render("No matching recipes."))
		return nil
	}
	for _, name := range set.Names() {
		fmt.Fprintln(ctx.Out, name)
	}
	return nil
}
