package index

import (
	"fmt"

	"github.com/julianstephens/weekmenu/internal/cli"
	"github.com/julianstephens/weekmenu/internal/constants"
	"github.com/julianstephens/weekmenu/internal/recipeindex"
	"github.com/julianstephens/weekmenu/internal/suggest"
)

type SyncCmd struct{}

func (cmd *SyncCmd) Run(ctx *cli.Context) error {
	if err := ctx.RequireLogin(); err != nil {
		return err
	}
	p, err := ctx.OpenIndex(ctx.Context())
	if err != nil {
		return err
	}
	defer p.Close()

	n, err := recipeindex.Sync(ctx.Context(), p, ctx.Menu)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "✓ Indexed %d recipe names in %s\n", n, p.Location())
	return nil
}

type SearchCmd struct {
	Term  string `arg:"" help:"Text to look for."`
	Limit int    `short:"n" help:"Maximum number of results." default:"20"`
	Fuzzy bool   `help:"Rank by fuzzy match instead of plain substring."`
}

func (cmd *SearchCmd) Run(ctx *cli.Context) error {
	p, err := ctx.OpenIndex(ctx.Context())
	if err != nil {
		return err
	}
	defer p.Close()

	var names []string
	if cmd.Fuzzy {
		set, err := suggest.NewIndexSource(p, cmd.Limit).Suggest(ctx.Context(), cmd.Term)
		if err != nil {
			return err
		}
		names = set.Names()
	} else {
		status, err := p.Status(ctx.Context())
		if err != nil {
			return err
		}
		if !status.Synced() {
			return recipeindex.ErrNotSynced
		}
		if names, err = p.Search(ctx.Context(), cmd.Term, cmd.Limit); err != nil {
			return err
		}
	}

	if len(names) == 0 {
		fmt.Fprintln(ctx.Out, "No matching recipes.")
		return nil
	}
	for _, name := range names {
		fmt.Fprintln(ctx.Out, name)
	}
	return nil
}

type StatusCmd struct{}

func (cmd *StatusCmd) Run(ctx *cli.Context) error {
	p, err := ctx.OpenIndex(ctx.Context())
	if err != nil {
		return err
	}
	defer p.Close()

	status, err := p.Status(ctx.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "Index:  %s\n", p.Location())
	if !status.Synced() {
		fmt.Fprintln(ctx.Out, "Status: never synced")
		return nil
	}
	fmt.Fprintf(ctx.Out, "Status: %d names, synced %s\n", status.Count, status.SyncedAt.Local().Format(constants.TimestampFormat))
	return nil
}
