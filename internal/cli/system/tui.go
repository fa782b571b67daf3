package system

import (
	"github.com/julianstephens/weekmenu/internal/cli"
	"github.com/julianstephens/weekmenu/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	if err := ctx.RequireLogin(); err != nil {
		return err
	}

	bridge := tui.NewBridge()
	board, release, err := ctx.NewBoard(ctx.Context(), bridge, bridge)
	if err != nil {
		return err
	}
	defer release()
	ctx.Session.OnLogout(bridge.LoggedOut)

	return tui.Run(ctx.Context(), board, ctx.Menu, bridge)
}
