package auth

import (
	"context"
	"fmt"

	"github.com/julianstephens/weekmenu/internal/apiclient"
	"github.com/julianstephens/weekmenu/internal/cli"
	"github.com/julianstephens/weekmenu/internal/constants"
	"github.com/julianstephens/weekmenu/internal/prompt"
)

type LoginCmd struct {
	Username string `short:"u" help:"Account name. Asked for when missing." env:"WEEKMENU_USERNAME"`
	Password string `help:"Account password. Asked for when missing." env:"WEEKMENU_PASSWORD"`
}

func (cmd *LoginCmd) Run(ctx *cli.Context) error {
	username, password := cmd.Username, cmd.Password
	if err := prompt.AskCredentials(ctx.Context(), &username, &password); err != nil {
		return err
	}

	loginCtx, cancel := context.WithTimeout(ctx.Context(), constants.DefaultLoginTimeout)
	defer cancel()
	if err := ctx.API.Login(loginCtx, username, password); err != nil {
		return fmt.Errorf("login failed: %s", apiclient.UserMessage(err))
	}

	fmt.Fprintf(ctx.Out, "✓ Logged in as %s\n", username)
	return nil
}

type LogoutCmd struct{}

func (cmd *LogoutCmd) Run(ctx *cli.Context) error {
	if !ctx.Session.Authenticated() {
		fmt.Fprintln(ctx.Out, "ℹ Not logged in")
		return nil
	}
	if err := ctx.Session.Logout(); err != nil {
		return fmt.Errorf("failed to log out: %w", err)
	}
	fmt.Fprintln(ctx.Out, "✓ Logged out")
	return nil
}
