package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/weekmenu/internal/cli"
	"github.com/julianstephens/weekmenu/internal/cli/auth"
	"github.com/julianstephens/weekmenu/internal/cli/index"
	"github.com/julianstephens/weekmenu/internal/cli/menu"
	"github.com/julianstephens/weekmenu/internal/cli/system"
	"github.com/julianstephens/weekmenu/internal/constants"
	"github.com/julianstephens/weekmenu/internal/credential"
	"github.com/julianstephens/weekmenu/internal/errors"
	"github.com/julianstephens/weekmenu/internal/logger"
)

var CLI struct {
	Version   kong.VersionFlag
	APIURL    string        `name:"api-url" help:"Base URL of the menu planning API." env:"WEEKMENU_API_URL" default:"${api_url}"`
	Timeout   time.Duration `help:"Per-request timeout, 0 disables it." env:"WEEKMENU_TIMEOUT" default:"0"`
	LogLevel  string        `help:"Log verbosity." env:"WEEKMENU_LOG_LEVEL" enum:"debug,info,warn,error,none" default:"error"`
	ConfigDir string        `help:"Directory for logs and the default recipe index." env:"WEEKMENU_CONFIG_DIR" type:"path" default:"${config_dir}"`
	Index     string        `help:"Recipe index: a sqlite file path or a PostgreSQL connection string." env:"WEEKMENU_INDEX" default:"${index}"`
	Suggest   string        `help:"Where suggestions come from." env:"WEEKMENU_SUGGEST" enum:"api,index" default:"api"`
	Yes       bool          `short:"y" help:"Answer yes to every confirmation." env:"WEEKMENU_YES"`

	Login      auth.LoginCmd    `cmd:"" help:"Log in and store the access token."`
	Logout     auth.LogoutCmd   `cmd:"" help:"Forget the stored access token."`
	Status     system.StatusCmd `cmd:"" help:"Show session and configuration status."`
	Doctor     system.DoctorCmd `cmd:"" help:"Run health checks and diagnostics."`
	Tui        system.TuiCmd    `cmd:"" help:"Launch the interactive week editor." default:"1"`
	Week       menu.WeekCmd     `cmd:"" help:"Show this week's menu."`
	Edit       menu.EditCmd     `cmd:"" help:"Replace the dish in a menu slot."`
	Add        menu.AddCmd      `cmd:"" help:"Add a dish to a day."`
	Delete     menu.DeleteCmd   `cmd:"" help:"Remove a dish from a day."`
	SuggestCmd menu.SuggestCmd  `cmd:"" name:"suggest" help:"List recipe names matching a partial name."`
	IndexCmd   struct {
		Sync   index.SyncCmd   `cmd:"" help:"Download every recipe name into the local index."`
		Search index.SearchCmd `cmd:"" help:"Search the local index."`
		Status index.StatusCmd `cmd:"" help:"Show when the index was last synced." default:"1"`
	} `cmd:"" name:"index" help:"Manage the local recipe name index."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Edit this week's menu plan from the terminal"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":    constants.Version,
			"api_url":    constants.DefaultAPIURL,
			"config_dir": constants.DefaultConfigDir,
			"index":      constants.DefaultIndexPath,
		},
	)

	if err := logger.Init(logger.Config{Level: CLI.LogLevel, ConfigDir: CLI.ConfigDir}); err != nil {
		errors.Fatalf("failed to initialize logger: %v", err)
	}

	appCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, err := cli.NewContext(appCtx, cli.Config{
		APIURL:    CLI.APIURL,
		Timeout:   CLI.Timeout,
		LogLevel:  CLI.LogLevel,
		ConfigDir: CLI.ConfigDir,
		Index:     CLI.Index,
		Suggest:   CLI.Suggest,
		Yes:       CLI.Yes,
	}, credential.NewStore())
	if err != nil {
		errors.Fatal(err)
	}

	if err := kctx.Run(ctx); err != nil {
		stop()
		errors.Fatal(err)
	}
}
