package system

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/weekmenu/internal/apiclient"
	"github.com/julianstephens/weekmenu/internal/cli"
	"github.com/julianstephens/weekmenu/internal/credential"
	"github.com/julianstephens/weekmenu/internal/validation"
)

const doctorTimeout = 10 * time.Second

type DoctorCmd struct{}

type checkResult int

const (
	checkOK checkResult = iota
	checkWarn
	checkFail
	checkSkipped
)

type check struct {
	name string
	run  func(ctx context.Context, c *cli.Context) (checkResult, string)
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Fprintln(ctx.Out, "Running diagnostics...")
	fmt.Fprintln(ctx.Out)

	bg, cancel := context.WithTimeout(ctx.Context(), doctorTimeout)
	defer cancel()

	checks := []check{
		{name: "OS keyring", run: checkKeyring},
		{name: "Logged in", run: checkLoggedIn},
		{name: "API reachable", run: checkAPI},
		{name: "Recipe index", run: checkIndex},
		{name: "Clock", run: checkClock},
	}

	hasError := false
	for _, ch := range checks {
		result, detail := ch.run(bg, ctx)
		switch result {
		case checkOK:
			fmt.Fprintf(ctx.Out, "✓ %s: OK\n", ch.name)
		case checkWarn:
			fmt.Fprintf(ctx.Out, "⚠ %s: WARNING\n", ch.name)
		case checkSkipped:
			fmt.Fprintf(ctx.Out, "⊘ %s: SKIPPED\n", ch.name)
		case checkFail:
			fmt.Fprintf(ctx.Out, "❌ %s: FAIL\n", ch.name)
			hasError = true
		}
		if detail != "" {
			fmt.Fprintf(ctx.Out, "   %s\n", detail)
		}
	}

	fmt.Fprintln(ctx.Out)
	if hasError {
		fmt.Fprintln(ctx.Out, "Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	fmt.Fprintln(ctx.Out, "All diagnostics passed!")
	return nil
}

func checkKeyring(_ context.Context, _ *cli.Context) (checkResult, string) {
	if credential.IsKeyringAvailable() {
		return checkOK, ""
	}
	return checkWarn, "the access token will not survive a restart"
}

func checkLoggedIn(_ context.Context, c *cli.Context) (checkResult, string) {
	if err := c.RequireLogin(); err != nil {
		return checkFail, err.Error()
	}
	return checkOK, ""
}

func checkAPI(ctx context.Context, c *cli.Context) (checkResult, string) {
	if c.RequireLogin() != nil {
		return checkSkipped, "not logged in"
	}
	week, err := c.Menu.FetchWeek(ctx)
	if err != nil {
		return checkFail, apiclient.UserMessage(err)
	}
	if result := validation.New().ValidateWeek(week); result.HasConflicts() {
		return checkWarn, strings.TrimSpace(result.FormatReport())
	}
	return checkOK, ""
}

// checkIndex opens the index, which also applies pending migrations.
func checkIndex(ctx context.Context, c *cli.Context) (checkResult, string) {
	p, err := c.OpenIndex(ctx)
	if err != nil {
		return checkFail, err.Error()
	}
	defer p.Close()

	status, err := p.Status(ctx)
	if err != nil {
		return checkFail, err.Error()
	}
	if !status.Synced() {
		return checkWarn, "never synced, suggestions need --suggest=api until 'weekmenu index sync' runs"
	}
	return checkOK, fmt.Sprintf("%d names", status.Count)
}

func checkClock(_ context.Context, c *cli.Context) (checkResult, string) {
	now := c.Now()
	// Token expiry checks on the server break with a wildly wrong clock
	if now.Year() < 2020 || now.Year() > 2100 {
		return checkFail, fmt.Sprintf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return checkOK, ""
}
