package menu

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/weekmenu/internal/cli"
	"github.com/julianstephens/weekmenu/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	todayStyle = cellStyle.
			Foreground(lipgloss.Color("230"))

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

type WeekCmd struct {
	Day string `arg:"" optional:"" help:"Only show this day (name, short name or 1-7)."`
}

func (cmd *WeekCmd) Run(ctx *cli.Context) error {
	if err := ctx.RequireLogin(); err != nil {
		return err
	}
	week, err := ctx.Menu.FetchWeek(ctx.Context())
	if err != nil {
		return fmt.Errorf("failed to load week menu: %w", err)
	}

	if cmd.Day != "" {
		day, err := models.ParseWeekday(cmd.Day)
		if err != nil {
			return err
		}
		printDay(ctx.Out, week, day)
		return nil
	}

	fmt.Fprintln(ctx.Out, renderWeek(week, models.WeekdayFromTime(ctx.Now())))
	return nil
}

// printDay lists one day with 1-based positions, as used by edit and delete.
func printDay(w io.Writer, week models.MenuListDict, day models.WeekdayCode) {
	fmt.Fprintln(w, headerStyle.Render(day.Name()))
	entries := week.Entries(day)
	if len(entries) == 0 {
		fmt.Fprintln(w, emptyStyle.Render("  nothing planned"))
		return
	}
	for i, e := range entries {
		fmt.Fprintf(w, "  %d. %s\n", i+1, e.RecipeName)
	}
}

func renderWeek(week models.MenuListDict, today models.WeekdayCode) string {
	headers := make([]string, len(models.Weekdays))
	depth := 0
	for i, day := range models.Weekdays {
		headers[i] = day.Short()
		if n := len(week.Entries(day)); n > depth {
			depth = n
		}
	}

	rows := make([][]string, depth)
	for r := range rows {
		rows[r] = make([]string, len(models.Weekdays))
		for c, day := range models.Weekdays {
			if entries := week.Entries(day); r < len(entries) {
				rows[r][c] = entries[r].RecipeName
			}
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("238"))).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case models.Weekdays[col] == today:
				return todayStyle
			default:
				return cellStyle
			}
		})

	out := t.Render()
	if depth == 0 {
		out += "\n" + emptyStyle.Render("Nothing planned this week.")
	}
	return strings.TrimRight(out, "\n")
}
