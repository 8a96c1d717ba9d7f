package days

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/yearlit/internal/calendar"
	"github.com/julianstephens/yearlit/internal/cli"
	"github.com/julianstephens/yearlit/internal/constants"
	"github.com/julianstephens/yearlit/internal/dates"
	"github.com/julianstephens/yearlit/internal/models"
	"github.com/julianstephens/yearlit/internal/progress"
	"github.com/julianstephens/yearlit/internal/tui/components/grid"
)

const cellAspect = 2

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// ViewFlags pick the span a command reports on. Without flags the stored
// view preference is used.
type ViewFlags struct {
	Year  int    `help:"Show a calendar year."`
	Range string `help:"Show a range (id or name)."`
	From  string `help:"First day of a custom span (YYYY-MM-DD)."`
	To    string `help:"Last day of a custom span (YYYY-MM-DD)."`
}

func (f ViewFlags) resolve(ctx *cli.Context) (calendar.View, error) {
	ws := ctx.Workspace
	today, err := ws.Today()
	if err != nil {
		return calendar.View{}, err
	}

	var pref *models.ViewPref
	switch {
	case f.Year != 0 && (f.Range != "" || f.From != "" || f.To != ""),
		f.Range != "" && (f.From != "" || f.To != ""):
		return calendar.View{}, fmt.Errorf("--year, --range and --from/--to cannot be combined")
	case f.Year != 0:
		if f.Year < 1 || f.Year > 9999 {
			return calendar.View{}, fmt.Errorf("year %d out of range", f.Year)
		}
		return calendar.YearView(f.Year), nil
	case f.Range != "":
		r, err := ws.FindRange(f.Range)
		if err != nil {
			return calendar.View{}, err
		}
		mode := constants.CalendarModeRange
		pref = &models.ViewPref{CalendarMode: &mode, ActiveRangeID: &r.ID}
	case f.From != "" || f.To != "":
		if !dates.IsISODate(f.From) || !dates.IsISODate(f.To) {
			return calendar.View{}, fmt.Errorf("--from and --to must both be YYYY-MM-DD dates")
		}
		if f.From > f.To {
			return calendar.View{}, fmt.Errorf("--from %s is after --to %s", f.From, f.To)
		}
		mode := constants.CalendarModeCustom
		pref = &models.ViewPref{CalendarMode: &mode, CustomStartISO: &f.From, CustomEndISO: &f.To}
	default:
		pref = ws.State().ViewPref
	}
	return calendar.Resolve(pref, ws.Ranges(), today), nil
}

type ShowCmd struct {
	ViewFlags `embed:""`

	Width  int `help:"Terminal columns to fit the grid into." default:"80"`
	Height int `help:"Terminal rows to fit the grid into." default:"24"`
}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	v, err := c.resolve(ctx)
	if err != nil {
		return err
	}
	days, err := calendar.Days(v.StartISO, v.EndISO)
	if err != nil {
		return err
	}
	today, err := ctx.Workspace.Today()
	if err != nil {
		return err
	}

	fit := calendar.FitColumns(calendar.Layout{
		Width:  max(c.Width, 1),
		Height: max(c.Height-6, 1),
		Days:   len(days),
		Aspect: cellAspect,
	})
	opts := grid.Options{
		Days:    days,
		Entries: v.Entries(ctx.Workspace.State().Entries),
		Today:   today,
		Fit:     fit,
		Aspect:  cellAspect,
	}
	if v.Range != nil {
		opts.Accent = v.Range.Color
	}

	ctx.Println(titleStyle.Render(v.Title) + mutedStyle.Render(fmt.Sprintf("  %s → %s", v.StartISO, v.EndISO)))
	ctx.Println(grid.Render(opts))
	ctx.Println(mutedStyle.Render(grid.Legend()))
	return nil
}

type StatsCmd struct {
	ViewFlags `embed:""`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	ws := ctx.Workspace
	v, err := c.resolve(ctx)
	if err != nil {
		return err
	}
	now, err := dates.NowIn(ws.Clock(), ws.Timezone())
	if err != nil {
		return err
	}
	today := dates.FormatISO(now)

	p, err := progress.Span(v.StartISO, v.EndISO, now)
	if err != nil {
		return err
	}
	entries := v.Entries(ws.State().Entries)
	st, err := progress.Streaks(entries, v.StartISO, v.EndISO, today)
	if err != nil {
		return err
	}

	ctx.Printf("%s (%s → %s)\n\n", v.Title, v.StartISO, v.EndISO)
	ctx.Printf("  Elapsed:        %.1f%%  (%d of %d days)\n", p.Percent, p.ElapsedDays, p.TotalDays)
	ctx.Printf("  Days left:      %d\n", p.DaysLeft)
	ctx.Printf("  Recorded:       %d\n", st.Recorded)
	ctx.Printf("  Current streak: %d\n", st.Current)
	ctx.Printf("  Longest streak: %d\n", st.Longest)
	if st.Recorded > 0 {
		ctx.Printf("  Average:        %.2f\n", st.Average)
	}

	ctx.Println()
	for state := constants.MaxState; state >= 1; state-- {
		n := st.Distribution[state]
		ctx.Printf("  %d  %-20s %d\n", state, strings.Repeat("█", barWidth(n, st.Recorded, 20)), n)
	}
	return nil
}

// barWidth scales n out of total onto width cells, showing at least one
// cell for any non-zero count
func barWidth(n, total, width int) int {
	if n == 0 || total == 0 {
		return 0
	}
	return max(n*width/total, 1)
}
