package ranges

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/yearlit/internal/cli"
	"github.com/julianstephens/yearlit/internal/constants"
	"github.com/julianstephens/yearlit/internal/dates"
	"github.com/julianstephens/yearlit/internal/models"
	"github.com/julianstephens/yearlit/internal/progress"
	"github.com/julianstephens/yearlit/internal/workspace"
)

type RangeAddCmd struct {
	Name  string `arg:"" help:"Range name. Taken names get a numeric suffix."`
	Start string `help:"First day (YYYY-MM-DD, today or yesterday)." default:"today"`
	End   string `help:"Last day (YYYY-MM-DD)." required:""`
	Color string `help:"Accent colour: red, orange, yellow, green, teal, blue, purple or pink."`
	Goal  string `help:"What this range is for."`
	Use   bool   `help:"Make the new range the active view."`
}

func (c *RangeAddCmd) Run(ctx *cli.Context) error {
	ws := ctx.Workspace
	start, err := dates.ResolveDay(c.Start, ws.Clock(), ws.Timezone())
	if err != nil {
		return err
	}
	end, err := dates.ResolveDay(c.End, ws.Clock(), ws.Timezone())
	if err != nil {
		return err
	}

	r, err := ws.AddRange(workspace.Draft{
		Name:     c.Name,
		StartISO: start,
		EndISO:   end,
		Color:    models.Color(strings.ToLower(c.Color)),
		Goal:     c.Goal,
	})
	if err != nil {
		return fmt.Errorf("failed to add range: %w", err)
	}
	ctx.Printf("✓ Added range %s (%s → %s) [%s]\n", r.Name, r.StartISO, r.EndISO, r.ID)

	if c.Use {
		return use(ctx, r)
	}
	return nil
}

type RangeListCmd struct {
	All bool `help:"Include completed ranges."`
}

func (c *RangeListCmd) Run(ctx *cli.Context) error {
	ws := ctx.Workspace
	ranges := ws.Ranges()
	if len(ranges) == 0 {
		ctx.Println("No ranges yet. Add one with 'yearlit range add'.")
		return nil
	}

	now, err := dates.NowIn(ws.Clock(), ws.Timezone())
	if err != nil {
		return err
	}
	active := ""
	if p := ws.State().ViewPref; p != nil && p.ActiveRangeID != nil {
		active = *p.ActiveRangeID
	}

	hidden := 0
	for _, r := range ranges {
		if r.IsCompleted && !c.All {
			hidden++
			continue
		}
		marker := " "
		if r.ID == active {
			marker = "*"
		}
		status := ""
		if r.IsCompleted {
			status = "  ✓ completed " + r.CompletedAtISO
		} else if p, err := progress.Span(r.StartISO, r.EndISO, now); err == nil {
			status = fmt.Sprintf("  %.0f%%, %d days left", p.Percent, p.DaysLeft)
		}
		ctx.Printf("%s %-24s %s → %s  %-7s%s\n", marker, r.Name, r.StartISO, r.EndISO, r.Color.OrDefault(), status)
		ctx.Printf("    id: %s", r.ID)
		if n := len(r.Milestones); n > 0 {
			ctx.Printf("  milestones: %d/%d", doneCount(r.Milestones), n)
		}
		if r.Goal != "" {
			ctx.Printf("  goal: %s", r.Goal)
		}
		ctx.Println()
	}
	if hidden > 0 {
		ctx.Printf("\n%d completed range(s) hidden, use --all to show them\n", hidden)
	}
	return nil
}

func doneCount(ms []models.Milestone) int {
	n := 0
	for _, m := range ms {
		if m.Done {
			n++
		}
	}
	return n
}

type RangeEditCmd struct {
	Range string  `arg:"" help:"Range id or name."`
	Name  *string `help:"New name."`
	Start *string `help:"New first day (YYYY-MM-DD)."`
	End   *string `help:"New last day (YYYY-MM-DD)."`
	Color *string `help:"New accent colour."`
	Goal  *string `help:"New goal. An empty string removes it."`
}

func (c *RangeEditCmd) Run(ctx *cli.Context) error {
	r, err := ctx.Workspace.FindRange(c.Range)
	if err != nil {
		return err
	}
	if c.Name == nil && c.Start == nil && c.End == nil && c.Color == nil && c.Goal == nil {
		return fmt.Errorf("nothing to change: pass at least one of --name, --start, --end, --color or --goal")
	}

	d := workspace.DraftFrom(r)
	if c.Name != nil {
		d.Name = *c.Name
	}
	if c.Start != nil {
		d.StartISO = *c.Start
	}
	if c.End != nil {
		d.EndISO = *c.End
	}
	if c.Color != nil {
		d.Color = models.Color(strings.ToLower(*c.Color))
	}
	if c.Goal != nil {
		d.Goal = *c.Goal
	}

	before := len(r.Entries)
	updated, err := ctx.Workspace.UpdateRange(r.ID, d)
	if err != nil {
		return fmt.Errorf("failed to update range: %w", err)
	}
	ctx.Printf("✓ Updated range %s (%s → %s)\n", updated.Name, updated.StartISO, updated.EndISO)
	if dropped := before - len(updated.Entries); dropped > 0 {
		ctx.Printf("⚠ %d day(s) outside the new bounds were removed from this range\n", dropped)
	}
	return nil
}

type RangeDeleteCmd struct {
	Range string `arg:"" help:"Range id or name."`
	Yes   bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *RangeDeleteCmd) Run(ctx *cli.Context) error {
	r, err := ctx.Workspace.FindRange(c.Range)
	if err != nil {
		return err
	}
	if !c.Yes {
		ok, err := ctx.Confirm(fmt.Sprintf("Delete range %q and its %d recorded day(s)?", r.Name, len(r.Entries)))
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Delete cancelled.")
			return nil
		}
	}
	if err := ctx.Workspace.DeleteRange(r.ID); err != nil {
		return fmt.Errorf("failed to delete range: %w", err)
	}
	ctx.Printf("✓ Deleted range %s\n", r.Name)
	return nil
}

type RangeCompleteCmd struct {
	Range string `arg:"" optional:"" help:"Range id or name. Defaults to the active range."`
}

func (c *RangeCompleteCmd) Run(ctx *cli.Context) error {
	r, err := ctx.ResolveRange(c.Range)
	if err != nil {
		return err
	}
	if r.IsCompleted {
		ctx.Printf("Range %s was already completed on %s\n", r.Name, r.CompletedAtISO)
		return nil
	}
	r, err = ctx.Workspace.CompleteRange(r.ID)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Completed range %s on %s\n", r.Name, r.CompletedAtISO)
	return nil
}

type RangeReopenCmd struct {
	Range string `arg:"" optional:"" help:"Range id or name. Defaults to the active range."`
}

func (c *RangeReopenCmd) Run(ctx *cli.Context) error {
	r, err := ctx.ResolveRange(c.Range)
	if err != nil {
		return err
	}
	r, err = ctx.Workspace.ReopenRange(r.ID)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Reopened range %s\n", r.Name)
	return nil
}

type RangeUseCmd struct {
	Range string `arg:"" help:"Range id or name."`
}

func (c *RangeUseCmd) Run(ctx *cli.Context) error {
	r, err := ctx.Workspace.FindRange(c.Range)
	if err != nil {
		return err
	}
	return use(ctx, r)
}

// use makes r the active range and switches the calendar to range mode
func use(ctx *cli.Context, r models.Range) error {
	pref := models.ViewPref{}
	if p := ctx.Workspace.State().ViewPref; p != nil {
		pref = *p
	}
	mode := constants.CalendarModeRange
	pref.CalendarMode = &mode
	pref.ActiveRangeID = &r.ID
	if err := ctx.Workspace.SetViewPref(&pref); err != nil {
		return err
	}
	ctx.Printf("✓ Active range: %s\n", r.Name)
	return nil
}

type MilestoneAddCmd struct {
	Text  string `arg:"" help:"Milestone text."`
	Range string `help:"Range id or name. Defaults to the active range."`
}

func (c *MilestoneAddCmd) Run(ctx *cli.Context) error {
	r, err := ctx.ResolveRange(c.Range)
	if err != nil {
		return err
	}
	m, err := ctx.Workspace.AddMilestone(r.ID, c.Text)
	if err != nil {
		return fmt.Errorf("failed to add milestone: %w", err)
	}
	ctx.Printf("✓ Added milestone %d to %s: %s\n", len(r.Milestones)+1, r.Name, m.Text)
	return nil
}

type MilestoneListCmd struct {
	Range string `arg:"" optional:"" help:"Range id or name. Defaults to the active range."`
}

func (c *MilestoneListCmd) Run(ctx *cli.Context) error {
	r, err := ctx.ResolveRange(c.Range)
	if err != nil {
		return err
	}
	if len(r.Milestones) == 0 {
		ctx.Printf("No milestones in %s\n", r.Name)
		return nil
	}
	ctx.Printf("%s (%d/%d done)\n", r.Name, doneCount(r.Milestones), len(r.Milestones))
	for i, m := range r.Milestones {
		box := "[ ]"
		if m.Done {
			box = "[x]"
		}
		ctx.Printf("  %2d. %s %s\n", i+1, box, m.Text)
	}
	return nil
}

type MilestoneToggleCmd struct {
	Milestone string `arg:"" help:"Milestone number (as listed) or id."`
	Range     string `help:"Range id or name. Defaults to the active range."`
}

func (c *MilestoneToggleCmd) Run(ctx *cli.Context) error {
	r, id, err := findMilestone(ctx, c.Range, c.Milestone)
	if err != nil {
		return err
	}
	m, err := ctx.Workspace.ToggleMilestone(r.ID, id)
	if err != nil {
		return err
	}
	if m.Done {
		ctx.Printf("✓ Done: %s\n", m.Text)
	} else {
		ctx.Printf("✓ Not done: %s\n", m.Text)
	}
	return nil
}

type MilestoneRemoveCmd struct {
	Milestone string `arg:"" help:"Milestone number (as listed) or id."`
	Range     string `help:"Range id or name. Defaults to the active range."`
}

func (c *MilestoneRemoveCmd) Run(ctx *cli.Context) error {
	r, id, err := findMilestone(ctx, c.Range, c.Milestone)
	if err != nil {
		return err
	}
	if err := ctx.Workspace.RemoveMilestone(r.ID, id); err != nil {
		return err
	}
	ctx.Printf("✓ Removed milestone from %s\n", r.Name)
	return nil
}

// findMilestone accepts a 1-based position or a milestone id
func findMilestone(ctx *cli.Context, rangeRef, ref string) (models.Range, string, error) {
	r, err := ctx.ResolveRange(rangeRef)
	if err != nil {
		return models.Range{}, "", err
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(r.Milestones) {
		return r, r.Milestones[n-1].ID, nil
	}
	for _, m := range r.Milestones {
		if m.ID == ref {
			return r, m.ID, nil
		}
	}
	return models.Range{}, "", fmt.Errorf("%w: %s", workspace.ErrMilestoneNotFound, ref)
}
