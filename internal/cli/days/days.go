package days

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/julianstephens/yearlit/internal/cli"
	"github.com/julianstephens/yearlit/internal/constants"
	"github.com/julianstephens/yearlit/internal/dates"
)

// target resolves the day argument and the optional range reference
func target(ctx *cli.Context, date, rangeRef string) (day, rangeID string, err error) {
	ws := ctx.Workspace
	day, err = dates.ResolveDay(date, ws.Clock(), ws.Timezone())
	if err != nil {
		return "", "", err
	}
	if rangeRef != "" {
		r, err := ws.FindRange(rangeRef)
		if err != nil {
			return "", "", err
		}
		rangeID = r.ID
	}
	return day, rangeID, nil
}

type MarkCmd struct {
	State int     `arg:"" help:"How the day went, 1 (rough) to 5 (great). 0 keeps only the note."`
	Date  string  `arg:"" optional:"" default:"today" help:"Day to mark: YYYY-MM-DD, today or yesterday."`
	Note  *string `help:"Short note for the day (max 50 characters). Omit to keep the current note."`
	Range string  `help:"Mark the day inside this range (id or name) instead of the calendar."`
}

func (c *MarkCmd) Run(ctx *cli.Context) error {
	day, rangeID, err := target(ctx, c.Date, c.Range)
	if err != nil {
		return err
	}

	current, _, err := ctx.Workspace.Entry(day, rangeID)
	if err != nil {
		return err
	}
	note := current.Note
	if c.Note != nil {
		note = *c.Note
	}

	entry, err := ctx.Workspace.SetEntry(day, c.State, note, rangeID)
	if err != nil {
		return fmt.Errorf("failed to mark %s: %w", day, err)
	}
	if entry.IsEmpty() {
		ctx.Printf("✓ Cleared %s\n", day)
		return nil
	}
	ctx.Printf("✓ %s  %s\n", day, entry.Label())
	return nil
}

type NoteCmd struct {
	Text  string `arg:"" help:"Note text (max 50 characters). An empty string removes the note."`
	Date  string `arg:"" optional:"" default:"today" help:"Day to annotate: YYYY-MM-DD, today or yesterday."`
	Range string `help:"Annotate the day inside this range (id or name)."`
}

func (c *NoteCmd) Run(ctx *cli.Context) error {
	day, rangeID, err := target(ctx, c.Date, c.Range)
	if err != nil {
		return err
	}
	current, _, err := ctx.Workspace.Entry(day, rangeID)
	if err != nil {
		return err
	}
	entry, err := ctx.Workspace.SetEntry(day, current.State, c.Text, rangeID)
	if err != nil {
		return fmt.Errorf("failed to save note: %w", err)
	}
	if utf8.RuneCountInString(strings.TrimSpace(c.Text)) > constants.MaxNoteLength {
		ctx.Printf("⚠ Note was truncated to %d characters\n", constants.MaxNoteLength)
	}
	ctx.Printf("✓ %s  %s\n", day, entry.Label())
	return nil
}

type ClearCmd struct {
	Date  string `arg:"" optional:"" default:"today" help:"Day to clear: YYYY-MM-DD, today or yesterday."`
	Range string `help:"Clear the day inside this range (id or name)."`
}

func (c *ClearCmd) Run(ctx *cli.Context) error {
	day, rangeID, err := target(ctx, c.Date, c.Range)
	if err != nil {
		return err
	}
	if _, ok, err := ctx.Workspace.Entry(day, rangeID); err != nil {
		return err
	} else if !ok {
		ctx.Printf("Nothing recorded for %s\n", day)
		return nil
	}
	if err := ctx.Workspace.ClearEntry(day, rangeID); err != nil {
		return fmt.Errorf("failed to clear %s: %w", day, err)
	}
	ctx.Printf("✓ Cleared %s\n", day)
	return nil
}
