package days

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/yearlit/internal/cli"
	"github.com/julianstephens/yearlit/internal/config"
	"github.com/julianstephens/yearlit/internal/dates"
	"github.com/julianstephens/yearlit/internal/ids"
	"github.com/julianstephens/yearlit/internal/storage/sqlite"
	"github.com/julianstephens/yearlit/internal/workspace"
)

func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	ws := workspace.New(store, workspace.Options{
		Clock:    dates.FixedClock(time.Date(2024, 8, 15, 12, 0, 0, 0, time.UTC)),
		IDs:      &ids.Sequence{Prefix: "id"},
		Timezone: "UTC",
	})
	if _, err := ws.Load(); err != nil {
		t.Fatalf("failed to load workspace: %v", err)
	}

	out := &bytes.Buffer{}
	ctx := &cli.Context{
		Store:     store,
		Workspace: ws,
		Config:    config.Default(),
		ConfigDir: tempDir,
		Out:       out,
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}
	return ctx, out, cleanup
}

func TestMarkCmd(t *testing.T) {
	ctx, out, cleanup := setupTestDB(t)
	defer cleanup()

	note := "good run"
	if err := (&MarkCmd{State: 4, Date: "today", Note: &note}).Run(ctx); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	if !strings.Contains(out.String(), "2024-08-15  4/5  good run") {
		t.Errorf("unexpected output: %q", out.String())
	}

	// Re-marking without --note keeps the note
	if err := (&MarkCmd{State: 5, Date: "2024-08-15"}).Run(ctx); err != nil {
		t.Fatalf("re-mark failed: %v", err)
	}
	e, ok, _ := ctx.Workspace.Entry("2024-08-15", "")
	if !ok || e.State != 5 || e.Note != "good run" {
		t.Errorf("entry = %+v, %v", e, ok)
	}

	if err := (&MarkCmd{State: 2, Date: "yesterday"}).Run(ctx); err != nil {
		t.Fatalf("mark yesterday failed: %v", err)
	}
	if _, ok, _ := ctx.Workspace.Entry("2024-08-14", ""); !ok {
		t.Error("yesterday not marked")
	}
}

func TestMarkCmdErrors(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t)
	defer cleanup()

	tests := []struct {
		name string
		cmd  MarkCmd
	}{
		{name: "bad state", cmd: MarkCmd{State: 9, Date: "today"}},
		{name: "bad date", cmd: MarkCmd{State: 3, Date: "next tuesday"}},
		{name: "unknown range", cmd: MarkCmd{State: 3, Date: "today", Range: "nope"}},
		{name: "outside range", cmd: MarkCmd{State: 3, Date: "2024-12-25", Range: "Q3 2024"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Run(ctx); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestMarkCmdInRange(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t)
	defer cleanup()

	if err := (&MarkCmd{State: 3, Date: "today", Range: "q3 2024"}).Run(ctx); err != nil {
		t.Fatalf("mark in range failed: %v", err)
	}
	if _, ok, _ := ctx.Workspace.Entry("2024-08-15", "id1"); !ok {
		t.Error("range entry missing")
	}
	if _, ok, _ := ctx.Workspace.Entry("2024-08-15", ""); ok {
		t.Error("range mark leaked into the calendar")
	}
}

func TestNoteAndClearCmd(t *testing.T) {
	ctx, out, cleanup := setupTestDB(t)
	defer cleanup()

	if err := (&MarkCmd{State: 3, Date: "today"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	long := strings.Repeat("n", 60)
	if err := (&NoteCmd{Text: long, Date: "today"}).Run(ctx); err != nil {
		t.Fatalf("note failed: %v", err)
	}
	if !strings.Contains(out.String(), "truncated") {
		t.Error("missing truncation warning")
	}
	e, _, _ := ctx.Workspace.Entry("2024-08-15", "")
	if e.State != 3 || len(e.Note) != 50 {
		t.Errorf("entry after note = %+v", e)
	}

	if err := (&ClearCmd{Date: "today"}).Run(ctx); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if _, ok, _ := ctx.Workspace.Entry("2024-08-15", ""); ok {
		t.Error("entry still present after clear")
	}

	out.Reset()
	if err := (&ClearCmd{Date: "today"}).Run(ctx); err != nil {
		t.Fatalf("second clear failed: %v", err)
	}
	if !strings.Contains(out.String(), "Nothing recorded") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestShowCmd(t *testing.T) {
	ctx, out, cleanup := setupTestDB(t)
	defer cleanup()

	if err := (&ShowCmd{ViewFlags: ViewFlags{Range: "id1"}, Width: 80, Height: 24}).Run(ctx); err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if !strings.Contains(out.String(), "Q3 2024") || !strings.Contains(out.String(), "2024-07-01 → 2024-09-30") {
		t.Errorf("unexpected header: %q", out.String())
	}

	out.Reset()
	if err := (&ShowCmd{Width: 80, Height: 24}).Run(ctx); err != nil {
		t.Fatalf("show default failed: %v", err)
	}
	if !strings.Contains(out.String(), "2024-01-01 → 2024-12-31") {
		t.Errorf("default view is not the current year: %q", out.String())
	}
}

func TestViewFlagsErrors(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t)
	defer cleanup()

	tests := []struct {
		name  string
		flags ViewFlags
	}{
		{name: "from without to", flags: ViewFlags{From: "2024-01-01"}},
		{name: "inverted", flags: ViewFlags{From: "2024-02-01", To: "2024-01-01"}},
		{name: "combined", flags: ViewFlags{Year: 2024, Range: "id1"}},
		{name: "unknown range", flags: ViewFlags{Range: "missing"}},
		{name: "year out of range", flags: ViewFlags{Year: 12000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.flags.resolve(ctx); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestStatsCmd(t *testing.T) {
	ctx, out, cleanup := setupTestDB(t)
	defer cleanup()

	for _, day := range []string{"2024-08-13", "2024-08-14", "2024-08-15"} {
		if err := (&MarkCmd{State: 4, Date: day}).Run(ctx); err != nil {
			t.Fatal(err)
		}
	}
	out.Reset()

	if err := (&StatsCmd{ViewFlags: ViewFlags{From: "2024-08-01", To: "2024-08-31"}}).Run(ctx); err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	for _, want := range []string{"Current streak: 3", "Recorded:       3", "Average:        4.00", "Days left:      17"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("stats output missing %q:\n%s", want, out.String())
		}
	}
}

func TestBarWidth(t *testing.T) {
	tests := []struct{ n, total, want int }{
		{0, 10, 0},
		{1, 100, 1},
		{5, 10, 10},
		{10, 10, 20},
	}
	for _, tt := range tests {
		if got := barWidth(tt.n, tt.total, 20); got != tt.want {
			t.Errorf("barWidth(%d, %d) = %d, want %d", tt.n, tt.total, got, tt.want)
		}
	}
}
