package grid

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/yearlit/internal/calendar"
	"github.com/julianstephens/yearlit/internal/models"
)

func TestRenderShape(t *testing.T) {
	days, err := calendar.Days("2024-01-01", "2024-01-10")
	if err != nil {
		t.Fatal(err)
	}

	out := Render(Options{
		Days:    days,
		Entries: models.Entries{"2024-01-02": {State: 3, Note: "x"}},
		Today:   "2024-01-05",
		Cursor:  "2024-01-03",
		Fit:     calendar.Fit{Columns: 7, Rows: 2, Cell: 1},
		Aspect:  2,
	})

	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("rendered %d lines, want 2:\n%s", len(lines), out)
	}
	if w := lipgloss.Width(lines[0]); w != 14 {
		t.Errorf("first row width = %d, want 14", w)
	}
	if w := lipgloss.Width(lines[1]); w != 6 {
		t.Errorf("second row width = %d, want 6", w)
	}
	if !strings.Contains(out, "◆") {
		t.Error("cursor marker missing")
	}
}

func TestRenderGap(t *testing.T) {
	days, _ := calendar.Days("2024-01-01", "2024-01-14")
	out := Render(Options{
		Days:   days,
		Fit:    calendar.Fit{Columns: 7, Rows: 2, Cell: 2},
		Aspect: 1,
		Gap:    1,
	})

	lines := strings.Split(out, "\n")
	// two rows of height 2 separated by one blank line
	if len(lines) != 5 {
		t.Fatalf("rendered %d lines, want 5", len(lines))
	}
	if w := lipgloss.Width(lines[0]); w != 7*2+6 {
		t.Errorf("row width = %d, want %d", w, 7*2+6)
	}
}

func TestStateColor(t *testing.T) {
	if StateColor(0) != unrecordedColor || StateColor(9) != unrecordedColor {
		t.Error("out-of-range states should use the unrecorded colour")
	}
	if StateColor(5) == StateColor(1) {
		t.Error("state colours should differ across the scale")
	}
	if AccentColor("") != accentColors[models.DefaultColor] {
		t.Error("missing accent should fall back to the default colour")
	}
}
