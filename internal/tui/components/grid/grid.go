// Package grid draws a span of days as coloured cells.
package grid

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/yearlit/internal/calendar"
	"github.com/julianstephens/yearlit/internal/models"
)

var (
	futureColor     = lipgloss.Color("235")
	unrecordedColor = lipgloss.Color("238")
	selectionColor  = lipgloss.Color("63")

	// stateColors runs from a rough day (1) to a great one (5)
	stateColors = [...]lipgloss.Color{"", "196", "208", "220", "148", "42"}

	accentColors = map[models.Color]lipgloss.Color{
		models.ColorRed:    "203",
		models.ColorOrange: "215",
		models.ColorYellow: "227",
		models.ColorGreen:  "114",
		models.ColorTeal:   "73",
		models.ColorBlue:   "75",
		models.ColorPurple: "141",
		models.ColorPink:   "212",
	}
)

// StateColor returns the fill colour for a recorded state
func StateColor(state int) lipgloss.Color {
	if state < 1 || state >= len(stateColors) {
		return unrecordedColor
	}
	return stateColors[state]
}

// AccentColor maps a range colour onto the terminal palette
func AccentColor(c models.Color) lipgloss.Color {
	return accentColors[c.OrDefault()]
}

// Options controls a single render
type Options struct {
	Days      []string
	Entries   models.Entries
	Today     string
	Cursor    string
	Selection calendar.Selection
	Fit       calendar.Fit
	Aspect    int
	Gap       int
	Accent    models.Color
}

// Render lays the days out row by row, Fit.Columns per row
func Render(o Options) string {
	cols := o.Fit.Columns
	if cols < 1 {
		cols = 7
	}
	aspect := max(o.Aspect, 1)
	cell := max(o.Fit.Cell, 1)
	width, height := cell*aspect, cell

	gap := strings.Repeat(" ", o.Gap)
	var rows []string
	for start := 0; start < len(o.Days); start += cols {
		end := min(start+cols, len(o.Days))
		cells := make([]string, 0, 2*(end-start))
		for i, day := range o.Days[start:end] {
			if i > 0 && o.Gap > 0 {
				cells = append(cells, gap)
			}
			cells = append(cells, renderCell(o, day, width, height))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	sep := "\n"
	if o.Gap > 0 {
		sep = strings.Repeat("\n", o.Gap+1)
	}
	return strings.Join(rows, sep)
}

func renderCell(o Options, day string, width, height int) string {
	style := lipgloss.NewStyle().Width(width).Height(height)

	entry, ok := o.Entries[day]
	switch {
	case o.Selection.Contains(day):
		style = style.Background(selectionColor)
	case ok && entry.IsRecorded():
		style = style.Background(StateColor(entry.State))
	case o.Today != "" && day > o.Today:
		style = style.Background(futureColor)
	default:
		style = style.Background(unrecordedColor)
	}

	mark := ""
	switch {
	case day == o.Cursor:
		mark = "◆"
		style = style.Foreground(lipgloss.Color("231")).Bold(true)
	case day == o.Today:
		mark = "•"
		style = style.Foreground(AccentColor(o.Accent))
	case ok && entry.Note != "":
		mark = "·"
		style = style.Foreground(lipgloss.Color("16"))
	}
	return style.Render(mark)
}

// Legend renders the state colour key
func Legend() string {
	parts := []string{lipgloss.NewStyle().Background(unrecordedColor).Render("  ") + " none"}
	for state := 1; state < len(stateColors); state++ {
		swatch := lipgloss.NewStyle().Background(stateColors[state]).Render("  ")
		parts = append(parts, swatch+" "+strconv.Itoa(state))
	}
	return strings.Join(parts, "  ")
}
