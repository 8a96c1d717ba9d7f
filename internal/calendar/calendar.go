// Package calendar lays out day grids and tracks drag selections over them.
package calendar

import (
	"fmt"

	"github.com/julianstephens/yearlit/internal/constants"
	"github.com/julianstephens/yearlit/internal/dates"
)

// Days lists every ISO day in [start, end]
func Days(start, end string) ([]string, error) {
	n, err := dates.DaysBetween(start, end)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("start %s is after end %s", start, end)
	}
	s, _ := dates.ParseISO(start)
	days := make([]string, n+1)
	for i := range days {
		days[i] = dates.FormatISO(s.AddDate(0, 0, i))
	}
	return days, nil
}

// Layout describes the viewport a grid must fit into. Sizes are in
// terminal cells.
type Layout struct {
	Width  int
	Height int
	Days   int
	// Gap is the blank space between neighbouring cells, in both axes
	Gap int
	// Aspect is how many columns wide a cell is per row of height.
	// Terminal glyphs are roughly twice as tall as wide, so 2 keeps cells square.
	Aspect int
}

// Fit is the grid shape chosen for a Layout
type Fit struct {
	Columns int
	Rows    int
	// Cell is the cell height; the width is Cell * Aspect
	Cell int
}

// FitColumns searches MinGridColumns..MaxGridColumns for the column count
// that gives the largest cells. Ties prefer a multiple of seven so weeks
// line up, then fewer columns. Cells never shrink below 1.
func FitColumns(l Layout) Fit {
	aspect := l.Aspect
	if aspect < 1 {
		aspect = 1
	}
	days := l.Days
	if days < 1 {
		days = 1
	}

	var best Fit
	for cols := constants.MinGridColumns; cols <= constants.MaxGridColumns; cols++ {
		rows := (days + cols - 1) / cols
		byWidth := (l.Width - (cols-1)*l.Gap) / (cols * aspect)
		byHeight := (l.Height - (rows-1)*l.Gap) / rows
		cell := min(byWidth, byHeight)
		if cell < 1 {
			cell = 0
		}

		candidate := Fit{Columns: cols, Rows: rows, Cell: cell}
		if best.Columns == 0 || better(candidate, best) {
			best = candidate
		}
	}
	if best.Cell < 1 {
		best.Cell = 1
	}
	return best
}

func better(a, b Fit) bool {
	if a.Cell != b.Cell {
		return a.Cell > b.Cell
	}
	aWeek, bWeek := a.Columns%7 == 0, b.Columns%7 == 0
	if aWeek != bWeek {
		return aWeek
	}
	return a.Columns < b.Columns
}

// Selection tracks an anchor/cursor pair while the user drags over days
type Selection struct {
	anchor string
	cursor string
	active bool
}

// Begin starts a selection at day
func (s *Selection) Begin(day string) {
	s.anchor, s.cursor, s.active = day, day, true
}

// Move extends the selection to day. It is a no-op when nothing is selected.
func (s *Selection) Move(day string) {
	if s.active {
		s.cursor = day
	}
}

// Clear drops the selection
func (s *Selection) Clear() {
	*s = Selection{}
}

func (s Selection) Active() bool { return s.active }

// Bounds returns the selected span ordered so start <= end
func (s Selection) Bounds() (start, end string, ok bool) {
	if !s.active {
		return "", "", false
	}
	if s.anchor <= s.cursor {
		return s.anchor, s.cursor, true
	}
	return s.cursor, s.anchor, true
}

// Contains reports whether day lies inside the selection
func (s Selection) Contains(day string) bool {
	start, end, ok := s.Bounds()
	return ok && start <= day && day <= end
}
