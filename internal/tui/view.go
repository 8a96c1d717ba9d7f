package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/yearlit/internal/calendar"
	"github.com/julianstephens/yearlit/internal/constants"
	"github.com/julianstephens/yearlit/internal/models"
	"github.com/julianstephens/yearlit/internal/progress"
	"github.com/julianstephens/yearlit/internal/tui/components/grid"
)

// chromeHeight is the number of lines taken by everything but the grid
const chromeHeight = 12

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateGuide:
		content = m.viewGuide()
	case StateNoteForm, StateRangeForm:
		content = docStyle.Render(m.form.View())
	case StateRanges:
		content = docStyle.Render(m.ranges.View())
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	default:
		content = m.viewCalendar()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	current := m.view().Mode
	var tabs []string
	for _, mode := range []constants.CalendarMode{constants.CalendarModeYear, constants.CalendarModeRange, constants.CalendarModeCustom} {
		title := strings.ToUpper(string(mode[:1])) + string(mode[1:])
		if mode == current {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewCalendar() string {
	v := m.view()
	today := m.today()
	days, err := calendar.Days(v.StartISO, v.EndISO)
	if err != nil {
		return dangerStyle.Render(err.Error())
	}
	entries := v.Entries(m.ws.State().Entries)

	opts := grid.Options{
		Days:      days,
		Entries:   entries,
		Today:     today,
		Cursor:    m.cursor,
		Selection: m.selection,
		Fit:       m.fit(v),
		Aspect:    cellAspect,
	}
	if v.Range != nil {
		opts.Accent = v.Range.Color
	}

	lines := []string{
		m.viewHeader(v),
		"",
		grid.Render(opts),
		"",
		m.viewCursor(entries),
		m.viewStats(v, entries, today),
		mutedStyle.Render(grid.Legend()),
	}
	if m.status != "" {
		lines = append(lines, warningStyle.Render(m.status))
	}
	return docStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) viewHeader(v calendar.View) string {
	if v.Range == nil {
		return titleStyle.Render(v.Title)
	}
	r := v.Range
	header := lipgloss.NewStyle().Foreground(grid.AccentColor(r.Color)).Bold(true).Render(r.Name)
	if r.Goal != "" {
		header += mutedStyle.Render("  " + r.Goal)
	}
	if r.IsCompleted {
		header += mutedStyle.Render("  completed " + r.CompletedAtISO)
	}
	if n := len(r.Milestones); n > 0 {
		done := 0
		for _, ms := range r.Milestones {
			if ms.Done {
				done++
			}
		}
		header += mutedStyle.Render(fmt.Sprintf("  %d/%d milestones", done, n))
	}
	return header
}

func (m Model) viewCursor(entries models.Entries) string {
	line := m.cursor + "  " + entries[m.cursor].Label()
	if start, end, ok := m.selection.Bounds(); ok {
		line += warningStyle.Render(fmt.Sprintf("  selecting %s → %s (v: new range, c: view, esc: cancel)", start, end))
	}
	return line
}

func (m Model) viewStats(v calendar.View, entries models.Entries, today string) string {
	p, err := progress.Span(v.StartISO, v.EndISO, m.nowInZone())
	if err != nil {
		return dangerStyle.Render(err.Error())
	}
	st, err := progress.Streaks(entries, v.StartISO, v.EndISO, today)
	if err != nil {
		return dangerStyle.Render(err.Error())
	}
	return fmt.Sprintf("%.1f%% elapsed · %d of %d days left · streak %d (best %d) · %d recorded",
		p.Percent, p.DaysLeft, p.TotalDays, st.Current, st.Longest, st.Recorded)
}

func (m Model) viewGuide() string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Welcome to yearlit"),
		"",
		"Each cell is one day. Move with the arrow keys or h/j/k/l.",
		"Press 1-5 to rate how the day felt, 0 to clear the rating, n to add a note.",
		"Press v twice to select a span of days and turn it into a range.",
		"tab switches between the year, the active range and a custom span.",
		"",
		mutedStyle.Render("Press any key to start."),
	)
	return lipgloss.Place(m.width, max(m.height-4, 0), lipgloss.Center, lipgloss.Center, body)
}

func (m Model) viewConfirmDelete() string {
	name := m.deleteRangeID
	if r, err := m.ws.FindRange(m.deleteRangeID); err == nil {
		name = r.Name
	}
	return lipgloss.Place(m.width, max(m.height-4, 0),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Delete range %q and its entries?", name)),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
