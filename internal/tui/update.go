package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/yearlit/internal/calendar"
	"github.com/julianstephens/yearlit/internal/constants"
	"github.com/julianstephens/yearlit/internal/dates"
	"github.com/julianstephens/yearlit/internal/logger"
	"github.com/julianstephens/yearlit/internal/models"
	"github.com/julianstephens/yearlit/internal/tui/components/rangelist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.ranges.SetSize(max(msg.Width-4, 0), max(msg.Height-6, 0))
		return m, nil
	case rangelist.SelectRangeMsg:
		m.activateRange(msg.ID)
		m.state = StateCalendar
		return m, nil
	case rangelist.AddRangeMsg:
		start := m.today()
		end, _ := dates.AddDays(start, 6)
		return m.openRangeForm("", RangeFormModel{Start: start, End: end, Color: models.DefaultColor})
	case rangelist.EditRangeMsg:
		r, err := m.ws.FindRange(msg.ID)
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		return m.openRangeForm(r.ID, RangeFormModel{Name: r.Name, Start: r.StartISO, End: r.EndISO, Color: r.Color.OrDefault(), Goal: r.Goal})
	case rangelist.DeleteRangeMsg:
		m.deleteRangeID = msg.ID
		m.state = StateConfirmDelete
		return m, nil
	case rangelist.ToggleCompleteMsg:
		m.toggleComplete(msg.ID)
		return m, nil
	}

	switch m.state {
	case StateNoteForm, StateRangeForm:
		return m.updateForm(msg)
	case StateRanges:
		return m.updateRanges(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	case StateGuide:
		if _, ok := msg.(tea.KeyMsg); ok {
			if err := m.ws.DismissGuide(); err != nil {
				m.status = err.Error()
			}
			m.state = StateCalendar
		}
		return m, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.updateCalendar(msg)
	}
	return m, nil
}

func (m Model) updateCalendar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	v := m.view()

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-m.fit(v).Columns)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(m.fit(v).Columns)
	case key.Matches(msg, m.keys.Today):
		m.resetCursor()
	case key.Matches(msg, m.keys.SetState):
		state, _ := strconv.Atoi(msg.String())
		current, _, _ := m.ws.Entry(m.cursor, m.rangeID(v))
		m.setEntry(v, state, current.Note)
	case key.Matches(msg, m.keys.Clear):
		if err := m.ws.ClearEntry(m.cursor, m.rangeID(v)); err != nil {
			m.status = err.Error()
		}
	case key.Matches(msg, m.keys.Note):
		current, _, _ := m.ws.Entry(m.cursor, m.rangeID(v))
		m.noteForm = &NoteFormModel{State: current.State, Note: current.Note}
		m.form = newNoteForm(m.cursor, m.noteForm)
		m.state = StateNoteForm
		return m, m.form.Init()
	case key.Matches(msg, m.keys.Select):
		if !m.selection.Active() {
			m.selection.Begin(m.cursor)
			return m, nil
		}
		start, end, _ := m.selection.Bounds()
		m.selection.Clear()
		return m.openRangeForm("", RangeFormModel{Start: start, End: end, Color: models.DefaultColor})
	case key.Matches(msg, m.keys.Custom):
		if start, end, ok := m.selection.Bounds(); ok {
			mode := constants.CalendarModeCustom
			m.pref.CalendarMode = &mode
			m.pref.CustomStartISO = &start
			m.pref.CustomEndISO = &end
			m.selection.Clear()
			m.saveViewPref()
		}
	case key.Matches(msg, m.keys.Cancel):
		m.selection.Clear()
	case key.Matches(msg, m.keys.Mode):
		m.cycleMode()
	case key.Matches(msg, m.keys.PrevRange):
		m.cycleRange(-1)
	case key.Matches(msg, m.keys.NextRange):
		m.cycleRange(1)
	case key.Matches(msg, m.keys.PrevYear):
		m.shiftYear(-1)
	case key.Matches(msg, m.keys.NextYear):
		m.shiftYear(1)
	case key.Matches(msg, m.keys.Ranges):
		m.ranges.SetRanges(m.ws.Ranges(), activeID(&m.pref))
		m.state = StateRanges
	}
	return m, nil
}

func (m Model) rangeID(v calendar.View) string {
	if v.Range != nil {
		return v.Range.ID
	}
	return ""
}

func (m *Model) setEntry(v calendar.View, state int, note string) {
	if _, err := m.ws.SetEntry(m.cursor, state, note, m.rangeID(v)); err != nil {
		m.status = err.Error()
		logger.Warn("Failed to save entry", "day", m.cursor, "error", err)
	}
}

func (m *Model) moveCursor(delta int) {
	v := m.view()
	next, err := dates.AddDays(m.cursor, delta)
	if err != nil || next < v.StartISO || next > v.EndISO {
		return
	}
	m.cursor = next
	m.selection.Move(next)
}

func (m Model) fit(v calendar.View) calendar.Fit {
	days, _ := dates.DaysBetween(v.StartISO, v.EndISO)
	return calendar.FitColumns(calendar.Layout{
		Width:  max(m.width-4, 1),
		Height: max(m.height-chromeHeight, 1),
		Days:   days + 1,
		Aspect: cellAspect,
	})
}

// cycleMode steps year → range → custom, skipping modes with nothing to show
func (m *Model) cycleMode() {
	order := []constants.CalendarMode{constants.CalendarModeYear, constants.CalendarModeRange, constants.CalendarModeCustom}
	current := m.pref.Mode()
	idx := 0
	for i, mode := range order {
		if mode == current {
			idx = i
		}
	}
	for step := 1; step <= len(order); step++ {
		next := order[(idx+step)%len(order)]
		if next == constants.CalendarModeRange && len(m.ws.Ranges()) == 0 {
			continue
		}
		if next == constants.CalendarModeCustom && (m.pref.CustomStartISO == nil || m.pref.CustomEndISO == nil) {
			continue
		}
		m.pref.CalendarMode = &next
		break
	}
	m.clampCursor()
	m.saveViewPref()
}

func (m *Model) cycleRange(delta int) {
	ranges := m.ws.Ranges()
	if len(ranges) == 0 {
		m.status = "no ranges yet, press v to select days for one"
		return
	}
	idx := -1
	current := activeID(&m.pref)
	for i, r := range ranges {
		if r.ID == current {
			idx = i
		}
	}
	if idx < 0 {
		idx = 0
	} else {
		idx = (idx + delta + len(ranges)) % len(ranges)
	}
	m.activateRange(ranges[idx].ID)
}

func (m *Model) activateRange(id string) {
	mode := constants.CalendarModeRange
	m.pref.CalendarMode = &mode
	m.pref.ActiveRangeID = &id
	m.clampCursor()
	m.saveViewPref()
}

func (m *Model) shiftYear(delta int) {
	v := m.view()
	if v.Mode != constants.CalendarModeYear {
		return
	}
	t, err := dates.ParseISO(v.StartISO)
	if err != nil {
		return
	}
	next := fmt.Sprintf("%04d-01-01", t.Year()+delta)
	m.pref.AnchorISO = &next
	m.clampCursor()
	m.saveViewPref()
}

func (m *Model) saveViewPref() {
	pref := m.pref
	if err := m.ws.SetViewPref(&pref); err != nil {
		m.status = err.Error()
		logger.Warn("Failed to save view preference", "error", err)
	}
}

func (m *Model) toggleComplete(id string) {
	r, err := m.ws.FindRange(id)
	if err == nil {
		if r.IsCompleted {
			_, err = m.ws.ReopenRange(id)
		} else {
			_, err = m.ws.CompleteRange(id)
		}
	}
	if err != nil {
		m.status = err.Error()
	}
	m.ranges.SetRanges(m.ws.Ranges(), activeID(&m.pref))
}

func (m Model) openRangeForm(editingID string, f RangeFormModel) (tea.Model, tea.Cmd) {
	m.editingRangeID = editingID
	m.rangeForm = &f
	m.form = newRangeForm(m.rangeForm)
	m.state = StateRangeForm
	return m, m.form.Init()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateCalendar
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if m.state == StateNoteForm {
			m.setEntry(m.view(), m.noteForm.State, m.noteForm.Note)
		} else {
			m.submitRangeForm()
		}
		m.state = StateCalendar
	case huh.StateAborted:
		m.state = StateCalendar
	}
	return m, cmd
}

func (m *Model) submitRangeForm() {
	d := m.rangeForm.draft()
	if m.editingRangeID != "" {
		if _, err := m.ws.UpdateRange(m.editingRangeID, d); err != nil {
			m.status = err.Error()
		}
		m.editingRangeID = ""
		m.clampCursor()
		return
	}
	r, err := m.ws.AddRange(d)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.activateRange(r.ID)
	m.status = fmt.Sprintf("created range %s", r.Name)
}

func (m Model) updateRanges(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc", "q":
			m.state = StateCalendar
			return m, nil
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.ranges, cmd = m.ranges.Update(msg)
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "y", "Y":
		if err := m.ws.DeleteRange(m.deleteRangeID); err != nil {
			m.status = err.Error()
		}
		if activeID(&m.pref) == m.deleteRangeID {
			m.pref.ActiveRangeID = nil
		}
		m.deleteRangeID = ""
		m.ranges.SetRanges(m.ws.Ranges(), activeID(&m.pref))
		m.clampCursor()
		m.state = StateRanges
	case "n", "N", "esc":
		m.deleteRangeID = ""
		m.state = StateRanges
	}
	return m, nil
}
