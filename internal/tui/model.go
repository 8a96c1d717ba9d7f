package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/yearlit/internal/calendar"
	"github.com/julianstephens/yearlit/internal/constants"
	"github.com/julianstephens/yearlit/internal/dates"
	"github.com/julianstephens/yearlit/internal/models"
	"github.com/julianstephens/yearlit/internal/tui/components/rangelist"
	"github.com/julianstephens/yearlit/internal/workspace"
)

type SessionState int

const (
	StateCalendar SessionState = iota
	StateGuide
	StateNoteForm
	StateRangeForm
	StateRanges
	StateConfirmDelete
)

// cellAspect keeps cells roughly square in a terminal
const cellAspect = 2

type NoteFormModel struct {
	State int
	Note  string
}

type RangeFormModel struct {
	Name  string
	Start string
	End   string
	Color models.Color
	Goal  string
}

type Model struct {
	ws    *workspace.Workspace
	state SessionState
	keys  KeyMap
	help  help.Model

	pref      models.ViewPref
	cursor    string
	selection calendar.Selection

	form           *huh.Form
	noteForm       *NoteFormModel
	rangeForm      *RangeFormModel
	editingRangeID string
	deleteRangeID  string
	ranges         rangelist.Model

	status   string
	quitting bool
	width    int
	height   int
}

// Options configures the initial view when no preference is stored
type Options struct {
	DefaultMode constants.CalendarMode
}

func NewModel(ws *workspace.Workspace, opts Options) Model {
	s := ws.State()

	var pref models.ViewPref
	if s.ViewPref != nil {
		pref = *s.ViewPref
	} else if models.ValidCalendarMode(opts.DefaultMode) {
		mode := opts.DefaultMode
		pref.CalendarMode = &mode
	}

	m := Model{
		ws:     ws,
		state:  StateCalendar,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		pref:   pref,
		ranges: rangelist.New(s.Ranges, activeID(&pref), 0, 0),
	}
	if !s.GuideDismissed {
		m.state = StateGuide
	}
	m.resetCursor()
	return m
}

func activeID(p *models.ViewPref) string {
	if p == nil || p.ActiveRangeID == nil {
		return ""
	}
	return *p.ActiveRangeID
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) today() string {
	today, err := m.ws.Today()
	if err != nil {
		return dates.FormatISO(m.ws.Clock().Now())
	}
	return today
}

// view resolves the span currently on screen
func (m Model) view() calendar.View {
	return calendar.Resolve(&m.pref, m.ws.Ranges(), m.today())
}

// resetCursor puts the cursor on today when visible, else the first day
func (m *Model) resetCursor() {
	v := m.view()
	today := m.today()
	if v.StartISO <= today && today <= v.EndISO {
		m.cursor = today
		return
	}
	m.cursor = v.StartISO
}

// clampCursor keeps the cursor inside the visible span
func (m *Model) clampCursor() {
	v := m.view()
	if m.cursor < v.StartISO || m.cursor > v.EndISO {
		m.resetCursor()
	}
}

func (m Model) ShortHelp() []key.Binding {
	switch m.state {
	case StateRanges:
		return []key.Binding{m.keys.Cancel, m.keys.Quit}
	}
	return []key.Binding{m.keys.SetState, m.keys.Note, m.keys.Select, m.keys.Mode, m.keys.Ranges, m.keys.Help, m.keys.Quit}
}

func (m Model) FullHelp() [][]key.Binding {
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right, m.keys.Today}
	editing := []key.Binding{m.keys.SetState, m.keys.Note, m.keys.Clear, m.keys.Select, m.keys.Custom, m.keys.Cancel}
	views := []key.Binding{m.keys.Mode, m.keys.PrevRange, m.keys.NextRange, m.keys.PrevYear, m.keys.NextYear, m.keys.Ranges}
	global := []key.Binding{m.keys.Help, m.keys.Quit}
	return [][]key.Binding{navigation, editing, views, global}
}

func (m Model) nowInZone() time.Time {
	now, err := dates.NowIn(m.ws.Clock(), m.ws.Timezone())
	if err != nil {
		return m.ws.Clock().Now()
	}
	return now
}
