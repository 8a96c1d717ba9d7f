// Package rangelist is the range picker shown over the calendar.
package rangelist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/yearlit/internal/models"
)

type SelectRangeMsg struct {
	ID string
}

type AddRangeMsg struct{}

type EditRangeMsg struct {
	ID string
}

type DeleteRangeMsg struct {
	ID string
}

type ToggleCompleteMsg struct {
	ID string
}

type Item struct {
	Range  models.Range
	Active bool
}

func (i Item) Title() string {
	title := i.Range.Name
	if i.Range.IsCompleted {
		title = "✓ " + title
	} else {
		title = "○ " + title
	}
	if i.Active {
		title += " (active)"
	}
	return title
}

func (i Item) Description() string {
	parts := []string{fmt.Sprintf("%s → %s", i.Range.StartISO, i.Range.EndISO)}
	if n := len(i.Range.Milestones); n > 0 {
		done := 0
		for _, m := range i.Range.Milestones {
			if m.Done {
				done++
			}
		}
		parts = append(parts, fmt.Sprintf("%d/%d milestones", done, n))
	}
	if i.Range.Goal != "" {
		parts = append(parts, i.Range.Goal)
	}
	return strings.Join(parts, " · ")
}

func (i Item) FilterValue() string { return i.Range.Name }

type KeyMap struct {
	Select   key.Binding
	Add      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Complete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "activate"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Complete: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "complete/reopen"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(ranges []models.Range, activeID string, width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Ranges"
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Select, keys.Add, keys.Edit, keys.Delete}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Select, keys.Add, keys.Edit, keys.Delete, keys.Complete}
	}

	m := Model{list: l, keys: keys}
	m.SetRanges(ranges, activeID)
	return m
}

func (m *Model) SetRanges(ranges []models.Range, activeID string) {
	items := make([]list.Item, len(ranges))
	for i, r := range ranges {
		items[i] = Item{Range: r, Active: r.ID == activeID}
	}
	m.list.SetItems(items)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Don't match if we're filtering
		if m.list.FilterState() == list.Filtering {
			break
		}

		if key.Matches(msg, m.keys.Add) {
			return m, func() tea.Msg { return AddRangeMsg{} }
		}
		item, ok := m.list.SelectedItem().(Item)
		if !ok {
			break
		}
		id := item.Range.ID
		switch {
		case key.Matches(msg, m.keys.Select):
			return m, func() tea.Msg { return SelectRangeMsg{ID: id} }
		case key.Matches(msg, m.keys.Edit):
			return m, func() tea.Msg { return EditRangeMsg{ID: id} }
		case key.Matches(msg, m.keys.Delete):
			return m, func() tea.Msg { return DeleteRangeMsg{ID: id} }
		case key.Matches(msg, m.keys.Complete):
			return m, func() tea.Msg { return ToggleCompleteMsg{ID: id} }
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
