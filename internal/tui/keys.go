package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Today     key.Binding
	SetState  key.Binding
	Note      key.Binding
	Clear     key.Binding
	Select    key.Binding
	Custom    key.Binding
	Cancel    key.Binding
	Mode      key.Binding
	PrevRange key.Binding
	NextRange key.Binding
	PrevYear  key.Binding
	NextYear  key.Binding
	Ranges    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous day"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next day"),
		),
		Today: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "today"),
		),
		SetState: key.NewBinding(
			key.WithKeys("0", "1", "2", "3", "4", "5"),
			key.WithHelp("0-5", "rate day"),
		),
		Note: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "note"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear day"),
		),
		Select: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "select span / new range"),
		),
		Custom: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "view selection"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Mode: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "cycle view"),
		),
		PrevRange: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "previous range"),
		),
		NextRange: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next range"),
		),
		PrevYear: key.NewBinding(
			key.WithKeys("<", ","),
			key.WithHelp("<", "previous year"),
		),
		NextYear: key.NewBinding(
			key.WithKeys(">", "."),
			key.WithHelp(">", "next year"),
		),
		Ranges: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "ranges"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
