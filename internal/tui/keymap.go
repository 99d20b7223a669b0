package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the planner view.
type KeyMap struct {
	// Navigation
	Left     key.Binding
	Right    key.Binding
	Up       key.Binding
	Down     key.Binding
	PrevWeek key.Binding
	NextWeek key.Binding
	Today    key.Binding

	// Items
	Add      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	MoveDay  key.Binding

	// View and export
	Weekends key.Binding
	Format   key.Binding
	Heading  key.Binding
	Export   key.Binding
	Copy     key.Binding
	Open     key.Binding
	Help     key.Binding
	Quit     key.Binding

	// Input
	Submit key.Binding
	Cancel key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous day"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next day"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "previous item"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next item"),
		),
		PrevWeek: key.NewBinding(
			key.WithKeys("[", "p"),
			key.WithHelp("[", "previous week"),
		),
		NextWeek: key.NewBinding(
			key.WithKeys("]", "n"),
			key.WithHelp("]", "next week"),
		),
		Today: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "this week"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add item"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e", "edit item"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete item"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("K", "shift+up"),
			key.WithHelp("K", "move item up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("J", "shift+down"),
			key.WithHelp("J", "move item down"),
		),
		MoveDay: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "move to day"),
		),
		Weekends: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "toggle weekends"),
		),
		Format: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "date format"),
		),
		Heading: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "heading level"),
		),
		Export: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "export view"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy rich text"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open link in browser"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
		),
	}
}

// ShortHelp returns key bindings to be shown in the mini help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Edit, k.Delete, k.PrevWeek, k.NextWeek, k.Export, k.Help}
}

// FullHelp returns key bindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.PrevWeek, k.NextWeek, k.Today},
		{k.Add, k.Edit, k.Delete, k.MoveUp, k.MoveDown, k.MoveDay},
		{k.Weekends, k.Format, k.Heading, k.Export, k.Copy, k.Open},
		{k.Help, k.Quit},
	}
}
