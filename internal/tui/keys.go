package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Open       key.Binding
	Copy       key.Binding
	Sort       key.Binding
	Kind       key.Binding
	Lossy      key.Binding
	Quit       key.Binding
}

// ShortHelp lists the report actions shown in the status bar.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Copy, k.Sort, k.Kind, k.Lossy, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.ScrollUp, k.ScrollDown},
		k.ShortHelp(),
	}
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+k"),
		key.WithHelp("up/C-k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+j"),
		key.WithHelp("dn/C-j", "down"),
	),
	ScrollUp: key.NewBinding(
		key.WithKeys("ctrl+u", "pgup"),
		key.WithHelp("C-u", "report up"),
	),
	ScrollDown: key.NewBinding(
		key.WithKeys("ctrl+d", "pgdown"),
		key.WithHelp("C-d", "report down"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open"),
	),
	Copy: key.NewBinding(
		key.WithKeys("ctrl+y"),
		key.WithHelp("C-y", "copy dir"),
	),
	Sort: key.NewBinding(
		key.WithKeys("ctrl+o"),
		key.WithHelp("C-o", "sort"),
	),
	Kind: key.NewBinding(
		key.WithKeys("ctrl+t"),
		key.WithHelp("C-t", "notes"),
	),
	Lossy: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("C-l", "lossy"),
	),
	Quit: key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("esc", "quit"),
	),
}
