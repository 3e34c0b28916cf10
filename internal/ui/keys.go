package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Search     key.Binding
	Press      key.Binding
	NextFocus  key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Pager      key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Search: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "search"),
		),
		Press: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "press button"),
		),
		NextFocus: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "switch focus"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("up", "pgup"),
			key.WithHelp("↑/pgup", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("down", "pgdown"),
			key.WithHelp("↓/pgdn", "scroll down"),
		),
		Pager: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "open results in pager"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.NextFocus, k.ScrollDown, k.Pager, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.Press, k.NextFocus},
		{k.ScrollUp, k.ScrollDown, k.Pager, k.Quit},
	}
}
