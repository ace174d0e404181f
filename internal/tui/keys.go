package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the browsing surface
type KeyMap struct {
	NextEntry    key.Binding
	PrevEntry    key.Binding
	NextImage    key.Binding
	PrevImage    key.Binding
	ToggleSafety key.Binding
	Like         key.Binding
	QuickFilter  key.Binding
	NewSearch    key.Binding
	Retry        key.Binding
	Help         key.Binding
	Quit         key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextEntry: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j", "next character"),
		),
		PrevEntry: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k", "previous character"),
		),
		NextImage: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l", "next image"),
		),
		PrevImage: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h", "previous image"),
		),
		ToggleSafety: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "toggle safety filter"),
		),
		Like: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "like character"),
		),
		QuickFilter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "quick filter"),
		),
		NewSearch: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "new search"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
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
