package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	enter   key.Binding
	back    key.Binding
	del     key.Binding
	restore key.Binding
	purge   key.Binding
	empty   key.Binding
	toggle  key.Binding
	export  key.Binding
	refresh key.Binding
	yes     key.Binding
	no      key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		del:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "move to trash")),
		restore: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restore")),
		purge:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete forever")),
		empty:   key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "empty trash")),
		toggle:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "close/reopen")),
		export:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export all")),
		refresh: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
		yes:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:      key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.enter, k.back, k.refresh},
		{k.del, k.restore, k.purge, k.empty},
		{k.toggle, k.export},
		{k.yes, k.no, k.quit},
	}
}
