package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Scan     key.Binding
	Pane     key.Binding
	History  key.Binding
	Clear    key.Binding
	Settings key.Binding
	Theme    key.Binding
	Retrain  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Scan:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "scan")),
		Pane:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		History:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "history")),
		Clear:    key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "clear history")),
		Settings: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "settings")),
		Theme:    key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "theme")),
		Retrain:  key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "retrain")),
		Help:     key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "help")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Scan, k.Pane, k.Theme, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Scan, k.Pane, k.History, k.Clear},
		{k.Settings, k.Retrain, k.Theme, k.Quit},
	}
}
