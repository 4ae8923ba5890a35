package tui

import "github.com/charmbracelet/bubbles/key"

type keymap struct {
	Add, Complete, Clean, Refresh, Ask, Plan, History, Quit key.Binding
}

func defaultKeymap() keymap {
	return keymap{
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Complete: key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "done")),
		Clean:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove completed")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Ask:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "ask AI")),
		Plan:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "weekly plan")),
		History:  key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "history")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keymap) extra() []key.Binding {
	return []key.Binding{k.Add, k.Complete, k.Clean, k.Refresh, k.Ask, k.Plan, k.History}
}
