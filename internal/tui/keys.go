package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle  key.Binding
	Comment key.Binding
	Summary key.Binding
	Next    key.Binding
	History key.Binding
	Back    key.Binding
	Open    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle:  key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "start/pause")),
		Comment: key.NewBinding(key.WithKeys("c", "up"), key.WithHelp("c", "comment")),
		Summary: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "summary")),
		Next:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next talk")),
		History: key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "history")),
		Back:    key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) timerHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Comment, k.Summary, k.Next, k.History, k.Quit}
}

func (k keyMap) summaryHelp() []key.Binding {
	return []key.Binding{k.Back, k.Next, k.History, k.Quit}
}

func (k keyMap) archivedHelp() []key.Binding {
	return []key.Binding{k.Back, k.Quit}
}

func (k keyMap) historyHelp() []key.Binding {
	return []key.Binding{k.Open, k.Back, k.Quit}
}
