package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

type listKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Prev   key.Binding
	Next   key.Binding
	Search key.Binding
	Toggle key.Binding
	Reload key.Binding
	Quit   key.Binding
}

func (k listKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Prev, k.Next, k.Search, k.Toggle, k.Reload, k.Quit}
}

func (k listKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var listKeys = listKeyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Prev:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "prev page")),
	Next:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next page")),
	Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Toggle: key.NewBinding(key.WithKeys(" ", "d"), key.WithHelp("space/d", "toggle status")),
	Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

type calendarKeyMap struct {
	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
	PrevMonth key.Binding
	NextMonth key.Binding
	Today     key.Binding
	Quit      key.Binding
}

func (k calendarKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Up, k.Down, k.PrevMonth, k.NextMonth, k.Today, k.Quit}
}

func (k calendarKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var calendarKeys = calendarKeyMap{
	Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "prev day")),
	Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next day")),
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "prev week")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "next week")),
	PrevMonth: key.NewBinding(key.WithKeys("[", "pgup"), key.WithHelp("[", "prev month")),
	NextMonth: key.NewBinding(key.WithKeys("]", "pgdown"), key.WithHelp("]", "next month")),
	Today:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
	Quit:      key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}
