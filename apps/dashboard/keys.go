package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit       key.Binding
	SwitchPage key.Binding
	SignOut    key.Binding
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding

	// Tasks page
	Add            key.Binding
	Edit           key.Binding
	Toggle         key.Binding
	Delete         key.Binding
	Search         key.Binding
	FilterStatus   key.Binding
	FilterPriority key.Binding
	FilterSubject  key.Binding
	FilterDue      key.Binding
	ClearFilters   key.Binding

	// Planner page
	PrevMonth key.Binding
	NextMonth key.Binding
	Today     key.Binding
	PrevTask  key.Binding
	NextTask  key.Binding
	PickUp    key.Binding
	Drop      key.Binding
	Export    key.Binding
}

var keys = keyMap{
	Quit:       key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	SwitchPage: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "tasks/planner")),
	SignOut:    key.NewBinding(key.WithKeys("O"), key.WithHelp("O", "sign out")),
	Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev day")),
	Right:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next day")),

	Add:            key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Edit:           key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Toggle:         key.NewBinding(key.WithKeys(" ", "c"), key.WithHelp("space", "toggle")),
	Delete:         key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
	Search:         key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	FilterStatus:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "status")),
	FilterPriority: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "priority")),
	FilterSubject:  key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "subject")),
	FilterDue:      key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "due")),
	ClearFilters:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset filters")),

	PrevMonth: key.NewBinding(key.WithKeys("[", "<"), key.WithHelp("[", "prev month")),
	NextMonth: key.NewBinding(key.WithKeys("]", ">"), key.WithHelp("]", "next month")),
	Today:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
	PrevTask:  key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "prev task")),
	NextTask:  key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "next task")),
	PickUp:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "pick up task")),
	Drop:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop task")),
	Export:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export .ics")),
}

func (k keyMap) tasksHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Add, k.Edit, k.Toggle, k.Delete, k.Search,
		k.FilterStatus, k.FilterPriority, k.FilterSubject, k.FilterDue, k.ClearFilters, k.SwitchPage, k.SignOut, k.Quit}
}

func (k keyMap) plannerHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Up, k.Down, k.PrevMonth, k.NextMonth, k.Today,
		k.PrevTask, k.NextTask, k.PickUp, k.Drop, k.Export, k.SwitchPage, k.SignOut, k.Quit}
}
