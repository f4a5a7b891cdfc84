package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit key.Binding
	Back key.Binding

	// Navigation
	Overview   key.Binding
	Clients    key.Binding
	Invoices   key.Binding
	Receipts   key.Binding
	Contractor key.Binding

	// Actions
	Select   key.Binding
	New      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	MarkPaid key.Binding
	Export   key.Binding
	Confirm  key.Binding

	// Movement
	Up   key.Binding
	Down key.Binding
}

var DefaultKeyMap = KeyMap{
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Back:       key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
	Overview:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "overview")),
	Clients:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clients")),
	Invoices:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "invoices")),
	Receipts:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "receipts")),
	Contractor: key.NewBinding(key.WithKeys(","), key.WithHelp(",", "contractor")),
	Select:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	New:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
	Edit:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	MarkPaid:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "mark paid")),
	Export:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "export pdf")),
	Confirm:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm")),
	Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
}
