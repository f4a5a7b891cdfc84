package tui

import (
	"context"
	"fmt"

	"github.com/andy/invoicer/internal/app"
	"github.com/andy/invoicer/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// clientMode represents the current screen mode
type clientMode int

const (
	clientModeList clientMode = iota
	clientModeNew
	clientModeEdit
	clientModeConfirmDelete
)

// client form field indices
const (
	fieldName = iota
	fieldAddress
	fieldEmail
	fieldPhone
)

// ClientsModel displays a navigable list of clients with create/edit forms
type ClientsModel struct {
	app       *app.App
	clients   []*domain.Client
	cursor    int
	loading   bool
	err       error
	statusMsg string

	mode          clientMode
	form          *form
	editingID     int64 // 0 for new client
	autoNewClient bool  // open new client form after data loads
}

type clientsDataMsg struct {
	clients []*domain.Client
	err     error
}

type clientSavedMsg struct {
	name string
	err  error
}

type clientDeletedMsg struct {
	name string
	err  error
}

// NewClientsModel creates a new clients screen model
func NewClientsModel(a *app.App) tea.Model {
	return &ClientsModel{app: a, loading: true}
}

// IsCapturingInput returns true when the form or a confirmation is active
func (m *ClientsModel) IsCapturingInput() bool {
	return m.mode != clientModeList
}

func (m *ClientsModel) Init() tea.Cmd {
	return m.loadClients()
}

func (m *ClientsModel) loadClients() tea.Cmd {
	return func() tea.Msg {
		clients, err := m.app.ClientService.List(context.Background())
		return clientsDataMsg{clients: clients, err: err}
	}
}

func (m *ClientsModel) openForm(editing *domain.Client) tea.Cmd {
	c := &domain.Client{}
	m.mode = clientModeNew
	m.editingID = 0
	if editing != nil {
		c = editing
		m.mode = clientModeEdit
		m.editingID = editing.ID
	}

	m.form = newForm([]formField{
		{label: "Name:", placeholder: "Client name", value: c.Name},
		{label: "Address:", placeholder: "Street, city", value: c.Address, width: 60},
		{label: "Email:", placeholder: "billing@example.com", value: c.Email},
		{label: "Phone:", placeholder: "Optional", value: c.Phone, width: 20},
	})
	return m.form.init()
}

func (m *ClientsModel) saveClient() tea.Cmd {
	name := m.form.value(fieldName)
	address := m.form.value(fieldAddress)
	email := m.form.value(fieldEmail)
	phone := m.form.value(fieldPhone)
	editingID := m.editingID

	return func() tea.Msg {
		ctx := context.Background()

		if editingID > 0 {
			client, err := m.app.ClientService.Get(ctx, editingID)
			if err != nil {
				return clientSavedMsg{err: err}
			}
			client.Name, client.Address, client.Email, client.Phone = name, address, email, phone

			if err := m.app.ClientService.Update(ctx, client); err != nil {
				return clientSavedMsg{err: err}
			}
			return clientSavedMsg{name: client.Name}
		}

		client := domain.NewClient(name)
		client.Address, client.Email, client.Phone = address, email, phone

		if err := m.app.ClientService.Create(ctx, client); err != nil {
			return clientSavedMsg{err: err}
		}
		return clientSavedMsg{name: client.Name}
	}
}

func (m *ClientsModel) deleteClient(client *domain.Client) tea.Cmd {
	return func() tea.Msg {
		err := m.app.ClientService.Delete(context.Background(), client.ID)
		return clientDeletedMsg{name: client.Name, err: err}
	}
}

func (m *ClientsModel) selected() *domain.Client {
	if m.cursor < len(m.clients) {
		return m.clients[m.cursor]
	}
	return nil
}

func (m *ClientsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle OpenNewClientFormMsg at the top so it works regardless of mode
	if _, ok := msg.(OpenNewClientFormMsg); ok {
		if m.loading {
			m.autoNewClient = true
			return m, nil
		}
		return m, m.openForm(nil)
	}

	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.loading = true
		return m, m.loadClients()

	case clientsDataMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.clients = msg.clients
			if m.cursor >= len(m.clients) {
				m.cursor = max(0, len(m.clients)-1)
			}
		}
		if m.autoNewClient {
			m.autoNewClient = false
			return m, m.openForm(nil)
		}
		return m, nil

	case clientSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.mode = clientModeList
		m.err = nil
		m.statusMsg = fmt.Sprintf("Saved: %s", msg.name)
		m.loading = true
		return m, m.loadClients()

	case clientDeletedMsg:
		m.mode = clientModeList
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("Deleted: %s", msg.name)
		m.loading = true
		return m, m.loadClients()
	}

	switch m.mode {
	case clientModeNew, clientModeEdit:
		action, cmd := m.form.update(msg)
		switch action {
		case formSubmit:
			return m, m.saveClient()
		case formCancel:
			m.mode = clientModeList
			m.err = nil
		}
		return m, cmd

	case clientModeConfirmDelete:
		if msg, ok := msg.(tea.KeyMsg); ok {
			if key.Matches(msg, DefaultKeyMap.Confirm) {
				if c := m.selected(); c != nil {
					return m, m.deleteClient(c)
				}
			}
			m.mode = clientModeList
		}
		return m, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.loading {
			return m, nil
		}

		m.statusMsg = ""
		m.err = nil

		switch {
		case key.Matches(msg, DefaultKeyMap.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, DefaultKeyMap.Down):
			if m.cursor < len(m.clients)-1 {
				m.cursor++
			}
		case key.Matches(msg, DefaultKeyMap.New):
			return m, m.openForm(nil)
		case key.Matches(msg, DefaultKeyMap.Select), key.Matches(msg, DefaultKeyMap.Edit):
			if c := m.selected(); c != nil {
				return m, m.openForm(c)
			}
		case key.Matches(msg, DefaultKeyMap.Delete):
			if m.selected() != nil {
				m.mode = clientModeConfirmDelete
			}
		}
	}

	return m, nil
}

func (m *ClientsModel) View() string {
	switch m.mode {
	case clientModeNew, clientModeEdit:
		return m.viewForm()
	}
	return m.viewList()
}

func (m *ClientsModel) viewForm() string {
	var s string

	if m.mode == clientModeNew {
		if len(m.clients) == 0 {
			s += titleStyle.Render("Add your first client") + "\n"
			s += subtitleStyle.Render("  Invoices are billed to a client from this list.") + "\n\n"
		} else {
			s += titleStyle.Render("New Client") + "\n\n"
		}
	} else {
		s += titleStyle.Render("Edit Client") + "\n\n"
	}

	s += m.form.view()

	if m.err != nil {
		s += errStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	s += helpStyle.Render(formHelp)
	return s
}

func (m *ClientsModel) viewList() string {
	if m.loading {
		return "Loading clients..."
	}

	var s string
	s += titleStyle.Render("Clients") + "\n\n"

	if m.statusMsg != "" {
		s += okStyle.Render("  "+m.statusMsg) + "\n\n"
	}
	if m.err != nil {
		s += errStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	if len(m.clients) == 0 {
		s += subtitleStyle.Render("  No clients yet. Press 'n' to add one.") + "\n"
		return s
	}

	for i, client := range m.clients {
		s += m.renderClient(i, client) + "\n"
	}

	if m.mode == clientModeConfirmDelete {
		s += "\n" + pendingStyle.Render(fmt.Sprintf("  Delete %s? y to confirm, any other key to cancel", m.selected().Name))
		return s
	}

	s += "\n" + helpStyle.Render("  j/k: navigate  n: new  enter/e: edit  d: delete")
	return s
}

func (m *ClientsModel) renderClient(index int, client *domain.Client) string {
	selected := index == m.cursor

	indicator := "  "
	if selected {
		indicator = "> "
	}

	line1 := fmt.Sprintf("%s%s", indicator, client.Name)

	contact := client.Email
	if client.Phone != "" {
		if contact != "" {
			contact += "  |  "
		}
		contact += client.Phone
	}

	nameStyle := lipgloss.NewStyle()
	if selected {
		nameStyle = nameStyle.Bold(true).Foreground(primaryColor)
	}

	result := nameStyle.Render(line1)
	if contact != "" {
		result += "\n" + subtitleStyle.Render("    "+contact)
	}
	return result
}
