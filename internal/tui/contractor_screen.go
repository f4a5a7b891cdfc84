package tui

import (
	"context"
	"fmt"

	"github.com/andy/invoicer/internal/app"
	"github.com/andy/invoicer/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type contractorMode int

const (
	contractorModeView contractorMode = iota
	contractorModeEdit
)

// contractor form field indices
const (
	contractorFieldName = iota
	contractorFieldAddress
	contractorFieldEmail
	contractorFieldPhone
	contractorFieldTaxID
	contractorFieldPersonalTaxID
)

type contractorDataMsg struct {
	contractor *domain.Contractor
	err        error
}

type contractorSavedMsg struct {
	err error
}

// ContractorModel shows and edits the contractor profile
type ContractorModel struct {
	app        *app.App
	contractor *domain.Contractor
	mode       contractorMode
	form       *form
	loading    bool
	autoOpen   bool
	err        error
	statusMsg  string
}

// NewContractorModel creates a new contractor screen
func NewContractorModel(a *app.App) tea.Model {
	return &ContractorModel{app: a, loading: true}
}

// IsCapturingInput returns true when the edit form is active
func (m *ContractorModel) IsCapturingInput() bool {
	return m.mode == contractorModeEdit
}

func (m *ContractorModel) Init() tea.Cmd {
	return m.load()
}

func (m *ContractorModel) load() tea.Cmd {
	return func() tea.Msg {
		c, err := m.app.ContractorService.Get(context.Background())
		if domain.IsNotFound(err) {
			return contractorDataMsg{}
		}
		return contractorDataMsg{contractor: c, err: err}
	}
}

func (m *ContractorModel) openForm() tea.Cmd {
	c := m.contractor
	if c == nil {
		c = &domain.Contractor{}
	}

	m.mode = contractorModeEdit
	m.form = newForm([]formField{
		{label: "Name:", placeholder: "Your business name", value: c.Name},
		{label: "Address:", placeholder: "Street, city", value: c.Address, width: 60},
		{label: "Email:", placeholder: "you@example.com", value: c.Email},
		{label: "Phone:", placeholder: "Optional", value: c.Phone, width: 20},
		{label: "Tax ID:", placeholder: "Optional", value: c.TaxID, width: 24},
		{label: "Personal Tax ID:", placeholder: "Optional", value: c.PersonalTaxID, width: 24},
	})
	return m.form.init()
}

func (m *ContractorModel) save() tea.Cmd {
	c := domain.NewContractor(m.form.value(contractorFieldName))
	c.Address = m.form.value(contractorFieldAddress)
	c.Email = m.form.value(contractorFieldEmail)
	c.Phone = m.form.value(contractorFieldPhone)
	c.TaxID = m.form.value(contractorFieldTaxID)
	c.PersonalTaxID = m.form.value(contractorFieldPersonalTaxID)

	return func() tea.Msg {
		return contractorSavedMsg{err: m.app.ContractorService.Save(context.Background(), c)}
	}
}

func (m *ContractorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case OpenContractorFormMsg:
		if m.loading {
			m.autoOpen = true
			return m, nil
		}
		return m, m.openForm()

	case RefreshDataMsg:
		if m.mode == contractorModeEdit {
			return m, nil
		}
		m.loading = true
		return m, m.load()

	case contractorDataMsg:
		m.loading = false
		m.err = msg.err
		m.contractor = msg.contractor
		if m.autoOpen {
			m.autoOpen = false
			return m, m.openForm()
		}
		return m, nil

	case contractorSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		firstSave := m.contractor == nil
		m.mode = contractorModeView
		m.err = nil
		m.statusMsg = "Profile saved"
		m.loading = true
		if firstSave {
			// continue onboarding with the first client
			return m, tea.Batch(m.load(), func() tea.Msg { return SwitchScreenMsg{Screen: ScreenClients} })
		}
		return m, m.load()
	}

	if m.mode == contractorModeEdit {
		action, cmd := m.form.update(msg)
		switch action {
		case formSubmit:
			return m, m.save()
		case formCancel:
			m.mode = contractorModeView
			m.err = nil
		}
		return m, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok && !m.loading {
		m.statusMsg = ""
		if key.Matches(msg, DefaultKeyMap.Edit) || key.Matches(msg, DefaultKeyMap.Select) {
			return m, m.openForm()
		}
	}

	return m, nil
}

func (m *ContractorModel) View() string {
	if m.loading {
		return "Loading profile..."
	}
	if m.mode == contractorModeEdit {
		return m.viewForm()
	}
	return m.viewProfile()
}

func (m *ContractorModel) viewForm() string {
	var s string
	if m.contractor == nil {
		s += titleStyle.Render("Set up your business profile") + "\n"
		s += subtitleStyle.Render("  These details appear in the From block of every invoice and receipt.") + "\n\n"
	} else {
		s += titleStyle.Render("Edit Profile") + "\n\n"
	}

	s += m.form.view()

	if m.err != nil {
		s += errStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	s += helpStyle.Render(formHelp)
	return s
}

func (m *ContractorModel) viewProfile() string {
	var s string
	s += titleStyle.Render("Contractor") + "\n\n"

	if m.statusMsg != "" {
		s += okStyle.Render("  "+m.statusMsg) + "\n\n"
	}
	if m.err != nil {
		s += errStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	c := m.contractor
	if c == nil {
		s += subtitleStyle.Render("  No profile yet. Press 'e' to set one up.") + "\n"
		return s
	}

	row := func(label, value string) string {
		if value == "" {
			value = subtitleStyle.Render("-")
		}
		return fmt.Sprintf("  %-17s %s\n", label, value)
	}

	s += row("Name:", c.Name)
	s += row("Address:", c.Address)
	s += row("Email:", c.Email)
	s += row("Phone:", c.Phone)
	s += row("Tax ID:", c.TaxID)
	s += row("Personal Tax ID:", c.PersonalTaxID)

	cfg := m.app.Config
	s += "\n" + subtitleStyle.Render("  Storage") + "\n"
	s += row("Database:", cfg.Database.Path)
	s += row("Invoices:", cfg.Output.InvoiceDir)
	s += row("Receipts:", cfg.Output.ReceiptDir)
	s += row("Page size:", cfg.Output.PageSize)

	s += "\n" + helpStyle.Render("  e: edit profile")
	return s
}
