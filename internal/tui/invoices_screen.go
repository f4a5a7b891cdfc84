package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/andy/invoicer/internal/app"
	"github.com/andy/invoicer/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type invoiceMode int

const (
	invoiceModeList invoiceMode = iota
	invoiceModeDetail
	invoiceModeConfirmPaid
	invoiceModeConfirmDelete
)

// statusFilters cycles with 's': all, pending, paid
var statusFilters = []*domain.InvoiceStatus{nil, ptr(domain.InvoiceStatusPending), ptr(domain.InvoiceStatusPaid)}

func ptr[T any](v T) *T { return &v }

// InvoicesModel lists invoices and acts on the selected one
type InvoicesModel struct {
	app       *app.App
	invoices  []*domain.InvoiceSummary
	cursor    int
	filterIdx int
	loading   bool
	err       error
	statusMsg string

	mode   invoiceMode
	detail *domain.Invoice
}

type invoicesDataMsg struct {
	invoices []*domain.InvoiceSummary
	err      error
}

type invoiceDetailMsg struct {
	invoice *domain.Invoice
	err     error
}

type invoiceActionMsg struct {
	status string
	err    error
}

// NewInvoicesModel creates a new invoices screen model
func NewInvoicesModel(a *app.App) tea.Model {
	return &InvoicesModel{app: a, loading: true}
}

// IsCapturingInput is true while a y/n confirmation is shown
func (m *InvoicesModel) IsCapturingInput() bool {
	return m.mode == invoiceModeConfirmPaid || m.mode == invoiceModeConfirmDelete
}

func (m *InvoicesModel) Init() tea.Cmd {
	return m.loadInvoices()
}

func (m *InvoicesModel) loadInvoices() tea.Cmd {
	filter := domain.InvoiceFilter{Status: statusFilters[m.filterIdx]}
	return func() tea.Msg {
		invoices, err := m.app.InvoiceService.List(context.Background(), filter)
		return invoicesDataMsg{invoices: invoices, err: err}
	}
}

func (m *InvoicesModel) loadDetail(number string) tea.Cmd {
	return func() tea.Msg {
		inv, err := m.app.InvoiceService.Get(context.Background(), number)
		return invoiceDetailMsg{invoice: inv, err: err}
	}
}

func (m *InvoicesModel) markPaid(number string) tea.Cmd {
	return func() tea.Msg {
		receipt, err := m.app.InvoiceService.MarkPaid(context.Background(), number)
		if err != nil {
			return invoiceActionMsg{err: err}
		}
		return invoiceActionMsg{status: fmt.Sprintf("%s paid, receipt %s issued", number, receipt.ReceiptNumber)}
	}
}

func (m *InvoicesModel) deleteInvoice(number string) tea.Cmd {
	return func() tea.Msg {
		if err := m.app.InvoiceService.Delete(context.Background(), number); err != nil {
			return invoiceActionMsg{err: err}
		}
		return invoiceActionMsg{status: fmt.Sprintf("Deleted: %s", number)}
	}
}

func (m *InvoicesModel) export(number string) tea.Cmd {
	return func() tea.Msg {
		path, err := m.app.DocumentService.ExportInvoice(context.Background(), number, "")
		return exportedMsg{path: path, err: err}
	}
}

func (m *InvoicesModel) selected() *domain.InvoiceSummary {
	if m.cursor < len(m.invoices) {
		return m.invoices[m.cursor]
	}
	return nil
}

func (m *InvoicesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.loading = true
		return m, m.loadInvoices()

	case invoicesDataMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.invoices = msg.invoices
			if m.cursor >= len(m.invoices) {
				m.cursor = max(0, len(m.invoices)-1)
			}
		}
		return m, nil

	case invoiceDetailMsg:
		m.err = msg.err
		if msg.err == nil {
			m.detail = msg.invoice
			m.mode = invoiceModeDetail
		}
		return m, nil

	case invoiceActionMsg:
		m.mode = invoiceModeList
		m.detail = nil
		m.err = msg.err
		m.statusMsg = msg.status
		m.loading = true
		return m, m.loadInvoices()

	case exportedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.statusMsg = "Saved: " + msg.path
		}
		return m, nil

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *InvoicesModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	inv := m.selected()

	switch m.mode {
	case invoiceModeConfirmPaid, invoiceModeConfirmDelete:
		mode := m.mode
		m.mode = invoiceModeList
		if inv == nil || !key.Matches(msg, DefaultKeyMap.Confirm) {
			return m, nil
		}
		if mode == invoiceModeConfirmPaid {
			return m, m.markPaid(inv.InvoiceNumber)
		}
		return m, m.deleteInvoice(inv.InvoiceNumber)

	case invoiceModeDetail:
		if key.Matches(msg, DefaultKeyMap.Back) {
			m.mode = invoiceModeList
			m.detail = nil
			return m, nil
		}
	}

	m.statusMsg = ""
	m.err = nil

	switch {
	case key.Matches(msg, DefaultKeyMap.Up):
		if m.mode == invoiceModeList && m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, DefaultKeyMap.Down):
		if m.mode == invoiceModeList && m.cursor < len(m.invoices)-1 {
			m.cursor++
		}
	case msg.String() == "s":
		m.filterIdx = (m.filterIdx + 1) % len(statusFilters)
		m.cursor = 0
		m.mode = invoiceModeList
		m.loading = true
		return m, m.loadInvoices()
	case key.Matches(msg, DefaultKeyMap.Select):
		if inv != nil {
			return m, m.loadDetail(inv.InvoiceNumber)
		}
	case key.Matches(msg, DefaultKeyMap.MarkPaid):
		if inv != nil && inv.Status == domain.InvoiceStatusPending {
			m.mode = invoiceModeConfirmPaid
		}
	case key.Matches(msg, DefaultKeyMap.Delete):
		if inv != nil && inv.Status == domain.InvoiceStatusPending {
			m.mode = invoiceModeConfirmDelete
		}
	case key.Matches(msg, DefaultKeyMap.Export):
		if inv != nil {
			m.statusMsg = "Rendering PDF..."
			return m, m.export(inv.InvoiceNumber)
		}
	}

	return m, nil
}

func (m *InvoicesModel) View() string {
	if m.loading {
		return "Loading invoices..."
	}
	if m.mode == invoiceModeDetail && m.detail != nil {
		return m.viewDetail()
	}
	return m.viewList()
}

func (m *InvoicesModel) filterLabel() string {
	if f := statusFilters[m.filterIdx]; f != nil {
		return string(*f)
	}
	return "all"
}

func (m *InvoicesModel) viewList() string {
	var s string
	s += titleStyle.Render("Invoices") + subtitleStyle.Render("  ("+m.filterLabel()+")") + "\n\n"

	if m.statusMsg != "" {
		s += okStyle.Render("  "+m.statusMsg) + "\n\n"
	}
	if m.err != nil {
		s += errStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	if len(m.invoices) == 0 {
		s += subtitleStyle.Render("  No invoices. Create one with 'invoicer invoices create'.") + "\n"
		return s
	}

	for i, inv := range m.invoices {
		indicator := "  "
		rowStyle := lipgloss.NewStyle()
		if i == m.cursor {
			indicator = "> "
			rowStyle = rowStyle.Bold(true).Foreground(primaryColor)
		}
		row := fmt.Sprintf("%s%-10s %-12s %-18s %-24s %12s",
			indicator,
			inv.InvoiceNumber,
			inv.InvoiceDate.Format("2006-01-02"),
			truncateStr(inv.ClientName, 18),
			truncateStr(inv.Services, 24),
			formatMoney(inv.Total),
		)
		s += rowStyle.Render(row) + "  " + renderStatus(inv.Status)
		if inv.ReceiptNumber != "" {
			s += subtitleStyle.Render("  " + inv.ReceiptNumber)
		}
		s += "\n"
	}

	switch m.mode {
	case invoiceModeConfirmPaid:
		s += "\n" + pendingStyle.Render(fmt.Sprintf("  Mark %s as paid and issue a receipt? y to confirm", m.selected().InvoiceNumber))
	case invoiceModeConfirmDelete:
		s += "\n" + pendingStyle.Render(fmt.Sprintf("  Delete %s? y to confirm", m.selected().InvoiceNumber))
	default:
		s += "\n" + helpStyle.Render("  j/k: navigate  enter: details  p: mark paid  d: delete  f: export pdf  s: filter")
	}
	return s
}

func (m *InvoicesModel) viewDetail() string {
	inv := m.detail
	var s string

	s += titleStyle.Render("Invoice "+inv.InvoiceNumber) + "  " + renderStatus(inv.Status) + "\n\n"

	if m.statusMsg != "" {
		s += okStyle.Render("  "+m.statusMsg) + "\n\n"
	}
	if m.err != nil {
		s += errStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	clientName := fmt.Sprintf("Client #%d", inv.ClientID)
	if inv.Client != nil {
		clientName = inv.Client.Name
	}
	date := inv.InvoiceDate.Format("2006-01-02")
	if inv.LeaveDateBlank {
		date += subtitleStyle.Render(" (printed blank)")
	}

	s += fmt.Sprintf("  Client:  %s\n  Date:    %s\n", clientName, date)
	if inv.ReceiptNumber != "" {
		s += fmt.Sprintf("  Receipt: %s\n", inv.ReceiptNumber)
	}
	s += "\n"

	s += subtitleStyle.Render(fmt.Sprintf("  %-20s %-26s %5s %11s %12s", "Service", "Description", "Qty", "Rate", "Amount")) + "\n"
	s += subtitleStyle.Render("  "+strings.Repeat("-", 78)) + "\n"
	for _, item := range inv.LineItems {
		s += fmt.Sprintf("  %-20s %-26s %5d %11s %12s\n",
			truncateStr(item.ServiceName, 20),
			truncateStr(item.ServiceDescription, 26),
			item.Quantity,
			formatMoney(item.Rate),
			formatMoney(item.Amount),
		)
	}
	s += subtitleStyle.Render("  "+strings.Repeat("-", 78)) + "\n"
	s += fmt.Sprintf("  %66s %12s\n", "Total", formatMoney(inv.Total))

	s += "\n" + helpStyle.Render("  esc: back  p: mark paid  d: delete  f: export pdf")
	return s
}
