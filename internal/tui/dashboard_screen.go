package tui

import (
	"context"
	"fmt"

	"github.com/andy/invoicer/internal/app"
	"github.com/andy/invoicer/internal/service"
	tea "github.com/charmbracelet/bubbletea"
)

// OverviewModel is the home screen: totals plus recent invoices and receipts
type OverviewModel struct {
	app       *app.App
	dashboard *service.Dashboard
	loading   bool
	err       error
}

type overviewDataMsg struct {
	dashboard *service.Dashboard
	err       error
}

// NewOverviewModel creates a new overview model
func NewOverviewModel(a *app.App) tea.Model {
	return &OverviewModel{app: a, loading: true}
}

func (m *OverviewModel) Init() tea.Cmd {
	return m.loadData()
}

func (m *OverviewModel) loadData() tea.Cmd {
	return func() tea.Msg {
		d, err := m.app.ReportService.Dashboard(context.Background())
		return overviewDataMsg{dashboard: d, err: err}
	}
}

func (m *OverviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case overviewDataMsg:
		m.loading = false
		m.err = msg.err
		m.dashboard = msg.dashboard
		return m, nil

	case RefreshDataMsg:
		m.loading = true
		return m, m.loadData()
	}

	return m, nil
}

func (m *OverviewModel) View() string {
	if m.loading {
		return "Loading overview..."
	}

	if m.err != nil {
		return errStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	d := m.dashboard
	var s string

	if !d.ContractorSetUp {
		s += pendingStyle.Render("  No contractor profile yet. Press ',' to set one up.") + "\n\n"
	}

	s += fmt.Sprintf(
		"  Invoices:  %-5d  Pending:   %-4d %s\n  Clients:   %-5d  Paid:      %-4d %s\n  Receipts:  %-5d  Last 30d:  %d\n",
		d.Invoices.TotalCount, d.Invoices.PendingCount, formatMoney(d.Invoices.PendingAmount),
		d.ClientCount, d.Invoices.PaidCount, formatMoney(d.Invoices.PaidAmount),
		d.Receipts.TotalReceipts, d.Receipts.RecentReceipts,
	)

	s += "\n  Recent Invoices\n"
	if len(d.RecentInvoices) == 0 {
		s += subtitleStyle.Render("  No invoices yet") + "\n"
	}
	for _, inv := range d.RecentInvoices {
		s += fmt.Sprintf("  %-10s %-20s %12s  %s\n",
			inv.InvoiceNumber,
			truncateStr(inv.ClientName, 20),
			formatMoney(inv.Total),
			renderStatus(inv.Status),
		)
	}

	s += "\n  Recent Receipts\n"
	if len(d.RecentReceipts) == 0 {
		s += subtitleStyle.Render("  No receipts yet") + "\n"
	}
	for _, r := range d.RecentReceipts {
		s += fmt.Sprintf("  %-10s %-10s %-20s %12s  %s\n",
			r.ReceiptNumber,
			r.InvoiceNumber,
			truncateStr(r.ClientName, 20),
			formatMoney(r.PaidAmount),
			r.PaymentDate.Local().Format("Jan 2"),
		)
	}

	return s
}
