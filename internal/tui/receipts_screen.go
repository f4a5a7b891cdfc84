package tui

import (
	"context"
	"fmt"

	"github.com/andy/invoicer/internal/app"
	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/render"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ReceiptsModel lists receipts and shows one at a time
type ReceiptsModel struct {
	app       *app.App
	receipts  []*domain.ReceiptSummary
	stats     *domain.ReceiptStats
	cursor    int
	detail    *domain.ReceiptSnapshot
	loading   bool
	err       error
	statusMsg string
}

type receiptsDataMsg struct {
	receipts []*domain.ReceiptSummary
	stats    *domain.ReceiptStats
	err      error
}

type receiptDetailMsg struct {
	snap *domain.ReceiptSnapshot
	err  error
}

// NewReceiptsModel creates a new receipts screen model
func NewReceiptsModel(a *app.App) tea.Model {
	return &ReceiptsModel{app: a, loading: true}
}

func (m *ReceiptsModel) Init() tea.Cmd {
	return m.loadData()
}

func (m *ReceiptsModel) loadData() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		receipts, err := m.app.ReceiptService.List(ctx)
		if err != nil {
			return receiptsDataMsg{err: err}
		}
		stats, err := m.app.ReceiptService.Stats(ctx)
		return receiptsDataMsg{receipts: receipts, stats: stats, err: err}
	}
}

func (m *ReceiptsModel) loadDetail(number string) tea.Cmd {
	return func() tea.Msg {
		snap, err := m.app.DocumentService.ReceiptSnapshot(context.Background(), number)
		return receiptDetailMsg{snap: snap, err: err}
	}
}

func (m *ReceiptsModel) export(number string) tea.Cmd {
	return func() tea.Msg {
		path, err := m.app.DocumentService.ExportReceipt(context.Background(), number, "")
		return exportedMsg{path: path, err: err}
	}
}

func (m *ReceiptsModel) selected() *domain.ReceiptSummary {
	if m.cursor < len(m.receipts) {
		return m.receipts[m.cursor]
	}
	return nil
}

func (m *ReceiptsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.loading = true
		m.detail = nil
		return m, m.loadData()

	case receiptsDataMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.receipts = msg.receipts
			m.stats = msg.stats
			if m.cursor >= len(m.receipts) {
				m.cursor = max(0, len(m.receipts)-1)
			}
		}
		return m, nil

	case receiptDetailMsg:
		m.err = msg.err
		m.detail = msg.snap
		return m, nil

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

		m.statusMsg = ""
		m.err = nil
		r := m.selected()

		switch {
		case key.Matches(msg, DefaultKeyMap.Back):
			m.detail = nil
		case key.Matches(msg, DefaultKeyMap.Up):
			if m.detail == nil && m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, DefaultKeyMap.Down):
			if m.detail == nil && m.cursor < len(m.receipts)-1 {
				m.cursor++
			}
		case key.Matches(msg, DefaultKeyMap.Select):
			if r != nil {
				return m, m.loadDetail(r.ReceiptNumber)
			}
		case key.Matches(msg, DefaultKeyMap.Export):
			if r != nil {
				m.statusMsg = "Rendering PDF..."
				return m, m.export(r.ReceiptNumber)
			}
		}
	}

	return m, nil
}

func (m *ReceiptsModel) View() string {
	if m.loading {
		return "Loading receipts..."
	}
	if m.detail != nil {
		return m.viewDetail()
	}
	return m.viewList()
}

func (m *ReceiptsModel) viewList() string {
	var s string
	s += titleStyle.Render("Receipts") + "\n"
	if m.stats != nil {
		s += subtitleStyle.Render(fmt.Sprintf("  %d receipts, %s received, %d in the last 30 days",
			m.stats.TotalReceipts, formatMoney(m.stats.TotalReceived), m.stats.RecentReceipts)) + "\n"
	}
	s += "\n"

	if m.statusMsg != "" {
		s += okStyle.Render("  "+m.statusMsg) + "\n\n"
	}
	if m.err != nil {
		s += errStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	if len(m.receipts) == 0 {
		s += subtitleStyle.Render("  No receipts yet. Mark an invoice paid to issue one.") + "\n"
		return s
	}

	for i, r := range m.receipts {
		indicator := "  "
		rowStyle := lipgloss.NewStyle()
		if i == m.cursor {
			indicator = "> "
			rowStyle = rowStyle.Bold(true).Foreground(primaryColor)
		}
		s += rowStyle.Render(fmt.Sprintf("%s%-10s %-10s %-18s %-24s %12s  %s",
			indicator,
			r.ReceiptNumber,
			r.InvoiceNumber,
			truncateStr(r.ClientName, 18),
			truncateStr(r.Services, 24),
			formatMoney(r.PaidAmount),
			r.PaymentDate.Local().Format("2006-01-02"),
		)) + "\n"
	}

	s += "\n" + helpStyle.Render("  j/k: navigate  enter: details  f: export pdf")
	return s
}

func (m *ReceiptsModel) viewDetail() string {
	r := m.detail
	var s string

	s += titleStyle.Render("Receipt "+r.ReceiptNumber) + "\n\n"

	if m.statusMsg != "" {
		s += okStyle.Render("  "+m.statusMsg) + "\n\n"
	}
	if m.err != nil {
		s += errStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	date := r.PaymentDate.Format("2006-01-02 15:04")
	if r.LeaveDateBlank {
		date = render.BlankDate + subtitleStyle.Render("  ("+date+")")
	}

	s += fmt.Sprintf("  Invoice:   %s (%s)\n", r.InvoiceNumber, formatMoney(r.InvoiceTotal))
	s += fmt.Sprintf("  From:      %s\n", r.From.Name)
	s += fmt.Sprintf("  To:        %s\n", r.To.Name)
	s += fmt.Sprintf("  Paid on:   %s\n", date)
	s += fmt.Sprintf("  Received:  %s\n\n", paidStyle.Render(formatMoney(r.PaidAmount)))

	for _, item := range r.LineItems {
		s += fmt.Sprintf("  - %s x%d  %s\n", item.ServiceName, item.Quantity, formatMoney(item.Amount))
	}

	s += "\n" + helpStyle.Render("  esc: back  f: export pdf")
	return s
}
