package render

import (
	"context"
	"fmt"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/andy/invoicer/internal/domain"
)

// BlankDate is printed instead of a date when a document leaves it blank
const BlankDate = "________________"

const (
	dateLayout = "2006-01-02"
	rowHeight  = 6.0
)

var (
	titleStyle   = props.Text{Size: 20, Style: fontstyle.Bold, Align: align.Center}
	subtitle     = props.Text{Size: 11, Align: align.Center}
	sectionStyle = props.Text{Size: 11, Style: fontstyle.Bold, Top: 2}
	bodyStyle    = props.Text{Size: 9}
	boldBody     = props.Text{Size: 9, Style: fontstyle.Bold}
	rightBody    = props.Text{Size: 9, Align: align.Right}
	rightBold    = props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}
)

// PDFRenderer lays out invoices and receipts with maroto
type PDFRenderer struct {
	pageSize pagesize.Type
}

// New returns a renderer for the given page size, letter or a4
func New(pageSize string) *PDFRenderer {
	size := pagesize.Letter
	if strings.EqualFold(pageSize, "a4") {
		size = pagesize.A4
	}
	return &PDFRenderer{pageSize: size}
}

func (r *PDFRenderer) newDocument() core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(r.pageSize).
		WithLeftMargin(18).
		WithTopMargin(15).
		WithRightMargin(18).
		Build()
	return maroto.New(cfg)
}

func (r *PDFRenderer) RenderInvoice(ctx context.Context, snap *domain.InvoiceSnapshot, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := r.newDocument()
	m.AddRows(
		text.NewRow(12, "INVOICE", titleStyle),
		text.NewRow(8, "#"+snap.InvoiceNumber, subtitle),
	)
	addParties(m, snap.From, snap.To)

	status := "Pending Payment"
	if snap.Status == domain.InvoiceStatusPaid {
		status = "Paid"
	}
	addDetail(m, "Invoice Date:", displayDate(snap.InvoiceDate.Format(dateLayout), snap.LeaveDateBlank))
	addDetail(m, "Status:", status)
	if snap.ReceiptNumber != "" {
		addDetail(m, "Receipt:", snap.ReceiptNumber)
	}

	m.AddRows(text.NewRow(10, "SERVICE DETAILS", sectionStyle), line.NewRow(2))
	addItems(m, snap.LineItems)
	addTotal(m, "TOTAL DUE:", snap.Total)

	footer := "Thank you for your business! Please remit payment by the due date."
	if snap.Status == domain.InvoiceStatusPaid {
		footer = "Thank you for your business! This invoice has been paid in full."
	}
	m.AddRows(text.NewRow(12, footer, props.Text{Size: 9, Top: 4}))

	return save(m, path)
}

func (r *PDFRenderer) RenderReceipt(ctx context.Context, snap *domain.ReceiptSnapshot, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := r.newDocument()
	m.AddRows(
		text.NewRow(12, "PAYMENT RECEIPT", titleStyle),
		text.NewRow(8, "#"+snap.ReceiptNumber, subtitle),
	)
	addParties(m, snap.From, snap.To)

	services := "Services Rendered"
	if n := len(snap.LineItems); n > 0 {
		services = fmt.Sprintf("%d item(s)", n)
	}
	addDetail(m, "Payment Date:", displayDate(snap.PaymentDate.Format(dateLayout), snap.LeaveDateBlank))
	addDetail(m, "Invoice Number:", snap.InvoiceNumber)
	addDetail(m, "Services:", services)

	if len(snap.LineItems) > 0 {
		m.AddRows(text.NewRow(10, "SERVICES PROVIDED", sectionStyle), line.NewRow(2))
		addItems(m, snap.LineItems)
	}
	addTotal(m, "AMOUNT RECEIVED:", snap.PaidAmount)

	m.AddRows(
		text.NewRow(10, "PAYMENT CONFIRMATION", sectionStyle),
		line.NewRow(2),
		text.NewRow(12, fmt.Sprintf(
			"I, %s, hereby confirm that I have received the payment of %s in full from %s for the services rendered as described above.",
			snap.From.Name, money(snap.PaidAmount), snap.To.Name,
		), bodyStyle),
		text.NewRow(6, "Thank you for your payment!", boldBody),
		text.NewRow(6, "This receipt serves as proof of payment.", bodyStyle),
	)

	return save(m, path)
}

func save(m core.Maroto, path string) error {
	doc, err := m.Generate()
	if err != nil {
		return fmt.Errorf("failed to generate pdf: %w", err)
	}
	if err := doc.Save(path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// addParties prints the FROM and TO blocks side by side
func addParties(m core.Maroto, from, to domain.Party) {
	m.AddRow(10,
		text.NewCol(6, "FROM:", sectionStyle),
		text.NewCol(6, "TO:", sectionStyle),
	)

	left, right := partyLines(from), partyLines(to)
	n := max(len(left), len(right))
	for i := 0; i < n; i++ {
		style := bodyStyle
		if i == 0 {
			style = boldBody
		}
		m.AddRow(5,
			text.NewCol(6, lineAt(left, i), style),
			text.NewCol(6, lineAt(right, i), style),
		)
	}
	m.AddRows(line.NewRow(4))
}

func partyLines(p domain.Party) []string {
	lines := []string{p.Name}
	for _, l := range strings.Split(p.Address, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}

	labelled := []struct{ label, value string }{
		{"Email", p.Email},
		{"Phone", p.Phone},
		{"Tax ID", p.TaxID},
		{"Personal Tax ID", p.PersonalTaxID},
	}
	for _, f := range labelled {
		if f.value != "" {
			lines = append(lines, f.label+": "+f.value)
		}
	}
	return lines
}

func lineAt(lines []string, i int) string {
	if i < len(lines) {
		return lines[i]
	}
	return ""
}

func addDetail(m core.Maroto, label, value string) {
	m.AddRow(rowHeight,
		text.NewCol(3, label, boldBody),
		text.NewCol(9, value, bodyStyle),
	)
}

func addItems(m core.Maroto, items []domain.LineItem) {
	m.AddRow(rowHeight+1,
		text.NewCol(3, "Service", boldBody),
		text.NewCol(4, "Description", boldBody),
		text.NewCol(1, "Qty", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Rate", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
	)

	for _, item := range items {
		m.AddRow(rowHeight,
			text.NewCol(3, item.ServiceName, bodyStyle),
			text.NewCol(4, item.ServiceDescription, bodyStyle),
			text.NewCol(1, fmt.Sprintf("%d", item.Quantity), rightBody),
			text.NewCol(2, money(item.Rate), rightBody),
			text.NewCol(2, money(item.Amount), rightBody),
		)
	}
	m.AddRows(line.NewRow(3))
}

func addTotal(m core.Maroto, label string, amount float64) {
	m.AddRow(8,
		text.NewCol(8, label, rightBold),
		text.NewCol(4, money(amount)+" only", rightBold),
	)
}

func displayDate(date string, blank bool) string {
	if blank {
		return BlankDate
	}
	return date
}

func money(v float64) string {
	return "$" + domain.FormatMoney(v)
}
