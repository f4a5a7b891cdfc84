package render

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/andy/invoicer/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleParties() (domain.Party, domain.Party) {
	from := domain.Party{Name: "Jane Doe", Address: "1 Main St\nSpringfield", Email: "jane@example.com", TaxID: "12-3456789"}
	to := domain.Party{Name: "Acme", Email: "billing@acme.test"}
	return from, to
}

func assertPDF(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 4)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRenderInvoice(t *testing.T) {
	from, to := sampleParties()
	snap := &domain.InvoiceSnapshot{
		InvoiceNumber: "INV-0001",
		InvoiceDate:   time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Status:        domain.InvoiceStatusPending,
		Total:         25,
		From:          from,
		To:            to,
		LineItems: []domain.LineItem{
			{ServiceName: "Design", ServiceDescription: "Logo", Quantity: 2, Rate: 10, Amount: 20},
			{ServiceName: "Hosting", Quantity: 1, Rate: 5, Amount: 5},
		},
	}

	for _, size := range []string{"letter", "a4"} {
		t.Run(size, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "invoice.pdf")
			require.NoError(t, New(size).RenderInvoice(context.Background(), snap, path))
			assertPDF(t, path)
		})
	}
}

func TestRenderReceipt_NoItems(t *testing.T) {
	from, to := sampleParties()
	snap := &domain.ReceiptSnapshot{
		ReceiptNumber:  "REC-0001",
		InvoiceNumber:  "INV-0001",
		PaymentDate:    time.Now(),
		LeaveDateBlank: true,
		PaidAmount:     25,
		InvoiceTotal:   25,
		From:           from,
		To:             to,
	}

	path := filepath.Join(t.TempDir(), "receipt.pdf")
	require.NoError(t, New("letter").RenderReceipt(context.Background(), snap, path))
	assertPDF(t, path)
}

func TestRender_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := filepath.Join(t.TempDir(), "x.pdf")
	err := New("letter").RenderInvoice(ctx, &domain.InvoiceSnapshot{}, path)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, path)
}

func TestPartyLines(t *testing.T) {
	from, to := sampleParties()

	assert.Equal(t, []string{
		"Jane Doe",
		"1 Main St",
		"Springfield",
		"Email: jane@example.com",
		"Tax ID: 12-3456789",
	}, partyLines(from))
	assert.Equal(t, []string{"Acme", "Email: billing@acme.test"}, partyLines(to))
}

func TestDisplayDateAndMoney(t *testing.T) {
	assert.Equal(t, BlankDate, displayDate("2024-03-15", true))
	assert.Equal(t, "2024-03-15", displayDate("2024-03-15", false))
	assert.Equal(t, "$1234.50", money(1234.5))
	assert.Equal(t, "$0.30", money(0.1+0.2))
}
