package service

import (
	"context"
	"testing"
	"time"

	"github.com/andy/invoicer/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueReceipt_CopiesInvoiceFields(t *testing.T) {
	env := newTestEnv(t, nil)
	client := env.setup(t)
	ctx := context.Background()

	number, err := env.invoices.Create(ctx, CreateInvoiceParams{
		ClientID:       client.ID,
		InvoiceDate:    march15(),
		LeaveDateBlank: true,
		Items:          []domain.LineItemInput{{ServiceName: "A", Quantity: 4, Rate: 2.5}},
	})
	require.NoError(t, err)

	receipt, err := env.invoices.MarkPaid(ctx, number)
	require.NoError(t, err)
	assert.True(t, receipt.LeaveDateBlank)
	assert.Equal(t, 10.0, receipt.PaidAmount)
	assert.Equal(t, number, receipt.InvoiceNumber)

	got, err := env.receipts.Get(ctx, receipt.ReceiptNumber)
	require.NoError(t, err)
	assert.Equal(t, receipt.ID, got.ID)
	assert.True(t, got.LeaveDateBlank)
	assert.WithinDuration(t, time.Now(), got.PaymentDate, time.Minute)
}

func TestIssueReceipt_DuplicateAndMissingInvoice(t *testing.T) {
	env := newTestEnv(t, nil)
	client := env.setup(t)
	ctx := context.Background()

	number, err := env.invoices.Create(ctx, CreateInvoiceParams{
		ClientID:    client.ID,
		InvoiceDate: march15(),
		Items:       []domain.LineItemInput{{ServiceName: "A", Quantity: 1, Rate: 1}},
	})
	require.NoError(t, err)
	inv, err := env.invoices.Get(ctx, number)
	require.NoError(t, err)

	_, err = env.receipts.Issue(ctx, inv.ID, inv.Total)
	require.NoError(t, err)

	_, err = env.receipts.Issue(ctx, inv.ID, inv.Total)
	assert.ErrorIs(t, err, domain.ErrDuplicateReceipt)

	_, err = env.receipts.Issue(ctx, 4242, 1)
	assert.True(t, domain.IsNotFound(err))
}

func TestReceiptListRecentAndStats(t *testing.T) {
	env := newTestEnv(t, nil)
	client := env.setup(t)
	ctx := context.Background()

	for i := 1; i <= 6; i++ {
		n, err := env.invoices.Create(ctx, CreateInvoiceParams{
			ClientID:    client.ID,
			InvoiceDate: march15(),
			Items:       []domain.LineItemInput{{ServiceName: "Retainer", Quantity: 1, Rate: float64(i * 100)}},
		})
		require.NoError(t, err)
		_, err = env.invoices.MarkPaid(ctx, n)
		require.NoError(t, err)
	}

	all, err := env.receipts.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 6)

	recent, err := env.receipts.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, 5)
	assert.Equal(t, "REC-0006", recent[0].ReceiptNumber)
	assert.Equal(t, "Retainer", recent[0].Services)

	stats, err := env.receipts.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, stats.TotalReceipts)
	assert.Equal(t, 6, stats.RecentReceipts)
	assert.Equal(t, 2100.0, stats.TotalReceived)
}
