package service

import (
	"context"
	"testing"
	"time"

	"github.com/andy/invoicer/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboard(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	d, err := env.reports.Dashboard(ctx)
	require.NoError(t, err)
	assert.False(t, d.ContractorSetUp)
	assert.Equal(t, 0, d.Invoices.TotalCount)

	client := env.setup(t)
	n, err := env.invoices.Create(ctx, CreateInvoiceParams{
		ClientID:    client.ID,
		InvoiceDate: march15(),
		Items:       []domain.LineItemInput{{ServiceName: "A", Quantity: 1, Rate: 50}},
	})
	require.NoError(t, err)
	_, err = env.invoices.MarkPaid(ctx, n)
	require.NoError(t, err)

	d, err = env.reports.Dashboard(ctx)
	require.NoError(t, err)
	assert.True(t, d.ContractorSetUp)
	assert.Equal(t, 1, d.ClientCount)
	assert.Equal(t, 1, d.Invoices.PaidCount)
	assert.Equal(t, 50.0, d.Receipts.TotalReceived)
	require.Len(t, d.RecentInvoices, 1)
	require.Len(t, d.RecentReceipts, 1)
}

func TestClientSummaryAndRevenue(t *testing.T) {
	env := newTestEnv(t, nil)
	client := env.setup(t)
	ctx := context.Background()

	for _, rate := range []float64{0.1, 0.2} {
		n, err := env.invoices.Create(ctx, CreateInvoiceParams{
			ClientID:    client.ID,
			InvoiceDate: march15(),
			Items:       []domain.LineItemInput{{ServiceName: "A", Quantity: 1, Rate: rate}},
		})
		require.NoError(t, err)
		if rate == 0.2 {
			_, err = env.invoices.MarkPaid(ctx, n)
			require.NoError(t, err)
		}
	}

	summary, err := env.reports.GetClientSummary(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.InvoiceCount)
	assert.Equal(t, 0.3, summary.Billed)
	assert.Equal(t, 0.1, summary.Outstanding)
	assert.Equal(t, 0.2, summary.Paid)

	now := time.Now()
	revenue, err := env.reports.GetRevenueByMonth(ctx, now.Year())
	require.NoError(t, err)
	assert.Len(t, revenue, 12)
	assert.Equal(t, 0.2, revenue[now.Month()])

	_, err = env.reports.GetClientSummary(ctx, 999)
	assert.True(t, domain.IsNotFound(err))
}
