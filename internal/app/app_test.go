package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/andy/invoicer/internal/config"
	"github.com/andy/invoicer/internal/crypto"
	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Database.Path = filepath.Join(dir, "app.db")
	cfg.Output.InvoiceDir = filepath.Join(dir, "out", "invoices")
	cfg.Output.ReceiptDir = filepath.Join(dir, "out", "receipts")
	cfg.Log.Path = filepath.Join(dir, "app.log")
	return cfg
}

func TestNewWithConfig_EndToEnd(t *testing.T) {
	t.Setenv(crypto.EnvKey, "app-test-key")
	cfg := testConfig(t)
	ctx := context.Background()

	a, err := NewWithConfig(ctx, cfg)
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.ContractorService.Create(ctx, domain.NewContractor("Jane Doe")))
	client := domain.NewClient("Acme")
	require.NoError(t, a.ClientService.Create(ctx, client))

	number, err := a.InvoiceService.Create(ctx, service.CreateInvoiceParams{
		ClientID:    client.ID,
		InvoiceDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Items:       []domain.LineItemInput{{ServiceName: "Design", Quantity: 2, Rate: 100}},
	})
	require.NoError(t, err)
	assert.Equal(t, "INV-0001", number)

	receipt, err := a.InvoiceService.MarkPaid(ctx, number)
	require.NoError(t, err)
	assert.Equal(t, "REC-0001", receipt.ReceiptNumber)

	path, err := a.DocumentService.ExportInvoice(ctx, number, "")
	require.NoError(t, err)
	assert.Equal(t, cfg.Output.InvoiceDir, filepath.Dir(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))

	_, err = a.DocumentService.ExportReceipt(ctx, receipt.ReceiptNumber, "")
	require.NoError(t, err)

	require.NoError(t, a.Logger.Sync())
	log, err := os.ReadFile(cfg.Log.Path)
	require.NoError(t, err)
	assert.Contains(t, string(log), "invoice paid")
}

func TestNewWithConfig_ReopenKeepsData(t *testing.T) {
	t.Setenv(crypto.EnvKey, "app-test-key")
	cfg := testConfig(t)
	ctx := context.Background()

	a, err := NewWithConfig(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, a.ClientService.Create(ctx, domain.NewClient("Acme")))
	require.NoError(t, a.Close())

	b, err := NewWithConfig(ctx, cfg)
	require.NoError(t, err)
	defer b.Close()

	clients, err := b.ClientService.List(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "Acme", clients[0].Name)
}
