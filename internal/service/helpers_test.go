package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/andy/invoicer/internal/db"
	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEnv struct {
	db          *db.DB
	invoiceRepo *repository.InvoiceRepo
	receiptRepo repository.ReceiptRepository
	invoices    InvoiceService
	receipts    ReceiptService
	clients     ClientService
	contractor  ContractorService
	documents   DocumentService
	reports     ReportService
	renderer    *recordingRenderer
	outDir      string
}

// newTestEnv wires every service against a fresh encrypted database.
// A non-nil wrap decorates the receipt repository.
func newTestEnv(t *testing.T, wrap func(repository.ReceiptRepository) repository.ReceiptRepository) *testEnv {
	t.Helper()

	dir := t.TempDir()
	database, err := db.Open(filepath.Join(dir, "svc.db"), "svc-test")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, database.RunMigrations())

	logger := zap.NewNop()
	clientRepo := repository.NewClientRepo(database)
	contractorRepo := repository.NewContractorRepo(database)
	invoiceRepo := repository.NewInvoiceRepo(database)
	var receiptRepo repository.ReceiptRepository = repository.NewReceiptRepo(database)
	if wrap != nil {
		receiptRepo = wrap(receiptRepo)
	}
	numbers := NewNumberGenerator(repository.NewSequenceRepo(database), "INV", "REC")

	receipts := NewReceiptService(database, receiptRepo, invoiceRepo, numbers, logger)
	renderer := &recordingRenderer{}
	outDir := filepath.Join(dir, "pdfs")

	return &testEnv{
		db:          database,
		invoiceRepo: invoiceRepo,
		receiptRepo: receiptRepo,
		invoices:    NewInvoiceService(database, invoiceRepo, clientRepo, contractorRepo, receiptRepo, receipts, numbers, logger),
		receipts:    receipts,
		clients:     NewClientService(database, clientRepo, invoiceRepo, logger),
		contractor:  NewContractorService(database, contractorRepo, logger),
		documents: NewDocumentService(database, invoiceRepo, receiptRepo, clientRepo, contractorRepo, renderer,
			filepath.Join(outDir, "invoices"), filepath.Join(outDir, "receipts"), logger),
		reports:  NewReportService(invoiceRepo, receiptRepo, clientRepo, contractorRepo),
		renderer: renderer,
		outDir:   outDir,
	}
}

// setup creates the contractor and one client and returns the client
func (e *testEnv) setup(t *testing.T) *domain.Client {
	t.Helper()
	ctx := context.Background()

	c := domain.NewContractor("Jane Doe")
	c.Address = "1 Main St"
	c.TaxID = "12-3456789"
	require.NoError(t, e.contractor.Create(ctx, c))

	client := domain.NewClient("Acme")
	client.Email = "billing@acme.test"
	require.NoError(t, e.clients.Create(ctx, client))
	return client
}

func march15() time.Time {
	return time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
}

func (e *testEnv) countRows(t *testing.T, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, e.db.QueryRow(query, args...).Scan(&n))
	return n
}

// failingReceiptRepo fails every Create with a store error
type failingReceiptRepo struct {
	repository.ReceiptRepository
}

func (f *failingReceiptRepo) Create(ctx context.Context, receipt *domain.Receipt) error {
	return domain.NewStoreError("create receipt", errors.New("disk full"))
}

// failingItemsRepo fails every ReplaceLineItems with a store error, after
// the header has already been written in the same transaction
type failingItemsRepo struct {
	repository.InvoiceRepository
}

func (f *failingItemsRepo) ReplaceLineItems(ctx context.Context, invoiceID int64, items []*domain.LineItem) error {
	return domain.NewStoreError("insert invoice item", errors.New("disk full"))
}

// invoicesFailingItems is an invoice service over the same database whose
// line-item writes always fail
func (e *testEnv) invoicesFailingItems() InvoiceService {
	return NewInvoiceService(
		e.db,
		&failingItemsRepo{InvoiceRepository: e.invoiceRepo},
		repository.NewClientRepo(e.db),
		repository.NewContractorRepo(e.db),
		e.receiptRepo,
		e.receipts,
		NewNumberGenerator(repository.NewSequenceRepo(e.db), "INV", "REC"),
		zap.NewNop(),
	)
}

// recordingRenderer keeps the snapshots it was given and writes a stub file
type recordingRenderer struct {
	invoices []*domain.InvoiceSnapshot
	receipts []*domain.ReceiptSnapshot
}

func (r *recordingRenderer) RenderInvoice(ctx context.Context, snap *domain.InvoiceSnapshot, path string) error {
	r.invoices = append(r.invoices, snap)
	return os.WriteFile(path, []byte("%PDF-stub"), 0644)
}

func (r *recordingRenderer) RenderReceipt(ctx context.Context, snap *domain.ReceiptSnapshot, path string) error {
	r.receipts = append(r.receipts, snap)
	return os.WriteFile(path, []byte("%PDF-stub"), 0644)
}
