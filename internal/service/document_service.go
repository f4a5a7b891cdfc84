package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/andy/invoicer/internal/db"
	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/repository"
	"go.uber.org/zap"
)

// Renderer writes a document for a snapshot to path
type Renderer interface {
	RenderInvoice(ctx context.Context, snap *domain.InvoiceSnapshot, path string) error
	RenderReceipt(ctx context.Context, snap *domain.ReceiptSnapshot, path string) error
}

// DocumentService assembles denormalized snapshots and hands them to the
// renderer.
type DocumentService interface {
	InvoiceSnapshot(ctx context.Context, number string) (*domain.InvoiceSnapshot, error)
	ReceiptSnapshot(ctx context.Context, number string) (*domain.ReceiptSnapshot, error)

	// ExportInvoice renders into dir, or the configured invoice directory
	// when dir is empty, and returns the file path.
	ExportInvoice(ctx context.Context, number, dir string) (string, error)
	ExportReceipt(ctx context.Context, number, dir string) (string, error)
}

type documentService struct {
	tx             db.TransactionManager
	invoiceRepo    repository.InvoiceRepository
	receiptRepo    repository.ReceiptRepository
	clientRepo     repository.ClientRepository
	contractorRepo repository.ContractorRepository
	renderer       Renderer
	invoiceDir     string
	receiptDir     string
	logger         *zap.Logger
}

func NewDocumentService(
	tx db.TransactionManager,
	invoiceRepo repository.InvoiceRepository,
	receiptRepo repository.ReceiptRepository,
	clientRepo repository.ClientRepository,
	contractorRepo repository.ContractorRepository,
	renderer Renderer,
	invoiceDir, receiptDir string,
	logger *zap.Logger,
) DocumentService {
	return &documentService{
		tx:             tx,
		invoiceRepo:    invoiceRepo,
		receiptRepo:    receiptRepo,
		clientRepo:     clientRepo,
		contractorRepo: contractorRepo,
		renderer:       renderer,
		invoiceDir:     invoiceDir,
		receiptDir:     receiptDir,
		logger:         logger,
	}
}

func (s *documentService) InvoiceSnapshot(ctx context.Context, number string) (*domain.InvoiceSnapshot, error) {
	var snap *domain.InvoiceSnapshot

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		invoice, err := s.invoiceRepo.GetByNumber(txCtx, number)
		if err != nil {
			return err
		}

		from, to, items, err := s.parties(txCtx, invoice)
		if err != nil {
			return err
		}

		snap = &domain.InvoiceSnapshot{
			InvoiceNumber:  invoice.InvoiceNumber,
			InvoiceDate:    invoice.InvoiceDate,
			LeaveDateBlank: invoice.LeaveDateBlank,
			Status:         invoice.Status,
			Total:          invoice.Total,
			From:           from,
			To:             to,
			LineItems:      items,
		}

		receipt, err := s.receiptRepo.GetByInvoiceID(txCtx, invoice.ID)
		switch {
		case err == nil:
			snap.ReceiptNumber = receipt.ReceiptNumber
		case !domain.IsNotFound(err):
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return snap, nil
}

func (s *documentService) ReceiptSnapshot(ctx context.Context, number string) (*domain.ReceiptSnapshot, error) {
	var snap *domain.ReceiptSnapshot

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		receipt, err := s.receiptRepo.GetByNumber(txCtx, number)
		if err != nil {
			return err
		}

		invoice, err := s.invoiceRepo.GetByID(txCtx, receipt.InvoiceID)
		if err != nil {
			return err
		}

		from, to, items, err := s.parties(txCtx, invoice)
		if err != nil {
			return err
		}

		snap = &domain.ReceiptSnapshot{
			ReceiptNumber:  receipt.ReceiptNumber,
			InvoiceNumber:  invoice.InvoiceNumber,
			InvoiceDate:    invoice.InvoiceDate,
			PaymentDate:    receipt.PaymentDate.Local(),
			LeaveDateBlank: receipt.LeaveDateBlank,
			PaidAmount:     receipt.PaidAmount,
			InvoiceTotal:   invoice.Total,
			From:           from,
			To:             to,
			LineItems:      items,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return snap, nil
}

func (s *documentService) ExportInvoice(ctx context.Context, number, dir string) (string, error) {
	snap, err := s.InvoiceSnapshot(ctx, number)
	if err != nil {
		return "", err
	}

	if dir == "" {
		dir = s.invoiceDir
	}
	path := filepath.Join(dir, InvoiceFilename(snap))

	if err := s.render(path, func() error { return s.renderer.RenderInvoice(ctx, snap, path) }); err != nil {
		logFailure(s.logger, "invoice render failed", err, zap.String("invoice", number))
		return "", err
	}

	s.logger.Info("invoice rendered", zap.String("invoice", number), zap.String("path", path))
	return path, nil
}

func (s *documentService) ExportReceipt(ctx context.Context, number, dir string) (string, error) {
	snap, err := s.ReceiptSnapshot(ctx, number)
	if err != nil {
		return "", err
	}

	if dir == "" {
		dir = s.receiptDir
	}
	path := filepath.Join(dir, ReceiptFilename(snap))

	if err := s.render(path, func() error { return s.renderer.RenderReceipt(ctx, snap, path) }); err != nil {
		logFailure(s.logger, "receipt render failed", err, zap.String("receipt", number))
		return "", err
	}

	s.logger.Info("receipt rendered", zap.String("receipt", number), zap.String("path", path))
	return path, nil
}

func (s *documentService) render(path string, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := fn(); err != nil {
		return fmt.Errorf("failed to render %s: %w", filepath.Base(path), err)
	}
	return nil
}

// parties loads the contractor, client and items of an invoice as plain values
func (s *documentService) parties(ctx context.Context, invoice *domain.Invoice) (domain.Party, domain.Party, []domain.LineItem, error) {
	contractor, err := s.contractorRepo.Get(ctx)
	if err != nil {
		return domain.Party{}, domain.Party{}, nil, err
	}

	client, err := s.clientRepo.GetByID(ctx, invoice.ClientID)
	if err != nil {
		return domain.Party{}, domain.Party{}, nil, err
	}

	items, err := s.invoiceRepo.GetLineItems(ctx, invoice.ID)
	if err != nil {
		return domain.Party{}, domain.Party{}, nil, err
	}

	values := make([]domain.LineItem, 0, len(items))
	for _, item := range items {
		v := *item
		v.ID, v.InvoiceID = 0, 0
		values = append(values, v)
	}

	return contractor.Party(), client.Party(), values, nil
}

// InvoiceFilename is Invoice_<number>_<YYYYMMDD>.pdf using the invoice date
func InvoiceFilename(snap *domain.InvoiceSnapshot) string {
	return fmt.Sprintf("Invoice_%s_%s.pdf", snap.InvoiceNumber, snap.InvoiceDate.Format("20060102"))
}

// ReceiptFilename is Receipt_<number>_<YYYYMMDD>.pdf using the payment date
func ReceiptFilename(snap *domain.ReceiptSnapshot) string {
	return fmt.Sprintf("Receipt_%s_%s.pdf", snap.ReceiptNumber, snap.PaymentDate.Format("20060102"))
}
