package service

import (
	"context"
	"fmt"
	"time"

	"github.com/andy/invoicer/internal/db"
	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/repository"
	"go.uber.org/zap"
)

// RecentWindow is how far back Stats counts a receipt as recent
const RecentWindow = 30 * 24 * time.Hour

// ReceiptService issues and reads receipts
type ReceiptService interface {
	// Issue writes the single receipt for an invoice. It joins the
	// transaction in ctx when there is one.
	Issue(ctx context.Context, invoiceID int64, paidAmount float64) (*domain.Receipt, error)

	Get(ctx context.Context, number string) (*domain.Receipt, error)
	GetByInvoiceID(ctx context.Context, invoiceID int64) (*domain.Receipt, error)
	List(ctx context.Context) ([]*domain.ReceiptSummary, error)
	Recent(ctx context.Context, limit int) ([]*domain.ReceiptSummary, error)
	Stats(ctx context.Context) (*domain.ReceiptStats, error)
}

type receiptService struct {
	tx          db.TransactionManager
	receiptRepo repository.ReceiptRepository
	invoiceRepo repository.InvoiceRepository
	numbers     NumberGenerator
	logger      *zap.Logger
	now         func() time.Time
}

// NewReceiptService creates a new receipt service
func NewReceiptService(
	tx db.TransactionManager,
	receiptRepo repository.ReceiptRepository,
	invoiceRepo repository.InvoiceRepository,
	numbers NumberGenerator,
	logger *zap.Logger,
) ReceiptService {
	return &receiptService{
		tx:          tx,
		receiptRepo: receiptRepo,
		invoiceRepo: invoiceRepo,
		numbers:     numbers,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *receiptService) Issue(ctx context.Context, invoiceID int64, paidAmount float64) (*domain.Receipt, error) {
	var receipt *domain.Receipt

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		invoice, err := s.invoiceRepo.GetByID(txCtx, invoiceID)
		if err != nil {
			return err
		}

		exists, err := s.receiptRepo.ExistsForInvoice(txCtx, invoiceID)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: invoice %s", domain.ErrDuplicateReceipt, invoice.InvoiceNumber)
		}

		number, err := s.numbers.NextReceiptNumber(txCtx)
		if err != nil {
			return err
		}

		receipt = domain.NewReceipt(number, invoiceID, paidAmount, invoice.LeaveDateBlank)
		receipt.PaymentDate = s.now()
		receipt.InvoiceNumber = invoice.InvoiceNumber

		return s.receiptRepo.Create(txCtx, receipt)
	})
	if err != nil {
		logFailure(s.logger, "receipt issue failed", err, zap.Int64("invoice_id", invoiceID))
		return nil, err
	}

	s.logger.Info("receipt issued",
		zap.String("receipt", receipt.ReceiptNumber),
		zap.String("invoice", receipt.InvoiceNumber),
		zap.Float64("paid_amount", receipt.PaidAmount),
	)
	return receipt, nil
}

func (s *receiptService) Get(ctx context.Context, number string) (*domain.Receipt, error) {
	return s.receiptRepo.GetByNumber(ctx, number)
}

func (s *receiptService) GetByInvoiceID(ctx context.Context, invoiceID int64) (*domain.Receipt, error) {
	return s.receiptRepo.GetByInvoiceID(ctx, invoiceID)
}

func (s *receiptService) List(ctx context.Context) ([]*domain.ReceiptSummary, error) {
	return s.receiptRepo.List(ctx, 0)
}

func (s *receiptService) Recent(ctx context.Context, limit int) ([]*domain.ReceiptSummary, error) {
	if limit <= 0 {
		limit = 5
	}
	return s.receiptRepo.List(ctx, limit)
}

func (s *receiptService) Stats(ctx context.Context) (*domain.ReceiptStats, error) {
	return s.receiptRepo.Stats(ctx, s.now().Add(-RecentWindow))
}
