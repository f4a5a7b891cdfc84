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

// CreateInvoiceParams describes a new invoice. ContractorID 0 selects the
// configured contractor profile.
type CreateInvoiceParams struct {
	ClientID       int64
	ContractorID   int64
	InvoiceDate    time.Time
	LeaveDateBlank bool
	Items          []domain.LineItemInput
}

// UpdateInvoiceParams replaces the editable parts of a pending invoice.
// Zero ClientID or InvoiceDate keeps the current value; Items always
// replaces the full set.
type UpdateInvoiceParams struct {
	ClientID       int64
	InvoiceDate    time.Time
	LeaveDateBlank bool
	Items          []domain.LineItemInput
}

// InvoiceService manages the invoice lifecycle
type InvoiceService interface {
	// Create opens a pending invoice and returns its number
	Create(ctx context.Context, params CreateInvoiceParams) (string, error)

	// Update rewrites a pending invoice and its line items
	Update(ctx context.Context, number string, params UpdateInvoiceParams) error

	// Delete removes a pending invoice that has no receipt
	Delete(ctx context.Context, number string) error

	// MarkPaid transitions pending to paid and issues the receipt atomically
	MarkPaid(ctx context.Context, number string) (*domain.Receipt, error)

	// Get returns the invoice with line items, client and receipt number
	Get(ctx context.Context, number string) (*domain.Invoice, error)

	List(ctx context.Context, filter domain.InvoiceFilter) ([]*domain.InvoiceSummary, error)
	Stats(ctx context.Context) (*domain.InvoiceStats, error)
}

type invoiceService struct {
	tx             db.TransactionManager
	invoiceRepo    repository.InvoiceRepository
	clientRepo     repository.ClientRepository
	contractorRepo repository.ContractorRepository
	receiptRepo    repository.ReceiptRepository
	receipts       ReceiptService
	numbers        NumberGenerator
	logger         *zap.Logger
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	tx db.TransactionManager,
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	contractorRepo repository.ContractorRepository,
	receiptRepo repository.ReceiptRepository,
	receipts ReceiptService,
	numbers NumberGenerator,
	logger *zap.Logger,
) InvoiceService {
	return &invoiceService{
		tx:             tx,
		invoiceRepo:    invoiceRepo,
		clientRepo:     clientRepo,
		contractorRepo: contractorRepo,
		receiptRepo:    receiptRepo,
		receipts:       receipts,
		numbers:        numbers,
		logger:         logger,
	}
}

func (s *invoiceService) Create(ctx context.Context, params CreateInvoiceParams) (string, error) {
	items, err := domain.BuildLineItems(params.Items)
	if err != nil {
		return "", err
	}
	if params.InvoiceDate.IsZero() {
		return "", domain.NewValidationError("invoice_date", "invoice date is required")
	}

	contractorID := params.ContractorID
	if contractorID == 0 {
		contractorID = domain.ContractorID
	}

	var invoice *domain.Invoice
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if contractorID != domain.ContractorID {
			return domain.NotFound("contractor", contractorID)
		}
		if _, err := s.contractorRepo.Get(txCtx); err != nil {
			return err
		}
		if _, err := s.clientRepo.GetByID(txCtx, params.ClientID); err != nil {
			return err
		}

		number, err := s.numbers.NextInvoiceNumber(txCtx)
		if err != nil {
			return err
		}

		invoice = domain.NewInvoice(number, params.ClientID, contractorID, dateOnly(params.InvoiceDate))
		invoice.LeaveDateBlank = params.LeaveDateBlank
		invoice.LineItems = items
		invoice.CalculateTotals()

		if err := s.invoiceRepo.Create(txCtx, invoice); err != nil {
			return err
		}
		return s.invoiceRepo.ReplaceLineItems(txCtx, invoice.ID, items)
	})
	if err != nil {
		logFailure(s.logger, "invoice create failed", err, zap.Int64("client_id", params.ClientID))
		return "", err
	}

	s.logger.Info("invoice created",
		zap.String("invoice", invoice.InvoiceNumber),
		zap.Int64("client_id", invoice.ClientID),
		zap.Int("items", len(items)),
		zap.Float64("total", invoice.Total),
	)
	return invoice.InvoiceNumber, nil
}

func (s *invoiceService) Update(ctx context.Context, number string, params UpdateInvoiceParams) error {
	items, err := domain.BuildLineItems(params.Items)
	if err != nil {
		return err
	}

	var invoice *domain.Invoice
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		invoice, err = s.invoiceRepo.GetByNumber(txCtx, number)
		if err != nil {
			return err
		}
		if !invoice.CanEdit() {
			return &domain.InvalidStateError{Entity: "invoice", Key: number, Status: string(invoice.Status), Op: "update"}
		}

		if params.ClientID != 0 && params.ClientID != invoice.ClientID {
			if _, err := s.clientRepo.GetByID(txCtx, params.ClientID); err != nil {
				return err
			}
			invoice.ClientID = params.ClientID
		}
		if !params.InvoiceDate.IsZero() {
			invoice.InvoiceDate = dateOnly(params.InvoiceDate)
		}
		invoice.LeaveDateBlank = params.LeaveDateBlank
		invoice.LineItems = items
		invoice.CalculateTotals()

		if err := s.invoiceRepo.Update(txCtx, invoice); err != nil {
			return err
		}
		return s.invoiceRepo.ReplaceLineItems(txCtx, invoice.ID, items)
	})
	if err != nil {
		logFailure(s.logger, "invoice update failed", err, zap.String("invoice", number))
		return err
	}

	s.logger.Info("invoice updated",
		zap.String("invoice", number),
		zap.Int("items", len(items)),
		zap.Float64("total", invoice.Total),
	)
	return nil
}

func (s *invoiceService) Delete(ctx context.Context, number string) error {
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		invoice, err := s.invoiceRepo.GetByNumber(txCtx, number)
		if err != nil {
			return err
		}
		if !invoice.CanEdit() {
			return &domain.InvalidStateError{Entity: "invoice", Key: number, Status: string(invoice.Status), Op: "delete"}
		}

		hasReceipt, err := s.receiptRepo.ExistsForInvoice(txCtx, invoice.ID)
		if err != nil {
			return err
		}
		if hasReceipt {
			return fmt.Errorf("%w: invoice %s already has a receipt", domain.ErrInvalidState, number)
		}

		return s.invoiceRepo.Delete(txCtx, invoice.ID)
	})
	if err != nil {
		logFailure(s.logger, "invoice delete failed", err, zap.String("invoice", number))
		return err
	}

	s.logger.Info("invoice deleted", zap.String("invoice", number))
	return nil
}

func (s *invoiceService) MarkPaid(ctx context.Context, number string) (*domain.Receipt, error) {
	var receipt *domain.Receipt

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		invoice, err := s.invoiceRepo.GetByNumber(txCtx, number)
		if err != nil {
			return err
		}
		if invoice.IsPaid() {
			return &domain.InvalidStateError{Entity: "invoice", Key: number, Status: string(invoice.Status), Op: "mark paid"}
		}

		// Guarded write: only one caller can move the row out of pending.
		if err := s.invoiceRepo.MarkPaid(txCtx, invoice.ID); err != nil {
			return err
		}

		receipt, err = s.receipts.Issue(txCtx, invoice.ID, invoice.Total)
		return err
	})
	if err != nil {
		logFailure(s.logger, "mark paid failed", err, zap.String("invoice", number))
		return nil, err
	}

	s.logger.Info("invoice paid",
		zap.String("invoice", number),
		zap.String("receipt", receipt.ReceiptNumber),
	)
	return receipt, nil
}

func (s *invoiceService) Get(ctx context.Context, number string) (*domain.Invoice, error) {
	var invoice *domain.Invoice

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		invoice, err = s.invoiceRepo.GetByNumber(txCtx, number)
		if err != nil {
			return err
		}

		if invoice.LineItems, err = s.invoiceRepo.GetLineItems(txCtx, invoice.ID); err != nil {
			return err
		}

		if invoice.Client, err = s.clientRepo.GetByID(txCtx, invoice.ClientID); err != nil {
			return err
		}

		receipt, err := s.receiptRepo.GetByInvoiceID(txCtx, invoice.ID)
		switch {
		case err == nil:
			invoice.ReceiptNumber = receipt.ReceiptNumber
		case !domain.IsNotFound(err):
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return invoice, nil
}

func (s *invoiceService) List(ctx context.Context, filter domain.InvoiceFilter) ([]*domain.InvoiceSummary, error) {
	return s.invoiceRepo.List(ctx, filter)
}

func (s *invoiceService) Stats(ctx context.Context) (*domain.InvoiceStats, error) {
	return s.invoiceRepo.Stats(ctx)
}

// dateOnly drops the clock so invoice dates compare and store as dates
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
