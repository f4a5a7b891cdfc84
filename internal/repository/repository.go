package repository

import (
	"context"
	"time"

	"github.com/andy/invoicer/internal/domain"
)

// All repositories join the transaction carried by ctx, if any.

// ContractorRepository manages the single contractor profile
type ContractorRepository interface {
	Get(ctx context.Context) (*domain.Contractor, error)
	Exists(ctx context.Context) (bool, error)
	Create(ctx context.Context, contractor *domain.Contractor) error
	Update(ctx context.Context, contractor *domain.Contractor) error
}

// ClientRepository manages client persistence
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id int64) (*domain.Client, error)
	GetByName(ctx context.Context, name string) (*domain.Client, error)
	List(ctx context.Context) ([]*domain.Client, error)
	Update(ctx context.Context, client *domain.Client) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// InvoiceRepository manages invoice headers and their line items
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *domain.Invoice) error
	GetByID(ctx context.Context, id int64) (*domain.Invoice, error)
	GetByNumber(ctx context.Context, number string) (*domain.Invoice, error)
	List(ctx context.Context, filter domain.InvoiceFilter) ([]*domain.InvoiceSummary, error)
	// Update rewrites a pending invoice's header; paid invoices are rejected
	Update(ctx context.Context, invoice *domain.Invoice) error
	// MarkPaid flips pending to paid; zero rows affected means it was not pending
	MarkPaid(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	ReplaceLineItems(ctx context.Context, invoiceID int64, items []*domain.LineItem) error
	GetLineItems(ctx context.Context, invoiceID int64) ([]*domain.LineItem, error)
	CountByClient(ctx context.Context, clientID int64) (int, error)
	Stats(ctx context.Context) (*domain.InvoiceStats, error)
}

// ReceiptRepository manages receipts. There is no update operation.
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *domain.Receipt) error
	GetByNumber(ctx context.Context, number string) (*domain.Receipt, error)
	GetByInvoiceID(ctx context.Context, invoiceID int64) (*domain.Receipt, error)
	ExistsForInvoice(ctx context.Context, invoiceID int64) (bool, error)
	List(ctx context.Context, limit int) ([]*domain.ReceiptSummary, error)
	Stats(ctx context.Context, recentSince time.Time) (*domain.ReceiptStats, error)
}

// SequenceRepository hands out monotonic counter values
type SequenceRepository interface {
	Next(ctx context.Context, name string) (int64, error)
	Current(ctx context.Context, name string) (int64, error)
}
