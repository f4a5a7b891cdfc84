package service

import (
	"context"
	"time"

	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/repository"
	"github.com/shopspring/decimal"
)

// Dashboard is the overview shown on startup
type Dashboard struct {
	Invoices        *domain.InvoiceStats
	Receipts        *domain.ReceiptStats
	RecentInvoices  []*domain.InvoiceSummary
	RecentReceipts  []*domain.ReceiptSummary
	ClientCount     int
	ContractorSetUp bool
}

// ClientSummary provides client-specific billing totals
type ClientSummary struct {
	ClientID     int64
	InvoiceCount int
	Billed       float64
	Outstanding  float64
	Paid         float64
	Invoices     []*domain.InvoiceSummary
}

// ReportService provides aggregations over invoices and receipts
type ReportService interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
	GetClientSummary(ctx context.Context, clientID int64) (*ClientSummary, error)
	// GetRevenueByMonth sums receipts by the month they were paid in
	GetRevenueByMonth(ctx context.Context, year int) (map[time.Month]float64, error)
}

type reportService struct {
	invoiceRepo    repository.InvoiceRepository
	receiptRepo    repository.ReceiptRepository
	clientRepo     repository.ClientRepository
	contractorRepo repository.ContractorRepository
	now            func() time.Time
}

// NewReportService creates a new report service
func NewReportService(
	invoiceRepo repository.InvoiceRepository,
	receiptRepo repository.ReceiptRepository,
	clientRepo repository.ClientRepository,
	contractorRepo repository.ContractorRepository,
) ReportService {
	return &reportService{
		invoiceRepo:    invoiceRepo,
		receiptRepo:    receiptRepo,
		clientRepo:     clientRepo,
		contractorRepo: contractorRepo,
		now:            time.Now,
	}
}

const recentLimit = 5

func (s *reportService) Dashboard(ctx context.Context) (*Dashboard, error) {
	d := &Dashboard{}
	var err error

	if d.Invoices, err = s.invoiceRepo.Stats(ctx); err != nil {
		return nil, err
	}
	if d.Receipts, err = s.receiptRepo.Stats(ctx, s.now().Add(-RecentWindow)); err != nil {
		return nil, err
	}
	if d.RecentInvoices, err = s.invoiceRepo.List(ctx, domain.InvoiceFilter{Limit: recentLimit}); err != nil {
		return nil, err
	}
	if d.RecentReceipts, err = s.receiptRepo.List(ctx, recentLimit); err != nil {
		return nil, err
	}
	if d.ClientCount, err = s.clientRepo.Count(ctx); err != nil {
		return nil, err
	}
	if d.ContractorSetUp, err = s.contractorRepo.Exists(ctx); err != nil {
		return nil, err
	}

	return d, nil
}

func (s *reportService) GetClientSummary(ctx context.Context, clientID int64) (*ClientSummary, error) {
	if _, err := s.clientRepo.GetByID(ctx, clientID); err != nil {
		return nil, err
	}

	invoices, err := s.invoiceRepo.List(ctx, domain.InvoiceFilter{ClientID: &clientID})
	if err != nil {
		return nil, err
	}

	billed, outstanding, paid := decimal.Zero, decimal.Zero, decimal.Zero
	for _, inv := range invoices {
		amount := decimal.NewFromFloat(inv.Total)
		billed = billed.Add(amount)
		if inv.Status == domain.InvoiceStatusPaid {
			paid = paid.Add(amount)
		} else {
			outstanding = outstanding.Add(amount)
		}
	}

	return &ClientSummary{
		ClientID:     clientID,
		InvoiceCount: len(invoices),
		Billed:       billed.InexactFloat64(),
		Outstanding:  outstanding.InexactFloat64(),
		Paid:         paid.InexactFloat64(),
		Invoices:     invoices,
	}, nil
}

func (s *reportService) GetRevenueByMonth(ctx context.Context, year int) (map[time.Month]float64, error) {
	receipts, err := s.receiptRepo.List(ctx, 0)
	if err != nil {
		return nil, err
	}

	sums := make(map[time.Month]decimal.Decimal)
	for m := time.January; m <= time.December; m++ {
		sums[m] = decimal.Zero
	}

	for _, r := range receipts {
		paid := r.PaymentDate.Local()
		if paid.Year() != year {
			continue
		}
		sums[paid.Month()] = sums[paid.Month()].Add(decimal.NewFromFloat(r.PaidAmount))
	}

	revenue := make(map[time.Month]float64, len(sums))
	for m, v := range sums {
		revenue[m] = v.InexactFloat64()
	}

	return revenue, nil
}
