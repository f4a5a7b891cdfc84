package domain

import (
	"time"
)

type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

// ParseInvoiceStatus accepts the stored status names only.
func ParseInvoiceStatus(s string) (InvoiceStatus, error) {
	switch InvoiceStatus(s) {
	case InvoiceStatusPending, InvoiceStatusPaid:
		return InvoiceStatus(s), nil
	}
	return "", NewValidationError("status", "must be pending or paid")
}

type Invoice struct {
	ID             int64
	InvoiceNumber  string
	ClientID       int64
	ContractorID   int64
	InvoiceDate    time.Time
	LeaveDateBlank bool
	Total          float64
	Status         InvoiceStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Related data (populated by the service)
	LineItems     []*LineItem
	Client        *Client
	ReceiptNumber string
}

type LineItem struct {
	ID                 int64
	InvoiceID          int64
	ServiceName        string
	ServiceDescription string
	Quantity           int
	Rate               float64
	Amount             float64
	SortOrder          int
}

// NewInvoice creates a new pending invoice
func NewInvoice(invoiceNumber string, clientID, contractorID int64, invoiceDate time.Time) *Invoice {
	now := time.Now()
	return &Invoice{
		InvoiceNumber: invoiceNumber,
		ClientID:      clientID,
		ContractorID:  contractorID,
		InvoiceDate:   invoiceDate,
		Status:        InvoiceStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
		LineItems:     make([]*LineItem, 0),
	}
}

// CanEdit returns true if the invoice header and items can be modified
func (i *Invoice) CanEdit() bool {
	return i.Status == InvoiceStatusPending
}

func (i *Invoice) IsPaid() bool {
	return i.Status == InvoiceStatusPaid
}

// CalculateTotals recomputes the stored total from the line items
func (i *Invoice) CalculateTotals() {
	i.Total = SumAmounts(i.LineItems)
	i.UpdatedAt = time.Now()
}

// Validate returns an error if the invoice header is invalid
func (i *Invoice) Validate() error {
	if i.InvoiceNumber == "" {
		return NewValidationError("invoice_number", "invoice number is required")
	}
	if i.ClientID <= 0 {
		return NewValidationError("client_id", "client is required")
	}
	if i.ContractorID <= 0 {
		return NewValidationError("contractor_id", "contractor is required")
	}
	if i.InvoiceDate.IsZero() {
		return NewValidationError("invoice_date", "invoice date is required")
	}
	if _, err := ParseInvoiceStatus(string(i.Status)); err != nil {
		return err
	}
	return nil
}

// InvoiceSummary is one row of the invoice list.
type InvoiceSummary struct {
	ID            int64
	InvoiceNumber string
	ClientID      int64
	ClientName    string
	Services      string
	InvoiceDate   time.Time
	Total         float64
	Status        InvoiceStatus
	ReceiptNumber string
	CreatedAt     time.Time
}

// InvoiceFilter narrows List results. Nil fields do not filter.
type InvoiceFilter struct {
	ClientID *int64
	Status   *InvoiceStatus
	Limit    int
}

type InvoiceStats struct {
	TotalCount    int
	PendingCount  int
	PaidCount     int
	TotalAmount   float64
	PendingAmount float64
	PaidAmount    float64
}
