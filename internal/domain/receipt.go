package domain

import (
	"time"
)

// Receipt is proof of payment for exactly one paid invoice. Receipts are
// never modified once written.
type Receipt struct {
	ID             int64
	ReceiptNumber  string
	InvoiceID      int64
	PaidAmount     float64
	LeaveDateBlank bool
	PaymentDate    time.Time

	// Related data
	InvoiceNumber string
}

func NewReceipt(receiptNumber string, invoiceID int64, paidAmount float64, leaveDateBlank bool) *Receipt {
	return &Receipt{
		ReceiptNumber:  receiptNumber,
		InvoiceID:      invoiceID,
		PaidAmount:     paidAmount,
		LeaveDateBlank: leaveDateBlank,
		PaymentDate:    time.Now(),
	}
}

func (r *Receipt) Validate() error {
	if r.ReceiptNumber == "" {
		return NewValidationError("receipt_number", "receipt number is required")
	}
	if r.InvoiceID <= 0 {
		return NewValidationError("invoice_id", "invoice is required")
	}
	if r.PaidAmount < 0 {
		return NewValidationError("paid_amount", "paid amount cannot be negative")
	}
	return nil
}

// ReceiptSummary is one row of the receipt list.
type ReceiptSummary struct {
	ID            int64
	ReceiptNumber string
	InvoiceNumber string
	ClientName    string
	Services      string
	PaidAmount    float64
	PaymentDate   time.Time
}

type ReceiptStats struct {
	TotalReceipts  int
	TotalReceived  float64
	RecentReceipts int
}
