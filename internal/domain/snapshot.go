package domain

import (
	"time"
)

// Party is a contractor or client as printed on a document.
type Party struct {
	Name          string
	Address       string
	Email         string
	Phone         string
	TaxID         string
	PersonalTaxID string
}

// InvoiceSnapshot is everything needed to render an invoice, with no
// references back into the store.
type InvoiceSnapshot struct {
	InvoiceNumber  string
	InvoiceDate    time.Time
	LeaveDateBlank bool
	Status         InvoiceStatus
	Total          float64
	From           Party
	To             Party
	LineItems      []LineItem
	ReceiptNumber  string
}

// ReceiptSnapshot is everything needed to render a receipt.
type ReceiptSnapshot struct {
	ReceiptNumber  string
	InvoiceNumber  string
	InvoiceDate    time.Time
	PaymentDate    time.Time
	LeaveDateBlank bool
	PaidAmount     float64
	InvoiceTotal   float64
	From           Party
	To             Party
	LineItems      []LineItem
}
