package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/andy/invoicer/internal/db"
	"github.com/andy/invoicer/internal/domain"
)

const receiptColumns = `
	r.id, r.receipt_number, r.invoice_id, r.paid_amount, r.leave_date_blank,
	r.payment_date, i.invoice_number`

// ReceiptRepo is a SQLite implementation of ReceiptRepository
type ReceiptRepo struct {
	db *db.DB
}

func NewReceiptRepo(database *db.DB) *ReceiptRepo {
	return &ReceiptRepo{db: database}
}

// Create inserts a receipt. A second receipt for the same invoice fails
// with ErrDuplicateReceipt; any other constraint failure is a StoreError.
func (r *ReceiptRepo) Create(ctx context.Context, receipt *domain.Receipt) error {
	if err := receipt.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO receipts (receipt_number, invoice_id, paid_amount, leave_date_blank, payment_date)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.Conn(ctx).ExecContext(ctx, query,
		receipt.ReceiptNumber,
		receipt.InvoiceID,
		receipt.PaidAmount,
		receipt.LeaveDateBlank,
		formatTime(receipt.PaymentDate),
	)
	if err != nil {
		if isUniqueViolation(err, "receipts.invoice_id") {
			return fmt.Errorf("%w: invoice %d", domain.ErrDuplicateReceipt, receipt.InvoiceID)
		}
		return domain.NewStoreError("create receipt", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return domain.NewStoreError("get receipt ID", err)
	}

	receipt.ID = id
	return nil
}

func (r *ReceiptRepo) GetByNumber(ctx context.Context, number string) (*domain.Receipt, error) {
	row := r.db.Conn(ctx).QueryRowContext(ctx, `
		SELECT `+receiptColumns+`
		FROM receipts r
		JOIN invoices i ON i.id = r.invoice_id
		WHERE r.receipt_number = ?
	`, number)

	receipt, err := scanReceipt(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("receipt", number)
		}
		return nil, domain.NewStoreError("get receipt", err)
	}
	return receipt, nil
}

func (r *ReceiptRepo) GetByInvoiceID(ctx context.Context, invoiceID int64) (*domain.Receipt, error) {
	row := r.db.Conn(ctx).QueryRowContext(ctx, `
		SELECT `+receiptColumns+`
		FROM receipts r
		JOIN invoices i ON i.id = r.invoice_id
		WHERE r.invoice_id = ?
	`, invoiceID)

	receipt, err := scanReceipt(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: receipt for invoice %d", domain.ErrNotFound, invoiceID)
		}
		return nil, domain.NewStoreError("get receipt", err)
	}
	return receipt, nil
}

func (r *ReceiptRepo) ExistsForInvoice(ctx context.Context, invoiceID int64) (bool, error) {
	var n int
	err := r.db.Conn(ctx).QueryRowContext(ctx,
		"SELECT COUNT(*) FROM receipts WHERE invoice_id = ?", invoiceID).Scan(&n)
	if err != nil {
		return false, domain.NewStoreError("check receipt", err)
	}
	return n > 0, nil
}

// List returns receipt summaries, most recent payment first. A limit of
// zero returns all receipts.
func (r *ReceiptRepo) List(ctx context.Context, limit int) ([]*domain.ReceiptSummary, error) {
	query := `
		SELECT r.id, r.receipt_number, i.invoice_number, c.name,
		       COALESCE((SELECT GROUP_CONCAT(service_name, char(31))
		                 FROM invoice_items WHERE invoice_id = i.id), ''),
		       r.paid_amount, r.payment_date
		FROM receipts r
		JOIN invoices i ON i.id = r.invoice_id
		JOIN clients c ON c.id = i.client_id
		ORDER BY r.payment_date DESC, r.id DESC
	`
	args := make([]any, 0)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewStoreError("list receipts", err)
	}
	defer rows.Close()

	summaries := make([]*domain.ReceiptSummary, 0)
	for rows.Next() {
		s := &domain.ReceiptSummary{}
		var services, paymentDate string

		if err := rows.Scan(
			&s.ID,
			&s.ReceiptNumber,
			&s.InvoiceNumber,
			&s.ClientName,
			&services,
			&s.PaidAmount,
			&paymentDate,
		); err != nil {
			return nil, domain.NewStoreError("scan receipt", err)
		}

		if s.PaymentDate, err = parseTime(paymentDate); err != nil {
			return nil, fmt.Errorf("failed to parse payment_date: %w", err)
		}
		s.Services = domain.ServiceNames(splitServices(services), domain.SummaryServices)

		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError("iterate receipts", err)
	}

	return summaries, nil
}

// Stats counts receipts, sums received amounts and counts receipts paid
// at or after recentSince.
func (r *ReceiptRepo) Stats(ctx context.Context, recentSince time.Time) (*domain.ReceiptStats, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(paid_amount), 0),
		       COALESCE(SUM(CASE WHEN payment_date >= ? THEN 1 ELSE 0 END), 0)
		FROM receipts
	`

	stats := &domain.ReceiptStats{}
	err := r.db.Conn(ctx).QueryRowContext(ctx, query, formatTime(recentSince)).Scan(
		&stats.TotalReceipts,
		&stats.TotalReceived,
		&stats.RecentReceipts,
	)
	if err != nil {
		return nil, domain.NewStoreError("get receipt stats", err)
	}

	return stats, nil
}

func scanReceipt(s scanner) (*domain.Receipt, error) {
	receipt := &domain.Receipt{}
	var paymentDate string

	err := s.Scan(
		&receipt.ID,
		&receipt.ReceiptNumber,
		&receipt.InvoiceID,
		&receipt.PaidAmount,
		&receipt.LeaveDateBlank,
		&paymentDate,
		&receipt.InvoiceNumber,
	)
	if err != nil {
		return nil, err
	}

	if receipt.PaymentDate, err = parseTime(paymentDate); err != nil {
		return nil, fmt.Errorf("failed to parse payment_date: %w", err)
	}

	return receipt, nil
}
