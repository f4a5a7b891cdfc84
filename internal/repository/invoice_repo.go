package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/andy/invoicer/internal/db"
	"github.com/andy/invoicer/internal/domain"
)

const invoiceColumns = `
	id, invoice_number, client_id, contractor_id, invoice_date,
	leave_date_blank, total, status, created_at, updated_at`

// InvoiceRepo is a SQLite implementation of InvoiceRepository
type InvoiceRepo struct {
	db *db.DB
}

// NewInvoiceRepo creates a new InvoiceRepo
func NewInvoiceRepo(database *db.DB) *InvoiceRepo {
	return &InvoiceRepo{db: database}
}

// Create inserts a new invoice header
func (r *InvoiceRepo) Create(ctx context.Context, invoice *domain.Invoice) error {
	if err := invoice.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO invoices (
			invoice_number, client_id, contractor_id, invoice_date,
			leave_date_blank, total, status, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Conn(ctx).ExecContext(ctx, query,
		invoice.InvoiceNumber,
		invoice.ClientID,
		invoice.ContractorID,
		formatDate(invoice.InvoiceDate),
		invoice.LeaveDateBlank,
		invoice.Total,
		string(invoice.Status),
		formatTime(invoice.CreatedAt),
		formatTime(invoice.UpdatedAt),
	)
	if err != nil {
		return domain.NewStoreError("create invoice", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return domain.NewStoreError("get invoice ID", err)
	}

	invoice.ID = id
	return nil
}

// GetByID retrieves an invoice header by ID
func (r *InvoiceRepo) GetByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	row := r.db.Conn(ctx).QueryRowContext(ctx,
		"SELECT "+invoiceColumns+" FROM invoices WHERE id = ?", id)

	invoice, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("invoice", id)
		}
		return nil, domain.NewStoreError("get invoice", err)
	}
	return invoice, nil
}

// GetByNumber retrieves an invoice header by invoice number
func (r *InvoiceRepo) GetByNumber(ctx context.Context, number string) (*domain.Invoice, error) {
	row := r.db.Conn(ctx).QueryRowContext(ctx,
		"SELECT "+invoiceColumns+" FROM invoices WHERE invoice_number = ?", number)

	invoice, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("invoice", number)
		}
		return nil, domain.NewStoreError("get invoice", err)
	}
	return invoice, nil
}

// List returns invoice summaries, newest first
func (r *InvoiceRepo) List(ctx context.Context, filter domain.InvoiceFilter) ([]*domain.InvoiceSummary, error) {
	query := `
		SELECT i.id, i.invoice_number, i.client_id, c.name,
		       COALESCE((SELECT GROUP_CONCAT(service_name, char(31))
		                 FROM invoice_items WHERE invoice_id = i.id), ''),
		       i.invoice_date, i.total, i.status,
		       COALESCE(r.receipt_number, ''), i.created_at
		FROM invoices i
		JOIN clients c ON c.id = i.client_id
		LEFT JOIN receipts r ON r.invoice_id = i.id
		WHERE 1=1
	`
	args := make([]any, 0)

	if filter.ClientID != nil {
		query += " AND i.client_id = ?"
		args = append(args, *filter.ClientID)
	}

	if filter.Status != nil {
		query += " AND i.status = ?"
		args = append(args, string(*filter.Status))
	}

	query += " ORDER BY i.created_at DESC, i.id DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := r.db.Conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewStoreError("list invoices", err)
	}
	defer rows.Close()

	summaries := make([]*domain.InvoiceSummary, 0)
	for rows.Next() {
		s := &domain.InvoiceSummary{}
		var services, invoiceDate, status, createdAt string

		err := rows.Scan(
			&s.ID,
			&s.InvoiceNumber,
			&s.ClientID,
			&s.ClientName,
			&services,
			&invoiceDate,
			&s.Total,
			&status,
			&s.ReceiptNumber,
			&createdAt,
		)
		if err != nil {
			return nil, domain.NewStoreError("scan invoice", err)
		}

		if s.InvoiceDate, err = parseDate(invoiceDate); err != nil {
			return nil, fmt.Errorf("failed to parse invoice_date: %w", err)
		}
		if s.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		s.Status = domain.InvoiceStatus(status)
		s.Services = domain.ServiceNames(splitServices(services), domain.SummaryServices)

		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError("iterate invoices", err)
	}

	return summaries, nil
}

// Update rewrites the editable header fields of a pending invoice. The
// number, contractor and status are never changed here.
func (r *InvoiceRepo) Update(ctx context.Context, invoice *domain.Invoice) error {
	if err := invoice.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE invoices
		SET client_id = ?, invoice_date = ?, leave_date_blank = ?, total = ?, updated_at = ?
		WHERE id = ? AND status = 'pending'
	`

	invoice.UpdatedAt = time.Now()

	result, err := r.db.Conn(ctx).ExecContext(ctx, query,
		invoice.ClientID,
		formatDate(invoice.InvoiceDate),
		invoice.LeaveDateBlank,
		invoice.Total,
		formatTime(invoice.UpdatedAt),
		invoice.ID,
	)
	if err != nil {
		return domain.NewStoreError("update invoice", err)
	}

	return r.checkPendingWrite(ctx, result, invoice.ID, invoice.InvoiceNumber, "update")
}

// MarkPaid performs the pending to paid transition as a compare-and-swap
func (r *InvoiceRepo) MarkPaid(ctx context.Context, id int64) error {
	query := `
		UPDATE invoices
		SET status = 'paid', updated_at = ?
		WHERE id = ? AND status = 'pending'
	`

	result, err := r.db.Conn(ctx).ExecContext(ctx, query, formatTime(time.Now()), id)
	if err != nil {
		return domain.NewStoreError("mark invoice paid", err)
	}

	return r.checkPendingWrite(ctx, result, id, "", "mark paid")
}

// Delete removes a pending invoice and its line items
func (r *InvoiceRepo) Delete(ctx context.Context, id int64) error {
	q := r.db.Conn(ctx)

	var status string
	err := q.QueryRowContext(ctx, "SELECT status FROM invoices WHERE id = ?", id).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFound("invoice", id)
		}
		return domain.NewStoreError("get invoice", err)
	}
	if domain.InvoiceStatus(status) != domain.InvoiceStatusPending {
		return &domain.InvalidStateError{Entity: "invoice", Key: fmt.Sprint(id), Status: status, Op: "delete"}
	}

	if _, err := q.ExecContext(ctx, "DELETE FROM invoice_items WHERE invoice_id = ?", id); err != nil {
		return domain.NewStoreError("delete line items", err)
	}

	result, err := q.ExecContext(ctx, "DELETE FROM invoices WHERE id = ? AND status = 'pending'", id)
	if err != nil {
		return domain.NewStoreError("delete invoice", err)
	}

	return r.checkPendingWrite(ctx, result, id, "", "delete")
}

// ReplaceLineItems deletes all items of the invoice and inserts the given
// ones in order, assigning their IDs.
func (r *InvoiceRepo) ReplaceLineItems(ctx context.Context, invoiceID int64, items []*domain.LineItem) error {
	q := r.db.Conn(ctx)

	if _, err := q.ExecContext(ctx, "DELETE FROM invoice_items WHERE invoice_id = ?", invoiceID); err != nil {
		return domain.NewStoreError("delete line items", err)
	}

	query := `
		INSERT INTO invoice_items (
			invoice_id, service_name, service_description, quantity, rate, amount, sort_order
		)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	for _, item := range items {
		result, err := q.ExecContext(ctx, query,
			invoiceID,
			item.ServiceName,
			item.ServiceDescription,
			item.Quantity,
			item.Rate,
			item.Amount,
			item.SortOrder,
		)
		if err != nil {
			return domain.NewStoreError("add line item", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return domain.NewStoreError("get line item ID", err)
		}

		item.ID = id
		item.InvoiceID = invoiceID
	}

	return nil
}

// GetLineItems retrieves all line items for an invoice in display order
func (r *InvoiceRepo) GetLineItems(ctx context.Context, invoiceID int64) ([]*domain.LineItem, error) {
	query := `
		SELECT id, invoice_id, service_name, service_description, quantity, rate, amount, sort_order
		FROM invoice_items
		WHERE invoice_id = ?
		ORDER BY sort_order, id
	`

	rows, err := r.db.Conn(ctx).QueryContext(ctx, query, invoiceID)
	if err != nil {
		return nil, domain.NewStoreError("get line items", err)
	}
	defer rows.Close()

	items := make([]*domain.LineItem, 0)
	for rows.Next() {
		item := &domain.LineItem{}

		err := rows.Scan(
			&item.ID,
			&item.InvoiceID,
			&item.ServiceName,
			&item.ServiceDescription,
			&item.Quantity,
			&item.Rate,
			&item.Amount,
			&item.SortOrder,
		)
		if err != nil {
			return nil, domain.NewStoreError("scan line item", err)
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError("iterate line items", err)
	}

	return items, nil
}

func (r *InvoiceRepo) CountByClient(ctx context.Context, clientID int64) (int, error) {
	var n int
	err := r.db.Conn(ctx).QueryRowContext(ctx,
		"SELECT COUNT(*) FROM invoices WHERE client_id = ?", clientID).Scan(&n)
	if err != nil {
		return 0, domain.NewStoreError("count client invoices", err)
	}
	return n, nil
}

// Stats returns counts and sums grouped by status
func (r *InvoiceRepo) Stats(ctx context.Context) (*domain.InvoiceStats, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN status = 'paid' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(total), 0),
		       COALESCE(SUM(CASE WHEN status = 'pending' THEN total ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN status = 'paid' THEN total ELSE 0 END), 0)
		FROM invoices
	`

	stats := &domain.InvoiceStats{}
	err := r.db.Conn(ctx).QueryRowContext(ctx, query).Scan(
		&stats.TotalCount,
		&stats.PendingCount,
		&stats.PaidCount,
		&stats.TotalAmount,
		&stats.PendingAmount,
		&stats.PaidAmount,
	)
	if err != nil {
		return nil, domain.NewStoreError("get invoice stats", err)
	}

	return stats, nil
}

// checkPendingWrite turns a zero-row guarded write into not-found or
// invalid-state, depending on whether the invoice exists.
func (r *InvoiceRepo) checkPendingWrite(ctx context.Context, result sql.Result, id int64, number, op string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return domain.NewStoreError("get rows affected", err)
	}
	if rows > 0 {
		return nil
	}

	var status string
	err = r.db.Conn(ctx).QueryRowContext(ctx,
		"SELECT invoice_number, status FROM invoices WHERE id = ?", id).Scan(&number, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFound("invoice", id)
		}
		return domain.NewStoreError("get invoice", err)
	}

	return &domain.InvalidStateError{Entity: "invoice", Key: number, Status: status, Op: op}
}

func scanInvoice(s scanner) (*domain.Invoice, error) {
	invoice := &domain.Invoice{}
	var invoiceDate, status, createdAt, updatedAt string

	err := s.Scan(
		&invoice.ID,
		&invoice.InvoiceNumber,
		&invoice.ClientID,
		&invoice.ContractorID,
		&invoiceDate,
		&invoice.LeaveDateBlank,
		&invoice.Total,
		&status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if invoice.InvoiceDate, err = parseDate(invoiceDate); err != nil {
		return nil, fmt.Errorf("failed to parse invoice_date: %w", err)
	}
	if invoice.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if invoice.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	invoice.Status = domain.InvoiceStatus(strings.TrimSpace(status))

	return invoice, nil
}
