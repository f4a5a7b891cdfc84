package repository

import (
	"context"
	"fmt"

	"github.com/andy/invoicer/internal/db"
	"github.com/andy/invoicer/internal/domain"
)

// ResetRepo wipes stored data while keeping the schema
type ResetRepo struct {
	db *db.DB
}

func NewResetRepo(database *db.DB) *ResetRepo {
	return &ResetRepo{db: database}
}

// Tables cleared by ClearInvoices, children first
var invoiceTables = []string{"receipts", "invoice_items", "invoices"}

// ClearInvoices deletes every invoice, line item and receipt. Sequences
// keep their values so numbers are still never reused.
func (r *ResetRepo) ClearInvoices(ctx context.Context) error {
	return r.db.RunInTx(ctx, func(txCtx context.Context) error {
		return r.clear(txCtx, invoiceTables)
	})
}

// ClearAll deletes everything including clients and the contractor, and
// restarts both sequences at zero.
func (r *ResetRepo) ClearAll(ctx context.Context) error {
	return r.db.RunInTx(ctx, func(txCtx context.Context) error {
		tables := append(append([]string{}, invoiceTables...), "clients", "contractor")
		if err := r.clear(txCtx, tables); err != nil {
			return err
		}
		if _, err := r.db.Conn(txCtx).ExecContext(txCtx, "UPDATE sequences SET last_value = 0"); err != nil {
			return domain.NewStoreError("reset sequences", err)
		}
		return nil
	})
}

func (r *ResetRepo) clear(ctx context.Context, tables []string) error {
	for _, table := range tables {
		if _, err := r.db.Conn(ctx).ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			return domain.NewStoreError("clear "+table, err)
		}
	}
	return nil
}
