package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/andy/invoicer/internal/db"
	"github.com/andy/invoicer/internal/domain"
)

// Sequence names
const (
	SequenceInvoice = "invoice"
	SequenceReceipt = "receipt"
)

// SequenceRepo stores counters in the sequences table
type SequenceRepo struct {
	db *db.DB
}

func NewSequenceRepo(database *db.DB) *SequenceRepo {
	return &SequenceRepo{db: database}
}

// Next increments the counter and returns the new value. The increment and
// read share a transaction, so a rolled back caller releases nothing.
func (r *SequenceRepo) Next(ctx context.Context, name string) (int64, error) {
	var next int64
	err := r.db.RunInTx(ctx, func(txCtx context.Context) error {
		q := r.db.Conn(txCtx)

		result, err := q.ExecContext(txCtx,
			"UPDATE sequences SET last_value = last_value + 1 WHERE name = ?", name)
		if err != nil {
			return domain.NewStoreError("advance sequence "+name, err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return domain.NewStoreError("get rows affected", err)
		}
		if rows == 0 {
			if _, err := q.ExecContext(txCtx,
				"INSERT INTO sequences (name, last_value) VALUES (?, 1)", name); err != nil {
				return domain.NewStoreError("create sequence "+name, err)
			}
		}

		if err := q.QueryRowContext(txCtx,
			"SELECT last_value FROM sequences WHERE name = ?", name).Scan(&next); err != nil {
			return domain.NewStoreError("read sequence "+name, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}

// Current returns the last value handed out, or 0
func (r *SequenceRepo) Current(ctx context.Context, name string) (int64, error) {
	var v int64
	err := r.db.Conn(ctx).QueryRowContext(ctx,
		"SELECT last_value FROM sequences WHERE name = ?", name).Scan(&v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, domain.NewStoreError("read sequence "+name, err)
	}
	return v, nil
}
