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

// ContractorRepo is a SQLite implementation of ContractorRepository
type ContractorRepo struct {
	db *db.DB
}

// NewContractorRepo creates a new ContractorRepo
func NewContractorRepo(database *db.DB) *ContractorRepo {
	return &ContractorRepo{db: database}
}

// Get returns the contractor profile or a not-found error
func (r *ContractorRepo) Get(ctx context.Context) (*domain.Contractor, error) {
	query := `
		SELECT id, name, address, email, phone, tax_id, personal_tax_id, created_at, updated_at
		FROM contractor
		WHERE id = ?
	`

	c := &domain.Contractor{}
	var createdAt, updatedAt string

	err := r.db.Conn(ctx).QueryRowContext(ctx, query, domain.ContractorID).Scan(
		&c.ID,
		&c.Name,
		&c.Address,
		&c.Email,
		&c.Phone,
		&c.TaxID,
		&c.PersonalTaxID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: contractor profile has not been set up", domain.ErrNotFound)
		}
		return nil, domain.NewStoreError("get contractor", err)
	}

	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return c, nil
}

func (r *ContractorRepo) Exists(ctx context.Context) (bool, error) {
	var n int
	err := r.db.Conn(ctx).QueryRowContext(ctx, "SELECT COUNT(*) FROM contractor").Scan(&n)
	if err != nil {
		return false, domain.NewStoreError("count contractor", err)
	}
	return n > 0, nil
}

// Create inserts the profile. A second profile violates the singleton key.
func (r *ContractorRepo) Create(ctx context.Context, c *domain.Contractor) error {
	if err := c.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO contractor (id, name, address, email, phone, tax_id, personal_tax_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	c.ID = domain.ContractorID
	_, err := r.db.Conn(ctx).ExecContext(ctx, query,
		c.ID,
		c.Name,
		c.Address,
		c.Email,
		c.Phone,
		c.TaxID,
		c.PersonalTaxID,
		formatTime(c.CreatedAt),
		formatTime(c.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err, "contractor.id") {
			return &domain.InvalidStateError{Entity: "contractor", Key: c.Name, Op: "create second"}
		}
		return domain.NewStoreError("create contractor", err)
	}

	return nil
}

// Update rewrites the profile in place
func (r *ContractorRepo) Update(ctx context.Context, c *domain.Contractor) error {
	if err := c.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE contractor
		SET name = ?, address = ?, email = ?, phone = ?, tax_id = ?, personal_tax_id = ?, updated_at = ?
		WHERE id = ?
	`

	c.UpdatedAt = time.Now()
	result, err := r.db.Conn(ctx).ExecContext(ctx, query,
		c.Name,
		c.Address,
		c.Email,
		c.Phone,
		c.TaxID,
		c.PersonalTaxID,
		formatTime(c.UpdatedAt),
		domain.ContractorID,
	)
	if err != nil {
		return domain.NewStoreError("update contractor", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return domain.NewStoreError("get rows affected", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: contractor profile has not been set up", domain.ErrNotFound)
	}

	return nil
}
