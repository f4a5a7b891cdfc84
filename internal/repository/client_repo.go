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

const clientColumns = `id, name, address, email, phone, created_at, updated_at`

// ClientRepo is a SQLite implementation of ClientRepository
type ClientRepo struct {
	db *db.DB
}

// NewClientRepo creates a new ClientRepo
func NewClientRepo(database *db.DB) *ClientRepo {
	return &ClientRepo{db: database}
}

// Create inserts a new client into the database
func (r *ClientRepo) Create(ctx context.Context, client *domain.Client) error {
	if err := client.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO clients (name, address, email, phone, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Conn(ctx).ExecContext(ctx, query,
		client.Name,
		client.Address,
		client.Email,
		client.Phone,
		formatTime(client.CreatedAt),
		formatTime(client.UpdatedAt),
	)
	if err != nil {
		return domain.NewStoreError("create client", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return domain.NewStoreError("get client ID", err)
	}

	client.ID = id
	return nil
}

// GetByID retrieves a client by ID
func (r *ClientRepo) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	row := r.db.Conn(ctx).QueryRowContext(ctx,
		"SELECT "+clientColumns+" FROM clients WHERE id = ?", id)

	client, err := scanClient(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("client", id)
		}
		return nil, domain.NewStoreError("get client", err)
	}
	return client, nil
}

// GetByName retrieves the first client with the given name
func (r *ClientRepo) GetByName(ctx context.Context, name string) (*domain.Client, error) {
	row := r.db.Conn(ctx).QueryRowContext(ctx,
		"SELECT "+clientColumns+" FROM clients WHERE name = ? ORDER BY id LIMIT 1", name)

	client, err := scanClient(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("client", name)
		}
		return nil, domain.NewStoreError("get client", err)
	}
	return client, nil
}

// List retrieves all clients ordered by name
func (r *ClientRepo) List(ctx context.Context) ([]*domain.Client, error) {
	rows, err := r.db.Conn(ctx).QueryContext(ctx,
		"SELECT "+clientColumns+" FROM clients ORDER BY name, id")
	if err != nil {
		return nil, domain.NewStoreError("list clients", err)
	}
	defer rows.Close()

	clients := make([]*domain.Client, 0)
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, domain.NewStoreError("scan client", err)
		}
		clients = append(clients, client)
	}

	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError("iterate clients", err)
	}

	return clients, nil
}

// Update updates an existing client
func (r *ClientRepo) Update(ctx context.Context, client *domain.Client) error {
	if err := client.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE clients
		SET name = ?, address = ?, email = ?, phone = ?, updated_at = ?
		WHERE id = ?
	`

	client.UpdatedAt = time.Now()
	result, err := r.db.Conn(ctx).ExecContext(ctx, query,
		client.Name,
		client.Address,
		client.Email,
		client.Phone,
		formatTime(client.UpdatedAt),
		client.ID,
	)
	if err != nil {
		return domain.NewStoreError("update client", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return domain.NewStoreError("get rows affected", err)
	}
	if rows == 0 {
		return domain.NotFound("client", client.ID)
	}

	return nil
}

// Delete removes a client. Clients that own invoices are protected by the
// foreign key; callers check first to report a clearer error.
func (r *ClientRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Conn(ctx).ExecContext(ctx, "DELETE FROM clients WHERE id = ?", id)
	if err != nil {
		return domain.NewStoreError("delete client", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return domain.NewStoreError("get rows affected", err)
	}
	if rows == 0 {
		return domain.NotFound("client", id)
	}

	return nil
}

func (r *ClientRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.Conn(ctx).QueryRowContext(ctx, "SELECT COUNT(*) FROM clients").Scan(&n); err != nil {
		return 0, domain.NewStoreError("count clients", err)
	}
	return n, nil
}

func scanClient(s scanner) (*domain.Client, error) {
	client := &domain.Client{}
	var createdAt, updatedAt string

	err := s.Scan(
		&client.ID,
		&client.Name,
		&client.Address,
		&client.Email,
		&client.Phone,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if client.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if client.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return client, nil
}
