package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mlindqvist/catcost/internal/common"
	"github.com/mlindqvist/catcost/internal/model"
)

// CreateClient inserts a new client and returns it with its ID set.
func (s *SQLiteStorage) CreateClient(ctx context.Context, client *model.Client) (*model.Client, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateClient(client); err != nil {
		return nil, err
	}
	return s.createClientTx(ctx, s.db, client)
}

func (s *SQLiteStorage) createClientTx(ctx context.Context, q querier, client *model.Client) (*model.Client, error) {
	name := strings.TrimSpace(client.Name)

	result, err := q.ExecContext(ctx,
		`INSERT INTO clients (name, contact, is_active) VALUES (?, ?, 1)`,
		name, client.Contact)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, fmt.Errorf("%w: client %q", common.ErrDuplicateEntry, name)
		}
		return nil, fmt.Errorf("failed to insert client: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get client id: %w", err)
	}

	saved := *client
	saved.ID = id
	saved.Name = name
	saved.IsActive = true
	slog.Debug("created client", "id", id, "name", name)
	return &saved, nil
}

// GetClient returns one client by ID.
func (s *SQLiteStorage) GetClient(ctx context.Context, id int64) (*model.Client, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getClientTx(ctx, s.db, id)
}

func (s *SQLiteStorage) getClientTx(ctx context.Context, q querier, id int64) (*model.Client, error) {
	query := `SELECT id, name, contact, is_active, created_at FROM clients WHERE id = ?`
	return scanClient(q.QueryRowContext(ctx, query, id))
}

// GetClientByName returns one client by exact name.
func (s *SQLiteStorage) GetClientByName(ctx context.Context, name string) (*model.Client, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	return s.getClientByNameTx(ctx, s.db, name)
}

func (s *SQLiteStorage) getClientByNameTx(ctx context.Context, q querier, name string) (*model.Client, error) {
	query := `SELECT id, name, contact, is_active, created_at FROM clients WHERE name = ?`
	return scanClient(q.QueryRowContext(ctx, query, strings.TrimSpace(name)))
}

func scanClient(row *sql.Row) (*model.Client, error) {
	var c model.Client
	var contact sql.NullString
	err := row.Scan(&c.ID, &c.Name, &contact, &c.IsActive, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: client", common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan client: %w", err)
	}
	c.Contact = contact.String
	return &c, nil
}

// ListClients returns all active clients ordered by name.
func (s *SQLiteStorage) ListClients(ctx context.Context) ([]model.Client, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.listClientsTx(ctx, s.db)
}

func (s *SQLiteStorage) listClientsTx(ctx context.Context, q querier) ([]model.Client, error) {
	query := `
		SELECT id, name, contact, is_active, created_at
		FROM clients
		WHERE is_active = 1
		ORDER BY name`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	var clients []model.Client
	for rows.Next() {
		var c model.Client
		var contact sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &contact, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		c.Contact = contact.String
		clients = append(clients, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating clients: %w", err)
	}
	return clients, nil
}

// DeleteClient removes a client and, through cascading, its override rates.
func (s *SQLiteStorage) DeleteClient(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return s.deleteClientTx(ctx, s.db, id)
}

func (s *SQLiteStorage) deleteClientTx(ctx context.Context, q querier, id int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: client %d", common.ErrNotFound, id)
	}

	slog.Info("deleted client", "id", id)
	return nil
}
