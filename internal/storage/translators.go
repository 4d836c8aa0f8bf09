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

// CreateTranslator inserts a new translator and returns it with its ID set.
func (s *SQLiteStorage) CreateTranslator(ctx context.Context, translator *model.Translator) (*model.Translator, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateTranslator(translator); err != nil {
		return nil, err
	}
	return s.createTranslatorTx(ctx, s.db, translator)
}

func (s *SQLiteStorage) createTranslatorTx(ctx context.Context, q querier, translator *model.Translator) (*model.Translator, error) {
	translator.Normalize()

	query := `INSERT INTO translators (name, email, company, is_active) VALUES (?, ?, ?, 1)`
	result, err := q.ExecContext(ctx, query, translator.Name, translator.Email, translator.Company)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, fmt.Errorf("%w: translator %q", common.ErrDuplicateEntry, translator.Name)
		}
		return nil, fmt.Errorf("failed to insert translator: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get translator id: %w", err)
	}

	saved := *translator
	saved.ID = id
	saved.IsActive = true
	slog.Debug("created translator", "id", id, "name", saved.Name)
	return &saved, nil
}

// GetTranslator returns one translator by ID.
func (s *SQLiteStorage) GetTranslator(ctx context.Context, id int64) (*model.Translator, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getTranslatorTx(ctx, s.db, id)
}

func (s *SQLiteStorage) getTranslatorTx(ctx context.Context, q querier, id int64) (*model.Translator, error) {
	query := `
		SELECT id, name, email, company, is_active, created_at, updated_at
		FROM translators
		WHERE id = ?`
	return scanTranslator(q.QueryRowContext(ctx, query, id))
}

// GetTranslatorByName returns one translator by exact name.
func (s *SQLiteStorage) GetTranslatorByName(ctx context.Context, name string) (*model.Translator, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	return s.getTranslatorByNameTx(ctx, s.db, name)
}

func (s *SQLiteStorage) getTranslatorByNameTx(ctx context.Context, q querier, name string) (*model.Translator, error) {
	query := `
		SELECT id, name, email, company, is_active, created_at, updated_at
		FROM translators
		WHERE name = ?`
	return scanTranslator(q.QueryRowContext(ctx, query, strings.TrimSpace(name)))
}

func scanTranslator(row *sql.Row) (*model.Translator, error) {
	var t model.Translator
	var email, company sql.NullString
	err := row.Scan(&t.ID, &t.Name, &email, &company, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: translator", common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan translator: %w", err)
	}
	t.Email = email.String
	t.Company = company.String
	return &t, nil
}

// ListTranslators returns all active translators ordered by name.
func (s *SQLiteStorage) ListTranslators(ctx context.Context) ([]model.Translator, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.listTranslatorsTx(ctx, s.db)
}

func (s *SQLiteStorage) listTranslatorsTx(ctx context.Context, q querier) ([]model.Translator, error) {
	query := `
		SELECT id, name, email, company, is_active, created_at, updated_at
		FROM translators
		WHERE is_active = 1
		ORDER BY name`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query translators: %w", err)
	}
	defer rows.Close()

	var translators []model.Translator
	for rows.Next() {
		var t model.Translator
		var email, company sql.NullString
		if err := rows.Scan(&t.ID, &t.Name, &email, &company, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan translator: %w", err)
		}
		t.Email = email.String
		t.Company = company.String
		translators = append(translators, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating translators: %w", err)
	}
	return translators, nil
}

// UpdateTranslator updates name, email and company for an existing translator.
func (s *SQLiteStorage) UpdateTranslator(ctx context.Context, translator *model.Translator) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTranslator(translator); err != nil {
		return err
	}
	return s.updateTranslatorTx(ctx, s.db, translator)
}

func (s *SQLiteStorage) updateTranslatorTx(ctx context.Context, q querier, translator *model.Translator) error {
	translator.Normalize()

	query := `
		UPDATE translators
		SET name = ?, email = ?, company = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`
	result, err := q.ExecContext(ctx, query, translator.Name, translator.Email, translator.Company, translator.ID)
	if err != nil {
		return fmt.Errorf("failed to update translator: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: translator %d", common.ErrNotFound, translator.ID)
	}
	return nil
}

// DeleteTranslator removes a translator and, through cascading, its rates.
func (s *SQLiteStorage) DeleteTranslator(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return s.deleteTranslatorTx(ctx, s.db, id)
}

func (s *SQLiteStorage) deleteTranslatorTx(ctx context.Context, q querier, id int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM translators WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete translator: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: translator %d", common.ErrNotFound, id)
	}

	slog.Info("deleted translator", "id", id)
	return nil
}
