package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mlindqvist/catcost/internal/common"
	"github.com/mlindqvist/catcost/internal/model"
)

// GetOrCreateLanguagePair returns the pair for the normalized codes,
// inserting it on first use.
func (s *SQLiteStorage) GetOrCreateLanguagePair(ctx context.Context, source, target string) (*model.LanguagePair, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getOrCreateLanguagePairTx(ctx, s.db, source, target)
}

func (s *SQLiteStorage) getOrCreateLanguagePairTx(ctx context.Context, q querier, source, target string) (*model.LanguagePair, error) {
	pair := model.NewLanguagePair(source, target)
	if !pair.Valid() {
		return nil, fmt.Errorf("%w: %q > %q", common.ErrInvalidLanguagePair, source, target)
	}

	query := `SELECT id FROM language_pairs WHERE source_language = ? AND target_language = ?`
	err := q.QueryRowContext(ctx, query, pair.SourceLanguage, pair.TargetLanguage).Scan(&pair.ID)
	if err == nil {
		return &pair, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to query language pair: %w", err)
	}

	result, err := q.ExecContext(ctx,
		`INSERT INTO language_pairs (source_language, target_language) VALUES (?, ?)`,
		pair.SourceLanguage, pair.TargetLanguage)
	if err != nil {
		return nil, fmt.Errorf("failed to insert language pair: %w", err)
	}

	pair.ID, err = result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get language pair id: %w", err)
	}
	return &pair, nil
}

// GetLanguagePair returns one pair by ID.
func (s *SQLiteStorage) GetLanguagePair(ctx context.Context, id int64) (*model.LanguagePair, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getLanguagePairTx(ctx, s.db, id)
}

func (s *SQLiteStorage) getLanguagePairTx(ctx context.Context, q querier, id int64) (*model.LanguagePair, error) {
	var pair model.LanguagePair
	query := `SELECT id, source_language, target_language FROM language_pairs WHERE id = ?`
	err := q.QueryRowContext(ctx, query, id).Scan(&pair.ID, &pair.SourceLanguage, &pair.TargetLanguage)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: language pair %d", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan language pair: %w", err)
	}
	return &pair, nil
}

// ListLanguagePairs returns all known pairs ordered by code.
func (s *SQLiteStorage) ListLanguagePairs(ctx context.Context) ([]model.LanguagePair, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.listLanguagePairsTx(ctx, s.db)
}

func (s *SQLiteStorage) listLanguagePairsTx(ctx context.Context, q querier) ([]model.LanguagePair, error) {
	query := `
		SELECT id, source_language, target_language
		FROM language_pairs
		ORDER BY source_language, target_language`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query language pairs: %w", err)
	}
	defer rows.Close()

	var pairs []model.LanguagePair
	for rows.Next() {
		var pair model.LanguagePair
		if err := rows.Scan(&pair.ID, &pair.SourceLanguage, &pair.TargetLanguage); err != nil {
			return nil, fmt.Errorf("failed to scan language pair: %w", err)
		}
		pairs = append(pairs, pair)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating language pairs: %w", err)
	}
	return pairs, nil
}
