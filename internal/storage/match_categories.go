package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mlindqvist/catcost/internal/common"
	"github.com/mlindqvist/catcost/internal/model"
)

// GetMatchCategoryID returns the seeded row ID for a category. IDs are
// immutable after migration, so lookups are cached.
func (s *SQLiteStorage) GetMatchCategoryID(ctx context.Context, category model.MatchCategory) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	s.categoryMutex.RLock()
	id, ok := s.categoryIDs[category]
	s.categoryMutex.RUnlock()
	if ok {
		return id, nil
	}

	id, err := s.getMatchCategoryIDTx(ctx, s.db, category)
	if err != nil {
		return 0, err
	}

	s.categoryMutex.Lock()
	s.categoryIDs[category] = id
	s.categoryMutex.Unlock()
	return id, nil
}

func (s *SQLiteStorage) getMatchCategoryIDTx(ctx context.Context, q querier, category model.MatchCategory) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, `SELECT id FROM match_categories WHERE name = ?`, string(category)).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: match category %q", common.ErrNotFound, category)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query match category: %w", err)
	}
	return id, nil
}

// ListMatchCategories returns every seeded category keyed to its row ID.
func (s *SQLiteStorage) ListMatchCategories(ctx context.Context) (map[model.MatchCategory]int64, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.listMatchCategoriesTx(ctx, s.db)
}

func (s *SQLiteStorage) listMatchCategoriesTx(ctx context.Context, q querier) (map[model.MatchCategory]int64, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, name FROM match_categories ORDER BY display_order`)
	if err != nil {
		return nil, fmt.Errorf("failed to query match categories: %w", err)
	}
	defer rows.Close()

	categories := make(map[model.MatchCategory]int64)
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan match category: %w", err)
		}
		categories[model.MatchCategory(name)] = id
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating match categories: %w", err)
	}
	return categories, nil
}
