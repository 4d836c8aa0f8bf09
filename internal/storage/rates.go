package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/mlindqvist/catcost/internal/common"
	"github.com/mlindqvist/catcost/internal/model"
	"github.com/mlindqvist/catcost/internal/service"
)

const rateColumns = `id, translator_id, client_id, language_pair_id, match_category_id,
	rate_per_word, minimum_fee, minimum_fee_enabled, currency, created_at, updated_at`

// SaveRate inserts a rate, or updates the existing row for the same
// (translator, pair, category, client) tuple. The unique indexes guarantee at
// most one such row exists.
func (s *SQLiteStorage) SaveRate(ctx context.Context, rate *model.Rate) (*model.Rate, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateRate(rate); err != nil {
		return nil, err
	}
	return s.saveRateTx(ctx, s.db, rate)
}

func (s *SQLiteStorage) saveRateTx(ctx context.Context, q querier, rate *model.Rate) (*model.Rate, error) {
	rate.Normalize()

	update := s.sq.Update("translator_rates").
		Set("rate_per_word", rate.RatePerWord.String()).
		Set("minimum_fee", rate.MinimumFee.String()).
		Set("minimum_fee_enabled", rate.MinimumFeeEnabled).
		Set("currency", rate.Currency).
		Set("updated_at", sq.Expr("CURRENT_TIMESTAMP")).
		Where(sq.Eq{
			"translator_id":     rate.TranslatorID,
			"language_pair_id":  rate.LanguagePairID,
			"match_category_id": rate.MatchCategoryID,
			"client_id":         rate.ClientID,
		})
	query, args, err := update.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build rate update: %w", err)
	}

	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update rate: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check rate update: %w", err)
	}
	if affected > 0 {
		return s.findRateByTupleTx(ctx, q, rate)
	}

	insert := s.sq.Insert("translator_rates").
		Columns("translator_id", "client_id", "language_pair_id", "match_category_id",
			"rate_per_word", "minimum_fee", "minimum_fee_enabled", "currency").
		Values(rate.TranslatorID, rate.ClientID, rate.LanguagePairID, rate.MatchCategoryID,
			rate.RatePerWord.String(), rate.MinimumFee.String(), rate.MinimumFeeEnabled, rate.Currency)
	query, args, err = insert.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build rate insert: %w", err)
	}

	result, err = q.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to insert rate: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get rate id: %w", err)
	}

	slog.Debug("saved rate",
		"id", id,
		"translator", rate.TranslatorID,
		"category", rate.MatchCategoryID,
		"rate", rate.RatePerWord.StringFixed(4))
	return s.getRateTx(ctx, q, id)
}

func (s *SQLiteStorage) findRateByTupleTx(ctx context.Context, q querier, rate *model.Rate) (*model.Rate, error) {
	builder := s.sq.Select(rateColumns).From("translator_rates").Where(sq.Eq{
		"translator_id":     rate.TranslatorID,
		"language_pair_id":  rate.LanguagePairID,
		"match_category_id": rate.MatchCategoryID,
		"client_id":         rate.ClientID,
	})
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build rate query: %w", err)
	}
	return scanRate(q.QueryRowContext(ctx, query, args...))
}

// GetRate returns one rate by ID.
func (s *SQLiteStorage) GetRate(ctx context.Context, id int64) (*model.Rate, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getRateTx(ctx, s.db, id)
}

func (s *SQLiteStorage) getRateTx(ctx context.Context, q querier, id int64) (*model.Rate, error) {
	query, args, err := s.sq.Select(rateColumns).From("translator_rates").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build rate query: %w", err)
	}
	return scanRate(q.QueryRowContext(ctx, query, args...))
}

func scanRate(row *sql.Row) (*model.Rate, error) {
	var r model.Rate
	var clientID sql.NullInt64
	var perWord, minimumFee string

	err := row.Scan(&r.ID, &r.TranslatorID, &clientID, &r.LanguagePairID, &r.MatchCategoryID,
		&perWord, &minimumFee, &r.MinimumFeeEnabled, &r.Currency, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: rate", common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan rate: %w", err)
	}

	if clientID.Valid {
		v := clientID.Int64
		r.ClientID = &v
	}
	if r.RatePerWord, err = decimal.NewFromString(perWord); err != nil {
		return nil, fmt.Errorf("corrupt rate_per_word %q: %w", perWord, err)
	}
	if r.MinimumFee, err = decimal.NewFromString(minimumFee); err != nil {
		return nil, fmt.Errorf("corrupt minimum_fee %q: %w", minimumFee, err)
	}
	return &r, nil
}

// ListRates returns rates matching the filter, newest first.
func (s *SQLiteStorage) ListRates(ctx context.Context, filter service.RateFilter) ([]model.Rate, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.listRatesTx(ctx, s.db, filter)
}

func (s *SQLiteStorage) listRatesTx(ctx context.Context, q querier, filter service.RateFilter) ([]model.Rate, error) {
	builder := s.sq.Select(rateColumns).From("translator_rates").OrderBy("updated_at DESC", "id DESC")
	if filter.TranslatorID != nil {
		builder = builder.Where(sq.Eq{"translator_id": *filter.TranslatorID})
	}
	if filter.ClientID != nil {
		builder = builder.Where(sq.Eq{"client_id": *filter.ClientID})
	}
	if filter.LanguagePairID != nil {
		builder = builder.Where(sq.Eq{"language_pair_id": *filter.LanguagePairID})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build rates query: %w", err)
	}
	return queryRates(ctx, q, query, args)
}

// FindApplicableRates returns every rate usable for one calculation: the
// translator's general rates for the pair plus, when a client is given, that
// client's overrides. Resolution between them happens in the pricing layer.
func (s *SQLiteStorage) FindApplicableRates(ctx context.Context, translatorID, languagePairID int64, clientID *int64) ([]model.Rate, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.findApplicableRatesTx(ctx, s.db, translatorID, languagePairID, clientID)
}

func (s *SQLiteStorage) findApplicableRatesTx(ctx context.Context, q querier, translatorID, languagePairID int64, clientID *int64) ([]model.Rate, error) {
	scope := sq.Sqlizer(sq.Eq{"client_id": nil})
	if clientID != nil {
		scope = sq.Or{sq.Eq{"client_id": nil}, sq.Eq{"client_id": *clientID}}
	}

	builder := s.sq.Select(rateColumns).From("translator_rates").
		Where(sq.Eq{"translator_id": translatorID, "language_pair_id": languagePairID}).
		Where(scope).
		OrderBy("match_category_id")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build applicable rates query: %w", err)
	}
	return queryRates(ctx, q, query, args)
}

func queryRates(ctx context.Context, q querier, query string, args []any) ([]model.Rate, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rates: %w", err)
	}
	defer rows.Close()

	var rates []model.Rate
	for rows.Next() {
		var r model.Rate
		var clientID sql.NullInt64
		var perWord, minimumFee string

		if err := rows.Scan(&r.ID, &r.TranslatorID, &clientID, &r.LanguagePairID, &r.MatchCategoryID,
			&perWord, &minimumFee, &r.MinimumFeeEnabled, &r.Currency, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rate: %w", err)
		}

		if clientID.Valid {
			v := clientID.Int64
			r.ClientID = &v
		}
		if r.RatePerWord, err = decimal.NewFromString(perWord); err != nil {
			return nil, fmt.Errorf("corrupt rate_per_word %q: %w", perWord, err)
		}
		if r.MinimumFee, err = decimal.NewFromString(minimumFee); err != nil {
			return nil, fmt.Errorf("corrupt minimum_fee %q: %w", minimumFee, err)
		}
		rates = append(rates, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rates: %w", err)
	}
	return rates, nil
}

// DeleteRate removes one rate by ID.
func (s *SQLiteStorage) DeleteRate(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return s.deleteRateTx(ctx, s.db, id)
}

func (s *SQLiteStorage) deleteRateTx(ctx context.Context, q querier, id int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM translator_rates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete rate: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: rate %d", common.ErrNotFound, id)
	}
	return nil
}
