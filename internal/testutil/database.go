// Package testutil provides fixtures for tests that need a migrated database
// with translators, language pairs and rates already in place.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mlindqvist/catcost/internal/model"
	"github.com/mlindqvist/catcost/internal/service"
	"github.com/mlindqvist/catcost/internal/storage"
)

// TestDB wraps an in-memory migrated store with fixture helpers.
type TestDB struct {
	Storage service.Storage
	t       *testing.T
}

// SetupTestDB creates an in-memory database, runs migrations, and registers
// cleanup on the test.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{Storage: store, t: t}
}

// MustCreateTranslator creates a translator or fails the test.
func (db *TestDB) MustCreateTranslator(name string) *model.Translator {
	db.t.Helper()

	created, err := db.Storage.CreateTranslator(context.Background(), &model.Translator{
		Name:     name,
		IsActive: true,
	})
	if err != nil {
		db.t.Fatalf("failed to create translator %q: %v", name, err)
	}
	return created
}

// MustCreateClient creates a client or fails the test.
func (db *TestDB) MustCreateClient(name string) *model.Client {
	db.t.Helper()

	created, err := db.Storage.CreateClient(context.Background(), &model.Client{
		Name:     name,
		IsActive: true,
	})
	if err != nil {
		db.t.Fatalf("failed to create client %q: %v", name, err)
	}
	return created
}

// MustCreatePair resolves a language pair or fails the test.
func (db *TestDB) MustCreatePair(source, target string) *model.LanguagePair {
	db.t.Helper()

	pair, err := db.Storage.GetOrCreateLanguagePair(context.Background(), source, target)
	if err != nil {
		db.t.Fatalf("failed to create pair %s>%s: %v", source, target, err)
	}
	return pair
}

// MustSeedRates stores one rate per category from a name-to-rate map, scoped
// to the given translator and pair. A nil clientID seeds general rates.
func (db *TestDB) MustSeedRates(translatorID, pairID int64, clientID *int64, perWord map[string]string) {
	db.t.Helper()

	ctx := context.Background()
	for name, raw := range perWord {
		category, ok := model.CategoryFromName(name)
		if !ok {
			db.t.Fatalf("unknown match category %q", name)
		}
		categoryID, err := db.Storage.GetMatchCategoryID(ctx, category)
		if err != nil {
			db.t.Fatalf("failed to look up category %q: %v", name, err)
		}
		rate, err := decimal.NewFromString(raw)
		if err != nil {
			db.t.Fatalf("bad rate %q for %q: %v", raw, name, err)
		}
		if _, err := db.Storage.SaveRate(ctx, &model.Rate{
			TranslatorID:    translatorID,
			ClientID:        clientID,
			LanguagePairID:  pairID,
			MatchCategoryID: categoryID,
			RatePerWord:     rate,
		}); err != nil {
			db.t.Fatalf("failed to seed rate for %q: %v", name, err)
		}
	}
}

// WithTransaction runs fn inside a transaction that is always rolled back.
func (db *TestDB) WithTransaction(fn func(tx service.Transaction) error) error {
	tx, err := db.Storage.BeginTx(context.Background())
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	return fn(tx)
}
