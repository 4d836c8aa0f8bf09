package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/mlindqvist/catcost/internal/model"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS translators (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT UNIQUE NOT NULL,
					email TEXT,
					company TEXT,
					is_active INTEGER NOT NULL DEFAULT 1,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS clients (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT UNIQUE NOT NULL,
					contact TEXT,
					is_active INTEGER NOT NULL DEFAULT 1,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS language_pairs (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					source_language TEXT NOT NULL,
					target_language TEXT NOT NULL,
					UNIQUE(source_language, target_language)
				)`,

				`CREATE TABLE IF NOT EXISTS match_categories (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT UNIQUE NOT NULL,
					display_order INTEGER NOT NULL
				)`,

				`CREATE TABLE IF NOT EXISTS translator_rates (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					translator_id INTEGER NOT NULL,
					client_id INTEGER,
					language_pair_id INTEGER NOT NULL,
					match_category_id INTEGER NOT NULL,
					rate_per_word TEXT NOT NULL,
					minimum_fee TEXT NOT NULL DEFAULT '0.00',
					minimum_fee_enabled INTEGER NOT NULL DEFAULT 0,
					currency TEXT NOT NULL DEFAULT 'EUR',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (translator_id) REFERENCES translators(id) ON DELETE CASCADE,
					FOREIGN KEY (client_id) REFERENCES clients(id) ON DELETE CASCADE,
					FOREIGN KEY (language_pair_id) REFERENCES language_pairs(id),
					FOREIGN KEY (match_category_id) REFERENCES match_categories(id)
				)`,
				`CREATE INDEX idx_rates_translator ON translator_rates(translator_id)`,
				`CREATE INDEX idx_rates_pair ON translator_rates(language_pair_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}

			insert := `INSERT INTO match_categories (name, display_order) VALUES (?, ?)`
			for _, category := range model.AllCategories() {
				if _, err := tx.Exec(insert, string(category), category.DisplayOrder()); err != nil {
					return fmt.Errorf("failed to seed match category %s: %w", category, err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add projects and analysis snapshots",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS projects (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT UNIQUE NOT NULL,
					translator_id INTEGER NOT NULL,
					client_id INTEGER,
					source_language TEXT,
					target_language TEXT,
					mt_percentage INTEGER NOT NULL DEFAULT 70,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (translator_id) REFERENCES translators(id),
					FOREIGN KEY (client_id) REFERENCES clients(id)
				)`,

				`CREATE TABLE IF NOT EXISTS project_analyses (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					project_id INTEGER NOT NULL,
					filename TEXT NOT NULL,
					analysis TEXT NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
				)`,
				`CREATE INDEX idx_analyses_project ON project_analyses(project_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Enforce one rate per translator, pair, category and client",
		Up: func(tx *sql.Tx) error {
			// SQLite treats NULLs as distinct in unique indexes, so
			// general rates need their own partial index.
			queries := []string{
				`CREATE UNIQUE INDEX IF NOT EXISTS idx_rates_unique_client
					ON translator_rates(translator_id, language_pair_id, match_category_id, client_id)
					WHERE client_id IS NOT NULL`,
				`CREATE UNIQUE INDEX IF NOT EXISTS idx_rates_unique_general
					ON translator_rates(translator_id, language_pair_id, match_category_id)
					WHERE client_id IS NULL`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
}

// SchemaVersion returns the database's current schema version.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}

// Migrate applies all pending migrations in order.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
