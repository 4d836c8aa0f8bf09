package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	sq "github.com/Masterminds/squirrel"

	"github.com/mlindqvist/catcost/internal/model"
	"github.com/mlindqvist/catcost/internal/service"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db            *sql.DB
	sq            sq.StatementBuilderType
	categoryIDs   map[model.MatchCategory]int64
	dbPath        string
	categoryMutex sync.RWMutex
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{
		db:          db,
		sq:          sq.StatementBuilder,
		dbPath:      dbPath,
		categoryIDs: make(map[model.MatchCategory]int64),
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new database transaction.
func (s *SQLiteStorage) BeginTx(ctx context.Context) (service.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	return &sqliteTransaction{
		tx:      tx,
		storage: s,
	}, nil
}

// querier is satisfied by both *sql.DB and *sql.Tx so entity methods can run
// inside and outside transactions.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// sqliteTransaction wraps sql.Tx to implement service.Transaction.
type sqliteTransaction struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTransaction) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTransaction) Rollback() error {
	return t.tx.Rollback()
}

func (t *sqliteTransaction) CreateTranslator(ctx context.Context, translator *model.Translator) (*model.Translator, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateTranslator(translator); err != nil {
		return nil, err
	}
	return t.storage.createTranslatorTx(ctx, t.tx, translator)
}

func (t *sqliteTransaction) GetTranslator(ctx context.Context, id int64) (*model.Translator, error) {
	return t.storage.getTranslatorTx(ctx, t.tx, id)
}

func (t *sqliteTransaction) GetTranslatorByName(ctx context.Context, name string) (*model.Translator, error) {
	return t.storage.getTranslatorByNameTx(ctx, t.tx, name)
}

func (t *sqliteTransaction) ListTranslators(ctx context.Context) ([]model.Translator, error) {
	return t.storage.listTranslatorsTx(ctx, t.tx)
}

func (t *sqliteTransaction) UpdateTranslator(ctx context.Context, translator *model.Translator) error {
	if err := validateTranslator(translator); err != nil {
		return err
	}
	return t.storage.updateTranslatorTx(ctx, t.tx, translator)
}

func (t *sqliteTransaction) DeleteTranslator(ctx context.Context, id int64) error {
	return t.storage.deleteTranslatorTx(ctx, t.tx, id)
}

func (t *sqliteTransaction) CreateClient(ctx context.Context, client *model.Client) (*model.Client, error) {
	if err := validateClient(client); err != nil {
		return nil, err
	}
	return t.storage.createClientTx(ctx, t.tx, client)
}

func (t *sqliteTransaction) GetClient(ctx context.Context, id int64) (*model.Client, error) {
	return t.storage.getClientTx(ctx, t.tx, id)
}

func (t *sqliteTransaction) GetClientByName(ctx context.Context, name string) (*model.Client, error) {
	return t.storage.getClientByNameTx(ctx, t.tx, name)
}

func (t *sqliteTransaction) ListClients(ctx context.Context) ([]model.Client, error) {
	return t.storage.listClientsTx(ctx, t.tx)
}

func (t *sqliteTransaction) DeleteClient(ctx context.Context, id int64) error {
	return t.storage.deleteClientTx(ctx, t.tx, id)
}

func (t *sqliteTransaction) GetOrCreateLanguagePair(ctx context.Context, source, target string) (*model.LanguagePair, error) {
	return t.storage.getOrCreateLanguagePairTx(ctx, t.tx, source, target)
}

func (t *sqliteTransaction) GetLanguagePair(ctx context.Context, id int64) (*model.LanguagePair, error) {
	return t.storage.getLanguagePairTx(ctx, t.tx, id)
}

func (t *sqliteTransaction) ListLanguagePairs(ctx context.Context) ([]model.LanguagePair, error) {
	return t.storage.listLanguagePairsTx(ctx, t.tx)
}

func (t *sqliteTransaction) GetMatchCategoryID(ctx context.Context, category model.MatchCategory) (int64, error) {
	return t.storage.getMatchCategoryIDTx(ctx, t.tx, category)
}

func (t *sqliteTransaction) ListMatchCategories(ctx context.Context) (map[model.MatchCategory]int64, error) {
	return t.storage.listMatchCategoriesTx(ctx, t.tx)
}

func (t *sqliteTransaction) SaveRate(ctx context.Context, rate *model.Rate) (*model.Rate, error) {
	if err := validateRate(rate); err != nil {
		return nil, err
	}
	return t.storage.saveRateTx(ctx, t.tx, rate)
}

func (t *sqliteTransaction) GetRate(ctx context.Context, id int64) (*model.Rate, error) {
	return t.storage.getRateTx(ctx, t.tx, id)
}

func (t *sqliteTransaction) ListRates(ctx context.Context, filter service.RateFilter) ([]model.Rate, error) {
	return t.storage.listRatesTx(ctx, t.tx, filter)
}

func (t *sqliteTransaction) FindApplicableRates(ctx context.Context, translatorID, languagePairID int64, clientID *int64) ([]model.Rate, error) {
	return t.storage.findApplicableRatesTx(ctx, t.tx, translatorID, languagePairID, clientID)
}

func (t *sqliteTransaction) DeleteRate(ctx context.Context, id int64) error {
	return t.storage.deleteRateTx(ctx, t.tx, id)
}

func (t *sqliteTransaction) CreateProject(ctx context.Context, project *model.Project) (*model.Project, error) {
	if err := validateProject(project); err != nil {
		return nil, err
	}
	return t.storage.createProjectTx(ctx, t.tx, project)
}

func (t *sqliteTransaction) GetProject(ctx context.Context, id int64) (*model.Project, error) {
	return t.storage.getProjectTx(ctx, t.tx, id)
}

func (t *sqliteTransaction) GetProjectByName(ctx context.Context, name string) (*model.Project, error) {
	return t.storage.getProjectByNameTx(ctx, t.tx, name)
}

func (t *sqliteTransaction) ListProjects(ctx context.Context, translatorID *int64) ([]model.Project, error) {
	return t.storage.listProjectsTx(ctx, t.tx, translatorID)
}

func (t *sqliteTransaction) UpdateProject(ctx context.Context, project *model.Project) error {
	if err := validateProject(project); err != nil {
		return err
	}
	return t.storage.updateProjectTx(ctx, t.tx, project)
}

func (t *sqliteTransaction) DeleteProject(ctx context.Context, id int64) error {
	return t.storage.deleteProjectTx(ctx, t.tx, id)
}

func (t *sqliteTransaction) SaveAnalysis(ctx context.Context, projectID int64, analysis *model.FileAnalysis) error {
	if err := validateAnalysis(analysis); err != nil {
		return err
	}
	return t.storage.saveAnalysisTx(ctx, t.tx, projectID, analysis)
}

func (t *sqliteTransaction) GetAnalyses(ctx context.Context, projectID int64) ([]model.FileAnalysis, error) {
	return t.storage.getAnalysesTx(ctx, t.tx, projectID)
}

func (t *sqliteTransaction) DeleteAnalyses(ctx context.Context, projectID int64) error {
	return t.storage.deleteAnalysesTx(ctx, t.tx, projectID)
}

func (t *sqliteTransaction) Migrate(_ context.Context) error {
	// Migrations should not be run within a transaction
	return fmt.Errorf("migrations cannot be run within a transaction")
}

func (t *sqliteTransaction) BeginTx(_ context.Context) (service.Transaction, error) {
	// Nested transactions not supported
	return nil, fmt.Errorf("nested transactions not supported")
}

func (t *sqliteTransaction) Close() error {
	// Transactions should be committed or rolled back, not closed
	return fmt.Errorf("transactions must be committed or rolled back, not closed")
}
