// Package service defines the interfaces between the application layers.
package service

import (
	"context"
	"io"

	"github.com/mlindqvist/catcost/internal/model"
)

// RateFilter narrows rate listings.
type RateFilter struct {
	TranslatorID   *int64
	ClientID       *int64
	LanguagePairID *int64
	Limit          int
	Offset         int
}

// Storage defines the contract for the persistence layer.
type Storage interface {
	// Translator operations
	CreateTranslator(ctx context.Context, translator *model.Translator) (*model.Translator, error)
	GetTranslator(ctx context.Context, id int64) (*model.Translator, error)
	GetTranslatorByName(ctx context.Context, name string) (*model.Translator, error)
	ListTranslators(ctx context.Context) ([]model.Translator, error)
	UpdateTranslator(ctx context.Context, translator *model.Translator) error
	DeleteTranslator(ctx context.Context, id int64) error

	// Client operations
	CreateClient(ctx context.Context, client *model.Client) (*model.Client, error)
	GetClient(ctx context.Context, id int64) (*model.Client, error)
	GetClientByName(ctx context.Context, name string) (*model.Client, error)
	ListClients(ctx context.Context) ([]model.Client, error)
	DeleteClient(ctx context.Context, id int64) error

	// Language pair operations
	GetOrCreateLanguagePair(ctx context.Context, source, target string) (*model.LanguagePair, error)
	GetLanguagePair(ctx context.Context, id int64) (*model.LanguagePair, error)
	ListLanguagePairs(ctx context.Context) ([]model.LanguagePair, error)

	// Match category operations
	GetMatchCategoryID(ctx context.Context, category model.MatchCategory) (int64, error)
	ListMatchCategories(ctx context.Context) (map[model.MatchCategory]int64, error)

	// Rate operations
	SaveRate(ctx context.Context, rate *model.Rate) (*model.Rate, error)
	GetRate(ctx context.Context, id int64) (*model.Rate, error)
	ListRates(ctx context.Context, filter RateFilter) ([]model.Rate, error)
	FindApplicableRates(ctx context.Context, translatorID, languagePairID int64, clientID *int64) ([]model.Rate, error)
	DeleteRate(ctx context.Context, id int64) error

	// Project operations
	CreateProject(ctx context.Context, project *model.Project) (*model.Project, error)
	GetProject(ctx context.Context, id int64) (*model.Project, error)
	GetProjectByName(ctx context.Context, name string) (*model.Project, error)
	ListProjects(ctx context.Context, translatorID *int64) ([]model.Project, error)
	UpdateProject(ctx context.Context, project *model.Project) error
	DeleteProject(ctx context.Context, id int64) error

	// Analysis snapshots
	SaveAnalysis(ctx context.Context, projectID int64, analysis *model.FileAnalysis) error
	GetAnalyses(ctx context.Context, projectID int64) ([]model.FileAnalysis, error)
	DeleteAnalyses(ctx context.Context, projectID int64) error

	// Database management
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit() error
	Rollback() error
	// Include all Storage methods for use within transaction
	Storage
}

// ReportParser turns raw CAT-tool exports into file analyses.
type ReportParser interface {
	CATTool() string
	Sniff(firstLine, secondLine string) bool
	ParseFile(ctx context.Context, reader io.Reader) ([]*model.FileAnalysis, error)
}
