package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mlindqvist/catcost/internal/common"
	"github.com/mlindqvist/catcost/internal/config"
	"github.com/mlindqvist/catcost/internal/model"
	"github.com/mlindqvist/catcost/internal/pricing"
	"github.com/mlindqvist/catcost/internal/service"
	"github.com/mlindqvist/catcost/internal/storage"
)

// initStorage opens the configured database and brings the schema up to date.
func initStorage(ctx context.Context) (service.Storage, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return nil, nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, cfg, nil
}

// requireTranslator looks up a translator by name with a friendly error.
func requireTranslator(ctx context.Context, store service.Storage, name string) (*model.Translator, error) {
	translator, err := store.GetTranslatorByName(ctx, name)
	if errors.Is(err, common.ErrNotFound) {
		return nil, common.NewUserError(
			fmt.Sprintf("Translator %q does not exist. Add one with: catcost translators add %q", name, name), err)
	}
	return translator, err
}

// requireClient looks up a client by name, or returns nil when no name given.
func requireClient(ctx context.Context, store service.Storage, name string) (*model.Client, error) {
	if name == "" {
		return nil, nil
	}
	client, err := store.GetClientByName(ctx, name)
	if errors.Is(err, common.ErrNotFound) {
		return nil, common.NewUserError(
			fmt.Sprintf("Client %q does not exist. Add one with: catcost clients add %q", name, name), err)
	}
	return client, err
}

// parsePairFlag splits a "src>tgt" flag value.
func parsePairFlag(value string) (source, target string, err error) {
	before, after, found := strings.Cut(value, ">")
	source = strings.TrimSpace(before)
	target = strings.TrimSpace(after)
	if !found || source == "" || target == "" {
		return "", "", fmt.Errorf("%w: language pair must look like en>de, got %q", common.ErrInvalidLanguagePair, value)
	}
	return source, target, nil
}

// resolveRatesFor builds the per-category rate table for one calculation,
// applying the client-over-general hierarchy.
func resolveRatesFor(ctx context.Context, store service.Storage, translatorID, languagePairID int64, clientID *int64) (map[model.MatchCategory]model.Rate, error) {
	candidates, err := store.FindApplicableRates(ctx, translatorID, languagePairID, clientID)
	if err != nil {
		return nil, err
	}
	categoryIDs, err := store.ListMatchCategories(ctx)
	if err != nil {
		return nil, err
	}

	rates := make(map[model.MatchCategory]model.Rate)
	for category, categoryID := range categoryIDs {
		if rate := pricing.ResolveRate(candidates, translatorID, languagePairID, categoryID, clientID); rate != nil {
			rates[category] = *rate
		}
	}
	return rates, nil
}

// clientIDOf returns the optional ID of a possibly nil client.
func clientIDOf(client *model.Client) *int64 {
	if client == nil {
		return nil
	}
	return &client.ID
}
