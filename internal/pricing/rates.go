// Package pricing implements rate resolution and cost calculation for
// translation analyses.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/mlindqvist/catcost/internal/model"
)

// ResolveRate picks the applicable rate for a (translator, language pair,
// match category) triple from a candidate set. A rate scoped to the given
// client always wins over the translator's general rate; with no match at
// all it returns nil and the caller substitutes a default rate.
func ResolveRate(rates []model.Rate, translatorID, languagePairID, matchCategoryID int64, clientID *int64) *model.Rate {
	var general *model.Rate
	for i := range rates {
		r := &rates[i]
		if r.TranslatorID != translatorID ||
			r.LanguagePairID != languagePairID ||
			r.MatchCategoryID != matchCategoryID {
			continue
		}
		if r.ClientID == nil {
			if general == nil {
				general = r
			}
			continue
		}
		if clientID != nil && *r.ClientID == *clientID {
			return r
		}
	}
	return general
}

// DefaultRateProvider supplies fallback per-word rates for categories with no
// persisted rate. Implementations are read-only and safe for concurrent use.
type DefaultRateProvider interface {
	DefaultRate(category model.MatchCategory) decimal.Decimal
}

// StaticRates is a DefaultRateProvider backed by a fixed table.
type StaticRates struct {
	rates    map[model.MatchCategory]decimal.Decimal
	fallback decimal.Decimal
}

// NewStaticRates returns the built-in default rate table.
func NewStaticRates() *StaticRates {
	return &StaticRates{
		rates: map[model.MatchCategory]decimal.Decimal{
			model.CategoryContextMatch:    decimal.RequireFromString("0.03"),
			model.CategoryRepetitions:     decimal.RequireFromString("0.03"),
			model.CategoryExactMatch:      decimal.RequireFromString("0.05"),
			model.CategoryHighFuzzy:       decimal.RequireFromString("0.08"),
			model.CategoryMediumHighFuzzy: decimal.RequireFromString("0.10"),
			model.CategoryMediumFuzzy:     decimal.RequireFromString("0.11"),
			model.CategoryLowFuzzy:        decimal.RequireFromString("0.12"),
			model.CategoryNoMatch:         decimal.RequireFromString("0.12"),
			model.CategoryMTMatch:         decimal.RequireFromString("0.02"),
		},
		fallback: decimal.RequireFromString("0.12"),
	}
}

// NewStaticRatesFrom builds a provider from configured overrides keyed by
// category display name. Unknown names and unparseable values are ignored,
// leaving the built-in default in place.
func NewStaticRatesFrom(overrides map[string]string) *StaticRates {
	s := NewStaticRates()
	for name, value := range overrides {
		category, ok := model.CategoryFromName(name)
		if !ok {
			continue
		}
		rate, err := decimal.NewFromString(value)
		if err != nil || rate.IsNegative() {
			continue
		}
		s.rates[category] = rate.Round(4)
	}
	return s
}

// DefaultRate returns the table rate for the category, or the catch-all
// fallback for categories outside the table.
func (s *StaticRates) DefaultRate(category model.MatchCategory) decimal.Decimal {
	if rate, ok := s.rates[category]; ok {
		return rate
	}
	return s.fallback
}
