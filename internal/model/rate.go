package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// LanguagePair identifies a translation direction. Codes are lower-cased on
// construction; equality is by the two codes.
type LanguagePair struct {
	SourceLanguage string
	TargetLanguage string
	ID             int64
}

// NewLanguagePair normalizes the language codes into a pair.
func NewLanguagePair(source, target string) LanguagePair {
	return LanguagePair{
		SourceLanguage: strings.ToLower(strings.TrimSpace(source)),
		TargetLanguage: strings.ToLower(strings.TrimSpace(target)),
	}
}

// PairCode returns the pair as "source>target".
func (p LanguagePair) PairCode() string {
	return fmt.Sprintf("%s>%s", p.SourceLanguage, p.TargetLanguage)
}

// Valid reports whether both codes are present and distinct.
func (p LanguagePair) Valid() bool {
	return p.SourceLanguage != "" &&
		p.TargetLanguage != "" &&
		p.SourceLanguage != p.TargetLanguage
}

// Rate is one priced cell of the rate table: per-word price for a
// (translator, language pair, match category) triple, optionally scoped to a
// client. ClientID nil means the translator's general fallback rate.
//
// At most one rate may exist per (translator, pair, category, client) tuple;
// the storage layer enforces that with a unique index.
type Rate struct {
	CreatedAt         time.Time
	UpdatedAt         time.Time
	ClientID          *int64
	Currency          string
	RatePerWord       decimal.Decimal
	MinimumFee        decimal.Decimal
	ID                int64
	TranslatorID      int64
	LanguagePairID    int64
	MatchCategoryID   int64
	MinimumFeeEnabled bool
}

// Normalize clamps monetary fields to zero and quantizes them: 4 decimal
// places for the per-word rate, 2 for the minimum fee.
func (r *Rate) Normalize() {
	if r.RatePerWord.IsNegative() {
		r.RatePerWord = decimal.Zero
	}
	if r.MinimumFee.IsNegative() {
		r.MinimumFee = decimal.Zero
	}
	r.RatePerWord = r.RatePerWord.Round(4)
	r.MinimumFee = r.MinimumFee.Round(2)
	if r.Currency == "" {
		r.Currency = "EUR"
	}
}

// IsClientSpecific reports whether the rate is scoped to one client.
func (r *Rate) IsClientSpecific() bool {
	return r.ClientID != nil
}

// Validate checks the identifying fields.
func (r *Rate) Validate() error {
	if r.TranslatorID <= 0 {
		return fmt.Errorf("translator id is required")
	}
	if r.LanguagePairID <= 0 {
		return fmt.Errorf("language pair id is required")
	}
	if r.MatchCategoryID <= 0 {
		return fmt.Errorf("match category id is required")
	}
	if r.RatePerWord.IsNegative() {
		return fmt.Errorf("rate per word must not be negative")
	}
	return nil
}

func (r *Rate) String() string {
	scope := "general"
	if r.IsClientSpecific() {
		scope = fmt.Sprintf("client %d", *r.ClientID)
	}
	return fmt.Sprintf("%s/word (%s)", r.RatePerWord.StringFixed(4), scope)
}
