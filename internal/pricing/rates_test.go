package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlindqvist/catcost/internal/model"
)

func ptr(v int64) *int64 { return &v }

func TestResolveRate_Hierarchy(t *testing.T) {
	general := model.Rate{
		ID: 1, TranslatorID: 1, LanguagePairID: 2, MatchCategoryID: 3,
		RatePerWord: decimal.RequireFromString("0.10"),
	}
	clientSpecific := model.Rate{
		ID: 2, TranslatorID: 1, LanguagePairID: 2, MatchCategoryID: 3,
		ClientID:    ptr(7),
		RatePerWord: decimal.RequireFromString("0.08"),
	}
	otherTriple := model.Rate{
		ID: 3, TranslatorID: 1, LanguagePairID: 2, MatchCategoryID: 4,
		RatePerWord: decimal.RequireFromString("0.99"),
	}
	rates := []model.Rate{otherTriple, general, clientSpecific}

	tests := []struct {
		name     string
		clientID *int64
		wantID   int64
	}{
		{"client specific wins", ptr(7), 2},
		{"no client gets general", nil, 1},
		{"unknown client falls back to general", ptr(99), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveRate(rates, 1, 2, 3, tt.clientID)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestResolveRate_NoMatch(t *testing.T) {
	rates := []model.Rate{
		{ID: 1, TranslatorID: 1, LanguagePairID: 2, MatchCategoryID: 3},
	}

	assert.Nil(t, ResolveRate(rates, 9, 2, 3, nil), "wrong translator")
	assert.Nil(t, ResolveRate(rates, 1, 9, 3, nil), "wrong pair")
	assert.Nil(t, ResolveRate(rates, 1, 2, 9, nil), "wrong category")
	assert.Nil(t, ResolveRate(nil, 1, 2, 3, nil), "empty set")
}

func TestResolveRate_ClientSpecificOnlyNeedsMatchingClient(t *testing.T) {
	rates := []model.Rate{
		{ID: 1, TranslatorID: 1, LanguagePairID: 2, MatchCategoryID: 3, ClientID: ptr(7)},
	}

	got := ResolveRate(rates, 1, 2, 3, ptr(7))
	require.NotNil(t, got)
	assert.Equal(t, int64(1), got.ID)

	assert.Nil(t, ResolveRate(rates, 1, 2, 3, nil), "client rate never serves as general")
	assert.Nil(t, ResolveRate(rates, 1, 2, 3, ptr(8)))
}

func TestStaticRates_Table(t *testing.T) {
	defaults := NewStaticRates()

	tests := []struct {
		category model.MatchCategory
		want     string
	}{
		{model.CategoryContextMatch, "0.03"},
		{model.CategoryRepetitions, "0.03"},
		{model.CategoryExactMatch, "0.05"},
		{model.CategoryHighFuzzy, "0.08"},
		{model.CategoryMediumHighFuzzy, "0.10"},
		{model.CategoryMediumFuzzy, "0.11"},
		{model.CategoryLowFuzzy, "0.12"},
		{model.CategoryNoMatch, "0.12"},
		{model.CategoryMTMatch, "0.02"},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			want := decimal.RequireFromString(tt.want)
			assert.True(t, want.Equal(defaults.DefaultRate(tt.category)))
		})
	}

	fallback := defaults.DefaultRate(model.MatchCategory("Unknown"))
	assert.True(t, decimal.RequireFromString("0.12").Equal(fallback))
}

func TestStaticRates_Overrides(t *testing.T) {
	defaults := NewStaticRatesFrom(map[string]string{
		"No Match":  "0.15",
		"Not A Cat": "0.50",
		"100%":      "garbage",
		"MT Match":  "-0.01",
	})

	assert.True(t, decimal.RequireFromString("0.15").Equal(defaults.DefaultRate(model.CategoryNoMatch)))
	assert.True(t, decimal.RequireFromString("0.05").Equal(defaults.DefaultRate(model.CategoryExactMatch)), "unparseable override ignored")
	assert.True(t, decimal.RequireFromString("0.02").Equal(defaults.DefaultRate(model.CategoryMTMatch)), "negative override ignored")
}
