package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlindqvist/catcost/internal/model"
)

func analysisWithWords(t *testing.T, words map[model.MatchCategory]int) *model.FileAnalysis {
	t.Helper()
	fa := model.NewFileAnalysis("report.docx", "en", "de")
	for category, n := range words {
		fa.SetCategory(category, model.NewCategoryStats(category, 1, n, 0, 0, 0))
	}
	return fa
}

func flatRates(t *testing.T, perWord string, categories ...model.MatchCategory) map[model.MatchCategory]model.Rate {
	t.Helper()
	rates := make(map[model.MatchCategory]model.Rate, len(categories))
	for i, category := range categories {
		rates[category] = model.Rate{
			ID:              int64(i + 1),
			TranslatorID:    1,
			LanguagePairID:  1,
			MatchCategoryID: int64(category.DisplayOrder()),
			RatePerWord:     decimal.RequireFromString(perWord),
		}
	}
	return rates
}

func money(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	return decimal.RequireFromString(s)
}

func TestEngine_Calculate_FlatRateAllCategories(t *testing.T) {
	words := map[model.MatchCategory]int{}
	for i, category := range model.StandardCategories() {
		words[category] = 5 * (i + 1)
	}
	analysis := analysisWithWords(t, words)
	rates := flatRates(t, "0.10", model.StandardCategories()...)

	breakdown, err := NewEngine(NewStaticRates()).Calculate(analysis, rates, Options{})
	require.NoError(t, err)

	assert.True(t, money(t, "18.00").Equal(breakdown.Subtotal), "subtotal %s", breakdown.Subtotal)
	assert.True(t, money(t, "18.00").Equal(breakdown.Total))
	assert.False(t, breakdown.MinimumFeeApplied)
	assert.Len(t, breakdown.Lines, 8)
	assert.Empty(t, breakdown.Warnings)
}

func TestEngine_Calculate_TMMTSplit(t *testing.T) {
	analysis := analysisWithWords(t, map[model.MatchCategory]int{
		model.CategoryExactMatch: 100,
	})
	rates := flatRates(t, "0.05", model.CategoryExactMatch)
	mtRate := flatRates(t, "0.02", model.CategoryMTMatch)
	rates[model.CategoryMTMatch] = mtRate[model.CategoryMTMatch]

	breakdown, err := NewEngine(NewStaticRates()).Calculate(analysis, rates, Options{MTPercentage: 70})
	require.NoError(t, err)
	require.Len(t, breakdown.Lines, 1)

	line := breakdown.Lines[0]
	assert.True(t, line.HasSplit)
	assert.Equal(t, 30, line.TMWords)
	assert.Equal(t, 70, line.MTWords)
	assert.True(t, money(t, "1.50").Equal(line.TMCost), "tm cost %s", line.TMCost)
	assert.True(t, money(t, "1.40").Equal(line.MTCost), "mt cost %s", line.MTCost)
	assert.True(t, money(t, "2.90").Equal(breakdown.Total), "total %s", breakdown.Total)
}

func TestEngine_Calculate_MTRateFallsBackToTMRate(t *testing.T) {
	analysis := analysisWithWords(t, map[model.MatchCategory]int{
		model.CategoryExactMatch: 100,
	})
	rates := flatRates(t, "0.05", model.CategoryExactMatch)

	breakdown, err := NewEngine(NewStaticRates()).Calculate(analysis, rates, Options{MTPercentage: 70})
	require.NoError(t, err)
	require.Len(t, breakdown.Lines, 1)

	// 30 and 70 words both at 0.05.
	assert.True(t, money(t, "5.00").Equal(breakdown.Total), "total %s", breakdown.Total)
	assert.NotEmpty(t, breakdown.Warnings)
}

func TestEngine_Calculate_NoSplitAtZeroMTPercentage(t *testing.T) {
	analysis := analysisWithWords(t, map[model.MatchCategory]int{
		model.CategoryExactMatch: 100,
	})
	rates := flatRates(t, "0.05", model.CategoryExactMatch)

	breakdown, err := NewEngine(NewStaticRates()).Calculate(analysis, rates, Options{MTPercentage: 0})
	require.NoError(t, err)
	require.Len(t, breakdown.Lines, 1)
	assert.False(t, breakdown.Lines[0].HasSplit)
	assert.True(t, money(t, "5.00").Equal(breakdown.Total))
}

func TestEngine_Calculate_MinimumFee(t *testing.T) {
	tests := []struct {
		name        string
		words       int
		minimumFee  string
		wantTotal   string
		wantApplied bool
	}{
		{"floor applies", 400, "50.00", "50.00", true},
		{"subtotal above floor", 600, "50.00", "60.00", false},
		{"floor equals subtotal", 500, "50.00", "50.00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := analysisWithWords(t, map[model.MatchCategory]int{
				model.CategoryNoMatch: tt.words,
			})
			rates := flatRates(t, "0.10", model.CategoryNoMatch)
			fee := money(t, tt.minimumFee)

			breakdown, err := NewEngine(NewStaticRates()).Calculate(analysis, rates, Options{MinimumFee: &fee})
			require.NoError(t, err)
			assert.True(t, money(t, tt.wantTotal).Equal(breakdown.Total), "total %s", breakdown.Total)
			assert.Equal(t, tt.wantApplied, breakdown.MinimumFeeApplied)
		})
	}
}

func TestEngine_Calculate_DefaultRateFallback(t *testing.T) {
	analysis := analysisWithWords(t, map[model.MatchCategory]int{
		model.CategoryNoMatch: 100,
	})

	breakdown, err := NewEngine(NewStaticRates()).Calculate(analysis, nil, Options{})
	require.NoError(t, err)
	require.Len(t, breakdown.Lines, 1)
	assert.True(t, breakdown.Lines[0].UsedDefaultRate)
	assert.True(t, money(t, "12.00").Equal(breakdown.Total), "total %s", breakdown.Total)
	assert.NotEmpty(t, breakdown.Warnings)
}

func TestEngine_Calculate_NoRatesNoDefaults(t *testing.T) {
	analysis := analysisWithWords(t, map[model.MatchCategory]int{
		model.CategoryNoMatch: 100,
	})

	_, err := NewEngine(nil).Calculate(analysis, nil, Options{})
	require.Error(t, err)
}

func TestEngine_Calculate_SkipsZeroWordCategories(t *testing.T) {
	analysis := analysisWithWords(t, map[model.MatchCategory]int{
		model.CategoryNoMatch:     50,
		model.CategoryRepetitions: 0,
	})
	rates := flatRates(t, "0.10", model.StandardCategories()...)

	breakdown, err := NewEngine(NewStaticRates()).Calculate(analysis, rates, Options{})
	require.NoError(t, err)
	assert.Len(t, breakdown.Lines, 1)
	assert.Equal(t, model.CategoryNoMatch, breakdown.Lines[0].Category)
}

func TestEngine_Calculate_RoundsHalfUp(t *testing.T) {
	analysis := analysisWithWords(t, map[model.MatchCategory]int{
		model.CategoryNoMatch: 5,
	})
	// 5 x 0.1250 = 0.625, rounds up to 0.63.
	rates := flatRates(t, "0.1250", model.CategoryNoMatch)

	breakdown, err := NewEngine(NewStaticRates()).Calculate(analysis, rates, Options{})
	require.NoError(t, err)
	assert.Equal(t, "0.63", breakdown.Total.StringFixed(2))
}

func TestValidateInputs(t *testing.T) {
	analysis := analysisWithWords(t, map[model.MatchCategory]int{
		model.CategoryExactMatch: 100,
		model.CategoryNoMatch:    50,
	})
	rates := flatRates(t, "0.10", model.CategoryExactMatch)

	result := ValidateInputs(analysis, rates, 70)
	assert.True(t, result.Valid())
	// No Match has no rate and the MT share has no MT rate.
	assert.Len(t, result.Warnings, 2)

	result = ValidateInputs(nil, rates, 70)
	assert.False(t, result.Valid())

	result = ValidateInputs(analysis, rates, 150)
	assert.False(t, result.Valid())

	unusable := model.NewFileAnalysis("", "", "")
	result = ValidateInputs(unusable, rates, 70)
	assert.False(t, result.Valid())
}
