package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryStats_Normalization(t *testing.T) {
	tests := []struct {
		name        string
		category    MatchCategory
		segments    int
		words       int
		percent     float64
		wantWords   int
		wantPercent float64
	}{
		{
			name:        "negative counts clamp to zero",
			category:    CategoryNoMatch,
			segments:    -3,
			words:       -100,
			percent:     12.5,
			wantWords:   0,
			wantPercent: 12.5,
		},
		{
			name:        "percent above 100 clamps",
			category:    CategoryRepetitions,
			words:       50,
			percent:     250,
			wantWords:   50,
			wantPercent: 100,
		},
		{
			name:        "negative percent clamps",
			category:    CategoryExactMatch,
			words:       10,
			percent:     -1,
			wantWords:   10,
			wantPercent: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewCategoryStats(tt.category, tt.segments, tt.words, 0, 0, tt.percent)
			assert.Equal(t, tt.wantWords, s.Words)
			assert.Equal(t, tt.wantPercent, s.Percent)
			assert.GreaterOrEqual(t, s.Segments, 0)
		})
	}
}

func TestCategoryStats_BreakdownOnlyForExactMatch(t *testing.T) {
	fuzzy := NewCategoryStats(CategoryHighFuzzy, 10, 100, 0, 0, 10)
	fuzzy.SetBreakdown(60, 40, 0)
	assert.False(t, fuzzy.HasBreakdown(), "non-exact categories must discard breakdowns")

	exact := NewCategoryStats(CategoryExactMatch, 10, 100, 0, 0, 10)
	exact.SetBreakdown(60, 40, 0)
	require.True(t, exact.HasBreakdown())
	assert.Equal(t, 60, exact.TMWords(70))
	assert.Equal(t, 40, exact.MTWords(70))
}

func TestCategoryStats_TMMTSplit(t *testing.T) {
	tests := []struct {
		name         string
		category     MatchCategory
		words        int
		mtPercentage int
		wantTM       int
		wantMT       int
	}{
		{"exact match 70 percent", CategoryExactMatch, 100, 70, 30, 70},
		{"exact match zero percent", CategoryExactMatch, 100, 0, 100, 0},
		{"exact match full percent", CategoryExactMatch, 100, 100, 0, 100},
		{"exact match truncates", CategoryExactMatch, 7, 50, 3, 3},
		{"fuzzy is all TM", CategoryLowFuzzy, 100, 70, 100, 0},
		{"no match is all TM", CategoryNoMatch, 42, 99, 42, 0},
		{"zero words", CategoryExactMatch, 0, 70, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewCategoryStats(tt.category, 0, tt.words, 0, 0, 0)
			tm := s.TMWords(tt.mtPercentage)
			mt := s.MTWords(tt.mtPercentage)
			assert.Equal(t, tt.wantTM, tm)
			assert.Equal(t, tt.wantMT, mt)
			assert.LessOrEqual(t, tm+mt, tt.words, "split must never exceed words")
		})
	}
}

func TestCategoryStats_SplitInvariantAcrossPercentages(t *testing.T) {
	s := NewCategoryStats(CategoryExactMatch, 0, 997, 0, 0, 0)
	for pct := 0; pct <= 100; pct++ {
		tm := s.TMWords(pct)
		mt := s.MTWords(pct)
		if tm+mt > 997 {
			t.Fatalf("mt_percentage=%d: tm=%d mt=%d exceeds words", pct, tm, mt)
		}
	}
}

func TestFileAnalysis_DenseCategoryMap(t *testing.T) {
	fa := NewFileAnalysis("manual.docx", "en", "de")
	require.Len(t, fa.Categories, len(StandardCategories()))
	for _, c := range StandardCategories() {
		stats, ok := fa.Categories[c]
		require.True(t, ok, "category %s missing", c)
		assert.Equal(t, c, stats.Category)
		assert.Zero(t, stats.Words)
	}
}

func TestFileAnalysis_SetCategoryRestampsKey(t *testing.T) {
	fa := NewFileAnalysis("manual.docx", "en", "de")
	stats := NewCategoryStats(CategoryNoMatch, 5, 50, 0, 0, 0)
	fa.SetCategory(CategoryRepetitions, stats)
	assert.Equal(t, CategoryRepetitions, fa.Categories[CategoryRepetitions].Category)
	assert.Equal(t, 50, fa.Category(CategoryRepetitions).Words)
}

func TestFileAnalysis_Totals(t *testing.T) {
	fa := NewFileAnalysis("manual.docx", "en", "de")
	fa.SetCategory(CategoryExactMatch, NewCategoryStats(CategoryExactMatch, 3, 100, 0, 0, 0))
	fa.SetCategory(CategoryNoMatch, NewCategoryStats(CategoryNoMatch, 7, 250, 0, 0, 0))

	assert.Equal(t, 350, fa.TotalWords())
	assert.Equal(t, 10, fa.TotalSegments())
	assert.Equal(t, "en>de", fa.LanguagePairCode())
	assert.True(t, fa.Valid())
}

func TestFileAnalysis_ValidRequiresLanguagesAndWords(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		source   string
		target   string
		words    int
		want     bool
	}{
		{"complete", "a.docx", "en", "de", 10, true},
		{"missing filename", "", "en", "de", 10, false},
		{"missing source", "a.docx", "", "de", 10, false},
		{"missing target", "a.docx", "en", "", 10, false},
		{"zero words", "a.docx", "en", "de", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fa := NewFileAnalysis(tt.filename, tt.source, tt.target)
			fa.SetCategory(CategoryNoMatch, NewCategoryStats(CategoryNoMatch, 1, tt.words, 0, 0, 0))
			assert.Equal(t, tt.want, fa.Valid())
		})
	}
}

func TestFileAnalysis_JSONRoundTrip(t *testing.T) {
	fa := NewFileAnalysis("guide.html", "en", "fr")
	fa.CATTool = "Trados"
	fa.SetCategory(CategoryContextMatch, NewCategoryStats(CategoryContextMatch, 2, 20, 110, 1, 4.2))
	exact := NewCategoryStats(CategoryExactMatch, 8, 300, 1500, 0, 62.8)
	exact.SetBreakdown(200, 90, 10)
	fa.SetCategory(CategoryExactMatch, exact)

	data, err := json.Marshal(fa)
	require.NoError(t, err)

	var restored FileAnalysis
	require.NoError(t, json.Unmarshal(data, &restored))

	assert.Equal(t, fa.Filename, restored.Filename)
	assert.Equal(t, fa.SourceLanguage, restored.SourceLanguage)
	assert.Equal(t, fa.TargetLanguage, restored.TargetLanguage)
	assert.Equal(t, fa.CATTool, restored.CATTool)
	require.Len(t, restored.Categories, len(StandardCategories()))
	for _, c := range StandardCategories() {
		assert.Equal(t, fa.Category(c), restored.Category(c), "category %s differs", c)
	}
}

func TestProjectAnalysis_AggregateCategories(t *testing.T) {
	f1 := NewFileAnalysis("a.docx", "en", "de")
	f1.SetCategory(CategoryExactMatch, NewCategoryStats(CategoryExactMatch, 5, 100, 500, 2, 0))
	f1.SetCategory(CategoryNoMatch, NewCategoryStats(CategoryNoMatch, 10, 300, 1500, 0, 0))

	f2 := NewFileAnalysis("b.docx", "en", "de")
	f2.SetCategory(CategoryExactMatch, NewCategoryStats(CategoryExactMatch, 3, 100, 400, 1, 0))

	p := NewProjectAnalysis("handbook")
	p.AddFile(f1)
	p.AddFile(f2)

	agg := p.AggregateCategories()
	require.Len(t, agg, len(StandardCategories()))

	exact := agg[CategoryExactMatch]
	assert.Equal(t, 8, exact.Segments)
	assert.Equal(t, 200, exact.Words)
	assert.Equal(t, 900, exact.Characters)
	assert.Equal(t, 3, exact.Placeables)
	assert.InDelta(t, 40.0, exact.Percent, 0.001)
	assert.False(t, exact.HasBreakdown())

	noMatch := agg[CategoryNoMatch]
	assert.InDelta(t, 60.0, noMatch.Percent, 0.001)
}

func TestProjectAnalysis_AggregatePropagatesBreakdown(t *testing.T) {
	f1 := NewFileAnalysis("a.docx", "en", "de")
	withBreakdown := NewCategoryStats(CategoryExactMatch, 5, 100, 0, 0, 0)
	withBreakdown.SetBreakdown(70, 20, 10)
	f1.SetCategory(CategoryExactMatch, withBreakdown)

	f2 := NewFileAnalysis("b.docx", "en", "de")
	f2.SetCategory(CategoryExactMatch, NewCategoryStats(CategoryExactMatch, 3, 50, 0, 0, 0))

	p := NewProjectAnalysis("handbook")
	p.AddFile(f1)
	p.AddFile(f2)

	exact := p.AggregateCategories()[CategoryExactMatch]
	require.True(t, exact.HasBreakdown())
	assert.Equal(t, 70, *exact.TMWordCount)
	assert.Equal(t, 20, *exact.MTWordCount)
	assert.Equal(t, 10, *exact.NTWordCount)
}

func TestProjectAnalysis_AggregateEmptyProject(t *testing.T) {
	p := NewProjectAnalysis("empty")
	agg := p.AggregateCategories()
	for _, c := range StandardCategories() {
		assert.Zero(t, agg[c].Words)
		assert.Zero(t, agg[c].Percent)
	}
	combined := p.Aggregate()
	assert.Zero(t, combined.TotalWords())
}
