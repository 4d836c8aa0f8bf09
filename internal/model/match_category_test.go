package model

import "testing"

func TestCategoryFromHeader(t *testing.T) {
	tests := []struct {
		header string
		want   MatchCategory
		wantOK bool
	}{
		{"Context Match", CategoryContextMatch, true},
		{"Repetitions", CategoryRepetitions, true},
		{"100%", CategoryExactMatch, true},
		{"95% - 99%", CategoryHighFuzzy, true},
		{"85% - 94%", CategoryMediumHighFuzzy, true},
		{"75% - 84%", CategoryMediumFuzzy, true},
		{"50% - 74%", CategoryLowFuzzy, true},
		{"No Match", CategoryNoMatch, true},
		{"MT Match", "", false},
		{"Total", "", false},
		{"", "", false},
		{"Fuzzy 99%", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, ok := CategoryFromHeader(tt.header)
			if ok != tt.wantOK {
				t.Fatalf("CategoryFromHeader(%q) ok = %v, want %v", tt.header, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("CategoryFromHeader(%q) = %v, want %v", tt.header, got, tt.want)
			}
		})
	}
}

func TestCategoryFromName_IncludesMTMatch(t *testing.T) {
	got, ok := CategoryFromName("MT Match")
	if !ok || got != CategoryMTMatch {
		t.Fatalf("CategoryFromName(MT Match) = %v, %v", got, ok)
	}
}

func TestCategoryFromName_CaseInsensitive(t *testing.T) {
	got, ok := CategoryFromName("no match")
	if !ok || got != CategoryNoMatch {
		t.Fatalf("CategoryFromName(no match) = %v, %v", got, ok)
	}
	if _, ok := CategoryFromName("bogus"); ok {
		t.Error("unknown names must not resolve")
	}
}

func TestStandardCategories(t *testing.T) {
	standard := StandardCategories()
	if len(standard) != 8 {
		t.Fatalf("expected 8 standard categories, got %d", len(standard))
	}
	for _, c := range standard {
		if c == CategoryMTMatch {
			t.Error("MT Match must not be a standard category")
		}
	}
	if len(AllCategories()) != 9 {
		t.Errorf("expected 9 categories total, got %d", len(AllCategories()))
	}
}

func TestMatchCategory_Classification(t *testing.T) {
	tests := []struct {
		category     MatchCategory
		fuzzy        bool
		exact        bool
		mtBreakdown  bool
	}{
		{CategoryContextMatch, false, true, false},
		{CategoryRepetitions, false, true, false},
		{CategoryExactMatch, false, true, true},
		{CategoryHighFuzzy, true, false, false},
		{CategoryMediumHighFuzzy, true, false, false},
		{CategoryMediumFuzzy, true, false, false},
		{CategoryLowFuzzy, true, false, false},
		{CategoryNoMatch, false, false, false},
		{CategoryMTMatch, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			if got := tt.category.IsFuzzy(); got != tt.fuzzy {
				t.Errorf("IsFuzzy() = %v, want %v", got, tt.fuzzy)
			}
			if got := tt.category.IsExact(); got != tt.exact {
				t.Errorf("IsExact() = %v, want %v", got, tt.exact)
			}
			if got := tt.category.SupportsMTBreakdown(); got != tt.mtBreakdown {
				t.Errorf("SupportsMTBreakdown() = %v, want %v", got, tt.mtBreakdown)
			}
		})
	}
}

func TestMatchCategory_DisplayOrder(t *testing.T) {
	if CategoryContextMatch.DisplayOrder() != 1 {
		t.Errorf("Context Match should sort first")
	}
	if CategoryMTMatch.DisplayOrder() != 9 {
		t.Errorf("MT Match should sort last")
	}
	if MatchCategory("bogus").DisplayOrder() != 10 {
		t.Errorf("unknown categories should sort after all known ones")
	}
}
