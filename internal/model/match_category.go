// Package model defines the domain types shared across the application.
package model

import "strings"

// MatchCategory is a translation-memory match-quality bucket. Word counts are
// grouped and priced per category.
type MatchCategory string

const (
	// CategoryContextMatch represents in-context exact matches.
	CategoryContextMatch MatchCategory = "Context Match"
	// CategoryRepetitions represents repeated segments within the job.
	CategoryRepetitions MatchCategory = "Repetitions"
	// CategoryExactMatch represents 100% TM matches. This is the only
	// category that carries a TM/MT breakdown.
	CategoryExactMatch MatchCategory = "100%"
	// CategoryHighFuzzy represents 95-99% matches.
	CategoryHighFuzzy MatchCategory = "95% - 99%"
	// CategoryMediumHighFuzzy represents 85-94% matches.
	CategoryMediumHighFuzzy MatchCategory = "85% - 94%"
	// CategoryMediumFuzzy represents 75-84% matches.
	CategoryMediumFuzzy MatchCategory = "75% - 84%"
	// CategoryLowFuzzy represents 50-74% matches.
	CategoryLowFuzzy MatchCategory = "50% - 74%"
	// CategoryNoMatch represents segments with no usable TM match.
	CategoryNoMatch MatchCategory = "No Match"
	// CategoryMTMatch is a virtual category used only as a rate lookup key
	// for the machine-translated share of exact matches. It never carries
	// its own counts from a parsed file.
	CategoryMTMatch MatchCategory = "MT Match"
)

// StandardCategories returns the eight categories that appear in parsed
// analysis files, in display order.
func StandardCategories() []MatchCategory {
	return []MatchCategory{
		CategoryContextMatch,
		CategoryRepetitions,
		CategoryExactMatch,
		CategoryHighFuzzy,
		CategoryMediumHighFuzzy,
		CategoryMediumFuzzy,
		CategoryLowFuzzy,
		CategoryNoMatch,
	}
}

// AllCategories returns every category including the virtual MT Match.
func AllCategories() []MatchCategory {
	return append(StandardCategories(), CategoryMTMatch)
}

// CategoryFromHeader maps a report header token to a match category.
// Returns false for category names this tool does not recognize.
func CategoryFromHeader(header string) (MatchCategory, bool) {
	switch header {
	case "Context Match":
		return CategoryContextMatch, true
	case "Repetitions":
		return CategoryRepetitions, true
	case "100%":
		return CategoryExactMatch, true
	case "95% - 99%":
		return CategoryHighFuzzy, true
	case "85% - 94%":
		return CategoryMediumHighFuzzy, true
	case "75% - 84%":
		return CategoryMediumFuzzy, true
	case "50% - 74%":
		return CategoryLowFuzzy, true
	case "No Match":
		return CategoryNoMatch, true
	}
	return "", false
}

// CategoryFromName looks up a category by its display name, including the
// virtual MT Match category. Matching is case-insensitive so names surviving
// a round trip through configuration keys still resolve.
func CategoryFromName(name string) (MatchCategory, bool) {
	for _, c := range AllCategories() {
		if strings.EqualFold(string(c), name) {
			return c, true
		}
	}
	return "", false
}

// IsFuzzy reports whether the category is a below-100% fuzzy bucket.
func (c MatchCategory) IsFuzzy() bool {
	switch c {
	case CategoryHighFuzzy, CategoryMediumHighFuzzy, CategoryMediumFuzzy, CategoryLowFuzzy:
		return true
	}
	return false
}

// IsExact reports whether the category represents perfect-match content.
func (c MatchCategory) IsExact() bool {
	switch c {
	case CategoryContextMatch, CategoryRepetitions, CategoryExactMatch:
		return true
	}
	return false
}

// SupportsMTBreakdown reports whether words in this category may be split
// between translation memory and machine translation.
func (c MatchCategory) SupportsMTBreakdown() bool {
	return c == CategoryExactMatch
}

// DisplayOrder returns the 1-based position used for stable listing. Unknown
// categories sort last.
func (c MatchCategory) DisplayOrder() int {
	for i, cat := range AllCategories() {
		if cat == c {
			return i + 1
		}
	}
	return len(AllCategories()) + 1
}

func (c MatchCategory) String() string {
	return string(c)
}
