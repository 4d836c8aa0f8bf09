package pricing

import (
	"fmt"

	"github.com/mlindqvist/catcost/internal/model"
)

// ValidationResult separates blocking problems from warnings the caller may
// surface without aborting the calculation.
type ValidationResult struct {
	Errors   []string
	Warnings []string
}

// Valid reports whether the calculation may proceed.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

func (r *ValidationResult) addError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) addWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// ValidateInputs checks an analysis and rate table before calculation.
// Missing per-category rates are warnings: the engine substitutes defaults.
func ValidateInputs(analysis *model.FileAnalysis, rates map[model.MatchCategory]model.Rate, mtPercentage int) *ValidationResult {
	result := &ValidationResult{}

	if analysis == nil {
		result.addError("no analysis to price")
		return result
	}
	if !analysis.Valid() {
		result.addError("analysis for %q is incomplete: needs filename, language pair and at least one word", analysis.Filename)
	}
	if mtPercentage < 0 || mtPercentage > 100 {
		result.addError("mt percentage %d out of range 0-100", mtPercentage)
	}

	for _, category := range model.StandardCategories() {
		stats := analysis.Category(category)
		if stats.Words == 0 {
			continue
		}
		if _, ok := rates[category]; !ok {
			result.addWarning("no rate for %s (%d words), default rate will be used", category, stats.Words)
		}
	}

	exact := analysis.Category(model.CategoryExactMatch)
	if exact.Words > 0 && exact.MTWords(mtPercentage) > 0 {
		if _, ok := rates[model.CategoryMTMatch]; !ok {
			result.addWarning("no MT Match rate, machine-translated words will be billed at the TM rate")
		}
	}

	return result
}
