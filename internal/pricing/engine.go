package pricing

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/mlindqvist/catcost/internal/common"
	"github.com/mlindqvist/catcost/internal/model"
)

// CategoryCost is one line of a cost breakdown.
type CategoryCost struct {
	Category        model.MatchCategory
	RatePerWord     decimal.Decimal
	MTRatePerWord   decimal.Decimal
	Cost            decimal.Decimal
	TMCost          decimal.Decimal
	MTCost          decimal.Decimal
	Words           int
	TMWords         int
	MTWords         int
	HasSplit        bool
	UsedDefaultRate bool
}

// CostBreakdown is the result of a calculation: one line per billable
// category plus the quantized totals.
type CostBreakdown struct {
	Currency          string
	Lines             []CategoryCost
	Warnings          []string
	Subtotal          decimal.Decimal
	MinimumFee        decimal.Decimal
	Total             decimal.Decimal
	MinimumFeeApplied bool
}

// Options control one calculation.
type Options struct {
	MinimumFee   *decimal.Decimal
	Currency     string
	MTPercentage int
}

// Engine computes costs from an analysis and a resolved rate table. It is
// pure and safe for concurrent use as long as callers do not mutate the
// inputs mid-calculation.
type Engine struct {
	defaults DefaultRateProvider
}

// NewEngine creates a cost engine with the given default rate fallback.
func NewEngine(defaults DefaultRateProvider) *Engine {
	return &Engine{defaults: defaults}
}

// Calculate prices one analysis against per-category rates. Categories with
// words but no rate fall back to the default provider with a warning; if no
// fallback exists either, the whole calculation fails.
func (e *Engine) Calculate(analysis *model.FileAnalysis, rates map[model.MatchCategory]model.Rate, opts Options) (*CostBreakdown, error) {
	if analysis == nil {
		return nil, fmt.Errorf("%w: no analysis to price", common.ErrNoRates)
	}
	if len(rates) == 0 && e.defaults == nil {
		return nil, fmt.Errorf("%w: no rates and no default rate table", common.ErrNoRates)
	}

	breakdown := &CostBreakdown{Currency: opts.Currency}
	if breakdown.Currency == "" {
		breakdown.Currency = "EUR"
	}

	subtotal := decimal.Zero
	for _, category := range model.StandardCategories() {
		stats := analysis.Category(category)
		if stats.Words == 0 {
			continue
		}

		rate, usedDefault, err := e.categoryRate(category, rates)
		if err != nil {
			return nil, err
		}
		if usedDefault {
			breakdown.Warnings = append(breakdown.Warnings,
				fmt.Sprintf("no rate for %s, used default %s/word", category, rate.StringFixed(4)))
		}

		line := CategoryCost{
			Category:        category,
			Words:           stats.Words,
			RatePerWord:     rate,
			UsedDefaultRate: usedDefault,
		}

		mtWords := stats.MTWords(opts.MTPercentage)
		if category.SupportsMTBreakdown() && mtWords > 0 {
			tmWords := stats.TMWords(opts.MTPercentage)
			mtRate, mtDefault := e.mtRate(rate, rates)
			if mtDefault {
				breakdown.Warnings = append(breakdown.Warnings,
					fmt.Sprintf("no MT rate, used TM rate %s/word for machine-translated words", rate.StringFixed(4)))
			}

			line.HasSplit = true
			line.TMWords = tmWords
			line.MTWords = mtWords
			line.MTRatePerWord = mtRate
			line.TMCost = decimal.NewFromInt(int64(tmWords)).Mul(rate)
			line.MTCost = decimal.NewFromInt(int64(mtWords)).Mul(mtRate)
			line.Cost = line.TMCost.Add(line.MTCost)
		} else {
			line.Cost = decimal.NewFromInt(int64(stats.Words)).Mul(rate)
		}

		subtotal = subtotal.Add(line.Cost)
		breakdown.Lines = append(breakdown.Lines, line)
	}

	breakdown.Subtotal = subtotal.Round(2)
	breakdown.Total = breakdown.Subtotal
	if opts.MinimumFee != nil {
		breakdown.MinimumFee = opts.MinimumFee.Round(2)
		if breakdown.MinimumFee.GreaterThan(breakdown.Subtotal) {
			breakdown.Total = breakdown.MinimumFee
			breakdown.MinimumFeeApplied = true
		}
	}

	slog.Debug("calculated cost breakdown",
		"file", analysis.Filename,
		"categories", len(breakdown.Lines),
		"subtotal", breakdown.Subtotal.StringFixed(2),
		"total", breakdown.Total.StringFixed(2),
		"minimum_fee_applied", breakdown.MinimumFeeApplied)
	return breakdown, nil
}

// categoryRate returns the per-word rate for a category, falling back to the
// default provider when no rate was resolved.
func (e *Engine) categoryRate(category model.MatchCategory, rates map[model.MatchCategory]model.Rate) (decimal.Decimal, bool, error) {
	if rate, ok := rates[category]; ok {
		return rate.RatePerWord.Round(4), false, nil
	}
	if e.defaults == nil {
		return decimal.Zero, false, fmt.Errorf("%w: no rate for category %s", common.ErrNoRates, category)
	}
	return e.defaults.DefaultRate(category).Round(4), true, nil
}

// mtRate returns the rate for the machine-translated share of exact matches:
// the MT Match rate when one was resolved, otherwise the TM rate itself.
func (e *Engine) mtRate(tmRate decimal.Decimal, rates map[model.MatchCategory]model.Rate) (decimal.Decimal, bool) {
	if rate, ok := rates[model.CategoryMTMatch]; ok {
		return rate.RatePerWord.Round(4), false
	}
	return tmRate, true
}
