package cli

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mlindqvist/catcost/internal/model"
	"github.com/mlindqvist/catcost/internal/pricing"
)

func money(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", value, err)
	}
	return d
}

func TestRenderBreakdown(t *testing.T) {
	breakdown := &pricing.CostBreakdown{
		Currency: "EUR",
		Lines: []pricing.CategoryCost{
			{
				Category:      model.CategoryExactMatch,
				Words:         100,
				RatePerWord:   money(t, "0.05"),
				Cost:          money(t, "2.90"),
				HasSplit:      true,
				TMWords:       30,
				TMCost:        money(t, "1.50"),
				MTWords:       70,
				MTRatePerWord: money(t, "0.02"),
				MTCost:        money(t, "1.40"),
			},
			{
				Category:        model.CategoryNoMatch,
				Words:           100,
				RatePerWord:     money(t, "0.12"),
				Cost:            money(t, "12.00"),
				UsedDefaultRate: true,
			},
		},
		Warnings: []string{"no rate for No Match, used default 0.1200/word"},
		Subtotal: money(t, "14.90"),
		Total:    money(t, "14.90"),
	}

	var buf bytes.Buffer
	RenderBreakdown(&buf, "report.csv (en>de)", breakdown)
	out := buf.String()

	assert.Contains(t, out, "report.csv (en>de)")
	assert.Contains(t, out, "100%")
	assert.Contains(t, out, "TM share")
	assert.Contains(t, out, "MT share")
	assert.Contains(t, out, "0.0200")
	assert.Contains(t, out, "No Match *")
	assert.Contains(t, out, "Subtotal")
	assert.Contains(t, out, "14.90 EUR")
	assert.Contains(t, out, "used default")
	assert.NotContains(t, out, "Minimum fee")
}

func TestRenderBreakdown_MinimumFeeApplied(t *testing.T) {
	breakdown := &pricing.CostBreakdown{
		Currency: "EUR",
		Lines: []pricing.CategoryCost{
			{
				Category:    model.CategoryNoMatch,
				Words:       100,
				RatePerWord: money(t, "0.10"),
				Cost:        money(t, "10.00"),
			},
		},
		Subtotal:          money(t, "10.00"),
		MinimumFee:        money(t, "40.00"),
		Total:             money(t, "40.00"),
		MinimumFeeApplied: true,
	}

	var buf bytes.Buffer
	RenderBreakdown(&buf, "small job", breakdown)
	out := buf.String()

	assert.Contains(t, out, "Minimum fee")
	assert.Contains(t, out, "40.00 EUR")
}
