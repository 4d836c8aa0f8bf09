package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLanguagePair_Normalization(t *testing.T) {
	p := NewLanguagePair("  EN ", "De")
	assert.Equal(t, "en", p.SourceLanguage)
	assert.Equal(t, "de", p.TargetLanguage)
	assert.Equal(t, "en>de", p.PairCode())
	assert.True(t, p.Valid())
}

func TestLanguagePair_Valid(t *testing.T) {
	tests := []struct {
		name   string
		source string
		target string
		want   bool
	}{
		{"distinct codes", "en", "de", true},
		{"same codes", "en", "en", false},
		{"missing source", "", "de", false},
		{"missing target", "en", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewLanguagePair(tt.source, tt.target).Valid())
		})
	}
}

func TestRate_Normalize(t *testing.T) {
	r := Rate{
		TranslatorID:    1,
		LanguagePairID:  1,
		MatchCategoryID: 1,
		RatePerWord:     decimal.RequireFromString("0.123456"),
		MinimumFee:      decimal.RequireFromString("49.999"),
	}
	r.Normalize()

	assert.Equal(t, "0.1235", r.RatePerWord.StringFixed(4))
	assert.Equal(t, "50.00", r.MinimumFee.StringFixed(2))
	assert.Equal(t, "EUR", r.Currency)
}

func TestRate_NormalizeClampsNegatives(t *testing.T) {
	r := Rate{
		RatePerWord: decimal.RequireFromString("-0.05"),
		MinimumFee:  decimal.RequireFromString("-10"),
	}
	r.Normalize()
	assert.True(t, r.RatePerWord.IsZero())
	assert.True(t, r.MinimumFee.IsZero())
}

func TestRate_Validate(t *testing.T) {
	valid := Rate{TranslatorID: 1, LanguagePairID: 2, MatchCategoryID: 3}
	assert.NoError(t, valid.Validate())

	missingTranslator := Rate{LanguagePairID: 2, MatchCategoryID: 3}
	assert.Error(t, missingTranslator.Validate())

	missingPair := Rate{TranslatorID: 1, MatchCategoryID: 3}
	assert.Error(t, missingPair.Validate())
}

func TestRate_IsClientSpecific(t *testing.T) {
	general := Rate{}
	assert.False(t, general.IsClientSpecific())

	clientID := int64(7)
	scoped := Rate{ClientID: &clientID}
	assert.True(t, scoped.IsClientSpecific())
}

func TestTranslator_Normalize(t *testing.T) {
	tr := Translator{Name: "  Anna Keller  ", Email: "Anna.Keller@Example.COM "}
	tr.Normalize()
	assert.Equal(t, "Anna Keller", tr.Name)
	assert.Equal(t, "anna.keller@example.com", tr.Email)

	bad := Translator{Name: "Anna", Email: "not-an-email"}
	bad.Normalize()
	assert.Empty(t, bad.Email)
}

func TestProject_NormalizeClampsMTPercentage(t *testing.T) {
	p := NewProject("handbook", 1)
	assert.Equal(t, DefaultMTPercentage, p.MTPercentage)

	p.MTPercentage = 150
	p.Normalize()
	assert.Equal(t, 100, p.MTPercentage)

	p.MTPercentage = -20
	p.Normalize()
	assert.Equal(t, 0, p.MTPercentage)
}
