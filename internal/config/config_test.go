package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlindqvist/catcost/internal/common"
	"github.com/mlindqvist/catcost/internal/model"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := Load()
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".local", "share", "catcost", "catcost.db"), cfg.DatabasePath)
	assert.Equal(t, "EUR", cfg.Pricing.Currency)
	assert.Equal(t, model.DefaultMTPercentage, cfg.Pricing.MTPercentage)
	assert.Empty(t, cfg.Pricing.DefaultRates)
}

func TestLoadOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("database.path", "/tmp/catcost-test.db")
	viper.Set("pricing.currency", "SEK")
	viper.Set("pricing.mt_percentage", 0)
	viper.Set("pricing.default_rates", map[string]string{"No Match": "0.15"})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/catcost-test.db", cfg.DatabasePath)
	assert.Equal(t, "SEK", cfg.Pricing.Currency)
	assert.Equal(t, 0, cfg.Pricing.MTPercentage)
	assert.Equal(t, "0.15", cfg.Pricing.DefaultRates["no match"])
}

func TestLoadRejectsBadMTPercentage(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("pricing.mt_percentage", 150)

	_, err := Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Setenv("CATCOST_TEST_DIR", "/var/data")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "absolute unchanged", input: "/opt/catcost.db", want: "/opt/catcost.db"},
		{name: "tilde prefix", input: "~/catcost.db", want: filepath.Join(home, "catcost.db")},
		{name: "bare tilde", input: "~", want: home},
		{name: "env var", input: "$CATCOST_TEST_DIR/catcost.db", want: "/var/data/catcost.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.input))
		})
	}
}
