// Package config loads application configuration from Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/mlindqvist/catcost/internal/common"
	"github.com/mlindqvist/catcost/internal/model"
)

// Pricing holds the calculation knobs.
type Pricing struct {
	DefaultRates map[string]string
	Currency     string
	MTPercentage int
}

// Config is the resolved application configuration.
type Config struct {
	DatabasePath string
	Pricing      Pricing
}

// Load reads configuration from Viper with defaults applied. Precedence is
// flags, then CATCOST_ environment variables, then the config file.
func Load() (*Config, error) {
	cfg := &Config{
		DatabasePath: ExpandPath(viper.GetString("database.path")),
		Pricing: Pricing{
			DefaultRates: viper.GetStringMapString("pricing.default_rates"),
			Currency:     viper.GetString("pricing.currency"),
			MTPercentage: viper.GetInt("pricing.mt_percentage"),
		},
	}

	if cfg.DatabasePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("%w: cannot determine home directory: %v", common.ErrMissingConfig, err)
		}
		cfg.DatabasePath = filepath.Join(home, ".local", "share", "catcost", "catcost.db")
	}
	if cfg.Pricing.Currency == "" {
		cfg.Pricing.Currency = "EUR"
	}
	if !viper.IsSet("pricing.mt_percentage") {
		cfg.Pricing.MTPercentage = model.DefaultMTPercentage
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges on the loaded values.
func (c *Config) Validate() error {
	if c.Pricing.MTPercentage < 0 || c.Pricing.MTPercentage > 100 {
		return fmt.Errorf("%w: pricing.mt_percentage %d out of range 0-100", common.ErrInvalidConfig, c.Pricing.MTPercentage)
	}
	return nil
}

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}
