// Package config loads engine configuration from an optional config file
// plus environment variable overrides.
package config

import (
	"fmt"
	"strings"

	"github.com/marketplace/storefront/domain/catalog"
	"github.com/marketplace/storefront/domain/shared/valueobject"
	"github.com/spf13/viper"
)

// Config holds all engine configuration
type Config struct {
	Pricing PricingConfig
	Catalog CatalogConfig
	Log     LogConfig
}

// PricingConfig holds money handling settings
type PricingConfig struct {
	Currency       valueobject.Currency
	RoundingPlaces int32 // decimal places totals are rounded to for display
}

// CatalogConfig holds catalog interpretation settings
type CatalogConfig struct {
	DefaultRetailMOQ    int64
	DefaultWholesaleMOQ int64
	LowStockThreshold   int64
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// MOQDefaults returns the catalog minimum-order-quantity fallbacks
func (c CatalogConfig) MOQDefaults() catalog.MOQDefaults {
	return catalog.MOQDefaults{
		Retail:    c.DefaultRetailMOQ,
		Wholesale: c.DefaultWholesaleMOQ,
	}
}

// Load reads configuration from config.toml (if present) and
// STOREFRONT_-prefixed environment variables
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	cfg := &Config{
		Pricing: PricingConfig{
			Currency:       valueobject.Currency(v.GetString("pricing.currency")),
			RoundingPlaces: int32(v.GetInt("pricing.rounding_places")),
		},
		Catalog: CatalogConfig{
			DefaultRetailMOQ:    v.GetInt64("catalog.default_retail_moq"),
			DefaultWholesaleMOQ: v.GetInt64("catalog.default_wholesale_moq"),
			LowStockThreshold:   v.GetInt64("catalog.low_stock_threshold"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("pricing.currency", string(valueobject.DefaultCurrency))
	v.SetDefault("pricing.rounding_places", 2)
	v.SetDefault("catalog.default_retail_moq", 1)
	v.SetDefault("catalog.default_wholesale_moq", 5)
	v.SetDefault("catalog.low_stock_threshold", 5)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")
}

func (c *Config) validate() error {
	if c.Pricing.Currency == "" {
		return fmt.Errorf("pricing.currency cannot be empty")
	}
	if c.Pricing.RoundingPlaces < 0 {
		return fmt.Errorf("pricing.rounding_places cannot be negative")
	}
	if c.Catalog.DefaultRetailMOQ < 1 {
		return fmt.Errorf("catalog.default_retail_moq must be at least 1")
	}
	if c.Catalog.DefaultWholesaleMOQ < 1 {
		return fmt.Errorf("catalog.default_wholesale_moq must be at least 1")
	}
	if c.Catalog.LowStockThreshold < 1 {
		return fmt.Errorf("catalog.low_stock_threshold must be at least 1")
	}
	return nil
}
