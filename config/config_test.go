package config

import (
	"testing"

	"github.com/marketplace/storefront/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, valueobject.USD, cfg.Pricing.Currency)
	assert.Equal(t, int32(2), cfg.Pricing.RoundingPlaces)
	assert.Equal(t, int64(1), cfg.Catalog.DefaultRetailMOQ)
	assert.Equal(t, int64(5), cfg.Catalog.DefaultWholesaleMOQ)
	assert.Equal(t, int64(5), cfg.Catalog.LowStockThreshold)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "stdout", cfg.Log.Output)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("STOREFRONT_PRICING_CURRENCY", "EUR")
	t.Setenv("STOREFRONT_CATALOG_DEFAULT_WHOLESALE_MOQ", "10")
	t.Setenv("STOREFRONT_LOG_LEVEL", "debug")
	t.Setenv("STOREFRONT_LOG_FORMAT", "console")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, valueobject.EUR, cfg.Pricing.Currency)
	assert.Equal(t, int64(10), cfg.Catalog.DefaultWholesaleMOQ)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadValidation(t *testing.T) {
	t.Run("retail minimum below one", func(t *testing.T) {
		t.Setenv("STOREFRONT_CATALOG_DEFAULT_RETAIL_MOQ", "0")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("wholesale minimum below one", func(t *testing.T) {
		t.Setenv("STOREFRONT_CATALOG_DEFAULT_WHOLESALE_MOQ", "-1")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("negative rounding places", func(t *testing.T) {
		t.Setenv("STOREFRONT_PRICING_ROUNDING_PLACES", "-2")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestMOQDefaults(t *testing.T) {
	c := CatalogConfig{DefaultRetailMOQ: 2, DefaultWholesaleMOQ: 12}
	defaults := c.MOQDefaults()
	assert.Equal(t, int64(2), defaults.Retail)
	assert.Equal(t, int64(12), defaults.Wholesale)
}
