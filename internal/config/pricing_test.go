package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pricingdomain "github.com/smallbiznis/lunebill/internal/pricing/domain"
)

func writePricingFile(t *testing.T, dir, content string) {
	t.Helper()
	err := os.WriteFile(filepath.Join(dir, "pricing.yml"), []byte(content), 0o644)
	require.NoError(t, err)
}

func TestPricingConfigHolderLoadsFile(t *testing.T) {
	dir := t.TempDir()
	writePricingFile(t, dir, `
pricing:
  tiers:
    - label: "5-10"
      min_minutes: 5
      max_minutes: 10
      price: 8
    - label: "10-30"
      min_minutes: 10
      max_minutes: 30
      price: 12.5
`)

	holder, err := newPricingConfigHolder(dir)
	require.NoError(t, err)

	table := holder.Get()
	require.Len(t, table.Tiers, 2)
	assert.Equal(t, "5-10", table.Tiers[0].Label)
	assert.True(t, decimal.NewFromFloat(12.5).Equal(table.Tiers[1].Price))
	assert.True(t, decimal.NewFromInt(8).Equal(table.PriceFor(7)))
}

func TestPricingConfigHolderDefaultsWhenFileMissing(t *testing.T) {
	holder, err := newPricingConfigHolder(t.TempDir())
	require.NoError(t, err)

	table := holder.Get()
	require.Len(t, table.Tiers, len(pricingdomain.DefaultTable().Tiers))
	assert.True(t, decimal.NewFromInt(8).Equal(table.PriceFor(5)))
	assert.True(t, decimal.NewFromInt(30).Equal(table.PriceFor(45)))
}

func TestPricingConfigHolderRejectsBrokenTable(t *testing.T) {
	dir := t.TempDir()
	writePricingFile(t, dir, `
pricing:
  tiers:
    - label: "5-10"
      min_minutes: 5
      max_minutes: 10
      price: 8
    - label: "12-30"
      min_minutes: 12
      max_minutes: 30
      price: 12
`)

	_, err := newPricingConfigHolder(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, pricingdomain.ErrTierGap)
}

func TestPricingConfigHolderRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	writePricingFile(t, dir, "pricing: [un closed")

	_, err := newPricingConfigHolder(dir)
	require.Error(t, err)
}
