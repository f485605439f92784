package config

import (
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	pricingdomain "github.com/smallbiznis/lunebill/internal/pricing/domain"
)

// TierConfig is the file representation of one pricing tier. Prices are
// plain YAML numbers here and converted to decimals when the table is
// built.
type TierConfig struct {
	Label      string  `mapstructure:"label" json:"label"`
	MinMinutes float64 `mapstructure:"min_minutes" json:"min_minutes"`
	MaxMinutes float64 `mapstructure:"max_minutes" json:"max_minutes"`
	Price      float64 `mapstructure:"price" json:"price"`
}

type PricingConfig struct {
	Tiers []TierConfig `mapstructure:"tiers" json:"tiers"`
}

// Table converts the file representation into the domain pricing table.
func (pc PricingConfig) Table() pricingdomain.Table {
	tiers := make([]pricingdomain.Tier, 0, len(pc.Tiers))
	for _, t := range pc.Tiers {
		tiers = append(tiers, pricingdomain.Tier{
			Label:      t.Label,
			MinMinutes: t.MinMinutes,
			MaxMinutes: t.MaxMinutes,
			Price:      decimal.NewFromFloat(t.Price),
		})
	}
	return pricingdomain.Table{Tiers: tiers}
}

type PricingConfigHolder struct {
	current atomic.Value // holds pricingdomain.Table
}

// NewPricingConfigHolder loads pricing.yml and keeps the parsed table
// hot-reloaded on file changes. Missing file falls back to the built-in
// tier table.
func NewPricingConfigHolder() (*PricingConfigHolder, error) {
	return newPricingConfigHolder("/etc/lunebill", ".")
}

func newPricingConfigHolder(paths ...string) (*PricingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("pricing")
	v.SetConfigType("yml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	// env hanya untuk path override (optional)
	v.SetEnvPrefix("LUNEBILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	holder := &PricingConfigHolder{}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// if config file not found, use defaults
		holder.current.Store(pricingdomain.DefaultTable())
		return holder, nil
	}

	var cfg PricingConfig
	if err := v.UnmarshalKey("pricing", &cfg); err != nil {
		return nil, err
	}
	table := cfg.Table()
	if err := table.Validate(); err != nil {
		return nil, err
	}
	holder.current.Store(table)

	// 🔥 HOT RELOAD
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated PricingConfig
		if err := v.UnmarshalKey("pricing", &updated); err != nil {
			log.Printf("[pricing-config] reload failed: %v", err)
			return
		}
		table := updated.Table()
		if err := table.Validate(); err != nil {
			log.Printf("[pricing-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(table)
		log.Printf("[pricing-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// StaticPricingConfigHolder returns a holder pinned to the given table,
// with no file loading or watching. Useful for embedders that manage
// pricing themselves.
func StaticPricingConfigHolder(table pricingdomain.Table) *PricingConfigHolder {
	holder := &PricingConfigHolder{}
	holder.current.Store(table)
	return holder
}

func (h *PricingConfigHolder) Get() pricingdomain.Table {
	return h.current.Load().(pricingdomain.Table)
}
