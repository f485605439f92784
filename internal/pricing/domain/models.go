// Package domain contains the time-tiered pricing schedule for Lune usage.
package domain

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyTable       = errors.New("empty_pricing_table")
	ErrTierBounds       = errors.New("invalid_tier_bounds")
	ErrTierGap          = errors.New("pricing_tiers_not_contiguous")
	ErrNegativePrice    = errors.New("negative_tier_price")
	ErrMissingTierLabel = errors.New("missing_tier_label")
)

// Tier is one closed-open [MinMinutes, MaxMinutes) duration band with a
// fixed price.
type Tier struct {
	Label      string          `json:"label"`
	MinMinutes float64         `json:"min_minutes"`
	MaxMinutes float64         `json:"max_minutes"`
	Price      decimal.Decimal `json:"price"`
}

// Table is an ordered, contiguous, non-overlapping sequence of tiers.
type Table struct {
	Tiers []Tier `json:"tiers"`
}

// DefaultTable returns the standard Lune schedule: two-minute bands over
// [5,27) priced 8 through 28 in steps of 2, and a final [27,30) band at 30.
func DefaultTable() Table {
	return Table{Tiers: []Tier{
		band(5, 7, 8),
		band(7, 9, 10),
		band(9, 11, 12),
		band(11, 13, 14),
		band(13, 15, 16),
		band(15, 17, 18),
		band(17, 19, 20),
		band(19, 21, 22),
		band(21, 23, 24),
		band(23, 25, 26),
		band(25, 27, 28),
		band(27, 30, 30),
	}}
}

func band(min, max float64, price int64) Tier {
	return Tier{
		Label:      formatBound(min) + "-" + formatBound(max),
		MinMinutes: min,
		MaxMinutes: max,
		Price:      decimal.NewFromInt(price),
	}
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Validate rejects tables the lookup cannot price deterministically.
func (t Table) Validate() error {
	if len(t.Tiers) == 0 {
		return ErrEmptyTable
	}
	for i, tier := range t.Tiers {
		if tier.Label == "" {
			return fmt.Errorf("tier %d: %w", i, ErrMissingTierLabel)
		}
		if tier.MinMinutes < 0 || tier.MaxMinutes <= tier.MinMinutes {
			return fmt.Errorf("tier %q: %w", tier.Label, ErrTierBounds)
		}
		if tier.Price.IsNegative() {
			return fmt.Errorf("tier %q: %w", tier.Label, ErrNegativePrice)
		}
		if i > 0 && t.Tiers[i-1].MaxMinutes != tier.MinMinutes {
			return fmt.Errorf("tier %q: %w", tier.Label, ErrTierGap)
		}
	}
	return nil
}

// PriceFor returns the charge for a usage of the given length. Durations
// below the first tier are not billable; durations at or beyond the last
// tier's upper bound are capped at the last tier's price. Boundary values
// fall into the tier they open (lower-inclusive, upper-exclusive).
func (t Table) PriceFor(minutes float64) decimal.Decimal {
	if len(t.Tiers) == 0 || minutes < t.Tiers[0].MinMinutes {
		return decimal.Zero
	}
	for _, tier := range t.Tiers {
		if minutes >= tier.MinMinutes && minutes < tier.MaxMinutes {
			return tier.Price
		}
	}
	return t.Tiers[len(t.Tiers)-1].Price
}

// LabelFor returns the breakdown bucket for a usage of the given length.
// Unlike PriceFor it is total over the non-negative floats: below-minimum
// durations land in the zero-price bucket and capped durations land in the
// last tier's bucket, so aggregate counts always reconcile.
func (t Table) LabelFor(minutes float64) string {
	if len(t.Tiers) == 0 {
		return ""
	}
	if minutes < t.Tiers[0].MinMinutes {
		return t.BelowMinimumLabel()
	}
	for _, tier := range t.Tiers {
		if minutes >= tier.MinMinutes && minutes < tier.MaxMinutes {
			return tier.Label
		}
	}
	return t.Tiers[len(t.Tiers)-1].Label
}

// BelowMinimumLabel names the zero-price bucket for durations shorter than
// the first tier ("0-5" on the default table).
func (t Table) BelowMinimumLabel() string {
	if len(t.Tiers) == 0 {
		return ""
	}
	return "0-" + formatBound(t.Tiers[0].MinMinutes)
}
