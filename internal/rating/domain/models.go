package domain

import (
	"github.com/shopspring/decimal"

	usagedomain "github.com/smallbiznis/lunebill/internal/usage/domain"
)

// EnrichedUsageRecord is a feed record with its billable minutes, tier
// label and charge resolved against the pricing table. The charge depends
// on minutes alone, never on the action or any other field.
type EnrichedUsageRecord struct {
	usagedomain.UsageRecord

	Minutes   float64         `json:"minutes"`
	TierLabel string          `json:"tier_label"`
	Charge    decimal.Decimal `json:"charge"`
}

// TierUsage accumulates per-tier counters for one batch of records.
type TierUsage struct {
	Count   int             `json:"count"`
	Minutes float64         `json:"minutes"`
	Charge  decimal.Decimal `json:"charge"`
}

// Statistics summarizes a rated batch. TierBreakdown is keyed by tier
// label and only carries tiers that saw at least one record; every record
// lands in exactly one bucket, including the below-minimum bucket and the
// capped top tier.
type Statistics struct {
	TotalRecords  int                  `json:"total_records"`
	TotalMinutes  float64              `json:"total_minutes"`
	TotalCharge   decimal.Decimal      `json:"total_charge"`
	MeanMinutes   float64              `json:"mean_minutes"`
	TierBreakdown map[string]TierUsage `json:"tier_breakdown"`
}

// Result pairs rated records with their aggregate statistics. Records keep
// the input feed order.
type Result struct {
	Records []EnrichedUsageRecord `json:"records"`
	Stats   Statistics            `json:"stats"`
}
