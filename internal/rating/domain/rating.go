package domain

import (
	"github.com/shopspring/decimal"

	pricingdomain "github.com/smallbiznis/lunebill/internal/pricing/domain"
	usagedomain "github.com/smallbiznis/lunebill/internal/usage/domain"
)

// Rate resolves minutes, tier label and charge for every record in the
// batch. Output order follows input order.
func Rate(records []usagedomain.UsageRecord, table pricingdomain.Table) []EnrichedUsageRecord {
	enriched := make([]EnrichedUsageRecord, 0, len(records))
	for _, record := range records {
		minutes := usagedomain.ParseDuration(record.Duration)
		enriched = append(enriched, EnrichedUsageRecord{
			UsageRecord: record,
			Minutes:     minutes,
			TierLabel:   table.LabelFor(minutes),
			Charge:      table.PriceFor(minutes),
		})
	}
	return enriched
}

// Aggregate folds rated records into batch statistics. Sums are
// order-independent, so reordering the input never changes the outcome.
func Aggregate(records []EnrichedUsageRecord) Statistics {
	stats := Statistics{
		TotalCharge:   decimal.Zero,
		TierBreakdown: make(map[string]TierUsage),
	}

	for _, record := range records {
		stats.TotalRecords++
		stats.TotalMinutes += record.Minutes
		stats.TotalCharge = stats.TotalCharge.Add(record.Charge)

		usage := stats.TierBreakdown[record.TierLabel]
		usage.Count++
		usage.Minutes += record.Minutes
		usage.Charge = usage.Charge.Add(record.Charge)
		stats.TierBreakdown[record.TierLabel] = usage
	}

	if stats.TotalRecords > 0 {
		stats.MeanMinutes = stats.TotalMinutes / float64(stats.TotalRecords)
	}

	return stats
}
