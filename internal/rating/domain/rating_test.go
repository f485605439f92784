package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pricingdomain "github.com/smallbiznis/lunebill/internal/pricing/domain"
	usagedomain "github.com/smallbiznis/lunebill/internal/usage/domain"
)

func TestRateEnrichesRecords(t *testing.T) {
	table := pricingdomain.DefaultTable()
	records := []usagedomain.UsageRecord{
		{TransactionID: "t1", DeviceID: "lune-01", Action: "Whitening", Duration: "05:30"},
		{TransactionID: "t2", DeviceID: "lune-01", Action: "Cleaning", Duration: "1:02:30"},
		{TransactionID: "t3", DeviceID: "lune-02", Action: "Whitening", Duration: "0:20"},
	}

	enriched := Rate(records, table)
	require.Len(t, enriched, 3)

	assert.Equal(t, 5.5, enriched[0].Minutes)
	assert.Equal(t, "5-7", enriched[0].TierLabel)
	assert.True(t, decimal.NewFromInt(8).Equal(enriched[0].Charge))

	assert.Equal(t, 62.5, enriched[1].Minutes)
	assert.Equal(t, "27-30", enriched[1].TierLabel)
	assert.True(t, decimal.NewFromInt(30).Equal(enriched[1].Charge))

	assert.Equal(t, 0.33, enriched[2].Minutes)
	assert.Equal(t, "0-5", enriched[2].TierLabel)
	assert.True(t, enriched[2].Charge.IsZero())
}

func TestRateKeepsInputOrder(t *testing.T) {
	records := []usagedomain.UsageRecord{
		{TransactionID: "t3", Duration: "10:00"},
		{TransactionID: "t1", Duration: "06:00"},
		{TransactionID: "t2", Duration: "20:00"},
	}

	enriched := Rate(records, pricingdomain.DefaultTable())
	require.Len(t, enriched, 3)
	assert.Equal(t, "t3", enriched[0].TransactionID)
	assert.Equal(t, "t1", enriched[1].TransactionID)
	assert.Equal(t, "t2", enriched[2].TransactionID)
}

func TestAggregateReconciles(t *testing.T) {
	records := []usagedomain.UsageRecord{
		{TransactionID: "t1", Duration: "05:30"},  // 5-7 tier
		{TransactionID: "t2", Duration: "06:15"},  // 5-7 tier
		{TransactionID: "t3", Duration: "12:00"},  // 11-13 tier
		{TransactionID: "t4", Duration: "0:45"},   // below minimum
		{TransactionID: "t5", Duration: "1:05:00"}, // capped at top tier
	}

	stats := Aggregate(Rate(records, pricingdomain.DefaultTable()))

	assert.Equal(t, 5, stats.TotalRecords)

	countSum := 0
	minuteSum := 0.0
	chargeSum := decimal.Zero
	for _, usage := range stats.TierBreakdown {
		countSum += usage.Count
		minuteSum += usage.Minutes
		chargeSum = chargeSum.Add(usage.Charge)
	}
	assert.Equal(t, stats.TotalRecords, countSum)
	assert.InDelta(t, stats.TotalMinutes, minuteSum, 0.0001)
	assert.True(t, stats.TotalCharge.Equal(chargeSum), "tier charges must sum to total charge")

	require.Contains(t, stats.TierBreakdown, "5-7")
	assert.Equal(t, 2, stats.TierBreakdown["5-7"].Count)
	require.Contains(t, stats.TierBreakdown, "0-5")
	assert.Equal(t, 1, stats.TierBreakdown["0-5"].Count)
	require.Contains(t, stats.TierBreakdown, "27-30")
	assert.True(t, decimal.NewFromInt(30).Equal(stats.TierBreakdown["27-30"].Charge))
}

func TestAggregateMean(t *testing.T) {
	records := []EnrichedUsageRecord{
		{Minutes: 5.5, TierLabel: "5-7", Charge: decimal.NewFromInt(8)},
		{Minutes: 6.5, TierLabel: "5-7", Charge: decimal.NewFromInt(8)},
	}

	stats := Aggregate(records)
	assert.InDelta(t, 6.0, stats.MeanMinutes, 0.0001)
	assert.InDelta(t, 12.0, stats.TotalMinutes, 0.0001)
	assert.True(t, decimal.NewFromInt(16).Equal(stats.TotalCharge))
}

func TestAggregateEmptyBatch(t *testing.T) {
	stats := Aggregate(nil)

	assert.Zero(t, stats.TotalRecords)
	assert.Zero(t, stats.TotalMinutes)
	assert.Zero(t, stats.MeanMinutes)
	assert.True(t, stats.TotalCharge.IsZero())
	require.NotNil(t, stats.TierBreakdown)
	assert.Empty(t, stats.TierBreakdown)
}

func TestAggregateOrderIndependent(t *testing.T) {
	forward := Rate([]usagedomain.UsageRecord{
		{TransactionID: "t1", Duration: "05:30"},
		{TransactionID: "t2", Duration: "12:00"},
		{TransactionID: "t3", Duration: "45:00"},
	}, pricingdomain.DefaultTable())
	reversed := []EnrichedUsageRecord{forward[2], forward[1], forward[0]}

	a := Aggregate(forward)
	b := Aggregate(reversed)

	assert.Equal(t, a.TotalRecords, b.TotalRecords)
	assert.True(t, a.TotalCharge.Equal(b.TotalCharge))
	assert.InDelta(t, a.TotalMinutes, b.TotalMinutes, 0.0001)
	assert.Equal(t, len(a.TierBreakdown), len(b.TierBreakdown))
}
