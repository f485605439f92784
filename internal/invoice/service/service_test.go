package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smallbiznis/lunebill/internal/config"
	invoicedomain "github.com/smallbiznis/lunebill/internal/invoice/domain"
	"github.com/smallbiznis/lunebill/internal/invoice/format"
	"github.com/smallbiznis/lunebill/internal/period"
	pricingdomain "github.com/smallbiznis/lunebill/internal/pricing/domain"
	ratingdomain "github.com/smallbiznis/lunebill/internal/rating/domain"
	usagedomain "github.com/smallbiznis/lunebill/internal/usage/domain"
)

func ratedResult(records ...usagedomain.UsageRecord) ratingdomain.Result {
	enriched := ratingdomain.Rate(records, pricingdomain.DefaultTable())
	return ratingdomain.Result{Records: enriched, Stats: ratingdomain.Aggregate(enriched)}
}

func newAssembler(mode invoicedomain.NumberingMode) invoicedomain.Assembler {
	return NewService(ServiceParam{
		Log: zap.NewNop(),
		Cfg: config.Config{Numbering: mode},
	})
}

func marchRequest() invoicedomain.AssembleRequest {
	return invoicedomain.AssembleRequest{
		Period: period.Period{Month: time.March, Year: 2025},
		Devices: []invoicedomain.DeviceResult{
			{
				DeviceID: "LUNE-ALPHA-01",
				Rated: ratedResult(
					usagedomain.UsageRecord{TransactionID: "t1", DeviceID: "LUNE-ALPHA-01", Date: "5/3/2025", Time: "09:15", Action: "Whitening", Duration: "05:30"},
					usagedomain.UsageRecord{TransactionID: "t2", DeviceID: "LUNE-ALPHA-01", Date: "9/3/2025", Time: "11:40", Action: "Cleaning", Duration: "12:00"},
				),
			},
			{
				DeviceID: "LUNE-BETA-02",
				Rated: ratedResult(
					usagedomain.UsageRecord{TransactionID: "t3", DeviceID: "LUNE-BETA-02", Date: "14/3/2025", Time: "16:05", Action: "Whitening", Duration: "1:02:30"},
				),
			},
		},
		Sequence: 7,
	}
}

func TestAssembleFlattensInDeviceOrder(t *testing.T) {
	draft := newAssembler(invoicedomain.NumberingSequential).Assemble(context.Background(), marchRequest())

	require.Len(t, draft.LineItems, 3)
	assert.Equal(t, "t1", draft.LineItems[0].TransactionID)
	assert.Equal(t, "t2", draft.LineItems[1].TransactionID)
	assert.Equal(t, "t3", draft.LineItems[2].TransactionID)

	assert.Equal(t, "Whitening - LUNE-ALPHA-01 (5m 30s)", draft.LineItems[0].Description)
	assert.Equal(t, "Cleaning - LUNE-ALPHA-01 (12m)", draft.LineItems[1].Description)
	assert.Equal(t, "Whitening - LUNE-BETA-02 (1h 2m)", draft.LineItems[2].Description)

	// 5.5m -> 8, 12m -> 14, capped 62.5m -> 30
	assert.True(t, decimal.NewFromInt(52).Equal(draft.Subtotal))
	assert.True(t, draft.Total.Equal(draft.Subtotal))

	assert.Equal(t, "INV-2503000007", draft.InvoiceNumber)
	assert.Equal(t, "3 usage records, total usage 1h 20m", draft.Notes)

	require.Len(t, draft.PerDevice, 2)
	assert.Equal(t, "LUNE-ALPHA-01", draft.PerDevice[0].DeviceID)
	assert.Equal(t, 2, draft.PerDevice[0].Stats.TotalRecords)
	assert.Equal(t, "LUNE-BETA-02", draft.PerDevice[1].DeviceID)
	assert.Equal(t, 1, draft.PerDevice[1].Stats.TotalRecords)
}

func TestAssembleEmptyRequest(t *testing.T) {
	draft := newAssembler(invoicedomain.NumberingSequential).Assemble(context.Background(), invoicedomain.AssembleRequest{
		Period:   period.Period{Month: time.March, Year: 2025},
		Sequence: 1,
	})

	require.NotNil(t, draft.LineItems)
	assert.Empty(t, draft.LineItems)
	assert.True(t, draft.Subtotal.IsZero())
	assert.True(t, draft.Total.IsZero())
	assert.Equal(t, "0 usage records, total usage 0m", draft.Notes)

	parsed, ok := format.ParseNumber(draft.InvoiceNumber)
	require.True(t, ok)
	assert.Equal(t, 2025, parsed.Year)
	assert.Equal(t, 3, parsed.Month)
}

func TestAssembleSequentialIsByteIdentical(t *testing.T) {
	svc := newAssembler(invoicedomain.NumberingSequential)

	first, err := json.Marshal(svc.Assemble(context.Background(), marchRequest()))
	require.NoError(t, err)
	second, err := json.Marshal(svc.Assemble(context.Background(), marchRequest()))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAssembleRandomVariesOnlyTheNumber(t *testing.T) {
	svc := newAssembler(invoicedomain.NumberingRandom)

	a := svc.Assemble(context.Background(), marchRequest())
	b := svc.Assemble(context.Background(), marchRequest())

	parsed, ok := format.ParseNumber(a.InvoiceNumber)
	require.True(t, ok)
	assert.Equal(t, 2025, parsed.Year)
	assert.Equal(t, 3, parsed.Month)
	assert.GreaterOrEqual(t, parsed.Sequence, 1)

	a.InvoiceNumber = ""
	b.InvoiceNumber = ""
	aJSON, err := json.Marshal(a)
	require.NoError(t, err)
	bJSON, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, aJSON, bJSON)
}
