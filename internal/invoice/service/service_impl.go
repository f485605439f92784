package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/smallbiznis/lunebill/internal/config"
	invoicedomain "github.com/smallbiznis/lunebill/internal/invoice/domain"
	"github.com/smallbiznis/lunebill/internal/invoice/format"
	"github.com/smallbiznis/lunebill/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/lunebill/internal/observability/metrics"
)

type Service struct {
	log       *zap.Logger
	numbering invoicedomain.NumberingMode
	metrics   *obsmetrics.Metrics
}

type ServiceParam struct {
	fx.In

	Log     *zap.Logger
	Cfg     config.Config
	Metrics *obsmetrics.Metrics `optional:"true"`
}

func NewService(p ServiceParam) invoicedomain.Assembler {
	return &Service{
		log:       p.Log.Named("invoice.service"),
		numbering: invoicedomain.ParseNumberingMode(string(p.Cfg.Numbering)),
		metrics:   p.Metrics,
	}
}

// Assemble flattens the per-device results into one ordered line item
// list, sums the charges and stamps the draft with an invoice number.
// A request where no device matched any records yields an explicit empty
// draft, not an error.
func (s *Service) Assemble(ctx context.Context, req invoicedomain.AssembleRequest) invoicedomain.InvoiceDraft {
	draft := invoicedomain.InvoiceDraft{
		Period:    req.Period,
		LineItems: make([]invoicedomain.LineItem, 0),
		Subtotal:  decimal.Zero,
		Total:     decimal.Zero,
		PerDevice: make([]invoicedomain.DeviceUsage, 0, len(req.Devices)),
	}

	totalRecords := 0
	totalMinutes := 0.0
	for _, device := range req.Devices {
		draft.PerDevice = append(draft.PerDevice, invoicedomain.DeviceUsage{
			DeviceID: device.DeviceID,
			Stats:    device.Rated.Stats,
		})

		for _, record := range device.Rated.Records {
			durationText := format.FormatDuration(record.Minutes)
			draft.LineItems = append(draft.LineItems, invoicedomain.LineItem{
				TransactionID: record.TransactionID,
				DeviceID:      record.DeviceID,
				SBC:           record.SBC,
				Date:          record.Date,
				Time:          record.Time,
				Action:        record.Action,
				Description:   fmt.Sprintf("%s - %s (%s)", record.Action, device.DeviceID, durationText),
				DurationText:  durationText,
				Minutes:       record.Minutes,
				Charge:        record.Charge,
			})
			draft.Subtotal = draft.Subtotal.Add(record.Charge)
		}

		totalRecords += device.Rated.Stats.TotalRecords
		totalMinutes += device.Rated.Stats.TotalMinutes
	}

	// No tax dimension in this domain, so the total is the subtotal.
	draft.Total = draft.Subtotal
	draft.Notes = fmt.Sprintf("%d usage records, total usage %s", totalRecords, format.FormatDuration(totalMinutes))

	switch s.numbering {
	case invoicedomain.NumberingRandom:
		draft.InvoiceNumber = format.RandomNumber(req.Period.Year, req.Period.Month)
	default:
		draft.InvoiceNumber = format.SequentialNumber(req.Period.Year, req.Period.Month, req.Sequence)
	}

	s.metrics.RecordInvoiceGenerated(ctx, string(s.numbering))
	logger.WithContext(ctx, s.log).Info("assembled invoice draft",
		zap.String("invoice_number", draft.InvoiceNumber),
		zap.String("period", req.Period.String()),
		zap.Int("line_items", len(draft.LineItems)),
		zap.String("total", draft.Total.String()),
	)

	return draft
}
