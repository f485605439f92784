package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	billingdomain "github.com/smallbiznis/lunebill/internal/billing/domain"
	"github.com/smallbiznis/lunebill/internal/clock"
	devicedomain "github.com/smallbiznis/lunebill/internal/device/domain"
	invoicedomain "github.com/smallbiznis/lunebill/internal/invoice/domain"
	obscontext "github.com/smallbiznis/lunebill/internal/observability/context"
	"github.com/smallbiznis/lunebill/internal/observability/tracing"
	"github.com/smallbiznis/lunebill/internal/period"
	ratingdomain "github.com/smallbiznis/lunebill/internal/rating/domain"
	usagedomain "github.com/smallbiznis/lunebill/internal/usage/domain"
	"github.com/smallbiznis/lunebill/pkg/correlation"
)

type Service struct {
	log       *zap.Logger
	clock     clock.Clock
	genID     *snowflake.Node
	matcher   devicedomain.Matcher
	rating    ratingdomain.Service
	assembler invoicedomain.Assembler
	tracer    trace.Tracer
}

type ServiceParam struct {
	fx.In

	Log       *zap.Logger
	Clock     clock.Clock
	GenID     *snowflake.Node
	Matcher   devicedomain.Matcher
	Rating    ratingdomain.Service
	Assembler invoicedomain.Assembler
}

func NewService(p ServiceParam) billingdomain.Service {
	return &Service{
		log:       p.Log.Named("billing.service"),
		clock:     p.Clock,
		genID:     p.GenID,
		matcher:   p.Matcher,
		rating:    p.Rating,
		assembler: p.Assembler,
		tracer:    otel.Tracer("lunebill/billing"),
	}
}

// Run matches the feed against the known devices, resolves the billing
// period, rates everything in range and assembles the invoice draft.
// Identical inputs yield identical drafts; only a random invoice number
// differs between runs.
func (s *Service) Run(ctx context.Context, input billingdomain.RunInput) invoicedomain.InvoiceDraft {
	ctx, cid := correlation.EnsureCorrelationID(ctx)
	runID := s.genID.Generate().String()
	ctx = obscontext.WithRunID(ctx, runID)
	if office := firstOfficeID(input.Devices); office != "" {
		ctx = obscontext.WithOfficeID(ctx, office)
	}

	ctx, span := s.tracer.Start(ctx, "billing.run", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	log := s.log.With(
		zap.String("run_id", runID),
		zap.String("correlation_id", cid),
	)

	matched := make([][]usagedomain.UsageRecord, len(input.Devices))
	for i, device := range input.Devices {
		matched[i] = s.matcher.RecordsForDevice(ctx, device, input.Feed)
	}

	target := s.resolvePeriod(input.Period, matched, log)

	results := make([]invoicedomain.DeviceResult, 0, len(input.Devices))
	for i, device := range input.Devices {
		inPeriod := period.Filter(matched[i], target)
		results = append(results, invoicedomain.DeviceResult{
			DeviceID: device.SerialNumber,
			Rated:    s.rating.Rate(ctx, inPeriod),
		})
	}

	draft := s.assembler.Assemble(ctx, invoicedomain.AssembleRequest{
		Period:   target,
		Devices:  results,
		Sequence: input.Sequence,
	})

	span.SetAttributes(tracing.SafeAttributes(
		attribute.String("run_id", runID),
		attribute.String("billing_period", target.String()),
		attribute.Int("devices", len(input.Devices)),
		attribute.Int("feed_records", len(input.Feed)),
		attribute.Int("line_items", len(draft.LineItems)),
	)...)
	log.Info("billing run complete",
		zap.String("invoice_number", draft.InvoiceNumber),
		zap.String("period", target.String()),
		zap.Int("devices", len(input.Devices)),
		zap.Int("feed_records", len(input.Feed)),
		zap.Int("line_items", len(draft.LineItems)),
		zap.String("total", draft.Total.String()),
	)

	return draft
}

// firstOfficeID returns the office of the first device carrying one.
// Billing runs are scoped to a single office, so one value is enough for
// log correlation.
func firstOfficeID(devices []devicedomain.Device) string {
	for _, device := range devices {
		if device.OfficeID != "" {
			return device.OfficeID
		}
	}
	return ""
}

// resolvePeriod prefers the caller's target, then the first device whose
// matched records carry a parseable date, then the current month. The
// resolved period is what the draft reports, so an inferred period is
// visible to the caller.
func (s *Service) resolvePeriod(target *period.Period, matched [][]usagedomain.UsageRecord, log *zap.Logger) period.Period {
	if target != nil {
		return *target
	}

	for _, records := range matched {
		if derived, ok := period.Derive(records); ok {
			log.Info("derived billing period from feed", zap.String("period", derived.String()))
			return derived
		}
	}

	now := s.clock.Now()
	fallback := period.Period{Month: now.Month(), Year: now.Year()}
	log.Warn("no billing period target and no parseable feed dates", zap.String("period", fallback.String()))
	return fallback
}
