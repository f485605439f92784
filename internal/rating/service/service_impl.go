package service

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/smallbiznis/lunebill/internal/config"
	obsmetrics "github.com/smallbiznis/lunebill/internal/observability/metrics"
	ratingdomain "github.com/smallbiznis/lunebill/internal/rating/domain"
	usagedomain "github.com/smallbiznis/lunebill/internal/usage/domain"
)

type Service struct {
	log     *zap.Logger
	pricing *config.PricingConfigHolder
	metrics *obsmetrics.Metrics
}

type ServiceParam struct {
	fx.In

	Log     *zap.Logger
	Pricing *config.PricingConfigHolder
	Metrics *obsmetrics.Metrics `optional:"true"`
}

func NewService(p ServiceParam) ratingdomain.Service {
	return &Service{
		log:     p.Log.Named("rating.service"),
		pricing: p.Pricing,
		metrics: p.Metrics,
	}
}

// Rate prices every record against the current pricing table and folds the
// batch into statistics. The table is re-read on each call so hot reloads
// apply to the next run without a restart.
func (s *Service) Rate(ctx context.Context, records []usagedomain.UsageRecord) ratingdomain.Result {
	table := s.pricing.Get()

	enriched := ratingdomain.Rate(records, table)
	stats := ratingdomain.Aggregate(enriched)

	for _, record := range enriched {
		s.metrics.RecordRated(ctx, record.TierLabel)
	}

	s.log.Debug("rated usage batch",
		zap.Int("records", stats.TotalRecords),
		zap.Float64("total_minutes", stats.TotalMinutes),
		zap.String("total_charge", stats.TotalCharge.String()),
	)

	return ratingdomain.Result{Records: enriched, Stats: stats}
}
