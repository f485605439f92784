package service

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/smallbiznis/lunebill/internal/config"
	"github.com/smallbiznis/lunebill/internal/device/domain"
	"github.com/smallbiznis/lunebill/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/lunebill/internal/observability/metrics"
	usagedomain "github.com/smallbiznis/lunebill/internal/usage/domain"
)

type ServiceParam struct {
	fx.In

	Log     *zap.Logger
	Cfg     config.Config
	Metrics *obsmetrics.Metrics `optional:"true"`
}

type service struct {
	log     *zap.Logger
	mode    domain.MatchMode
	metrics *obsmetrics.Metrics
}

// NewService builds the record matcher with the configured match mode.
func NewService(p ServiceParam) domain.Matcher {
	return &service{
		log:     p.Log.Named("device.matcher"),
		mode:    p.Cfg.MatchMode,
		metrics: p.Metrics,
	}
}

func (s *service) RecordsForDevice(ctx context.Context, device domain.Device, feed []usagedomain.UsageRecord) []usagedomain.UsageRecord {
	matched := make([]usagedomain.UsageRecord, 0, len(feed))
	for _, record := range feed {
		if domain.MatchExact(device.SerialNumber, record) {
			matched = append(matched, record)
			continue
		}
		if s.mode != domain.MatchModeSubstring {
			continue
		}
		if !domain.MatchSubstring(device.SerialNumber, record) {
			continue
		}
		// Substring hits are a collision risk, so every one is surfaced.
		logger.WithContext(ctx, s.log).Warn("substring-only device match",
			zap.String("serial_number", device.SerialNumber),
			zap.String("record_device_id", record.DeviceID),
			zap.String("record_sbc", record.SBC),
			zap.String("transaction_id", record.TransactionID),
		)
		s.metrics.RecordSubstringMatch(ctx)
		matched = append(matched, record)
	}
	return matched
}
