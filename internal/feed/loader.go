// Package feed reads device lists and raw usage feeds from JSON files into
// the in-memory slices the billing run consumes. Files are the only feed
// source; how they got onto disk is outside this module.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/oklog/ulid/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"

	devicedomain "github.com/smallbiznis/lunebill/internal/device/domain"
	obsmetrics "github.com/smallbiznis/lunebill/internal/observability/metrics"
	usagedomain "github.com/smallbiznis/lunebill/internal/usage/domain"
)

var ErrFeedPathRequired = errors.New("feed_path_required")

// Loader decodes feed files and backfills the identifiers downstream stages
// rely on.
type Loader struct {
	log     *zap.Logger
	metrics *obsmetrics.Metrics
}

type LoaderParam struct {
	fx.In

	Log     *zap.Logger
	Metrics *obsmetrics.Metrics `optional:"true"`
}

func NewLoader(p LoaderParam) *Loader {
	return &Loader{
		log:     p.Log.Named("feed.loader"),
		metrics: p.Metrics,
	}
}

// Devices reads a JSON array of devices from path.
func (l *Loader) Devices(ctx context.Context, path string) ([]devicedomain.Device, error) {
	if path == "" {
		return nil, ErrFeedPathRequired
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading device file: %w", err)
	}

	var devices []devicedomain.Device
	if err := json.Unmarshal(data, &devices); err != nil {
		return nil, fmt.Errorf("parsing device file %s: %w", path, err)
	}

	l.log.Info("loaded device list",
		zap.String("path", path),
		zap.Int("devices", len(devices)),
	)
	return devices, nil
}

// Usage reads a JSON array of raw usage records from path. Records with a
// blank transaction id get a generated ULID so every record stays
// addressable in line items and logs.
func (l *Loader) Usage(ctx context.Context, path string) ([]usagedomain.UsageRecord, error) {
	if path == "" {
		return nil, ErrFeedPathRequired
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading usage file: %w", err)
	}

	var records []usagedomain.UsageRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing usage file %s: %w", path, err)
	}

	backfilled := 0
	for i := range records {
		if records[i].TransactionID == "" {
			records[i].TransactionID = ulid.Make().String()
			backfilled++
		}
	}

	l.metrics.RecordFeedLoaded(ctx, "file", len(records))
	l.log.Info("loaded usage feed",
		zap.String("path", path),
		zap.Int("records", len(records)),
		zap.Int("backfilled_transaction_ids", backfilled),
	)
	return records, nil
}
