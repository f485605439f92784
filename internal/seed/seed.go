// Package seed generates demo devices and usage feeds for local runs so the
// billing pipeline can be exercised without real feed files.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/smallbiznis/lunebill/internal/clock"
	devicedomain "github.com/smallbiznis/lunebill/internal/device/domain"
	obsmetrics "github.com/smallbiznis/lunebill/internal/observability/metrics"
	usagedomain "github.com/smallbiznis/lunebill/internal/usage/domain"
)

const (
	demoOfficeID = "office-demo"
)

var demoPlans = []string{"standard", "premium"}

var demoActions = []string{"Whitening", "Cleaning", "Curing", "Diagnostics"}

// Generator produces feeds with a deterministic shape: every record
// references a generated device, carries a parseable date inside the clock's
// current month, and a parseable duration. Only the transaction ids are
// random.
type Generator struct {
	log     *zap.Logger
	clock   clock.Clock
	metrics *obsmetrics.Metrics
}

type GeneratorParam struct {
	fx.In

	Log     *zap.Logger
	Clock   clock.Clock
	Metrics *obsmetrics.Metrics `optional:"true"`
}

func NewGenerator(p GeneratorParam) *Generator {
	return &Generator{
		log:     p.Log.Named("seed.generator"),
		clock:   p.Clock,
		metrics: p.Metrics,
	}
}

// Devices returns n demo devices registered to the demo office.
func (g *Generator) Devices(n int) []devicedomain.Device {
	if n <= 0 {
		return nil
	}
	devices := make([]devicedomain.Device, 0, n)
	for i := 0; i < n; i++ {
		devices = append(devices, devicedomain.Device{
			SerialNumber: fmt.Sprintf("LUNE-DEMO-%02d", i+1),
			OfficeID:     demoOfficeID,
			Plan:         demoPlans[i%len(demoPlans)],
		})
	}
	return devices
}

// Usage returns perDevice records for each device, spread across the days of
// the clock's current month, with a mix of MM:SS and H:MM:SS durations.
func (g *Generator) Usage(ctx context.Context, devices []devicedomain.Device, perDevice int) []usagedomain.UsageRecord {
	if len(devices) == 0 || perDevice <= 0 {
		return nil
	}

	now := g.clock.Now()
	year, month := now.Year(), now.Month()
	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()

	records := make([]usagedomain.UsageRecord, 0, len(devices)*perDevice)
	for d, device := range devices {
		for i := 0; i < perDevice; i++ {
			seq := d*perDevice + i
			record := usagedomain.UsageRecord{
				TransactionID: uuid.NewString(),
				DeviceID:      device.SerialNumber,
				Date:          fmt.Sprintf("%d/%d/%d", 1+seq%daysInMonth, int(month), year),
				Time:          fmt.Sprintf("%02d:%02d", 8+seq%9, (seq*7)%60),
				Action:        demoActions[seq%len(demoActions)],
				Duration:      demoDuration(seq),
			}
			// Every third record identifies itself through the secondary
			// field only, like feeds from older device firmware do.
			if seq%3 == 2 {
				record.SBC = record.DeviceID
				record.DeviceID = ""
			}
			records = append(records, record)
		}
	}

	g.metrics.RecordFeedLoaded(ctx, "seed", len(records))
	g.log.Info("seeded demo usage feed",
		zap.Int("devices", len(devices)),
		zap.Int("records", len(records)),
		zap.String("period", fmt.Sprintf("%04d-%02d", year, int(month))),
	)
	return records
}

// demoDuration cycles through short MM:SS sessions and the occasional
// H:MM:SS one so every tier of the pricing table gets visited.
func demoDuration(seq int) string {
	if seq%5 == 4 {
		return fmt.Sprintf("1:%02d:%02d", seq%20, (seq*11)%60)
	}
	return fmt.Sprintf("%02d:%02d", 3+(seq*3)%27, (seq*13)%60)
}
