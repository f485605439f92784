// Package worker drives billing runs on an interval, re-reading the feed
// files and the hot-reloaded pricing table on every pass.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	billingdomain "github.com/smallbiznis/lunebill/internal/billing/domain"
	"github.com/smallbiznis/lunebill/internal/clock"
	"github.com/smallbiznis/lunebill/internal/config"
	devicedomain "github.com/smallbiznis/lunebill/internal/device/domain"
	"github.com/smallbiznis/lunebill/internal/feed"
	invoicedomain "github.com/smallbiznis/lunebill/internal/invoice/domain"
	"github.com/smallbiznis/lunebill/internal/invoice/sequence"
	obsmetrics "github.com/smallbiznis/lunebill/internal/observability/metrics"
	"github.com/smallbiznis/lunebill/internal/period"
	"github.com/smallbiznis/lunebill/internal/seed"
	usagedomain "github.com/smallbiznis/lunebill/internal/usage/domain"
	"github.com/smallbiznis/lunebill/pkg/correlation"
)

var ErrInvalidConfig = errors.New("invalid_worker_config")

type Params struct {
	fx.In

	Log       *zap.Logger
	Clock     clock.Clock
	GenID     *snowflake.Node
	AppConfig config.Config
	Billing   billingdomain.Service
	Loader    *feed.Loader
	Seeder    *seed.Generator
	Sequencer *sequence.Sequencer
	Config    Config    `optional:"true"`
	Out       io.Writer `optional:"true"`
}

type Worker struct {
	log       *zap.Logger
	cfg       Config
	appCfg    config.Config
	clock     clock.Clock
	genID     *snowflake.Node
	billing   billingdomain.Service
	loader    *feed.Loader
	seeder    *seed.Generator
	sequencer *sequence.Sequencer
	out       io.Writer
}

func New(p Params) (*Worker, error) {
	if p.Log == nil || p.Clock == nil || p.GenID == nil || p.Billing == nil || p.Loader == nil || p.Seeder == nil || p.Sequencer == nil {
		return nil, ErrInvalidConfig
	}
	out := p.Out
	if out == nil {
		out = os.Stdout
	}
	return &Worker{
		log:       p.Log.Named("worker").With(zap.String("component", "worker")),
		cfg:       p.Config.withDefaults(),
		appCfg:    p.AppConfig,
		clock:     p.Clock,
		genID:     p.GenID,
		billing:   p.Billing,
		loader:    p.Loader,
		seeder:    p.Seeder,
		sequencer: p.Sequencer,
		out:       out,
	}, nil
}

func (w *Worker) runJob(
	parent context.Context,
	name string,
	timeout time.Duration,
	fn func(ctx context.Context) error,
) error {
	start := w.clock.Now()
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	ctx, _ = correlation.EnsureCorrelationID(ctx)
	ctx, run, owner := w.ensureJobRun(ctx, name)
	if owner {
		w.logJobStart(ctx, run)
	}
	log := w.logger(ctx).With(
		zap.String("job", name),
		zap.String("run_id", run.runID),
	)
	workerMetrics := obsmetrics.Worker()
	workerMetrics.IncJobRun(name)

	err := fn(ctx)
	workerMetrics.ObserveJobDuration(name, time.Since(start))
	if owner {
		if err != nil && run != nil && run.errorCount == 0 {
			run.IncError()
		}
		w.logJobFinish(ctx, run)
	}
	if err == nil {
		return nil
	}

	// A deadline hit mid-run is a soft timeout, not a failure.
	isTimeout := errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
	if isTimeout {
		workerMetrics.IncJobTimeout(name)
	}
	workerMetrics.IncJobError(name, err)
	if isTimeout {
		log.Warn("job timed out",
			zap.Duration("timeout", timeout),
			zap.Error(err),
		)
		return nil
	}

	return fmt.Errorf("%s: %w", name, err)
}

func (w *Worker) RunOnce(parent context.Context) error {
	var err error

	jobs := []struct {
		Name    string
		Enabled bool
		Run     func(context.Context) error
	}{
		{"billing_run", w.isJobEnabled("billing_run"), func(ctx context.Context) error {
			return w.runJob(ctx, "billing_run", w.cfg.JobTimeout, w.BillingRunJob)
		}},
	}

	for _, job := range jobs {
		if job.Enabled {
			err = errors.Join(err, job.Run(parent))
		}
	}

	return err
}

func (w *Worker) RunForever(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.RunInterval)
	defer ticker.Stop()
	nextRun := w.clock.Now().Add(w.cfg.RunInterval)
	workerMetrics := obsmetrics.Worker()

	for {
		runLag := time.Since(nextRun)
		if runLag > 0 {
			workerMetrics.ObserveRunLoopLag(runLag)
		}
		if err := w.RunOnce(ctx); err != nil {
			w.log.Warn("worker run failed", zap.Error(err))
		}
		nextRun = nextRun.Add(w.cfg.RunInterval)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (w *Worker) isJobEnabled(jobName string) bool {
	// If EnabledJobs is empty, all jobs are enabled by default
	if len(w.cfg.EnabledJobs) == 0 {
		return true
	}
	for _, enabled := range w.cfg.EnabledJobs {
		if strings.EqualFold(enabled, jobName) {
			return true
		}
	}
	return false
}

// BillingRunJob loads the configured feeds, or seeds demo data when no
// paths are set, executes one billing run, and writes the draft JSON to the
// output sink.
func (w *Worker) BillingRunJob(ctx context.Context) error {
	ctx, run, owner := w.ensureJobRun(ctx, "billing_run")
	if owner {
		w.logJobStart(ctx, run)
		defer w.logJobFinish(ctx, run)
	}

	devices, records, err := w.loadInputs(ctx)
	if err != nil {
		run.IncError()
		return err
	}

	target := w.appCfg.TargetPeriod()
	year, month := w.sequencePeriod(target)

	draft := w.billing.Run(ctx, billingdomain.RunInput{
		Devices:  devices,
		Feed:     records,
		Period:   target,
		Sequence: w.sequencer.Next(year, month),
	})
	run.AddProcessed(len(records))
	obsmetrics.Worker().AddRecordsProcessed("billing_run", len(records))

	return w.emitDraft(draft)
}

func (w *Worker) loadInputs(ctx context.Context) ([]devicedomain.Device, []usagedomain.UsageRecord, error) {
	if w.appCfg.DevicesPath != "" && w.appCfg.UsagePath != "" {
		devices, err := w.loader.Devices(ctx, w.appCfg.DevicesPath)
		if err != nil {
			return nil, nil, err
		}
		records, err := w.loader.Usage(ctx, w.appCfg.UsagePath)
		if err != nil {
			return nil, nil, err
		}
		return devices, records, nil
	}

	w.logger(ctx).Info("no feed paths configured, seeding demo data",
		zap.Int("devices", w.appCfg.SeedDevices),
		zap.Int("records_per_device", w.appCfg.SeedRecordsPerDevice),
	)
	devices := w.seeder.Devices(w.appCfg.SeedDevices)
	return devices, w.seeder.Usage(ctx, devices, w.appCfg.SeedRecordsPerDevice), nil
}

// sequencePeriod picks the key for the per-period invoice counter. The run
// may still derive a different period from the feed; the counter only has
// to stay monotonic per key.
func (w *Worker) sequencePeriod(target *period.Period) (int, time.Month) {
	if target != nil {
		return target.Year, target.Month
	}
	now := period.FromTime(w.clock.Now())
	return now.Year, now.Month
}

func (w *Worker) emitDraft(draft invoicedomain.InvoiceDraft) error {
	data, err := json.MarshalIndent(draft, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding draft: %w", err)
	}
	if _, err := fmt.Fprintln(w.out, string(data)); err != nil {
		return fmt.Errorf("writing draft: %w", err)
	}
	return nil
}
