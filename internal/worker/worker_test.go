package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	billingservice "github.com/smallbiznis/lunebill/internal/billing/service"
	"github.com/smallbiznis/lunebill/internal/clock"
	"github.com/smallbiznis/lunebill/internal/config"
	deviceservice "github.com/smallbiznis/lunebill/internal/device/service"
	"github.com/smallbiznis/lunebill/internal/feed"
	invoicedomain "github.com/smallbiznis/lunebill/internal/invoice/domain"
	invoiceservice "github.com/smallbiznis/lunebill/internal/invoice/service"
	"github.com/smallbiznis/lunebill/internal/invoice/sequence"
	pricingdomain "github.com/smallbiznis/lunebill/internal/pricing/domain"
	ratingservice "github.com/smallbiznis/lunebill/internal/rating/service"
	"github.com/smallbiznis/lunebill/internal/seed"
)

func newWorker(t *testing.T, appCfg config.Config, out io.Writer) *Worker {
	t.Helper()

	log := zap.NewNop()
	fake := clock.NewFakeClock(time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC))
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	matcher := deviceservice.NewService(deviceservice.ServiceParam{Log: log, Cfg: appCfg})
	rating := ratingservice.NewService(ratingservice.ServiceParam{
		Log:     log,
		Pricing: config.StaticPricingConfigHolder(pricingdomain.DefaultTable()),
	})
	assembler := invoiceservice.NewService(invoiceservice.ServiceParam{Log: log, Cfg: appCfg})
	billing := billingservice.NewService(billingservice.ServiceParam{
		Log:       log,
		Clock:     fake,
		GenID:     node,
		Matcher:   matcher,
		Rating:    rating,
		Assembler: assembler,
	})

	w, err := New(Params{
		Log:       log,
		Clock:     fake,
		GenID:     node,
		AppConfig: appCfg,
		Billing:   billing,
		Loader:    feed.NewLoader(feed.LoaderParam{Log: log}),
		Seeder:    seed.NewGenerator(seed.GeneratorParam{Log: log, Clock: fake}),
		Sequencer: sequence.NewSequencer(),
		Out:       out,
	})
	require.NoError(t, err)
	return w
}

func writeWorkerFeed(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()

	devicesPath := filepath.Join(dir, "devices.json")
	require.NoError(t, os.WriteFile(devicesPath, []byte(`[
		{"serial_number": "LUNE-ALPHA-01", "office_id": "office-7", "plan": "standard"}
	]`), 0o644))

	usagePath := filepath.Join(dir, "usage.json")
	require.NoError(t, os.WriteFile(usagePath, []byte(`[
		{"transaction_id": "t1", "device_id": "LUNE-ALPHA-01", "date": "5/3/2025", "time": "09:15", "action": "Whitening", "duration": "05:30"},
		{"transaction_id": "t2", "device_id": "LUNE-ALPHA-01", "date": "9/3/2025", "time": "11:40", "action": "Cleaning", "duration": "12:00"}
	]`), 0o644))

	return devicesPath, usagePath
}

func decodeDraft(t *testing.T, buf *bytes.Buffer) invoicedomain.InvoiceDraft {
	t.Helper()
	var draft invoicedomain.InvoiceDraft
	require.NoError(t, json.Unmarshal(buf.Bytes(), &draft))
	return draft
}

func TestBillingRunJobWithFeedFiles(t *testing.T) {
	devicesPath, usagePath := writeWorkerFeed(t)
	buf := &bytes.Buffer{}
	w := newWorker(t, config.Config{
		DevicesPath:  devicesPath,
		UsagePath:    usagePath,
		BillingMonth: 3,
		BillingYear:  2025,
	}, buf)

	require.NoError(t, w.RunOnce(context.Background()))

	draft := decodeDraft(t, buf)
	assert.Equal(t, "INV-2503000001", draft.InvoiceNumber)
	require.Len(t, draft.LineItems, 2)
	assert.Equal(t, "22", draft.Total.String())

	// A second pass advances the per-period sequence.
	buf.Reset()
	require.NoError(t, w.RunOnce(context.Background()))
	assert.Equal(t, "INV-2503000002", decodeDraft(t, buf).InvoiceNumber)
}

func TestBillingRunJobSeedsWhenNoPathsConfigured(t *testing.T) {
	buf := &bytes.Buffer{}
	w := newWorker(t, config.Config{
		SeedDevices:          2,
		SeedRecordsPerDevice: 6,
	}, buf)

	require.NoError(t, w.RunOnce(context.Background()))

	draft := decodeDraft(t, buf)
	assert.Equal(t, time.March, draft.Period.Month)
	assert.Equal(t, 2025, draft.Period.Year)
	assert.Len(t, draft.LineItems, 12)
	assert.Len(t, draft.PerDevice, 2)
}

func TestRunOnceReportsFeedErrors(t *testing.T) {
	_, usagePath := writeWorkerFeed(t)
	w := newWorker(t, config.Config{
		DevicesPath: filepath.Join(t.TempDir(), "missing.json"),
		UsagePath:   usagePath,
	}, &bytes.Buffer{})

	err := w.RunOnce(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, time.Minute, cfg.RunInterval)
	assert.Equal(t, 30*time.Second, cfg.JobTimeout)

	cfg = Config{RunInterval: 5 * time.Second}.withDefaults()
	assert.Equal(t, 5*time.Second, cfg.RunInterval)
	assert.Equal(t, 30*time.Second, cfg.JobTimeout)
}

func TestIsJobEnabled(t *testing.T) {
	w := &Worker{cfg: Config{}}
	assert.True(t, w.isJobEnabled("billing_run"))

	w.cfg.EnabledJobs = []string{"other_job"}
	assert.False(t, w.isJobEnabled("billing_run"))

	w.cfg.EnabledJobs = []string{"Billing_Run"}
	assert.True(t, w.isJobEnabled("billing_run"))
}
