package metrics

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	pricingdomain "github.com/smallbiznis/lunebill/internal/pricing/domain"
)

const (
	WorkerJobReasonDeadlineExceeded = "deadline_exceeded"
	WorkerJobReasonIO               = "io"
	WorkerJobReasonInvalidConfig    = "invalid_config"
	WorkerJobReasonUnknown          = "unknown"
)

// WorkerMetrics captures billing worker health signals.
type WorkerMetrics struct {
	jobRuns          *prometheus.CounterVec
	jobDuration      *prometheus.HistogramVec
	jobTimeouts      *prometheus.CounterVec
	jobErrors        *prometheus.CounterVec
	recordsProcessed *prometheus.CounterVec
	runLoopLag       prometheus.Observer
}

var (
	workerMetricsOnce sync.Once
	workerMetrics     *WorkerMetrics
)

// Worker returns the singleton worker metrics registry.
func Worker() *WorkerMetrics {
	return WorkerWithConfig(Config{})
}

// WorkerWithConfig returns the singleton worker metrics registry using config labels.
func WorkerWithConfig(cfg Config) *WorkerMetrics {
	workerMetricsOnce.Do(func() {
		workerMetrics = newWorkerMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return workerMetrics
}

// ResetWorkerMetricsForTest resets the worker metrics singleton for tests.
func ResetWorkerMetricsForTest() {
	workerMetricsOnce = sync.Once{}
	workerMetrics = nil
}

func newWorkerMetrics(registerer prometheus.Registerer, cfg Config) *WorkerMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "lunebill"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	jobRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "lunebill_worker_job_runs_total",
		Help:        "Worker job runs by name.",
		ConstLabels: constLabels,
	}, []string{"job"})
	jobDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "lunebill_worker_job_duration_seconds",
		Help:        "Worker job latency to keep draft generation fresh.",
		Buckets:     []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
		ConstLabels: constLabels,
	}, []string{"job"})
	jobTimeouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "lunebill_worker_job_timeouts_total",
		Help:        "Worker jobs that exceeded their soft deadline.",
		ConstLabels: constLabels,
	}, []string{"job"})
	jobErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "lunebill_worker_job_errors_total",
		Help:        "Worker job errors by low-cardinality reason.",
		ConstLabels: constLabels,
	}, []string{"job", "reason"})
	recordsProcessed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "lunebill_worker_records_processed_total",
		Help:        "Feed records processed per job to gauge billing throughput.",
		ConstLabels: constLabels,
	}, []string{"job"})
	runLoopLag := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:        "lunebill_worker_runloop_lag_seconds",
		Help:        "Worker run loop lag beyond the configured interval.",
		Buckets:     []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		ConstLabels: constLabels,
	})

	registerer.MustRegister(
		jobRuns,
		jobDuration,
		jobTimeouts,
		jobErrors,
		recordsProcessed,
		runLoopLag,
	)

	return &WorkerMetrics{
		jobRuns:          jobRuns,
		jobDuration:      jobDuration,
		jobTimeouts:      jobTimeouts,
		jobErrors:        jobErrors,
		recordsProcessed: recordsProcessed,
		runLoopLag:       runLoopLag,
	}
}

// IncJobRun increments the run counter for a worker job.
func (m *WorkerMetrics) IncJobRun(job string) {
	if m == nil || m.jobRuns == nil {
		return
	}
	m.jobRuns.WithLabelValues(job).Inc()
}

// ObserveJobDuration records worker job latency in seconds.
func (m *WorkerMetrics) ObserveJobDuration(job string, duration time.Duration) {
	if m == nil || m.jobDuration == nil {
		return
	}
	m.jobDuration.WithLabelValues(job).Observe(duration.Seconds())
}

// IncJobTimeout increments the timeout counter for the worker job.
func (m *WorkerMetrics) IncJobTimeout(job string) {
	if m == nil || m.jobTimeouts == nil {
		return
	}
	m.jobTimeouts.WithLabelValues(job).Inc()
}

// IncJobError increments the worker job error counter with classification.
func (m *WorkerMetrics) IncJobError(job string, err error) {
	if m == nil || m.jobErrors == nil || err == nil {
		return
	}
	m.jobErrors.WithLabelValues(job, ClassifyWorkerJobReason(err)).Inc()
}

// AddRecordsProcessed adds processed feed record counts for a job.
func (m *WorkerMetrics) AddRecordsProcessed(job string, count int) {
	if m == nil || m.recordsProcessed == nil || count <= 0 {
		return
	}
	m.recordsProcessed.WithLabelValues(job).Add(float64(count))
}

// ObserveRunLoopLag records lag between the scheduled tick and actual run start.
func (m *WorkerMetrics) ObserveRunLoopLag(duration time.Duration) {
	if m == nil || m.runLoopLag == nil {
		return
	}
	lag := duration
	if lag < 0 {
		lag = 0
	}
	m.runLoopLag.Observe(lag.Seconds())
}

// ClassifyWorkerJobReason maps worker job errors to low-cardinality reasons.
func ClassifyWorkerJobReason(err error) string {
	if err == nil {
		return WorkerJobReasonUnknown
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return WorkerJobReasonDeadlineExceeded
	}
	if isIOError(err) {
		return WorkerJobReasonIO
	}
	if isPricingConfigError(err) {
		return WorkerJobReasonInvalidConfig
	}
	return WorkerJobReasonUnknown
}

func isIOError(err error) bool {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return true
	}
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission)
}

func isPricingConfigError(err error) bool {
	return errors.Is(err, pricingdomain.ErrEmptyTable) ||
		errors.Is(err, pricingdomain.ErrTierBounds) ||
		errors.Is(err, pricingdomain.ErrTierGap) ||
		errors.Is(err, pricingdomain.ErrNegativePrice) ||
		errors.Is(err, pricingdomain.ErrMissingTierLabel)
}
