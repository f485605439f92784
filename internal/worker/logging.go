package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	obslogger "github.com/smallbiznis/lunebill/internal/observability/logger"
)

type jobRun struct {
	job            string
	runID          string
	startedAt      time.Time
	processedCount int
	errorCount     int
}

type jobRunKey struct{}

func (r *jobRun) AddProcessed(count int) {
	if r == nil || count <= 0 {
		return
	}
	r.processedCount += count
}

func (r *jobRun) IncError() {
	if r == nil {
		return
	}
	r.errorCount++
}

func (w *Worker) ensureJobRun(ctx context.Context, job string) (context.Context, *jobRun, bool) {
	if ctx == nil {
		ctx = context.Background()
	}
	if existing := jobRunFromContext(ctx); existing != nil {
		return ctx, existing, false
	}
	run := &jobRun{
		job:       job,
		runID:     w.genID.Generate().String(),
		startedAt: time.Now(),
	}
	ctx = context.WithValue(ctx, jobRunKey{}, run)
	return ctx, run, true
}

func jobRunFromContext(ctx context.Context) *jobRun {
	if ctx == nil {
		return nil
	}
	if run, ok := ctx.Value(jobRunKey{}).(*jobRun); ok {
		return run
	}
	return nil
}

func (w *Worker) logger(ctx context.Context) *zap.Logger {
	return obslogger.WithContext(ctx, w.log)
}

func (w *Worker) logJobStart(ctx context.Context, run *jobRun) {
	if run == nil {
		return
	}
	w.logger(ctx).Info("worker.job.start",
		zap.String("job", run.job),
		zap.String("run_id", run.runID),
	)
}

func (w *Worker) logJobFinish(ctx context.Context, run *jobRun) {
	if run == nil {
		return
	}
	fields := []zap.Field{
		zap.String("job", run.job),
		zap.String("run_id", run.runID),
		zap.Int64("duration_ms", time.Since(run.startedAt).Milliseconds()),
		zap.Int("processed_count", run.processedCount),
		zap.Int("error_count", run.errorCount),
	}
	log := w.logger(ctx)
	if run.errorCount > 0 {
		log.Warn("worker.job.finish", fields...)
		return
	}
	log.Info("worker.job.finish", fields...)
}
