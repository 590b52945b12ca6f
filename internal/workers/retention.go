package workers

import (
	"context"
	"time"

	"github.com/akaretnikov/welltrack/internal/service"
)

// retentionWorker adapts the service retention job to the Worker contract.
type retentionWorker struct {
	ctx      context.Context
	job      service.RetentionJob
	interval time.Duration
}

func NewRetentionWorker(ctx context.Context, job service.RetentionJob, interval time.Duration) Worker {
	return &retentionWorker{ctx: ctx, job: job, interval: interval}
}

func (w *retentionWorker) Run() {
	w.job.Start(w.ctx, w.interval)
}

func (w *retentionWorker) Stop() {
	w.job.Stop()
}
