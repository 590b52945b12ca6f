package service

import (
	"context"
	"sync"
	"time"

	"github.com/akaretnikov/welltrack/internal/logger"
)

type retentionJob struct {
	entrySvc EntryService
	logger   *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRetentionJob creates a retentionJob that calls entrySvc.PruneOld on a
// ticker. The job is idle until Start is called.
func NewRetentionJob(entrySvc EntryService, log *logger.Logger) RetentionJob {
	return &retentionJob{entrySvc: entrySvc, logger: log}
}

// Start implements RetentionJob. It stops any previously running job, then
// launches a background goroutine that prunes every interval. If interval
// is zero or negative it defaults to 1 hour. The goroutine exits when ctx
// is cancelled or Stop is called.
func (j *retentionJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				if _, err := j.entrySvc.PruneOld(jobCtx); err != nil {
					j.logger.Err(err).
						Str("func", "retentionJob").
						Msg("retention prune failed")
				}
			}
		}
	}()
}

// Stop implements RetentionJob. It cancels the background goroutine's
// context and blocks until the goroutine has fully exited. Safe to call
// when the job is not running (no-op in that case).
func (j *retentionJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
