package workers

import (
	"context"
	"sync"
	"time"

	"github.com/akaretnikov/welltrack/internal/logger"
	"github.com/akaretnikov/welltrack/internal/service"
)

// sessionSweeper periodically re-validates the persisted session so that a
// session left open past its TTL is cleared even while the app sits idle.
type sessionSweeper struct {
	ctx      context.Context
	auth     service.AuthService
	interval time.Duration
	logger   *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewSessionSweeper(ctx context.Context, auth service.AuthService, interval time.Duration, log *logger.Logger) Worker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &sessionSweeper{ctx: ctx, auth: auth, interval: interval, logger: log}
}

func (w *sessionSweeper) Run() {
	w.mu.Lock()
	jobCtx, cancel := context.WithCancel(w.ctx)
	w.cancel = cancel
	w.wg.Add(1)
	w.mu.Unlock()

	go func() {
		defer w.wg.Done()
		t := time.NewTicker(w.interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				// ValidateSession clears an expired session as a side effect
				w.auth.ValidateSession(jobCtx)
			}
		}
	}()
}

func (w *sessionSweeper) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}
