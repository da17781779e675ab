// internal/app/system/refresh/refresh.go

// Package refresh runs periodic background fetches for dashboard data.
//
// The portal's dashboards poll their external collections on fixed
// intervals (4s for the fast-moving request queues, 30s for the slower
// stock summaries). A Refresher ties each in-flight fetch to the worker's
// lifetime via context, so stopping the worker aborts the request instead
// of letting a late response land after teardown, and backs off
// exponentially on consecutive failures so a down backend is not hammered
// at full frequency indefinitely.
package refresh

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Func performs one fetch. It must honor ctx cancellation.
type Func func(ctx context.Context) error

// Refresher is a background worker that invokes a fetch function on an
// interval with failure backoff.
type Refresher struct {
	name     string
	fn       Func
	log      *zap.Logger
	interval time.Duration
	maxWait  time.Duration

	cancel context.CancelFunc
	stopCh chan struct{}
	wg     sync.WaitGroup

	mu       sync.Mutex
	failures int
	lastErr  error
}

// New creates a refresher that calls fn every interval. On consecutive
// failures the wait doubles, capped at maxBackoff; a success resets it.
// A maxBackoff of zero defaults to 8x the interval.
func New(name string, interval, maxBackoff time.Duration, fn Func, logger *zap.Logger) *Refresher {
	if maxBackoff <= 0 {
		maxBackoff = 8 * interval
	}
	return &Refresher{
		name:     name,
		fn:       fn,
		log:      logger,
		interval: interval,
		maxWait:  maxBackoff,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the refresh loop. The first fetch runs immediately.
func (rf *Refresher) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	rf.cancel = cancel

	rf.wg.Add(1)
	go rf.run(ctx)

	rf.log.Info("refresher started",
		zap.String("name", rf.name),
		zap.Duration("interval", rf.interval))
}

// Stop cancels any in-flight fetch and waits for the loop to finish.
func (rf *Refresher) Stop() {
	close(rf.stopCh)
	if rf.cancel != nil {
		rf.cancel()
	}
	rf.wg.Wait()
	rf.log.Info("refresher stopped", zap.String("name", rf.name))
}

// LastErr returns the most recent fetch error, or nil after a success.
func (rf *Refresher) LastErr() error {
	rf.mu.Lock()
	defer rf.mu.Unlock()
	return rf.lastErr
}

// Failures returns the current consecutive-failure count.
func (rf *Refresher) Failures() int {
	rf.mu.Lock()
	defer rf.mu.Unlock()
	return rf.failures
}

func (rf *Refresher) run(ctx context.Context) {
	defer rf.wg.Done()

	rf.fetch(ctx)

	timer := time.NewTimer(rf.wait())
	defer timer.Stop()

	for {
		select {
		case <-rf.stopCh:
			return
		case <-timer.C:
			rf.fetch(ctx)
			timer.Reset(rf.wait())
		}
	}
}

func (rf *Refresher) fetch(ctx context.Context) {
	err := rf.fn(ctx)

	rf.mu.Lock()
	defer rf.mu.Unlock()

	rf.lastErr = err
	if err == nil {
		rf.failures = 0
		return
	}
	rf.failures++
	if ctx.Err() != nil {
		// Shutdown, not a backend failure.
		return
	}
	rf.log.Warn("refresh failed",
		zap.String("name", rf.name),
		zap.Int("consecutive", rf.failures),
		zap.Error(err))
}

// wait returns the next sleep: the base interval doubled per consecutive
// failure, capped at maxWait.
func (rf *Refresher) wait() time.Duration {
	rf.mu.Lock()
	defer rf.mu.Unlock()

	d := rf.interval
	for i := 0; i < rf.failures; i++ {
		d *= 2
		if d >= rf.maxWait {
			return rf.maxWait
		}
	}
	return d
}
