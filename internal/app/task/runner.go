package task

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Runner executes fire-and-forget side effects outside the request that
// triggered them. Each task gets its own timeout and is never retried.
type Runner struct {
	log     *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewRunner(log *zap.Logger, timeout time.Duration) *Runner {
	return &Runner{log: log, timeout: timeout}
}

// Go starts fn detached from the caller's context. Failures and panics are
// logged and otherwise dropped.
func (r *Runner) Go(name string, fn func(ctx context.Context) error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if p := recover(); p != nil {
				r.log.Error("task panicked", zap.String("task", name), zap.Any("panic", p))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		start := time.Now()
		if err := fn(ctx); err != nil {
			r.log.Warn("task failed", zap.String("task", name), zap.Duration("took", time.Since(start)), zap.Error(err))
			return
		}
		r.log.Debug("task done", zap.String("task", name), zap.Duration("took", time.Since(start)))
	}()
}

// Wait blocks until running tasks finish or ctx ends.
func (r *Runner) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
