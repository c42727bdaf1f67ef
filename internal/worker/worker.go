package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrPoolClosed is returned when work is submitted after Shutdown
var ErrPoolClosed = errors.New("worker pool is shut down")

// Pool manages background goroutines and ensures graceful shutdown
type Pool struct {
	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger
}

// NewPool creates a new worker pool
func NewPool(logger *slog.Logger) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
	}
}

// Submit runs task in its own goroutine, tracked until Shutdown
func (p *Pool) Submit(task func(ctx context.Context)) error {
	return p.SubmitWithTimeout(0, task)
}

// SubmitWithTimeout runs task with a context bounded by timeout (none when zero)
func (p *Pool) SubmitWithTimeout(timeout time.Duration, task func(ctx context.Context)) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("❌ [Worker] Task panicked", "panic", r)
			}
		}()

		ctx := p.ctx
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(p.ctx, timeout)
			defer cancel()
		}
		task(ctx)
	}()

	return nil
}

// Context returns the pool's context
func (p *Pool) Context() context.Context {
	return p.ctx
}

// Shutdown stops accepting work, waits up to timeout for running tasks, and
// then cancels their context.
func (p *Pool) Shutdown(timeout time.Duration) {
	p.logger.Info("🛑 [Worker] Initiating graceful shutdown...")

	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("✅ [Worker] All background tasks completed")
	case <-time.After(timeout):
		p.logger.Warn("⚠️ [Worker] Shutdown timeout exceeded, some tasks may not have completed",
			"timeout", timeout,
		)
	}

	p.cancel()
}
