package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Task is a long-running unit of work that returns when ctx is cancelled
type Task func(ctx context.Context) error

// Pool runs the server's long-lived tasks and ensures graceful shutdown.
// The first task to fail cancels the others.
type Pool struct {
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger

	mu  sync.Mutex
	err error
}

// NewPool creates a new worker pool bound to parent
func NewPool(parent context.Context, logger *slog.Logger) *Pool {
	ctx, cancel := context.WithCancel(parent)
	return &Pool{
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
	}
}

// Go starts a named task and tracks it
func (p *Pool) Go(name string, task Task) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		p.logger.Info("▶️ [Worker] Task started", "task", name)
		err := task(p.ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			p.logger.Error("❌ [Worker] Task failed", "task", name, "error", err)
			p.fail(err)
			return
		}
		p.logger.Info("⏹️ [Worker] Task stopped", "task", name)
	}()
}

func (p *Pool) fail(err error) {
	p.mu.Lock()
	if p.err == nil {
		p.err = err
	}
	p.mu.Unlock()
	p.cancel()
}

// Context returns the pool's context
func (p *Pool) Context() context.Context {
	return p.ctx
}

// Done is closed once shutdown starts or a task fails
func (p *Pool) Done() <-chan struct{} {
	return p.ctx.Done()
}

// Err returns the first task failure, if any
func (p *Pool) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Shutdown signals all tasks to stop and waits for them. It reports false
// when the timeout expired first.
func (p *Pool) Shutdown(timeout time.Duration) bool {
	p.logger.Info("🛑 [Worker] Initiating graceful shutdown...")

	// Signal all workers to stop
	p.cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("✅ [Worker] All tasks completed")
		return true
	case <-time.After(timeout):
		p.logger.Warn("⚠️ [Worker] Shutdown timeout exceeded, some tasks may not have completed",
			"timeout", timeout,
		)
		return false
	}
}
