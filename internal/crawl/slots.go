package crawl

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Pool is the process-wide crawl slot pool. Acquire blocks until a slot
// frees; waiters are served in FIFO order. Release must run on every exit
// path, so callers pair Acquire with an immediate defer.
type Pool struct {
	sem    *semaphore.Weighted
	active atomic.Int64
}

// NewPool creates a pool with the given number of slots.
func NewPool(size int) *Pool {
	if size <= 0 {
		size = 1
	}
	return &Pool{sem: semaphore.NewWeighted(int64(size))}
}

// Acquire blocks until a slot is available or the context is cancelled.
func (p *Pool) Acquire(ctx context.Context) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	p.active.Add(1)
	return nil
}

// Release frees a slot, waking the oldest waiter.
func (p *Pool) Release() {
	p.active.Add(-1)
	p.sem.Release(1)
}

// Active returns the number of held slots. Used by instrumentation and the
// concurrency-invariant tests.
func (p *Pool) Active() int {
	return int(p.active.Load())
}
