// worker/pool.go
package worker

import (
	"context"
	"errors"
	"sync"
)

// ErrPoolClosed is returned by Do after Close has been called.
var ErrPoolClosed = errors.New("worker pool closed")

type Job[T any] func(ctx context.Context) T

// Pool runs jobs on a fixed number of goroutines, which caps how many
// jobs execute at once.
type Pool[T any] struct {
	jobs chan jobWrapper[T]
	done chan struct{}

	closeOnce sync.Once
	wg        sync.WaitGroup
}

type jobWrapper[T any] struct {
	ctx    context.Context
	fn     Job[T]
	result chan T
}

func NewPool[T any](workerCount int, bufferSize int) *Pool[T] {
	if workerCount < 1 {
		workerCount = 1
	}
	p := &Pool[T]{
		jobs: make(chan jobWrapper[T], bufferSize),
		done: make(chan struct{}),
	}

	p.wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go p.worker()
	}

	return p
}

func (p *Pool[T]) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			return
		case job := <-p.jobs:
			// Skip jobs whose caller already gave up while queued.
			if job.ctx.Err() != nil {
				continue
			}
			// result is buffered so a worker never blocks on a caller that left.
			job.result <- job.fn(job.ctx)
		}
	}
}

// Do queues fn and waits for its output. It returns ctx.Err() if the
// context ends before the job finishes, and ErrPoolClosed after Close.
func (p *Pool[T]) Do(ctx context.Context, fn Job[T]) (T, error) {
	var zero T
	job := jobWrapper[T]{ctx: ctx, fn: fn, result: make(chan T, 1)}

	select {
	case <-p.done:
		return zero, ErrPoolClosed
	case <-ctx.Done():
		return zero, ctx.Err()
	case p.jobs <- job:
	}

	select {
	case out := <-job.result:
		return out, nil
	case <-p.done:
		return zero, ErrPoolClosed
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Close stops the workers after their current job. Queued jobs are dropped.
func (p *Pool[T]) Close() {
	p.closeOnce.Do(func() {
		close(p.done)
	})
	p.wg.Wait()
}
