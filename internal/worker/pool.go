package worker

import (
	"context"

	"github.com/Xunop/e-library/internal/lending"
	"github.com/Xunop/e-library/internal/store"
)

type WorkPool interface {
	Push(job Job)
}

type Pool struct {
	queue chan Job
	done  <-chan struct{}
}

// NewPool starts size background workers. They stop when ctx is cancelled.
func NewPool(ctx context.Context, store *store.Store, notifier lending.Notifier, size int) *Pool {
	if size <= 0 {
		size = 1
	}
	pool := &Pool{
		queue: make(chan Job),
		done:  ctx.Done(),
	}

	for i := 0; i < size; i++ {
		worker := &OverdueNoticeWorker{id: i, store: store, notifier: notifier}
		go worker.Run(ctx, pool.queue)
	}
	return pool
}

// Push hands a job to the next free worker, giving up once the pool stopped.
func (p *Pool) Push(job Job) {
	select {
	case p.queue <- job:
	case <-p.done:
	}
}
