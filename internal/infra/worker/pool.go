// File: internal/infra/worker/pool.go
package worker

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// ErrStopped is returned by Submit once Stop has been called.
var ErrStopped = errors.New("worker pool stopped")

// Task runs on the worker that owns its key.
type Task func(ctx context.Context, worker int)

// Pool is a small keyed worker pool. Tasks submitted with the same key always
// land on the same worker, so they run one at a time and in submission order.
type Pool struct {
	wg     sync.WaitGroup
	mu     sync.RWMutex
	queues []chan Task
	closed bool
}

func NewPool(workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if queueSize <= 0 {
		queueSize = workers * 4
	}
	queues := make([]chan Task, workers)
	for i := range queues {
		queues[i] = make(chan Task, queueSize)
	}
	return &Pool{queues: queues}
}

// Size is the number of workers.
func (p *Pool) Size() int { return len(p.queues) }

// Start launches the workers. Tasks get ctx; queued tasks still drain after
// ctx is cancelled so Stop never strands them.
func (p *Pool) Start(ctx context.Context) {
	for i, q := range p.queues {
		p.wg.Add(1)
		go func(id int, in <-chan Task) {
			defer p.wg.Done()
			for task := range in {
				task(ctx, id)
			}
		}(i, q)
	}
}

// Stop closes the queues and waits for the workers to drain them.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	for _, q := range p.queues {
		close(q)
	}
	p.mu.Unlock()
	p.wg.Wait()
}

// Submit queues task on the worker owning key. It blocks while that queue is
// full, until ctx is done.
func (p *Pool) Submit(ctx context.Context, key int64, task Task) error {
	if task == nil {
		return errors.New("nil task")
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrStopped
	}
	select {
	case p.queues[p.shard(key)] <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) shard(key int64) int {
	return int(uint64(key) % uint64(len(p.queues)))
}
