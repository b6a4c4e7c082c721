//go:build !integration

package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestPoolKeepsPerKeyOrder(t *testing.T) {
	p := NewPool(4, 8)
	p.Start(context.Background())

	var mu sync.Mutex
	seen := map[int64][]int{}
	workerOf := map[int64]map[int]bool{}

	for i := 0; i < 50; i++ {
		for _, key := range []int64{1, 2, 3, 42} {
			key, i := key, i
			err := p.Submit(context.Background(), key, func(ctx context.Context, worker int) {
				mu.Lock()
				defer mu.Unlock()
				seen[key] = append(seen[key], i)
				if workerOf[key] == nil {
					workerOf[key] = map[int]bool{}
				}
				workerOf[key][worker] = true
			})
			if err != nil {
				t.Fatalf("Submit: %v", err)
			}
		}
	}
	p.Stop()

	for key, got := range seen {
		if len(got) != 50 {
			t.Fatalf("key %d ran %d tasks", key, len(got))
		}
		for i := range got {
			if got[i] != i {
				t.Fatalf("key %d out of order at %d: %v", key, i, got)
			}
		}
		if len(workerOf[key]) != 1 {
			t.Errorf("key %d ran on %d workers", key, len(workerOf[key]))
		}
	}
}

func TestPoolSubmitAfterStop(t *testing.T) {
	p := NewPool(1, 1)
	p.Start(context.Background())
	p.Stop()
	p.Stop()

	err := p.Submit(context.Background(), 1, func(context.Context, int) {})
	if !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
}

func TestPoolSubmitHonoursContext(t *testing.T) {
	p := NewPool(1, 1)
	release := make(chan struct{})
	p.Start(context.Background())
	defer func() {
		close(release)
		p.Stop()
	}()

	block := func(context.Context, int) { <-release }
	// one task running, one queued
	_ = p.Submit(context.Background(), 1, block)
	deadline := time.Now().Add(time.Second)
	for len(p.queues[0]) != 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	_ = p.Submit(context.Background(), 1, block)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := p.Submit(ctx, 1, block); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestPoolRejectsNilTask(t *testing.T) {
	p := NewPool(0, 0)
	if p.Size() < 1 {
		t.Fatalf("size = %d", p.Size())
	}
	if err := p.Submit(context.Background(), 0, nil); err == nil {
		t.Fatal("expected error for nil task")
	}
}
