package memory

import (
	"context"
	"sync"
	"time"

	"currency-quote-bot/internal/domain/ports/adapter"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

var _ adapter.RateLimiter = (*RateLimiter)(nil)

// RateLimiter is the in-process fallback used when Redis is not configured.
// Each key gets a token bucket refilled at limit per window; idle buckets are
// evicted after two windows.
type RateLimiter struct {
	mu      sync.Mutex
	buckets *cache.Cache
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{buckets: cache.New(10*time.Minute, 20*time.Minute)}
}

func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 || window <= 0 {
		return true, nil
	}

	r.mu.Lock()
	var l *rate.Limiter
	if v, ok := r.buckets.Get(key); ok {
		l = v.(*rate.Limiter)
	} else {
		l = rate.NewLimiter(rate.Every(window/time.Duration(limit)), limit)
	}
	r.buckets.Set(key, l, 2*window)
	r.mu.Unlock()

	return l.Allow(), nil
}
