package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"
)

// MemoryLimiter is a process-local fixed-window limiter for tests and local
// runs. It is not shared across instances; production uses RedisLimiter.
//
// Expired windows are cleaned up opportunistically on Allow calls rather than
// by a dedicated timer.
type MemoryLimiter struct {
	limit  int
	window time.Duration
	clock  func() time.Time

	mu      sync.Mutex
	entries map[string]*windowEntry
	ops     int
}

type windowEntry struct {
	count   int
	resetAt time.Time
}

const cleanupEvery = 64

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		window:  window,
		clock:   time.Now,
		entries: make(map[string]*windowEntry),
	}
}

// SetClock overrides the time source; test helper.
func (l *MemoryLimiter) SetClock(clock func() time.Time) { l.clock = clock }

func (l *MemoryLimiter) Allow(ctx context.Context, key string) (Result, error) {
	if key == "" {
		return Result{}, errors.New("key is required")
	}
	now := l.clock()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.ops++
	if l.ops%cleanupEvery == 0 {
		for k, e := range l.entries {
			if now.After(e.resetAt) {
				delete(l.entries, k)
			}
		}
	}

	e, ok := l.entries[key]
	if !ok || now.After(e.resetAt) {
		e = &windowEntry{count: 0, resetAt: now.Add(l.window)}
		l.entries[key] = e
	}

	e.count++
	if e.count > l.limit {
		return Result{Allowed: false, Remaining: 0, RetryAfter: e.resetAt.Sub(now)}, nil
	}
	return Result{Allowed: true, Remaining: l.limit - e.count, RetryAfter: 0}, nil
}
