package ratelimit

import (
	"context"
	"sync"
	"time"
)

type visitor struct {
	count    int64
	start    time.Time
	lastSeen time.Time
}

// MemoryLimiter is the single-process limiter. It keeps the same fixed
// window per key as RedisLimiter, so decisions and headers come from one
// counter.
type MemoryLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
	now      func() time.Time
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[key]
	if !ok {
		l.evictLocked(now)
		v = &visitor{start: now}
		l.visitors[key] = v
	}
	if now.Sub(v.start) >= l.window {
		v.start = now
		v.count = 0
	}
	v.lastSeen = now
	v.count++

	return result(l.limit, v.count, v.start.Add(l.window).Sub(now)), nil
}

// evictLocked drops keys idle for longer than one window.
func (l *MemoryLimiter) evictLocked(now time.Time) {
	for k, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.window {
			delete(l.visitors, k)
		}
	}
}
