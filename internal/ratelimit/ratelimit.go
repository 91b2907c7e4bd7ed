// Package ratelimit counts requests per key over a fixed window.
package ratelimit

import (
	"context"
	"time"
)

// Result describes the state of a key after one request was counted.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAfter time.Duration
}

// Limiter counts one request for key and reports whether it fits the quota.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

func result(limit int, count int64, resetAfter time.Duration) Result {
	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:    count <= int64(limit),
		Limit:      limit,
		Remaining:  remaining,
		ResetAfter: resetAfter,
	}
}
