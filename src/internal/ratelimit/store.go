// Package ratelimit counts requests per client in fixed windows.
package ratelimit

import (
	"context"
	"time"
)

// Hit is the state of a counter right after it was incremented.
type Hit struct {
	Count   int64
	ResetAt time.Time
}

// Store increments the counter for key in the current window. The first
// hit of a window starts it; the window length is fixed at construction.
// Implementations must be safe for concurrent use and increment atomically.
type Store interface {
	Increment(ctx context.Context, key string) (Hit, error)
}
