package ratelimit

import (
	"context"
	"time"
)

type Config struct {
	Window  time.Duration
	Max     int64
	Message string
	// FailOpen lets requests through when the counter store fails instead
	// of raising the failure.
	FailOpen bool
}

// Result describes the caller's budget after one request was counted.
type Result struct {
	Limit     int64
	Remaining int64
	ResetAt   time.Time
	Allowed   bool
}

type Limiter struct {
	store Store
	cfg   Config
	now   func() time.Time
}

func New(store Store, cfg Config) *Limiter {
	return &Limiter{store: store, cfg: cfg, now: time.Now}
}

func (l *Limiter) Config() Config {
	return l.cfg
}

// Allow counts one request for key.
func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	hit, err := l.store.Increment(ctx, key)
	if err != nil {
		return Result{}, err
	}

	remaining := l.cfg.Max - hit.Count
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Limit:     l.cfg.Max,
		Remaining: remaining,
		ResetAt:   hit.ResetAt,
		Allowed:   hit.Count <= l.cfg.Max,
	}, nil
}

// resetSeconds rounds the time left in the window up to whole seconds.
func (l *Limiter) resetSeconds(r Result) int64 {
	left := r.ResetAt.Sub(l.now())
	if left <= 0 {
		return 0
	}
	return int64((left + time.Second - 1) / time.Second)
}
