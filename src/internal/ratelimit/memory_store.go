package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type window struct {
	count   int64
	resetAt time.Time
}

// MemoryStore keeps counters in process. It is used when no Redis is
// configured; counters are per instance and bounded by maxKeys.
type MemoryStore struct {
	mu      sync.Mutex
	windows *expirable.LRU[string, *window]
	window  time.Duration
	now     func() time.Time
}

func NewMemoryStore(maxKeys int, length time.Duration) *MemoryStore {
	return &MemoryStore{
		windows: expirable.NewLRU[string, *window](maxKeys, nil, length),
		window:  length,
		now:     time.Now,
	}
}

func (s *MemoryStore) Increment(_ context.Context, key string) (Hit, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows.Get(key)
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(s.window)}
		s.windows.Add(key, w)
	}
	w.count++

	return Hit{Count: w.count, ResetAt: w.resetAt}, nil
}
