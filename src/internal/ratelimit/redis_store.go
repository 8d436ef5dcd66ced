package ratelimit

import (
	"context"
	"fmt"
	"time"

	"employee-review-svc/src/internal/models"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "rl:"

// incrementScript bumps the counter and starts the window on the first hit.
// A key left without a TTL gets one so it cannot pin a client forever.
var incrementScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

// RedisStore shares counters between every instance of the service.
type RedisStore struct {
	client redis.Scripter
	window time.Duration
	now    func() time.Time
}

func NewRedisStore(client redis.Scripter, window time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		window: window,
		now:    time.Now,
	}
}

func (s *RedisStore) Increment(ctx context.Context, key string) (Hit, error) {
	res, err := incrementScript.Run(ctx, s.client, []string{keyPrefix + key}, s.window.Milliseconds()).Int64Slice()
	if err != nil {
		return Hit{}, fmt.Errorf("%w: %v", models.ErrCounterStore, err)
	}
	if len(res) != 2 {
		return Hit{}, fmt.Errorf("%w: unexpected script reply %v", models.ErrCounterStore, res)
	}

	return Hit{
		Count:   res[0],
		ResetAt: s.now().Add(time.Duration(res[1]) * time.Millisecond),
	}, nil
}
