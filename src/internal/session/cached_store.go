package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"employee-review-svc/src/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const cacheKeyPrefix = "session:"

// CachedStore puts a Redis read-through, write-through cache in front of a
// backing store. Writes evict the cached entry before touching the backing
// store and fail when the eviction fails, so the cache never serves a
// record older than the backing store. Read failures fall back to the
// backing store.
type CachedStore struct {
	backing Store
	client  *redis.Client
	now     func() time.Time
}

func NewCachedStore(backing Store, client *redis.Client) *CachedStore {
	return &CachedStore{
		backing: backing,
		client:  client,
		now:     time.Now,
	}
}

func cacheKey(id string) string {
	return cacheKeyPrefix + id
}

func (s *CachedStore) Get(ctx context.Context, id string) (*Record, error) {
	key := cacheKey(id)

	if record, err := s.getCached(ctx, key); err == nil && record != nil {
		logrus.WithField("session_id", id).Debug("Session retrieved from cache")
		return record, nil
	}

	record, err := s.backing.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache(ctx, record)
	return record, nil
}

func (s *CachedStore) getCached(ctx context.Context, key string) (*Record, error) {
	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		logrus.WithError(err).WithField("key", key).Warn("Failed to get session from cache")
		return nil, models.ErrRedisGet
	}

	var record Record
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Failed to unmarshal session from cache")
		return nil, models.ErrRedisGet
	}

	if record.Expired(s.now()) {
		return nil, nil
	}
	return &record, nil
}

func (s *CachedStore) cache(ctx context.Context, record *Record) {
	expiration := record.Expires.Sub(s.now())
	if expiration <= 0 {
		logrus.WithField("session_id", record.ID).Debug("Session already expired, not caching")
		return
	}

	data, err := json.Marshal(record)
	if err != nil {
		logrus.WithError(err).WithField("session_id", record.ID).Warn("Failed to marshal session for cache")
		return
	}

	if err := s.client.Set(ctx, cacheKey(record.ID), data, expiration).Err(); err != nil {
		logrus.WithError(err).WithField("session_id", record.ID).Warn("Failed to cache session")
	}
}

func (s *CachedStore) evict(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = cacheKey(id)
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		logrus.WithError(err).WithField("sessions", len(ids)).Error("Failed to evict sessions from cache")
		return fmt.Errorf("%w: %v", models.ErrRedisDelete, err)
	}
	return nil
}

func (s *CachedStore) Set(ctx context.Context, record *Record) error {
	if err := s.evict(ctx, record.ID); err != nil {
		return fmt.Errorf("%w: %w", models.ErrSessionSaving, err)
	}
	if err := s.backing.Set(ctx, record); err != nil {
		return err
	}
	s.cache(ctx, record)
	return nil
}

func (s *CachedStore) Destroy(ctx context.Context, id string) error {
	if err := s.evict(ctx, id); err != nil {
		return fmt.Errorf("%w: %w", models.ErrSessionDeleting, err)
	}
	return s.backing.Destroy(ctx, id)
}

func (s *CachedStore) DestroyMatching(ctx context.Context, key, value string) ([]string, error) {
	ids, err := s.backing.DestroyMatching(ctx, key, value)
	if err != nil {
		return nil, err
	}
	if err := s.evict(ctx, ids...); err != nil {
		return ids, fmt.Errorf("%w: %w", models.ErrSessionDeleting, err)
	}
	return ids, nil
}
