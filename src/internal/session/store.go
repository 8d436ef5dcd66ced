package session

import (
	"context"
	"time"
)

// Record is the persisted form of a session.
type Record struct {
	ID      string         `bson:"_id" json:"id"`
	Data    map[string]any `bson:"session" json:"session"`
	Expires time.Time      `bson:"expires" json:"expires"`
}

// Expired reports whether the record is past its expiry at now.
func (r *Record) Expired(now time.Time) bool {
	return !now.Before(r.Expires)
}

// Store persists session records. Get returns models.ErrSessionNotFound for
// unknown or expired ids. Set is an upsert with last-write-wins semantics.
// Destroy is idempotent. DestroyMatching removes every record whose data
// holds value under key and returns the removed ids.
type Store interface {
	Get(ctx context.Context, id string) (*Record, error)
	Set(ctx context.Context, record *Record) error
	Destroy(ctx context.Context, id string) error
	DestroyMatching(ctx context.Context, key, value string) ([]string, error)
}
