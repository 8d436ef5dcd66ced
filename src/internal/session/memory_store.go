package session

import (
	"context"
	"maps"
	"sync"
	"time"

	"employee-review-svc/src/internal/models"
)

// MemoryStore is a process-local Store for tests and single-instance
// development runs.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]Record{}, now: time.Now}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[id]
	if !ok || r.Expired(s.now()) {
		return nil, models.ErrSessionNotFound
	}
	r.Data = maps.Clone(r.Data)
	return &r, nil
}

func (s *MemoryStore) Set(_ context.Context, record *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := *record
	r.Data = maps.Clone(record.Data)
	s.records[r.ID] = r
	return nil
}

func (s *MemoryStore) Destroy(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}

func (s *MemoryStore) DestroyMatching(_ context.Context, key, value string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	for id, r := range s.records {
		if v, ok := r.Data[key].(string); ok && v == value {
			ids = append(ids, id)
			delete(s.records, id)
		}
	}
	return ids, nil
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
