package storage

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
)

// MemStore is a map-backed Store without the relational capability. It is
// used for embedding the admin layer without a database and throughout the
// tests. The host serializes admin requests per instance, but the mutex
// keeps the value safe when that guarantee does not hold (tests, tooling).
type MemStore struct {
	mu      sync.RWMutex
	entries map[string]json.RawMessage
	alarm   *int64
}

var _ Store = (*MemStore)(nil)

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{entries: make(map[string]json.RawMessage)}
}

func (s *MemStore) Get(_ context.Context, key string) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.entries[key]
	if !ok {
		return nil, nil
	}

	return append(json.RawMessage(nil), value...), nil
}

func (s *MemStore) Put(_ context.Context, key string, value json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = append(json.RawMessage(nil), value...)

	return nil
}

func (s *MemStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)

	return nil
}

func (s *MemStore) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys, nil
}

func (s *MemStore) PutAll(_ context.Context, entries map[string]json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range entries {
		s.entries[key] = append(json.RawMessage(nil), value...)
	}

	return nil
}

func (s *MemStore) Alarm(_ context.Context) (*int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.alarm == nil {
		return nil, nil
	}
	ts := *s.alarm

	return &ts, nil
}

func (s *MemStore) SetAlarm(_ context.Context, ts int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.alarm = &ts

	return nil
}

func (s *MemStore) DeleteAlarm(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.alarm = nil

	return nil
}
