package storage

import (
	"context"
	"errors"
	"sync"
)

// MemoryStore is an in-memory file store for tests.
type MemoryStore struct {
	mu       sync.Mutex
	files    map[string]struct{}
	failKeys map[string]struct{}
}

func NewMemoryStore(keys ...string) *MemoryStore {
	s := &MemoryStore{files: make(map[string]struct{}), failKeys: make(map[string]struct{})}
	for _, k := range keys {
		s.files[k] = struct{}{}
	}
	return s
}

func (s *MemoryStore) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, fail := s.failKeys[key]; fail {
		return errors.New("storage backend unavailable")
	}
	if _, ok := s.files[key]; !ok {
		return errors.New("file not found")
	}
	delete(s.files, key)
	return nil
}

// FailOn makes Remove fail for the given key; test helper.
func (s *MemoryStore) FailOn(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failKeys[key] = struct{}{}
}

func (s *MemoryStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}
