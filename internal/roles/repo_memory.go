package roles

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory role repository for tests and local runs.
type MemoryRepo struct {
	mu   sync.Mutex
	recs map[string]Record
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{recs: make(map[string]Record)}
}

func (r *MemoryRepo) Get(ctx context.Context, userID string) (Record, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.recs[userID]
	return rec, ok, nil
}

func (r *MemoryRepo) Merge(ctx context.Context, userID string, merge func(Record) Record) (Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := merge(r.recs[userID])
	r.recs[out.UserID] = out
	return out, nil
}

// Seed inserts a record directly; test helper.
func (r *MemoryRepo) Seed(rec Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recs[rec.UserID] = rec
}
