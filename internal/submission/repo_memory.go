package submission

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory submission repository for tests.
type MemoryRepo struct {
	mu   sync.Mutex
	subs map[string]Submission
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{subs: make(map[string]Submission)}
}

func (r *MemoryRepo) Create(ctx context.Context, sub Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs[sub.ID] = sub
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[id]
	if !ok {
		return Submission{}, ErrNotFound
	}
	return sub, nil
}

func (r *MemoryRepo) Update(ctx context.Context, sub Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subs[sub.ID]; !ok {
		return ErrNotFound
	}
	r.subs[sub.ID] = sub
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subs[id]; !ok {
		return ErrNotFound
	}
	delete(r.subs, id)
	return nil
}

func (r *MemoryRepo) ListByOwner(ctx context.Context, ownerID string) ([]Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Submission
	for _, sub := range r.subs {
		if sub.OwnerID == ownerID {
			out = append(out, sub)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *MemoryRepo) ListByStatus(ctx context.Context, statuses ...Status) ([]Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := make(map[Status]struct{}, len(statuses))
	for _, st := range statuses {
		want[st] = struct{}{}
	}
	var out []Submission
	for _, sub := range r.subs {
		if _, ok := want[sub.Status]; ok {
			out = append(out, sub)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(subs []Submission) {
	sort.Slice(subs, func(i, j int) bool {
		if subs[i].CreatedAt.Equal(subs[j].CreatedAt) {
			return subs[i].ID < subs[j].ID
		}
		return subs[i].CreatedAt.After(subs[j].CreatedAt)
	})
}
