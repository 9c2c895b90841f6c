package viewcache

import (
	"context"
	"sync"
)

// Recorder captures invalidation calls for tests.
type Recorder struct {
	mu     sync.Mutex
	owners []string
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) InvalidateSubmission(ctx context.Context, ownerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.owners = append(r.owners, ownerID)
}

// Invalidations returns the owner ids passed to each call, in order.
func (r *Recorder) Invalidations() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.owners))
	copy(out, r.owners)
	return out
}
