package viewcache

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// Invalidator drops cached page views that could show a submission. Called
// unconditionally after every successful mutation, regardless of which fields
// changed; a stale queue is worse than a redundant DEL.
type Invalidator interface {
	InvalidateSubmission(ctx context.Context, ownerID string)
}

// Cache keys for the rendered views.
const (
	keyEditorQueue    = "views:queue:editor"
	keyCommitteeQueue = "views:queue:committee"
	keyGallery        = "views:gallery"
	keyOwnerPrefix    = "views:owner:"
)

// RedisInvalidator deletes the cached views from the shared redis. Failures
// are logged and swallowed; the mutation already committed.
type RedisInvalidator struct {
	rdb *redis.Client
	log *slog.Logger
}

func NewRedisInvalidator(rdb *redis.Client, log *slog.Logger) *RedisInvalidator {
	if log == nil {
		log = slog.Default()
	}
	return &RedisInvalidator{rdb: rdb, log: log}
}

func (r *RedisInvalidator) InvalidateSubmission(ctx context.Context, ownerID string) {
	keys := []string{keyEditorQueue, keyCommitteeQueue, keyGallery}
	if ownerID != "" {
		keys = append(keys, keyOwnerPrefix+ownerID)
	}
	if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
		r.log.Error("view cache invalidation failed", "err", err, "owner_id", ownerID)
	}
}

// Noop is used where no cache exists (tests, local without redis).
type Noop struct{}

func (Noop) InvalidateSubmission(ctx context.Context, ownerID string) {}
