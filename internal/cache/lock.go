package cache

import (
	"context"
	"time"

	"Remindly/storage/redis"
)

// Locks protects per-owner queue rebuilds. Two concurrent full rebuilds for
// the same owner race on the same queue subset, so the first one to grab the
// SetNX key wins and the other backs off. Syncs for individual reminders do
// not take this lock; each touches only its own reminder-tagged entries.
type Locks struct {
	rdb *redis.Client
}

func NewLocks(rdb *redis.Client) *Locks {
	return &Locks{rdb: rdb}
}

// TryLockRebuild acquires the per-owner rebuild lock. The stored value is the
// rebuild date, so an operator inspecting the key sees when it was taken.
func (l *Locks) TryLockRebuild(ctx context.Context, ownerID string, now time.Time, ttl time.Duration) (bool, error) {
	key := l.rdb.Key("lock", "rebuild", ownerID)
	return l.rdb.SetNX(ctx, key, now.UTC().Format(time.RFC3339), ttl)
}

func (l *Locks) UnlockRebuild(ctx context.Context, ownerID string) error {
	return l.rdb.Del(ctx, l.rdb.Key("lock", "rebuild", ownerID))
}
