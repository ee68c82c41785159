package cache

import (
	"context"
	"time"

	"Remindly/storage/redis"
)

// Marks implements SetNX based idempotency marks for dispatch messages.
// Consumers mark a message before processing; a redelivered or duplicate
// message finds the mark and is skipped.
type Marks struct {
	rdb *redis.Client
}

func NewMarks(rdb *redis.Client) *Marks {
	return &Marks{rdb: rdb}
}

// TryMarkProcessing returns true when this caller won the right to process
// the message.
func (m *Marks) TryMarkProcessing(ctx context.Context, messageID string, ttl time.Duration) (bool, error) {
	key := m.rdb.Key("msg", messageID)
	return m.rdb.SetNX(ctx, key, 1, ttl)
}

// Unmark releases the mark so a failed message can be retried after requeue.
func (m *Marks) Unmark(ctx context.Context, messageID string) error {
	return m.rdb.Del(ctx, m.rdb.Key("msg", messageID))
}

// MarkProcessed extends the mark after successful processing so late
// redeliveries inside the window stay deduplicated.
func (m *Marks) MarkProcessed(ctx context.Context, messageID string, ttl time.Duration) error {
	return m.rdb.Expire(ctx, m.rdb.Key("msg", messageID), ttl)
}
