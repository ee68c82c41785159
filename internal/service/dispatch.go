package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"Remindly/internal/notifyqueue"
	"Remindly/internal/queue"
)

// dispatchLead matches the sweep cadence: entries firing before the next
// sweep are staged on the broker with a delay so they go out on time.
const dispatchLead = 2 * time.Minute

// DispatchService is the poll half of delivery: it reads due queue entries
// and pushes one MQ message per entry. Entries stay unsent until a worker
// confirms delivery, so a crashed sweep is simply repeated; consumer-side
// idempotency marks absorb the duplicates.
type DispatchService struct {
	reader   *notifyqueue.Reader
	producer *queue.Producer
	log      *zap.Logger
}

func NewDispatchService(reader *notifyqueue.Reader, producer *queue.Producer, log *zap.Logger) *DispatchService {
	return &DispatchService{reader: reader, producer: producer, log: log}
}

// RunSweep publishes every currently due entry. Publish failures abort the
// sweep; the next tick retries from the queue.
func (s *DispatchService) RunSweep(ctx context.Context, now time.Time) error {
	entries, err := s.reader.DueItemsAll(ctx, now)
	if err != nil {
		return fmt.Errorf("read due entries: %w", err)
	}
	for _, entry := range entries {
		if err := s.producer.PublishDispatch(entry); err != nil {
			return err
		}
	}

	upcoming, err := s.reader.UpcomingAll(ctx, now, dispatchLead)
	if err != nil {
		return fmt.Errorf("read upcoming entries: %w", err)
	}
	for _, entry := range upcoming {
		if err := s.producer.PublishDispatchDelayed(entry, entry.ScheduledAt.Sub(now)); err != nil {
			return err
		}
	}

	if len(entries)+len(upcoming) > 0 {
		s.log.Info("dispatch sweep published",
			zap.Int("due", len(entries)),
			zap.Int("staged", len(upcoming)),
			zap.Time("now", now))
	}
	return nil
}
