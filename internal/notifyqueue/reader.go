package notifyqueue

import (
	"context"
	"time"

	"Remindly/internal/model"
	"Remindly/internal/repository"
)

// Reader answers "what should fire right now". It only ever looks at the
// materialized queue, never at the reminders table.
type Reader struct {
	queue      *repository.QueueRepository
	lateWindow time.Duration
	maxItems   int
}

func NewReader(queue *repository.QueueRepository, lateWindowMinutes, maxItems int) *Reader {
	return &Reader{
		queue:      queue,
		lateWindow: time.Duration(lateWindowMinutes) * time.Minute,
		maxItems:   maxItems,
	}
}

// Window returns the [from, to] bounds for a due lookup at now: everything
// scheduled up to now, but nothing that has been late longer than lateWindow.
func Window(now time.Time, lateWindow time.Duration) (time.Time, time.Time) {
	now = now.UTC()
	return now.Add(-lateWindow), now
}

// DueItems lists unsent entries due for one owner, oldest first.
func (r *Reader) DueItems(ctx context.Context, ownerID string, now time.Time) ([]*model.QueueEntry, error) {
	from, to := Window(now, r.lateWindow)
	return r.queue.DueWindow(ctx, ownerID, from, to, r.maxItems)
}

// DueItemsAll lists due entries across all owners, for the dispatch poller.
func (r *Reader) DueItemsAll(ctx context.Context, now time.Time) ([]*model.QueueEntry, error) {
	from, to := Window(now, r.lateWindow)
	return r.queue.DueWindow(ctx, "", from, to, r.maxItems)
}

// UpcomingAll lists unsent entries scheduled inside (now, now+lead], so the
// dispatcher can stage them on the broker with a delay and hit the exact
// fire time between polls.
func (r *Reader) UpcomingAll(ctx context.Context, now time.Time, lead time.Duration) ([]*model.QueueEntry, error) {
	now = now.UTC()
	return r.queue.DueWindow(ctx, "", now.Add(time.Second), now.Add(lead), r.maxItems)
}
