package notifyqueue

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"Remindly/internal/cache"
	"Remindly/internal/model"
	"Remindly/internal/repository"
	"Remindly/pkg/errors"
	"Remindly/pkg/metrics"
	"Remindly/pkg/snowflake"
)

const (
	// Entries already slightly past their fire time are still written so a
	// rebuild racing the dispatcher does not drop a notification.
	writeTolerance = 2 * time.Minute

	// Rebuilds also look a little into the past so late, still-unsent
	// notifications survive a rebuild.
	trailingSlack = 2 * time.Hour

	rebuildLockTTL = 10 * time.Minute
)

// Maintainer owns the lifecycle of queue entries: full per-owner rebuilds,
// incremental sync after a reminder write, and cascade removal for routines.
type Maintainer struct {
	reminders *repository.ReminderRepository
	queue     *repository.QueueRepository
	locks     *cache.Locks
	metrics   *metrics.QueueMetrics
	log       *zap.Logger

	horizon time.Duration
	workers int
}

func NewMaintainer(
	reminders *repository.ReminderRepository,
	queue *repository.QueueRepository,
	locks *cache.Locks,
	qm *metrics.QueueMetrics,
	log *zap.Logger,
	horizonHours, workers int,
) *Maintainer {
	if workers < 1 {
		workers = 1
	}
	return &Maintainer{
		reminders: reminders,
		queue:     queue,
		locks:     locks,
		metrics:   qm,
		log:       log,
		horizon:   time.Duration(horizonHours) * time.Hour,
		workers:   workers,
	}
}

// RebuildOwner drops every unsent entry for the owner and regenerates the
// queue from active reminders in [now-trailingSlack, now+horizon]. Delete and
// insert run in one transaction, so a failed rebuild leaves the previous
// queue intact. Concurrent rebuilds for the same owner are serialized via a
// redis lock; the loser gets ErrRebuildInProgress.
func (m *Maintainer) RebuildOwner(ctx context.Context, ownerID string, now time.Time) error {
	now = now.UTC()

	locked, err := m.locks.TryLockRebuild(ctx, ownerID, now, rebuildLockTTL)
	if err != nil {
		return err
	}
	if !locked {
		return errors.RebuildInProgress
	}
	defer m.locks.UnlockRebuild(context.WithoutCancel(ctx), ownerID)

	start := time.Now()

	from := now.Add(-trailingSlack)
	to := now.Add(m.horizon)
	reminders, err := m.reminders.ListActiveInWindow(ctx, ownerID, from, to)
	if err != nil {
		m.metrics.RebuildFailures.Add(ctx, 1)
		return err
	}

	entries, err := m.collect(reminders, now)
	if err != nil {
		m.metrics.RebuildFailures.Add(ctx, 1)
		return err
	}

	var deleted int64
	err = m.queue.Tx(ctx, func(tx *gorm.DB) error {
		var txErr error
		deleted, txErr = m.queue.DeleteUnsentByOwner(ctx, tx, ownerID)
		if txErr != nil {
			return txErr
		}
		return m.queue.InsertBatch(ctx, tx, entries)
	})
	if err != nil {
		m.metrics.RebuildFailures.Add(ctx, 1)
		return err
	}

	m.metrics.EntriesDeleted.Add(ctx, deleted)
	m.metrics.EntriesWritten.Add(ctx, int64(len(entries)))
	m.metrics.RebuildDuration.Record(ctx, time.Since(start).Seconds())

	m.log.Debug("queue rebuilt",
		zap.String("owner_id", ownerID),
		zap.Int("reminders", len(reminders)),
		zap.Int("entries", len(entries)),
		zap.Int64("deleted", deleted))
	return nil
}

// RebuildAll rebuilds every owner's queue with bounded concurrency. A failing
// owner is logged and skipped so one bad tenant cannot starve the rest; an
// owner whose rebuild is already running elsewhere is skipped silently.
func (m *Maintainer) RebuildAll(ctx context.Context, now time.Time) error {
	owners, err := m.reminders.ListOwnerIDs(ctx)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	for _, ownerID := range owners {
		ownerID := ownerID
		g.Go(func() error {
			if err := m.RebuildOwner(gctx, ownerID, now); err != nil {
				if err == errors.RebuildInProgress {
					return nil
				}
				m.log.Error("owner rebuild failed",
					zap.String("owner_id", ownerID), zap.Error(err))
			}
			return nil
		})
	}
	return g.Wait()
}

// SyncReminder reconciles queue entries for a single reminder after a write.
// Deleted, completed, or out-of-definition reminders simply lose their unsent
// entries; everything else is delete-then-reinsert in one transaction.
func (m *Maintainer) SyncReminder(ctx context.Context, reminderID string, now time.Time) error {
	now = now.UTC()

	rem, err := m.reminders.GetByID(ctx, reminderID)
	if err != nil && !repository.IsNotFound(err) {
		return err
	}

	var entries []*model.QueueEntry
	if rem != nil && rem.Active() {
		entries, err = m.collect([]*model.Reminder{rem}, now)
		if err != nil {
			return err
		}
	}

	return m.queue.Tx(ctx, func(tx *gorm.DB) error {
		if _, txErr := m.queue.DeleteUnsentByReminder(ctx, tx, reminderID); txErr != nil {
			return txErr
		}
		return m.queue.InsertBatch(ctx, tx, entries)
	})
}

// RemoveRoutine cascades a routine removal: future pending instances spawned
// by the routine are deleted along with their unsent queue entries. Completed
// instances and sent entries stay for history.
func (m *Maintainer) RemoveRoutine(ctx context.Context, routineID string, now time.Time) error {
	now = now.UTC()
	return m.queue.Tx(ctx, func(tx *gorm.DB) error {
		if _, err := m.queue.DeleteUnsentByRoutine(ctx, tx, routineID); err != nil {
			return err
		}
		_, err := m.reminders.DeletePendingByRoutine(ctx, tx, routineID, now)
		return err
	})
}

// PruneSent removes sent entries older than the retention cutoff.
func (m *Maintainer) PruneSent(ctx context.Context, before time.Time) (int64, error) {
	return m.queue.DeleteSent(ctx, before.UTC())
}

func (m *Maintainer) collect(reminders []*model.Reminder, now time.Time) ([]*model.QueueEntry, error) {
	cutoff := now.Add(-writeTolerance)
	horizon := now.Add(m.horizon)

	var entries []*model.QueueEntry
	for _, rem := range reminders {
		for _, e := range BuildEntries(rem) {
			if e.ScheduledAt.Before(cutoff) || e.ScheduledAt.After(horizon) {
				continue
			}
			id, err := snowflake.NextID()
			if err != nil {
				return nil, err
			}
			e.ID = strconv.FormatInt(id, 10)
			entries = append(entries, e)
		}
	}
	return entries, nil
}
