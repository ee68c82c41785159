package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"Remindly/internal/model"
)

type QueueRepository struct {
	db        *gorm.DB
	batchSize int
}

// NewQueueRepository wires the queue entry store. batchSize is the hard cap
// the document store imposes per atomic batch; larger write sets get chunked.
func NewQueueRepository(db *gorm.DB, batchSize int) *QueueRepository {
	if batchSize <= 0 || batchSize > 500 {
		batchSize = 500
	}
	return &QueueRepository{db: db, batchSize: batchSize}
}

// InsertBatch writes entries in chunks bounded by the batch cap. Each chunk
// is atomic; the tx argument lets a rebuild run delete+insert in one
// transaction so a failed write never destroys the previous queue.
func (r *QueueRepository) InsertBatch(ctx context.Context, tx *gorm.DB, entries []*model.QueueEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).CreateInBatches(entries, r.batchSize).Error
}

// Tx runs fn inside one transaction.
func (r *QueueRepository) Tx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *QueueRepository) DeleteUnsentByOwner(ctx context.Context, tx *gorm.DB, ownerID string) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	res := tx.WithContext(ctx).
		Where("owner_id = ? AND sent = ?", ownerID, false).
		Delete(&model.QueueEntry{})
	return res.RowsAffected, res.Error
}

func (r *QueueRepository) DeleteUnsentByReminder(ctx context.Context, tx *gorm.DB, reminderID string) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	res := tx.WithContext(ctx).
		Where("reminder_id = ? AND sent = ?", reminderID, false).
		Delete(&model.QueueEntry{})
	return res.RowsAffected, res.Error
}

func (r *QueueRepository) DeleteUnsentByRoutine(ctx context.Context, tx *gorm.DB, routineID string) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	res := tx.WithContext(ctx).
		Where("routine_id = ? AND sent = ?", routineID, false).
		Delete(&model.QueueEntry{})
	return res.RowsAffected, res.Error
}

// DueWindow returns unsent entries with scheduledAt inside [from, to],
// oldest first. ownerID may be empty for the cross-owner dispatch poll.
// Entries scheduled after "to" never surface: no early firing.
func (r *QueueRepository) DueWindow(ctx context.Context, ownerID string, from, to time.Time, limit int) ([]*model.QueueEntry, error) {
	q := r.db.WithContext(ctx).
		Where("sent = ?", false).
		Where("scheduled_at >= ? AND scheduled_at <= ?", from, to).
		Order("scheduled_at ASC")
	if ownerID != "" {
		q = q.Where("owner_id = ?", ownerID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var out []*model.QueueEntry
	err := q.Find(&out).Error
	return out, err
}

// MarkSent flips an entry once its delivery succeeded. The guard makes the
// update idempotent for MQ redeliveries.
func (r *QueueRepository) MarkSent(ctx context.Context, entryID string) error {
	return r.db.WithContext(ctx).
		Model(&model.QueueEntry{}).
		Where("id = ? AND sent = ?", entryID, false).
		Update("sent", true).Error
}

// DeleteSent prunes entries whose sent flag has been observed; the queue only
// ever holds pending work.
func (r *QueueRepository) DeleteSent(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("sent = ? AND updated_at < ?", true, before).
		Delete(&model.QueueEntry{})
	return res.RowsAffected, res.Error
}
