package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"Remindly/internal/model"
)

var ErrNotFound = gorm.ErrRecordNotFound

type ReminderRepository struct {
	db *gorm.DB
}

func NewReminderRepository(db *gorm.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

func (r *ReminderRepository) Create(ctx context.Context, tx *gorm.DB, rem *model.Reminder) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(rem).Error
}

// Tx runs fn inside one transaction; any error rolls the whole unit back.
func (r *ReminderRepository) Tx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

// Upsert merges on primary key conflict instead of erroring. Deterministic
// ids from the routine generator rely on this: a second run with the same
// inputs is a no-op merge, not a duplicate. Returns true when a row was
// actually inserted.
func (r *ReminderRepository) Upsert(ctx context.Context, rem *model.Reminder) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "notes", "due_at", "timezone", "notifications", "updated_at",
		}),
	}).Create(rem)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ReminderRepository) GetByID(ctx context.Context, id string) (*model.Reminder, error) {
	var rem model.Reminder
	err := r.db.WithContext(ctx).First(&rem, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &rem, nil
}

func (r *ReminderRepository) Save(ctx context.Context, rem *model.Reminder) error {
	return r.db.WithContext(ctx).Save(rem).Error
}

func (r *ReminderRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.Reminder{}, "id = ?", id).Error
}

func (r *ReminderRepository) ListByOwner(ctx context.Context, ownerID string, limit int) ([]*model.Reminder, error) {
	var out []*model.Reminder
	q := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("due_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// ListActiveInWindow returns pending/snoozed reminders due inside [from, to]
// for one owner. This is the rebuild source query.
func (r *ReminderRepository) ListActiveInWindow(ctx context.Context, ownerID string, from, to time.Time) ([]*model.Reminder, error) {
	var out []*model.Reminder
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Where("status IN ?", []model.ReminderStatus{model.ReminderStatusPending, model.ReminderStatusSnoozed}).
		Where("due_at >= ? AND due_at <= ?", from, to).
		Order("due_at ASC").
		Find(&out).Error
	return out, err
}

// ListOwnerIDs returns the distinct owners that currently have reminders.
func (r *ReminderRepository) ListOwnerIDs(ctx context.Context) ([]string, error) {
	var owners []string
	err := r.db.WithContext(ctx).
		Model(&model.Reminder{}).
		Distinct("owner_id").
		Pluck("owner_id", &owners).Error
	return owners, err
}

// ListPendingGeneration returns recurring reminders whose successor has not
// been materialized yet and whose own slot is settled (completed, or the due
// instant has passed).
func (r *ReminderRepository) ListPendingGeneration(ctx context.Context, now time.Time, limit int) ([]*model.Reminder, error) {
	var out []*model.Reminder
	err := r.db.WithContext(ctx).
		Where("rule IS NOT NULL").
		Where("generation_status = ?", model.GenerationPending).
		Where("status = ? OR due_at < ?", model.ReminderStatusDone, now).
		Order("due_at ASC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// MarkGenerated is the single authoritative pending -> created transition.
// Returns false when the guard matched no row, meaning another run already
// claimed the transition (a guarded update that hits nothing is not an error
// in gorm, only RowsAffected tells the two cases apart).
func (r *ReminderRepository) MarkGenerated(ctx context.Context, tx *gorm.DB, id string) (bool, error) {
	if tx == nil {
		tx = r.db
	}
	res := tx.WithContext(ctx).
		Model(&model.Reminder{}).
		Where("id = ? AND generation_status = ?", id, model.GenerationPending).
		Update("generation_status", model.GenerationCreated)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeletePendingByRoutine removes not-yet-due instances spawned by a routine.
// Used by cascade removal when a routine is disabled or deleted.
func (r *ReminderRepository) DeletePendingByRoutine(ctx context.Context, tx *gorm.DB, routineID string, now time.Time) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	res := tx.WithContext(ctx).
		Where("routine_id = ?", routineID).
		Where("status = ?", model.ReminderStatusPending).
		Where("due_at > ?", now).
		Delete(&model.Reminder{})
	return res.RowsAffected, res.Error
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
