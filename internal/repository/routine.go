package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"Remindly/internal/model"
)

type RoutineRepository struct {
	db *gorm.DB
}

func NewRoutineRepository(db *gorm.DB) *RoutineRepository {
	return &RoutineRepository{db: db}
}

func (r *RoutineRepository) Create(ctx context.Context, routine *model.Routine) error {
	return r.db.WithContext(ctx).Create(routine).Error
}

func (r *RoutineRepository) GetByID(ctx context.Context, id string) (*model.Routine, error) {
	var routine model.Routine
	err := r.db.WithContext(ctx).First(&routine, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &routine, nil
}

func (r *RoutineRepository) Save(ctx context.Context, routine *model.Routine) error {
	return r.db.WithContext(ctx).Save(routine).Error
}

func (r *RoutineRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.Routine{}, "id = ?", id).Error
}

func (r *RoutineRepository) ListByOwner(ctx context.Context, ownerID string) ([]*model.Routine, error) {
	var out []*model.Routine
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

// ListActive returns every routine eligible for expansion.
func (r *RoutineRepository) ListActive(ctx context.Context) ([]*model.Routine, error) {
	var out []*model.Routine
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Find(&out).Error
	return out, err
}

// SetLastRun records the reference instant of the last successful expansion.
func (r *RoutineRepository) SetLastRun(ctx context.Context, id string, ref time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Routine{}).
		Where("id = ?", id).
		Update("last_run", ref).Error
}

func (r *RoutineRepository) SetActive(ctx context.Context, id string, active bool) error {
	return r.db.WithContext(ctx).
		Model(&model.Routine{}).
		Where("id = ?", id).
		Update("active", active).Error
}
