package repository

import (
	"context"

	"gorm.io/gorm"

	"Remindly/internal/model"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(ctx context.Context, sub *model.PushSubscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *SubscriptionRepository) ListByOwner(ctx context.Context, ownerID string) ([]*model.PushSubscription, error) {
	var out []*model.PushSubscription
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Find(&out).Error
	return out, err
}

// Delete removes a stale endpoint after a permanent provider failure.
func (r *SubscriptionRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.PushSubscription{}, "id = ?", id).Error
}
