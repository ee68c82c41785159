package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"Remindly/internal/model"
)

type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// Upsert writes the owner's address for a channel, replacing a previous one.
func (r *ContactRepository) Upsert(ctx context.Context, contact *model.Contact) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "owner_id"}, {Name: "channel"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"address":    contact.Address,
				"updated_at": time.Now().UTC(),
			}),
		}).
		Create(contact).Error
}

func (r *ContactRepository) GetAddress(ctx context.Context, ownerID string, channel model.Channel) (string, error) {
	var contact model.Contact
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND channel = ?", ownerID, channel).
		First(&contact).Error
	if err != nil {
		return "", err
	}
	return contact.Address, nil
}

func (r *ContactRepository) ListByOwner(ctx context.Context, ownerID string) ([]*model.Contact, error) {
	var out []*model.Contact
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Find(&out).Error
	return out, err
}

func (r *ContactRepository) Delete(ctx context.Context, ownerID string, channel model.Channel) error {
	return r.db.WithContext(ctx).
		Where("owner_id = ? AND channel = ?", ownerID, channel).
		Delete(&model.Contact{}).Error
}
