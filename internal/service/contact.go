package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"Remindly/internal/model"
	"Remindly/internal/repository"
	"Remindly/pkg/errors"
	"Remindly/pkg/snowflake"
)

// ContactService manages where notifications land: sms/email addresses in
// contacts, device endpoints in push subscriptions.
type ContactService struct {
	contacts *repository.ContactRepository
	subs     *repository.SubscriptionRepository
	log      *zap.Logger
}

func NewContactService(contacts *repository.ContactRepository, subs *repository.SubscriptionRepository, log *zap.Logger) *ContactService {
	return &ContactService{contacts: contacts, subs: subs, log: log}
}

func (s *ContactService) RegisterContact(ctx context.Context, ownerID string, channel model.Channel, address string) (*model.Contact, error) {
	if ownerID == "" {
		return nil, errors.OwnerMissing
	}
	if channel != model.ChannelSMS && channel != model.ChannelEmail {
		return nil, errors.ChannelSpecInvalid
	}
	if address == "" {
		return nil, errors.ContactAddressInvalid
	}

	id, err := snowflake.NextID()
	if err != nil {
		return nil, err
	}
	contact := &model.Contact{
		ID:      strconv.FormatInt(id, 10),
		OwnerID: ownerID,
		Channel: channel,
		Address: address,
	}
	if err := s.contacts.Upsert(ctx, contact); err != nil {
		return nil, fmt.Errorf("register contact: %w", err)
	}
	return contact, nil
}

func (s *ContactService) ListContacts(ctx context.Context, ownerID string) ([]*model.Contact, error) {
	if ownerID == "" {
		return nil, errors.OwnerMissing
	}
	return s.contacts.ListByOwner(ctx, ownerID)
}

func (s *ContactService) RemoveContact(ctx context.Context, ownerID string, channel model.Channel) error {
	if ownerID == "" {
		return errors.OwnerMissing
	}
	return s.contacts.Delete(ctx, ownerID, channel)
}

func (s *ContactService) RegisterSubscription(ctx context.Context, ownerID, endpoint, device string) (*model.PushSubscription, error) {
	if ownerID == "" {
		return nil, errors.OwnerMissing
	}
	if endpoint == "" {
		return nil, errors.ContactAddressInvalid
	}

	id, err := snowflake.NextID()
	if err != nil {
		return nil, err
	}
	sub := &model.PushSubscription{
		ID:       strconv.FormatInt(id, 10),
		OwnerID:  ownerID,
		Endpoint: endpoint,
		Device:   device,
	}
	if err := s.subs.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("register subscription: %w", err)
	}
	return sub, nil
}

func (s *ContactService) ListSubscriptions(ctx context.Context, ownerID string) ([]*model.PushSubscription, error) {
	if ownerID == "" {
		return nil, errors.OwnerMissing
	}
	return s.subs.ListByOwner(ctx, ownerID)
}

func (s *ContactService) RemoveSubscription(ctx context.Context, ownerID, id string) error {
	if ownerID == "" {
		return errors.OwnerMissing
	}
	subs, err := s.subs.ListByOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	for _, sub := range subs {
		if sub.ID == id {
			return s.subs.Delete(ctx, id)
		}
	}
	return nil
}
