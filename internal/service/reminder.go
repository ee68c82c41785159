// Package service implements the application operations behind the HTTP and
// scheduler surfaces. Services validate, persist, and keep the notification
// queue in sync after every write.
package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"Remindly/internal/model"
	"Remindly/internal/model/dto"
	"Remindly/internal/notifyqueue"
	"Remindly/internal/recurrence"
	"Remindly/internal/repository"
	"Remindly/pkg/errors"
	"Remindly/pkg/snowflake"
	"Remindly/utils"
)

const defaultListLimit = 200

type ReminderService struct {
	reminders   *repository.ReminderRepository
	maintainer  *notifyqueue.Maintainer
	log         *zap.Logger
	horizonDays int
	maxPerChain int
}

func NewReminderService(reminders *repository.ReminderRepository, maintainer *notifyqueue.Maintainer, log *zap.Logger, horizonDays, maxPerChain int) *ReminderService {
	return &ReminderService{
		reminders:   reminders,
		maintainer:  maintainer,
		log:         log,
		horizonDays: horizonDays,
		maxPerChain: maxPerChain,
	}
}

func (s *ReminderService) Create(ctx context.Context, ownerID string, req dto.CreateReminderRequest) (*dto.ReminderItem, error) {
	if ownerID == "" {
		return nil, errors.OwnerMissing
	}

	dueAt, err := utils.ParseInstant(req.DueAt)
	if err != nil {
		return nil, errors.ReminderInvalid
	}

	tz := req.Timezone
	if tz == "" {
		tz = "UTC"
	}

	rem := &model.Reminder{
		OwnerID:       ownerID,
		Title:         req.Title,
		Notes:         req.Notes,
		DueAt:         dueAt,
		Timezone:      tz,
		Status:        model.ReminderStatusPending,
		Notifications: req.Notifications,
		Rule:          req.Rule,
	}
	if rem.IsRecurring() {
		rem.GenerationStatus = model.GenerationPending
		if rem.Rule.Anchor.IsZero() {
			rem.Rule.Anchor = dueAt
		}
	}
	assignSettingIDs(rem.Notifications)

	if err := validateReminder(rem); err != nil {
		return nil, err
	}

	id, err := snowflake.NextID()
	if err != nil {
		return nil, err
	}
	rem.ID = strconv.FormatInt(id, 10)
	rem.RootID = rem.ID

	if err := s.reminders.Create(ctx, nil, rem); err != nil {
		return nil, fmt.Errorf("create reminder: %w", err)
	}

	if err := s.maintainer.SyncReminder(ctx, rem.ID, time.Now()); err != nil {
		s.log.Error("queue sync after create failed",
			zap.String("reminder_id", rem.ID), zap.Error(err))
		return nil, err
	}

	return dto.NewReminderItem(rem), nil
}

func (s *ReminderService) Update(ctx context.Context, ownerID, id string, req dto.UpdateReminderRequest) (*dto.ReminderItem, error) {
	rem, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		rem.Title = *req.Title
	}
	if req.Notes != nil {
		rem.Notes = *req.Notes
	}
	if req.DueAt != nil {
		dueAt, err := utils.ParseInstant(*req.DueAt)
		if err != nil {
			return nil, errors.ReminderInvalid
		}
		rem.DueAt = dueAt
	}
	if req.Timezone != nil {
		rem.Timezone = *req.Timezone
	}
	if req.Status != nil {
		status := model.ReminderStatus(*req.Status)
		switch status {
		case model.ReminderStatusPending, model.ReminderStatusDone, model.ReminderStatusSnoozed:
			rem.Status = status
		default:
			return nil, errors.ReminderInvalid
		}
	}
	if req.Notifications != nil {
		rem.Notifications = mergeNotificationSettings(rem.Notifications, *req.Notifications)
		assignSettingIDs(rem.Notifications)
	}
	if req.Rule != nil {
		rem.Rule = req.Rule
		if rem.Rule.Anchor.IsZero() {
			rem.Rule.Anchor = rem.DueAt
		}
		if rem.GenerationStatus == "" {
			rem.GenerationStatus = model.GenerationPending
		}
	}

	if err := validateReminder(rem); err != nil {
		return nil, err
	}

	if err := s.reminders.Save(ctx, rem); err != nil {
		return nil, fmt.Errorf("update reminder: %w", err)
	}

	if err := s.maintainer.SyncReminder(ctx, rem.ID, time.Now()); err != nil {
		s.log.Error("queue sync after update failed",
			zap.String("reminder_id", rem.ID), zap.Error(err))
		return nil, err
	}

	return dto.NewReminderItem(rem), nil
}

func (s *ReminderService) Get(ctx context.Context, ownerID, id string) (*dto.ReminderItem, error) {
	rem, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return dto.NewReminderItem(rem), nil
}

func (s *ReminderService) List(ctx context.Context, ownerID string) ([]*dto.ReminderItem, error) {
	if ownerID == "" {
		return nil, errors.OwnerMissing
	}
	reminders, err := s.reminders.ListByOwner(ctx, ownerID, defaultListLimit)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	items := make([]*dto.ReminderItem, 0, len(reminders))
	for _, rem := range reminders {
		items = append(items, dto.NewReminderItem(rem))
	}
	return items, nil
}

func (s *ReminderService) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.getOwned(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.reminders.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}
	// Sync on a deleted reminder just drops its unsent entries.
	if err := s.maintainer.SyncReminder(ctx, id, time.Now()); err != nil {
		s.log.Error("queue sync after delete failed",
			zap.String("reminder_id", id), zap.Error(err))
		return err
	}
	return nil
}

// Complete marks the reminder done. For recurring reminders the successor is
// created lazily by the generation sweep, which keys off done status.
func (s *ReminderService) Complete(ctx context.Context, ownerID, id string) (*dto.ReminderItem, error) {
	status := string(model.ReminderStatusDone)
	return s.Update(ctx, ownerID, id, dto.UpdateReminderRequest{Status: &status})
}

// Occurrences previews the upcoming instances of a recurring reminder without
// materializing anything.
func (s *ReminderService) Occurrences(ctx context.Context, ownerID, id string, req dto.OccurrencesRequest) (*dto.OccurrencesResponse, error) {
	rem, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if !rem.IsRecurring() {
		return &dto.OccurrencesResponse{Occurrences: []time.Time{}}, nil
	}

	horizon := req.HorizonDays
	if horizon <= 0 {
		horizon = s.horizonDays
	}
	maxCount := req.MaxCount
	if maxCount <= 0 || maxCount > s.maxPerChain {
		maxCount = s.maxPerChain
	}
	occ := recurrence.Expand(rem.Rule, rem.DueAt, time.Now().UTC(), horizon, maxCount, rem.OccurrenceIndex)
	return &dto.OccurrencesResponse{Occurrences: occ}, nil
}

func (s *ReminderService) getOwned(ctx context.Context, ownerID, id string) (*model.Reminder, error) {
	if ownerID == "" {
		return nil, errors.OwnerMissing
	}
	rem, err := s.reminders.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.ReminderNotFound
		}
		return nil, fmt.Errorf("load reminder: %w", err)
	}
	if rem.OwnerID != ownerID {
		return nil, errors.ReminderNotFound
	}
	return rem, nil
}

func validateReminder(rem *model.Reminder) error {
	if rem.Title == "" {
		return errors.ReminderInvalid
	}
	if _, err := time.LoadLocation(rem.Timezone); err != nil {
		return errors.TimezoneInvalid
	}
	for _, setting := range rem.Notifications {
		if setting.OffsetMinutes < 0 {
			return errors.OffsetInvalid
		}
		if !setting.ChannelSpec.Valid() {
			return errors.ChannelSpecInvalid
		}
	}
	if rem.Rule != nil {
		if err := rem.Rule.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// mergeNotificationSettings replaces the setting list with the incoming one
// while keeping the sent flag monotonic: a setting id that was already sent
// stays sent no matter what the payload carries, so history is never
// re-queued by an edit.
func mergeNotificationSettings(existing, incoming model.NotificationSettings) model.NotificationSettings {
	sent := make(map[string]bool, len(existing))
	for _, s := range existing {
		if s.Sent && s.ID != "" {
			sent[s.ID] = true
		}
	}
	out := make(model.NotificationSettings, len(incoming))
	copy(out, incoming)
	for i := range out {
		if sent[out[i].ID] {
			out[i].Sent = true
		}
	}
	return out
}

// assignSettingIDs backfills ids on settings the client sent without one, so
// sent-state tracking has a stable key per setting.
func assignSettingIDs(settings model.NotificationSettings) {
	for i := range settings {
		if settings[i].ID == "" {
			settings[i].ID = uuid.NewString()
		}
	}
}
