package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"Remindly/internal/model"
	"Remindly/internal/recurrence"
	"Remindly/pkg/snowflake"
)

const generationBatchLimit = 200

// chainStore is the slice of the reminder repository the chain sweep needs.
type chainStore interface {
	ListPendingGeneration(ctx context.Context, now time.Time, limit int) ([]*model.Reminder, error)
	Tx(ctx context.Context, fn func(tx *gorm.DB) error) error
	MarkGenerated(ctx context.Context, tx *gorm.DB, id string) (bool, error)
	Create(ctx context.Context, tx *gorm.DB, rem *model.Reminder) error
}

// chainSyncer refreshes the successor's queue entries after it is committed.
type chainSyncer interface {
	SyncReminder(ctx context.Context, reminderID string, now time.Time) error
}

// GenerationService advances recurrence chains: when a recurring reminder is
// done or overdue and its successor has not been created yet, it materializes
// the next link. Successor creation is guarded by the pending->created state
// transition, so concurrent sweeps cannot double-spawn.
type GenerationService struct {
	reminders  chainStore
	maintainer chainSyncer
	log        *zap.Logger
}

func NewGenerationService(reminders chainStore, maintainer chainSyncer, log *zap.Logger) *GenerationService {
	return &GenerationService{reminders: reminders, maintainer: maintainer, log: log}
}

// RunCatchUp processes one batch of reminders awaiting successor creation.
func (s *GenerationService) RunCatchUp(ctx context.Context, now time.Time) error {
	now = now.UTC()

	pending, err := s.reminders.ListPendingGeneration(ctx, now, generationBatchLimit)
	if err != nil {
		return fmt.Errorf("list pending generation: %w", err)
	}

	var firstErr error
	for _, rem := range pending {
		if err := s.advance(ctx, rem, now); err != nil {
			s.log.Error("chain advance failed",
				zap.String("reminder_id", rem.ID), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (s *GenerationService) advance(ctx context.Context, rem *model.Reminder, now time.Time) error {
	successor, ok := s.successor(rem)

	// Claim and successor creation commit together: a failed create rolls the
	// claim back, so the next sweep retries instead of leaving a dead chain.
	var claimed bool
	err := s.reminders.Tx(ctx, func(tx *gorm.DB) error {
		var txErr error
		claimed, txErr = s.reminders.MarkGenerated(ctx, tx, rem.ID)
		if txErr != nil {
			return fmt.Errorf("mark generated: %w", txErr)
		}
		if !claimed || !ok {
			return nil
		}
		if txErr := s.reminders.Create(ctx, tx, successor); txErr != nil {
			return fmt.Errorf("create successor: %w", txErr)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !claimed {
		// Another sweep got there first; its create either committed with the
		// claim or rolled back with it.
		return nil
	}
	if !ok {
		// Chain exhausted: nothing to spawn, the claim alone retires it.
		s.log.Debug("recurrence chain exhausted", zap.String("reminder_id", rem.ID))
		return nil
	}

	if err := s.maintainer.SyncReminder(ctx, successor.ID, now); err != nil {
		return err
	}

	s.log.Debug("chain advanced",
		zap.String("reminder_id", rem.ID),
		zap.String("successor_id", successor.ID),
		zap.Time("due_at", successor.DueAt))
	return nil
}

// successor builds the next link of the chain, or reports false when the
// recurrence rule yields no further occurrence.
func (s *GenerationService) successor(rem *model.Reminder) (*model.Reminder, bool) {
	next, ok := recurrence.Next(rem.Rule, rem.DueAt)
	if !ok {
		return nil, false
	}

	index := rem.OccurrenceIndex + 1
	if ec := rem.Rule.EndCondition; ec.Type == model.EndAfterCount && ec.Count > 0 && index >= ec.Count {
		return nil, false
	}

	id, err := snowflake.NextID()
	if err != nil {
		s.log.Error("successor id generation failed", zap.Error(err))
		return nil, false
	}

	notifications := make(model.NotificationSettings, len(rem.Notifications))
	copy(notifications, rem.Notifications)
	for i := range notifications {
		notifications[i].Sent = false
	}

	rootID := rem.RootID
	if rootID == "" {
		rootID = rem.ID
	}

	return &model.Reminder{
		ID:               strconv.FormatInt(id, 10),
		OwnerID:          rem.OwnerID,
		Title:            rem.Title,
		Notes:            rem.Notes,
		DueAt:            next,
		Timezone:         rem.Timezone,
		Status:           model.ReminderStatusPending,
		Notifications:    notifications,
		Rule:             rem.Rule,
		OriginID:         rem.ID,
		RootID:           rootID,
		GenerationStatus: model.GenerationPending,
		OccurrenceIndex:  index,
		RoutineID:        rem.RoutineID,
	}, true
}
