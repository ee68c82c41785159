// Package routine expands routine templates into concrete reminder instances.
package routine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"Remindly/internal/model"
	"Remindly/internal/repository"
	"Remindly/utils"
)

// generationWindow bounds how far ahead of the reference time instances are
// materialized. Anything beyond the window is picked up by a later run.
const generationWindow = 24 * time.Hour

// QueueSyncer refreshes one reminder's notification queue entries. Satisfied
// by notifyqueue.Maintainer.
type QueueSyncer interface {
	SyncReminder(ctx context.Context, reminderID string, now time.Time) error
}

// Generator turns active routines into pending reminder instances. Instance
// ids are deterministic over (routine, step, local date), so repeated runs
// upsert the same rows instead of duplicating them. Every upserted instance
// is synced into the notification queue before the run is considered done.
type Generator struct {
	routines  *repository.RoutineRepository
	reminders *repository.ReminderRepository
	sync      QueueSyncer
	log       *zap.Logger
}

func NewGenerator(routines *repository.RoutineRepository, reminders *repository.ReminderRepository, sync QueueSyncer, log *zap.Logger) *Generator {
	return &Generator{routines: routines, reminders: reminders, sync: sync, log: log}
}

// RunAll expands every active routine around ref. Failures are isolated per
// routine; the first error is returned after all routines have been tried.
func (g *Generator) RunAll(ctx context.Context, ref time.Time) error {
	routines, err := g.routines.ListActive(ctx)
	if err != nil {
		return err
	}

	var firstErr error
	for _, rt := range routines {
		if err := g.RunOne(ctx, rt, ref); err != nil {
			g.log.Error("routine expansion failed",
				zap.String("routine_id", rt.ID), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// RunOne materializes the routine's instances that fall inside
// (ref, ref+generationWindow]. LastRun is stamped only after at least one
// instance went through, so a no-op day stays retryable. Steps whose local
// due time has already passed are skipped, never backfilled.
func (g *Generator) RunOne(ctx context.Context, rt *model.Routine, ref time.Time) error {
	ref = ref.UTC()

	instances := g.Instances(rt, ref)
	for _, inst := range instances {
		if _, err := g.reminders.Upsert(ctx, inst); err != nil {
			return fmt.Errorf("upsert instance %s: %w", inst.ID, err)
		}
		if err := g.sync.SyncReminder(ctx, inst.ID, ref); err != nil {
			return fmt.Errorf("sync instance %s: %w", inst.ID, err)
		}
	}

	if len(instances) > 0 {
		if err := g.routines.SetLastRun(ctx, rt.ID, ref); err != nil {
			return err
		}
	}

	g.log.Debug("routine expanded",
		zap.String("routine_id", rt.ID),
		zap.Int("instances", len(instances)))
	return nil
}

// Instances computes the reminder instances a routine yields around ref
// without touching storage. The two-day scan covers the case where "later
// today" in the routine's timezone is already "tomorrow" in UTC.
func (g *Generator) Instances(rt *model.Routine, ref time.Time) []*model.Reminder {
	loc, err := time.LoadLocation(rt.Timezone)
	if err != nil {
		// A broken timezone must not wedge the whole routine.
		g.log.Warn("routine timezone invalid, falling back to UTC",
			zap.String("routine_id", rt.ID),
			zap.String("timezone", rt.Timezone))
		loc = time.UTC
	}

	localRef := ref.In(loc)
	horizon := ref.Add(generationWindow)
	// Interval phase counts from the routine's creation day, in its own zone.
	anchor := rt.CreatedAt.In(loc)

	var out []*model.Reminder
	for dayOffset := 0; dayOffset < 2; dayOffset++ {
		day := localRef.AddDate(0, 0, dayOffset)
		if !rt.Schedule.DueOn(day, anchor) {
			continue
		}
		localDate := utils.LocalDate(day, loc)

		for _, step := range rt.Steps {
			due, ok := stepDue(step, day, loc)
			if !ok {
				g.log.Warn("routine step time invalid, skipping",
					zap.String("routine_id", rt.ID),
					zap.String("step_id", step.ID),
					zap.String("time", step.Time))
				continue
			}
			if !due.After(ref) || due.After(horizon) {
				continue
			}
			out = append(out, instance(rt, step, localDate, due))
		}
	}
	return out
}

func stepDue(step model.RoutineStep, day time.Time, loc *time.Location) (time.Time, bool) {
	clock, err := time.Parse("15:04", step.Time)
	if err != nil {
		return time.Time{}, false
	}
	due := time.Date(day.Year(), day.Month(), day.Day(),
		clock.Hour(), clock.Minute(), 0, 0, loc)
	return due.UTC(), true
}

func instance(rt *model.Routine, step model.RoutineStep, localDate string, due time.Time) *model.Reminder {
	notifications := make(model.NotificationSettings, len(step.Notifications))
	copy(notifications, step.Notifications)

	return &model.Reminder{
		ID:            utils.DeterministicID(rt.ID, step.ID, localDate),
		OwnerID:       rt.OwnerID,
		Title:         step.Title,
		Notes:         step.Notes,
		DueAt:         due,
		Timezone:      rt.Timezone,
		Status:        model.ReminderStatusPending,
		Notifications: notifications,
		RoutineID:     rt.ID,
		RoutineDate:   localDate,
	}
}
