// Package notifyqueue maintains the denormalized dispatch queue derived from
// reminders. Queue entries are a cache for "what is due now" lookups; the
// reminders themselves stay the source of truth.
package notifyqueue

import (
	"time"

	"Remindly/internal/model"
)

// BuildEntries flattens a reminder's unsent notification settings into
// channel-concrete queue entries. Pure transform: ids are assigned by the
// writer, nothing is persisted here. Settings already marked sent never
// produce entries, so history is never re-queued.
func BuildEntries(rem *model.Reminder) []*model.QueueEntry {
	settings := rem.UnsentSettings()
	if len(settings) == 0 {
		return nil
	}

	entries := make([]*model.QueueEntry, 0, len(settings))
	for _, s := range settings {
		scheduledAt := rem.DueAt.Add(-time.Duration(s.OffsetMinutes) * time.Minute)
		for _, ch := range s.ChannelSpec.Channels() {
			entries = append(entries, &model.QueueEntry{
				ReminderID:            rem.ID,
				OwnerID:               rem.OwnerID,
				Title:                 rem.Title,
				Notes:                 rem.Notes,
				ScheduledAt:           scheduledAt,
				DueAt:                 rem.DueAt,
				Timezone:              rem.Timezone,
				Channel:               ch,
				NotificationSettingID: s.ID,
				RoutineID:             rem.RoutineID,
				RootID:                rem.RootID,
			})
		}
	}
	return entries
}
