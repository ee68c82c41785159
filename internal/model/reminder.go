package model

import (
	"database/sql/driver"
	"time"
)

// ReminderStatus enumerates the user facing state of a reminder.
type ReminderStatus string

const (
	ReminderStatusPending ReminderStatus = "pending"
	ReminderStatusDone    ReminderStatus = "done"
	ReminderStatusSnoozed ReminderStatus = "snoozed"
)

// GenerationStatus marks whether a recurring reminder's successor has been
// materialized. It is a two state machine: pending -> created, nothing else.
type GenerationStatus string

const (
	GenerationPending GenerationStatus = "pending"
	GenerationCreated GenerationStatus = "created"
)

// Channel is a concrete delivery channel. Compound specs never reach here.
type Channel string

const (
	ChannelPush  Channel = "push"
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
)

// ChannelSpec is what users store on a notification setting. "both" is legacy
// and means the same as "all".
type ChannelSpec string

const (
	ChannelSpecPush  ChannelSpec = "push"
	ChannelSpecSMS   ChannelSpec = "sms"
	ChannelSpecEmail ChannelSpec = "email"
	ChannelSpecBoth  ChannelSpec = "both"
	ChannelSpecAll   ChannelSpec = "all"
)

// Channels expands the selector into the concrete channel set.
func (s ChannelSpec) Channels() []Channel {
	switch s {
	case ChannelSpecPush:
		return []Channel{ChannelPush}
	case ChannelSpecSMS:
		return []Channel{ChannelSMS}
	case ChannelSpecEmail:
		return []Channel{ChannelEmail}
	case ChannelSpecBoth, ChannelSpecAll:
		return []Channel{ChannelPush, ChannelSMS, ChannelEmail}
	default:
		return nil
	}
}

func (s ChannelSpec) Valid() bool {
	return len(s.Channels()) > 0
}

// NotificationSetting is one alert attached to a reminder. Sent is monotonic:
// once true it never reverts.
type NotificationSetting struct {
	ID            string      `json:"id"`
	OffsetMinutes int         `json:"offset_minutes"`
	ChannelSpec   ChannelSpec `json:"channel_spec"`
	Sent          bool        `json:"sent"`
}

// NotificationSettings is stored as a jsonb column, order preserved.
type NotificationSettings []NotificationSetting

func (n NotificationSettings) Value() (driver.Value, error) {
	return jsonbValue(n)
}

func (n *NotificationSettings) Scan(src interface{}) error {
	return jsonbScan(src, n)
}

// Reminder is a single dated instance, possibly part of a recurrence chain
// (OriginID/RootID) or spawned from a routine step (RoutineID/RoutineDate).
type Reminder struct {
	ID               string               `gorm:"primaryKey;type:varchar(32)" json:"id"`
	OwnerID          string               `gorm:"type:varchar(32);not null;index:idx_reminders_owner_due" json:"owner_id"`
	Title            string               `gorm:"type:varchar(255);not null" json:"title"`
	Notes            string               `gorm:"type:text" json:"notes,omitempty"`
	DueAt            time.Time            `gorm:"type:timestamptz;not null;index:idx_reminders_owner_due" json:"due_at"`
	Timezone         string               `gorm:"type:varchar(64);not null;default:'UTC'" json:"timezone"`
	Status           ReminderStatus       `gorm:"type:varchar(16);not null;default:'pending'" json:"status"`
	Notifications    NotificationSettings `gorm:"type:jsonb" json:"notifications"`
	Rule             *RecurrenceRule      `gorm:"type:jsonb" json:"rule,omitempty"`
	OriginID         string               `gorm:"type:varchar(32)" json:"origin_id,omitempty"`
	RootID           string               `gorm:"type:varchar(32);index" json:"root_id,omitempty"`
	GenerationStatus GenerationStatus     `gorm:"type:varchar(16);index" json:"generation_status,omitempty"`
	OccurrenceIndex  int                  `gorm:"not null;default:0" json:"occurrence_index"`
	RoutineID        string               `gorm:"type:varchar(32);index" json:"routine_id,omitempty"`
	RoutineDate      string               `gorm:"type:varchar(10)" json:"routine_date,omitempty"` // local YYYY-MM-DD
	Timestamps
}

func (Reminder) TableName() string {
	return "reminders"
}

// IsRecurring reports whether the reminder heads or continues a chain.
func (r *Reminder) IsRecurring() bool {
	return r.Rule != nil
}

// Active reports whether the reminder still participates in dispatch.
func (r *Reminder) Active() bool {
	return r.Status == ReminderStatusPending || r.Status == ReminderStatusSnoozed
}

// UnsentSettings filters notifications that still need queue entries.
func (r *Reminder) UnsentSettings() []NotificationSetting {
	out := make([]NotificationSetting, 0, len(r.Notifications))
	for _, s := range r.Notifications {
		if !s.Sent {
			out = append(out, s)
		}
	}
	return out
}

// MarkSettingSent flips one setting to sent. Returns false when the id is
// unknown or the setting was already sent.
func (r *Reminder) MarkSettingSent(settingID string) bool {
	for i := range r.Notifications {
		if r.Notifications[i].ID == settingID {
			if r.Notifications[i].Sent {
				return false
			}
			r.Notifications[i].Sent = true
			return true
		}
	}
	return false
}
