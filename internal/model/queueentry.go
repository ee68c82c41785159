package model

import "time"

// QueueEntry is a denormalized, channel specific unit of pending notification
// work. Entries are purely derived from reminders; the queue is a dispatch
// cache, never the source of truth. One entry exists per
// (reminder, notification setting, concrete channel).
type QueueEntry struct {
	ID                    string    `gorm:"primaryKey;type:varchar(32)" json:"id"`
	ReminderID            string    `gorm:"type:varchar(32);not null;index" json:"reminder_id"`
	OwnerID               string    `gorm:"type:varchar(32);not null;index:idx_queue_owner_sched" json:"owner_id"`
	Title                 string    `gorm:"type:varchar(255);not null" json:"title"`
	Notes                 string    `gorm:"type:text" json:"notes,omitempty"`
	ScheduledAt           time.Time `gorm:"type:timestamptz;not null;index:idx_queue_owner_sched" json:"scheduled_at"`
	DueAt                 time.Time `gorm:"type:timestamptz;not null" json:"due_at"`
	Timezone              string    `gorm:"type:varchar(64);not null;default:'UTC'" json:"timezone"`
	Channel               Channel   `gorm:"type:varchar(8);not null" json:"channel"`
	NotificationSettingID string    `gorm:"type:varchar(40);not null" json:"notification_setting_id"`
	Sent                  bool      `gorm:"not null;default:false;index:idx_queue_owner_sched" json:"sent"`
	RoutineID             string    `gorm:"type:varchar(32);index" json:"routine_id,omitempty"`
	RootID                string    `gorm:"type:varchar(32)" json:"root_id,omitempty"`
	Timestamps
}

func (QueueEntry) TableName() string {
	return "queue_entries"
}

// PushSubscription is the delivery endpoint record for the push channel.
// A permanent provider failure removes the row (stale endpoint cleanup).
type PushSubscription struct {
	ID       string `gorm:"primaryKey;type:varchar(32)" json:"id"`
	OwnerID  string `gorm:"type:varchar(32);not null;index" json:"owner_id"`
	Endpoint string `gorm:"type:text;not null" json:"endpoint"`
	Device   string `gorm:"type:varchar(128)" json:"device,omitempty"`
	Timestamps
}

func (PushSubscription) TableName() string {
	return "push_subscriptions"
}
