package service

import (
	"testing"
	"time"

	"Remindly/internal/model"
	"Remindly/pkg/errors"
)

func validReminder() *model.Reminder {
	return &model.Reminder{
		ID:       "rem-1",
		OwnerID:  "owner-1",
		Title:    "Pay rent",
		DueAt:    time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC),
		Timezone: "UTC",
		Status:   model.ReminderStatusPending,
		Notifications: model.NotificationSettings{
			{ID: "n1", OffsetMinutes: 30, ChannelSpec: model.ChannelSpecPush},
		},
	}
}

func TestValidateReminder(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*model.Reminder)
		wantErr error
	}{
		{"valid", func(r *model.Reminder) {}, nil},
		{"empty title", func(r *model.Reminder) { r.Title = "" }, errors.ReminderInvalid},
		{"bad timezone", func(r *model.Reminder) { r.Timezone = "Nowhere/Nope" }, errors.TimezoneInvalid},
		{"negative offset", func(r *model.Reminder) {
			r.Notifications[0].OffsetMinutes = -5
		}, errors.OffsetInvalid},
		{"bad channel spec", func(r *model.Reminder) {
			r.Notifications[0].ChannelSpec = "pigeon"
		}, errors.ChannelSpecInvalid},
		{"bad rule interval", func(r *model.Reminder) {
			r.Rule = &model.RecurrenceRule{Frequency: model.FrequencyDaily, Interval: 0}
		}, errors.RuleIntervalInvalid},
		{"bad rule weekday", func(r *model.Reminder) {
			r.Rule = &model.RecurrenceRule{Frequency: model.FrequencyWeekly, Interval: 1, Weekdays: []int{7}}
		}, errors.RuleWeekdaysInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rem := validReminder()
			tt.mutate(rem)

			err := validateReminder(rem)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err != tt.wantErr {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMergeNotificationSettingsKeepsSentFlag(t *testing.T) {
	existing := model.NotificationSettings{
		{ID: "n1", OffsetMinutes: 60, ChannelSpec: model.ChannelSpecPush, Sent: true},
		{ID: "n2", OffsetMinutes: 0, ChannelSpec: model.ChannelSpecEmail},
	}
	// The client echoes back n1 with sent cleared, tweaks its offset, and
	// replaces n2 with a fresh setting.
	incoming := model.NotificationSettings{
		{ID: "n1", OffsetMinutes: 30, ChannelSpec: model.ChannelSpecPush},
		{ID: "n3", OffsetMinutes: 5, ChannelSpec: model.ChannelSpecEmail},
	}

	got := mergeNotificationSettings(existing, incoming)
	if len(got) != 2 {
		t.Fatalf("settings = %d, want 2", len(got))
	}
	if !got[0].Sent {
		t.Error("an already-sent setting must stay sent through an edit")
	}
	if got[0].OffsetMinutes != 30 {
		t.Errorf("offset = %d, want the edited 30", got[0].OffsetMinutes)
	}
	if got[1].Sent {
		t.Error("a new setting must start unsent")
	}
	// The caller's slices are left alone.
	if incoming[0].Sent {
		t.Error("incoming settings mutated")
	}
}

func TestAssignSettingIDs(t *testing.T) {
	settings := model.NotificationSettings{
		{ID: "keep-me", OffsetMinutes: 0, ChannelSpec: model.ChannelSpecPush},
		{OffsetMinutes: 10, ChannelSpec: model.ChannelSpecEmail},
	}

	assignSettingIDs(settings)

	if settings[0].ID != "keep-me" {
		t.Errorf("existing id overwritten: %s", settings[0].ID)
	}
	if settings[1].ID == "" {
		t.Error("missing id not backfilled")
	}
}
