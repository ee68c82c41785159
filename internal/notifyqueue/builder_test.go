package notifyqueue

import (
	"testing"
	"time"

	"Remindly/internal/model"
)

func testReminder(due time.Time, settings ...model.NotificationSetting) *model.Reminder {
	return &model.Reminder{
		ID:            "rem-1",
		OwnerID:       "owner-1",
		Title:         "Water the plants",
		DueAt:         due,
		Timezone:      "Europe/Berlin",
		Status:        model.ReminderStatusPending,
		Notifications: settings,
	}
}

func TestBuildEntriesExpandsChannels(t *testing.T) {
	due := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	rem := testReminder(due,
		model.NotificationSetting{ID: "s1", OffsetMinutes: 60, ChannelSpec: model.ChannelSpecPush},
		model.NotificationSetting{ID: "s2", OffsetMinutes: 0, ChannelSpec: model.ChannelSpecBoth},
	)

	entries := BuildEntries(rem)
	if len(entries) != 4 {
		t.Fatalf("entries = %d, want 4", len(entries))
	}

	type key struct {
		setting string
		channel model.Channel
		at      time.Time
	}
	got := make(map[key]bool, len(entries))
	for _, e := range entries {
		got[key{e.NotificationSettingID, e.Channel, e.ScheduledAt}] = true
		if e.ReminderID != "rem-1" || e.OwnerID != "owner-1" {
			t.Errorf("entry carries wrong identity: %+v", e)
		}
		if !e.DueAt.Equal(due) {
			t.Errorf("entry DueAt = %v, want %v", e.DueAt, due)
		}
	}

	want := []key{
		{"s1", model.ChannelPush, due.Add(-60 * time.Minute)},
		{"s2", model.ChannelPush, due},
		{"s2", model.ChannelSMS, due},
		{"s2", model.ChannelEmail, due},
	}
	for _, k := range want {
		if !got[k] {
			t.Errorf("missing entry setting=%s channel=%s at=%v", k.setting, k.channel, k.at)
		}
	}
}

func TestBuildEntriesSkipsSentSettings(t *testing.T) {
	due := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	rem := testReminder(due,
		model.NotificationSetting{ID: "s1", OffsetMinutes: 0, ChannelSpec: model.ChannelSpecPush, Sent: true},
		model.NotificationSetting{ID: "s2", OffsetMinutes: 10, ChannelSpec: model.ChannelSpecEmail},
	)

	entries := BuildEntries(rem)
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].NotificationSettingID != "s2" || entries[0].Channel != model.ChannelEmail {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
}

func TestBuildEntriesNoSettings(t *testing.T) {
	rem := testReminder(time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC))
	if entries := BuildEntries(rem); entries != nil {
		t.Fatalf("entries = %v, want nil", entries)
	}
}

func TestBuildEntriesAllSpec(t *testing.T) {
	due := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	rem := testReminder(due,
		model.NotificationSetting{ID: "s1", OffsetMinutes: 5, ChannelSpec: model.ChannelSpecAll},
	)

	entries := BuildEntries(rem)
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}
	seen := map[model.Channel]bool{}
	for _, e := range entries {
		seen[e.Channel] = true
	}
	for _, ch := range []model.Channel{model.ChannelPush, model.ChannelSMS, model.ChannelEmail} {
		if !seen[ch] {
			t.Errorf("missing channel %s", ch)
		}
	}
}

func TestWindowBounds(t *testing.T) {
	now := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	from, to := Window(now, 2*time.Minute)

	if !to.Equal(now) {
		t.Errorf("to = %v, want %v", to, now)
	}
	if !from.Equal(now.Add(-2 * time.Minute)) {
		t.Errorf("from = %v, want %v", from, now.Add(-2*time.Minute))
	}

	// An entry 5 minutes late falls outside the window, one 1 minute late
	// is still inside.
	late5 := now.Add(-5 * time.Minute)
	late1 := now.Add(-1 * time.Minute)
	if !late5.Before(from) {
		t.Error("entry 5 minutes late should be excluded")
	}
	if late1.Before(from) || late1.After(to) {
		t.Error("entry 1 minute late should be included")
	}
}
