package routine

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"Remindly/internal/model"
)

func testGenerator() *Generator {
	return &Generator{log: zap.NewNop()}
}

func morningRoutine() *model.Routine {
	return &model.Routine{
		ID:       "rt-1",
		OwnerID:  "owner-1",
		Title:    "Morning",
		Active:   true,
		Timezone: "UTC",
		Schedule: model.RoutineSchedule{Type: model.ScheduleDaily},
		Steps: model.RoutineSteps{
			{ID: "step-a", Title: "Stretch", Time: "07:00"},
			{ID: "step-b", Title: "Coffee", Time: "07:30"},
		},
	}
}

func TestInstancesSkipsPastSteps(t *testing.T) {
	g := testGenerator()
	rt := morningRoutine()

	// 07:15 UTC: step-a already passed today, step-b still ahead. Tomorrow
	// step-a lands inside the 24h window, tomorrow's step-b does not.
	ref := time.Date(2025, 3, 10, 7, 15, 0, 0, time.UTC)
	got := g.Instances(rt, ref)

	if len(got) != 2 {
		t.Fatalf("instances = %d, want 2", len(got))
	}
	if got[0].Title != "Coffee" || !got[0].DueAt.Equal(time.Date(2025, 3, 10, 7, 30, 0, 0, time.UTC)) {
		t.Errorf("first instance = %s at %v", got[0].Title, got[0].DueAt)
	}
	if got[1].Title != "Stretch" || !got[1].DueAt.Equal(time.Date(2025, 3, 11, 7, 0, 0, 0, time.UTC)) {
		t.Errorf("second instance = %s at %v", got[1].Title, got[1].DueAt)
	}
}

func TestInstancesDeterministicIDs(t *testing.T) {
	g := testGenerator()
	rt := morningRoutine()
	ref := time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)

	first := g.Instances(rt, ref)
	second := g.Instances(rt, ref)
	if len(first) == 0 || len(first) != len(second) {
		t.Fatalf("instance counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("instance %d id changed across runs: %s vs %s", i, first[i].ID, second[i].ID)
		}
		if len(first[i].ID) != 20 {
			t.Errorf("instance id %q has unexpected length", first[i].ID)
		}
	}

	// Same step on a different local day gets a different id.
	later := g.Instances(rt, ref.AddDate(0, 0, 2))
	if later[0].ID == first[0].ID {
		t.Error("ids must differ across days")
	}
}

func TestInstancesWeeklySchedule(t *testing.T) {
	g := testGenerator()
	rt := morningRoutine()
	rt.Schedule = model.RoutineSchedule{
		Type: model.ScheduleWeekly,
		Days: []int{1}, // Monday only
	}

	// 2025-03-10 is a Monday; both steps today qualify, Tuesday yields none.
	ref := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	got := g.Instances(rt, ref)
	if len(got) != 2 {
		t.Fatalf("instances = %d, want 2", len(got))
	}

	// Starting Tuesday, nothing inside the 24h window.
	got = g.Instances(rt, ref.AddDate(0, 0, 1))
	if len(got) != 0 {
		t.Fatalf("instances = %d, want 0", len(got))
	}
}

func TestInstancesTimezoneCrossesMidnight(t *testing.T) {
	g := testGenerator()
	rt := morningRoutine()
	rt.Timezone = "Asia/Tokyo"
	if _, err := time.LoadLocation(rt.Timezone); err != nil {
		t.Skip("tzdata unavailable")
	}

	// 23:00 UTC on the 10th is already 08:00 on the 11th in Tokyo, so the
	// "today" scan must start on the local day, not the UTC one.
	ref := time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC)
	got := g.Instances(rt, ref)
	if len(got) != 2 {
		t.Fatalf("instances = %d, want 2", len(got))
	}
	for _, inst := range got {
		if inst.RoutineDate != "2025-03-12" {
			t.Errorf("instance %s local date = %s, want 2025-03-12", inst.Title, inst.RoutineDate)
		}
	}
	// 07:00 Tokyo on the 12th is 22:00 UTC on the 11th.
	if !got[0].DueAt.Equal(time.Date(2025, 3, 11, 22, 0, 0, 0, time.UTC)) {
		t.Errorf("first due = %v", got[0].DueAt)
	}
}

func TestInstancesInvalidTimezoneFallsBackToUTC(t *testing.T) {
	g := testGenerator()
	rt := morningRoutine()
	rt.Timezone = "Mars/Olympus"

	ref := time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)
	got := g.Instances(rt, ref)
	if len(got) != 2 {
		t.Fatalf("instances = %d, want 2", len(got))
	}
	if !got[0].DueAt.Equal(time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC)) {
		t.Errorf("first due = %v, want UTC interpretation", got[0].DueAt)
	}
}

func TestInstancesInvalidStepTimeSkipped(t *testing.T) {
	g := testGenerator()
	rt := morningRoutine()
	rt.Steps = append(rt.Steps, model.RoutineStep{ID: "step-c", Title: "Broken", Time: "25:99"})

	ref := time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)
	got := g.Instances(rt, ref)
	for _, inst := range got {
		if inst.Title == "Broken" {
			t.Fatal("step with invalid time must be skipped")
		}
	}
	if len(got) != 2 {
		t.Fatalf("instances = %d, want 2", len(got))
	}
}

func TestInstancesWeeklyIntervalSkipsOffWeeks(t *testing.T) {
	g := testGenerator()
	rt := morningRoutine()
	rt.Schedule = model.RoutineSchedule{Type: model.ScheduleWeekly, Days: []int{1}, Interval: 2}
	// Created on a Monday; that week is week zero of the two-week grid.
	rt.CreatedAt = time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)

	// 2025-03-10 is the Monday of the in-between week.
	got := g.Instances(rt, time.Date(2025, 3, 10, 0, 30, 0, 0, time.UTC))
	if len(got) != 0 {
		t.Fatalf("off-grid week produced %d instances, want 0", len(got))
	}

	// 2025-03-17 is the Monday two weeks after creation.
	got = g.Instances(rt, time.Date(2025, 3, 17, 0, 30, 0, 0, time.UTC))
	if len(got) != 2 {
		t.Fatalf("on-grid week produced %d instances, want 2", len(got))
	}
	for _, inst := range got {
		if inst.RoutineDate != "2025-03-17" {
			t.Errorf("instance %s on %s, want 2025-03-17", inst.Title, inst.RoutineDate)
		}
	}
}

func TestInstancesDailyIntervalEveryOtherDay(t *testing.T) {
	g := testGenerator()
	rt := morningRoutine()
	rt.Schedule = model.RoutineSchedule{Type: model.ScheduleDaily, Interval: 2}
	rt.CreatedAt = time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

	// March 10 is seven days after creation, so off the every-other-day grid;
	// March 11 is on it. Both scanned days fall inside the 24h window.
	got := g.Instances(rt, time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC))
	if len(got) != 2 {
		t.Fatalf("instances = %d, want 2", len(got))
	}
	for _, inst := range got {
		if inst.RoutineDate != "2025-03-11" {
			t.Errorf("instance %s on %s, want 2025-03-11", inst.Title, inst.RoutineDate)
		}
	}
}

func TestInstancesCarryStepNotifications(t *testing.T) {
	g := testGenerator()
	rt := morningRoutine()
	rt.Steps[0].Notifications = model.NotificationSettings{
		{ID: "n1", OffsetMinutes: 10, ChannelSpec: model.ChannelSpecPush},
	}

	ref := time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)
	got := g.Instances(rt, ref)
	if len(got) == 0 {
		t.Fatal("expected instances")
	}
	if len(got[0].Notifications) != 1 || got[0].Notifications[0].ID != "n1" {
		t.Fatalf("notifications not carried: %+v", got[0].Notifications)
	}
	if got[0].RoutineID != "rt-1" || got[0].OwnerID != "owner-1" {
		t.Errorf("instance identity wrong: %+v", got[0])
	}
}
