package recurrence

import (
	"testing"
	"time"

	"Remindly/internal/model"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("bad test time %q: %v", s, err)
	}
	return ts
}

func TestNextSimpleFrequencies(t *testing.T) {
	base := mustTime(t, "2025-01-01T09:00:00Z")

	tests := []struct {
		name string
		rule model.RecurrenceRule
		want string
	}{
		{"hourly x1", model.RecurrenceRule{Frequency: model.FrequencyHourly, Interval: 1}, "2025-01-01T10:00:00Z"},
		{"hourly x6", model.RecurrenceRule{Frequency: model.FrequencyHourly, Interval: 6}, "2025-01-01T15:00:00Z"},
		{"daily x1", model.RecurrenceRule{Frequency: model.FrequencyDaily, Interval: 1}, "2025-01-02T09:00:00Z"},
		{"daily x10", model.RecurrenceRule{Frequency: model.FrequencyDaily, Interval: 10}, "2025-01-11T09:00:00Z"},
		{"monthly x1", model.RecurrenceRule{Frequency: model.FrequencyMonthly, Interval: 1}, "2025-02-01T09:00:00Z"},
		{"custom without weekdays acts daily", model.RecurrenceRule{Frequency: model.FrequencyCustom, Interval: 3}, "2025-01-04T09:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Next(&tt.rule, base)
			if !ok {
				t.Fatal("expected a next occurrence")
			}
			if want := mustTime(t, tt.want); !got.Equal(want) {
				t.Errorf("Next = %v, want %v", got, want)
			}
		})
	}
}

func TestNextWeeklyWithoutWeekdaysAddsSevenDays(t *testing.T) {
	rule := model.RecurrenceRule{Frequency: model.FrequencyWeekly, Interval: 1}
	cur := mustTime(t, "2025-03-05T18:30:00Z")

	got, ok := Next(&rule, cur)
	if !ok {
		t.Fatal("expected a next occurrence")
	}
	if want := cur.AddDate(0, 0, 7); !got.Equal(want) {
		t.Errorf("Next = %v, want currentDue+7d = %v", got, want)
	}
}

func TestNextBiweeklyWeekdaysSkipsOffGridWeek(t *testing.T) {
	// Anchored on Monday 2025-01-06. Week 0 is valid, week 1 is not,
	// week 2 is valid again.
	anchor := mustTime(t, "2025-01-06T09:00:00Z")
	rule := model.RecurrenceRule{
		Frequency: model.FrequencyWeekly,
		Interval:  2,
		Weekdays:  []int{1, 3, 5}, // Mon Wed Fri
		Anchor:    anchor,
	}

	want := []string{
		"2025-01-08T09:00:00Z", // Wed week 0
		"2025-01-10T09:00:00Z", // Fri week 0
		"2025-01-20T09:00:00Z", // Mon week 2, week 1 skipped entirely
		"2025-01-22T09:00:00Z", // Wed week 2
		"2025-01-24T09:00:00Z", // Fri week 2
		"2025-02-03T09:00:00Z", // Mon week 4
	}

	cur := anchor
	for i, w := range want {
		next, ok := Next(&rule, cur)
		if !ok {
			t.Fatalf("step %d: series ended unexpectedly", i)
		}
		if exp := mustTime(t, w); !next.Equal(exp) {
			t.Fatalf("step %d: Next = %v, want %v", i, next, exp)
		}
		cur = next
	}
}

func TestNextWeekdaysFromOffGridWeek(t *testing.T) {
	anchor := mustTime(t, "2025-01-06T09:00:00Z")
	rule := model.RecurrenceRule{
		Frequency: model.FrequencyWeekly,
		Interval:  2,
		Weekdays:  []int{2}, // Tuesday
		Anchor:    anchor,
	}

	// Current due sits in week 1, which is not a multiple of the interval.
	cur := mustTime(t, "2025-01-14T09:00:00Z")
	next, ok := Next(&rule, cur)
	if !ok {
		t.Fatal("expected a next occurrence")
	}
	if want := mustTime(t, "2025-01-21T09:00:00Z"); !next.Equal(want) {
		t.Errorf("Next = %v, want Tuesday of week 2 = %v", next, want)
	}
}

func TestNextWeekdayOverridesNominalFrequency(t *testing.T) {
	// A "daily" rule with weekdays set behaves as weekly-by-day.
	anchor := mustTime(t, "2025-01-06T08:00:00Z")
	rule := model.RecurrenceRule{
		Frequency: model.FrequencyDaily,
		Interval:  1,
		Weekdays:  []int{1},
		Anchor:    anchor,
	}

	next, ok := Next(&rule, anchor)
	if !ok {
		t.Fatal("expected a next occurrence")
	}
	if want := mustTime(t, "2025-01-13T08:00:00Z"); !next.Equal(want) {
		t.Errorf("Next = %v, want following Monday %v", next, want)
	}
}

func TestNextSkipWeekends(t *testing.T) {
	rule := model.RecurrenceRule{Frequency: model.FrequencyDaily, Interval: 1, SkipWeekends: true}

	// Friday + 1 day = Saturday, rolled forward to Monday.
	cur := mustTime(t, "2025-01-03T09:00:00Z")
	next, ok := Next(&rule, cur)
	if !ok {
		t.Fatal("expected a next occurrence")
	}
	if want := mustTime(t, "2025-01-06T09:00:00Z"); !next.Equal(want) {
		t.Errorf("Next = %v, want Monday %v", next, want)
	}
}

func TestNextSkipWeekendsIgnoredWithWeekdays(t *testing.T) {
	anchor := mustTime(t, "2025-01-05T09:00:00Z") // Sunday
	rule := model.RecurrenceRule{
		Frequency:    model.FrequencyWeekly,
		Interval:     1,
		Weekdays:     []int{0, 6}, // weekend days on purpose
		SkipWeekends: true,
		Anchor:       anchor,
	}

	next, ok := Next(&rule, anchor)
	if !ok {
		t.Fatal("expected a next occurrence")
	}
	if next.Weekday() != time.Saturday {
		t.Errorf("Next landed on %v, weekday set must win over SkipWeekends", next.Weekday())
	}
}

func TestNextEndOnDate(t *testing.T) {
	bound := mustTime(t, "2025-01-10T00:00:00Z")
	rule := model.RecurrenceRule{
		Frequency:    model.FrequencyDaily,
		Interval:     1,
		EndCondition: model.EndCondition{Type: model.EndOnDate, Date: &bound},
	}

	// Computed next would exceed the bound.
	if _, ok := Next(&rule, mustTime(t, "2025-01-09T12:00:00Z")); ok {
		t.Error("expected series end when next exceeds the bound")
	}

	// Current due already beyond the bound.
	if _, ok := Next(&rule, mustTime(t, "2025-02-01T00:00:00Z")); ok {
		t.Error("expected series end when currentDue exceeds the bound")
	}

	// Still inside the bound.
	next, ok := Next(&rule, mustTime(t, "2025-01-08T12:00:00Z"))
	if !ok {
		t.Fatal("expected a next occurrence inside the bound")
	}
	if want := mustTime(t, "2025-01-09T12:00:00Z"); !next.Equal(want) {
		t.Errorf("Next = %v, want %v", next, want)
	}
}

func TestNextInvalidInterval(t *testing.T) {
	rule := model.RecurrenceRule{Frequency: model.FrequencyDaily, Interval: 0}
	if _, ok := Next(&rule, mustTime(t, "2025-01-01T09:00:00Z")); ok {
		t.Error("interval below 1 must end the series, not loop forever")
	}
}

func TestNextNilRule(t *testing.T) {
	if _, ok := Next(nil, time.Now()); ok {
		t.Error("nil rule must report series end")
	}
}
