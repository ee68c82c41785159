package recurrence

import (
	"testing"
	"time"

	"Remindly/internal/model"
)

func TestExpandDailyScenario(t *testing.T) {
	rule := model.RecurrenceRule{Frequency: model.FrequencyDaily, Interval: 1}
	first := mustTime(t, "2025-01-01T09:00:00Z")

	got := Expand(&rule, first, first, 3, 0, 0)

	want := []string{
		"2025-01-02T09:00:00Z",
		"2025-01-03T09:00:00Z",
		"2025-01-04T09:00:00Z",
	}
	if len(got) != len(want) {
		t.Fatalf("Expand returned %d occurrences, want %d: %v", len(got), len(want), got)
	}
	for i, w := range want {
		if exp := mustTime(t, w); !got[i].Equal(exp) {
			t.Errorf("occurrence %d = %v, want %v", i, got[i], exp)
		}
	}
}

func TestExpandStaysInsideHorizonAndIsMonotonic(t *testing.T) {
	anchor := mustTime(t, "2025-01-06T09:00:00Z")
	rule := model.RecurrenceRule{
		Frequency: model.FrequencyWeekly,
		Interval:  2,
		Weekdays:  []int{1, 3, 5},
		Anchor:    anchor,
	}
	now := anchor

	got := Expand(&rule, anchor, now, 30, 0, 0)
	if len(got) == 0 {
		t.Fatal("expected occurrences inside a 30 day horizon")
	}

	horizon := now.AddDate(0, 0, 30)
	prev := anchor
	for i, occ := range got {
		if occ.After(horizon) {
			t.Errorf("occurrence %d = %v is beyond the horizon %v", i, occ, horizon)
		}
		if !occ.After(prev) {
			t.Errorf("occurrence %d = %v is not strictly after %v", i, occ, prev)
		}
		prev = occ
	}
}

func TestExpandHonorsAfterCount(t *testing.T) {
	rule := model.RecurrenceRule{
		Frequency:    model.FrequencyDaily,
		Interval:     1,
		EndCondition: model.EndCondition{Type: model.EndAfterCount, Count: 3},
	}
	first := mustTime(t, "2025-01-01T09:00:00Z")

	// First occurrence counts as one, so only two successors may be emitted.
	got := Expand(&rule, first, first, 30, 0, 0)
	if len(got) != 2 {
		t.Fatalf("Expand emitted %d successors, want 2: %v", len(got), got)
	}
}

func TestExpandExhaustedRuleReturnsEmpty(t *testing.T) {
	bound := mustTime(t, "2024-12-31T00:00:00Z")
	rule := model.RecurrenceRule{
		Frequency:    model.FrequencyDaily,
		Interval:     1,
		EndCondition: model.EndCondition{Type: model.EndOnDate, Date: &bound},
	}
	first := mustTime(t, "2025-01-01T09:00:00Z")

	got := Expand(&rule, first, first, 30, 0, 0)
	if len(got) != 0 {
		t.Fatalf("exhausted rule must expand to nothing, got %v", got)
	}
}

func TestExpandRespectsSafetyCap(t *testing.T) {
	rule := model.RecurrenceRule{Frequency: model.FrequencyHourly, Interval: 1}
	first := mustTime(t, "2025-01-01T00:00:00Z")

	got := Expand(&rule, first, first, 365, 0, 0)
	if len(got) != DefaultMaxOccurrences {
		t.Fatalf("Expand emitted %d occurrences, cap is %d", len(got), DefaultMaxOccurrences)
	}

	got = Expand(&rule, first, first, 365, 10, 0)
	if len(got) != 10 {
		t.Fatalf("Expand emitted %d occurrences, explicit cap was 10", len(got))
	}
}

func TestExpandMidChainHonorsStartIndex(t *testing.T) {
	rule := model.RecurrenceRule{
		Frequency:    model.FrequencyDaily,
		Interval:     1,
		EndCondition: model.EndCondition{Type: model.EndAfterCount, Count: 4},
	}
	first := mustTime(t, "2025-01-03T09:00:00Z")

	// Starting from the third link (index 2) of a four-occurrence chain
	// leaves exactly one successor.
	got := Expand(&rule, first, first, 30, 0, 2)
	if len(got) != 1 {
		t.Fatalf("Expand emitted %d successors from index 2, want 1: %v", len(got), got)
	}
	if want := mustTime(t, "2025-01-04T09:00:00Z"); !got[0].Equal(want) {
		t.Errorf("successor = %v, want %v", got[0], want)
	}

	// The final link expands to nothing.
	if got := Expand(&rule, first, first, 30, 0, 3); len(got) != 0 {
		t.Fatalf("chain end must expand to nothing, got %v", got)
	}
}

func TestExpandAcrossTimezoneKeepsWallClock(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}

	// Crosses the March DST transition; local wall clock must stay at 08:00.
	first := time.Date(2025, 3, 7, 8, 0, 0, 0, loc)
	rule := model.RecurrenceRule{Frequency: model.FrequencyDaily, Interval: 1}

	got := Expand(&rule, first, first, 5, 0, 0)
	for i, occ := range got {
		if h := occ.In(loc).Hour(); h != 8 {
			t.Errorf("occurrence %d fires at local hour %d, want 8", i, h)
		}
	}
}
