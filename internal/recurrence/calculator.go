// Package recurrence computes occurrence instants for reminder chains. All
// functions are pure: no I/O, no clocks, safe to call in tight loops.
package recurrence

import (
	"time"

	"Remindly/internal/model"
)

// Next returns the occurrence after currentDue, or ok=false when the series
// has ended. Ending is a normal terminal state, not an error; count based end
// conditions are the caller's responsibility.
func Next(rule *model.RecurrenceRule, currentDue time.Time) (time.Time, bool) {
	if rule == nil || rule.Interval < 1 {
		return time.Time{}, false
	}

	var next time.Time
	switch rule.EffectiveFrequency() {
	case model.FrequencyHourly:
		next = currentDue.Add(time.Duration(rule.Interval) * time.Hour)
	case model.FrequencyDaily, model.FrequencyCustom:
		// custom without weekdays behaves as daily
		next = currentDue.AddDate(0, 0, rule.Interval)
	case model.FrequencyMonthly:
		next = currentDue.AddDate(0, rule.Interval, 0)
	case model.FrequencyWeekly:
		if len(rule.Weekdays) == 0 {
			next = currentDue.AddDate(0, 0, 7*rule.Interval)
		} else {
			next = nextByWeekday(rule, currentDue)
		}
	default:
		return time.Time{}, false
	}

	if rule.SkipWeekends && len(rule.Weekdays) == 0 {
		for next.Weekday() == time.Saturday || next.Weekday() == time.Sunday {
			next = next.AddDate(0, 0, 1)
		}
	}

	if rule.EndCondition.Type == model.EndOnDate && rule.EndCondition.Date != nil {
		bound := *rule.EndCondition.Date
		if currentDue.After(bound) || next.After(bound) {
			return time.Time{}, false
		}
	}

	return next, true
}

// nextByWeekday walks the anchored interval-week grid. A week is valid only
// when its index relative to the anchor week is a multiple of the interval;
// within a valid week the lowest weekday strictly after currentDue wins,
// otherwise the first allowed weekday of the next valid week does. A plain
// "+7 days" would drift off the grid for intervals greater than one.
func nextByWeekday(rule *model.RecurrenceRule, currentDue time.Time) time.Time {
	days := rule.SortedWeekdays()

	weekStart := startOfWeek(currentDue)
	anchorStart := startOfWeek(rule.Anchor)
	weeks := weeksBetween(anchorStart, weekStart)

	rem := weeks % rule.Interval
	if rem < 0 {
		rem += rule.Interval
	}

	if rem == 0 {
		for _, d := range days {
			cand := atClock(weekStart.AddDate(0, 0, d), currentDue)
			if cand.After(currentDue) {
				return cand
			}
		}
	}

	// Either the current week is off-grid or its allowed days are spent:
	// jump to the next valid week's first allowed day.
	advance := rule.Interval - rem
	nextWeek := weekStart.AddDate(0, 0, 7*advance)
	return atClock(nextWeek.AddDate(0, 0, days[0]), currentDue)
}

// startOfWeek returns midnight of the Sunday opening t's week, in t's
// location (weekday numbering is Sunday=0).
func startOfWeek(t time.Time) time.Time {
	y, m, d := t.AddDate(0, 0, -int(t.Weekday())).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// weeksBetween counts whole weeks from a to b. Rounding absorbs the odd hour
// a DST transition adds or removes.
func weeksBetween(a, b time.Time) int {
	hours := b.Sub(a).Hours()
	weeks := hours / (24 * 7)
	if weeks >= 0 {
		return int(weeks + 0.5)
	}
	return int(weeks - 0.5)
}

// atClock places ref's wall clock time onto day's calendar date.
func atClock(day, ref time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, ref.Hour(), ref.Minute(), ref.Second(), ref.Nanosecond(), ref.Location())
}
