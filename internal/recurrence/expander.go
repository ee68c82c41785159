package recurrence

import (
	"time"

	"Remindly/internal/model"
)

// DefaultMaxOccurrences caps a single expansion regardless of horizon.
const DefaultMaxOccurrences = 100

// Expand materializes the occurrences after firstDue that fall inside the
// forward horizon, in order. fromIndex is firstDue's 0-based position in the
// chain, so a mid-chain expansion still stops at the true after_count end; a
// chain head passes 0, making the first occurrence count as one and an
// after_count rule emit at most count-1 successors. An exhausted rule yields
// an empty slice, never an error.
func Expand(rule *model.RecurrenceRule, firstDue, now time.Time, horizonDays, maxCount, fromIndex int) []time.Time {
	if rule == nil {
		return nil
	}
	if maxCount <= 0 || maxCount > DefaultMaxOccurrences {
		maxCount = DefaultMaxOccurrences
	}
	if fromIndex < 0 {
		fromIndex = 0
	}

	horizon := now.AddDate(0, 0, horizonDays)
	out := make([]time.Time, 0)

	current := firstDue
	for len(out) < maxCount {
		if rule.EndCondition.Type == model.EndAfterCount && fromIndex+len(out) >= rule.EndCondition.Count-1 {
			break
		}

		next, ok := Next(rule, current)
		if !ok {
			break
		}
		if next.After(horizon) {
			break
		}

		out = append(out, next)
		current = next
	}

	return out
}
