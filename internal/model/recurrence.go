package model

import (
	"database/sql/driver"
	"sort"
	"time"

	"Remindly/pkg/errors"
)

// Frequency enumerates how often a reminder repeats.
type Frequency string

const (
	FrequencyHourly  Frequency = "hourly"
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyCustom  Frequency = "custom"
)

// EndConditionType enumerates how a series terminates.
type EndConditionType string

const (
	EndNever      EndConditionType = "never"
	EndOnDate     EndConditionType = "on_date"
	EndAfterCount EndConditionType = "after_count"
)

// EndCondition bounds a recurrence series. Date is set for on_date, Count for
// after_count.
type EndCondition struct {
	Type  EndConditionType `json:"type"`
	Date  *time.Time       `json:"date,omitempty"`
	Count int              `json:"count,omitempty"`
}

// RecurrenceRule describes how a reminder chain advances. A non-empty Weekdays
// set forces weekly semantics no matter what Frequency says.
type RecurrenceRule struct {
	Frequency    Frequency    `json:"frequency"`
	Interval     int          `json:"interval"`
	Weekdays     []int        `json:"weekdays,omitempty"` // 0=Sunday .. 6=Saturday
	EndCondition EndCondition `json:"end_condition"`
	SkipWeekends bool         `json:"skip_weekends,omitempty"` // only honored when Weekdays is empty
	Anchor       time.Time    `json:"anchor"`                  // reference instant for interval-week phase
}

// Validate rejects malformed rules at construction time instead of coercing.
func (r *RecurrenceRule) Validate() error {
	if r.Interval < 1 {
		return errors.RuleIntervalInvalid
	}
	switch r.Frequency {
	case FrequencyHourly, FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyCustom:
	default:
		return errors.RuleFrequencyInvalid
	}
	for _, d := range r.Weekdays {
		if d < 0 || d > 6 {
			return errors.RuleWeekdaysInvalid
		}
	}
	return nil
}

// SortedWeekdays returns the weekday set ascending, deduplicated.
func (r *RecurrenceRule) SortedWeekdays() []int {
	seen := make(map[int]bool, len(r.Weekdays))
	out := make([]int, 0, len(r.Weekdays))
	for _, d := range r.Weekdays {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Ints(out)
	return out
}

// EffectiveFrequency applies the weekday override.
func (r *RecurrenceRule) EffectiveFrequency() Frequency {
	if len(r.Weekdays) > 0 {
		return FrequencyWeekly
	}
	return r.Frequency
}

func (r RecurrenceRule) Value() (driver.Value, error) {
	return jsonbValue(r)
}

func (r *RecurrenceRule) Scan(src interface{}) error {
	return jsonbScan(src, r)
}
