package model

import (
	"database/sql/driver"
	"time"

	"Remindly/pkg/errors"
)

// ScheduleType enumerates how a routine picks its days.
type ScheduleType string

const (
	ScheduleDaily  ScheduleType = "daily"
	ScheduleWeekly ScheduleType = "weekly"
	ScheduleCustom ScheduleType = "custom"
)

// RoutineSchedule drives which local days a routine expands on.
type RoutineSchedule struct {
	Type     ScheduleType `json:"type"`
	Days     []int        `json:"days,omitempty"` // 0=Sunday .. 6=Saturday, unused for daily
	Interval int          `json:"interval,omitempty"`
}

// DueOn reports whether the schedule selects the given local day. Intervals
// greater than one phase the grid off the anchor day: a daily schedule fires
// every Nth day, a weekly one only in weeks whose index relative to the
// anchor week is a multiple of the interval (Sunday opens a week, matching
// the 0=Sunday day numbering).
func (s *RoutineSchedule) DueOn(day, anchor time.Time) bool {
	interval := s.Interval
	if interval < 1 {
		interval = 1
	}

	if s.Type == ScheduleDaily {
		if interval == 1 {
			return true
		}
		return wrapMod(daysBetween(anchor, day), interval) == 0
	}

	match := false
	for _, d := range s.Days {
		if int(day.Weekday()) == d {
			match = true
			break
		}
	}
	if !match {
		return false
	}
	if interval == 1 {
		return true
	}
	weeks := daysBetween(startOfWeekDay(anchor), startOfWeekDay(day)) / 7
	return wrapMod(weeks, interval) == 0
}

func (s *RoutineSchedule) Validate() error {
	switch s.Type {
	case ScheduleDaily:
	case ScheduleWeekly, ScheduleCustom:
		// A day-based schedule without days can never fire.
		if len(s.Days) == 0 {
			return errors.ScheduleDaysInvalid
		}
	default:
		return errors.ScheduleDaysInvalid
	}
	for _, d := range s.Days {
		if d < 0 || d > 6 {
			return errors.ScheduleDaysInvalid
		}
	}
	return nil
}

// startOfWeekDay returns the calendar date of the Sunday opening t's week.
func startOfWeekDay(t time.Time) time.Time {
	return t.AddDate(0, 0, -int(t.Weekday()))
}

// daysBetween counts calendar days from a to b, DST-proof by mapping both
// dates onto UTC midnights first.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	a0 := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	b0 := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(b0.Sub(a0).Hours() / 24)
}

func wrapMod(n, m int) int {
	r := n % m
	if r < 0 {
		r += m
	}
	return r
}

func (s RoutineSchedule) Value() (driver.Value, error) {
	return jsonbValue(s)
}

func (s *RoutineSchedule) Scan(src interface{}) error {
	return jsonbScan(src, s)
}

// RoutineStep is one timed item inside a routine template. Time is local
// wall clock "HH:mm" in the routine's timezone.
type RoutineStep struct {
	ID            string               `json:"id"`
	Title         string               `json:"title"`
	Notes         string               `json:"notes,omitempty"`
	Time          string               `json:"time"`
	Notifications NotificationSettings `json:"notifications,omitempty"`
}

type RoutineSteps []RoutineStep

func (s RoutineSteps) Value() (driver.Value, error) {
	return jsonbValue(s)
}

func (s *RoutineSteps) Scan(src interface{}) error {
	return jsonbScan(src, s)
}

// Routine is a reusable template of timed steps repeated on a weekday
// schedule. Inactive routines are never expanded.
type Routine struct {
	ID       string          `gorm:"primaryKey;type:varchar(32)" json:"id"`
	OwnerID  string          `gorm:"type:varchar(32);not null;index" json:"owner_id"`
	Title    string          `gorm:"type:varchar(255);not null" json:"title"`
	Active   bool            `gorm:"not null;default:true" json:"active"`
	Timezone string          `gorm:"type:varchar(64);not null;default:'UTC'" json:"timezone"`
	Steps    RoutineSteps    `gorm:"type:jsonb" json:"steps"`
	Schedule RoutineSchedule `gorm:"type:jsonb" json:"schedule"`
	LastRun  *time.Time      `gorm:"type:timestamptz" json:"last_run,omitempty"`
	Timestamps
}

func (Routine) TableName() string {
	return "routines"
}
