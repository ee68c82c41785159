// Package dto holds the request/response shapes of the HTTP surface. Times
// cross the wire as RFC3339 strings and are normalized to UTC on the way in.
package dto

import (
	"time"

	"Remindly/internal/model"
)

type CreateReminderRequest struct {
	Title         string                     `json:"title" binding:"required"`
	Notes         string                     `json:"notes"`
	DueAt         string                     `json:"due_at" binding:"required"`
	Timezone      string                     `json:"timezone"`
	Notifications model.NotificationSettings `json:"notifications"`
	Rule          *model.RecurrenceRule      `json:"rule"`
}

type UpdateReminderRequest struct {
	Title         *string                     `json:"title"`
	Notes         *string                     `json:"notes"`
	DueAt         *string                     `json:"due_at"`
	Timezone      *string                     `json:"timezone"`
	Status        *string                     `json:"status"`
	Notifications *model.NotificationSettings `json:"notifications"`
	Rule          *model.RecurrenceRule       `json:"rule"`
}

type ReminderItem struct {
	ID            string                     `json:"id"`
	Title         string                     `json:"title"`
	Notes         string                     `json:"notes,omitempty"`
	DueAt         time.Time                  `json:"due_at"`
	Timezone      string                     `json:"timezone"`
	Status        string                     `json:"status"`
	Notifications model.NotificationSettings `json:"notifications,omitempty"`
	Rule          *model.RecurrenceRule      `json:"rule,omitempty"`
	RoutineID     string                     `json:"routine_id,omitempty"`
	CreatedAt     time.Time                  `json:"created_at"`
}

func NewReminderItem(rem *model.Reminder) *ReminderItem {
	return &ReminderItem{
		ID:            rem.ID,
		Title:         rem.Title,
		Notes:         rem.Notes,
		DueAt:         rem.DueAt,
		Timezone:      rem.Timezone,
		Status:        string(rem.Status),
		Notifications: rem.Notifications,
		Rule:          rem.Rule,
		RoutineID:     rem.RoutineID,
		CreatedAt:     rem.CreatedAt,
	}
}

type OccurrencesRequest struct {
	HorizonDays int `json:"horizon_days"`
	MaxCount    int `json:"max_count"`
}

type OccurrencesResponse struct {
	Occurrences []time.Time `json:"occurrences"`
}

type DueItemsResponse struct {
	Items []*model.QueueEntry `json:"items"`
}
