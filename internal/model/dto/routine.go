package dto

import (
	"time"

	"Remindly/internal/model"
)

type CreateRoutineRequest struct {
	Title    string                `json:"title" binding:"required"`
	Timezone string                `json:"timezone"`
	Steps    model.RoutineSteps    `json:"steps" binding:"required"`
	Schedule model.RoutineSchedule `json:"schedule" binding:"required"`
}

type UpdateRoutineRequest struct {
	Title    *string                `json:"title"`
	Timezone *string                `json:"timezone"`
	Steps    *model.RoutineSteps    `json:"steps"`
	Schedule *model.RoutineSchedule `json:"schedule"`
}

type RoutineItem struct {
	ID        string                `json:"id"`
	Title     string                `json:"title"`
	Active    bool                  `json:"active"`
	Timezone  string                `json:"timezone"`
	Steps     model.RoutineSteps    `json:"steps"`
	Schedule  model.RoutineSchedule `json:"schedule"`
	LastRun   *time.Time            `json:"last_run,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
}

func NewRoutineItem(rt *model.Routine) *RoutineItem {
	return &RoutineItem{
		ID:        rt.ID,
		Title:     rt.Title,
		Active:    rt.Active,
		Timezone:  rt.Timezone,
		Steps:     rt.Steps,
		Schedule:  rt.Schedule,
		LastRun:   rt.LastRun,
		CreatedAt: rt.CreatedAt,
	}
}
