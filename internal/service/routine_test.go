package service

import (
	"testing"

	"Remindly/internal/model"
	"Remindly/pkg/errors"
)

func validRoutine() *model.Routine {
	return &model.Routine{
		ID:       "rt-1",
		OwnerID:  "owner-1",
		Title:    "Morning",
		Timezone: "UTC",
		Schedule: model.RoutineSchedule{Type: model.ScheduleDaily},
		Steps: model.RoutineSteps{
			{ID: "step-a", Title: "Stretch", Time: "07:00"},
		},
	}
}

func TestValidateRoutine(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*model.Routine)
		wantErr error
	}{
		{"valid daily", func(rt *model.Routine) {}, nil},
		{"valid weekly", func(rt *model.Routine) {
			rt.Schedule = model.RoutineSchedule{Type: model.ScheduleWeekly, Days: []int{1, 3}}
		}, nil},
		{"weekly without days", func(rt *model.Routine) {
			rt.Schedule = model.RoutineSchedule{Type: model.ScheduleWeekly}
		}, errors.ScheduleDaysInvalid},
		{"custom without days", func(rt *model.Routine) {
			rt.Schedule = model.RoutineSchedule{Type: model.ScheduleCustom}
		}, errors.ScheduleDaysInvalid},
		{"day out of range", func(rt *model.Routine) {
			rt.Schedule = model.RoutineSchedule{Type: model.ScheduleWeekly, Days: []int{7}}
		}, errors.ScheduleDaysInvalid},
		{"unknown schedule type", func(rt *model.Routine) {
			rt.Schedule = model.RoutineSchedule{Type: "hourly"}
		}, errors.ScheduleDaysInvalid},
		{"bad timezone", func(rt *model.Routine) { rt.Timezone = "Nowhere/Nope" }, errors.TimezoneInvalid},
		{"empty step title", func(rt *model.Routine) { rt.Steps[0].Title = "" }, errors.RoutineStepInvalid},
		{"bad step time", func(rt *model.Routine) { rt.Steps[0].Time = "7am" }, errors.RoutineStepInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := validRoutine()
			tt.mutate(rt)

			err := validateRoutine(rt)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err != tt.wantErr {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
