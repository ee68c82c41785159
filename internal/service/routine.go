package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"Remindly/internal/model"
	"Remindly/internal/model/dto"
	"Remindly/internal/notifyqueue"
	"Remindly/internal/repository"
	"Remindly/internal/routine"
	"Remindly/pkg/errors"
	"Remindly/pkg/snowflake"
)

type RoutineService struct {
	routines   *repository.RoutineRepository
	generator  *routine.Generator
	maintainer *notifyqueue.Maintainer
	log        *zap.Logger
}

func NewRoutineService(
	routines *repository.RoutineRepository,
	generator *routine.Generator,
	maintainer *notifyqueue.Maintainer,
	log *zap.Logger,
) *RoutineService {
	return &RoutineService{routines: routines, generator: generator, maintainer: maintainer, log: log}
}

func (s *RoutineService) Create(ctx context.Context, ownerID string, req dto.CreateRoutineRequest) (*dto.RoutineItem, error) {
	if ownerID == "" {
		return nil, errors.OwnerMissing
	}

	tz := req.Timezone
	if tz == "" {
		tz = "UTC"
	}

	rt := &model.Routine{
		OwnerID:  ownerID,
		Title:    req.Title,
		Active:   true,
		Timezone: tz,
		Steps:    req.Steps,
		Schedule: req.Schedule,
	}
	assignStepIDs(rt.Steps)

	if err := validateRoutine(rt); err != nil {
		return nil, err
	}

	id, err := snowflake.NextID()
	if err != nil {
		return nil, err
	}
	rt.ID = strconv.FormatInt(id, 10)

	if err := s.routines.Create(ctx, rt); err != nil {
		return nil, fmt.Errorf("create routine: %w", err)
	}

	// Materialize the first instances right away so a routine created mid-day
	// still fires today. RunOne also syncs each instance's queue entries.
	if err := s.generator.RunOne(ctx, rt, time.Now()); err != nil {
		s.log.Error("initial routine expansion failed",
			zap.String("routine_id", rt.ID), zap.Error(err))
		return nil, err
	}

	return dto.NewRoutineItem(rt), nil
}

func (s *RoutineService) Update(ctx context.Context, ownerID, id string, req dto.UpdateRoutineRequest) (*dto.RoutineItem, error) {
	rt, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		rt.Title = *req.Title
	}
	if req.Timezone != nil {
		rt.Timezone = *req.Timezone
	}
	if req.Steps != nil {
		rt.Steps = *req.Steps
		assignStepIDs(rt.Steps)
	}
	if req.Schedule != nil {
		rt.Schedule = *req.Schedule
	}

	if err := validateRoutine(rt); err != nil {
		return nil, err
	}

	if err := s.routines.Save(ctx, rt); err != nil {
		return nil, fmt.Errorf("update routine: %w", err)
	}

	// Template changed: drop future pending instances and their queue
	// entries, then regenerate from the new definition.
	now := time.Now()
	if err := s.maintainer.RemoveRoutine(ctx, rt.ID, now); err != nil {
		return nil, err
	}
	if err := s.generator.RunOne(ctx, rt, now); err != nil {
		return nil, err
	}

	return dto.NewRoutineItem(rt), nil
}

func (s *RoutineService) Get(ctx context.Context, ownerID, id string) (*dto.RoutineItem, error) {
	rt, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return dto.NewRoutineItem(rt), nil
}

func (s *RoutineService) List(ctx context.Context, ownerID string) ([]*dto.RoutineItem, error) {
	if ownerID == "" {
		return nil, errors.OwnerMissing
	}
	routines, err := s.routines.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list routines: %w", err)
	}
	items := make([]*dto.RoutineItem, 0, len(routines))
	for _, rt := range routines {
		items = append(items, dto.NewRoutineItem(rt))
	}
	return items, nil
}

// SetActive toggles a routine. Deactivating cascades: future pending
// instances and their unsent queue entries disappear, history stays.
func (s *RoutineService) SetActive(ctx context.Context, ownerID, id string, active bool) (*dto.RoutineItem, error) {
	rt, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if rt.Active == active {
		return dto.NewRoutineItem(rt), nil
	}

	if err := s.routines.SetActive(ctx, id, active); err != nil {
		return nil, fmt.Errorf("toggle routine: %w", err)
	}
	rt.Active = active

	now := time.Now()
	if active {
		if err := s.generator.RunOne(ctx, rt, now); err != nil {
			return nil, err
		}
	} else {
		if err := s.maintainer.RemoveRoutine(ctx, id, now); err != nil {
			return nil, err
		}
	}
	return dto.NewRoutineItem(rt), nil
}

func (s *RoutineService) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.getOwned(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.maintainer.RemoveRoutine(ctx, id, time.Now()); err != nil {
		return err
	}
	if err := s.routines.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete routine: %w", err)
	}
	return nil
}

// RunCatchUp is the periodic sweep that keeps routine instances materialized
// ahead of time for every active routine.
func (s *RoutineService) RunCatchUp(ctx context.Context, now time.Time) error {
	return s.generator.RunAll(ctx, now)
}

func (s *RoutineService) getOwned(ctx context.Context, ownerID, id string) (*model.Routine, error) {
	if ownerID == "" {
		return nil, errors.OwnerMissing
	}
	rt, err := s.routines.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.RoutineNotFound
		}
		return nil, fmt.Errorf("load routine: %w", err)
	}
	if rt.OwnerID != ownerID {
		return nil, errors.RoutineNotFound
	}
	return rt, nil
}

func validateRoutine(rt *model.Routine) error {
	if rt.Title == "" || len(rt.Steps) == 0 {
		return errors.RoutineStepInvalid
	}
	if _, err := time.LoadLocation(rt.Timezone); err != nil {
		return errors.TimezoneInvalid
	}
	if err := rt.Schedule.Validate(); err != nil {
		return err
	}
	for _, step := range rt.Steps {
		if step.Title == "" {
			return errors.RoutineStepInvalid
		}
		if _, err := time.Parse("15:04", step.Time); err != nil {
			return errors.RoutineStepInvalid
		}
		for _, setting := range step.Notifications {
			if setting.OffsetMinutes < 0 {
				return errors.OffsetInvalid
			}
			if !setting.ChannelSpec.Valid() {
				return errors.ChannelSpecInvalid
			}
		}
	}
	return nil
}

// assignStepIDs keys steps that arrived without an id. Step ids feed the
// deterministic instance ids, so they must be stable once assigned.
func assignStepIDs(steps model.RoutineSteps) {
	for i := range steps {
		if steps[i].ID == "" {
			steps[i].ID = uuid.NewString()
		}
	}
}
