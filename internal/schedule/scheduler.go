// Package schedule wires the periodic jobs: full queue rebuilds, routine and
// chain catch-up sweeps, and the dispatch poll.
package schedule

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"Remindly/config"
	"Remindly/internal/notifyqueue"
	"Remindly/internal/service"
)

const (
	sweepTimeout   = 2 * time.Minute
	rebuildTimeout = 10 * time.Minute
	sentRetention  = 7 * 24 * time.Hour
)

type Scheduler struct {
	engine *cron.Cron
	log    *zap.Logger

	maintainer *notifyqueue.Maintainer
	routines   *service.RoutineService
	generation *service.GenerationService
	dispatch   *service.DispatchService

	specFullRebuild    string
	specRoutineCatchUp string
	specChainCatchUp   string
	specDispatch       string
}

func New(
	cfg *config.Config,
	maintainer *notifyqueue.Maintainer,
	routines *service.RoutineService,
	generation *service.GenerationService,
	dispatch *service.DispatchService,
	log *zap.Logger,
) *Scheduler {
	return &Scheduler{
		engine:             cron.New(),
		log:                log,
		maintainer:         maintainer,
		routines:           routines,
		generation:         generation,
		dispatch:           dispatch,
		specFullRebuild:    cfg.CronFullRebuild,
		specRoutineCatchUp: cfg.CronRoutineCatchUp,
		specChainCatchUp:   cfg.CronChainCatchUp,
		specDispatch:       cfg.CronDispatch,
	}
}

// Start registers all jobs and launches the cron engine. Schedules come from
// config and are interpreted in UTC (the engine default).
func (s *Scheduler) Start() error {
	jobs := []struct {
		name string
		spec string
		run  func(ctx context.Context, now time.Time) error
		tmo  time.Duration
	}{
		{"full_rebuild", s.specFullRebuild, s.fullRebuild, rebuildTimeout},
		{"routine_catchup", s.specRoutineCatchUp, s.routines.RunCatchUp, sweepTimeout},
		{"chain_catchup", s.specChainCatchUp, s.generation.RunCatchUp, sweepTimeout},
		{"dispatch", s.specDispatch, s.dispatch.RunSweep, sweepTimeout},
	}

	for _, job := range jobs {
		job := job
		if _, err := s.engine.AddFunc(job.spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), job.tmo)
			defer cancel()

			if err := job.run(ctx, time.Now()); err != nil {
				s.log.Error("scheduled job failed",
					zap.String("job", job.name), zap.Error(err))
			}
		}); err != nil {
			return err
		}
		s.log.Info("scheduled job registered",
			zap.String("job", job.name), zap.String("spec", job.spec))
	}

	s.engine.Start()
	return nil
}

// fullRebuild is the nightly safety net: regenerate every owner's queue and
// prune old sent entries.
func (s *Scheduler) fullRebuild(ctx context.Context, now time.Time) error {
	if err := s.maintainer.RebuildAll(ctx, now); err != nil {
		return err
	}
	pruned, err := s.maintainer.PruneSent(ctx, now.Add(-sentRetention))
	if err != nil {
		return err
	}
	if pruned > 0 {
		s.log.Info("sent entries pruned", zap.Int64("count", pruned))
	}
	return nil
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.engine.Stop()
	<-ctx.Done()
	s.log.Info("scheduler stopped")
}
