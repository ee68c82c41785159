package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"Remindly/config"
	"Remindly/internal/cache"
	"Remindly/internal/notifyqueue"
	"Remindly/internal/queue"
	"Remindly/internal/repository"
	"Remindly/internal/routine"
	"Remindly/internal/schedule"
	"Remindly/internal/service"
	"Remindly/pkg/logger"
	"Remindly/pkg/metrics"
	"Remindly/pkg/otel"
	"Remindly/pkg/snowflake"
	"Remindly/storage/database"
	"Remindly/storage/mq"
	"Remindly/storage/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger.Init(cfg)
	defer logger.Sync()
	log := logger.Logger

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Info("Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	if cfg.OTelEnabled {
		shutdown, err := otel.InitOpenTelemetry(ctx, otel.Config{
			ServiceName:  cfg.ServiceName + "-scheduler",
			Environment:  cfg.Environment,
			OTLPEndpoint: cfg.OTLPEndpoint,
			SampleRatio:  cfg.SampleRatio,
		})
		if err != nil {
			log.Fatal("Failed to initialize OpenTelemetry", zap.Error(err))
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				log.Error("OpenTelemetry shutdown failed", zap.Error(err))
			}
		}()
	}

	if err := snowflake.Init(cfg.SnowflakeMachineID, cfg.SnowflakeDataCenter); err != nil {
		log.Fatal("Failed to initialize snowflake", zap.Error(err))
	}

	db, err := database.Open(cfg, log)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer database.Close(context.Background(), db)

	rdb, err := redis.New(cfg)
	if err != nil {
		log.Fatal("Failed to connect redis", zap.Error(err))
	}
	defer rdb.Close(context.Background())

	mqClient, err := mq.New(cfg, log)
	if err != nil {
		log.Fatal("Failed to connect rabbitmq", zap.Error(err))
	}
	defer mqClient.Close(context.Background())

	qm, err := metrics.NewQueueMetrics()
	if err != nil {
		log.Fatal("Failed to register metrics", zap.Error(err))
	}

	reminderRepo := repository.NewReminderRepository(db)
	routineRepo := repository.NewRoutineRepository(db)
	queueRepo := repository.NewQueueRepository(db, cfg.QueueBatchSize)

	locks := cache.NewLocks(rdb)
	maintainer := notifyqueue.NewMaintainer(reminderRepo, queueRepo, locks, qm, log,
		cfg.QueueHorizonHours, cfg.RebuildOwnerWorkers)
	reader := notifyqueue.NewReader(queueRepo, cfg.QueueLateWindowMins, cfg.QueueDispatchMaxItems)
	generator := routine.NewGenerator(routineRepo, reminderRepo, maintainer, log)
	producer := queue.NewProducer(mqClient, log)

	routineSvc := service.NewRoutineService(routineRepo, generator, maintainer, log)
	generationSvc := service.NewGenerationService(reminderRepo, maintainer, log)
	dispatchSvc := service.NewDispatchService(reader, producer, log)

	scheduler := schedule.New(cfg, maintainer, routineSvc, generationSvc, dispatchSvc, log)
	if err := scheduler.Start(); err != nil {
		log.Fatal("Failed to start scheduler", zap.Error(err))
	}

	log.Info("Scheduler service started",
		zap.String("service", cfg.ServiceName+"-scheduler"),
		zap.String("environment", cfg.Environment))

	<-ctx.Done()
	scheduler.Stop()

	log.Info("Scheduler shutting down gracefully")
}
