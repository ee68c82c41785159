package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	hertzconfig "github.com/cloudwego/hertz/pkg/common/config"
	"go.uber.org/zap"

	"Remindly/config"
	"Remindly/internal/cache"
	"Remindly/internal/handler"
	"Remindly/internal/middleware"
	"Remindly/internal/notifyqueue"
	"Remindly/internal/repository"
	"Remindly/internal/router"
	"Remindly/internal/routine"
	"Remindly/internal/service"
	"Remindly/pkg/logger"
	"Remindly/pkg/metrics"
	"Remindly/pkg/otel"
	"Remindly/pkg/snowflake"
	"Remindly/storage/database"
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
			ServiceName:  cfg.ServiceName,
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

	qm, err := metrics.NewQueueMetrics()
	if err != nil {
		log.Fatal("Failed to register metrics", zap.Error(err))
	}

	reminderRepo := repository.NewReminderRepository(db)
	routineRepo := repository.NewRoutineRepository(db)
	queueRepo := repository.NewQueueRepository(db, cfg.QueueBatchSize)
	contactRepo := repository.NewContactRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)

	locks := cache.NewLocks(rdb)
	maintainer := notifyqueue.NewMaintainer(reminderRepo, queueRepo, locks, qm, log,
		cfg.QueueHorizonHours, cfg.RebuildOwnerWorkers)
	reader := notifyqueue.NewReader(queueRepo, cfg.QueueLateWindowMins, cfg.QueueDispatchMaxItems)
	generator := routine.NewGenerator(routineRepo, reminderRepo, maintainer, log)

	handlers := router.Handlers{
		Reminders: handler.NewReminderHandler(service.NewReminderService(reminderRepo, maintainer, log,
			cfg.GenerationHorizonDays, cfg.GenerationMaxPerChain)),
		Routines:  handler.NewRoutineHandler(service.NewRoutineService(routineRepo, generator, maintainer, log)),
		Contacts:  handler.NewContactHandler(service.NewContactService(contactRepo, subRepo, log)),
		Queue:     handler.NewQueueHandler(reader, maintainer),
	}

	addr := net.JoinHostPort(cfg.ServerHost, cfg.ServerPort)

	serverOpts := []hertzconfig.Option{server.WithHostPorts(addr)}
	traceOpt, traceMW := middleware.Tracing()
	if cfg.OTelEnabled {
		serverOpts = append(serverOpts, traceOpt)
	} else {
		traceMW = nil
	}

	h := server.Default(serverOpts...)
	router.Register(h, handlers, traceMW, log)

	go func() {
		<-ctx.Done()
		log.Info("Initiating graceful shutdown...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.Shutdown(shutdownCtx); err != nil {
			log.Error("Failed to shutdown HTTP server", zap.Error(err))
		}
	}()

	log.Info("HTTP server listening",
		zap.String("addr", addr),
		zap.String("service", cfg.ServiceName),
		zap.String("environment", cfg.Environment))

	h.Spin()

	log.Info("Server shutting down gracefully")
}
