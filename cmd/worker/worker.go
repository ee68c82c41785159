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
	"Remindly/internal/queue"
	"Remindly/internal/repository"
	"Remindly/pkg/email"
	"Remindly/pkg/logger"
	"Remindly/pkg/metrics"
	"Remindly/pkg/otel"
	"Remindly/pkg/push"
	"Remindly/pkg/sms"
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
			ServiceName:  cfg.ServiceName + "-worker",
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

	smsClient, err := sms.New(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize SMS client", zap.Error(err))
	}
	emailProv, err := email.New(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize email provider", zap.Error(err))
	}
	pushProv, err := push.New(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize push provider", zap.Error(err))
	}

	qm, err := metrics.NewQueueMetrics()
	if err != nil {
		log.Fatal("Failed to register metrics", zap.Error(err))
	}

	consumer := queue.NewConsumer(
		cfg,
		mqClient,
		cache.NewMarks(rdb),
		repository.NewQueueRepository(db, cfg.QueueBatchSize),
		repository.NewReminderRepository(db),
		repository.NewContactRepository(db),
		repository.NewSubscriptionRepository(db),
		smsClient,
		emailProv,
		pushProv,
		qm,
		log,
	)

	log.Info("Worker service started",
		zap.String("service", cfg.ServiceName+"-worker"),
		zap.String("environment", cfg.Environment))

	errCh := consumer.Start(ctx)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			log.Error("Consumer loop exited", zap.Error(err))
		}
	}

	log.Info("Worker shutting down gracefully")
}
