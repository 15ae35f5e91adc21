package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"go-hrportal/internal/messaging/kafka"
	"go-hrportal/internal/messaging/kafka/producer"
	"go-hrportal/internal/shared/connection"

	"go.uber.org/zap"
)

const outboxPollInterval = 3 * time.Second

// RunWorker relays queued declaration lifecycle events to Kafka.
func RunWorker() error {
	logger := zap.L().Named("app.worker")

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	gormDB, err := connection.ConnectGORMWithRetry(cfg.DB, connectRetries)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, connectRetries)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	producer.ProcessOutboxEvents(ctx, outboxRepo, kafkaWriter, logger, outboxPollInterval)

	logger.Info("worker stopped")
	return nil
}
