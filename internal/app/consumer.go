package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"go-hrportal/internal/attachment"
	"go-hrportal/internal/declaration"
	"go-hrportal/internal/employee"
	"go-hrportal/internal/events"
	"go-hrportal/internal/messaging/kafka/consumer"
	"go-hrportal/internal/shared/connection"
	"go-hrportal/internal/storage"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const form12BBConsumerGroup = "go-hrportal-form12bb"

// RunConsumer archives the Form 12BB of approved declarations.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

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

	cloudinary, err := storage.NewCloudinary(cfg.CloudinaryURL, cfg.CloudinaryFolder, logger)
	if err != nil {
		return err
	}
	store := storage.NewRetrying(cloudinary, storage.DefaultRetryConfig(), logger)

	declarationService := declaration.NewService(
		sqlDB,
		declaration.NewRepository(gormDB),
		attachment.NewRepository(gormDB),
		employee.NewDirectory(employee.NewRepository(gormDB)),
		store,
		nil,
		nil,
		logger,
	)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.KafkaBroker},
		Topic:          events.DeclarationLifecycleTopic,
		GroupID:        form12BBConsumerGroup,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer.ConsumeDeclarationLifecycle(ctx, reader, declarationService, logger)

	logger.Info("consumer stopped")
	return nil
}
