package producer

import (
	"context"
	"time"

	"go-hrportal/internal/messaging/kafka"

	"go.uber.org/zap"
)

const batchSize = 50

// ProcessOutboxEvents relays pending outbox rows to Kafka every
// pollInterval until ctx is cancelled.
func ProcessOutboxEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
	pollInterval time.Duration,
) {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}

	log := logger.Named("kafka.producer.worker")
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	log.Info("outbox worker started", zap.Duration("poll_interval", pollInterval))

	for {
		select {
		case <-ctx.Done():
			log.Info("outbox worker stopped")
			return
		case <-ticker.C:
			if err := processPendingEvents(ctx, repo, writer, log); err != nil {
				log.Error("process outbox events failed", zap.Error(err))
			}
		}
	}
}

// processPendingEvents publishes one batch. Events of a declaration are
// published in order: once one fails, the rest of that declaration's events
// wait for the next round so the consumer never sees a later status first.
func processPendingEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
) error {
	events, err := repo.ListPending(ctx, batchSize)
	if err != nil {
		return err
	}

	if len(events) == 0 {
		return nil
	}

	logger.Info("processing pending outbox events", zap.Int("count", len(events)))

	held := make(map[string]struct{})
	for _, event := range events {
		fields := []zap.Field{
			zap.String("outbox_id", event.ID),
			zap.String("declaration_id", event.AggregateID),
			zap.String("event_type", event.EventType),
		}

		if _, blocked := held[event.AggregateID]; blocked {
			logger.Debug("outbox event held behind failed declaration event", fields...)
			continue
		}

		if err := publishEvent(ctx, writer, event); err != nil {
			held[event.AggregateID] = struct{}{}
			logger.Error("publish outbox event failed",
				append(fields, zap.String("topic", event.Topic), zap.Int("attempt", event.RetryCount+1), zap.Error(err))...,
			)
			if markErr := repo.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
				logger.Error("mark outbox failed failed", zap.String("outbox_id", event.ID), zap.Error(markErr))
				continue
			}
			if event.RetryCount+1 >= kafka.MaxOutboxAttempts {
				logger.Warn("outbox event dead, declaration events stalled until replay", fields...)
			}
			continue
		}

		if err := repo.MarkSent(ctx, event.ID); err != nil {
			logger.Error("mark outbox sent failed", append(fields, zap.Error(err))...)
			continue
		}

		logger.Info("outbox event sent", append(fields, zap.String("topic", event.Topic))...)
	}

	return nil
}
