package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	declarationerrors "go-hrportal/internal/declaration/errors"
	"go-hrportal/internal/events"

	"github.com/cenkalti/backoff/v5"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	statusApproved = "Approved"

	// archiveRetryWindow bounds the in-place retries of one message before
	// the consumer gives up on it and moves on.
	archiveRetryWindow = 30 * time.Minute
)

// archiveBackOff is the delay policy between in-place archive attempts.
var archiveBackOff = func() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.MaxInterval = time.Minute
	return b
}

// MessageReader is the part of *kafkago.Reader the consumers use.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type Form12BBArchiver interface {
	ArchiveForm12BB(ctx context.Context, declarationID string) (string, error)
}

// ConsumeDeclarationLifecycle archives the Form 12BB of every declaration
// that reaches Approved or is corrected while Approved. Offsets are committed
// in order, so a failing archive is retried in place with backoff before the
// next message is fetched. A message is committed once handled, once it can
// never succeed, or once archiveRetryWindow has passed. When ctx ends during
// retries the message stays uncommitted and is redelivered on restart.
func ConsumeDeclarationLifecycle(
	ctx context.Context,
	reader MessageReader,
	archiver Form12BBArchiver,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.declaration_lifecycle")
	log.Info("declaration lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("declaration lifecycle consumer stopped")
				return
			}
			log.Error("fetch declaration lifecycle message failed", zap.Error(err))
			continue
		}

		if !handleLifecycleMessage(ctx, msg, archiver, log) {
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit declaration lifecycle message failed", zap.Error(err))
		}
	}
}

// handleLifecycleMessage reports whether msg should be committed.
func handleLifecycleMessage(ctx context.Context, msg kafkago.Message, archiver Form12BBArchiver, log *zap.Logger) bool {
	var event events.DeclarationStatusChangedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("decode declaration lifecycle event failed", zap.Error(err))
		return true
	}

	if !archivable(event) {
		return true
	}

	attempt := 0
	url, err := backoff.Retry(ctx, func() (string, error) {
		attempt++
		url, err := archiver.ArchiveForm12BB(ctx, event.DeclarationID)
		if err != nil && isStale(err) {
			return "", backoff.Permanent(err)
		}
		return url, err
	},
		backoff.WithBackOff(archiveBackOff()),
		backoff.WithMaxElapsedTime(archiveRetryWindow),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Warn("archive form 12BB failed, retrying",
				zap.String("declaration_id", event.DeclarationID),
				zap.Int("attempt", attempt),
				zap.Duration("next_attempt_in", next),
				zap.Error(err),
			)
		}),
	)
	switch {
	case err == nil:
	case isStale(err):
		log.Warn("declaration no longer approved, skipping archive",
			zap.String("declaration_id", event.DeclarationID),
			zap.Error(err),
		)
		return true
	case ctx.Err() != nil:
		return false
	default:
		log.Error("archive form 12BB abandoned",
			zap.String("declaration_id", event.DeclarationID),
			zap.Int("attempts", attempt),
			zap.Error(err),
		)
		return true
	}

	log.Info("form 12BB archived from lifecycle event",
		zap.String("declaration_id", event.DeclarationID),
		zap.String("event_type", event.EventType),
		zap.String("url", url),
	)
	return true
}

func archivable(e events.DeclarationStatusChangedEvent) bool {
	switch e.EventType {
	case events.DeclarationStatusChanged, events.DeclarationCorrected:
		return e.ToStatus == statusApproved
	default:
		return false
	}
}

// isStale reports errors that retrying cannot fix because the declaration
// is gone or no longer approved.
func isStale(err error) bool {
	return errors.Is(err, declarationerrors.ErrDeclarationNotFound) ||
		errors.Is(err, declarationerrors.ErrInvalidDeclarationID) ||
		errors.Is(err, declarationerrors.ErrInvalidStatusTransition)
}
