package storage

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

type RetryConfig struct {
	MaxTries        uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxTries:        3,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     2 * time.Second,
	}
}

// Retrying wraps an ObjectStorage with bounded exponential backoff.
// Errors wrapping ErrRejected are returned on the first attempt.
type Retrying struct {
	next   ObjectStorage
	cfg    RetryConfig
	logger *zap.Logger
}

func NewRetrying(next ObjectStorage, cfg RetryConfig, logger ...*zap.Logger) *Retrying {
	l := zap.L().Named("storage.retry")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("storage.retry")
	}
	if cfg.MaxTries == 0 {
		cfg.MaxTries = 1
	}
	return &Retrying{next: next, cfg: cfg, logger: l}
}

// Store fixes the object key before the first attempt so every retry
// targets the same object.
func (r *Retrying) Store(ctx context.Context, obj Object) (StoredObject, error) {
	if obj.Key == "" {
		obj.Key = KeyFor(obj.Filename)
	}
	return backoff.Retry(ctx, func() (StoredObject, error) {
		out, err := r.next.Store(ctx, obj)
		if err != nil && errors.Is(err, ErrRejected) {
			return StoredObject{}, backoff.Permanent(err)
		}
		return out, err
	}, r.options("store", obj.Filename)...)
}

func (r *Retrying) Delete(ctx context.Context, storedID string) error {
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := r.next.Delete(ctx, storedID)
		if err != nil && errors.Is(err, ErrRejected) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}, r.options("delete", storedID)...)
	return err
}

func (r *Retrying) options(op, subject string) []backoff.RetryOption {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.cfg.InitialInterval
	if r.cfg.MaxInterval > 0 {
		b.MaxInterval = r.cfg.MaxInterval
	}

	return []backoff.RetryOption{
		backoff.WithBackOff(b),
		backoff.WithMaxTries(r.cfg.MaxTries),
		backoff.WithNotify(func(err error, next time.Duration) {
			r.logger.Warn("object storage call failed, retrying",
				zap.String("op", op),
				zap.String("subject", subject),
				zap.Duration("next_attempt_in", next),
				zap.Error(err),
			)
		}),
	}
}
