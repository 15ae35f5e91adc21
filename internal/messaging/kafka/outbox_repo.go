package kafka

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const (
	OutboxStatusPending = "pending"
	OutboxStatusSent    = "sent"
	OutboxStatusFailed  = "failed"
	// dead rows exhausted their attempts and are left for manual replay
	OutboxStatusDead = "dead"
)

const (
	outboxTable = "declaration_outbox_events"

	MaxOutboxAttempts = 10
	maxErrorLength    = 500
)

// OutboxRecord is the table layout of the outbox, used for migrations only.
// Reads and writes go through database/sql so they can join the caller's tx.
type OutboxRecord struct {
	ID            string  `gorm:"type:uuid;primaryKey"`
	RequestID     string  `gorm:"type:varchar(64)"`
	AggregateType string  `gorm:"type:varchar(50);not null"`
	AggregateID   string  `gorm:"type:uuid;not null;index"`
	EventType     string  `gorm:"type:varchar(100);not null"`
	Topic         string  `gorm:"type:varchar(150);not null"`
	Payload       []byte  `gorm:"type:jsonb;not null"`
	Status        string  `gorm:"type:varchar(20);not null;default:'pending';index:idx_outbox_status_created,priority:1"`
	RetryCount    int     `gorm:"not null;default:0"`
	ErrorMessage  *string `gorm:"type:text"`
	NextRetryAt   *time.Time
	ProcessedAt   *time.Time
	CreatedAt     time.Time `gorm:"not null;default:now();index:idx_outbox_status_created,priority:2"`
	UpdatedAt     time.Time `gorm:"not null;default:now()"`
}

func (OutboxRecord) TableName() string {
	return outboxTable
}

type OutboxEvent struct {
	ID            string
	RequestID     string
	AggregateType string
	AggregateID   string
	EventType     string
	Topic         string
	Payload       []byte
	Status        string
	RetryCount    int
	NextRetryAt   time.Time
}

func (e OutboxEvent) Validate() error {
	if e.ID == "" {
		return errors.New("outbox id is required")
	}
	if e.AggregateID == "" {
		return errors.New("outbox aggregate id is required")
	}
	if e.Topic == "" {
		return errors.New("outbox topic is required")
	}
	if len(e.Payload) == 0 {
		return errors.New("outbox payload is required")
	}
	if e.Status != OutboxStatusPending {
		return fmt.Errorf("new outbox events must be %s, got %q", OutboxStatusPending, e.Status)
	}
	return nil
}

//go:generate mockgen -source=outbox_repo.go -destination=mock/outbox_repo_mock.go -package=mock

type OutboxRepository interface {
	WithTx(tx *sql.Tx) OutboxRepository
	Create(ctx context.Context, event OutboxEvent) error
	ListPending(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, reason string) error
}

type execQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type outboxRepository struct {
	db *sql.DB
	q  execQuerier
}

func NewOutboxRepository(db *sql.DB) OutboxRepository {
	return &outboxRepository{db: db, q: db}
}

func (r *outboxRepository) WithTx(tx *sql.Tx) OutboxRepository {
	if tx == nil {
		return r
	}
	return &outboxRepository{db: r.db, q: tx}
}

func (r *outboxRepository) Create(ctx context.Context, event OutboxEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO `+outboxTable+` (id, request_id, aggregate_type, aggregate_id, event_type, topic, payload, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		event.ID, event.RequestID, event.AggregateType, event.AggregateID,
		event.EventType, event.Topic, event.Payload, event.Status,
	)
	return err
}

// ListPending returns due rows oldest first. Rows of one declaration keep
// their insert order, which the consumer relies on: a row waits while an
// older row of its declaration is still unsent, dead rows included.
func (r *outboxRepository) ListPending(ctx context.Context, limit int) ([]OutboxEvent, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT o.id::text, COALESCE(o.request_id, ''), o.aggregate_type, o.aggregate_id::text, o.event_type, o.topic, o.payload, o.status, o.retry_count,
	COALESCE(o.next_retry_at, o.created_at)
FROM `+outboxTable+` AS o
WHERE o.status IN ($1, $2)
	AND (o.next_retry_at IS NULL OR o.next_retry_at <= NOW())
	AND NOT EXISTS (
		SELECT 1 FROM `+outboxTable+` AS prior
		WHERE prior.aggregate_id = o.aggregate_id
			AND prior.status <> $4
			AND prior.created_at < o.created_at
	)
ORDER BY o.created_at ASC
LIMIT $3`,
		OutboxStatusPending, OutboxStatusFailed, limit, OutboxStatusSent,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]OutboxEvent, 0, limit)
	for rows.Next() {
		var e OutboxEvent
		if err := rows.Scan(
			&e.ID, &e.RequestID, &e.AggregateType, &e.AggregateID, &e.EventType,
			&e.Topic, &e.Payload, &e.Status, &e.RetryCount, &e.NextRetryAt,
		); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *outboxRepository) MarkSent(ctx context.Context, id string) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE `+outboxTable+`
SET status = $2, processed_at = NOW(), error_message = NULL, updated_at = NOW()
WHERE id = $1`,
		id, OutboxStatusSent,
	)
	return err
}

// MarkFailed schedules the next attempt with a doubling delay capped at 15
// minutes. After MaxOutboxAttempts the row is marked dead.
func (r *outboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	if len(reason) > maxErrorLength {
		reason = reason[:maxErrorLength]
	}
	_, err := r.q.ExecContext(ctx,
		`UPDATE `+outboxTable+`
SET status = CASE WHEN retry_count + 1 >= $4 THEN $5 ELSE $2 END,
	retry_count = retry_count + 1,
	error_message = $3,
	next_retry_at = NOW() + LEAST(POWER(2, retry_count) * INTERVAL '5 seconds', INTERVAL '15 minutes'),
	updated_at = NOW()
WHERE id = $1`,
		id, OutboxStatusFailed, reason, MaxOutboxAttempts, OutboxStatusDead,
	)
	return err
}
