package pgquery

import (
	"context"
	"time"

	"parkshare/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const appendOutboxEvent = `
INSERT INTO outbox_events (id, aggregate_id, event_type, payload, occurred_at, next_attempt_at)
VALUES ($1, $2, $3, $4, $5, $5)`

func (q *Queries) AppendOutboxEvent(ctx context.Context, db db.DBTX, arg OutboxEvent) error {
	_, err := db.Exec(ctx, appendOutboxEvent, arg.ID, arg.AggregateID, arg.EventType, arg.Payload, arg.OccurredAt)
	return err
}

const claimOutboxEvents = `
SELECT id, aggregate_id, event_type, payload, occurred_at, attempts
FROM outbox_events
WHERE sent_at IS NULL AND next_attempt_at <= $1
ORDER BY occurred_at, id
LIMIT $2
FOR UPDATE SKIP LOCKED`

func (q *Queries) ClaimOutboxEvents(ctx context.Context, db db.DBTX, now time.Time, limit int32) ([]OutboxEvent, error) {
	rows, err := db.Query(ctx, claimOutboxEvents, now, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (OutboxEvent, error) {
		var e OutboxEvent
		err := row.Scan(&e.ID, &e.AggregateID, &e.EventType, &e.Payload, &e.OccurredAt, &e.Attempts)
		return e, err
	})
}

const markOutboxSent = `UPDATE outbox_events SET sent_at = $2, attempts = attempts + 1, last_error = NULL WHERE id = $1`

func (q *Queries) MarkOutboxSent(ctx context.Context, db db.DBTX, id uuid.UUID, at time.Time) error {
	_, err := db.Exec(ctx, markOutboxSent, id, at)
	return err
}

const markOutboxFailed = `
UPDATE outbox_events
SET attempts = attempts + 1, next_attempt_at = $2, last_error = $3
WHERE id = $1`

func (q *Queries) MarkOutboxFailed(ctx context.Context, db db.DBTX, id uuid.UUID, nextAttemptAt time.Time, lastErr string) error {
	_, err := db.Exec(ctx, markOutboxFailed, id, nextAttemptAt, lastErr)
	return err
}
