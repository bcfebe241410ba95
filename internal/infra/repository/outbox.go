package repository

import (
	"context"
	"time"

	"parkshare/internal/infra"
	"parkshare/internal/infra/db"
	"parkshare/internal/infra/pgquery"
	"parkshare/internal/usecase/shared"

	"github.com/google/uuid"
)

type OutboxWriteQueries interface {
	AppendOutboxEvent(ctx context.Context, db db.DBTX, arg pgquery.OutboxEvent) error
	ClaimOutboxEvents(ctx context.Context, db db.DBTX, now time.Time, limit int32) ([]pgquery.OutboxEvent, error)
	MarkOutboxSent(ctx context.Context, db db.DBTX, id uuid.UUID, at time.Time) error
	MarkOutboxFailed(ctx context.Context, db db.DBTX, id uuid.UUID, nextAttemptAt time.Time, lastErr string) error
}

type OutboxRepository struct {
	queries OutboxWriteQueries
	db      db.DBTX
}

func NewOutboxRepository(queries OutboxWriteQueries, db db.DBTX) *OutboxRepository {
	return &OutboxRepository{
		queries: queries,
		db:      db,
	}
}

func (r *OutboxRepository) Append(ctx context.Context, e shared.Event) error {
	err := r.queries.AppendOutboxEvent(ctx, r.db, pgquery.OutboxEvent{
		ID:          e.ID,
		AggregateID: e.AggregateID,
		EventType:   e.Type,
		Payload:     e.Payload,
		OccurredAt:  e.OccurredAt,
	})
	if err != nil {
		return infra.WrapRepoErr("failed to append outbox event", err)
	}
	return nil
}

func (r *OutboxRepository) ClaimBatch(ctx context.Context, now time.Time, limit int) ([]shared.OutboxRecord, error) {
	// #nosec G115 -- batch sizes come from config and are small
	rows, err := r.queries.ClaimOutboxEvents(ctx, r.db, now, int32(limit))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim outbox events", err)
	}

	records := make([]shared.OutboxRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, shared.OutboxRecord{
			Event: shared.Event{
				ID:          row.ID,
				AggregateID: row.AggregateID,
				Type:        row.EventType,
				Payload:     row.Payload,
				OccurredAt:  row.OccurredAt.UTC(),
			},
			Attempts: int(row.Attempts),
		})
	}
	return records, nil
}

func (r *OutboxRepository) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	if err := r.queries.MarkOutboxSent(ctx, r.db, id, at); err != nil {
		return infra.WrapRepoErr("failed to mark outbox event sent", err)
	}
	return nil
}

func (r *OutboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, nextAttemptAt time.Time, lastErr string) error {
	if err := r.queries.MarkOutboxFailed(ctx, r.db, id, nextAttemptAt, lastErr); err != nil {
		return infra.WrapRepoErr("failed to record outbox failure", err)
	}
	return nil
}
