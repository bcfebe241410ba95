package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"parkshare/internal/pkg/clock"
	"parkshare/internal/pkg/config"
	"parkshare/internal/pkg/errs"
	"parkshare/internal/usecase/shared"
)

const maxLastErrorLength = 500

var relayBackoff = []time.Duration{
	time.Second,
	5 * time.Second,
	30 * time.Second,
	2 * time.Minute,
	10 * time.Minute,
}

// OutboxRelay publishes committed outbox events. Delivery is at least once;
// consumers dedupe on the envelope id.
type OutboxRelay interface {
	Relay(ctx context.Context) (int, error)
}

// Envelope follows the CloudEvents 1.0 JSON format.
type Envelope struct {
	SpecVersion     string          `json:"specversion"`
	ID              string          `json:"id"`
	Type            string          `json:"type"`
	Source          string          `json:"source"`
	Subject         string          `json:"subject"`
	Time            time.Time       `json:"time"`
	DataContentType string          `json:"datacontenttype"`
	Data            json.RawMessage `json:"data"`
}

type outboxRelayImpl struct {
	uow       shared.UnitOfWork
	publisher shared.EventPublisher
	clock     clock.Clock
	source    string
	batchSize int
	logger    *slog.Logger
}

func NewOutboxRelay(uow shared.UnitOfWork, publisher shared.EventPublisher, clk clock.Clock, cfg config.Config, logger *slog.Logger) OutboxRelay {
	return &outboxRelayImpl{
		uow:       uow,
		publisher: publisher,
		clock:     clk,
		source:    cfg.Kafka.Source,
		batchSize: max(cfg.Worker.BatchSize, 1),
		logger:    logger,
	}
}

// Relay publishes one batch and returns how many events were sent.
func (r *outboxRelayImpl) Relay(ctx context.Context) (int, error) {
	sent := 0
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		sent = 0
		now := r.clock.Now()

		batch, err := tx.Outbox().ClaimBatch(ctx, now, r.batchSize)
		if err != nil {
			return err
		}

		for _, rec := range batch {
			if pubErr := r.publish(ctx, rec); pubErr != nil {
				next := now.Add(backoffFor(rec.Attempts))
				r.logger.WarnContext(ctx, "outbox publish failed",
					"event_id", rec.ID,
					"event_type", rec.Type,
					"attempts", rec.Attempts+1,
					"next_attempt_at", next,
					"error", pubErr.Error())
				if err := tx.Outbox().MarkFailed(ctx, rec.ID, next, truncate(pubErr.Error(), maxLastErrorLength)); err != nil {
					return err
				}
				continue
			}
			if err := tx.Outbox().MarkSent(ctx, rec.ID, now); err != nil {
				return err
			}
			sent++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return sent, nil
}

func (r *outboxRelayImpl) publish(ctx context.Context, rec shared.OutboxRecord) error {
	body, err := json.Marshal(Envelope{
		SpecVersion:     "1.0",
		ID:              rec.ID.String(),
		Type:            rec.Type + ".v1",
		Source:          r.source,
		Subject:         rec.AggregateID.String(),
		Time:            rec.OccurredAt,
		DataContentType: "application/json",
		Data:            rec.Payload,
	})
	if err != nil {
		return errs.Wrap(err, "encode envelope")
	}
	return r.publisher.Publish(ctx, rec.AggregateID.String(), body)
}

func backoffFor(attempts int) time.Duration {
	if attempts < len(relayBackoff) {
		return relayBackoff[attempts]
	}
	return relayBackoff[len(relayBackoff)-1]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
