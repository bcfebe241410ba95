package messaging

import (
	"context"
	"encoding/json"
	"log/slog"

	"parkshare/internal/usecase/shared"
)

// LogPublisher writes envelopes to the application log. It stands in for Kafka
// when no brokers are configured.
type LogPublisher struct {
	logger *slog.Logger
}

var _ shared.EventPublisher = (*LogPublisher)(nil)

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, key string, value []byte) error {
	p.logger.InfoContext(ctx, "event published", "key", key, "envelope", json.RawMessage(value))
	return nil
}
