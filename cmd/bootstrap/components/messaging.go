package components

import (
	"context"
	"log/slog"

	"parkshare/internal/infra/messaging"
	"parkshare/internal/pkg/config"
	"parkshare/internal/usecase/shared"

	"go.uber.org/fx"
)

var MessagingModule = fx.Module("messaging",
	fx.Provide(
		NewEventPublisher,
	),
)

// NewEventPublisher picks Kafka when brokers are configured and the log otherwise.
func NewEventPublisher(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (shared.EventPublisher, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		logger.Warn("no kafka brokers configured, events go to the log")
		return messaging.NewLogPublisher(logger), nil
	}

	writer, err := messaging.NewKafkaWriter(cfg.Kafka, logger)
	if err != nil {
		return nil, err
	}
	publisher := messaging.NewKafkaPublisher(writer)
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return publisher.Close()
		},
	})
	logger.Info("publishing events to kafka", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	return publisher, nil
}
