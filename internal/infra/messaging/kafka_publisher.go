// Package messaging delivers outbox envelopes to the event stream.
package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"parkshare/internal/pkg/config"
	"parkshare/internal/pkg/errs"
	"parkshare/internal/usecase/shared"

	"github.com/segmentio/kafka-go"
)

var (
	ErrPublisherClosed = errs.New("publisher is closed")
	ErrNoBrokers       = errs.New("at least one kafka broker is required")
	ErrEmptyTopic      = errs.New("kafka topic cannot be empty")
)

// MessageWriter is the part of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer MessageWriter
	closed bool
	mu     sync.RWMutex
}

var _ shared.EventPublisher = (*KafkaPublisher)(nil)

func NewKafkaWriter(cfg config.KafkaConfig, logger *slog.Logger) (*kafka.Writer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrNoBrokers
	}
	if cfg.Topic == "" {
		return nil, ErrEmptyTopic
	}

	return &kafka.Writer{
		Addr:  kafka.TCP(cfg.Brokers...),
		Topic: cfg.Topic,
		// per-reservation ordering
		Balancer:     &kafka.Hash{},
		RequiredAcks: requiredAcks(cfg.RequiredAcks),
		MaxAttempts:  cfg.MaxAttempts,
		WriteTimeout: cfg.WriteTimeout,
		Logger: kafka.LoggerFunc(func(msg string, args ...any) {
			logger.Debug("kafka writer", "detail", fmt.Sprintf(msg, args...))
		}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			logger.Warn("kafka writer", "detail", fmt.Sprintf(msg, args...))
		}),
	}, nil
}

func requiredAcks(n int) kafka.RequiredAcks {
	switch n {
	case 0:
		return kafka.RequireNone
	case 1:
		return kafka.RequireOne
	default:
		return kafka.RequireAll
	}
}

func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, key string, value []byte) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte("application/cloudevents+json")},
		},
	})
	if err != nil {
		return errs.Wrapf(err, "publish %s", key)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.writer.Close()
}
