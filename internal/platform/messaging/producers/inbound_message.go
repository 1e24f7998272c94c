package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/whatsapp-ledger-assistant/internal/config"
)

// InboundMessageProducer publishes inbound chat messages from the webhook to
// the processing topic. Messages are keyed by the sender's phone number so
// that one user's messages always land on the same partition, preserving
// their order.
type InboundMessageProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// Creates a new webhook producer and ensures topic exists
func NewInboundMessageProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*InboundMessageProducer, error) {
	if cfg.InboundTopic == "" {
		return nil, fmt.Errorf("kafka inbound topic is not configured")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for webhook producer: %w", err)
	}
	defer conn.Close()

	err = createKafkaTopicIfNotExists(conn, cfg.InboundTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure inbound topic %s exists for webhook producer: %w", cfg.InboundTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.InboundTopic,
		Balancer:     &kafka.Hash{}, // Keyed partitioning keeps per-user ordering
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		WriteTimeout: cfg.MaxWait,
	}

	return &InboundMessageProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.InboundTopic,
	}, nil
}

func (p *InboundMessageProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal message value for webhook producer: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish message via webhook producer",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish message to %s via webhook producer: %w", p.topic, err)
	}

	p.logger.Debug("Published message via webhook producer",
		"topic", p.topic,
		"key", key,
	)
	return nil
}

func (p *InboundMessageProducer) Close() error {
	p.logger.Info("Closing webhook Kafka message producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close webhook kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
