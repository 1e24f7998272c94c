package service

import (
	"context"
	"log/slog"

	"github.com/whatsapp-ledger-assistant/internal/domain/chat"
	"github.com/whatsapp-ledger-assistant/internal/platform/messaging/producers"
)

// WebhookServiceImpl implements the WebhookService interface
type WebhookServiceImpl struct {
	producer producers.MessagePublisher
	logger   *slog.Logger
}

// NewWebhookService creates a new webhook ingestion service
func NewWebhookService(logger *slog.Logger, producer producers.MessagePublisher) WebhookService {
	return &WebhookServiceImpl{
		producer: producer,
		logger:   logger,
	}
}

// IngestMessage publishes the message to the inbound topic, keyed by the
// sender's phone number so one user's messages stay on one partition.
func (s *WebhookServiceImpl) IngestMessage(ctx context.Context, msg *chat.InboundMessage) error {
	if err := s.producer.Publish(ctx, msg.From, msg); err != nil {
		s.logger.Error("Failed to publish inbound message",
			"message_id", msg.MessageID,
			"from", msg.From,
			"error", err,
		)
		return err
	}

	s.logger.Info("Inbound message queued",
		"message_id", msg.MessageID,
		"from", msg.From,
		"correlation_id", msg.CorrelationID,
	)
	return nil
}
