package service

import (
	"context"

	"github.com/whatsapp-ledger-assistant/internal/domain/chat"
	"github.com/whatsapp-ledger-assistant/internal/domain/messagelog"
)

// WebhookService defines the interface for ingesting inbound messages
type WebhookService interface {
	// IngestMessage hands one inbound message to the processing queue.
	// Messages from the same sender keep their relative order.
	IngestMessage(ctx context.Context, msg *chat.InboundMessage) error
}

// MessageHistoryService defines the interface for reading the audit trail
type MessageHistoryService interface {
	// GetMessagesByUserID retrieves a paginated list of processed messages
	// for a user. Returns records, total count, and any error.
	GetMessagesByUserID(ctx context.Context, userID int64, page, perPage int) ([]*messagelog.Record, int64, error)
}
