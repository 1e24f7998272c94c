package service

import (
	"context"

	"github.com/whatsapp-ledger-assistant/internal/domain/chat"
)

// ProcessingService defines the interface for processing inbound messages.
type ProcessingService interface {
	ProcessMessage(ctx context.Context, msg *chat.InboundMessage) error
}

// MessageProcessor runs the pipeline for one message. It never returns an
// error: every failure is converted into a reply inside the pipeline.
type MessageProcessor interface {
	Process(ctx context.Context, msg *chat.InboundMessage)
}
