package chat

import "time"

// InboundMessage defines a queue message for one received chat message.
// The webhook publishes one of these per user message; the processor
// consumes it and runs the full pipeline exactly once.
type InboundMessage struct {
	MessageID     string    `json:"message_id"`     // Provider message id (wamid)
	From          string    `json:"from"`           // Sender phone number, e.g. "918086195819"
	Text          string    `json:"text"`           // Raw message body, untrusted
	CorrelationID string    `json:"correlation_id"`
	ReceivedAt    time.Time `json:"received_at"`
}
