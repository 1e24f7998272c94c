package messagelog

import "time"

// Status describes how a message's pipeline run ended.
type Status string

const (
	StatusProcessed Status = "PROCESSED"
	StatusFailed    Status = "FAILED"
)

// Record is the audit trail for one processed inbound message. It is written
// after the reply has been sent (or the failure handled) and is best-effort:
// losing an audit record must never fail a user reply.
type Record struct {
	MessageID     string    `bson:"message_id" json:"message_id"`
	CorrelationID string    `bson:"correlation_id" json:"correlation_id"`
	UserID        int64     `bson:"user_id" json:"user_id"`
	PhoneNumber   string    `bson:"phone_number" json:"phone_number"`
	Intent        string    `bson:"intent" json:"intent"`
	Status        Status    `bson:"status" json:"status"`
	Reply         string    `bson:"reply" json:"reply"`
	FailureReason string    `bson:"failure_reason,omitempty" json:"failure_reason,omitempty"`
	ReceivedAt    time.Time `bson:"received_at" json:"received_at"`
	ProcessedAt   time.Time `bson:"processed_at" json:"processed_at"`
}
