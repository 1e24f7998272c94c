package pipeline

import (
	"context"

	"github.com/whatsapp-ledger-assistant/internal/domain/chat"
	"github.com/whatsapp-ledger-assistant/internal/domain/ledger"
	"github.com/whatsapp-ledger-assistant/internal/domain/messagelog"
	"github.com/whatsapp-ledger-assistant/internal/domain/user"
)

// IdentityResolver resolves a contact handle to a user, creating one on
// first contact.
type IdentityResolver interface {
	FindOrCreateByHandle(ctx context.Context, phoneNumber string) (*user.User, error)
}

// IntentClassifier classifies a raw message into a structured extraction
type IntentClassifier interface {
	Classify(ctx context.Context, message string) (*chat.Extraction, error)
}

// QuerySynthesizer produces a validated report query for a user's question
type QuerySynthesizer interface {
	Synthesize(ctx context.Context, question string, userID int64) (*chat.ReportQuery, error)
}

// LedgerStore is the persistence surface the pipeline needs: the atomic
// entry write and the parameterized report read.
type LedgerStore interface {
	CreateEntry(ctx context.Context, entry *ledger.Entry) (int64, error)
	ExecuteReport(ctx context.Context, query string, params []interface{}) ([]ledger.Row, error)
}

// ReplyComposer produces the oracle-written reply variants
type ReplyComposer interface {
	Narrate(ctx context.Context, question string, rows []ledger.Row) (string, error)
	Introduce(ctx context.Context, message string) (string, error)
}

// ReplySender delivers the final reply to the user
type ReplySender interface {
	SendText(ctx context.Context, to, text string) error
}

// AuditLog records how each message's pipeline run ended. Best-effort.
type AuditLog interface {
	Record(ctx context.Context, record *messagelog.Record) error
}
