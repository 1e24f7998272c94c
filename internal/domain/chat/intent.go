package chat

import "github.com/whatsapp-ledger-assistant/internal/domain/ledger"

// Intent classifies what a user message asks the assistant to do.
type Intent string

const (
	// IntentCreate means the user wants to record a new transaction.
	IntentCreate Intent = "CREATE"
	// IntentRead means the user is asking a question about their finances.
	IntentRead Intent = "READ"
	// IntentBoth means the message both records a transaction and asks a question.
	IntentBoth Intent = "BOTH"
	// IntentOther covers greetings and anything non-financial.
	IntentOther Intent = "OTHER"
)

// ParseIntent maps a raw tag from the classifier to a known Intent.
// The second return value reports whether the tag was recognized; callers
// decide how to handle unknown tags rather than letting them fall through.
func ParseIntent(raw string) (Intent, bool) {
	switch Intent(raw) {
	case IntentCreate, IntentRead, IntentBoth, IntentOther:
		return Intent(raw), true
	default:
		return IntentOther, false
	}
}

// HasWrite reports whether the intent carries a transaction to record.
func (i Intent) HasWrite() bool {
	return i == IntentCreate || i == IntentBoth
}

// HasRead reports whether the intent requires a report query.
func (i Intent) HasRead() bool {
	return i == IntentRead || i == IntentBoth
}

// TransactionPayload is the transaction proposed by the classifier for
// CREATE and BOTH intents. Amounts are never trusted as totals; the entry
// total is derived from the items at write time.
type TransactionPayload struct {
	Kind  ledger.Kind       `json:"type"`
	Items []ledger.LineItem `json:"items"`
}

// Extraction is the structured result of classifying one message.
type Extraction struct {
	Intent      Intent              `json:"intent"`
	Transaction *TransactionPayload `json:"transaction,omitempty"`
}
