// Package extractor classifies inbound messages into intents and pulls out
// any transaction payload the message carries. The model output is treated
// as untrusted text; everything is re-parsed and re-validated here.
package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/whatsapp-ledger-assistant/internal/domain/chat"
	"github.com/whatsapp-ledger-assistant/internal/platform/oracle"
)

// Extractor turns one raw message into a structured chat.Extraction
type Extractor struct {
	oracle oracle.Oracle
	logger *slog.Logger
}

// NewExtractor creates a new intent extractor
func NewExtractor(logger *slog.Logger, o oracle.Oracle) *Extractor {
	return &Extractor{
		oracle: o,
		logger: logger,
	}
}

// rawExtraction keeps the intent as a plain string until it has been checked
// against the known tags.
type rawExtraction struct {
	Intent      string                   `json:"intent"`
	Transaction *chat.TransactionPayload `json:"transaction,omitempty"`
}

// Classify asks the model for the message's intent and validates the result.
// Unknown intent tags degrade to OTHER; a missing transaction payload on a
// write intent is treated as malformed output.
func (e *Extractor) Classify(ctx context.Context, message string) (*chat.Extraction, error) {
	response, err := e.oracle.Generate(ctx, intentPrompt(message))
	if err != nil {
		return nil, fmt.Errorf("intent classification: %w", err)
	}

	jsonText, err := oracle.RecoverJSON(response)
	if err != nil {
		e.logger.Warn("Could not locate JSON in classifier response", "response_chars", len(response))
		return nil, err
	}

	var raw rawExtraction
	if err := json.Unmarshal([]byte(jsonText), &raw); err != nil {
		e.logger.Warn("Classifier response is not valid JSON", "error", err)
		return nil, fmt.Errorf("%w: %v", chat.ErrMalformedOracleOutput, err)
	}

	intent, known := chat.ParseIntent(raw.Intent)
	if !known {
		e.logger.Warn("Unknown intent tag from classifier, treating as OTHER", "tag", raw.Intent)
	}

	extraction := &chat.Extraction{Intent: intent}
	if intent.HasWrite() {
		if raw.Transaction == nil || len(raw.Transaction.Items) == 0 {
			return nil, fmt.Errorf("%w: intent %s without transaction payload", chat.ErrMalformedOracleOutput, intent)
		}
		extraction.Transaction = raw.Transaction
	}

	e.logger.Debug("Message classified", "intent", intent)
	return extraction, nil
}
