// Package responder produces the outbound reply text: model-written
// narrations for report results and greetings, fixed texts for
// acknowledgements and failures.
package responder

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/whatsapp-ledger-assistant/internal/domain/chat"
	"github.com/whatsapp-ledger-assistant/internal/domain/ledger"
	"github.com/whatsapp-ledger-assistant/internal/platform/oracle"
)

// Fixed reply texts. The acknowledgement needs no oracle round-trip, and the
// apology is deliberately uniform across failure kinds.
const (
	CreationAck = "Got it! I've recorded your transaction."
	Apology     = "Sorry, I ran into a problem handling that message. Please try again in a moment."
)

// Responder narrates report rows and greets non-financial messages
type Responder struct {
	oracle oracle.Oracle
	logger *slog.Logger
}

// NewResponder creates a new responder
func NewResponder(logger *slog.Logger, o oracle.Oracle) *Responder {
	return &Responder{
		oracle: o,
		logger: logger,
	}
}

// Narrate turns report rows into a natural language answer to the original
// question.
func (r *Responder) Narrate(ctx context.Context, question string, rows []ledger.Row) (string, error) {
	if rows == nil {
		rows = []ledger.Row{}
	}
	rowsJSON, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report rows: %w", err)
	}

	reply, err := r.oracle.Generate(ctx, narrationPrompt(string(rowsJSON), question))
	if err != nil {
		return "", fmt.Errorf("report narration: %w", err)
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", fmt.Errorf("%w: empty narration", chat.ErrMalformedOracleOutput)
	}
	return reply, nil
}

// Introduce produces a friendly introduction for greetings and anything the
// classifier filed under OTHER.
func (r *Responder) Introduce(ctx context.Context, message string) (string, error) {
	reply, err := r.oracle.Generate(ctx, introductoryPrompt(message))
	if err != nil {
		return "", fmt.Errorf("introductory reply: %w", err)
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", fmt.Errorf("%w: empty introduction", chat.ErrMalformedOracleOutput)
	}
	return reply, nil
}
