// Package pipeline orchestrates the processing of one inbound message:
// resolve the user, classify the message, record and/or report, and reply.
// The orchestrator owns the branching and the single-reply guarantee; every
// other stage is a stateless function of its inputs.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/whatsapp-ledger-assistant/internal/assistant/aggregator"
	"github.com/whatsapp-ledger-assistant/internal/assistant/responder"
	"github.com/whatsapp-ledger-assistant/internal/domain/chat"
	"github.com/whatsapp-ledger-assistant/internal/domain/ledger"
	"github.com/whatsapp-ledger-assistant/internal/domain/messagelog"
)

// Pipeline state labels, used for logging and failure reasons only
const (
	stateResolvingUser = "RESOLVING_USER"
	stateClassifying   = "CLASSIFYING"
	stateWriting       = "WRITING"
	stateQuerying      = "QUERYING"
	stateResponding    = "RESPONDING"
)

// Pipeline processes inbound messages end to end
type Pipeline struct {
	users      IdentityResolver
	classifier IntentClassifier
	store      LedgerStore
	queries    QuerySynthesizer
	replies    ReplyComposer
	sender     ReplySender
	audit      AuditLog
	logger     *slog.Logger
}

// NewPipeline wires the orchestrator. The audit log may be nil; auditing is
// best-effort and never blocks a reply.
func NewPipeline(
	logger *slog.Logger,
	users IdentityResolver,
	classifier IntentClassifier,
	store LedgerStore,
	queries QuerySynthesizer,
	replies ReplyComposer,
	sender ReplySender,
	audit AuditLog,
) *Pipeline {
	return &Pipeline{
		users:      users,
		classifier: classifier,
		store:      store,
		queries:    queries,
		replies:    replies,
		sender:     sender,
		audit:      audit,
		logger:     logger,
	}
}

// Process runs the full pipeline for one inbound message. Exactly one reply
// is sent per message, success or failure; no error escapes this boundary.
func (p *Pipeline) Process(ctx context.Context, msg *chat.InboundMessage) {
	logger := p.logger.With(
		"correlation_id", msg.CorrelationID,
		"message_id", msg.MessageID,
		"from", msg.From,
	)

	outcome := p.run(ctx, logger, msg)

	if outcome.reply != "" {
		if err := p.sender.SendText(ctx, msg.From, outcome.reply); err != nil {
			// At-most-once delivery: log and move on, never retry here.
			logger.Error("Reply delivery failed", "state", stateResponding, "error", err)
			if outcome.failureReason == "" {
				outcome.failureReason = fmt.Sprintf("delivery: %v", err)
			}
		}
	}

	p.recordOutcome(ctx, logger, msg, outcome)
}

// outcome carries the result of the branch logic to the send and audit steps
type outcome struct {
	userID        int64
	intent        chat.Intent
	reply         string
	status        messagelog.Status
	failureReason string
}

// run executes the state machine up to (but not including) the outbound
// send. Any step failure collapses into the fixed apology reply.
func (p *Pipeline) run(ctx context.Context, logger *slog.Logger, msg *chat.InboundMessage) outcome {
	fail := func(userID int64, intent chat.Intent, state string, err error) outcome {
		logger.Error("Pipeline step failed", "state", state, "intent", intent, "error", err)
		return outcome{
			userID:        userID,
			intent:        intent,
			reply:         responder.Apology,
			status:        messagelog.StatusFailed,
			failureReason: fmt.Sprintf("%s: %v", state, err),
		}
	}

	u, err := p.users.FindOrCreateByHandle(ctx, msg.From)
	if err != nil {
		return fail(0, "", stateResolvingUser, err)
	}
	logger = logger.With("user_id", u.ID)

	extraction, err := p.classifier.Classify(ctx, msg.Text)
	if err != nil {
		return fail(u.ID, "", stateClassifying, err)
	}
	intent := extraction.Intent
	logger.Info("Message classified", "intent", intent)

	if intent.HasWrite() {
		if err := p.writeEntry(ctx, logger, u.ID, extraction.Transaction); err != nil {
			return fail(u.ID, intent, stateWriting, err)
		}
	}

	switch {
	case intent == chat.IntentCreate:
		// Fixed acknowledgement, no oracle round-trip.
		return outcome{userID: u.ID, intent: intent, reply: responder.CreationAck, status: messagelog.StatusProcessed}

	case intent.HasRead():
		// The full original message goes to the synthesizer so that for BOTH
		// the question embedded in it is answered.
		rows, err := p.runReport(ctx, u.ID, msg.Text)
		if err != nil {
			return fail(u.ID, intent, stateQuerying, err)
		}

		reply, err := p.replies.Narrate(ctx, msg.Text, rows)
		if err != nil {
			return fail(u.ID, intent, stateResponding, err)
		}
		if intent == chat.IntentBoth {
			reply = responder.CreationAck + "\n\n" + reply
		}
		return outcome{userID: u.ID, intent: intent, reply: reply, status: messagelog.StatusProcessed}

	default:
		reply, err := p.replies.Introduce(ctx, msg.Text)
		if err != nil {
			return fail(u.ID, intent, stateResponding, err)
		}
		return outcome{userID: u.ID, intent: intent, reply: reply, status: messagelog.StatusProcessed}
	}
}

// writeEntry validates the extracted payload and persists it atomically.
// A write conflict is retried exactly once.
func (p *Pipeline) writeEntry(ctx context.Context, logger *slog.Logger, userID int64, payload *chat.TransactionPayload) error {
	entry, err := ledger.NewEntry(userID, payload.Kind, payload.Items)
	if err != nil {
		return fmt.Errorf("%w: %v", chat.ErrMalformedOracleOutput, err)
	}

	entryID, err := p.store.CreateEntry(ctx, entry)
	if errors.Is(err, chat.ErrWriteConflict) {
		logger.Warn("Write conflict, retrying once", "error", err)
		entryID, err = p.store.CreateEntry(ctx, entry)
	}
	if err != nil {
		return err
	}

	logger.Info("Ledger entry recorded",
		"entry_id", entryID,
		"kind", entry.Kind,
		"total_amount", entry.TotalAmount.StringFixed(2),
		"items", len(entry.Items),
	)
	return nil
}

// runReport synthesizes, executes and reconciles the report for a question
func (p *Pipeline) runReport(ctx context.Context, userID int64, question string) ([]ledger.Row, error) {
	query, err := p.queries.Synthesize(ctx, question, userID)
	if err != nil {
		return nil, err
	}

	rows, err := p.store.ExecuteReport(ctx, query.Query, query.Params)
	if err != nil {
		return nil, err
	}

	return aggregator.Reconcile(rows, question), nil
}

func (p *Pipeline) recordOutcome(ctx context.Context, logger *slog.Logger, msg *chat.InboundMessage, out outcome) {
	if p.audit == nil {
		return
	}

	record := &messagelog.Record{
		MessageID:     msg.MessageID,
		CorrelationID: msg.CorrelationID,
		UserID:        out.userID,
		PhoneNumber:   msg.From,
		Intent:        string(out.intent),
		Status:        out.status,
		Reply:         out.reply,
		FailureReason: out.failureReason,
		ReceivedAt:    msg.ReceivedAt,
		ProcessedAt:   time.Now().UTC(),
	}

	if err := p.audit.Record(ctx, record); err != nil {
		logger.Error("Failed to write audit record", "error", err)
	}
}
