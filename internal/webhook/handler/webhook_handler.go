package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/whatsapp-ledger-assistant/internal/domain/chat"
	"github.com/whatsapp-ledger-assistant/internal/webhook/middleware"
	"github.com/whatsapp-ledger-assistant/internal/webhook/service"
)

// WebhookHandler handles the Meta webhook endpoints: the one-time
// subscription verification handshake and inbound message notifications.
type WebhookHandler struct {
	webhookService service.WebhookService
	verifyToken    string
	logger         *slog.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(logger *slog.Logger, webhookService service.WebhookService, verifyToken string) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
		verifyToken:    verifyToken,
		logger:         logger,
	}
}

// Verify answers the webhook subscription handshake. Meta sends the shared
// verify token and a challenge; echoing the challenge confirms ownership.
func (h *WebhookHandler) Verify(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token == h.verifyToken {
		h.logger.Info("Webhook verified")
		c.String(http.StatusOK, challenge)
		return
	}

	h.logger.Warn("Webhook verification rejected", "mode", mode)
	c.Status(http.StatusForbidden)
}

// Receive accepts inbound message notifications. The response is always
// 200 once the payload has been read: Meta retries non-2xx responses, and a
// redelivered message would produce a duplicate reply.
func (h *WebhookHandler) Receive(c *gin.Context) {
	var event WebhookEventRequest
	if err := c.ShouldBindJSON(&event); err != nil {
		h.logger.Warn("Undecodable webhook payload", "error", err)
		c.Status(http.StatusOK)
		return
	}

	if event.Object != "whatsapp_business_account" {
		c.Status(http.StatusOK)
		return
	}

	correlationID := middleware.GetCorrelationID(c)

	for _, entry := range event.Entry {
		for _, change := range entry.Changes {
			for _, message := range change.Value.Messages {
				if message.Type != "text" || message.Text == nil {
					h.logger.Debug("Skipping non-text message", "message_id", message.ID, "type", message.Type)
					continue
				}

				msg := &chat.InboundMessage{
					MessageID:     message.ID,
					From:          message.From,
					Text:          message.Text.Body,
					CorrelationID: correlationID,
					ReceivedAt:    parseWebhookTimestamp(message.Timestamp),
				}

				if err := h.webhookService.IngestMessage(c.Request.Context(), msg); err != nil {
					// Already logged downstream; the 200 stands so Meta does
					// not redeliver the whole notification.
					h.logger.Error("Dropping inbound message after ingest failure",
						"message_id", message.ID,
						"from", message.From,
					)
				}
			}
		}
	}

	c.Status(http.StatusOK)
}

// parseWebhookTimestamp converts Meta's epoch-seconds string. Falls back to
// the current time on anything unparseable.
func parseWebhookTimestamp(ts string) time.Time {
	seconds, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return time.Now().UTC()
	}
	return time.Unix(seconds, 0).UTC()
}
