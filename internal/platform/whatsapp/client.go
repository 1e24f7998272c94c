// Package whatsapp sends outbound messages through the WhatsApp Cloud API
// (Meta Graph API). Only plain text and template sends are needed; both are
// single JSON POSTs against the phone number's /messages endpoint.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/whatsapp-ledger-assistant/internal/config"
	"github.com/whatsapp-ledger-assistant/internal/domain/chat"
)

// Sender delivers a reply to a user. Delivery is at-most-once: failures are
// reported upward, never retried here.
type Sender interface {
	SendText(ctx context.Context, to, text string) error
	SendTemplate(ctx context.Context, to, templateName string) error
}

// Client implements Sender against the Graph API
type Client struct {
	httpClient    *http.Client
	baseURL       string
	token         string
	phoneNumberID string
	logger        *slog.Logger
}

// NewClient creates a new WhatsApp Cloud API client
func NewClient(logger *slog.Logger, cfg *config.WhatsAppConfig) *Client {
	return &Client{
		httpClient:    &http.Client{Timeout: cfg.SendTimeout},
		baseURL:       cfg.BaseURL,
		token:         cfg.Token,
		phoneNumberID: cfg.PhoneNumberID,
		logger:        logger,
	}
}

type textPayload struct {
	PreviewURL bool   `json:"preview_url"`
	Body       string `json:"body"`
}

type templatePayload struct {
	Name     string `json:"name"`
	Language struct {
		Code string `json:"code"`
	} `json:"language"`
}

type messageRequest struct {
	MessagingProduct string           `json:"messaging_product"`
	To               string           `json:"to"`
	Type             string           `json:"type"`
	Text             *textPayload     `json:"text,omitempty"`
	Template         *templatePayload `json:"template,omitempty"`
}

// SendText sends a plain text message. Use this for replying to a user
// within the 24-hour session window.
func (c *Client) SendText(ctx context.Context, to, text string) error {
	req := messageRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             &textPayload{PreviewURL: false, Body: text},
	}
	return c.post(ctx, to, &req)
}

// SendTemplate sends a pre-approved template message. Required to reach a
// user outside the 24-hour session window.
func (c *Client) SendTemplate(ctx context.Context, to, templateName string) error {
	req := messageRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "template",
		Template:         &templatePayload{Name: templateName},
	}
	req.Template.Language.Code = "en_US"
	return c.post(ctx, to, &req)
}

func (c *Client) post(ctx context.Context, to string, payload *messageRequest) error {
	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal message payload: %v", chat.ErrDeliveryFailure, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to build request: %v", chat.ErrDeliveryFailure, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.token)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("WhatsApp send failed", "to", to, "error", err)
		return fmt.Errorf("%w: %v", chat.ErrDeliveryFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// The Graph API puts the failure detail in the body
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("WhatsApp send rejected", "to", to, "status", resp.StatusCode, "response", string(detail))
		return fmt.Errorf("%w: status %d: %s", chat.ErrDeliveryFailure, resp.StatusCode, string(detail))
	}

	c.logger.Debug("WhatsApp message sent", "to", to, "type", payload.Type)
	return nil
}
