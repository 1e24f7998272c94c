// Package oracle wraps the Gemini API behind a plain text-in/text-out
// contract. Callers treat the model as a fallible text generator: all
// structure is extracted and validated by the caller, never assumed here.
package oracle

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"github.com/whatsapp-ledger-assistant/internal/config"
)

// Oracle generates a text completion for a prompt. Implementations must be
// safe for concurrent use.
type Oracle interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiClient implements Oracle using the Gemini API
type GeminiClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

// NewGeminiClient creates a new Gemini oracle client
func NewGeminiClient(ctx context.Context, logger *slog.Logger, cfg *config.GeminiConfig) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client:  client,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  logger,
	}, nil
}

// Generate sends the prompt and returns the raw response text. Every call is
// bounded by the configured timeout; exceeding it surfaces as an error, not
// a hang.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(callCtx, c.model, genai.Text(prompt), nil)
	if err != nil {
		c.logger.Error("Gemini generation failed", "model", c.model, "error", err)
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	text := resp.Text()
	c.logger.Debug("Gemini response received",
		"model", c.model,
		"latency", time.Since(start),
		"response_chars", len(text),
	)

	return text, nil
}
