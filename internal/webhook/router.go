package webhook

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/whatsapp-ledger-assistant/internal/webhook/handler"
	"github.com/whatsapp-ledger-assistant/internal/webhook/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	webhookHandler *handler.WebhookHandler,
	messageHandler *handler.MessageHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// Meta webhook endpoints: GET for the verification handshake,
	// POST for inbound message notifications
	r.GET("/webhook", webhookHandler.Verify)
	r.POST("/webhook", webhookHandler.Receive)

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		users := v1.Group("/users")
		{
			users.GET("/:id/messages", messageHandler.GetByUserID)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
