package handler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/whatsapp-ledger-assistant/internal/domain/chat"
	"github.com/whatsapp-ledger-assistant/internal/webhook/service"
)

type MockWebhookService struct {
	mock.Mock
}

func (m *MockWebhookService) IngestMessage(ctx context.Context, msg *chat.InboundMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.Default()
	return r
}

const sampleNotification = `{
	"object": "whatsapp_business_account",
	"entry": [{
		"id": "entry-1",
		"changes": [{
			"field": "messages",
			"value": {
				"messaging_product": "whatsapp",
				"messages": [{
					"id": "wamid.abc123",
					"from": "15551234567",
					"timestamp": "1700000000",
					"type": "text",
					"text": {"body": "spent 12.50 on lunch"}
				}]
			}
		}]
	}]
}`

func TestWebhookHandler_Verify(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	t.Run("ValidHandshakeEchoesChallenge", func(t *testing.T) {
		mockService := new(MockWebhookService)
		handler := NewWebhookHandler(logger, mockService, "my-verify-token")

		router := setupTestRouter()
		router.GET("/webhook", handler.Verify)

		req, _ := http.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=my-verify-token&hub.challenge=challenge-42", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "challenge-42", rr.Body.String())
	})

	t.Run("WrongTokenIsForbidden", func(t *testing.T) {
		mockService := new(MockWebhookService)
		handler := NewWebhookHandler(logger, mockService, "my-verify-token")

		router := setupTestRouter()
		router.GET("/webhook", handler.Verify)

		req, _ := http.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=challenge-42", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.NotContains(t, rr.Body.String(), "challenge-42")
	})

	t.Run("WrongModeIsForbidden", func(t *testing.T) {
		mockService := new(MockWebhookService)
		handler := NewWebhookHandler(logger, mockService, "my-verify-token")

		router := setupTestRouter()
		router.GET("/webhook", handler.Verify)

		req, _ := http.NewRequest(http.MethodGet, "/webhook?hub.mode=unsubscribe&hub.verify_token=my-verify-token&hub.challenge=challenge-42", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestWebhookHandler_Receive(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	t.Run("TextMessageIsIngested", func(t *testing.T) {
		mockService := new(MockWebhookService)
		handler := NewWebhookHandler(logger, mockService, "my-verify-token")

		mockService.On("IngestMessage", mock.Anything, mock.MatchedBy(func(msg *chat.InboundMessage) bool {
			return msg.MessageID == "wamid.abc123" &&
				msg.From == "15551234567" &&
				msg.Text == "spent 12.50 on lunch" &&
				msg.ReceivedAt.Equal(time.Unix(1700000000, 0).UTC())
		})).Return(nil)

		router := setupTestRouter()
		router.POST("/webhook", handler.Receive)

		req, _ := http.NewRequest(http.MethodPost, "/webhook", bytes.NewBufferString(sampleNotification))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("NonTextMessageIsSkipped", func(t *testing.T) {
		mockService := new(MockWebhookService)
		handler := NewWebhookHandler(logger, mockService, "my-verify-token")

		body := `{
			"object": "whatsapp_business_account",
			"entry": [{"id": "entry-1", "changes": [{"field": "messages", "value": {
				"messaging_product": "whatsapp",
				"messages": [{"id": "wamid.img1", "from": "15551234567", "timestamp": "1700000000", "type": "image"}]
			}}]}]
		}`

		router := setupTestRouter()
		router.POST("/webhook", handler.Receive)

		req, _ := http.NewRequest(http.MethodPost, "/webhook", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		mockService.AssertNotCalled(t, "IngestMessage", mock.Anything, mock.Anything)
	})

	t.Run("UnrelatedObjectIsSkipped", func(t *testing.T) {
		mockService := new(MockWebhookService)
		handler := NewWebhookHandler(logger, mockService, "my-verify-token")

		router := setupTestRouter()
		router.POST("/webhook", handler.Receive)

		req, _ := http.NewRequest(http.MethodPost, "/webhook", bytes.NewBufferString(`{"object": "instagram", "entry": []}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		mockService.AssertNotCalled(t, "IngestMessage", mock.Anything, mock.Anything)
	})

	t.Run("MalformedPayloadStillAcknowledged", func(t *testing.T) {
		mockService := new(MockWebhookService)
		handler := NewWebhookHandler(logger, mockService, "my-verify-token")

		router := setupTestRouter()
		router.POST("/webhook", handler.Receive)

		req, _ := http.NewRequest(http.MethodPost, "/webhook", bytes.NewBufferString(`{"object":`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		mockService.AssertNotCalled(t, "IngestMessage", mock.Anything, mock.Anything)
	})

	t.Run("IngestFailureStillAcknowledged", func(t *testing.T) {
		mockService := new(MockWebhookService)
		handler := NewWebhookHandler(logger, mockService, "my-verify-token")

		mockService.On("IngestMessage", mock.Anything, mock.Anything).Return(errors.New("kafka unavailable"))

		router := setupTestRouter()
		router.POST("/webhook", handler.Receive)

		req, _ := http.NewRequest(http.MethodPost, "/webhook", bytes.NewBufferString(sampleNotification))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("UnparseableTimestampFallsBackToNow", func(t *testing.T) {
		mockService := new(MockWebhookService)
		handler := NewWebhookHandler(logger, mockService, "my-verify-token")

		body := `{
			"object": "whatsapp_business_account",
			"entry": [{"id": "entry-1", "changes": [{"field": "messages", "value": {
				"messaging_product": "whatsapp",
				"messages": [{"id": "wamid.xyz", "from": "15551234567", "timestamp": "not-a-number", "type": "text", "text": {"body": "hi"}}]
			}}]}]
		}`

		before := time.Now().UTC()
		mockService.On("IngestMessage", mock.Anything, mock.MatchedBy(func(msg *chat.InboundMessage) bool {
			return !msg.ReceivedAt.Before(before) && !msg.ReceivedAt.After(time.Now().UTC())
		})).Return(nil)

		router := setupTestRouter()
		router.POST("/webhook", handler.Receive)

		req, _ := http.NewRequest(http.MethodPost, "/webhook", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		mockService.AssertExpectations(t)
	})
}

var _ service.WebhookService = (*MockWebhookService)(nil)
