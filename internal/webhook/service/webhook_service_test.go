package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/whatsapp-ledger-assistant/internal/domain/chat"
)

type MockMessagePublisher struct {
	mock.Mock
}

func (m *MockMessagePublisher) Publish(ctx context.Context, key string, value interface{}) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestWebhookServiceImpl_IngestMessage(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	msg := &chat.InboundMessage{
		MessageID:     "wamid.abc123",
		From:          "15551234567",
		Text:          "spent 12.50 on lunch",
		CorrelationID: "corr-1",
		ReceivedAt:    time.Now().UTC(),
	}

	t.Run("PublishesKeyedBySender", func(t *testing.T) {
		mockProducer := new(MockMessagePublisher)
		service := NewWebhookService(logger, mockProducer)

		mockProducer.On("Publish", ctx, "15551234567", msg).Return(nil).Once()

		err := service.IngestMessage(ctx, msg)

		assert.NoError(t, err)
		mockProducer.AssertExpectations(t)
	})

	t.Run("PublishErrorPropagates", func(t *testing.T) {
		mockProducer := new(MockMessagePublisher)
		service := NewWebhookService(logger, mockProducer)

		expectedErr := errors.New("kafka unavailable")
		mockProducer.On("Publish", ctx, "15551234567", msg).Return(expectedErr).Once()

		err := service.IngestMessage(ctx, msg)

		assert.ErrorIs(t, err, expectedErr)
		mockProducer.AssertExpectations(t)
	})
}
