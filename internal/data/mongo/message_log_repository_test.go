package mongo

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/whatsapp-ledger-assistant/internal/domain/messagelog"
)

type MockMessageLogRepository struct {
	mock.Mock
}

func (m *MockMessageLogRepository) Record(ctx context.Context, record *messagelog.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockMessageLogRepository) GetByUserID(ctx context.Context, userID int64, limit, offset int) ([]*messagelog.Record, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*messagelog.Record), args.Error(1)
}

func (m *MockMessageLogRepository) CountByUserID(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func TestNewMessageLogRepository(t *testing.T) {
	db := &mongo.Database{}
	logger := slog.Default()

	repo := NewMessageLogRepository(logger, db)

	assert.NotNil(t, repo)
	assert.IsType(t, &MessageLogRepository{}, repo)
}

func TestMessageLogRepository_Record(t *testing.T) {
	record := &messagelog.Record{
		MessageID:     "wamid.test",
		CorrelationID: "corr1",
		UserID:        42,
		PhoneNumber:   "918086195819",
		Intent:        "CREATE",
		Status:        messagelog.StatusProcessed,
		Reply:         "Got it!",
		ReceivedAt:    time.Now(),
		ProcessedAt:   time.Now(),
	}

	tests := []struct {
		name          string
		setupMocks    func(m *MockMessageLogRepository)
		expectedError error
	}{
		{
			name: "successful record",
			setupMocks: func(m *MockMessageLogRepository) {
				m.On("Record", mock.Anything, record).Return(nil)
			},
		},
		{
			name: "database error",
			setupMocks: func(m *MockMessageLogRepository) {
				m.On("Record", mock.Anything, record).Return(errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &MockMessageLogRepository{}
			tt.setupMocks(mockRepo)

			err := mockRepo.Record(context.Background(), record)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError.Error())
			} else {
				assert.NoError(t, err)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}
