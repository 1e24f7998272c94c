package service

import (
	"context"
	"log/slog"

	"github.com/whatsapp-ledger-assistant/internal/domain/messagelog"
	"github.com/whatsapp-ledger-assistant/internal/domain/user"
)

// MessageHistoryServiceImpl implements the MessageHistoryService interface
type MessageHistoryServiceImpl struct {
	records messagelog.Repository
	users   user.Repository
	logger  *slog.Logger
}

// NewMessageHistoryService creates a new message history service
func NewMessageHistoryService(logger *slog.Logger, records messagelog.Repository, users user.Repository) MessageHistoryService {
	return &MessageHistoryServiceImpl{
		records: records,
		users:   users,
		logger:  logger,
	}
}

// GetMessagesByUserID retrieves a paginated list of processed messages for a
// user, newest first. Returns user.ErrUserNotFound when the user does not
// exist.
func (s *MessageHistoryServiceImpl) GetMessagesByUserID(ctx context.Context, userID int64, page, perPage int) ([]*messagelog.Record, int64, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * perPage

	records, err := s.records.GetByUserID(ctx, userID, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.records.CountByUserID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}
