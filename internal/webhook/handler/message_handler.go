package handler

import (
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/whatsapp-ledger-assistant/internal/domain/messagelog"
	"github.com/whatsapp-ledger-assistant/internal/domain/user"
	"github.com/whatsapp-ledger-assistant/internal/webhook/service"
)

// MessageHandler handles HTTP requests for the processed-message audit trail
type MessageHandler struct {
	historyService service.MessageHistoryService
	logger         *slog.Logger
}

// NewMessageHandler creates a new message history handler
func NewMessageHandler(logger *slog.Logger, historyService service.MessageHistoryService) *MessageHandler {
	return &MessageHandler{
		historyService: historyService,
		logger:         logger,
	}
}

// GetByUserID returns the paginated message history for a user, newest first
func (h *MessageHandler) GetByUserID(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.logger.Error("Invalid user ID", "id", c.Param("id"), "error", err)
		RespondBadRequest(c, "Invalid user ID")
		return
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.logger.Error("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	records, total, err := h.historyService.GetMessagesByUserID(c.Request.Context(), userID, pagination.Page, pagination.PerPage)
	if err != nil {
		var notFound user.ErrUserNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "User not found")
			return
		}
		h.logger.Error("Failed to get message history", "user_id", userID, "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]MessageRecordResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, mapRecordToResponse(record))
	}

	RespondWithPaginatedData(c, 200, responses, pagination.Page, pagination.PerPage, int(total))
}

func mapRecordToResponse(record *messagelog.Record) MessageRecordResponse {
	return MessageRecordResponse{
		MessageID:     record.MessageID,
		CorrelationID: record.CorrelationID,
		Intent:        record.Intent,
		Status:        string(record.Status),
		Reply:         record.Reply,
		FailureReason: record.FailureReason,
		ReceivedAt:    record.ReceivedAt.Format(time.RFC3339),
		ProcessedAt:   record.ProcessedAt.Format(time.RFC3339),
	}
}
