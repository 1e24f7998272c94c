package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/whatsapp-ledger-assistant/internal/domain/messagelog"
)

const (
	// MessageLogCollectionName is the name of the audit-log collection in MongoDB
	MessageLogCollectionName = "message_log"
)

// MessageLogRepository implements the messagelog.Repository interface for MongoDB
type MessageLogRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewMessageLogRepository creates a new MongoDB message log repository
func NewMessageLogRepository(logger *slog.Logger, db *mongo.Database) messagelog.Repository {
	return &MessageLogRepository{
		db:     db,
		logger: logger,
	}
}

// Record stores one processed-message record
func (r *MessageLogRepository) Record(ctx context.Context, record *messagelog.Record) error {
	collection := r.db.Collection(MessageLogCollectionName)

	_, err := collection.InsertOne(ctx, record)
	if err != nil {
		r.logger.Error("Failed to record processed message",
			"message_id", record.MessageID,
			"error", err)
		return fmt.Errorf("failed to record processed message: %w", err)
	}

	return nil
}

// GetByUserID retrieves paginated records for a user.
// Results are sorted by processing time in descending order (newest first).
func (r *MessageLogRepository) GetByUserID(ctx context.Context, userID int64, limit, offset int) ([]*messagelog.Record, error) {
	collection := r.db.Collection(MessageLogCollectionName)

	filter := bson.M{"user_id": userID}
	opts := options.Find().
		SetSort(bson.D{{Key: "processed_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to list message log records", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list message log records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*messagelog.Record
	if err := cursor.All(ctx, &records); err != nil {
		r.logger.Error("Failed to decode message log records", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to decode message log records: %w", err)
	}

	return records, nil
}

// CountByUserID returns the total number of records for a user
func (r *MessageLogRepository) CountByUserID(ctx context.Context, userID int64) (int64, error) {
	collection := r.db.Collection(MessageLogCollectionName)

	count, err := collection.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		r.logger.Error("Failed to count message log records", "user_id", userID, "error", err)
		return 0, fmt.Errorf("failed to count message log records: %w", err)
	}

	return count, nil
}
