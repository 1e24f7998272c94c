package messagelog

import "context"

// Repository defines audit-log persistence operations
type Repository interface {
	// Record stores one processed-message record.
	Record(ctx context.Context, record *Record) error

	// GetByUserID retrieves paginated records for a user, newest first.
	GetByUserID(ctx context.Context, userID int64, limit, offset int) ([]*Record, error)

	// CountByUserID returns the total number of records for a user.
	CountByUserID(ctx context.Context, userID int64) (int64, error)
}
