// Package postgres provides PostgreSQL implementations of the domain repositories.
// It handles all database operations while maintaining transaction safety and
// proper error handling for the ledger assistant.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/whatsapp-ledger-assistant/internal/domain/user"
	"github.com/whatsapp-ledger-assistant/internal/platform/persistence"
)

// UserRepository implements the user.Repository interface for PostgreSQL
type UserRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewUserRepository creates a new PostgreSQL user repository.
// It expects db.Pool() to satisfy persistence.Querier.
func NewUserRepository(logger *slog.Logger, db *persistence.PostgresDB) user.Repository {
	return &UserRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// FindOrCreateByHandle resolves a phone number to a user, creating one on
// first contact. Two near-simultaneous messages from the same new handle must
// not create two users: the insert uses ON CONFLICT DO NOTHING against the
// uniqueness constraint on phone_number, and the loser of the race falls back
// to the lookup.
func (r *UserRepository) FindOrCreateByHandle(ctx context.Context, phoneNumber string) (*user.User, error) {
	usr, err := r.getByHandle(ctx, phoneNumber)
	if err != nil {
		return nil, err
	}
	if usr != nil {
		return usr, nil
	}

	newUser, err := user.NewUser(phoneNumber)
	if err != nil {
		return nil, err
	}

	insert := `
		INSERT INTO users (phone_number, display_name, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (phone_number) DO NOTHING
		RETURNING id
	`
	err = r.querier.QueryRow(ctx, insert, newUser.PhoneNumber, newUser.DisplayName, newUser.CreatedAt).Scan(&newUser.ID)
	if err == nil {
		r.logger.Info("Created user for new contact", "user_id", newUser.ID, "phone_number", phoneNumber)
		return newUser, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		r.logger.Error("Failed to create user", "phone_number", phoneNumber, "error", err)
		return nil, classifyWriteError(err)
	}

	// Lost the race: a concurrent message created the row first.
	usr, err = r.getByHandle(ctx, phoneNumber)
	if err != nil {
		return nil, err
	}
	if usr == nil {
		return nil, fmt.Errorf("user for handle %s vanished after conflict", phoneNumber)
	}
	return usr, nil
}

// GetByID retrieves a user by their ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	query := `
		SELECT id, phone_number, display_name, created_at
		FROM users
		WHERE id = $1
	`

	var usr user.User
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&usr.ID,
		&usr.PhoneNumber,
		&usr.DisplayName,
		&usr.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound{UserID: id}
		}
		r.logger.Error("Failed to get user", "id", id, "error", err)
		return nil, classifyWriteError(err)
	}

	return &usr, nil
}

// getByHandle returns nil, nil when no user exists for the handle.
func (r *UserRepository) getByHandle(ctx context.Context, phoneNumber string) (*user.User, error) {
	query := `
		SELECT id, phone_number, display_name, created_at
		FROM users
		WHERE phone_number = $1
	`

	var usr user.User
	err := r.querier.QueryRow(ctx, query, phoneNumber).Scan(
		&usr.ID,
		&usr.PhoneNumber,
		&usr.DisplayName,
		&usr.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to look up user by handle", "phone_number", phoneNumber, "error", err)
		return nil, classifyWriteError(err)
	}

	return &usr, nil
}
