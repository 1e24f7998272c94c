package postgres

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whatsapp-ledger-assistant/internal/domain/chat"
	"github.com/whatsapp-ledger-assistant/internal/domain/user"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

const selectUserByHandle = `
		SELECT id, phone_number, display_name, created_at
		FROM users
		WHERE phone_number = \$1
	`

const insertUser = `
		INSERT INTO users \(phone_number, display_name, created_at\)
		VALUES \(\$1, \$2, \$3\)
		ON CONFLICT \(phone_number\) DO NOTHING
		RETURNING id
	`

func TestUserRepository_FindOrCreateByHandle(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	phone := "918086195819"
	now := time.Now()

	t.Run("existing user", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		repo := &UserRepository{querier: mock, logger: logger}

		mock.ExpectQuery(selectUserByHandle).WithArgs(phone).
			WillReturnRows(pgxmock.NewRows([]string{"id", "phone_number", "display_name", "created_at"}).
				AddRow(int64(7), phone, phone, now))

		usr, err := repo.FindOrCreateByHandle(ctx, phone)
		require.NoError(t, err)
		assert.Equal(t, int64(7), usr.ID)
		assert.Equal(t, phone, usr.PhoneNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("first contact creates user", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		repo := &UserRepository{querier: mock, logger: logger}

		mock.ExpectQuery(selectUserByHandle).WithArgs(phone).WillReturnError(pgx.ErrNoRows)
		mock.ExpectQuery(insertUser).WithArgs(phone, phone, pgxmock.AnyArg()).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(12)))

		usr, err := repo.FindOrCreateByHandle(ctx, phone)
		require.NoError(t, err)
		assert.Equal(t, int64(12), usr.ID)
		assert.Equal(t, phone, usr.DisplayName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("concurrent first contact falls back to lookup", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		repo := &UserRepository{querier: mock, logger: logger}

		mock.ExpectQuery(selectUserByHandle).WithArgs(phone).WillReturnError(pgx.ErrNoRows)
		// ON CONFLICT DO NOTHING returns no row when another task won the race
		mock.ExpectQuery(insertUser).WithArgs(phone, phone, pgxmock.AnyArg()).WillReturnError(pgx.ErrNoRows)
		mock.ExpectQuery(selectUserByHandle).WithArgs(phone).
			WillReturnRows(pgxmock.NewRows([]string{"id", "phone_number", "display_name", "created_at"}).
				AddRow(int64(12), phone, phone, now))

		usr, err := repo.FindOrCreateByHandle(ctx, phone)
		require.NoError(t, err)
		assert.Equal(t, int64(12), usr.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("store unreachable", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		repo := &UserRepository{querier: mock, logger: logger}

		mock.ExpectQuery(selectUserByHandle).WithArgs(phone).WillReturnError(errors.New("connection refused"))

		usr, err := repo.FindOrCreateByHandle(ctx, phone)
		assert.Nil(t, usr)
		assert.ErrorIs(t, err, chat.ErrStoreUnavailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()

	query := `
		SELECT id, phone_number, display_name, created_at
		FROM users
		WHERE id = \$1
	`

	t.Run("success", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		repo := &UserRepository{querier: mock, logger: logger}

		now := time.Now()
		mock.ExpectQuery(query).WithArgs(int64(7)).
			WillReturnRows(pgxmock.NewRows([]string{"id", "phone_number", "display_name", "created_at"}).
				AddRow(int64(7), "918086195819", "918086195819", now))

		usr, err := repo.GetByID(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(7), usr.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		repo := &UserRepository{querier: mock, logger: logger}

		mock.ExpectQuery(query).WithArgs(int64(99)).WillReturnError(pgx.ErrNoRows)

		usr, err := repo.GetByID(ctx, 99)
		assert.Nil(t, usr)
		var notFound user.ErrUserNotFound
		assert.ErrorAs(t, err, &notFound)
		assert.Equal(t, int64(99), notFound.UserID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
