package postgres

import (
	"context"
	"database/sql/driver"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/whatsapp-ledger-assistant/internal/domain/chat"
	"github.com/whatsapp-ledger-assistant/internal/domain/ledger"
	"github.com/whatsapp-ledger-assistant/internal/platform/persistence"
)

// txQuerier extends the shared querier with the ability to begin a
// transaction. Satisfied by *pgxpool.Pool and by pgxmock pools in tests.
type txQuerier interface {
	persistence.Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// LedgerRepository implements the ledger.Repository interface for PostgreSQL
type LedgerRepository struct {
	db     txQuerier
	logger *slog.Logger
}

// NewLedgerRepository creates a new PostgreSQL ledger repository
func NewLedgerRepository(logger *slog.Logger, db *persistence.PostgresDB) ledger.Repository {
	return &LedgerRepository{
		db:     db.Pool(),
		logger: logger,
	}
}

// CreateEntry persists the entry and all line items under one transaction.
// On any failure mid-write the transaction is rolled back before the error
// propagates, so entry and item rows are never partially visible.
func (r *LedgerRepository) CreateEntry(ctx context.Context, entry *ledger.Entry) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.logger.Error("Failed to begin transaction for ledger entry", "user_id", entry.UserID, "error", err)
		return 0, classifyWriteError(err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && rbErr != pgx.ErrTxClosed {
				r.logger.Error("Failed to rollback ledger entry transaction", "rollback_error", rbErr, "original_error", err)
			}
		}
	}()

	entryInsert := `
		INSERT INTO transactions (user_id, total_amount, type, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	var entryID int64
	// Decimals cross the wire as text; NUMERIC accepts the exact string form.
	err = tx.QueryRow(ctx, entryInsert,
		entry.UserID,
		entry.TotalAmount.StringFixed(2),
		string(entry.Kind),
		entry.Description,
		entry.CreatedAt,
	).Scan(&entryID)
	if err != nil {
		r.logger.Error("Failed to insert ledger entry", "user_id", entry.UserID, "error", err)
		return 0, classifyWriteError(err)
	}

	itemInsert := `
		INSERT INTO transaction_items (transaction_id, item_name, quantity, price_per_item)
		VALUES ($1, $2, $3, $4)
	`
	for _, item := range entry.Items {
		if _, err = tx.Exec(ctx, itemInsert,
			entryID,
			item.ItemName,
			item.Quantity.String(),
			item.UnitPrice.StringFixed(2),
		); err != nil {
			r.logger.Error("Failed to insert line item", "entry_id", entryID, "item", item.ItemName, "error", err)
			return 0, classifyWriteError(err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		r.logger.Error("Failed to commit ledger entry", "entry_id", entryID, "error", err)
		return 0, classifyWriteError(err)
	}

	entry.ID = entryID
	r.logger.Info("Ledger entry committed", "entry_id", entryID, "user_id", entry.UserID, "total_amount", entry.TotalAmount.StringFixed(2))
	return entryID, nil
}

// ExecuteReport runs a validated, parameterized read-only query and returns
// its rows with values normalized to plain Go types (decimals as strings).
func (r *LedgerRepository) ExecuteReport(ctx context.Context, query string, params []interface{}) ([]ledger.Row, error) {
	rows, err := r.db.Query(ctx, query, params...)
	if err != nil {
		r.logger.Error("Report query failed", "error", err)
		return nil, fmt.Errorf("%w: %v", chat.ErrQueryExecution, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var result []ledger.Row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", chat.ErrQueryExecution, err)
		}
		row := make(ledger.Row, len(fields))
		for i, field := range fields {
			row[string(field.Name)] = normalizeValue(values[i])
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", chat.ErrQueryExecution, err)
	}

	return result, nil
}

// normalizeValue flattens driver-specific types so downstream stages see
// only plain strings, numbers and times. NUMERIC columns in particular come
// back as driver values that render to their exact decimal text.
func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case nil:
		return nil
	case []byte:
		return string(val)
	case driver.Valuer:
		dv, err := val.Value()
		if err != nil {
			return v
		}
		return normalizeValue(dv)
	default:
		return v
	}
}
