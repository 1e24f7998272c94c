package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/whatsapp-ledger-assistant/internal/domain/chat"
)

// classifyWriteError maps a low-level database error onto the pipeline
// failure taxonomy. Constraint violations and serialization failures are
// write conflicts (retryable once); everything else means the store could
// not be reached or refused the connection.
func classifyWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 23: integrity constraint violation. 40001/40P01:
		// serialization failure and deadlock.
		if strings.HasPrefix(pgErr.Code, "23") || pgErr.Code == "40001" || pgErr.Code == "40P01" {
			return fmt.Errorf("%w: %v", chat.ErrWriteConflict, err)
		}
	}
	return fmt.Errorf("%w: %v", chat.ErrStoreUnavailable, err)
}
