package ledger

import "context"

// Row is one untyped result row from a report query. Values come back from
// the store as text or driver types and must be parsed before arithmetic.
type Row map[string]interface{}

// Repository defines ledger persistence operations
type Repository interface {
	// CreateEntry persists the entry and all of its line items as a single
	// atomic unit and returns the new entry id. Either all rows exist
	// afterwards or none do.
	CreateEntry(ctx context.Context, entry *Entry) (int64, error)

	// ExecuteReport runs an already-validated, parameterized read-only query
	// and returns its rows. Values are never interpolated into query text.
	ExecuteReport(ctx context.Context, query string, params []interface{}) ([]Row, error)
}
