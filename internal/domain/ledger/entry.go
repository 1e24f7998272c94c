package ledger

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Common errors
var (
	ErrInvalidKind      = errors.New("kind must be income or expense")
	ErrNoItems          = errors.New("entry must contain at least one line item")
	ErrInvalidQuantity  = errors.New("item quantity must be positive")
	ErrInvalidUnitPrice = errors.New("item unit price cannot be negative")
	ErrEmptyItemName    = errors.New("item name cannot be empty")
)

// Kind distinguishes money coming in from money going out.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Valid reports whether the kind is one of the known values.
func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// LineItem is one purchased or received item within an entry.
// The JSON field names match the shape the classifier is instructed to emit.
type LineItem struct {
	ID        int64           `json:"id,omitempty"`
	EntryID   int64           `json:"entry_id,omitempty"`
	ItemName  string          `json:"item_name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"price_per_item"`
}

// Subtotal returns quantity * unit price.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.Quantity.Mul(li.UnitPrice)
}

// Entry is one recorded transaction owned by a single user. TotalAmount is
// always derived from the line items, never supplied by a caller.
type Entry struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Kind        Kind            `json:"type"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	Items       []LineItem      `json:"items,omitempty"`
}

// NewEntry validates the line items and builds an entry with the derived
// total, rounded to 2 decimal places. The description defaults to the first
// item's name.
func NewEntry(userID int64, kind Kind, items []LineItem) (*Entry, error) {
	if !kind.Valid() {
		return nil, ErrInvalidKind
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	total := decimal.Zero
	for _, item := range items {
		if item.ItemName == "" {
			return nil, ErrEmptyItemName
		}
		if !item.Quantity.IsPositive() {
			return nil, ErrInvalidQuantity
		}
		if item.UnitPrice.IsNegative() {
			return nil, ErrInvalidUnitPrice
		}
		total = total.Add(item.Subtotal())
	}

	return &Entry{
		UserID:      userID,
		TotalAmount: total.Round(2),
		Kind:        kind,
		Description: items[0].ItemName,
		CreatedAt:   time.Now(),
		Items:       items,
	}, nil
}
