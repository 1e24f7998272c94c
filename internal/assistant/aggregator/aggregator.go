// Package aggregator is the deterministic safety net between the query
// executor and the response synthesizer. Financial totals are computed here
// in exact decimal arithmetic, never delegated to the language model.
package aggregator

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/whatsapp-ledger-assistant/internal/domain/ledger"
)

var totalKeywords = []string{"total", "sum", "how much"}

// Reconcile inspects report rows against the question that produced them.
// When the question asks for a total and the rows are not already aggregated
// by the database, the raw total_amount values are summed in code and the
// row set is replaced by a single {total_calculated} record. Pre-aggregated
// rows pass through untouched so an authoritative SUM from the database is
// never re-summed.
func Reconcile(rows []ledger.Row, question string) []ledger.Row {
	if !wantsTotal(question) || len(rows) == 0 {
		return rows
	}

	if isAggregated(rows[0]) {
		return rows
	}

	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(parseAmount(row["total_amount"]))
	}

	return []ledger.Row{{"total_calculated": total.Round(2).StringFixed(2)}}
}

func wantsTotal(question string) bool {
	lower := strings.ToLower(question)
	for _, keyword := range totalKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// isAggregated reports whether a row already carries a database-computed
// aggregate. A column named exactly "total" counts; "total_amount" is the
// raw per-transaction column and must not.
func isAggregated(row ledger.Row) bool {
	for column := range row {
		lower := strings.ToLower(column)
		if lower == "total" || strings.Contains(lower, "sum") || strings.Contains(lower, "count") {
			return true
		}
	}
	return false
}

// parseAmount converts a store value to a decimal. The store returns
// numerics as text; anything missing or unparseable counts as zero rather
// than poisoning the whole total.
func parseAmount(value interface{}) decimal.Decimal {
	if value == nil {
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(fmt.Sprint(value))
	if err != nil {
		return decimal.Zero
	}
	return amount
}
