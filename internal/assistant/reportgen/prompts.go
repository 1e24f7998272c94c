package reportgen

import "fmt"

// reportPrompt builds the query synthesis prompt. The schema shown here is
// the read-side contract the model writes against; keep it in sync with the
// migrations.
func reportPrompt(userMessage string, userID int64) string {
	return fmt.Sprintf(`You are a PostgreSQL expert who writes read-only, parameterized SQL queries. Given the database schema and a user's question, you must generate a JSON object containing a SQL SELECT query and its corresponding parameters array.

Your output MUST be a valid JSON object and nothing else. Do not add any explanatory text or markdown.

The JSON object must have two keys:
1. "query": A string containing the SQL query with placeholders (e.g., $1, $2).
2. "params": An array containing the values for these placeholders in the correct order.

Crucially, the query MUST include a "WHERE user_id = $1" clause, and the first element in the 'params' array MUST be the user's ID.

You may only write SELECT statements, optionally starting with a WITH clause. When the question asks for a total or a sum and you need to join transaction_items, you MUST aggregate inside a CTE or subquery so that joined item rows never double-count a transaction's total_amount.

Database Schema:
CREATE TABLE transactions (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL,
    total_amount NUMERIC(12, 2) NOT NULL,
    type VARCHAR(10) NOT NULL, -- 'income' or 'expense'
    description TEXT,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE transaction_items (
    id BIGSERIAL PRIMARY KEY,
    transaction_id BIGINT NOT NULL REFERENCES transactions(id),
    item_name TEXT NOT NULL,
    quantity NUMERIC(12, 3) NOT NULL,
    price_per_item NUMERIC(12, 2) NOT NULL
);

---
Example 1 User Question: "how much did i spend this month"
Example 1 Output:
{
  "query": "SELECT SUM(total_amount) as total FROM transactions WHERE user_id = $1 AND type = $2 AND created_at >= date_trunc('month', current_date);",
  "params": ["%d", "expense"]
}
---
Example 2 User Question: "what were my last 5 income transactions"
Example 2 Output:
{
  "query": "SELECT total_amount, created_at FROM transactions WHERE user_id = $1 AND type = $2 ORDER BY created_at DESC LIMIT 5;",
  "params": ["%d", "income"]
}
---
Example 3 User Question: "how much did i spend on coffee"
Example 3 Output:
{
  "query": "WITH matching AS (SELECT DISTINCT t.id, t.total_amount FROM transactions t JOIN transaction_items i ON i.transaction_id = t.id WHERE t.user_id = $1 AND t.type = $2 AND i.item_name ILIKE $3) SELECT SUM(total_amount) as total FROM matching;",
  "params": ["%d", "expense", "%%coffee%%"]
}
---
User Question: %q`, userID, userID, userID, userMessage)
}
