// Package reportgen synthesizes read-only report queries from natural
// language questions. The model writes the SQL, but it is untrusted input
// that will be executed against the store, so every synthesized query is
// re-validated in code before it is allowed anywhere near the executor.
package reportgen

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/whatsapp-ledger-assistant/internal/domain/chat"
	"github.com/whatsapp-ledger-assistant/internal/platform/oracle"
)

var (
	ownershipClauseRegex = regexp.MustCompile(`(?i)user_id\s*=\s*\$1`)

	// Statement-level verbs that must never appear in a report query.
	// Word boundaries keep column names like created_at from matching.
	forbiddenVerbRegex = regexp.MustCompile(`(?i)\b(INSERT|UPDATE|DELETE|DROP|ALTER|TRUNCATE|CREATE|GRANT|REVOKE|COPY|MERGE|CALL|EXECUTE|VACUUM|SET|RESET)\b`)
)

// Generator turns a user question into a validated chat.ReportQuery
type Generator struct {
	oracle oracle.Oracle
	logger *slog.Logger
}

// NewGenerator creates a new report query generator
func NewGenerator(logger *slog.Logger, o oracle.Oracle) *Generator {
	return &Generator{
		oracle: o,
		logger: logger,
	}
}

// Synthesize asks the model for a report query answering the question, then
// re-validates it for the given user. The returned query has passed the
// read-only and ownership checks.
func (g *Generator) Synthesize(ctx context.Context, question string, userID int64) (*chat.ReportQuery, error) {
	response, err := g.oracle.Generate(ctx, reportPrompt(question, userID))
	if err != nil {
		return nil, fmt.Errorf("report query synthesis: %w", err)
	}

	jsonText, err := oracle.RecoverJSON(response)
	if err != nil {
		g.logger.Warn("Could not locate JSON in synthesizer response", "response_chars", len(response))
		return nil, err
	}

	var query chat.ReportQuery
	if err := json.Unmarshal([]byte(jsonText), &query); err != nil {
		g.logger.Warn("Synthesizer response is not valid JSON", "error", err)
		return nil, fmt.Errorf("%w: %v", chat.ErrMalformedOracleOutput, err)
	}

	if err := ValidateQuery(&query, userID); err != nil {
		g.logger.Warn("Synthesized query rejected", "user_id", userID, "error", err)
		return nil, err
	}

	g.logger.Debug("Report query synthesized", "user_id", userID, "params", len(query.Params))
	return &query, nil
}

// ValidateQuery enforces the safety contract on a synthesized query: a
// single read-only statement, scoped to the user by an ownership clause
// whose first bound parameter literally equals the user's id. Any violation
// means the query must never execute.
func ValidateQuery(q *chat.ReportQuery, userID int64) error {
	trimmed := strings.TrimSpace(q.Query)
	if trimmed == "" {
		return fmt.Errorf("%w: empty query", chat.ErrUnsafeQuery)
	}

	// A trailing semicolon is tolerated; an interior one means a second
	// statement is smuggled in.
	body := strings.TrimRight(trimmed, "; \t\r\n")
	if strings.Contains(body, ";") {
		return fmt.Errorf("%w: multiple statements", chat.ErrUnsafeQuery)
	}

	head := strings.ToUpper(firstWord(body))
	if head != "SELECT" && head != "WITH" {
		return fmt.Errorf("%w: statement must start with SELECT or WITH, got %q", chat.ErrUnsafeQuery, head)
	}

	if match := forbiddenVerbRegex.FindString(body); match != "" {
		return fmt.Errorf("%w: forbidden keyword %q", chat.ErrUnsafeQuery, strings.ToUpper(match))
	}

	if !ownershipClauseRegex.MatchString(body) {
		return fmt.Errorf("%w: missing user_id = $1 ownership clause", chat.ErrUnsafeQuery)
	}

	if len(q.Params) == 0 {
		return fmt.Errorf("%w: no bound parameters", chat.ErrUnsafeQuery)
	}
	// Params arrive from JSON as strings or float64s; compare textually.
	if fmt.Sprint(q.Params[0]) != strconv.FormatInt(userID, 10) {
		return fmt.Errorf("%w: first parameter %v does not match user id %d", chat.ErrUnsafeQuery, q.Params[0], userID)
	}

	return nil
}

func firstWord(s string) string {
	for i, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '(' {
			return s[:i]
		}
	}
	return s
}
