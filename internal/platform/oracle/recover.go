package oracle

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/whatsapp-ledger-assistant/internal/domain/chat"
)

var fencedBlockRegex = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

// RecoverJSON pulls a JSON object out of a raw model response. The model is
// told to emit pure JSON but routinely wraps it in code fences or surrounds
// it with prose, so recovery tries a fenced block first and falls back to the
// outermost brace pair.
func RecoverJSON(text string) (string, error) {
	if match := fencedBlockRegex.FindStringSubmatch(text); match != nil {
		return strings.TrimSpace(match[1]), nil
	}

	firstBrace := strings.Index(text, "{")
	lastBrace := strings.LastIndex(text, "}")
	if firstBrace == -1 || lastBrace == -1 || lastBrace < firstBrace {
		return "", fmt.Errorf("%w: no JSON object found in response", chat.ErrMalformedOracleOutput)
	}

	return text[firstBrace : lastBrace+1], nil
}
