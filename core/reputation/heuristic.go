package reputation

import (
	"context"
	"strings"
)

var tollFreePrefixes = []string{"800", "833", "844", "855", "866", "877", "888"}

// Heuristic is the built-in reputation policy used when no lookup backend is
// configured. It never errors and never blocks.
type Heuristic struct{}

func NewHeuristic() Heuristic {
	return Heuristic{}
}

// Lookup classifies an identifier by shape alone:
//
//   - missing or empty identifier: Suspicious
//   - fewer than 7 digits after normalization: Suspicious
//   - explicit country-code prefix ("+"): Safe
//   - toll-free prefix (800/833/844/855/866/877/888): Suspicious
//   - anything else: Safe
func (Heuristic) Lookup(_ context.Context, identifier string) (Level, error) {
	trimmed := strings.TrimSpace(identifier)
	if trimmed == "" {
		return LevelSuspicious, nil
	}

	digits := normalizeDigits(trimmed)
	if len(digits) < 7 {
		return LevelSuspicious, nil
	}

	if strings.HasPrefix(trimmed, "+") {
		return LevelSafe, nil
	}

	for _, prefix := range tollFreePrefixes {
		if strings.HasPrefix(digits, prefix) {
			return LevelSuspicious, nil
		}
	}

	return LevelSafe, nil
}

func normalizeDigits(identifier string) string {
	builder := strings.Builder{}
	for _, r := range identifier {
		if r >= '0' && r <= '9' {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}
