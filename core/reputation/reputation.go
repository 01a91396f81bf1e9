// Package reputation classifies caller and sender identifiers into trust
// levels. The default heuristic is deliberately simple and is meant to be
// replaced by a richer lookup backend behind the same interface.
package reputation

import "context"

// Level is the trust classification for an identifier.
type Level string

const (
	LevelSafe       Level = "safe"
	LevelSuspicious Level = "suspicious"
	LevelBlocked    Level = "blocked"
)

// Service looks up the trust level for a caller or sender identifier. Lookups
// may involve network I/O and must honor ctx cancellation; callers bound the
// wait with a deadline.
type Service interface {
	Lookup(ctx context.Context, identifier string) (Level, error)
}
