package events

import (
	"strings"
	"time"
)

// Kind identifies an event type. Kinds are namespaced as "<source>.<name>",
// where the source names the subsystem that raises the event (user_input,
// recording, turn_state, assistant_playback, collaborator, command).
type Kind string

// Source returns the namespace segment of the kind.
func (k Kind) Source() string {
	source, _, _ := strings.Cut(string(k), ".")
	return source
}

// Event is the contract every orchestration event satisfies. Events are
// immutable values; the timestamp is fixed at construction.
type Event interface {
	Kind() Kind
	Timestamp() time.Time
}

// Base carries the fields shared by all events and is embedded by every
// concrete event type.
type Base struct {
	kind      Kind
	timestamp time.Time
}

// NewBase stamps a base for a concrete event being constructed now.
func NewBase(kind Kind) Base {
	return Base{kind: kind, timestamp: time.Now()}
}

func (b Base) Kind() Kind {
	return b.kind
}

func (b Base) Timestamp() time.Time {
	return b.timestamp
}
