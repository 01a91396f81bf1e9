package events

// KindTurnReplyReady identifies backend round-trip completion for a turn.
const KindTurnReplyReady Kind = "turn_state.reply_ready"

// TurnReplyReady carries the reply produced for the in-flight turn. A turn
// always produces a reply: on backend failure Reply holds a fallback phrase
// and Fallback is set.
type TurnReplyReady struct {
	Base
	Input    string
	Reply    string
	Fallback bool
}

// NewTurnReplyReady creates a turn reply ready event.
func NewTurnReplyReady(input, reply string, fallback bool) TurnReplyReady {
	return TurnReplyReady{Base: NewBase(KindTurnReplyReady), Input: input, Reply: reply, Fallback: fallback}
}
