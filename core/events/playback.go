package events

const (
	// KindPlaybackEnded identifies synthesizer playback completion.
	KindPlaybackEnded Kind = "assistant_playback.ended"
	// KindPlaybackFailed identifies a synthesizer playback failure.
	KindPlaybackFailed Kind = "assistant_playback.failed"
)

// PlaybackEnded marks the end of playback for the in-flight turn's utterance.
type PlaybackEnded struct {
	Base
	Utterance string
}

// NewPlaybackEnded creates a playback ended event.
func NewPlaybackEnded(utterance string) PlaybackEnded {
	return PlaybackEnded{Base: NewBase(KindPlaybackEnded), Utterance: utterance}
}

// PlaybackFailed carries a playback failure. The failure is
// recoverable-transient: the turn completes and the machine returns to
// Listening.
type PlaybackFailed struct {
	Base
	Err error
}

// NewPlaybackFailed creates a playback failed event.
func NewPlaybackFailed(err error) PlaybackFailed {
	return PlaybackFailed{Base: NewBase(KindPlaybackFailed), Err: err}
}
