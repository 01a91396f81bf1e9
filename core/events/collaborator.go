package events

const (
	// KindRecognizerReady identifies recognizer readiness.
	KindRecognizerReady Kind = "collaborator.recognizer_ready"
	// KindRecognizerFailed identifies a recognizer initialization failure.
	KindRecognizerFailed Kind = "collaborator.recognizer_failed"
	// KindSynthesizerReady identifies synthesizer readiness.
	KindSynthesizerReady Kind = "collaborator.synthesizer_ready"
	// KindSynthesizerFailed identifies a synthesizer initialization failure.
	KindSynthesizerFailed Kind = "collaborator.synthesizer_failed"
)

// RecognizerReady marks the speech recognizer as ready to transcribe.
type RecognizerReady struct{ Base }

// NewRecognizerReady creates a recognizer ready event.
func NewRecognizerReady() RecognizerReady {
	return RecognizerReady{Base: NewBase(KindRecognizerReady)}
}

// RecognizerFailed carries a recognizer initialization failure.
type RecognizerFailed struct {
	Base
	Err error
}

// NewRecognizerFailed creates a recognizer failure event.
func NewRecognizerFailed(err error) RecognizerFailed {
	return RecognizerFailed{Base: NewBase(KindRecognizerFailed), Err: err}
}

// SynthesizerReady marks the speech synthesizer as ready to speak.
type SynthesizerReady struct{ Base }

// NewSynthesizerReady creates a synthesizer ready event.
func NewSynthesizerReady() SynthesizerReady {
	return SynthesizerReady{Base: NewBase(KindSynthesizerReady)}
}

// SynthesizerFailed carries a synthesizer initialization failure.
type SynthesizerFailed struct {
	Base
	Err error
}

// NewSynthesizerFailed creates a synthesizer failure event.
func NewSynthesizerFailed(err error) SynthesizerFailed {
	return SynthesizerFailed{Base: NewBase(KindSynthesizerFailed), Err: err}
}
