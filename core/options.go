package orchestration

import (
	"context"
	"strings"
	"time"

	"github.com/mkovacic/halo-core/core/audio"
	"github.com/mkovacic/halo-core/core/backend"
	"github.com/mkovacic/halo-core/core/reputation"
	"github.com/mkovacic/halo-core/core/speechtotext"
	"github.com/mkovacic/halo-core/core/texttospeech"
)

type OrchestratorOption func(*Orchestrator)

type SpeechToText interface {
	Transcribe(ctx context.Context, opts ...speechtotext.TranscriptionOption) error
	SendAudio(audio []byte) error
}

func WithSpeechToTextClient(client SpeechToText) OrchestratorOption {
	return func(o *Orchestrator) {
		o.speechToText.set(client)
	}
}

type TextToSpeech interface {
	OpenStream(ctx context.Context, opts ...texttospeech.TextToSpeechOption) error
	SendText(text string) error
	FlushBuffer() error
}

func WithTextToSpeechClient(client TextToSpeech) OrchestratorOption {
	return func(o *Orchestrator) {
		o.textToSpeech.set(client)
	}
}

type ConversationBackend interface {
	ProcessConversation(ctx context.Context, userID int, text string) (string, error)
	MakeSMSDecision(ctx context.Context, userID int, text string) (backend.Decision, error)
}

func WithBackendClient(client ConversationBackend) OrchestratorOption {
	return func(o *Orchestrator) {
		o.backend.set(client)
	}
}

func WithReputationService(service reputation.Service) OrchestratorOption {
	return func(o *Orchestrator) {
		o.screener.service = service
	}
}

type AudioInput interface {
	EncodingInfo() audio.EncodingInfo
	Stream(ctx context.Context, onAudio func(audio []byte)) error
	Close()
}

func WithAudioInput(client AudioInput) OrchestratorOption {
	return func(o *Orchestrator) { o.audioInput.set(client) }
}

// WithWakePhrase overrides the phrase that qualifies a final transcript for a
// turn. Matching is case-insensitive.
func WithWakePhrase(phrase string) OrchestratorOption {
	return func(o *Orchestrator) {
		if phrase = strings.TrimSpace(phrase); phrase != "" {
			o.wakePhrase = phrase
		}
	}
}

// WithRecordingWindow overrides how long a recording session stays open after
// the wake phrase is heard.
func WithRecordingWindow(window time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		if window > 0 {
			o.recordingWindow = window
		}
	}
}

// WithScreeningTimeout bounds how long a call screening decision may wait on
// the reputation service before failing open.
func WithScreeningTimeout(timeout time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		if timeout > 0 {
			o.screener.timeout = timeout
		}
	}
}

// WithTriageTimeout bounds how long an SMS triage decision may wait on the
// backend before failing closed.
func WithTriageTimeout(timeout time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		if timeout > 0 {
			o.triage.timeout = timeout
		}
	}
}

// WithBlockedTerms registers caller identifier substrings that short-circuit
// screening to a rejection, regardless of reputation.
func WithBlockedTerms(terms ...string) OrchestratorOption {
	return func(o *Orchestrator) {
		for _, term := range terms {
			if term = strings.TrimSpace(strings.ToLower(term)); term != "" {
				o.screener.blockedTerms = append(o.screener.blockedTerms, term)
			}
		}
	}
}

func WithUserID(userID int) OrchestratorOption {
	return func(o *Orchestrator) { o.userID = userID }
}

type OrchestrateOptions struct {
	onStateChanged          func(from TurnState, to TurnState)
	onTranscription         func(transcript string)
	onInterimTranscription  func(transcript string)
	onExchange              func(exchange ConversationExchange)
	onCallScreened          func(call CallEvent, decision CallDecision)
	onSMSTriaged            func(sms SMSEvent, action SMSAction)
	onRecordingStateChanged func(isRecording bool)
	onInputAudio            func(audio []byte)
	onAssistantAudio        func(audio []byte)
	onUtterance             func(utterance string, fallback bool)
}

type OrchestrateOption func(*OrchestrateOptions)

// WithStateChangedCallback registers a callback for turn state transitions.
//
// The callback runs on the event loop goroutine, so transitions are delivered
// in order. It should not block.
func WithStateChangedCallback(callback func(from TurnState, to TurnState)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onStateChanged = callback
	}
}

// WithTranscriptionCallback registers a callback for final transcriptions
// produced by the configured speech-to-text client.
//
// Finals heard while a recording session is open are not forwarded.
func WithTranscriptionCallback(callback func(transcript string)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onTranscription = callback
	}
}

// WithInterimTranscriptionCallback registers a callback for interim
// transcriptions produced by the configured speech-to-text client.
func WithInterimTranscriptionCallback(callback func(transcript string)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onInterimTranscription = callback
	}
}

// WithExchangeCallback registers a callback for completed conversation
// exchanges, fallback replies included.
func WithExchangeCallback(callback func(exchange ConversationExchange)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onExchange = callback
	}
}

func WithCallScreenedCallback(callback func(call CallEvent, decision CallDecision)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onCallScreened = callback
	}
}

func WithSMSTriagedCallback(callback func(sms SMSEvent, action SMSAction)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onSMSTriaged = callback
	}
}

func WithRecordingStateChangedCallback(callback func(isRecording bool)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onRecordingStateChanged = callback
	}
}

// WithInputAudioCallback registers a callback for raw input audio chunks.
//
// The provided slice is passed through as-is (no defensive copy). The
// callback runs inline on the input-audio path and should not block.
func WithInputAudioCallback(callback func(audio []byte)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onInputAudio = callback
	}
}

// WithAssistantAudioCallback registers a callback for synthesized reply
// audio, typically wired to a playback device.
func WithAssistantAudioCallback(callback func(audio []byte)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onAssistantAudio = callback
	}
}

// WithUtteranceCallback registers a callback for reply utterances as they are
// handed to the synthesizer. fallback is true when the utterance is a canned
// phrase rather than a backend reply.
func WithUtteranceCallback(callback func(utterance string, fallback bool)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onUtterance = callback
	}
}
