// Package orchestration wires speech recognition, synthesis, the
// conversation backend, and communication triage into a single voice
// assistant loop.
package orchestration

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mkovacic/halo-core/core/events"
	"github.com/mkovacic/halo-core/internal/utils"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultWakePhrase      = "hey halo"
	defaultRecordingWindow = 5 * time.Second
)

type Orchestrator struct {
	wakePhrase      string
	recordingWindow time.Duration
	userID          int

	machine   *turnMachine
	status    *statusBoard
	closeOnce sync.Once

	// speechToText is the STT facade used to handle optional client wiring.
	speechToText speechToText
	// textToSpeech is the TTS facade used to handle optional client wiring.
	textToSpeech textToSpeech
	// backend is the conversation backend facade.
	backend conversationBackend
	// audioInput is the input facade used to normalize capture behavior.
	audioInput audioInput

	screener *callScreener
	triage   *smsTriage

	orchestrateOptions OrchestrateOptions
	baseContext        context.Context
}

func NewOrchestrator(opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		wakePhrase:      defaultWakePhrase,
		recordingWindow: defaultRecordingWindow,
		baseContext:     context.Background(),
		status:          newStatusBoard(),
	}

	o.machine = newTurnMachine(o)

	o.speechToText = *newSpeechToText(nil)
	o.speechToText.SetEventEmitter(func(event events.Event) { o.machine.post(event) })

	o.textToSpeech = *newTextToSpeech(nil)
	o.textToSpeech.SetEventEmitter(func(event events.Event) { o.machine.post(event) })
	o.textToSpeech.SetAudioSink(func(audio []byte) {
		if o.orchestrateOptions.onAssistantAudio != nil {
			o.orchestrateOptions.onAssistantAudio(audio)
		}
	})

	o.backend = *newConversationBackend(nil)
	o.screener = newCallScreener(nil)
	o.triage = newSMSTriage(&o.backend)

	o.audioInput = *newAudioInput(nil, func(audio []byte) {
		if o.orchestrateOptions.onInputAudio != nil {
			o.orchestrateOptions.onInputAudio(audio)
		}

		o.speechToText.SendAudio(audio)

		if o.machine.recordingActive.Load() {
			o.machine.post(events.NewUserAudioFrame(audio))
		}
	})

	for _, opt := range opts {
		opt(o)
	}

	return o
}

func (o *Orchestrator) Close() {
	o.closeOnce.Do(func() {
		o.machine.end()

		if err := o.audioInput.Close(); err != nil {
			recordedErr := fmt.Errorf("failed to close audio input: %w", err)
			span := trace.SpanFromContext(o.baseContext)
			span.RecordError(recordedErr)
			span.SetStatus(codes.Error, recordedErr.Error())
		}

		if err := o.speechToText.Close(o.baseContext); err != nil {
			recordedErr := fmt.Errorf("failed to close speech-to-text client: %w", err)
			span := trace.SpanFromContext(o.baseContext)
			span.RecordError(recordedErr)
			span.SetStatus(codes.Error, recordedErr.Error())
		}

		if err := o.textToSpeech.Close(o.baseContext); err != nil {
			recordedErr := fmt.Errorf("failed to close text-to-speech client: %w", err)
			span := trace.SpanFromContext(o.baseContext)
			span.RecordError(recordedErr)
			span.SetStatus(codes.Error, recordedErr.Error())
		}

		o.machine.awaitCompletion()
	})
}

// Orchestrate starts the voice turn loop and connects the configured
// collaborators.
//
// ctx is used as a base context for turn processing and collaborator
// streams, allowing for cancellation.
//
// Contract: call Orchestrate at most once per orchestrator instance.
// Repeated or concurrent calls are unsupported and may race while options
// are being reconfigured.
func (o *Orchestrator) Orchestrate(ctx context.Context, opts ...OrchestrateOption) {
	if o.machine.isClosed() {
		logger.Warn("orchestrator already closed, skipping Orchestrate")
		return
	}

	o.orchestrateOptions = OrchestrateOptions{}
	for _, opt := range opts {
		opt(&o.orchestrateOptions)
	}

	o.baseContext = ctx
	o.machine.configure(ctx)

	if started := o.machine.start(); started {
		go func() {
			<-ctx.Done()
			o.Close()
		}()
	}

	encodingInfo := o.audioInput.EncodingInfo()

	if err := o.textToSpeech.Start(ctx, utils.Ptr(encodingInfo)); err != nil {
		recordedErr := fmt.Errorf("failed to initialize text-to-speech: %w", err)
		span := trace.SpanFromContext(ctx)
		span.RecordError(recordedErr)
		span.SetStatus(codes.Error, recordedErr.Error())
		o.machine.post(events.NewSynthesizerFailed(recordedErr))
	}

	if err := o.speechToText.Start(ctx, utils.Ptr(encodingInfo)); err != nil {
		recordedErr := fmt.Errorf("failed to initialize speech-to-text: %w", err)
		span := trace.SpanFromContext(ctx)
		span.RecordError(recordedErr)
		span.SetStatus(codes.Error, recordedErr.Error())
		o.machine.post(events.NewRecognizerFailed(recordedErr))
	}

	o.audioInput.Start(ctx)
}

// Status returns a point-in-time snapshot of orchestrator state.
func (o *Orchestrator) Status() StatusV0 {
	return o.status.Snapshot()
}

// Pause parks the turn loop in the idle state and cancels any open recording
// session.
func (o *Orchestrator) Pause() { o.machine.post(events.NewPauseRequested()) }

// Resume returns a paused or errored loop to listening, or back to
// initializing when collaborators are not ready.
func (o *Orchestrator) Resume() { o.machine.post(events.NewResumeRequested()) }

// StopRecording closes the open recording session, if any.
func (o *Orchestrator) StopRecording() { o.machine.post(events.NewStopRecordingRequested()) }

// SendTranscript injects a final transcript, bypassing the recognizer. It
// goes through the same wake phrase handling as recognized speech.
func (o *Orchestrator) SendTranscript(transcript string) {
	o.machine.post(events.NewUserTranscriptFinal(transcript))
}

// SendAudio forwards captured audio to the recognizer, bypassing the
// configured audio input.
func (o *Orchestrator) SendAudio(audio []byte) error { return o.speechToText.SendAudio(audio) }

// ScreenCall decides what to do with an incoming call. Screening is
// independent of the voice turn loop and may be called at any time.
func (o *Orchestrator) ScreenCall(ctx context.Context, call CallEvent) CallDecision {
	decision := o.screener.Screen(ctx, call)
	if callback := o.orchestrateOptions.onCallScreened; callback != nil {
		callback(call, decision)
	}
	return decision
}

// TriageSMS decides whether an incoming text message warrants an automated
// reply. Triage is independent of the voice turn loop and may be called at
// any time.
func (o *Orchestrator) TriageSMS(ctx context.Context, sms SMSEvent) SMSAction {
	action := o.triage.Triage(ctx, o.userID, sms)
	if callback := o.orchestrateOptions.onSMSTriaged; callback != nil {
		callback(sms, action)
	}
	return action
}
