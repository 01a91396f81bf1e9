package orchestration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mkovacic/halo-core/core/backend"
	"github.com/mkovacic/halo-core/core/events"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const turnEventQueueCapacity = 32

const (
	connectivityFallbackPhrase = "I couldn't reach the assistant service. Please try again in a moment."
	genericFallbackPhrase      = "Sorry, something went wrong while handling that request."
)

type queuedEvent struct {
	event    events.Event
	queuedAt time.Time
}

// turnMachine owns the voice turn lifecycle. All state transitions happen on
// the single event loop goroutine; everything else talks to the machine by
// posting events.
type turnMachine struct {
	orchestrator *Orchestrator
	baseContext  context.Context

	queue   chan queuedEvent
	closeCh chan struct{}
	done    chan struct{}

	startOnce sync.Once
	endOnce   sync.Once
	started   atomic.Bool

	turnInFlight    atomic.Bool
	recordingActive atomic.Bool

	// Loop-owned state below; touched only by the event loop goroutine.
	state            TurnState
	recognizerReady  bool
	synthesizerReady bool
	session          *recordingSession
}

func newTurnMachine(orchestrator *Orchestrator) *turnMachine {
	return &turnMachine{
		orchestrator: orchestrator,
		baseContext:  context.Background(),
		state:        TurnStateIdle,
		queue:        make(chan queuedEvent, turnEventQueueCapacity),
		closeCh:      make(chan struct{}),
		done:         make(chan struct{}),
	}
}

func (m *turnMachine) configure(ctx context.Context) {
	if m == nil {
		return
	}

	m.baseContext = ctx
}

func (m *turnMachine) start() (started bool) {
	if m == nil || m.isClosed() {
		return false
	}

	m.startOnce.Do(func() {
		if m.isClosed() {
			return
		}

		started = true
		m.started.Store(true)
		m.transition(TurnStateInitializing)

		go func() {
			defer close(m.done)

			for {
				select {
				case <-m.closeCh:
					return
				case queued := <-m.queue:
					if m.isClosed() {
						return
					}
					m.handle(queued)
				}
			}
		}()
	})

	return started
}

func (m *turnMachine) end() {
	if m == nil {
		return
	}

	m.endOnce.Do(func() {
		close(m.closeCh)
	})
}

func (m *turnMachine) awaitCompletion() {
	if m == nil {
		return
	}

	if m.started.Load() {
		<-m.done
	}
}

func (m *turnMachine) isClosed() bool {
	if m == nil {
		return false
	}

	select {
	case <-m.closeCh:
		return true
	default:
		return false
	}
}

// post enqueues an event for the loop. Posting never blocks; under overload
// the event is dropped and logged so the loop cannot deadlock on itself.
func (m *turnMachine) post(event events.Event) bool {
	if m == nil || m.isClosed() {
		return false
	}

	select {
	case <-m.closeCh:
		return false
	case m.queue <- queuedEvent{event: event, queuedAt: time.Now()}:
		return true
	default:
		logger.Warn("event queue full, dropping event",
			"kind", string(event.Kind()),
			"source", event.Kind().Source())
		return false
	}
}

func (m *turnMachine) transition(to TurnState) {
	from := m.state
	if from == to {
		return
	}
	m.state = to

	m.orchestrator.status.update(func(status *StatusV0) {
		status.State = to
		status.Listening = to == TurnStateListening
		status.LastActivity = time.Now()
	})

	if callback := m.orchestrator.orchestrateOptions.onStateChanged; callback != nil {
		callback(from, to)
	}
}

func (m *turnMachine) handle(queued queuedEvent) {
	switch event := queued.event.(type) {
	case events.RecognizerReady:
		m.recognizerReady = true
		m.maybeFinishInitializing()

	case events.SynthesizerReady:
		m.synthesizerReady = true
		m.maybeFinishInitializing()

	case events.RecognizerFailed:
		m.recognizerReady = false
		m.fail(fmt.Errorf("speech recognizer failed: %w", event.Err))

	case events.SynthesizerFailed:
		m.synthesizerReady = false
		m.fail(fmt.Errorf("speech synthesizer failed: %w", event.Err))

	case events.UserTranscriptInterim:
		if m.session.IsOpen() {
			return
		}
		if callback := m.orchestrator.orchestrateOptions.onInterimTranscription; callback != nil {
			callback(event.Transcript)
		}

	case events.UserTranscriptFinal:
		m.handleFinalTranscript(event.Transcript)

	case events.UserAudioFrame:
		m.session.Offer(event.Audio)

	case events.RecordingClosed:
		// A close posted by an earlier session's timer can arrive after a new
		// session has already been opened; only the current session's close
		// counts.
		if m.session == nil || m.session.id != event.SessionID {
			return
		}
		m.session = nil
		m.recordingActive.Store(false)
		m.orchestrator.status.update(func(status *StatusV0) {
			status.Recording = false
			status.LastActivity = time.Now()
		})
		if callback := m.orchestrator.orchestrateOptions.onRecordingStateChanged; callback != nil {
			callback(false)
		}
		logger.Debug("recording session closed", "reason", event.Reason)

	case events.TurnReplyReady:
		m.deliverReply(event)

	case events.PlaybackEnded:
		m.turnInFlight.Store(false)
		if m.state == TurnStateSpeaking {
			m.transition(TurnStateListening)
		}

	case events.PlaybackFailed:
		m.recoverPlayback(event.Err)

	case events.PauseRequested:
		m.session.Cancel()
		m.transition(TurnStateIdle)

	case events.ResumeRequested:
		if m.state != TurnStateIdle && m.state != TurnStateError {
			return
		}
		m.orchestrator.status.update(func(status *StatusV0) {
			status.LastError = ""
		})
		if m.recognizerReady && m.synthesizerReady {
			m.transition(TurnStateListening)
		} else {
			m.transition(TurnStateInitializing)
		}

	case events.StopRecordingRequested:
		m.session.Stop()
	}
}

func (m *turnMachine) maybeFinishInitializing() {
	if m.state != TurnStateInitializing {
		return
	}

	if m.recognizerReady && m.synthesizerReady {
		m.transition(TurnStateListening)
	}
}

// recoverPlayback handles a playback fault. Playback faults are transient:
// the turn is over either way, so the loop returns to listening with the
// error surfaced in status.
func (m *turnMachine) recoverPlayback(err error) {
	m.turnInFlight.Store(false)

	recordedErr := fmt.Errorf("assistant playback failed: %w", err)
	span := trace.SpanFromContext(m.baseContext)
	span.RecordError(recordedErr)
	m.orchestrator.status.update(func(status *StatusV0) {
		status.LastError = recordedErr.Error()
	})

	if m.state == TurnStateSpeaking {
		m.transition(TurnStateListening)
	}
}

func (m *turnMachine) fail(err error) {
	span := trace.SpanFromContext(m.baseContext)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	m.session.Cancel()
	m.orchestrator.status.update(func(status *StatusV0) {
		status.LastError = err.Error()
	})
	m.transition(TurnStateError)
}

func (m *turnMachine) handleFinalTranscript(transcript string) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return
	}

	// A paused loop ignores speech entirely.
	if m.state == TurnStateIdle {
		return
	}

	recording := m.session.IsOpen()

	remainder, woken := stripWakePhrase(transcript, m.orchestrator.wakePhrase)
	if woken {
		if m.state != TurnStateListening {
			logger.Debug("dropped wake utterance outside listening state", "state", string(m.state))
			return
		}

		if !recording {
			m.openRecording()
		}

		// The wake phrase alone never reaches the backend; only what follows
		// it qualifies as a turn.
		if remainder != "" {
			m.startTurn(remainder)
		}
		return
	}

	// Speech heard during a recording session belongs to the recording.
	if recording {
		return
	}

	if callback := m.orchestrator.orchestrateOptions.onTranscription; callback != nil {
		callback(transcript)
	}

	if m.state != TurnStateListening {
		logger.Debug("dropped final transcript outside listening state", "state", string(m.state))
		return
	}

	m.startTurn(transcript)
}

func (m *turnMachine) openRecording() {
	if m.session.IsOpen() {
		return
	}

	m.session = newRecordingSession(m.orchestrator.recordingWindow, func(id, reason string) {
		m.post(events.NewRecordingClosed(id, reason))
	})
	m.recordingActive.Store(true)
	m.orchestrator.status.update(func(status *StatusV0) {
		status.Recording = true
		status.LastActivity = time.Now()
	})
	if callback := m.orchestrator.orchestrateOptions.onRecordingStateChanged; callback != nil {
		callback(true)
	}
}

func (m *turnMachine) startTurn(input string) {
	if !m.turnInFlight.CompareAndSwap(false, true) {
		logger.Debug("dropped utterance while turn in flight", "input", input)
		return
	}

	m.transition(TurnStateProcessing)
	go m.processTurn(m.baseContext, input)
}

func (m *turnMachine) processTurn(ctx context.Context, input string) {
	ctx, span := tracer.Start(ctx, "process turn")
	defer span.End()
	span.SetAttributes(attribute.Int("turn.queued_events", len(m.queue)))

	reply, err := m.orchestrator.backend.ProcessConversation(ctx, m.orchestrator.userID, input)
	fallback := false
	if err != nil {
		recordedErr := fmt.Errorf("failed to process conversation turn: %w", err)
		span.RecordError(recordedErr)
		span.SetStatus(codes.Error, recordedErr.Error())

		fallback = true
		if errors.Is(err, backend.ErrUnavailable) {
			reply = connectivityFallbackPhrase
		} else {
			reply = genericFallbackPhrase
		}
	}

	m.post(events.NewTurnReplyReady(input, reply, fallback))
}

func (m *turnMachine) deliverReply(reply events.TurnReplyReady) {
	if m.state != TurnStateProcessing {
		m.turnInFlight.Store(false)
		return
	}

	m.transition(TurnStateSpeaking)

	exchange := newConversationExchange(m.orchestrator.userID, reply.Input, reply.Reply, reply.Fallback)
	if callback := m.orchestrator.orchestrateOptions.onExchange; callback != nil {
		callback(exchange)
	}
	if callback := m.orchestrator.orchestrateOptions.onUtterance; callback != nil {
		callback(reply.Reply, reply.Fallback)
	}

	if err := m.orchestrator.textToSpeech.Speak(reply.Reply); err != nil {
		m.recoverPlayback(fmt.Errorf("failed to speak reply: %w", err))
	}
}

// stripWakePhrase reports whether the wake phrase occurs in the transcript
// and returns whatever follows it, trimmed of surrounding punctuation.
// Matching is case-insensitive.
func stripWakePhrase(transcript, wakePhrase string) (string, bool) {
	phrase := strings.ToLower(strings.TrimSpace(wakePhrase))
	if phrase == "" {
		return "", false
	}

	idx := strings.Index(strings.ToLower(transcript), phrase)
	if idx < 0 {
		return "", false
	}

	remainder := transcript[min(idx+len(phrase), len(transcript)):]
	return strings.Trim(remainder, " ,.!?"), true
}
