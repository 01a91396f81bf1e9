package orchestration

import (
	"context"
	"testing"
	"time"

	"github.com/mkovacic/halo-core/core/backend"
	"github.com/mkovacic/halo-core/core/reputation"
	"github.com/mkovacic/halo-core/core/texttospeech"
)

type backendStub struct {
	processFunc  func(ctx context.Context, userID int, text string) (string, error)
	decisionFunc func(ctx context.Context, userID int, text string) (backend.Decision, error)
}

func (s backendStub) ProcessConversation(ctx context.Context, userID int, text string) (string, error) {
	if s.processFunc != nil {
		return s.processFunc(ctx, userID, text)
	}
	return "stub reply", nil
}

func (s backendStub) MakeSMSDecision(ctx context.Context, userID int, text string) (backend.Decision, error) {
	if s.decisionFunc != nil {
		return s.decisionFunc(ctx, userID, text)
	}
	return backend.Decision{}, nil
}

type synthesizerStub struct {
	sendTextFunc func(text string) error
	flushFunc    func() error
}

func (s synthesizerStub) OpenStream(_ context.Context, opts ...texttospeech.TextToSpeechOption) error {
	options := texttospeech.TextToSpeechOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	if options.ReadyCallback != nil {
		options.ReadyCallback()
	}
	return nil
}

func (s synthesizerStub) SendText(text string) error {
	if s.sendTextFunc != nil {
		return s.sendTextFunc(text)
	}
	return nil
}

func (s synthesizerStub) FlushBuffer() error {
	if s.flushFunc != nil {
		return s.flushFunc()
	}
	return nil
}

type reputationStub struct {
	lookupFunc func(ctx context.Context, identifier string) (reputation.Level, error)
}

func (s reputationStub) Lookup(ctx context.Context, identifier string) (reputation.Level, error) {
	if s.lookupFunc != nil {
		return s.lookupFunc(ctx, identifier)
	}
	return reputation.LevelSafe, nil
}

func waitForCondition(t *testing.T, timeout time.Duration, check func() bool, description string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if check() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", description)
}

func waitForState(t *testing.T, o *Orchestrator, state TurnState) {
	t.Helper()

	waitForCondition(t, 2*time.Second, func() bool {
		return o.Status().State == state
	}, "state "+string(state))
}
