package orchestration

import (
	"context"
	"testing"
	"time"
)

func TestCloseBeforeOrchestrateMarksClosed(t *testing.T) {
	o := NewOrchestrator()
	o.Close()

	if !o.machine.isClosed() {
		t.Fatalf("expected orchestrator to be closed")
	}

	o.Orchestrate(context.Background())
	if !o.machine.isClosed() {
		t.Fatalf("expected orchestrator to stay closed")
	}
}

func TestOrchestrateReachesListeningWithoutCollaborators(t *testing.T) {
	o := NewOrchestrator()
	defer o.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	o.Orchestrate(ctx)

	waitForState(t, o, TurnStateListening)

	status := o.Status()
	if status.Recording {
		t.Fatalf("expected no recording session on a fresh loop")
	}
	if status.LastError != "" {
		t.Fatalf("expected no error on a fresh loop, got %q", status.LastError)
	}
}

func TestContextCancellationClosesOrchestrator(t *testing.T) {
	o := NewOrchestrator()

	ctx, cancel := context.WithCancel(context.Background())
	o.Orchestrate(ctx)
	waitForState(t, o, TurnStateListening)

	cancel()

	waitForCondition(t, 2*time.Second, func() bool {
		return o.machine.isClosed()
	}, "orchestrator to close after context cancellation")
}

func TestStatusSnapshotIsDetached(t *testing.T) {
	o := NewOrchestrator()
	defer o.Close()

	before := o.Status()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	o.Orchestrate(ctx)
	waitForState(t, o, TurnStateListening)

	if before.State != TurnStateIdle {
		t.Fatalf("expected earlier snapshot to keep its state, got %q", before.State)
	}
}

func TestPlainFinalTranscriptStartsTurn(t *testing.T) {
	o := NewOrchestrator(
		WithWakePhrase("hey jarvis"),
		WithBackendClient(backendStub{}),
	)
	defer o.Close()

	transcripts := make(chan string, 1)
	exchanges := make(chan ConversationExchange, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	o.Orchestrate(ctx,
		WithTranscriptionCallback(func(transcript string) {
			select {
			case transcripts <- transcript:
			default:
			}
		}),
		WithExchangeCallback(func(exchange ConversationExchange) {
			select {
			case exchanges <- exchange:
			default:
			}
		}),
	)

	waitForState(t, o, TurnStateListening)
	o.SendTranscript("what is the weather like")

	select {
	case transcript := <-transcripts:
		if transcript != "what is the weather like" {
			t.Fatalf("unexpected transcript %q", transcript)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for transcript callback")
	}

	select {
	case exchange := <-exchanges:
		if exchange.InputText != "what is the weather like" {
			t.Fatalf("expected the full transcript to reach the backend, got %q", exchange.InputText)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for exchange")
	}

	waitForState(t, o, TurnStateListening)
}
