package orchestration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mkovacic/halo-core/core/backend"
)

func TestTriageSMSRepliesWhenBackendSaysYes(t *testing.T) {
	o := NewOrchestrator(
		WithUserID(3),
		WithBackendClient(backendStub{
			decisionFunc: func(_ context.Context, userID int, text string) (backend.Decision, error) {
				if userID != 3 {
					t.Errorf("expected user ID 3, got %d", userID)
				}
				if text != "are you free tomorrow?" {
					t.Errorf("unexpected message body %q", text)
				}
				return backend.Decision{ShouldReply: true, ReplyText: "Yes, after noon."}, nil
			},
		}),
	)
	defer o.Close()

	action := o.TriageSMS(context.Background(), SMSEvent{Sender: "+14155551234", Body: "are you free tomorrow?"})
	if !action.Reply {
		t.Fatalf("expected a reply action, got %+v", action)
	}
	if action.ReplyText != "Yes, after noon." {
		t.Fatalf("unexpected reply text %q", action.ReplyText)
	}
}

func TestTriageSMSFailsClosed(t *testing.T) {
	for _, testCase := range []struct {
		name string
		stub backendStub
		sms  SMSEvent
	}{
		{
			name: "backend error",
			stub: backendStub{
				decisionFunc: func(context.Context, int, string) (backend.Decision, error) {
					return backend.Decision{}, errors.New("backend down")
				},
			},
			sms: SMSEvent{Body: "hello"},
		},
		{
			name: "backend says no",
			stub: backendStub{
				decisionFunc: func(context.Context, int, string) (backend.Decision, error) {
					return backend.Decision{ShouldReply: false, ReplyText: "should not be sent"}, nil
				},
			},
			sms: SMSEvent{Body: "hello"},
		},
		{
			name: "yes with empty reply",
			stub: backendStub{
				decisionFunc: func(context.Context, int, string) (backend.Decision, error) {
					return backend.Decision{ShouldReply: true, ReplyText: "   "}, nil
				},
			},
			sms: SMSEvent{Body: "hello"},
		},
		{
			name: "empty body never reaches backend",
			stub: backendStub{
				decisionFunc: func(context.Context, int, string) (backend.Decision, error) {
					return backend.Decision{}, errors.New("should not be called")
				},
			},
			sms: SMSEvent{Body: "   "},
		},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			o := NewOrchestrator(WithBackendClient(testCase.stub))
			defer o.Close()

			action := o.TriageSMS(context.Background(), testCase.sms)
			if action.Reply || action.ReplyText != "" {
				t.Fatalf("expected no action, got %+v", action)
			}
		})
	}
}

func TestTriageSMSBoundsSlowBackend(t *testing.T) {
	o := NewOrchestrator(
		WithTriageTimeout(20*time.Millisecond),
		WithBackendClient(backendStub{
			decisionFunc: func(ctx context.Context, _ int, _ string) (backend.Decision, error) {
				<-ctx.Done()
				return backend.Decision{}, ctx.Err()
			},
		}),
	)
	defer o.Close()

	start := time.Now()
	action := o.TriageSMS(context.Background(), SMSEvent{Body: "hello"})
	elapsed := time.Since(start)

	if action.Reply {
		t.Fatalf("expected no action from a timed-out decision, got %+v", action)
	}
	if elapsed > 500*time.Millisecond {
		t.Fatalf("expected triage to be bounded by its timeout, took %s", elapsed)
	}
}

func TestTriageSMSWithoutBackendTakesNoAction(t *testing.T) {
	o := NewOrchestrator()
	defer o.Close()

	action := o.TriageSMS(context.Background(), SMSEvent{Body: "hello"})
	if action.Reply {
		t.Fatalf("expected no action without a backend, got %+v", action)
	}
}
