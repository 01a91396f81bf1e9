package orchestration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mkovacic/halo-core/core/reputation"
)

func TestScreenCallFailsOpenOnLookupError(t *testing.T) {
	o := NewOrchestrator(
		WithReputationService(reputationStub{
			lookupFunc: func(context.Context, string) (reputation.Level, error) {
				return "", errors.New("service exploded")
			},
		}),
	)
	defer o.Close()

	decision := o.ScreenCall(context.Background(), CallEvent{CallerID: "4155551234"})
	if !decision.Allow {
		t.Fatalf("expected lookup failure to allow the call, got %+v", decision)
	}
	if decision.SuppressNotification {
		t.Fatalf("expected allowed call to keep its notification")
	}
}

func TestScreenCallFailsOpenOnTimeout(t *testing.T) {
	o := NewOrchestrator(
		WithScreeningTimeout(20*time.Millisecond),
		WithReputationService(reputationStub{
			lookupFunc: func(ctx context.Context, _ string) (reputation.Level, error) {
				select {
				case <-ctx.Done():
					return "", ctx.Err()
				case <-time.After(time.Second):
					return reputation.LevelBlocked, nil
				}
			},
		}),
	)
	defer o.Close()

	start := time.Now()
	decision := o.ScreenCall(context.Background(), CallEvent{CallerID: "4155551234"})
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("screening took too long: %v", elapsed)
	}
	if !decision.Allow {
		t.Fatalf("expected slow lookup to allow the call, got %+v", decision)
	}
}

func TestScreenCallBlockedTermOverridesReputation(t *testing.T) {
	o := NewOrchestrator(
		WithBlockedTerms("telemarketer"),
		WithReputationService(reputationStub{
			lookupFunc: func(context.Context, string) (reputation.Level, error) {
				return reputation.LevelSafe, nil
			},
		}),
	)
	defer o.Close()

	decision := o.ScreenCall(context.Background(), CallEvent{CallerID: "known-telemarketer-123"})
	if !decision.Reject {
		t.Fatalf("expected blocked term to reject the call, got %+v", decision)
	}
	if !decision.SuppressNotification {
		t.Fatalf("expected rejected call to suppress its notification")
	}
}

func TestScreenCallMapsReputationLevels(t *testing.T) {
	for _, testCase := range []struct {
		name     string
		level    reputation.Level
		expected func(CallDecision) bool
	}{
		{"safe is allowed", reputation.LevelSafe, func(d CallDecision) bool { return d.Allow }},
		{"suspicious is silenced", reputation.LevelSuspicious, func(d CallDecision) bool { return d.Silence && !d.SuppressNotification }},
		{"blocked is rejected", reputation.LevelBlocked, func(d CallDecision) bool { return d.Reject && d.SuppressNotification }},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			o := NewOrchestrator(
				WithReputationService(reputationStub{
					lookupFunc: func(context.Context, string) (reputation.Level, error) {
						return testCase.level, nil
					},
				}),
			)
			defer o.Close()

			decision := o.ScreenCall(context.Background(), CallEvent{CallerID: "4155551234"})
			if !testCase.expected(decision) {
				t.Fatalf("unexpected decision for level %q: %+v", testCase.level, decision)
			}
		})
	}
}

func TestScreenCallWithoutReputationServiceAllows(t *testing.T) {
	o := NewOrchestrator()
	defer o.Close()

	decision := o.ScreenCall(context.Background(), CallEvent{CallerID: "4155551234"})
	if !decision.Allow {
		t.Fatalf("expected call to be allowed without a reputation service, got %+v", decision)
	}
}

func TestScreenCallInvokesCallback(t *testing.T) {
	o := NewOrchestrator()
	defer o.Close()

	screened := make(chan CallDecision, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	o.Orchestrate(ctx,
		WithCallScreenedCallback(func(_ CallEvent, decision CallDecision) {
			screened <- decision
		}),
	)

	o.ScreenCall(context.Background(), CallEvent{CallerID: "4155551234"})

	select {
	case decision := <-screened:
		if !decision.Allow {
			t.Fatalf("expected allowed decision in callback, got %+v", decision)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for screening callback")
	}
}
