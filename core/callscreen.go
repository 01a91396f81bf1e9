package orchestration

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mkovacic/halo-core/core/reputation"
	"go.opentelemetry.io/otel/attribute"
)

const defaultScreeningTimeout = 1500 * time.Millisecond

// CallEvent describes one incoming call to screen.
type CallEvent struct {
	CallerID   string
	CallerName string
	ReceivedAt time.Time
}

// CallDecision is the screening outcome for one call. Exactly one of Allow,
// Silence, or Reject is set.
type CallDecision struct {
	Allow   bool
	Silence bool
	Reject  bool

	// SuppressNotification is set when the call should not surface any user
	// visible alert.
	SuppressNotification bool

	Reputation reputation.Level
	Reason     string
}

func allowedCallDecision(level reputation.Level, reason string) CallDecision {
	return CallDecision{Allow: true, Reputation: level, Reason: reason}
}

func silencedCallDecision(level reputation.Level, reason string) CallDecision {
	return CallDecision{Silence: true, Reputation: level, Reason: reason}
}

func rejectedCallDecision(level reputation.Level, reason string) CallDecision {
	return CallDecision{Reject: true, SuppressNotification: true, Reputation: level, Reason: reason}
}

// callScreener decides what to do with incoming calls. Screening must never
// hold a legitimate call hostage to a slow or broken reputation lookup, so
// every failure path resolves to an allowed decision.
type callScreener struct {
	service      reputation.Service
	timeout      time.Duration
	blockedTerms []string
}

func newCallScreener(service reputation.Service) *callScreener {
	return &callScreener{
		service: service,
		timeout: defaultScreeningTimeout,
	}
}

func (s *callScreener) Screen(ctx context.Context, call CallEvent) CallDecision {
	ctx, span := tracer.Start(ctx, "screen call")
	defer span.End()

	for _, term := range s.blockedTerms {
		if strings.Contains(strings.ToLower(call.CallerID), term) ||
			strings.Contains(strings.ToLower(call.CallerName), term) {
			span.SetAttributes(attribute.String("call.decision", "reject"))
			return rejectedCallDecision(reputation.LevelBlocked, fmt.Sprintf("caller matches blocked term %q", term))
		}
	}

	if s.service == nil {
		span.SetAttributes(attribute.String("call.decision", "allow"))
		return allowedCallDecision(reputation.LevelSafe, "no reputation service configured")
	}

	lookupCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	level, err := s.service.Lookup(lookupCtx, call.CallerID)
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("call.decision", "allow"))
		return allowedCallDecision(reputation.LevelSafe, "reputation lookup unavailable")
	}

	switch level {
	case reputation.LevelBlocked:
		span.SetAttributes(attribute.String("call.decision", "reject"))
		return rejectedCallDecision(level, "caller reputation is blocked")
	case reputation.LevelSuspicious:
		span.SetAttributes(attribute.String("call.decision", "silence"))
		return silencedCallDecision(level, "caller reputation is suspicious")
	default:
		span.SetAttributes(attribute.String("call.decision", "allow"))
		return allowedCallDecision(level, "caller reputation is safe")
	}
}
