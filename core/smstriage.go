package orchestration

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

// SMSEvent describes one incoming text message to triage.
type SMSEvent struct {
	Sender     string
	Body       string
	ReceivedAt time.Time
}

// SMSAction is the triage outcome for one message. The zero value means no
// action is taken.
type SMSAction struct {
	Reply     bool
	ReplyText string
}

const defaultTriageTimeout = 1500 * time.Millisecond

// smsTriage decides whether an incoming message warrants an automated reply.
// Unlike call screening, triage fails closed: any doubt about the backend
// decision means no message is sent on the user's behalf.
type smsTriage struct {
	backend *conversationBackend
	timeout time.Duration
}

func newSMSTriage(backend *conversationBackend) *smsTriage {
	return &smsTriage{
		backend: backend,
		timeout: defaultTriageTimeout,
	}
}

func (t *smsTriage) Triage(ctx context.Context, userID int, sms SMSEvent) SMSAction {
	ctx, span := tracer.Start(ctx, "triage sms")
	defer span.End()

	if strings.TrimSpace(sms.Body) == "" {
		span.SetAttributes(attribute.String("sms.action", "none"))
		return SMSAction{}
	}

	// The bound holds regardless of whether the configured client carries a
	// timeout of its own.
	decisionCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	decision, err := t.backend.MakeSMSDecision(decisionCtx, userID, sms.Body)
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("sms.action", "none"))
		return SMSAction{}
	}

	replyText := strings.TrimSpace(decision.ReplyText)
	if !decision.ShouldReply || replyText == "" {
		span.SetAttributes(attribute.String("sms.action", "none"))
		return SMSAction{}
	}

	span.SetAttributes(attribute.String("sms.action", "reply"))
	return SMSAction{Reply: true, ReplyText: replyText}
}
