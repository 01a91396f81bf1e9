package orchestration

import (
	"context"
	"errors"

	"github.com/mkovacic/halo-core/core/backend"
)

var errBackendNotConfigured = errors.New("conversation backend not configured")

type conversationBackend struct {
	// client stores the configured backend implementation.
	client ConversationBackend
}

func newConversationBackend(client ConversationBackend) *conversationBackend {
	return &conversationBackend{client: client}
}

func (b *conversationBackend) set(client ConversationBackend) {
	if b != nil {
		b.client = client
	}
}

func (b *conversationBackend) isConfigured() bool {
	return b != nil && b.client != nil
}

func (b *conversationBackend) ProcessConversation(ctx context.Context, userID int, text string) (string, error) {
	if !b.isConfigured() {
		return "", errBackendNotConfigured
	}

	return b.client.ProcessConversation(ctx, userID, text)
}

func (b *conversationBackend) MakeSMSDecision(ctx context.Context, userID int, text string) (backend.Decision, error) {
	if !b.isConfigured() {
		return backend.Decision{}, errBackendNotConfigured
	}

	return b.client.MakeSMSDecision(ctx, userID, text)
}
