package orchestration

import (
	"time"

	"github.com/google/uuid"
)

// ConversationExchange is one completed request/reply pair between the user
// and the conversation backend.
type ConversationExchange struct {
	ID        string
	UserID    int
	InputText string
	ReplyText string
	// Fallback is true when ReplyText is a canned phrase produced because the
	// backend could not be reached or failed.
	Fallback  bool
	Timestamp time.Time
}

func newConversationExchange(userID int, input, reply string, fallback bool) ConversationExchange {
	return ConversationExchange{
		ID:        uuid.NewString(),
		UserID:    userID,
		InputText: input,
		ReplyText: reply,
		Fallback:  fallback,
		Timestamp: time.Now(),
	}
}
