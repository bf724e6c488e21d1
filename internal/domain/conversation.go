package domain

import "time"

type ConversationID string

// Conversation is a persisted chat transcript. The gateway itself is
// stateless per request; conversations only exist so a caller can resume a
// chat by id.
type Conversation struct {
	ID        ConversationID
	CreatedAt time.Time
	UpdatedAt time.Time
	Messages  []TranscriptMessage
}
