package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/skysense-ai/sara-agent/internal/domain"
)

// ConversationStore is a simple in-memory implementation of
// domain.ConversationStore. It is NOT persistent and is only suitable for
// development / local mode.
type ConversationStore struct {
	mu            sync.RWMutex
	conversations map[domain.ConversationID]*domain.Conversation
}

func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		conversations: make(map[domain.ConversationID]*domain.Conversation),
	}
}

func (s *ConversationStore) SaveConversation(_ context.Context, conv *domain.Conversation) error {
	if conv == nil || conv.ID == "" {
		return errors.New("conversation id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.conversations[conv.ID]; ok {
		conv.CreatedAt = existing.CreatedAt
	}
	stored := *conv
	stored.Messages = append([]domain.TranscriptMessage(nil), conv.Messages...)
	s.conversations[conv.ID] = &stored
	return nil
}

func (s *ConversationStore) GetConversation(_ context.Context, id domain.ConversationID) (*domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[id]
	if !ok {
		return nil, errors.New("conversation not found")
	}

	out := *conv
	out.Messages = append([]domain.TranscriptMessage(nil), conv.Messages...)
	return &out, nil
}
