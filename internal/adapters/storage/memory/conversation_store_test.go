package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skysense-ai/sara-agent/internal/domain"
)

func userMessage(text string) domain.TranscriptMessage {
	return domain.TranscriptMessage{
		Role:  domain.RoleUser,
		Parts: []domain.ContentPart{{Type: domain.PartText, Text: text}},
	}
}

func TestSaveAndGetConversation(t *testing.T) {
	store := NewConversationStore()
	ctx := context.Background()

	conv := &domain.Conversation{
		ID:        "c1",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		Messages:  []domain.TranscriptMessage{userMessage("hello")},
	}
	require.NoError(t, store.SaveConversation(ctx, conv))

	got, err := store.GetConversation(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "hello", got.Messages[0].Parts[0].Text)
}

func TestSaveRequiresID(t *testing.T) {
	store := NewConversationStore()
	require.Error(t, store.SaveConversation(context.Background(), &domain.Conversation{}))
	require.Error(t, store.SaveConversation(context.Background(), nil))
}

func TestGetUnknownConversation(t *testing.T) {
	store := NewConversationStore()
	_, err := store.GetConversation(context.Background(), "nope")
	require.Error(t, err)
}

func TestResavePreservesCreatedAt(t *testing.T) {
	store := NewConversationStore()
	ctx := context.Background()

	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveConversation(ctx, &domain.Conversation{
		ID:        "c1",
		CreatedAt: created,
		UpdatedAt: created,
	}))

	later := created.Add(time.Hour)
	require.NoError(t, store.SaveConversation(ctx, &domain.Conversation{
		ID:        "c1",
		CreatedAt: later,
		UpdatedAt: later,
		Messages:  []domain.TranscriptMessage{userMessage("second turn")},
	}))

	got, err := store.GetConversation(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, later, got.UpdatedAt)
	require.Len(t, got.Messages, 1)
}

func TestGetReturnsACopy(t *testing.T) {
	store := NewConversationStore()
	ctx := context.Background()

	require.NoError(t, store.SaveConversation(ctx, &domain.Conversation{
		ID:       "c1",
		Messages: []domain.TranscriptMessage{userMessage("original")},
	}))

	got, err := store.GetConversation(ctx, "c1")
	require.NoError(t, err)
	got.Messages = append(got.Messages, userMessage("extra"))
	got.UpdatedAt = got.UpdatedAt.Add(time.Hour)

	again, err := store.GetConversation(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, again.Messages, 1)
	assert.Equal(t, "original", again.Messages[0].Parts[0].Text)
}
