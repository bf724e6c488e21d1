package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/skysense-ai/sara-agent/internal/domain"
)

type Store struct {
	client *firestore.Client
}

// NewStore creates a Firestore-backed conversation store for the given GCP
// project.
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) conversationsCol() *firestore.CollectionRef {
	return s.client.Collection("conversations")
}

func (s *Store) conversationDoc(id domain.ConversationID) *firestore.DocumentRef {
	return s.conversationsCol().Doc(string(id))
}

func (s *Store) messagesCol(id domain.ConversationID) *firestore.CollectionRef {
	return s.conversationDoc(id).Collection("messages")
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type conversationDoc struct {
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
	Messages  int       `firestore:"message_count"`
}

type messageDoc struct {
	Seq   int       `firestore:"seq"`
	Role  string    `firestore:"role"`
	Parts []partDoc `firestore:"parts"`
}

type partDoc struct {
	Type     string `firestore:"type"`
	Text     string `firestore:"text"`
	ImageURL string `firestore:"image_url"`
}

func carryCreatedAt(doc, existing conversationDoc) conversationDoc {
	if !existing.CreatedAt.IsZero() {
		doc.CreatedAt = existing.CreatedAt
	}
	return doc
}

// ─────────────────────────────────────────
// ConversationStore implementation
// ─────────────────────────────────────────

func (s *Store) SaveConversation(ctx context.Context, conv *domain.Conversation) error {
	if conv == nil || conv.ID == "" {
		return fmt.Errorf("conversation id is required")
	}

	doc := conversationDoc{
		CreatedAt: conv.CreatedAt,
		UpdatedAt: conv.UpdatedAt,
		Messages:  len(conv.Messages),
	}

	// A resumed conversation keeps its original creation time.
	if snap, err := s.conversationDoc(conv.ID).Get(ctx); err == nil {
		var existing conversationDoc
		if err := snap.DataTo(&existing); err == nil {
			doc = carryCreatedAt(doc, existing)
		}
	} else if status.Code(err) != codes.NotFound {
		return fmt.Errorf("firestore SaveConversation: %w", err)
	}

	if _, err := s.conversationDoc(conv.ID).Set(ctx, doc); err != nil {
		return fmt.Errorf("firestore SaveConversation: %w", err)
	}

	// Transcripts grow append-only; writing by sequence number keeps the
	// save idempotent for resumed conversations.
	for i, msg := range conv.Messages {
		parts := make([]partDoc, 0, len(msg.Parts))
		for _, p := range msg.Parts {
			parts = append(parts, partDoc{
				Type:     string(p.Type),
				Text:     p.Text,
				ImageURL: p.ImageURL,
			})
		}

		ref := s.messagesCol(conv.ID).Doc(fmt.Sprintf("%06d", i))
		if _, err := ref.Set(ctx, messageDoc{Seq: i, Role: string(msg.Role), Parts: parts}); err != nil {
			return fmt.Errorf("firestore SaveConversation message %d: %w", i, err)
		}
	}
	return nil
}

func (s *Store) GetConversation(ctx context.Context, id domain.ConversationID) (*domain.Conversation, error) {
	snap, err := s.conversationDoc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("conversation not found")
		}
		return nil, fmt.Errorf("firestore GetConversation: %w", err)
	}

	var doc conversationDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetConversation decode: %w", err)
	}

	q := s.messagesCol(id).OrderBy("seq", firestore.Asc)
	iter := q.Documents(ctx)
	defer iter.Stop()

	var messages []domain.TranscriptMessage
	for {
		msgSnap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore GetConversation messages: %w", err)
		}

		var m messageDoc
		if err := msgSnap.DataTo(&m); err != nil {
			return nil, fmt.Errorf("decode messageDoc: %w", err)
		}

		parts := make([]domain.ContentPart, 0, len(m.Parts))
		for _, p := range m.Parts {
			parts = append(parts, domain.ContentPart{
				Type:     domain.PartType(p.Type),
				Text:     p.Text,
				ImageURL: p.ImageURL,
			})
		}
		messages = append(messages, domain.TranscriptMessage{
			Role:  domain.Role(m.Role),
			Parts: parts,
		})
	}

	return &domain.Conversation{
		ID:        id,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
		Messages:  messages,
	}, nil
}
