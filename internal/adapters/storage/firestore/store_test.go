package firestore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCarryCreatedAtPreservesOriginal(t *testing.T) {
	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	later := created.Add(2 * time.Hour)

	doc := conversationDoc{CreatedAt: later, UpdatedAt: later, Messages: 3}
	existing := conversationDoc{CreatedAt: created, UpdatedAt: created, Messages: 1}

	merged := carryCreatedAt(doc, existing)
	assert.Equal(t, created, merged.CreatedAt)
	assert.Equal(t, later, merged.UpdatedAt)
	assert.Equal(t, 3, merged.Messages)
}

func TestCarryCreatedAtIgnoresZeroExisting(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	doc := conversationDoc{CreatedAt: now, UpdatedAt: now}

	merged := carryCreatedAt(doc, conversationDoc{})
	assert.Equal(t, now, merged.CreatedAt)
}
