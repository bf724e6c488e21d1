package domain

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type PartType string

const (
	PartText  PartType = "input_text"
	PartImage PartType = "input_image"
)

// ContentPart is one typed piece of a transcript message: either text or a
// reference to an image encoded as a data URL.
type ContentPart struct {
	Type     PartType `json:"type"`
	Text     string   `json:"text,omitempty"`
	ImageURL string   `json:"image_url,omitempty"`
}

// TranscriptMessage is a single role-tagged entry in a transcript.
type TranscriptMessage struct {
	Role  Role          `json:"role"`
	Parts []ContentPart `json:"content"`
}

// Transcript is the ordered message history passed to each agent invocation.
// It grows monotonically during one orchestration run: each step appends the
// prior agent's raw output before the next agent is invoked, so every
// downstream agent sees the full prior exchange.
type Transcript struct {
	messages []TranscriptMessage
}

// NewTranscript creates a transcript seeded with a user message made of the
// given text and, when imageDataURL is non-empty, an image part.
func NewTranscript(text, imageDataURL string) *Transcript {
	t := &Transcript{}
	t.AppendUser(text, imageDataURL)
	return t
}

func (t *Transcript) AppendUser(text, imageDataURL string) {
	parts := []ContentPart{{Type: PartText, Text: text}}
	if imageDataURL != "" {
		parts = append(parts, ContentPart{Type: PartImage, ImageURL: imageDataURL})
	}
	t.messages = append(t.messages, TranscriptMessage{Role: RoleUser, Parts: parts})
}

// AppendAssistantRaw records an agent's raw output as an assistant turn.
func (t *Transcript) AppendAssistantRaw(raw string) {
	t.messages = append(t.messages, TranscriptMessage{
		Role:  RoleAssistant,
		Parts: []ContentPart{{Type: PartText, Text: raw}},
	})
}

// AppendMessages bulk-appends previously persisted messages (conversation
// resume). Order is preserved.
func (t *Transcript) AppendMessages(msgs []TranscriptMessage) {
	t.messages = append(t.messages, msgs...)
}

// Messages returns the transcript entries in order. Callers must not mutate
// the returned slice.
func (t *Transcript) Messages() []TranscriptMessage {
	return t.messages
}

func (t *Transcript) Len() int {
	return len(t.messages)
}
