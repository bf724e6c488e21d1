package domain

import "context"

// AgentDefinition is a named configuration sent to the external agent runner:
// the prompt, model parameters, and the shape the agent must answer in.
type AgentDefinition struct {
	Name         string
	Instructions string
	Model        string
	Temperature  float32
	TopP         float32
	MaxTokens    int32

	// JSONOutput forces structured output; ResponseSchema is the JSON schema
	// (plain map form) the runner passes to the model. Formatter-style agents
	// leave JSONOutput false and return free text.
	JSONOutput     bool
	ResponseSchema map[string]any
}

// TraceMetadata tags one agent invocation for observability. Values are
// static per call-site, not computed.
type TraceMetadata struct {
	Source     string
	WorkflowID string
}

// AgentRunner performs exactly one round-trip to the external agent
// execution service and returns the agent's raw final output. An empty final
// output is reported as ErrAgentResultMissing.
type AgentRunner interface {
	RunAgent(ctx context.Context, def AgentDefinition, transcript *Transcript, trace TraceMetadata) (string, error)
}

// MissionPublisher forwards a mission plan to the downstream mission backend.
// Failures are captured in the result, never returned as errors.
type MissionPublisher interface {
	Publish(ctx context.Context, plan MissionPlan) PublishResult
}

// ConversationStore persists chat transcripts so a conversation can be
// resumed by id.
type ConversationStore interface {
	SaveConversation(ctx context.Context, conv *Conversation) error
	GetConversation(ctx context.Context, id ConversationID) (*Conversation, error)
}
