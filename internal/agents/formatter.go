package agents

import "github.com/skysense-ai/sara-agent/internal/domain"

const saraFormatterInstructions = `You receive the raw JSON output of the SARA decision agent as the last assistant turn of the conversation.
Turn it into a short, stable, user-facing message for a mission console operator:
- If status is MISSION_DATA_MISSING, say clearly which fields are missing and ask for them, one short sentence.
- If status is ERROR, relay the problem in plain words.
- Never output JSON, markdown, or field names the operator would not understand.
- One to three short sentences, same language as the operator's request.`

// SaraFormatter turns the classifier's raw output into a stable user-facing
// message. It is the only agent that answers in free text.
func SaraFormatter() domain.AgentDefinition {
	return domain.AgentDefinition{
		Name:         "SARA formatter",
		Instructions: saraFormatterInstructions,
		Model:        defaultModel,
		Temperature:  1,
		TopP:         1,
		MaxTokens:    2048,
		JSONOutput:   false,
	}
}
