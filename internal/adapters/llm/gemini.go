package llm

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/skysense-ai/sara-agent/internal/domain"
	"github.com/skysense-ai/sara-agent/internal/imaging"
	"github.com/skysense-ai/sara-agent/internal/observability"
)

// GeminiRunner executes one agent invocation per call against the Gemini
// API, with structured JSON output when the agent declares a schema.
type GeminiRunner struct {
	client *genai.Client
}

// NewGeminiRunner creates an AgentRunner backed by the Gemini API. An empty
// API key is allowed at construction time; invocations then fail with a
// credential error instead of the process refusing to start.
func NewGeminiRunner(ctx context.Context, apiKey string) (*GeminiRunner, error) {
	if apiKey == "" {
		return &GeminiRunner{}, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &GeminiRunner{client: client}, nil
}

// RunAgent implements domain.AgentRunner: exactly one round-trip, returning
// the agent's raw final output.
func (r *GeminiRunner) RunAgent(
	ctx context.Context,
	def domain.AgentDefinition,
	transcript *domain.Transcript,
	trace domain.TraceMetadata,
) (string, error) {
	log := observability.FromContext(ctx).With(
		zap.String("agent", def.Name),
		zap.String("trace_source", trace.Source),
		zap.String("workflow_id", trace.WorkflowID),
	)

	if r.client == nil {
		log.Error("agent invocation without credential")
		return "", &domain.CredentialError{
			Msg: "agent service API key is not configured (set SARA_GEMINI_API_KEY)",
		}
	}

	contents, err := toContents(transcript)
	if err != nil {
		return "", fmt.Errorf("building agent input: %w", err)
	}

	temp := def.Temperature
	topP := def.TopP
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(def.Instructions, genai.RoleUser),
		Temperature:       &temp,
		TopP:              &topP,
		MaxOutputTokens:   def.MaxTokens,
	}
	if def.JSONOutput {
		cfg.ResponseMIMEType = "application/json"
		if def.ResponseSchema != nil {
			cfg.ResponseJsonSchema = def.ResponseSchema
		}
	}

	start := time.Now()
	res, err := r.client.Models.GenerateContent(ctx, def.Model, contents, cfg)
	elapsed := time.Since(start)
	observability.AgentInvocationDuration.WithLabelValues(def.Name).Observe(elapsed.Seconds())

	if err != nil {
		observability.AgentInvocations.WithLabelValues(def.Name, "error").Inc()
		log.Error("agent invocation failed", zap.Error(err), zap.Duration("elapsed", elapsed))
		return "", fmt.Errorf("agent %s: %w", def.Name, err)
	}

	text := res.Text()
	if text == "" {
		observability.AgentInvocations.WithLabelValues(def.Name, "empty").Inc()
		log.Error("agent returned no final output", zap.Duration("elapsed", elapsed))
		return "", domain.ErrAgentResultMissing
	}

	observability.AgentInvocations.WithLabelValues(def.Name, "ok").Inc()
	log.Info("agent invocation completed",
		zap.Duration("elapsed", elapsed),
		zap.Int("transcript_len", transcript.Len()),
	)
	return text, nil
}

func toContents(transcript *domain.Transcript) ([]*genai.Content, error) {
	var contents []*genai.Content
	for _, msg := range transcript.Messages() {
		var role genai.Role = genai.RoleUser
		if msg.Role == domain.RoleAssistant {
			role = genai.RoleModel
		}

		var parts []*genai.Part
		for _, part := range msg.Parts {
			switch part.Type {
			case domain.PartText:
				parts = append(parts, genai.NewPartFromText(part.Text))
			case domain.PartImage:
				mimeType, raw, err := imaging.FromDataURL(part.ImageURL)
				if err != nil {
					return nil, err
				}
				parts = append(parts, genai.NewPartFromBytes(raw, mimeType))
			default:
				return nil, fmt.Errorf("unknown content part type %q", part.Type)
			}
		}
		contents = append(contents, genai.NewContentFromParts(parts, role))
	}
	return contents, nil
}
