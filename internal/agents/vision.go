package agents

import (
	"fmt"

	"github.com/skysense-ai/sara-agent/internal/domain"
)

const visionInstructions = `You are a strict visual detector agent. You receive:
- an image of a drone snapshot,
- a prompt that may contain:
  target_prompt: natural-language description of the object to identify (e.g., "red pickup truck facing north")
  lat, lon, alt_agl_ft: drone location coordinates at capture time
  priority: mission priority (optional, default to 3 if not provided)
- mission_id: mission identifier (provided separately).

Task:
1. Extract target_prompt, lat, lon, alt_agl_ft and priority from the prompt (patterns like "lat 12.34", "lon -67.89", "alt 100").
2. Carefully analyze the image and determine if at least one object CLEARLY and UNEQUIVOCALLY matches the target_prompt description.

CRITICAL: be very conservative. Only return OBJECT_CONFIRMED if you are HIGHLY CONFIDENT (>= 0.85) that the object is present and matches. Any doubt, partial occlusion, ambiguity, low resolution, or near-match -> OBJECT_NOT_FOUND. False positives are worse than false negatives.

drone_location_at_snapshot must carry the lat, lon and alt_agl_ft extracted from the prompt.
Do not include detection internals (boxes, confidence) in the output, only the operational fields of the schema. No text outside JSON.`

// VisionResult is the validated output of the vision classifier.
type VisionResult struct {
	UseCase                 domain.UseCase   `json:"use_case"`
	MissionID               string           `json:"mission_id"`
	Priority                FlexInt          `json:"priority"`
	DroneLocationAtSnapshot *domain.Location `json:"drone_location_at_snapshot"`
}

func VisionAnalyzer() domain.AgentDefinition {
	return domain.AgentDefinition{
		Name:         "Vision Analyzer",
		Instructions: visionInstructions,
		Model:        defaultModel,
		Temperature:  0.3,
		TopP:         0.9,
		MaxTokens:    2048,
		JSONOutput:   true,
		ResponseSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"use_case":   map[string]any{"type": "string", "enum": []string{string(domain.UseCaseObjectConfirmed), string(domain.UseCaseObjectNotFound)}},
				"mission_id": map[string]any{"type": "string"},
				"priority":   map[string]any{"type": "integer", "minimum": 1, "maximum": 5},
				"drone_location_at_snapshot": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"lat":        map[string]any{"type": "number"},
						"lon":        map[string]any{"type": "number"},
						"alt_agl_ft": map[string]any{"type": "number"},
					},
					"required": []string{"lat", "lon", "alt_agl_ft"},
				},
			},
			"required": []string{"use_case", "mission_id", "priority", "drone_location_at_snapshot"},
		},
	}
}

// ParseVision validates the vision classifier's raw output. missionID and a
// default priority of 3 are filled in when the agent omitted them.
func ParseVision(raw, missionID string) (*VisionResult, error) {
	var res VisionResult
	if err := decodeStrict("Vision Analyzer", raw, &res); err != nil {
		return nil, err
	}
	switch res.UseCase {
	case domain.UseCaseObjectConfirmed, domain.UseCaseObjectNotFound:
	default:
		return nil, schemaError("Vision Analyzer", raw, fmt.Errorf("unknown use_case %q", res.UseCase))
	}
	if res.MissionID == "" {
		res.MissionID = missionID
	}
	if res.Priority == 0 {
		res.Priority = 3
	}
	if res.DroneLocationAtSnapshot == nil {
		return nil, schemaError("Vision Analyzer", raw, fmt.Errorf("missing drone_location_at_snapshot"))
	}
	return &res, nil
}
