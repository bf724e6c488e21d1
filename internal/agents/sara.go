package agents

import (
	"fmt"

	"github.com/skysense-ai/sara-agent/internal/domain"
)

const saraInstructions = `You are SARA, the first decision agent in the workflow.
You MUST respond ONLY with a JSON object that matches the response schema. No explanations, no extra text, no natural language outside the JSON.

YOUR PURPOSE:
1. Analyze the user query and any attached content (including images).
2. Determine whether:
   - Required information is missing for a search mission -> status = "MISSION_DATA_MISSING"
   - The mission is ready to be created -> status = "MISSION_READY"
   - The request cannot be understood -> status = "ERROR"
3. NEVER ask for unnecessary information.
4. NEVER include properties outside the JSON schema.

IMAGES:
- If the input includes ANY image, treat it as visual context to better describe the target object. Enrich objectType and/or plannerPayload.additionalData (visualDescription, color, sizeLabel) from it.
- If an image is present but the object type is still unclear, return MISSION_DATA_MISSING with a messageForConsole asking to clarify the objectType.

REQUIRED DATA FOR "SEARCH_OBJECT" MISSIONS: lat, lon, objectType.
If any are missing -> status = "MISSION_DATA_MISSING" and list ONLY the missing field names in "missingFields".

STRICT RULES:
- Always return ALL properties defined in the schema, using null where not applicable.
- "plannerPayload" MUST exist in every response; null when not applicable.
- "missingFields" MUST always exist; [] when none are missing.
- When MISSION_READY, plannerPayload carries objective, location {lat, lon} and additionalData.
- Responses must be short, functional, and strictly structured.`

// SaraResult is the validated output of the first-line classifier.
type SaraResult struct {
	Status            string              `json:"status"`
	MessageForConsole *string             `json:"messageForConsole"`
	MissionType       *string             `json:"missionType"`
	MissingFields     []string            `json:"missingFields"`
	PlannerPayload    *SaraPlannerPayload `json:"plannerPayload"`
}

type SaraPlannerPayload struct {
	Objective      string                `json:"objective"`
	Location       SaraLocation          `json:"location"`
	AdditionalData domain.AdditionalData `json:"additionalData"`
}

type SaraLocation struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func Sara() domain.AgentDefinition {
	return domain.AgentDefinition{
		Name:         "SARA",
		Instructions: saraInstructions,
		Model:        defaultModel,
		Temperature:  1,
		TopP:         1,
		MaxTokens:    2048,
		JSONOutput:   true,
		ResponseSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"status":            map[string]any{"type": "string", "enum": []string{StatusMissionReady, StatusMissionDataMissing, StatusError}},
				"messageForConsole": map[string]any{"type": []string{"string", "null"}},
				"missionType":       map[string]any{"type": []string{"string", "null"}},
				"missingFields":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"plannerPayload": map[string]any{
					"type": []string{"object", "null"},
					"properties": map[string]any{
						"objective": map[string]any{"type": "string"},
						"location": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"lat": map[string]any{"type": "number"},
								"lon": map[string]any{"type": "number"},
							},
							"required": []string{"lat", "lon"},
						},
						"additionalData": map[string]any{"type": "object"},
					},
					"required": []string{"objective", "location"},
				},
			},
			"required": []string{"status", "missingFields"},
		},
	}
}

// ParseSara validates the classifier's raw output.
func ParseSara(raw string) (*SaraResult, error) {
	var res SaraResult
	if err := decodeStrict("SARA", raw, &res); err != nil {
		return nil, err
	}
	switch res.Status {
	case StatusMissionReady, StatusMissionDataMissing, StatusError:
	default:
		return nil, schemaError("SARA", raw, fmt.Errorf("unknown status %q", res.Status))
	}
	if res.MissingFields == nil {
		res.MissingFields = []string{}
	}
	if res.Status == StatusMissionReady && res.PlannerPayload == nil {
		return nil, schemaError("SARA", raw, fmt.Errorf("MISSION_READY without plannerPayload"))
	}
	return &res, nil
}
