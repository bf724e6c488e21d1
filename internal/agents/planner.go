package agents

import (
	"fmt"

	"github.com/skysense-ai/sara-agent/internal/domain"
)

const plannerInstructions = `You are DroneMissionTaskPlanner. Generate an initial autonomous drone mission task plan from the validated input of the previous agent. Output ONLY valid JSON matching the schema, with NO mission_id, NO commentary, NO extra fields.

EXPECTED INPUT: normalized data including priority, a waypoint {lat, lon, alt_agl_ft, fusion_status(safe|nosafe)} or a location, and optional additionalData.

PRIORITY LOGIC:
- If priority is null or missing -> priority = 1.
- Priority must always be numeric (1-5).

TASK GENERATION RULES — always generate EXACTLY two tasks:
TASK 1 — MOVE_TO: lat/lon from the waypoint, alt_agl_ft = max(waypoint.alt_agl_ft, 60), duration_s = 0, speed_mps = 3.0.
TASK 2 — depends on fusion_status:
- "safe": type = VISION_WAYPOINT, speed_mps = 0.5, duration_s = 60, alt_agl_ft same as MOVE_TO.
- "nosafe": type = LOITER, speed_mps = 0, duration_s = 90, alt_agl_ft = MOVE_TO alt_agl_ft + 20.

additionalData must always exist in the output ({} when missing in the input), must never invent values and must never add keys outside objectType, visualDescription, color, sizeLabel, notes.

ERROR MODE: if required fields are missing or invalid, output {"priority": 0, "additionalData": {}, "tasks": []}.`

// PlannerResult is the validated output of the planning agent.
type PlannerResult struct {
	Priority       FlexFloat             `json:"priority"`
	AdditionalData domain.AdditionalData `json:"additionalData"`
	Tasks          []domain.Task         `json:"tasks"`
}

func Planner() domain.AgentDefinition {
	return domain.AgentDefinition{
		Name:         "PLANNER",
		Instructions: plannerInstructions,
		Model:        defaultModel,
		Temperature:  1,
		TopP:         1,
		MaxTokens:    2048,
		JSONOutput:   true,
		ResponseSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"priority": map[string]any{"type": "number"},
				"additionalData": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"objectType":        map[string]any{"type": "string"},
						"visualDescription": map[string]any{"type": "string"},
						"color":             map[string]any{"type": "string"},
						"sizeLabel":         map[string]any{"type": "string"},
						"notes":             map[string]any{"type": "string"},
					},
				},
				"tasks": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"type":       map[string]any{"type": "string"},
							"lat":        map[string]any{"type": "number"},
							"lon":        map[string]any{"type": "number"},
							"alt_agl_ft": map[string]any{"type": "number"},
							"duration_s": map[string]any{"type": "number"},
							"speed_mps":  map[string]any{"type": "number"},
						},
						"required": []string{"type", "lat", "lon", "alt_agl_ft", "duration_s", "speed_mps"},
					},
				},
			},
			"required": []string{"priority", "additionalData", "tasks"},
		},
	}
}

// ParsePlanner validates the planner's raw output. Malformed planner output
// is never repaired beyond this validation; it propagates as an error.
func ParsePlanner(raw string) (*PlannerResult, error) {
	var res PlannerResult
	if err := decodeStrict("PLANNER", raw, &res); err != nil {
		return nil, err
	}
	if len(res.Tasks) == 0 {
		return nil, schemaError("PLANNER", raw, fmt.Errorf("empty task list"))
	}
	for i, task := range res.Tasks {
		if task.Type == "" {
			return nil, schemaError("PLANNER", raw, fmt.Errorf("task %d has no type", i))
		}
		if task.Lat < -90 || task.Lat > 90 {
			return nil, schemaError("PLANNER", raw, fmt.Errorf("task %d latitude %v out of range", i, task.Lat))
		}
		if task.Lon < -180 || task.Lon > 180 {
			return nil, schemaError("PLANNER", raw, fmt.Errorf("task %d longitude %v out of range", i, task.Lon))
		}
		if task.AltAGLFt < 0 {
			return nil, schemaError("PLANNER", raw, fmt.Errorf("task %d altitude %v is negative", i, task.AltAGLFt))
		}
	}
	return &res, nil
}
