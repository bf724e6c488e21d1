package agents

import (
	"fmt"

	"github.com/skysense-ai/sara-agent/internal/domain"
)

const validatorInstructions = `You validate and normalize incoming drone-mission inputs before any planning. Ensure presence, types, and ranges are correct; return either a normalized payload or a clear error list. Always return pure JSON according to the response schema. No prose or markdown.

What you receive (typical fields):
- use_case: OBJECT_CONFIRMED or APPEND_TASK
- mission_id: string
- priority: string (low|normal|high|immediate) or number (1-5)
- optional coordinates depending on use case.

Normalization & validation rules:
- Coerce numeric strings to numbers for lat, lon, alt_agl_ft, priority.
- Priority mapping: low->1, normal->3, high|immediate->5.
- If use_case == OBJECT_CONFIRMED, force priority = 5.
- Coordinate ranges: -90 <= lat <= 90, -180 <= lon <= 180, alt_agl_ft >= 0.
- Required by use case:
  OBJECT_CONFIRMED: a valid drone_location_at_snapshot {lat, lon, alt_agl_ft}.
  APPEND_TASK: valid drone_location {lat, lon, alt_agl_ft} and waypoint {lat, lon, alt_agl_ft, fusion_status(safe|nosafe)}.
- Remove unknown fields; keep only validated/normalized ones.
- On any missing/invalid data, status = ERROR and list every problem in errors. Do not attempt recovery beyond type coercion and bounds clamping.
- errors is an empty list when OK. All numbers must be numeric, not strings. Do not invent defaults that change semantics.`

// ValidatorPayload keeps only the location fields relevant to the use case.
type ValidatorPayload struct {
	DroneLocationAtSnapshot *FlexLocation `json:"drone_location_at_snapshot,omitempty"`
	DroneLocation           *FlexLocation `json:"drone_location,omitempty"`
	Waypoint                *FlexWaypoint `json:"waypoint,omitempty"`
}

// FlexLocation is a Location whose coordinates tolerate numeric strings, as
// the validator schema declares.
type FlexLocation struct {
	Lat      FlexFloat `json:"lat"`
	Lon      FlexFloat `json:"lon"`
	AltAGLFt FlexFloat `json:"alt_agl_ft"`
}

func (l *FlexLocation) Location() domain.Location {
	return domain.Location{Lat: float64(l.Lat), Lon: float64(l.Lon), AltAGLFt: float64(l.AltAGLFt)}
}

type FlexWaypoint struct {
	Lat          FlexFloat           `json:"lat"`
	Lon          FlexFloat           `json:"lon"`
	AltAGLFt     FlexFloat           `json:"alt_agl_ft"`
	FusionStatus domain.FusionStatus `json:"fusion_status"`
}

func (w *FlexWaypoint) Waypoint() domain.Waypoint {
	return domain.Waypoint{
		Lat:          float64(w.Lat),
		Lon:          float64(w.Lon),
		AltAGLFt:     float64(w.AltAGLFt),
		FusionStatus: w.FusionStatus,
	}
}

// ValidatorResult is the validated output of the data validator agent.
type ValidatorResult struct {
	Status    string           `json:"status"`
	UseCase   domain.UseCase   `json:"use_case"`
	MissionID string           `json:"mission_id"`
	Priority  FlexInt          `json:"priority"`
	Payload   ValidatorPayload `json:"payload"`
	Errors    []string         `json:"errors"`
}

func DataValidator() domain.AgentDefinition {
	locationSchema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"lat":        map[string]any{"type": "number"},
			"lon":        map[string]any{"type": "number"},
			"alt_agl_ft": map[string]any{"type": "number"},
		},
		"required": []string{"lat", "lon", "alt_agl_ft"},
	}
	return domain.AgentDefinition{
		Name:         "Data validator",
		Instructions: validatorInstructions,
		Model:        defaultModel,
		Temperature:  1,
		TopP:         1,
		MaxTokens:    2048,
		JSONOutput:   true,
		ResponseSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"status":     map[string]any{"type": "string", "enum": []string{StatusOK, StatusError}},
				"use_case":   map[string]any{"type": "string", "enum": []string{string(domain.UseCaseObjectConfirmed), string(domain.UseCaseAppendTask)}},
				"mission_id": map[string]any{"type": "string"},
				"priority":   map[string]any{"type": "integer", "minimum": 1, "maximum": 5},
				"payload": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"drone_location_at_snapshot": locationSchema,
						"drone_location":             locationSchema,
						"waypoint": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"lat":           map[string]any{"type": "number"},
								"lon":           map[string]any{"type": "number"},
								"alt_agl_ft":    map[string]any{"type": "number"},
								"fusion_status": map[string]any{"type": "string", "enum": []string{string(domain.FusionSafe), string(domain.FusionNoSafe)}},
							},
							"required": []string{"lat", "lon", "alt_agl_ft", "fusion_status"},
						},
					},
				},
				"errors": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			},
			"required": []string{"status", "use_case", "mission_id", "priority", "payload", "errors"},
		},
	}
}

// ParseValidator validates the data validator's raw output, including the
// per-use-case payload requirements.
func ParseValidator(raw string) (*ValidatorResult, error) {
	var res ValidatorResult
	if err := decodeStrict("Data validator", raw, &res); err != nil {
		return nil, err
	}
	switch res.Status {
	case StatusOK, StatusError:
	default:
		return nil, schemaError("Data validator", raw, fmt.Errorf("unknown status %q", res.Status))
	}
	if res.Errors == nil {
		res.Errors = []string{}
	}
	if res.Status != StatusOK {
		return &res, nil
	}
	switch res.UseCase {
	case domain.UseCaseObjectConfirmed:
		if res.Payload.DroneLocationAtSnapshot == nil {
			return nil, schemaError("Data validator", raw, fmt.Errorf("OBJECT_CONFIRMED without drone_location_at_snapshot"))
		}
	case domain.UseCaseAppendTask:
		if res.Payload.DroneLocation == nil || res.Payload.Waypoint == nil {
			return nil, schemaError("Data validator", raw, fmt.Errorf("APPEND_TASK without drone_location and waypoint"))
		}
	default:
		return nil, schemaError("Data validator", raw, fmt.Errorf("unknown use_case %q", res.UseCase))
	}
	return &res, nil
}
