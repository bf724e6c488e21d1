package agents

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skysense-ai/sara-agent/internal/domain"
)

func TestFlexFloatAcceptsNumbersAndNumericStrings(t *testing.T) {
	var f FlexFloat
	require.NoError(t, json.Unmarshal([]byte(`12.5`), &f))
	assert.Equal(t, FlexFloat(12.5), f)

	require.NoError(t, json.Unmarshal([]byte(`"  -67.89 "`), &f))
	assert.Equal(t, FlexFloat(-67.89), f)

	err := json.Unmarshal([]byte(`"high"`), &f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "numeric string expected")
}

func TestFlexIntRounds(t *testing.T) {
	var i FlexInt
	require.NoError(t, json.Unmarshal([]byte(`4.6`), &i))
	assert.Equal(t, FlexInt(5), i)

	require.NoError(t, json.Unmarshal([]byte(`"3"`), &i))
	assert.Equal(t, FlexInt(3), i)
}

func TestParseSara(t *testing.T) {
	res, err := ParseSara(`{"status":"MISSION_READY","messageForConsole":null,"missionType":"SEARCH_OBJECT","missingFields":null,"plannerPayload":{"objective":"find truck","location":{"lat":5,"lon":6},"additionalData":{"objectType":"truck"}}}`)
	require.NoError(t, err)
	assert.Equal(t, StatusMissionReady, res.Status)
	assert.NotNil(t, res.MissingFields, "missingFields is normalized to an empty slice")
	require.NotNil(t, res.PlannerPayload)
	assert.Equal(t, 5.0, res.PlannerPayload.Location.Lat)
}

func TestParseSaraRejectsReadyWithoutPayload(t *testing.T) {
	_, err := ParseSara(`{"status":"MISSION_READY","missingFields":[],"plannerPayload":null}`)
	require.Error(t, err)
	var schemaErr *domain.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "SARA", schemaErr.Agent)
	assert.Contains(t, schemaErr.Raw, "MISSION_READY")
}

func TestParseSaraRejectsUnknownStatus(t *testing.T) {
	_, err := ParseSara(`{"status":"DONE","missingFields":[]}`)
	require.Error(t, err)
}

func TestParseValidatorCoercesStringCoordinates(t *testing.T) {
	res, err := ParseValidator(`{
	  "status": "OK",
	  "use_case": "APPEND_TASK",
	  "mission_id": "m1",
	  "priority": "4",
	  "payload": {
	    "drone_location": {"lat": "1.5", "lon": "2.5", "alt_agl_ft": "120"},
	    "waypoint": {"lat": 10, "lon": 20, "alt_agl_ft": 50, "fusion_status": "nosafe"}
	  },
	  "errors": []
	}`)
	require.NoError(t, err)
	assert.Equal(t, FlexInt(4), res.Priority)
	assert.Equal(t, domain.Location{Lat: 1.5, Lon: 2.5, AltAGLFt: 120}, res.Payload.DroneLocation.Location())
	assert.Equal(t, domain.FusionNoSafe, res.Payload.Waypoint.Waypoint().FusionStatus)
}

func TestParseValidatorPayloadRequirements(t *testing.T) {
	_, err := ParseValidator(`{"status":"OK","use_case":"OBJECT_CONFIRMED","mission_id":"m","priority":5,"payload":{},"errors":[]}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "drone_location_at_snapshot")

	_, err = ParseValidator(`{"status":"OK","use_case":"APPEND_TASK","mission_id":"m","priority":3,"payload":{"drone_location":{"lat":1,"lon":2,"alt_agl_ft":3}},"errors":[]}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "waypoint")
}

func TestParseValidatorErrorStatusPassesThrough(t *testing.T) {
	// An ERROR result skips the payload requirements; the caller turns it
	// into a user-facing validation failure.
	res, err := ParseValidator(`{"status":"ERROR","use_case":"APPEND_TASK","mission_id":"m","priority":1,"payload":{},"errors":["lat out of range"]}`)
	require.NoError(t, err)
	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, []string{"lat out of range"}, res.Errors)
}

func TestParsePlanner(t *testing.T) {
	res, err := ParsePlanner(`{"priority":3,"additionalData":{"color":"red"},"tasks":[{"type":"MOVE_TO","lat":1,"lon":2,"alt_agl_ft":60,"duration_s":0,"speed_mps":3}]}`)
	require.NoError(t, err)
	assert.Equal(t, FlexFloat(3), res.Priority)
	assert.Equal(t, "red", res.AdditionalData.Color)
	require.Len(t, res.Tasks, 1)
}

func TestParsePlannerRejections(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"not json", `plan: go north`, ""},
		{"empty tasks", `{"priority":0,"additionalData":{},"tasks":[]}`, "empty task list"},
		{"missing type", `{"priority":1,"additionalData":{},"tasks":[{"lat":1,"lon":2,"alt_agl_ft":60,"duration_s":0,"speed_mps":3}]}`, "no type"},
		{"lat out of range", `{"priority":1,"additionalData":{},"tasks":[{"type":"MOVE_TO","lat":95,"lon":2,"alt_agl_ft":60,"duration_s":0,"speed_mps":3}]}`, "latitude"},
		{"negative altitude", `{"priority":1,"additionalData":{},"tasks":[{"type":"MOVE_TO","lat":1,"lon":2,"alt_agl_ft":-5,"duration_s":0,"speed_mps":3}]}`, "negative"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParsePlanner(tc.raw)
			require.Error(t, err)
			var schemaErr *domain.SchemaError
			require.ErrorAs(t, err, &schemaErr)
			assert.Equal(t, "PLANNER", schemaErr.Agent)
			if tc.want != "" {
				assert.Contains(t, err.Error(), tc.want)
			}
		})
	}
}

func TestParseVisionFillsDefaults(t *testing.T) {
	res, err := ParseVision(`{"use_case":"OBJECT_CONFIRMED","mission_id":"","priority":0,"drone_location_at_snapshot":{"lat":5,"lon":6,"alt_agl_ft":100}}`, "mis_42")
	require.NoError(t, err)
	assert.Equal(t, "mis_42", res.MissionID)
	assert.Equal(t, FlexInt(3), res.Priority)
}

func TestParseVisionRequiresLocation(t *testing.T) {
	_, err := ParseVision(`{"use_case":"OBJECT_NOT_FOUND","mission_id":"m","priority":3,"drone_location_at_snapshot":null}`, "m")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "drone_location_at_snapshot")
}

func TestAgentDefinitionsDeclareJSONOutput(t *testing.T) {
	for _, def := range []domain.AgentDefinition{Sara(), DataValidator(), Planner(), VisionAnalyzer()} {
		assert.True(t, def.JSONOutput, def.Name)
		assert.NotNil(t, def.ResponseSchema, def.Name)
		assert.NotEmpty(t, def.Instructions, def.Name)
	}
	assert.False(t, SaraFormatter().JSONOutput)
}
