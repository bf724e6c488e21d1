// Package agents holds the named agent configurations sent to the external
// runner and the typed parsers that validate each agent's JSON output.
package agents

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/skysense-ai/sara-agent/internal/domain"
)

const defaultModel = "gemini-2.5-flash"

// Statuses the orchestrator routes on.
const (
	StatusMissionReady       = "MISSION_READY"
	StatusMissionDataMissing = "MISSION_DATA_MISSING"
	StatusError              = "ERROR"
	StatusOK                 = "OK"
)

// FlexFloat accepts either a JSON number or a numeric string. The validator
// schema explicitly allows numeric-string coercion for coordinates and
// priority; nothing else is coerced.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if len(s) >= 2 && s[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			return fmt.Errorf("numeric string expected, got %q", str)
		}
		*f = FlexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}

// FlexInt is FlexFloat rounded to an integer.
type FlexInt int

func (i *FlexInt) UnmarshalJSON(b []byte) error {
	var f FlexFloat
	if err := f.UnmarshalJSON(b); err != nil {
		return err
	}
	*i = FlexInt(int(float64(f) + 0.5))
	return nil
}

func schemaError(agent, raw string, err error) error {
	return &domain.SchemaError{Agent: agent, Raw: raw, Err: err}
}

func decodeStrict(agent, raw string, out any) error {
	dec := json.NewDecoder(strings.NewReader(raw))
	if err := dec.Decode(out); err != nil {
		return schemaError(agent, raw, err)
	}
	return nil
}
