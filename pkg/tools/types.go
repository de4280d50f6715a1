package tools

import "encoding/json"

// Name identifies a tool in the catalog.
type Name string

// Tool names, in catalog order.
const (
	GetPresence    Name = "get_presence"
	GetAlarmStatus Name = "get_alarm_status"
	ListLightsOn   Name = "list_lights_on"
	SetLightState  Name = "set_light_state"
	SetAlarmState  Name = "set_alarm_state"
	GetAllStates   Name = "get_all_states"
)

// Call is a decoded, validated tool invocation. The concrete types below are
// the only implementations.
type Call interface {
	Tool() Name
}

// --- Presence Tool ---

// GetPresenceCall is the input for the get_presence tool
type GetPresenceCall struct{}

// Tool implements Call.
func (GetPresenceCall) Tool() Name { return GetPresence }

// The get_presence output is a home.Presence.

// --- Alarm Status Tool ---

// GetAlarmStatusCall is the input for the get_alarm_status tool
type GetAlarmStatusCall struct{}

// Tool implements Call.
func (GetAlarmStatusCall) Tool() Name { return GetAlarmStatus }

// AlarmStatusOutput is the output for the get_alarm_status tool
type AlarmStatusOutput struct {
	Armed bool `json:"armed"`
}

// --- List Lights On Tool ---

// ListLightsOnCall is the input for the list_lights_on tool
type ListLightsOnCall struct{}

// Tool implements Call.
func (ListLightsOnCall) Tool() Name { return ListLightsOn }

// LightsOnOutput is the output for the list_lights_on tool
type LightsOnOutput struct {
	On []string `json:"on"`
}

// --- Set Light State Tool ---

// SetLightStateCall is the input for the set_light_state tool
type SetLightStateCall struct {
	Name string
	On   bool
}

// Tool implements Call.
func (SetLightStateCall) Tool() Name { return SetLightState }

// --- Set Alarm State Tool ---

// SetAlarmStateCall is the input for the set_alarm_state tool
type SetAlarmStateCall struct {
	Armed bool
}

// Tool implements Call.
func (SetAlarmStateCall) Tool() Name { return SetAlarmState }

// AckOutput is the output of the setter tools
type AckOutput struct {
	OK bool `json:"ok"`
}

// --- All States Tool ---

// GetAllStatesCall is the input for the get_all_states tool
type GetAllStatesCall struct{}

// Tool implements Call.
func (GetAllStatesCall) Tool() Name { return GetAllStates }

// The get_all_states output is a home.Snapshot.

// --- Results ---

// Result is the outcome of ExecuteTool. Exactly one of Value and Err is set.
type Result struct {
	Value any
	Err   error
}

// OK reports whether the tool succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Message returns the failure description, or "" on success.
func (r Result) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

type failure struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// MarshalJSON encodes the tool output on success and {"ok":false,"error":...}
// on failure.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Err != nil {
		return json.Marshal(failure{OK: false, Error: r.Err.Error()})
	}
	return json.Marshal(r.Value)
}
