package tools

import "github.com/google/jsonschema-go/jsonschema"

// Definition describes a tool as advertised during the handshake.
type Definition struct {
	Name         Name               `json:"name"`
	Description  string             `json:"description"`
	InputSchema  *jsonschema.Schema `json:"input_schema"`
	OutputSchema *jsonschema.Schema `json:"output_schema"`
}

// Catalog returns the tool definitions in their fixed order. Each call builds
// fresh schemas, so callers may modify the result.
func Catalog() []Definition {
	return []Definition{
		{
			Name:         GetPresence,
			Description:  "Get the presence detector state (who is at home)",
			InputSchema:  noArguments(),
			OutputSchema: presenceSchema(),
		},
		{
			Name:        GetAlarmStatus,
			Description: "Get the current alarm state",
			InputSchema: noArguments(),
			OutputSchema: object(map[string]*jsonschema.Schema{
				"armed": boolean(""),
			}),
		},
		{
			Name:        ListLightsOn,
			Description: "List every light that is currently on",
			InputSchema: noArguments(),
			OutputSchema: object(map[string]*jsonschema.Schema{
				"on": stringArray(),
			}),
		},
		{
			Name:        SetLightState,
			Description: "Turn a specific light on or off",
			InputSchema: object(map[string]*jsonschema.Schema{
				"name": {Type: "string", Description: "Light name"},
				"on":   boolean("true to turn on, false to turn off"),
			}, "name", "on"),
			OutputSchema: object(map[string]*jsonschema.Schema{
				"ok":    boolean(""),
				"error": {Type: "string"},
			}),
		},
		{
			Name:        SetAlarmState,
			Description: "Arm or disarm the alarm",
			InputSchema: object(map[string]*jsonschema.Schema{
				"armed": boolean("true to arm, false to disarm"),
			}, "armed"),
			OutputSchema: object(map[string]*jsonschema.Schema{
				"ok": boolean(""),
			}),
		},
		{
			Name:        GetAllStates,
			Description: "Get a complete snapshot of the home state",
			InputSchema: noArguments(),
			OutputSchema: object(map[string]*jsonschema.Schema{
				"lights": {
					Type:                 "object",
					AdditionalProperties: boolean(""),
				},
				"alarm":    boolean(""),
				"presence": presenceSchema(),
			}),
		},
	}
}

// lookup returns the definition of name.
func lookup(name string) (Definition, bool) {
	for _, def := range Catalog() {
		if string(def.Name) == name {
			return def, true
		}
	}
	return Definition{}, false
}

func object(props map[string]*jsonschema.Schema, required ...string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}

func noArguments() *jsonschema.Schema {
	return object(map[string]*jsonschema.Schema{})
}

func boolean(description string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "boolean", Description: description}
}

func stringArray() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:  "array",
		Items: &jsonschema.Schema{Type: "string"},
	}
}

func presenceSchema() *jsonschema.Schema {
	return object(map[string]*jsonschema.Schema{
		"present":      boolean(""),
		"known_people": stringArray(),
	})
}
