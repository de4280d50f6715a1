package tools

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"

	"github.com/carlos-arino/mcp-home-simulator/pkg/home"
	"github.com/carlos-arino/mcp-home-simulator/pkg/schema"
)

// Registry dispatches tool calls onto a home.State it does not share with
// anyone else.
type Registry struct {
	state     *home.State
	validator *schema.Validator
}

// NewRegistry creates a Registry bound to state.
func NewRegistry(state *home.State, validator *schema.Validator) *Registry {
	if validator == nil {
		validator = schema.NewValidator()
	}
	return &Registry{
		state:     state,
		validator: validator,
	}
}

// Definitions returns the catalog advertised by this registry.
func (r *Registry) Definitions() []Definition {
	return Catalog()
}

// ExecuteTool decodes args for the named tool and runs it. It never panics:
// unknown tools, bad arguments, domain failures and unexpected faults all come
// back as a failed Result.
func (r *Registry) ExecuteTool(name string, args map[string]any) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			log.Error().Interface("panic", p).Str("tool", name).Msg("Tool execution failed")
			res = Result{Err: &ExecutionError{Cause: p}}
		}
	}()

	call, err := r.Decode(name, args)
	if err != nil {
		return Result{Err: err}
	}

	value, err := r.Execute(call)
	if err != nil {
		return Result{Err: err}
	}

	return Result{Value: value}
}

// Decode validates raw arguments against the tool's input schema and builds
// the typed call. Null arguments count as missing.
func (r *Registry) Decode(name string, args map[string]any) (Call, error) {
	def, ok := lookup(name)
	if !ok {
		return nil, &UnknownToolError{Name: name}
	}

	present := make(map[string]any, len(args))
	for k, v := range args {
		if v != nil {
			present[k] = v
		}
	}

	if err := r.validator.ValidateSchema(def.InputSchema, present); err != nil {
		return nil, argumentError(def, err)
	}

	switch def.Name {
	case GetPresence:
		return GetPresenceCall{}, nil
	case GetAlarmStatus:
		return GetAlarmStatusCall{}, nil
	case ListLightsOn:
		return ListLightsOnCall{}, nil
	case SetLightState:
		return SetLightStateCall{
			Name: present["name"].(string),
			On:   present["on"].(bool),
		}, nil
	case SetAlarmState:
		return SetAlarmStateCall{Armed: present["armed"].(bool)}, nil
	case GetAllStates:
		return GetAllStatesCall{}, nil
	}

	return nil, &UnknownToolError{Name: name}
}

// Execute runs a decoded call against the state.
func (r *Registry) Execute(call Call) (any, error) {
	log.Debug().Str("tool", string(call.Tool())).Msg("Executing tool")

	switch c := call.(type) {
	case GetPresenceCall:
		return r.state.Presence(), nil

	case GetAlarmStatusCall:
		return AlarmStatusOutput{Armed: r.state.AlarmStatus()}, nil

	case ListLightsOnCall:
		return LightsOnOutput{On: r.state.LightsOn()}, nil

	case SetLightStateCall:
		if !r.state.SetLightState(c.Name, c.On) {
			return nil, &LightNotFoundError{Name: c.Name}
		}
		return AckOutput{OK: true}, nil

	case SetAlarmStateCall:
		r.state.SetAlarmState(c.Armed)
		return AckOutput{OK: true}, nil

	case GetAllStatesCall:
		return r.state.AllStates(), nil
	}

	return nil, fmt.Errorf("unsupported call %T", call)
}

// argumentError turns a schema validation failure into a typed argument error.
func argumentError(def Definition, err error) error {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return fmt.Errorf("%w: %w", ErrInvalidArguments, err)
	}

	var (
		missing []string
		wrong   *WrongTypeError
	)
	walkValidationErrors(verr, func(e *jsonschema.ValidationError) {
		switch k := e.ErrorKind.(type) {
		case *kind.Required:
			missing = append(missing, k.Missing...)
		case *kind.Type:
			if wrong == nil && len(e.InstanceLocation) > 0 {
				wrong = &WrongTypeError{
					Field: strings.Join(e.InstanceLocation, "."),
					Want:  strings.Join(k.Want, " or "),
				}
			}
		}
	})

	if len(missing) > 0 {
		// Report in the order the schema declares them.
		fields := make([]string, 0, len(missing))
		for _, field := range def.InputSchema.Required {
			if slices.Contains(missing, field) {
				fields = append(fields, field)
			}
		}
		return &MissingFieldError{Fields: fields}
	}
	if wrong != nil {
		return wrong
	}

	return fmt.Errorf("%w: %s", ErrInvalidArguments, verr.Error())
}

func walkValidationErrors(e *jsonschema.ValidationError, fn func(*jsonschema.ValidationError)) {
	fn(e)
	for _, cause := range e.Causes {
		walkValidationErrors(cause, fn)
	}
}
