package command

import (
	"context"
	"fmt"

	"continuum/internal/api"
	"continuum/internal/normalize"
	"continuum/pkg/logging"
)

// Executor is the typed core of a command: canonical parameters in, payload
// or error out.
type Executor func(ctx context.Context, params map[string]any) (any, error)

// Validator inspects normalized parameters and returns a descriptive error
// on invalid shape.
type Validator func(params map[string]any) error

// Command is the uniform shape every executable operation implements:
// typed input, typed result-or-error envelope, and no failure escaping its
// boundary.
type Command struct {
	// Name identifies the command; it doubles as the message type when
	// the command is registered with a routing table.
	Name string

	// RequiredParams lists parameter keys that must be present. Checked
	// before Validate runs.
	RequiredParams []string

	// Validate optionally performs shape validation beyond required-key
	// presence.
	Validate Validator

	// Execute is the command body.
	Execute Executor
}

// Run enforces the command boundary: normalize the raw input, validate it,
// execute, and convert every failure, error return or panic, into a
// canonical error result. No failure ever escapes Run.
func (c *Command) Run(ctx context.Context, raw any, registry *normalize.Registry) (result api.Result) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("Command", fmt.Errorf("%v", r), "Command %s panicked", c.Name)
			result = api.Fail(fmt.Sprintf("command %s panicked: %v", c.Name, r))
		}
	}()

	var params map[string]any
	if registry != nil {
		params = registry.Parse(raw)
	} else if m, ok := raw.(map[string]any); ok {
		params = m
	} else {
		params = map[string]any{"data": raw}
	}

	if valid, missing := ValidateRequired(params, c.RequiredParams); !valid {
		return api.FailErr(api.NewMissingParamsError(missing))
	}

	if c.Validate != nil {
		if err := c.Validate(params); err != nil {
			return api.FailErr(err)
		}
	}

	if c.Execute == nil {
		return api.Fail(fmt.Sprintf("command %s has no executor", c.Name))
	}

	data, err := c.Execute(ctx, params)
	if err != nil {
		return api.FailErr(err)
	}
	return api.Ok(data)
}

// Handler adapts the command to the router's handler signature so commands
// self-register into a routing table like any other message handler.
func (c *Command) Handler() func(ctx context.Context, req api.Request) (any, error) {
	return func(ctx context.Context, req api.Request) (any, error) {
		result := c.Run(ctx, req.Params, nil)
		if !result.Success {
			return nil, fmt.Errorf("%s", result.Error)
		}
		return result.Data, nil
	}
}

// ValidateRequired reports whether every required key is present in params
// and lists the missing ones. It is a pure function with no side effects.
func ValidateRequired(params map[string]any, required []string) (bool, []string) {
	var missing []string
	for _, key := range required {
		if _, ok := params[key]; !ok {
			missing = append(missing, key)
		}
	}
	return len(missing) == 0, missing
}
