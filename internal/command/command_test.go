package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"continuum/internal/api"
	"continuum/internal/normalize"
)

func requestWithParams(params map[string]any) api.Request {
	return api.Request{Command: "test", Params: params}
}

func TestValidateRequired(t *testing.T) {
	tests := []struct {
		name     string
		params   map[string]any
		required []string
		valid    bool
		missing  []string
	}{
		{
			name:     "all present",
			params:   map[string]any{"a": 1, "b": "x"},
			required: []string{"a", "b"},
			valid:    true,
		},
		{
			name:     "one missing",
			params:   map[string]any{"a": 1},
			required: []string{"a", "b"},
			valid:    false,
			missing:  []string{"b"},
		},
		{
			name:     "nothing required",
			params:   map[string]any{},
			required: nil,
			valid:    true,
		},
		{
			name:     "nil value still counts as present",
			params:   map[string]any{"a": nil},
			required: []string{"a"},
			valid:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, missing := ValidateRequired(tt.params, tt.required)
			assert.Equal(t, tt.valid, valid)
			assert.Equal(t, tt.missing, missing)
		})
	}
}

func TestRunSuccess(t *testing.T) {
	cmd := &Command{
		Name:           "echo",
		RequiredParams: []string{"value"},
		Execute: func(ctx context.Context, params map[string]any) (any, error) {
			return params["value"], nil
		},
	}

	result := cmd.Run(context.Background(), map[string]any{"value": "hello"}, nil)
	require.True(t, result.Success)
	assert.Equal(t, "hello", result.Data)
	assert.Empty(t, result.Error)
	assert.False(t, result.Timestamp.IsZero())
}

func TestRunMissingParamsBecomesErrorResult(t *testing.T) {
	cmd := &Command{
		Name:           "persist",
		RequiredParams: []string{"filename", "content"},
		Execute: func(ctx context.Context, params map[string]any) (any, error) {
			t.Fatal("executor must not run on invalid input")
			return nil, nil
		},
	}

	result := cmd.Run(context.Background(), map[string]any{"filename": "a.txt"}, nil)
	require.False(t, result.Success)
	assert.Contains(t, result.Error, "content")
	assert.Nil(t, result.Data)
}

func TestRunValidatorErrorBecomesErrorResult(t *testing.T) {
	cmd := &Command{
		Name: "resize",
		Validate: func(params map[string]any) error {
			return errors.New("width must be positive")
		},
		Execute: func(ctx context.Context, params map[string]any) (any, error) {
			return nil, nil
		},
	}

	result := cmd.Run(context.Background(), map[string]any{}, nil)
	require.False(t, result.Success)
	assert.Equal(t, "width must be positive", result.Error)
}

func TestRunExecutorErrorBecomesErrorResult(t *testing.T) {
	cmd := &Command{
		Name: "flaky",
		Execute: func(ctx context.Context, params map[string]any) (any, error) {
			return nil, errors.New("backend unavailable")
		},
	}

	result := cmd.Run(context.Background(), map[string]any{}, nil)
	require.False(t, result.Success)
	assert.Equal(t, "backend unavailable", result.Error)
}

func TestRunPanicIsContained(t *testing.T) {
	cmd := &Command{
		Name: "explosive",
		Validate: func(params map[string]any) error {
			panic("validator blew up")
		},
	}

	result := cmd.Run(context.Background(), map[string]any{}, nil)
	require.False(t, result.Success)
	assert.Contains(t, result.Error, "explosive")
	assert.Contains(t, result.Error, "validator blew up")
}

func TestRunNormalizesThroughRegistry(t *testing.T) {
	registry := normalize.NewDefaultRegistry()
	cmd := &Command{
		Name:           "capture",
		RequiredParams: []string{"name"},
		Execute: func(ctx context.Context, params map[string]any) (any, error) {
			return params["name"], nil
		},
	}

	// CLI-shaped raw input reaches the executor as canonical params.
	result := cmd.Run(context.Background(), []string{"--name=foo"}, registry)
	require.True(t, result.Success)
	assert.Equal(t, "foo", result.Data)
}

func TestHandlerAdaptsToRouterSignature(t *testing.T) {
	cmd := &Command{
		Name:           "sum",
		RequiredParams: []string{"a"},
		Execute: func(ctx context.Context, params map[string]any) (any, error) {
			return params["a"], nil
		},
	}

	handler := cmd.Handler()

	data, err := handler(context.Background(), requestWithParams(map[string]any{"a": 3}))
	require.NoError(t, err)
	assert.Equal(t, 3, data)

	_, err = handler(context.Background(), requestWithParams(map[string]any{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a")
}
