package daemon

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"continuum/internal/api"
)

func TestGenericLifecycle(t *testing.T) {
	var startedWith map[string]any
	stopped := false

	d := NewGeneric("journal", "ping", map[string]any{"path": "/tmp/journal"}, Hooks{
		OnStart: func(ctx context.Context, config map[string]any) error {
			startedWith = config
			return nil
		},
		OnStop: func(ctx context.Context) error {
			stopped = true
			return nil
		},
	})

	assert.Equal(t, StateStopped, d.State())

	require.NoError(t, d.Start(context.Background()))
	assert.Equal(t, StateRunning, d.State())
	assert.Equal(t, map[string]any{"path": "/tmp/journal"}, startedWith)

	require.NoError(t, d.Stop(context.Background()))
	assert.Equal(t, StateStopped, d.State())
	assert.True(t, stopped)
}

func TestGenericStartHookFailure(t *testing.T) {
	bootErr := errors.New("no disk space")
	d := NewGeneric("journal", "ping", nil, Hooks{
		OnStart: func(ctx context.Context, config map[string]any) error {
			return bootErr
		},
	})

	err := d.Start(context.Background())
	require.ErrorIs(t, err, bootErr)
	assert.Equal(t, StateFailed, d.State())
	assert.Equal(t, bootErr, d.LastError())
}

func TestGenericStartIsIdempotentWhileRunning(t *testing.T) {
	calls := 0
	d := NewGeneric("once", "ping", nil, Hooks{
		OnStart: func(ctx context.Context, config map[string]any) error {
			calls++
			return nil
		},
	})

	require.NoError(t, d.Start(context.Background()))
	require.NoError(t, d.Start(context.Background()))
	assert.Equal(t, 1, calls)
}

func TestGenericPingOnlySucceedsWhileRunning(t *testing.T) {
	d := NewGeneric("probe", "ping", nil, Hooks{})

	result := d.HandleMessage(context.Background(), api.Request{Command: "ping"})
	require.False(t, result.Success)
	assert.Contains(t, result.Error, "stopped")

	require.NoError(t, d.Start(context.Background()))
	result = d.HandleMessage(context.Background(), api.Request{Command: "ping"})
	require.True(t, result.Success)

	data, ok := result.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "probe", data["daemon"])
	assert.Equal(t, string(StateRunning), data["state"])
}

func TestGenericCustomHandlers(t *testing.T) {
	d := NewGeneric("kv", "ping", nil, Hooks{})
	store := map[string]any{}

	d.RegisterHandler("set", func(ctx context.Context, req api.Request) (any, error) {
		key, _ := req.Params["key"].(string)
		store[key] = req.Params["value"]
		return nil, nil
	})
	d.RegisterHandler("get", func(ctx context.Context, req api.Request) (any, error) {
		key, _ := req.Params["key"].(string)
		value, ok := store[key]
		if !ok {
			return nil, errors.New("key not found")
		}
		return value, nil
	})

	require.NoError(t, d.Start(context.Background()))

	result := d.HandleMessage(context.Background(), api.Request{
		Command: "set",
		Params:  map[string]any{"key": "a", "value": 1},
	})
	require.True(t, result.Success)

	result = d.HandleMessage(context.Background(), api.Request{
		Command: "get",
		Params:  map[string]any{"key": "a"},
	})
	require.True(t, result.Success)
	assert.Equal(t, 1, result.Data)

	result = d.HandleMessage(context.Background(), api.Request{Command: "unknown-op"})
	require.False(t, result.Success)
	assert.Contains(t, result.Error, "unknown-op")

	assert.Equal(t, []string{"get", "ping", "set"}, d.HandledTypes())
}

func TestGenericConcurrentStartAndPing(t *testing.T) {
	d := NewGeneric("probe", "ping", nil, Hooks{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = d.Start(context.Background())
			d.HandleMessage(context.Background(), api.Request{Command: "ping"})
		}()
	}
	wg.Wait()

	assert.Equal(t, StateRunning, d.State())
}

func TestGenericStateChangeNotifications(t *testing.T) {
	d := NewGeneric("watched", "ping", nil, Hooks{})

	var transitions []State
	d.SetStateChangeCallback(func(name string, oldState, newState State, err error) {
		transitions = append(transitions, newState)
	})

	require.NoError(t, d.Start(context.Background()))
	require.NoError(t, d.Stop(context.Background()))

	assert.Equal(t, []State{StateStarting, StateRunning, StateStopping, StateStopped}, transitions)
}
