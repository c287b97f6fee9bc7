package daemon

import (
	"context"

	"continuum/internal/api"
)

// Use API package types instead of duplicating them
type State = api.DaemonState

const (
	StateStopped  = api.StateStopped
	StateStarting = api.StateStarting
	StateRunning  = api.StateRunning
	StateStopping = api.StateStopping
	StateFailed   = api.StateFailed
)

// Daemon is the core interface every independently lifecycled service
// component implements. The orchestrator owns the collection of daemons by
// name; no daemon owns another.
type Daemon interface {
	// Lifecycle management
	Start(ctx context.Context) error
	Stop(ctx context.Context) error

	// HandleMessage processes one canonical request and returns the
	// canonical outcome. Failures travel in the result envelope; the
	// method itself never panics past its boundary. The declared
	// health-check operation is reachable through this method like any
	// other message type.
	HandleMessage(ctx context.Context, req api.Request) api.Result

	// Metadata and state
	Name() string
	State() State
	LastError() error

	// State change notifications
	// The daemon calls this callback when its lifecycle state changes.
	SetStateChangeCallback(callback StateChangeCallback)
}

// StateChangeCallback is called when a daemon's lifecycle state changes.
type StateChangeCallback func(name string, oldState, newState State, err error)
