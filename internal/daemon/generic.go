package daemon

import (
	"context"
	"fmt"
	"time"

	"continuum/internal/api"
	"continuum/internal/router"
	"continuum/pkg/logging"
)

// Hooks carries the behavior injected into a Generic daemon. Every field is
// optional; a zero Hooks value yields a daemon that starts and stops
// instantly and only answers its registered message types.
type Hooks struct {
	// OnStart runs during Start with the daemon's declared config. A
	// returned error fails the start.
	OnStart func(ctx context.Context, config map[string]any) error

	// OnStop runs during Stop. A returned error marks the daemon Failed
	// but is still returned to the caller for logging.
	OnStop func(ctx context.Context) error
}

// Generic is the one parameterized daemon entity. Concrete behavior is a
// set of registered message handlers plus optional lifecycle hooks, not a
// subclass: variants differ in data, never in lifecycle logic.
type Generic struct {
	*BaseDaemon

	table     *router.Table
	config    map[string]any
	hooks     Hooks
	healthOp  string
	startedAt time.Time // guarded by the embedded BaseDaemon mutex
}

// NewGeneric creates a daemon with the given name, health-check operation
// name and init config. The health-check handler is registered at
// construction so liveness probing works for every variant.
func NewGeneric(name, healthOp string, config map[string]any, hooks Hooks) *Generic {
	g := &Generic{
		BaseDaemon: NewBaseDaemon(name),
		table:      router.NewTable(),
		config:     config,
		hooks:      hooks,
		healthOp:   healthOp,
	}
	if healthOp != "" {
		g.table.RegisterHandler(healthOp, g.handlePing)
	}
	return g
}

// RegisterHandler binds a message type to a handler on this daemon.
func (g *Generic) RegisterHandler(messageType string, handler router.Handler) error {
	return g.table.RegisterHandler(messageType, handler)
}

// UnregisterHandler removes a message type binding.
func (g *Generic) UnregisterHandler(messageType string) {
	g.table.UnregisterHandler(messageType)
}

// HandledTypes returns the message types this daemon answers.
func (g *Generic) HandledTypes() []string {
	return g.table.HandledTypes()
}

// Start transitions the daemon to Running, running the OnStart hook first.
func (g *Generic) Start(ctx context.Context) error {
	if g.State() == StateRunning {
		return nil
	}

	g.UpdateState(StateStarting, nil)
	logging.Debug("Daemon", "Starting daemon %s", g.Name())

	if g.hooks.OnStart != nil {
		if err := g.hooks.OnStart(ctx, g.config); err != nil {
			g.UpdateState(StateFailed, err)
			return fmt.Errorf("daemon %s start hook: %w", g.Name(), err)
		}
	}

	g.mu.Lock()
	g.startedAt = time.Now()
	g.mu.Unlock()
	g.UpdateState(StateRunning, nil)
	return nil
}

// Stop transitions the daemon to Stopped, running the OnStop hook first.
func (g *Generic) Stop(ctx context.Context) error {
	if g.State() == StateStopped {
		return nil
	}

	g.UpdateState(StateStopping, nil)
	logging.Debug("Daemon", "Stopping daemon %s", g.Name())

	if g.hooks.OnStop != nil {
		if err := g.hooks.OnStop(ctx); err != nil {
			g.UpdateState(StateFailed, err)
			return fmt.Errorf("daemon %s stop hook: %w", g.Name(), err)
		}
	}

	g.UpdateState(StateStopped, nil)
	return nil
}

// HandleMessage routes the request through the daemon's handler table.
func (g *Generic) HandleMessage(ctx context.Context, req api.Request) api.Result {
	return g.table.Route(ctx, req)
}

// handlePing answers the daemon's declared health-check operation. The
// probe succeeds only while the daemon is Running, so a stalled or failed
// daemon surfaces as unhealthy rather than merely slow.
func (g *Generic) handlePing(ctx context.Context, req api.Request) (any, error) {
	state := g.State()
	if state != StateRunning {
		return nil, fmt.Errorf("daemon %s is %s", g.Name(), state)
	}
	g.mu.RLock()
	startedAt := g.startedAt
	g.mu.RUnlock()
	return map[string]any{
		"daemon": g.Name(),
		"state":  string(state),
		"uptime": time.Since(startedAt).String(),
	}, nil
}
