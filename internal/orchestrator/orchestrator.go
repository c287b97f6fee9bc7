package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"continuum/internal/api"
	"continuum/internal/daemon"
	"continuum/internal/dependency"
	"continuum/pkg/logging"
)

// StateChange is published whenever a daemon's lifecycle state changes.
type StateChange struct {
	Name      string
	OldState  api.DaemonState
	NewState  api.DaemonState
	Error     error
	Timestamp time.Time
}

// DaemonHealth is one daemon's slice of an integration status report.
type DaemonHealth struct {
	Name     string          `json:"name"`
	Required bool            `json:"required"`
	State    api.DaemonState `json:"state"`
	Healthy  bool            `json:"healthy"`
	Detail   string          `json:"detail,omitempty"`
}

// IntegrationStatus aggregates the health of the whole daemon set.
type IntegrationStatus struct {
	Health  api.IntegrationHealth `json:"health"`
	Daemons []DaemonHealth        `json:"daemons"`
}

// Orchestrator starts and stops the daemon collection in dependency-safe
// order. It owns the daemons by name through the registry; startup is
// strictly sequential in dependency order, health checking fans out
// concurrently, and shutdown reverses the order that was actually started.
type Orchestrator struct {
	registry *daemon.Registry
	decls    []dependency.Declaration
	graph    *dependency.Graph

	mu          sync.Mutex
	initialized bool
	// startupOrder records the names started by the last successful
	// Initialize. Shutdown derives from this, never from static config,
	// so a partially-started system only stops what actually started.
	startupOrder []string

	subscriberMu sync.RWMutex
	subscribers  []chan<- StateChange
}

// New validates the declarations, builds the dependency graph, and wires
// state-change notification on every declared daemon. Every declaration
// must have a matching registered daemon.
func New(registry *daemon.Registry, decls []dependency.Declaration) (*Orchestrator, error) {
	graph, err := dependency.New(decls)
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		registry: registry,
		decls:    decls,
		graph:    graph,
	}

	for _, decl := range decls {
		d, ok := registry.Get(decl.Name)
		if !ok {
			return nil, api.NewConfigurationError("declared daemon %s is not registered", decl.Name)
		}
		d.SetStateChangeCallback(o.publishStateChange)
	}

	return o, nil
}

// Initialize starts every daemon in dependency order, then verifies the
// whole set is healthy. It is idempotent: once a call has succeeded,
// subsequent calls return immediately without touching any daemon.
//
// A start failure at daemon k aborts the loop immediately; daemons after k
// are never started, cleanup stops daemons 1..k in reverse order, and the
// original error is returned even if cleanup itself partially failed.
func (o *Orchestrator) Initialize(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.initialized {
		logging.Debug("Orchestrator", "Already initialized, skipping")
		return nil
	}

	order, err := o.graph.StartupOrder()
	if err != nil {
		return err
	}
	logging.Info("Orchestrator", "Starting %d daemons in dependency order: %v", len(order), order)

	started := make([]string, 0, len(order))
	for _, name := range order {
		d, ok := o.registry.Get(name)
		if !ok {
			startErr := api.NewStartupError(name, api.NewDaemonNotFoundError(name))
			o.cleanup(ctx, started)
			return startErr
		}

		// Sequential on purpose: dependency order is a correctness
		// requirement, not a performance choice.
		if err := d.Start(ctx); err != nil {
			startErr := api.NewStartupError(name, err)
			logging.Error("Orchestrator", err, "Daemon %s failed to start, rolling back %d daemons", name, len(started))
			// The failing daemon reached Starting and may hold partial
			// resources, so it is rolled back along with its
			// predecessors.
			o.cleanup(ctx, append(started, name))
			return startErr
		}
		started = append(started, name)
		logging.Info("Orchestrator", "Started daemon %s (%d/%d)", name, len(started), len(order))
	}

	status := o.integrationStatus(ctx)
	if status.Health != api.HealthHealthy {
		err := fmt.Errorf("integration status after startup is %s, expected %s", status.Health, api.HealthHealthy)
		logging.Error("Orchestrator", err, "Startup health verification failed, rolling back")
		o.cleanup(ctx, started)
		return err
	}

	o.startupOrder = started
	o.initialized = true
	logging.Info("Orchestrator", "All %d daemons running and healthy", len(started))
	return nil
}

// Shutdown stops every started daemon in the reverse of the recorded
// startup order. Individual stop failures are logged and swallowed so
// shutdown makes best-effort progress through the whole list.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.initialized {
		return nil
	}

	order := dependency.Reverse(o.startupOrder)
	logging.Info("Orchestrator", "Stopping %d daemons: %v", len(order), order)
	o.stopAll(ctx, order)

	o.initialized = false
	o.startupOrder = nil
	return nil
}

// Status reports the aggregate health of the daemon set. Health checks fan
// out concurrently; independent probes have no ordering constraint and
// bounding total latency matters more than sequencing.
func (o *Orchestrator) Status(ctx context.Context) IntegrationStatus {
	return o.integrationStatus(ctx)
}

// StartupOrder returns the names recorded by the last successful
// Initialize, in start order.
func (o *Orchestrator) StartupOrder() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	order := make([]string, len(o.startupOrder))
	copy(order, o.startupOrder)
	return order
}

// SubscribeStateChanges returns a channel receiving daemon state
// transitions. Slow subscribers miss events rather than block lifecycle
// progress.
func (o *Orchestrator) SubscribeStateChanges() <-chan StateChange {
	ch := make(chan StateChange, 64)
	o.subscriberMu.Lock()
	o.subscribers = append(o.subscribers, ch)
	o.subscriberMu.Unlock()
	return ch
}

func (o *Orchestrator) publishStateChange(name string, oldState, newState api.DaemonState, err error) {
	logging.Debug("Orchestrator", "Daemon %s state changed: %s -> %s", name, oldState, newState)

	event := StateChange{
		Name:      name,
		OldState:  oldState,
		NewState:  newState,
		Error:     err,
		Timestamp: time.Now(),
	}

	o.subscriberMu.RLock()
	subscribers := make([]chan<- StateChange, len(o.subscribers))
	copy(subscribers, o.subscribers)
	o.subscriberMu.RUnlock()

	for _, subscriber := range subscribers {
		select {
		case subscriber <- event:
		default:
		}
	}
}

func (o *Orchestrator) integrationStatus(ctx context.Context) IntegrationStatus {
	report := make([]DaemonHealth, len(o.decls))

	g, gctx := errgroup.WithContext(ctx)
	for i, decl := range o.decls {
		g.Go(func() error {
			report[i] = o.checkDaemon(gctx, decl)
			return nil
		})
	}
	g.Wait()

	requiredTotal := 0
	requiredHealthy := 0
	for i, decl := range o.decls {
		if decl.Required {
			requiredTotal++
			if report[i].Healthy {
				requiredHealthy++
			}
		}
	}

	health := api.HealthHealthy
	switch {
	case requiredTotal == 0 || requiredHealthy == requiredTotal:
		health = api.HealthHealthy
	case requiredHealthy > 0:
		health = api.HealthDegraded
	default:
		health = api.HealthFailed
	}

	return IntegrationStatus{Health: health, Daemons: report}
}

// checkDaemon probes one daemon with its declared health-check operation.
// A daemon is healthy iff the probe returns a success result.
func (o *Orchestrator) checkDaemon(ctx context.Context, decl dependency.Declaration) DaemonHealth {
	health := DaemonHealth{Name: decl.Name, Required: decl.Required}

	d, ok := o.registry.Get(decl.Name)
	if !ok {
		health.Detail = "not registered"
		return health
	}
	health.State = d.State()

	result := d.HandleMessage(ctx, api.Request{
		Command:       decl.HealthCheck,
		CorrelationID: uuid.NewString(),
		TargetID:      decl.Name,
		Timestamp:     time.Now(),
	})
	health.Healthy = result.Success
	if !result.Success {
		health.Detail = result.Error
	}
	return health
}

// cleanup is the startup-failure rollback: stop every daemon that was
// started, in reverse start order, swallowing individual failures. The
// caller still returns the original startup error.
func (o *Orchestrator) cleanup(ctx context.Context, started []string) {
	if len(started) == 0 {
		return
	}
	logging.Warn("Orchestrator", "Cleaning up %d started daemons", len(started))
	o.stopAll(ctx, dependency.Reverse(started))
}

func (o *Orchestrator) stopAll(ctx context.Context, order []string) {
	for _, name := range order {
		d, ok := o.registry.Get(name)
		if !ok {
			continue
		}
		if err := d.Stop(ctx); err != nil {
			logging.Error("Orchestrator", err, "Failed to stop daemon %s, continuing", name)
			continue
		}
		logging.Info("Orchestrator", "Stopped daemon %s", name)
	}
}
