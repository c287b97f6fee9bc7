package daemon

import (
	"fmt"
	"sync"

	"continuum/internal/api"
)

// Registry holds all daemons by name. It is the orchestrator's single
// source of truth for the daemon collection.
type Registry struct {
	mu      sync.RWMutex
	daemons map[string]Daemon
}

// NewRegistry creates an empty daemon registry.
func NewRegistry() *Registry {
	return &Registry{
		daemons: make(map[string]Daemon),
	}
}

// Register adds a daemon to the registry.
func (r *Registry) Register(d Daemon) error {
	if d == nil {
		return fmt.Errorf("cannot register nil daemon")
	}

	name := d.Name()
	if name == "" {
		return fmt.Errorf("daemon has empty name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.daemons[name]; exists {
		return fmt.Errorf("daemon %s already registered", name)
	}

	r.daemons[name] = d
	return nil
}

// Unregister removes a daemon from the registry.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.daemons[name]; !exists {
		return api.NewDaemonNotFoundError(name)
	}

	delete(r.daemons, name)
	return nil
}

// Get returns a daemon by name.
func (r *Registry) Get(name string) (Daemon, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, exists := r.daemons[name]
	return d, exists
}

// GetAll returns all registered daemons.
func (r *Registry) GetAll() []Daemon {
	r.mu.RLock()
	defer r.mu.RUnlock()

	daemons := make([]Daemon, 0, len(r.daemons))
	for _, d := range r.daemons {
		daemons = append(daemons, d)
	}
	return daemons
}
