package daemon

import (
	"continuum/internal/router"
)

// DirectoryAdapter exposes a Registry as a router.Directory so the directed
// router can resolve target names without importing daemon construction or
// lifecycle concerns.
type DirectoryAdapter struct {
	registry *Registry
}

// NewDirectoryAdapter wraps a registry for directed routing.
func NewDirectoryAdapter(registry *Registry) *DirectoryAdapter {
	return &DirectoryAdapter{registry: registry}
}

// Lookup resolves a daemon name to a routing target.
func (a *DirectoryAdapter) Lookup(name string) (router.Target, bool) {
	d, ok := a.registry.Get(name)
	if !ok {
		return nil, false
	}
	return d, true
}
