package dependency

import (
	"continuum/internal/api"
)

// Declaration describes one orchestratable daemon: its unique name, whether
// its absence aborts startup, the message type used to probe liveness, the
// daemons that must be running before it, and opaque init parameters.
//
// Declarations are created at process configuration time and are immutable
// thereafter.
type Declaration struct {
	Name        string         `yaml:"name" json:"name"`
	Required    bool           `yaml:"required" json:"required"`
	HealthCheck string         `yaml:"healthCheck" json:"healthCheck"`
	DependsOn   []string       `yaml:"dependsOn" json:"dependsOn,omitempty"`
	Config      map[string]any `yaml:"config" json:"config,omitempty"`
}

// Graph answers dependency-order queries over a set of declarations. The
// DependsOn relation must form a Directed Acyclic Graph; New rejects cyclic
// or otherwise invalid configurations instead of producing an arbitrary
// order.
//
// A Graph is not thread-safe by itself; callers must synchronise if they
// mutate concurrently. In practice it is built once at startup and read
// thereafter.
type Graph struct {
	declared []string
	deps     map[string][]string
}

// New validates the declarations and builds a graph. It fails with a
// ConfigurationError on duplicate names, references to undeclared daemons,
// or dependency cycles.
func New(decls []Declaration) (*Graph, error) {
	g := &Graph{
		declared: make([]string, 0, len(decls)),
		deps:     make(map[string][]string, len(decls)),
	}

	for _, d := range decls {
		if d.Name == "" {
			return nil, api.NewConfigurationError("daemon declaration with empty name")
		}
		if _, exists := g.deps[d.Name]; exists {
			return nil, api.NewConfigurationError("duplicate daemon declaration: %s", d.Name)
		}
		g.declared = append(g.declared, d.Name)
		depsCopy := make([]string, len(d.DependsOn))
		copy(depsCopy, d.DependsOn)
		g.deps[d.Name] = depsCopy
	}

	for name, deps := range g.deps {
		for _, dep := range deps {
			if _, exists := g.deps[dep]; !exists {
				return nil, api.NewConfigurationError("daemon %s depends on undeclared daemon %s", name, dep)
			}
		}
	}

	// Probing the full order up front surfaces cycles at configuration
	// time, before any daemon runs.
	if _, err := g.StartupOrder(); err != nil {
		return nil, err
	}

	return g, nil
}

// Dependencies returns a copy of the immediate dependency list for the
// given daemon, or nil if it is not declared.
func (g *Graph) Dependencies(name string) []string {
	deps, ok := g.deps[name]
	if !ok {
		return nil
	}
	depsCopy := make([]string, len(deps))
	copy(depsCopy, deps)
	return depsCopy
}

// Dependents returns all daemon names that directly depend on the given
// daemon, in declaration order.
func (g *Graph) Dependents(name string) []string {
	var res []string
	for _, candidate := range g.declared {
		for _, dep := range g.deps[candidate] {
			if dep == name {
				res = append(res, candidate)
				break
			}
		}
	}
	return res
}

// StartupOrder computes a topological ordering of the declared daemons such
// that every daemon appears after all members of its DependsOn set. When
// several daemons have no remaining unmet dependencies, declaration order
// breaks the tie, so the result is deterministic for a given configuration.
//
// A dependency cycle yields a ConfigurationError naming the cycle members.
func (g *Graph) StartupOrder() ([]string, error) {
	indegree := make(map[string]int, len(g.declared))
	for _, name := range g.declared {
		indegree[name] = len(g.deps[name])
	}

	order := make([]string, 0, len(g.declared))
	resolved := make(map[string]bool, len(g.declared))

	// Kahn's algorithm. Each round scans the declaration list so that
	// ready daemons are emitted in declaration order.
	for len(order) < len(g.declared) {
		progressed := false
		for _, name := range g.declared {
			if resolved[name] || indegree[name] > 0 {
				continue
			}
			order = append(order, name)
			resolved[name] = true
			progressed = true
			for _, dependent := range g.Dependents(name) {
				indegree[dependent]--
			}
		}
		if !progressed {
			return nil, api.NewCycleError(g.findCycle(resolved))
		}
	}

	return order, nil
}

// ShutdownOrder is the exact reverse of StartupOrder.
func (g *Graph) ShutdownOrder() ([]string, error) {
	startup, err := g.StartupOrder()
	if err != nil {
		return nil, err
	}
	return Reverse(startup), nil
}

// Reverse returns a new slice holding the given order back to front. The
// orchestrator uses it to derive shutdown order from the recorded startup
// sequence.
func Reverse(order []string) []string {
	reversed := make([]string, len(order))
	for i, name := range order {
		reversed[len(order)-1-i] = name
	}
	return reversed
}

// findCycle walks the unresolved remainder of the graph and returns one
// concrete cycle path, e.g. [A B A]. The walk starts from the first
// unresolved daemon in declaration order, so the reported cycle is stable.
func (g *Graph) findCycle(resolved map[string]bool) []string {
	var start string
	for _, name := range g.declared {
		if !resolved[name] {
			start = name
			break
		}
	}
	if start == "" {
		return nil
	}

	// Follow unresolved dependencies until a name repeats. Every
	// unresolved node has at least one unresolved dependency, so the walk
	// must close a loop within len(declared) steps.
	path := []string{start}
	seen := map[string]int{start: 0}
	current := start
	for range g.declared {
		next := ""
		for _, dep := range g.deps[current] {
			if !resolved[dep] {
				next = dep
				break
			}
		}
		if next == "" {
			break
		}
		if at, ok := seen[next]; ok {
			return append(path[at:], next)
		}
		seen[next] = len(path)
		path = append(path, next)
		current = next
	}
	return path
}
