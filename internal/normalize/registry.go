package normalize

import (
	"sort"
	"sync"

	"continuum/pkg/logging"
)

// Parser converts one caller-supplied input format into canonical request
// parameters. Parsers are stateless across calls and registered once at
// startup.
type Parser interface {
	// Name identifies the parser in logs and diagnostics.
	Name() string

	// Priority orders parser selection; higher priorities are consulted
	// first.
	Priority() int

	// CanHandle reports whether this parser understands the raw input.
	CanHandle(raw any) bool

	// Parse converts the raw input into canonical parameters. Parse must
	// not fail: inputs it cannot fully interpret are wrapped, never
	// rejected, because command validation downstream produces the
	// meaningful error.
	Parse(raw any) map[string]any
}

// Registry is the ordered set of format parsers. Selection walks the list
// sorted descending by priority (ties broken by registration order) and
// returns the output of the first parser whose CanHandle matches.
//
// The registry is an explicit instance injected into whoever normalizes
// input; there is no package-level default.
type Registry struct {
	mu      sync.RWMutex
	parsers []Parser
	serial  int
}

type registeredParser struct {
	Parser
	order int
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// NewDefaultRegistry creates a registry preloaded with every built-in
// parser: MCP JSON-RPC, persona-mesh intent, CLI argv, string-JSON and the
// universal object pass-through.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&MCPParser{})
	r.Register(&MeshParser{})
	r.Register(&CLIParser{})
	r.Register(&JSONStringParser{})
	r.Register(&ObjectParser{})
	return r
}

// Register adds a parser, keeping the list sorted by descending priority
// with registration order as the tie-break.
func (r *Registry) Register(p Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.serial++
	entry := registeredParser{Parser: p, order: r.serial}
	r.parsers = append(r.parsers, entry)
	sort.SliceStable(r.parsers, func(i, j int) bool {
		return r.parsers[i].Priority() > r.parsers[j].Priority()
	})
	logging.Debug("Normalize", "Registered parser %s (priority %d)", p.Name(), p.Priority())
}

// Parsers returns the current selection order, highest priority first.
func (r *Registry) Parsers() []Parser {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Parser, len(r.parsers))
	copy(out, r.parsers)
	return out
}

// Parse normalizes the raw input through the first matching parser.
//
// If no parser matches, the input passes through unchanged: unknown shapes
// still reach command validation, which is better positioned to produce a
// meaningful error. Parse never fails.
func (r *Registry) Parse(raw any) map[string]any {
	r.mu.RLock()
	parsers := make([]Parser, len(r.parsers))
	copy(parsers, r.parsers)
	r.mu.RUnlock()

	for _, p := range parsers {
		if p.CanHandle(raw) {
			logging.Debug("Normalize", "Input matched parser %s", p.Name())
			return p.Parse(raw)
		}
	}

	// Pass-through for unmatched input. Non-map values are carried under
	// "data" so the canonical shape stays a parameter map.
	if m, ok := asStringMap(raw); ok {
		return m
	}
	return map[string]any{"data": raw}
}

// asStringMap normalizes the two map shapes JSON decoding and Go callers
// produce into map[string]any.
func asStringMap(raw any) (map[string]any, bool) {
	switch m := raw.(type) {
	case map[string]any:
		return m, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[k] = v
		}
		return out, true
	default:
		return nil, false
	}
}
