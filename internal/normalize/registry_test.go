package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeParser struct {
	name     string
	priority int
	matches  bool
	output   map[string]any
}

func (f *fakeParser) Name() string           { return f.name }
func (f *fakeParser) Priority() int          { return f.priority }
func (f *fakeParser) CanHandle(raw any) bool { return f.matches }
func (f *fakeParser) Parse(raw any) map[string]any {
	return f.output
}

func TestHigherPriorityParserWins(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeParser{name: "low", priority: 10, matches: true, output: map[string]any{"by": "low"}})
	r.Register(&fakeParser{name: "high", priority: 90, matches: true, output: map[string]any{"by": "high"}})

	params := r.Parse("anything")
	assert.Equal(t, "high", params["by"])
}

func TestRegistrationOrderBreaksPriorityTies(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeParser{name: "first", priority: 50, matches: true, output: map[string]any{"by": "first"}})
	r.Register(&fakeParser{name: "second", priority: 50, matches: true, output: map[string]any{"by": "second"}})

	params := r.Parse("anything")
	assert.Equal(t, "first", params["by"])
}

func TestUnmatchedObjectPassesThrough(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeParser{name: "never", priority: 90, matches: false})

	raw := map[string]any{"command": "noop", "x": 1}
	params := r.Parse(raw)
	assert.Equal(t, raw, params)
}

func TestUnmatchedScalarWrappedUnderData(t *testing.T) {
	r := NewRegistry()
	params := r.Parse(42)
	assert.Equal(t, 42, params["data"])
}

func TestDefaultRegistrySelectionOrder(t *testing.T) {
	r := NewDefaultRegistry()
	parsers := r.Parsers()
	require.Len(t, parsers, 5)

	names := make([]string, len(parsers))
	for i, p := range parsers {
		names[i] = p.Name()
	}
	assert.Equal(t, []string{"mcp-jsonrpc", "persona-mesh", "cli", "json-string", "object"}, names)
}

func TestDefaultRegistryRoutesByShape(t *testing.T) {
	r := NewDefaultRegistry()

	tests := []struct {
		name   string
		raw    any
		expect func(t *testing.T, params map[string]any)
	}{
		{
			name: "argv slice hits cli parser",
			raw:  []string{"--verbose", "shot.png"},
			expect: func(t *testing.T, params map[string]any) {
				assert.Equal(t, true, params["verbose"])
				assert.Equal(t, "shot.png", params["command"])
			},
		},
		{
			name: "jsonrpc object hits mcp parser",
			raw: map[string]any{
				"jsonrpc": "2.0",
				"method":  "tools/list",
			},
			expect: func(t *testing.T, params map[string]any) {
				assert.Equal(t, "list-tools", params["command"])
				assert.Contains(t, params, MCPContextKey)
			},
		},
		{
			name: "intent object hits mesh parser",
			raw: map[string]any{
				"persona": "archivist",
				"intent":  "store",
				"action":  map[string]any{"command": "persist"},
			},
			expect: func(t *testing.T, params map[string]any) {
				assert.Equal(t, "persist", params["command"])
				assert.Contains(t, params, PersonaContextKey)
			},
		},
		{
			name: "json string decodes",
			raw:  `{"command":"status"}`,
			expect: func(t *testing.T, params map[string]any) {
				assert.Equal(t, "status", params["command"])
			},
		},
		{
			name: "plain object falls through to object parser",
			raw:  map[string]any{"command": "status"},
			expect: func(t *testing.T, params map[string]any) {
				assert.Equal(t, "status", params["command"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.expect(t, r.Parse(tt.raw))
		})
	}
}
