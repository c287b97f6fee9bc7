// Package normalize converts heterogeneous caller input into canonical
// request parameters.
//
// A Registry holds format-specific parsers sorted descending by priority;
// the first parser whose CanHandle matches produces the parameters. Built-in
// parsers cover MCP-flavored JSON-RPC requests, persona-mesh intent
// messages from peer agents, CLI argument vectors, JSON-encoded strings and
// a universal object pass-through.
//
// Normalization is deliberately permissive: no parser and no registry call
// ever fails. Shapes nothing understands pass through unchanged so command
// validation, which knows the expected parameters, produces the meaningful
// error.
package normalize
