package normalize

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// MCPContextKey carries the original JSON-RPC method/id/version alongside
// the canonical parameters so the reply can be correlated back into the
// caller's protocol.
const MCPContextKey = "_mcpContext"

// MCPParser normalizes MCP-flavored JSON-RPC 2.0 requests: objects with
// jsonrpc "2.0" and a method name. Well-known protocol methods translate
// into canonical command shapes; unrecognized methods fall back to
// {command: method} with the request params spread alongside.
type MCPParser struct{}

func (p *MCPParser) Name() string  { return "mcp-jsonrpc" }
func (p *MCPParser) Priority() int { return 100 }

func (p *MCPParser) CanHandle(raw any) bool {
	m, ok := asStringMap(raw)
	if !ok {
		return false
	}
	if version, ok := m["jsonrpc"].(string); !ok || version != "2.0" {
		return false
	}
	method, ok := m["method"].(string)
	return ok && method != ""
}

func (p *MCPParser) Parse(raw any) map[string]any {
	m, _ := asStringMap(raw)
	method := m["method"].(string)
	rpcParams, _ := asStringMap(m["params"])

	params := translateMethod(method, rpcParams)

	params[MCPContextKey] = map[string]any{
		"method":  method,
		"id":      m["id"],
		"jsonrpc": m["jsonrpc"],
	}
	return params
}

// translateMethod maps well-known MCP methods to canonical command shapes.
func translateMethod(method string, rpcParams map[string]any) map[string]any {
	params := make(map[string]any)

	switch method {
	case string(mcp.MethodToolsList):
		params["command"] = "list-tools"

	case string(mcp.MethodToolsCall):
		// The tool name becomes the command; its arguments spread into
		// the top-level parameters.
		if name, ok := rpcParams["name"].(string); ok {
			params["command"] = name
		} else {
			params["command"] = "call-tool"
		}
		if arguments, ok := asStringMap(rpcParams["arguments"]); ok {
			for k, v := range arguments {
				params[k] = v
			}
		}

	case string(mcp.MethodResourcesList):
		params["command"] = "list-resources"

	case string(mcp.MethodResourcesRead):
		params["command"] = "read-resource"
		if uri, ok := rpcParams["uri"]; ok {
			params["uri"] = uri
		}

	case string(mcp.MethodPromptsList):
		params["command"] = "list-prompts"

	case string(mcp.MethodPromptsGet):
		params["command"] = "get-prompt"
		if name, ok := rpcParams["name"]; ok {
			params["name"] = name
		}
		if arguments, ok := asStringMap(rpcParams["arguments"]); ok {
			for k, v := range arguments {
				params[k] = v
			}
		}

	case "completion/complete":
		params["command"] = "complete"
		for k, v := range rpcParams {
			params[k] = v
		}

	default:
		// Unrecognized methods pass through with the method name as the
		// command so new protocol surface degrades gracefully.
		params["command"] = method
		for k, v := range rpcParams {
			params[k] = v
		}
	}

	return params
}
