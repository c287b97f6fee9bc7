package normalize

// Mesh side-channel keys carried alongside the action parameters.
const (
	// PersonaContextKey carries the persona/intent/context of the
	// originating peer agent.
	PersonaContextKey = "_personaContext"

	// CollaborationChainKey carries the chain id linking multi-agent
	// collaboration steps.
	CollaborationChainKey = "_collaborationChain"
)

// MeshParser normalizes structured intent messages from peer agents: an
// object carrying "persona", "intent" and "action" fields. The output is
// the action object augmented with a _personaContext side channel and,
// when the message is part of a collaboration chain, a _collaborationChain
// marker.
type MeshParser struct{}

func (p *MeshParser) Name() string  { return "persona-mesh" }
func (p *MeshParser) Priority() int { return 90 }

func (p *MeshParser) CanHandle(raw any) bool {
	m, ok := asStringMap(raw)
	if !ok {
		return false
	}
	_, hasPersona := m["persona"]
	_, hasIntent := m["intent"]
	_, hasAction := m["action"]
	return hasPersona && hasIntent && hasAction
}

func (p *MeshParser) Parse(raw any) map[string]any {
	m, _ := asStringMap(raw)

	params := make(map[string]any)
	if action, ok := asStringMap(m["action"]); ok {
		for k, v := range action {
			params[k] = v
		}
	} else if m["action"] != nil {
		params["data"] = m["action"]
	}

	personaContext := map[string]any{
		"persona": m["persona"],
		"intent":  m["intent"],
	}
	if context, ok := m["context"]; ok {
		personaContext["context"] = context
	}
	params[PersonaContextKey] = personaContext

	if collaboration, ok := asStringMap(m["collaboration"]); ok {
		if chainID, ok := collaboration["chainId"]; ok {
			params[CollaborationChainKey] = chainID
		}
	}

	return params
}
