package normalize

import (
	"encoding/json"
)

// JSONStringParser normalizes string input by attempting to decode it as
// JSON. Strings that are not valid JSON objects are wrapped as
// {"data": original} rather than rejected; downstream validation decides
// whether the shape is usable.
type JSONStringParser struct{}

func (p *JSONStringParser) Name() string  { return "json-string" }
func (p *JSONStringParser) Priority() int { return 60 }

func (p *JSONStringParser) CanHandle(raw any) bool {
	_, ok := raw.(string)
	return ok
}

func (p *JSONStringParser) Parse(raw any) map[string]any {
	s := raw.(string)

	var decoded any
	if err := json.Unmarshal([]byte(s), &decoded); err != nil {
		return map[string]any{"data": s}
	}

	if obj, ok := decoded.(map[string]any); ok {
		return obj
	}
	// Valid JSON but not an object (array, number, quoted string).
	return map[string]any{"data": decoded}
}
