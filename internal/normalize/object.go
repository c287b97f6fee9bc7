package normalize

// ObjectParser is the universal fallback: it matches any object and
// returns it unchanged. It registers at the lowest priority so every
// format-specific parser is consulted first.
type ObjectParser struct{}

func (p *ObjectParser) Name() string  { return "object" }
func (p *ObjectParser) Priority() int { return 10 }

func (p *ObjectParser) CanHandle(raw any) bool {
	_, ok := asStringMap(raw)
	return ok
}

func (p *ObjectParser) Parse(raw any) map[string]any {
	m, _ := asStringMap(raw)
	return m
}
