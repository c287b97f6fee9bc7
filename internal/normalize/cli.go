package normalize

import (
	"strings"
)

// CLIParser normalizes command-line argument vectors. Accepted raw shapes
// are a plain []string and an object carrying an "args" list, the form the
// process boundary delivers.
//
// Token rules:
//   - "--key=value" becomes a map entry
//   - "--key value" becomes a map entry only when the value token is itself
//     followed by another flag; otherwise "--key" is a boolean true and the
//     token stays positional
//   - non-flag tokens accumulate positionally; the first positional token
//     is duplicated under "command", "filename" and "target" for caller
//     convenience
type CLIParser struct{}

func (p *CLIParser) Name() string  { return "cli" }
func (p *CLIParser) Priority() int { return 80 }

func (p *CLIParser) CanHandle(raw any) bool {
	_, ok := cliTokens(raw)
	return ok
}

func (p *CLIParser) Parse(raw any) map[string]any {
	tokens, _ := cliTokens(raw)
	params := make(map[string]any)
	var positional []string

	for i := 0; i < len(tokens); i++ {
		token := tokens[i]
		if !strings.HasPrefix(token, "--") {
			positional = append(positional, token)
			continue
		}

		flag := strings.TrimPrefix(token, "--")
		if key, value, found := strings.Cut(flag, "="); found {
			params[key] = value
			continue
		}

		// "--key value" only when the candidate value is itself followed
		// by another flag. A trailing non-flag token is a positional
		// argument, not a value, so "--verbose bar" keeps bar positional.
		if i+2 < len(tokens) && !strings.HasPrefix(tokens[i+1], "--") && strings.HasPrefix(tokens[i+2], "--") {
			params[flag] = tokens[i+1]
			i++
		} else {
			params[flag] = true
		}
	}

	if len(positional) > 0 {
		params["args"] = positional
		params["command"] = positional[0]
		params["filename"] = positional[0]
		params["target"] = positional[0]
	}

	return params
}

// cliTokens extracts the argument vector from the accepted raw shapes.
func cliTokens(raw any) ([]string, bool) {
	switch v := raw.(type) {
	case []string:
		return v, true
	case []any:
		tokens := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			tokens = append(tokens, s)
		}
		return tokens, true
	case map[string]any:
		args, ok := v["args"]
		if !ok || len(v) != 1 {
			return nil, false
		}
		return cliTokens(args)
	default:
		return nil, false
	}
}
