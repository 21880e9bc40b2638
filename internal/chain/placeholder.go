package chain

import (
	"fmt"
	"strings"
)

// PlaceholderResolver resolves ${key} and ${key:fallback} expressions in
// string values against a property-source chain. Unresolvable placeholders
// are left verbatim rather than erased, so a later pass (or the operator)
// can still see them.
type PlaceholderResolver struct {
	sources *Sources
}

// NewPlaceholderResolver creates a resolver backed by the given chain.
func NewPlaceholderResolver(sources *Sources) *PlaceholderResolver {
	return &PlaceholderResolver{sources: sources}
}

// Resolve expands placeholders in string values, recursing into lists.
// Non-string values pass through unchanged.
func (r *PlaceholderResolver) Resolve(value any) any {
	switch v := value.(type) {
	case string:
		return r.expand(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = r.Resolve(item)
		}
		return out
	default:
		return value
	}
}

func (r *PlaceholderResolver) expand(s string) string {
	var b strings.Builder
	for {
		start := strings.Index(s, "${")
		if start < 0 {
			b.WriteString(s)
			return b.String()
		}
		end := strings.Index(s[start:], "}")
		if end < 0 {
			b.WriteString(s)
			return b.String()
		}
		end += start

		b.WriteString(s[:start])
		expr := s[start+2 : end]
		key, fallback, hasFallback := strings.Cut(expr, ":")

		if v, ok := r.sources.Get(key); ok {
			b.WriteString(stringValue(v))
		} else if hasFallback {
			b.WriteString(fallback)
		} else {
			// Unresolvable: keep the placeholder verbatim.
			b.WriteString(s[start : end+1])
		}
		s = s[end+1:]
	}
}

func stringValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
