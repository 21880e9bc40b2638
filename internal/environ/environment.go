package environ

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/ysemennikov/envlayers/internal/chain"
)

// LoggingPrefix marks the keys projected into the logging side channel.
const LoggingPrefix = "logging."

// Environment is the prepared, read-only configuration environment: an
// ordered chain of named property sources with first-match-wins lookup.
type Environment struct {
	sources        *chain.Sources
	activeProfiles []string
	skipped        error
}

// Get returns the value for key from the highest-priority source defining
// it.
func (e *Environment) Get(key string) (any, bool) {
	return e.sources.Get(key)
}

// GetString returns the value for key rendered as a string, or the empty
// string when absent.
func (e *Environment) GetString(key string) string {
	v, ok := e.sources.Get(key)
	if !ok {
		return ""
	}
	if s, isString := v.(string); isString {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// GetStrings returns the value for key as a string list: lists are rendered
// element-wise, scalars become a single-element list, absent keys yield nil.
func (e *Environment) GetStrings(key string) []string {
	v, ok := e.sources.Get(key)
	if !ok {
		return nil
	}
	list, isList := v.([]any)
	if !isList {
		return []string{e.GetString(key)}
	}
	out := make([]string, len(list))
	for i, item := range list {
		if s, isString := item.(string); isString {
			out[i] = s
		} else {
			out[i] = fmt.Sprintf("%v", item)
		}
	}
	return out
}

// Sources exposes the underlying chain.
func (e *Environment) Sources() *chain.Sources {
	return e.sources
}

// ActiveProfiles returns the active profile list in priority order.
func (e *Environment) ActiveProfiles() []string {
	return append([]string(nil), e.activeProfiles...)
}

// Skipped reports the assets preparation had to skip, aggregated into one
// error, or nil when every asset loaded.
func (e *Environment) Skipped() error {
	return e.skipped
}

// Bind decodes the subtree of keys under prefix onto out, which must be a
// pointer to a struct or map. Dotted keys below the prefix become nested
// fields; values convert weakly (strings to numbers and booleans) since
// most sources carry strings.
func (e *Environment) Bind(prefix string, out any) error {
	tree := make(map[string]any)
	for key, value := range e.sources.Flattened() {
		rest, ok := strings.CutPrefix(key, prefix+".")
		if !ok {
			continue
		}
		insertPath(tree, strings.Split(rest, "."), value)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("bind %s: %w", prefix, err)
	}
	if err := decoder.Decode(tree); err != nil {
		return fmt.Errorf("bind %s: %w", prefix, err)
	}
	return nil
}

func insertPath(tree map[string]any, path []string, value any) {
	for len(path) > 1 {
		child, ok := tree[path[0]].(map[string]any)
		if !ok {
			child = make(map[string]any)
			tree[path[0]] = child
		}
		tree = child
		path = path[1:]
	}
	tree[path[0]] = value
}

// LoggingProperties projects the logging side channel: every key under the
// "logging." prefix, re-keyed with the prefix stripped, honoring chain
// order.
func (e *Environment) LoggingProperties() map[string]any {
	out := make(map[string]any)
	for key, value := range e.sources.Flattened() {
		if rest, ok := strings.CutPrefix(key, LoggingPrefix); ok && rest != "" {
			out[rest] = value
		}
	}
	return out
}

// VersionProperties projects the version side channel: the key "version"
// and every key ending in ".version".
func (e *Environment) VersionProperties() map[string]any {
	out := make(map[string]any)
	for key, value := range e.sources.Flattened() {
		if key == "version" || strings.HasSuffix(key, ".version") {
			out[key] = value
		}
	}
	return out
}
