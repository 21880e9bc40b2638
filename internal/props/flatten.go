package props

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
)

// configFileExtensions are suffixes that mark a value as a file path even
// when it contains no separator, so the CSV heuristic leaves it alone.
var configFileExtensions = []string{
	".yaml", ".yml", ".json", ".properties", ".env", ".toml", ".ini", ".xml", ".conf",
}

// Flatten converts a nested property tree into a single-level map with
// dot-joined keys. Leaf values are normalized (see Normalize); nested maps
// never survive flattening.
func Flatten(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	flattenInto(out, "", in)
	return out
}

func flattenInto(out map[string]any, prefix string, in map[string]any) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := asStringMap(v); ok {
			flattenInto(out, key, nested)
			continue
		}
		out[key] = Normalize(v)
	}
}

// Normalize applies the value-shape rules to a single leaf value:
//
//   - nil becomes the empty string, never a list;
//   - a string containing commas is split into a trimmed list, unless it
//     looks like a file path (paths must never be silently split);
//   - a list is normalized element-wise, flattened one level, and
//     deduplicated by structural equality.
//
// Other scalar values pass through unchanged.
func Normalize(v any) any {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		if strings.Contains(val, ",") && !LooksLikeFilePath(val) {
			return SplitCSV(val)
		}
		return val
	}

	if items, ok := asSlice(v); ok {
		return normalizeList(items)
	}
	return v
}

// normalizeList normalizes each element, flattens one level of nested lists
// and of lists produced by CSV splitting, and drops structural duplicates
// while preserving first-seen order.
func normalizeList(items []any) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		n := Normalize(item)
		if inner, ok := asSlice(n); ok {
			for _, e := range inner {
				out = appendUnique(out, e)
			}
			continue
		}
		out = appendUnique(out, n)
	}
	return out
}

func appendUnique(list []any, v any) []any {
	for _, existing := range list {
		if DeepEqual(existing, v) {
			return list
		}
	}
	return append(list, v)
}

// LooksLikeFilePath reports whether a string should be treated as a file
// path: it contains a path separator or ends with a known config-file
// extension.
func LooksLikeFilePath(s string) bool {
	if strings.ContainsAny(s, `/\`) {
		return true
	}
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(s)))
	for _, known := range configFileExtensions {
		if ext == known {
			return true
		}
	}
	return false
}

// SplitCSV splits a comma-separated string into trimmed tokens, dropping
// empty ones.
func SplitCSV(s string) []any {
	parts := strings.Split(s, ",")
	out := make([]any, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

// asStringMap converts any map with string-convertible keys into a
// map[string]any, tolerating the map[any]any shape some decoders produce.
func asStringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case nil:
		return nil, false
	}

	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() || rv.Kind() != reflect.Map {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[keyString(iter.Key())] = iter.Value().Interface()
	}
	return out, true
}

// asSlice converts any slice or array value into []any.
func asSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case string, nil:
		return nil, false
	}

	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func stringify(v any) string {
	return fmt.Sprintf("%v", v)
}
