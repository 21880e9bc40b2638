package bootstrap

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/ysemennikov/envlayers/internal/asset"
	"github.com/ysemennikov/envlayers/internal/parser"
)

// The two directive keys the bootstrap config accepts.
const (
	KeyEnable  = "enable"
	KeyDisable = "disable"
)

const (
	yamlExample       = "enable:\n  - module-a\n  - module-b\ndisable: [module-c]"
	jsonExample       = `{"enable": ["module-a", "module-b"], "disable": ["module-c"]}`
	propertiesExample = "enable[0]=module-a\nenable[1]=module-b\ndisable[0]=module-c"
)

// Directives holds the parsed enable/disable lists.
type Directives struct {
	Enable  []string
	Disable []string
}

// Load parses a bootstrap-config asset, dispatching on file extension.
// Every error here is fatal for startup.
func Load(a asset.Asset) (Directives, error) {
	switch a.Ext() {
	case ".yaml", ".yml":
		return loadYAML(a)
	case ".json":
		return loadJSON(a)
	case ".properties":
		return loadProperties(a)
	default:
		return Directives{}, &parser.UnsupportedFormatError{Path: a.Path}
	}
}

func directives(values map[string][]string) Directives {
	return Directives{Enable: values[KeyEnable], Disable: values[KeyDisable]}
}

func allowedKey(key string) bool {
	return key == KeyEnable || key == KeyDisable
}

// loadYAML accepts a mapping of the two allowed keys to either block
// sequences of scalars or inline [...] arrays. Anything else is a hard
// StructureError.
func loadYAML(a asset.Asset) (Directives, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(a.Data, &doc); err != nil {
		return Directives{}, &parser.ParseError{Path: a.Path, Err: err}
	}
	if len(doc.Content) == 0 {
		return Directives{}, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return Directives{}, structureErr(a, fmt.Sprintf("line %d: top level must be a mapping of %q/%q to lists", root.Line, KeyEnable, KeyDisable), yamlExample)
	}

	values := make(map[string][]string)
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valueNode := root.Content[i], root.Content[i+1]
		key := keyNode.Value
		if !allowedKey(key) {
			return Directives{}, structureErr(a, fmt.Sprintf("line %d: unknown key %q", keyNode.Line, key), yamlExample)
		}
		if valueNode.Kind != yaml.SequenceNode {
			return Directives{}, structureErr(a, fmt.Sprintf("line %d: key %q must map to a list", valueNode.Line, key), yamlExample)
		}
		items := make([]string, 0, len(valueNode.Content))
		for _, item := range valueNode.Content {
			if item.Kind != yaml.ScalarNode || item.Tag == "!!null" {
				return Directives{}, structureErr(a, fmt.Sprintf("line %d: list under %q may only contain strings", item.Line, key), yamlExample)
			}
			items = append(items, item.Value)
		}
		values[key] = items
	}
	return directives(values), nil
}

// loadJSON accepts an object mapping each allowed key to a JSON array of
// strings. Comments and trailing commas are tolerated; non-array values,
// null entries, and unknown keys are hard errors.
func loadJSON(a asset.Asset) (Directives, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(jsonc.ToJSON(a.Data), &raw); err != nil {
		return Directives{}, &parser.ParseError{Path: a.Path, Err: err}
	}

	values := make(map[string][]string)
	for key, msg := range raw {
		if !allowedKey(key) {
			return Directives{}, structureErr(a, fmt.Sprintf("unknown key %q", key), jsonExample)
		}
		var items []*string
		if err := json.Unmarshal(msg, &items); err != nil {
			return Directives{}, structureErr(a, fmt.Sprintf("key %q must map to an array of strings", key), jsonExample)
		}
		if items == nil {
			return Directives{}, structureErr(a, fmt.Sprintf("key %q must map to an array, not null", key), jsonExample)
		}
		list := make([]string, 0, len(items))
		for _, item := range items {
			if item == nil {
				return Directives{}, structureErr(a, fmt.Sprintf("key %q contains a null entry", key), jsonExample)
			}
			list = append(list, *item)
		}
		values[key] = list
	}
	return directives(values), nil
}

// loadProperties accepts indexed entries (key[0]=value, key[1]=value, ...).
// Indices must start at 0, be contiguous, and be non-duplicated.
func loadProperties(a asset.Asset) (Directives, error) {
	indexed := make(map[string]map[int]string)

	scanner := bufio.NewScanner(bytes.NewReader(a.Data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}

		rawKey, value, found := strings.Cut(line, "=")
		if !found {
			return Directives{}, structureErr(a, fmt.Sprintf("line %d: expected key[index]=value, got %q", lineNo, line), propertiesExample)
		}
		key, index, err := splitIndexedKey(strings.TrimSpace(rawKey))
		if err != nil {
			return Directives{}, structureErr(a, fmt.Sprintf("line %d: %v", lineNo, err), propertiesExample)
		}
		if !allowedKey(key) {
			return Directives{}, structureErr(a, fmt.Sprintf("line %d: unknown key %q", lineNo, key), propertiesExample)
		}

		entries := indexed[key]
		if entries == nil {
			entries = make(map[int]string)
			indexed[key] = entries
		}
		if _, dup := entries[index]; dup {
			return Directives{}, structureErr(a, fmt.Sprintf("line %d: duplicate index %d for key %q", lineNo, index, key), propertiesExample)
		}
		entries[index] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return Directives{}, &parser.ParseError{Path: a.Path, Err: err}
	}

	values := make(map[string][]string, len(indexed))
	for key, entries := range indexed {
		indices := make([]int, 0, len(entries))
		for i := range entries {
			indices = append(indices, i)
		}
		sort.Ints(indices)

		for want, got := range indices {
			if got != want {
				return Directives{}, structureErr(a, fmt.Sprintf("key %q: indices must start at 0 and be contiguous; missing index %d", key, want), propertiesExample)
			}
		}

		list := make([]string, len(indices))
		for i := range indices {
			list[i] = entries[i]
		}
		values[key] = list
	}
	return directives(values), nil
}

// splitIndexedKey parses "name[3]" into ("name", 3).
func splitIndexedKey(raw string) (string, int, error) {
	open := strings.IndexByte(raw, '[')
	if open <= 0 || !strings.HasSuffix(raw, "]") {
		return "", 0, fmt.Errorf("key %q must use the key[index] form", raw)
	}
	index, err := strconv.Atoi(raw[open+1 : len(raw)-1])
	if err != nil || index < 0 {
		return "", 0, fmt.Errorf("key %q has an invalid index", raw)
	}
	return raw[:open], index, nil
}

func structureErr(a asset.Asset, reason, example string) error {
	return &parser.StructureError{Path: a.Path, Reason: reason, Example: example}
}
