package parser

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ysemennikov/envlayers/internal/asset"
)

const yamlExample = "server.port: 8080\ntags: [a, b]\nfeatures:\n  - first\n  - second"

// YAML parses a deliberately restricted YAML subset: a single top-level
// mapping whose values are scalars or lists of scalars. Anything else is a
// StructureError with a corrective example. The strictness is cheap and
// unambiguous, and beats silently accepting malformed input.
type YAML struct{}

// NewYAML creates the restricted YAML parser.
func NewYAML() *YAML {
	return &YAML{}
}

// CanParse claims *.yaml and *.yml files.
func (p *YAML) CanParse(a asset.Asset) bool {
	ext := a.Ext()
	return ext == ".yaml" || ext == ".yml"
}

// Load parses and validates the asset against the restricted subset.
func (p *YAML) Load(a asset.Asset) (ParsedSource, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(a.Data, &doc); err != nil {
		return ParsedSource{}, &ParseError{Path: a.Path, Err: err}
	}

	properties := make(map[string]any)
	if len(doc.Content) > 0 {
		root := doc.Content[0]
		if err := p.decodeMapping(a.Path, root, properties); err != nil {
			return ParsedSource{}, err
		}
	}

	return ParsedSource{
		Module:     a.Module,
		Profile:    profileFromFileName(a.Name()),
		Properties: properties,
	}, nil
}

func (p *YAML) decodeMapping(path string, root *yaml.Node, out map[string]any) error {
	switch root.Kind {
	case yaml.MappingNode:
	case yaml.SequenceNode:
		return p.structureError(path, fmt.Sprintf("line %d: list item has no parent key", root.Line))
	default:
		return p.structureError(path, fmt.Sprintf("line %d: top level must be a mapping", root.Line))
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valueNode := root.Content[i], root.Content[i+1]

		if keyNode.Column != 1 {
			return p.structureError(path, fmt.Sprintf("line %d: key %q is indented; keys must start at column 0", keyNode.Line, keyNode.Value))
		}
		key := keyNode.Value
		if strings.TrimSpace(key) == "" {
			return p.structureError(path, fmt.Sprintf("line %d: empty key", keyNode.Line))
		}

		value, err := p.decodeValue(path, key, valueNode)
		if err != nil {
			return err
		}
		out[key] = value
	}
	return nil
}

func (p *YAML) decodeValue(path, key string, node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Style == 0 && strings.HasPrefix(strings.TrimSpace(node.Value), "[") {
			return nil, p.structureError(path, fmt.Sprintf("line %d: key %q has an invalid inline list", node.Line, key))
		}
		return decodeScalar(path, node)
	case yaml.SequenceNode:
		items := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, p.structureError(path, fmt.Sprintf("line %d: list under key %q may only contain scalars", item.Line, key))
			}
			v, err := decodeScalar(path, item)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, nil
	default:
		return nil, p.structureError(path, fmt.Sprintf("line %d: key %q must map to a scalar or a list of scalars", node.Line, key))
	}
}

func (p *YAML) structureError(path, reason string) error {
	return &StructureError{Path: path, Reason: reason, Example: yamlExample}
}

// decodeScalar resolves a scalar node into its natural Go type (string,
// int, float64, bool, or nil).
func decodeScalar(path string, node *yaml.Node) (any, error) {
	var v any
	if err := node.Decode(&v); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return v, nil
}
