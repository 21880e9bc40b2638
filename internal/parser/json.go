package parser

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/jsonc"

	"github.com/ysemennikov/envlayers/internal/asset"
)

// JSON parses *.json assets into a nested property map. Comments and
// trailing commas are tolerated; config JSON in the wild carries both.
type JSON struct{}

// NewJSON creates the JSON parser.
func NewJSON() *JSON {
	return &JSON{}
}

// CanParse claims *.json files.
func (p *JSON) CanParse(a asset.Asset) bool {
	return a.Ext() == ".json"
}

// Load decodes the asset. The top level must be an object.
func (p *JSON) Load(a asset.Asset) (ParsedSource, error) {
	var raw any
	if err := json.Unmarshal(jsonc.ToJSON(a.Data), &raw); err != nil {
		return ParsedSource{}, &ParseError{Path: a.Path, Err: err}
	}

	properties, ok := raw.(map[string]any)
	if !ok {
		return ParsedSource{}, &ParseError{
			Path: a.Path,
			Err:  fmt.Errorf("top-level JSON value must be an object, got %T", raw),
		}
	}

	return ParsedSource{
		Module:     a.Module,
		Profile:    profileFromFileName(a.Name()),
		Properties: properties,
	}, nil
}
