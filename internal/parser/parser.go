package parser

import (
	"github.com/ysemennikov/envlayers/internal/asset"
)

// DefaultProfile is the reserved profile name used when an asset carries no
// profile suffix.
const DefaultProfile = "default"

// ParsedSource is the immutable output of a single parser invocation over a
// single asset. Properties may hold scalars, lists, or nested maps; the
// flatten step downstream removes nesting.
type ParsedSource struct {
	Module     string
	Profile    string
	Properties map[string]any
}

// Parser loads one configuration format.
type Parser interface {
	// CanParse reports whether this parser claims the asset.
	CanParse(a asset.Asset) bool
	// Load parses the asset into a ParsedSource.
	Load(a asset.Asset) (ParsedSource, error)
}

// Registry selects parsers for assets. Parsers are tried in registration
// order, first match wins; the fallback (if any) is consulted only when no
// registered parser claims the asset.
type Registry struct {
	parsers  []Parser
	fallback Parser
}

// NewRegistry creates a registry with the given parsers in selection order.
func NewRegistry(parsers ...Parser) *Registry {
	return &Registry{parsers: parsers}
}

// WithFallback sets the last-resort parser, typically the heuristic
// source-text parser.
func (r *Registry) WithFallback(p Parser) *Registry {
	r.fallback = p
	return r
}

// Select returns the first parser claiming the asset.
func (r *Registry) Select(a asset.Asset) (Parser, bool) {
	for _, p := range r.parsers {
		if p.CanParse(a) {
			return p, true
		}
	}
	if r.fallback != nil && r.fallback.CanParse(a) {
		return r.fallback, true
	}
	return nil, false
}

// Parse selects a parser for the asset and loads it. An asset no parser
// claims yields an UnsupportedFormatError.
func (r *Registry) Parse(a asset.Asset) (ParsedSource, error) {
	p, ok := r.Select(a)
	if !ok {
		return ParsedSource{}, &UnsupportedFormatError{Path: a.Path}
	}
	return p.Load(a)
}

// DefaultRegistry returns the standard parser lineup: dotenv, JSON,
// properties, and restricted YAML, with the source-text scanner as fallback.
func DefaultRegistry() *Registry {
	return NewRegistry(
		NewDotenv(),
		NewJSON(),
		NewProperties(),
		NewYAML(),
	).WithFallback(NewSourceText())
}
