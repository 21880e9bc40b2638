package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/ysemennikov/envlayers/internal/asset"
)

// Dotenv parses KEY=value files. The profile comes from the file name
// suffix: ".env" maps to the default profile, ".env.dev" to "dev".
type Dotenv struct{}

// NewDotenv creates the dotenv parser.
func NewDotenv() *Dotenv {
	return &Dotenv{}
}

// CanParse claims files named ".env", ".env.<profile>", or "*.env".
func (p *Dotenv) CanParse(a asset.Asset) bool {
	name := a.Name()
	return name == ".env" || strings.HasPrefix(name, ".env.") || strings.HasSuffix(name, ".env")
}

// Load parses the asset line by line. Blank lines and #-comments are
// ignored; an optional "export " prefix is stripped; quoted values are
// unquoted.
func (p *Dotenv) Load(a asset.Asset) (ParsedSource, error) {
	properties := make(map[string]any)

	scanner := bufio.NewScanner(bytes.NewReader(a.Data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, found := strings.Cut(line, "=")
		if !found {
			return ParsedSource{}, &ParseError{
				Path: a.Path,
				Err:  fmt.Errorf("line %d: expected KEY=value, got %q", lineNo, line),
			}
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return ParsedSource{}, &ParseError{
				Path: a.Path,
				Err:  fmt.Errorf("line %d: empty key", lineNo),
			}
		}
		properties[key] = unquote(strings.TrimSpace(value))
	}
	if err := scanner.Err(); err != nil {
		return ParsedSource{}, &ParseError{Path: a.Path, Err: err}
	}

	return ParsedSource{
		Module:     a.Module,
		Profile:    profileFromEnvName(a.Name()),
		Properties: properties,
	}, nil
}

// unquote strips one matching pair of single or double quotes.
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if first == last && (first == '"' || first == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
