package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/ysemennikov/envlayers/internal/asset"
)

// Properties parses Java-style key=value files. Profile extraction follows
// the same file-name convention as the JSON parser.
type Properties struct{}

// NewProperties creates the properties parser.
func NewProperties() *Properties {
	return &Properties{}
}

// CanParse claims *.properties files.
func (p *Properties) CanParse(a asset.Asset) bool {
	return a.Ext() == ".properties"
}

// Load parses the asset line by line. Blank lines and lines starting with
// '#' or '!' are ignored; '=' and ':' both separate key from value.
func (p *Properties) Load(a asset.Asset) (ParsedSource, error) {
	properties := make(map[string]any)

	scanner := bufio.NewScanner(bytes.NewReader(a.Data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}

		key, value, found := cutSeparator(line)
		if !found {
			return ParsedSource{}, &ParseError{
				Path: a.Path,
				Err:  fmt.Errorf("line %d: expected key=value, got %q", lineNo, line),
			}
		}
		if key == "" {
			return ParsedSource{}, &ParseError{
				Path: a.Path,
				Err:  fmt.Errorf("line %d: empty key", lineNo),
			}
		}
		properties[key] = value
	}
	if err := scanner.Err(); err != nil {
		return ParsedSource{}, &ParseError{Path: a.Path, Err: err}
	}

	return ParsedSource{
		Module:     a.Module,
		Profile:    profileFromFileName(a.Name()),
		Properties: properties,
	}, nil
}

// cutSeparator splits on the first '=' or ':', whichever comes first.
func cutSeparator(line string) (key, value string, found bool) {
	eq := strings.IndexByte(line, '=')
	colon := strings.IndexByte(line, ':')

	idx := eq
	if idx < 0 || (colon >= 0 && colon < idx) {
		idx = colon
	}
	if idx < 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+1:]), true
}
