package parser

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/ysemennikov/envlayers/internal/asset"
)

// SourceText is the best-effort "code as config" scanner. It strips comments
// from program source (preserving string literals), finds classes extending
// a known configuration base type, and extracts (key, value) pairs from
// constructor-call-shaped expressions inside them whose callee looks like a
// property-definition type.
//
// This is a lexical scan, not a language parser. It tolerates nested parens,
// braces, brackets, and string escaping, and silently ignores anything it
// cannot make sense of.
type SourceText struct {
	baseTypes map[string]struct{}
	suffixes  []string
}

// SourceTextOption customizes the scanner.
type SourceTextOption func(*SourceText)

// WithBaseTypes replaces the set of base type names whose subclasses are
// treated as configuration classes.
func WithBaseTypes(names ...string) SourceTextOption {
	return func(p *SourceText) {
		p.baseTypes = make(map[string]struct{}, len(names))
		for _, n := range names {
			p.baseTypes[n] = struct{}{}
		}
	}
}

// WithCalleeSuffixes replaces the callee-name suffixes that mark a call as
// property-defining.
func WithCalleeSuffixes(suffixes ...string) SourceTextOption {
	return func(p *SourceText) {
		p.suffixes = suffixes
	}
}

// NewSourceText creates the scanner with the default base type
// ("Configuration") and callee suffixes ("Property", "Properties").
func NewSourceText(opts ...SourceTextOption) *SourceText {
	p := &SourceText{
		baseTypes: map[string]struct{}{"Configuration": {}},
		suffixes:  []string{"Property", "Properties"},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CanParse claims assets whose text declares a class extending one of the
// known base types. It is intended to run as the registry fallback, after
// every format parser has declined.
func (p *SourceText) CanParse(a asset.Asset) bool {
	clean := stripComments(string(a.Data))
	for _, decl := range scanClassDecls(clean) {
		if _, ok := p.baseTypes[decl.parent]; ok {
			return true
		}
	}
	return false
}

// Load extracts property pairs from every configuration class in the asset.
// Source files carry no profile suffix, so the result always lands in the
// default profile.
func (p *SourceText) Load(a asset.Asset) (ParsedSource, error) {
	clean := stripComments(string(a.Data))
	decls := scanClassDecls(clean)

	// Locally declared subclasses of a base type also qualify as
	// property-definition callees, transitively.
	subclasses := make(map[string]struct{})
	for changed := true; changed; {
		changed = false
		for _, d := range decls {
			if _, seen := subclasses[d.name]; seen {
				continue
			}
			_, isBase := p.baseTypes[d.parent]
			_, isSub := subclasses[d.parent]
			if isBase || isSub {
				subclasses[d.name] = struct{}{}
				changed = true
			}
		}
	}

	properties := make(map[string]any)
	for _, d := range decls {
		if _, ok := subclasses[d.name]; !ok {
			continue
		}
		body, ok := classBody(clean, d.end)
		if !ok {
			continue
		}
		p.extractPairs(body, subclasses, properties)
	}

	return ParsedSource{
		Module:     a.Module,
		Profile:    DefaultProfile,
		Properties: properties,
	}, nil
}

type classDecl struct {
	name   string
	parent string
	// end is the offset just past the extends clause, where the class body
	// begins.
	end int
}

// scanClassDecls finds "class Name extends Parent" declarations in
// comment-stripped source text.
func scanClassDecls(src string) []classDecl {
	var decls []classDecl
	for i := 0; i < len(src); {
		idx := strings.Index(src[i:], "class")
		if idx < 0 {
			break
		}
		pos := i + idx
		i = pos + len("class")

		// "class" must stand alone as a word.
		if pos > 0 && isIdentChar(rune(src[pos-1])) {
			continue
		}
		if i < len(src) && isIdentChar(rune(src[i])) {
			continue
		}

		j := skipSpaces(src, i)
		name, j := readIdent(src, j)
		if name == "" {
			continue
		}
		j = skipSpaces(src, j)
		if !strings.HasPrefix(src[j:], "extends") {
			continue
		}
		j = skipSpaces(src, j+len("extends"))
		parent, j := readIdent(src, j)
		if parent == "" {
			continue
		}
		decls = append(decls, classDecl{name: name, parent: parent, end: j})
		i = j
	}
	return decls
}

// classBody returns the balanced {...} block starting at or after offset.
func classBody(src string, offset int) (string, bool) {
	open := strings.IndexByte(src[offset:], '{')
	if open < 0 {
		return "", false
	}
	start := offset + open
	end, ok := matchDelimiter(src, start)
	if !ok {
		return "", false
	}
	return src[start+1 : end], true
}

// extractPairs scans a class body for call-shaped expressions and collects
// (key, value) pairs from those whose callee qualifies.
func (p *SourceText) extractPairs(body string, subclasses map[string]struct{}, out map[string]any) {
	for i := 0; i < len(body); {
		c := rune(body[i])
		if c == '"' || c == '\'' || c == '`' {
			i = skipString(body, i)
			continue
		}
		if !isIdentStart(c) {
			i++
			continue
		}

		ident, j := readIdent(body, i)
		i = j
		if ident == "new" {
			continue
		}
		k := skipSpaces(body, j)
		if k >= len(body) || body[k] != '(' {
			continue
		}
		closing, ok := matchDelimiter(body, k)
		if !ok {
			return
		}
		if p.qualifies(ident, subclasses) {
			args := splitArgs(body[k+1 : closing])
			if key, value, ok := pairFromArgs(args); ok {
				out[key] = value
			}
		}
		i = k + 1
	}
}

// qualifies applies the callee heuristic: uppercase-led, and either carrying
// a known suffix or locally declared as a subclass of a base type.
func (p *SourceText) qualifies(name string, subclasses map[string]struct{}) bool {
	if name == "" || !unicode.IsUpper(rune(name[0])) {
		return false
	}
	if _, ok := subclasses[name]; ok {
		return true
	}
	for _, suffix := range p.suffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// pairFromArgs builds a property pair from call arguments: the key must be
// a string literal; the value is the second argument parsed as a literal,
// or the empty string when absent.
func pairFromArgs(args []string) (string, any, bool) {
	if len(args) == 0 {
		return "", nil, false
	}
	key, ok := stringLiteral(args[0])
	if !ok || key == "" {
		return "", nil, false
	}
	if len(args) == 1 {
		return key, "", true
	}
	return key, parseLiteral(args[1]), true
}

// parseLiteral interprets an argument as a string, number, bool, or bracket
// list literal; anything else is kept as raw trimmed text.
func parseLiteral(arg string) any {
	arg = strings.TrimSpace(arg)
	if s, ok := stringLiteral(arg); ok {
		return s
	}
	if arg == "true" || arg == "false" {
		return arg == "true"
	}
	if n, err := strconv.Atoi(arg); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(arg, 64); err == nil {
		return f
	}
	if strings.HasPrefix(arg, "[") && strings.HasSuffix(arg, "]") {
		items := splitArgs(arg[1 : len(arg)-1])
		list := make([]any, 0, len(items))
		for _, item := range items {
			list = append(list, parseLiteral(item))
		}
		return list
	}
	return arg
}

func stringLiteral(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return "", false
	}
	first, last := s[0], s[len(s)-1]
	if first != last || (first != '"' && first != '\'' && first != '`') {
		return "", false
	}
	inner := s[1 : len(s)-1]
	var b strings.Builder
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\\' && i+1 < len(inner) {
			i++
			switch inner[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(inner[i])
			}
			continue
		}
		b.WriteByte(inner[i])
	}
	return b.String(), true
}

// splitArgs splits an argument list at top-level commas, respecting nested
// parens, brackets, braces, and string literals.
func splitArgs(s string) []string {
	var args []string
	depth := 0
	start := 0
	for i := 0; i < len(s); {
		switch c := s[i]; c {
		case '"', '\'', '`':
			i = skipString(s, i)
			continue
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, s[start:i])
				start = i + 1
			}
		}
		i++
	}
	if rest := strings.TrimSpace(s[start:]); rest != "" {
		args = append(args, rest)
	}
	return args
}

// matchDelimiter returns the offset of the delimiter matching the one at
// start, skipping string literals.
func matchDelimiter(s string, start int) (int, bool) {
	open := s[start]
	var closer byte
	switch open {
	case '(':
		closer = ')'
	case '{':
		closer = '}'
	case '[':
		closer = ']'
	default:
		return 0, false
	}

	depth := 0
	for i := start; i < len(s); {
		switch c := s[i]; c {
		case '"', '\'', '`':
			i = skipString(s, i)
			continue
		case open:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return i, true
			}
		}
		i++
	}
	return 0, false
}

// skipString advances past the string literal starting at i, honoring
// backslash escapes.
func skipString(s string, i int) int {
	quote := s[i]
	for i++; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case quote:
			return i + 1
		}
	}
	return len(s)
}

// stripComments blanks out // line comments and /* */ block comments while
// preserving string literals and line positions.
func stripComments(src string) string {
	out := []byte(src)
	for i := 0; i < len(src); {
		switch c := src[i]; c {
		case '"', '\'', '`':
			i = skipString(src, i)
		case '/':
			if i+1 >= len(src) {
				i++
				continue
			}
			switch src[i+1] {
			case '/':
				for ; i < len(src) && src[i] != '\n'; i++ {
					out[i] = ' '
				}
			case '*':
				out[i], out[i+1] = ' ', ' '
				i += 2
				for ; i+1 < len(src); i++ {
					if src[i] == '*' && src[i+1] == '/' {
						out[i], out[i+1] = ' ', ' '
						i += 2
						break
					}
					if src[i] != '\n' {
						out[i] = ' '
					}
				}
			default:
				i++
			}
		default:
			i++
		}
	}
	return string(out)
}

func skipSpaces(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	return i
}

func readIdent(s string, i int) (string, int) {
	start := i
	if i < len(s) && isIdentStart(rune(s[i])) {
		i++
		for i < len(s) && isIdentChar(rune(s[i])) {
			i++
		}
	}
	return s[start:i], i
}

func isIdentStart(c rune) bool {
	return c == '_' || c == '$' || unicode.IsLetter(c)
}

func isIdentChar(c rune) bool {
	return isIdentStart(c) || unicode.IsDigit(c)
}
