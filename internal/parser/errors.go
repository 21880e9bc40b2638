package parser

import "fmt"

// StructureError reports malformed input in a strict format. It is fatal
// wherever it surfaces: the message carries a corrective example so the
// operator can fix the file instead of guessing.
type StructureError struct {
	// Path identifies the offending asset.
	Path string
	// Reason describes the violation, including position where known.
	Reason string
	// Example shows a well-formed fragment of the expected shape.
	Example string
}

func (e *StructureError) Error() string {
	msg := fmt.Sprintf("malformed %s: %s", e.Path, e.Reason)
	if e.Example != "" {
		msg += fmt.Sprintf(" (expected shape:\n%s)", e.Example)
	}
	return msg
}

// ParseError reports format-valid but content-invalid input, such as broken
// JSON syntax. Best-effort loading skips the asset; strict bootstrap loading
// treats it as fatal.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// UnsupportedFormatError reports that no registered parser recognizes the
// asset.
type UnsupportedFormatError struct {
	Path string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("no parser recognizes asset %s", e.Path)
}
