package bootstrap

import (
	"errors"
	"testing"

	"github.com/ysemennikov/envlayers/internal/asset"
	"github.com/ysemennikov/envlayers/internal/parser"
)

func load(t *testing.T, path, data string) (Directives, error) {
	t.Helper()
	return Load(asset.Asset{Path: path, Module: "app", Data: []byte(data)})
}

func wantStructureError(t *testing.T, err error) *parser.StructureError {
	t.Helper()
	var structErr *parser.StructureError
	if !errors.As(err, &structErr) {
		t.Fatalf("expected StructureError, got %v", err)
	}
	if structErr.Example == "" {
		t.Fatalf("expected corrective example in message")
	}
	return structErr
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()

	t.Run("BlockSequence", func(t *testing.T) {
		t.Parallel()

		d, err := load(t, "bootstrap.yaml", "enable:\n  - module-a\n  - module-b\n")
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if !equalStrings(d.Enable, []string{"module-a", "module-b"}) {
			t.Fatalf("unexpected enable list: %v", d.Enable)
		}
	})

	t.Run("InlineArray", func(t *testing.T) {
		t.Parallel()

		d, err := load(t, "bootstrap.yml", "disable: [module-c]\n")
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if !equalStrings(d.Disable, []string{"module-c"}) {
			t.Fatalf("unexpected disable list: %v", d.Disable)
		}
	})

	t.Run("Violations", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name string
			data string
		}{
			{name: "UnknownKey", data: "other:\n  - x\n"},
			{name: "ScalarValue", data: "enable: module-a\n"},
			{name: "NullEntry", data: "enable:\n  - ~\n"},
			{name: "TopLevelList", data: "- module-a\n"},
			{name: "NestedMapping", data: "enable:\n  - key: value\n"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				_, err := load(t, "bootstrap.yaml", tt.data)
				wantStructureError(t, err)
			})
		}
	})
}

func TestLoadJSON(t *testing.T) {
	t.Parallel()

	t.Run("Valid", func(t *testing.T) {
		t.Parallel()

		d, err := load(t, "bootstrap.json", `{
	// enabled modules
	"enable": ["module-a", "module-b"],
	"disable": [],
}`)
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if !equalStrings(d.Enable, []string{"module-a", "module-b"}) {
			t.Fatalf("unexpected enable list: %v", d.Enable)
		}
		if len(d.Disable) != 0 {
			t.Fatalf("unexpected disable list: %v", d.Disable)
		}
	})

	t.Run("Violations", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name string
			data string
		}{
			{name: "UnknownKey", data: `{"other": ["x"]}`},
			{name: "NonArrayValue", data: `{"enable": "module-a"}`},
			{name: "NullValue", data: `{"enable": null}`},
			{name: "NullEntry", data: `{"enable": ["a", null]}`},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				_, err := load(t, "bootstrap.json", tt.data)
				wantStructureError(t, err)
			})
		}
	})

	t.Run("SyntaxError", func(t *testing.T) {
		t.Parallel()

		_, err := load(t, "bootstrap.json", `{"enable": [`)
		var parseErr *parser.ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("expected ParseError, got %v", err)
		}
	})
}

func TestLoadProperties(t *testing.T) {
	t.Parallel()

	t.Run("RoundTrip", func(t *testing.T) {
		t.Parallel()

		d, err := load(t, "bootstrap.properties", "enable[0]=x\nenable[1]=y\n")
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if !equalStrings(d.Enable, []string{"x", "y"}) {
			t.Fatalf("unexpected enable list: %v", d.Enable)
		}
	})

	t.Run("Violations", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name string
			data string
		}{
			{name: "GapInIndices", data: "enable[0]=x\nenable[2]=y\n"},
			{name: "StartsAtOne", data: "enable[1]=x\n"},
			{name: "DuplicateIndex", data: "enable[0]=x\nenable[0]=y\n"},
			{name: "UnindexedKey", data: "enable=x\n"},
			{name: "NegativeIndex", data: "enable[-1]=x\n"},
			{name: "UnknownKey", data: "other[0]=x\n"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				_, err := load(t, "bootstrap.properties", tt.data)
				wantStructureError(t, err)
			})
		}
	})
}

func TestLoadUnsupportedExtension(t *testing.T) {
	t.Parallel()

	_, err := load(t, "bootstrap.toml", "enable = []")
	var unsupported *parser.UnsupportedFormatError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedFormatError, got %v", err)
	}
}
