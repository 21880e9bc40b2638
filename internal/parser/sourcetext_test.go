package parser

import (
	"testing"

	"github.com/ysemennikov/envlayers/internal/asset"
	"github.com/ysemennikov/envlayers/internal/props"
)

const sampleSource = `
// application configuration
import { Configuration, IntProperty } from "framework";

/* the server block
   is defined here */
class ServerProps extends Configuration {
	setup() {
		new IntProperty("server.port", 8080);
		StringProperty("server.host", "localhost");
		ListProperty("server.tags", ["a", "b"]);
		BoolProperty("debug.enabled", true);
		helperCall("not.a.property", 1);
		lowercaseProperty("also.skipped", 2);
	}
}

class Unrelated {
	StringProperty("outside.config.class", "ignored");
}
`

func TestSourceTextExtractsPairs(t *testing.T) {
	t.Parallel()

	p := NewSourceText()
	a := asset.Asset{Path: "ServerProps.src", Module: "app", Data: []byte(sampleSource)}

	if !p.CanParse(a) {
		t.Fatalf("expected scanner to claim sample source")
	}

	src, err := p.Load(a)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if src.Profile != DefaultProfile {
		t.Fatalf("expected default profile, got %s", src.Profile)
	}

	want := map[string]any{
		"server.port":   8080,
		"server.host":   "localhost",
		"server.tags":   []any{"a", "b"},
		"debug.enabled": true,
	}
	for key, value := range want {
		if !props.DeepEqual(src.Properties[key], value) {
			t.Errorf("key %s: got %v, want %v", key, src.Properties[key], value)
		}
	}
	if _, ok := src.Properties["not.a.property"]; ok {
		t.Errorf("helperCall pairs must not be extracted")
	}
	if _, ok := src.Properties["also.skipped"]; ok {
		t.Errorf("lowercase-led callees must not be extracted")
	}
	if _, ok := src.Properties["outside.config.class"]; ok {
		t.Errorf("pairs outside configuration classes must not be extracted")
	}
}

func TestSourceTextLocalSubclassCallee(t *testing.T) {
	t.Parallel()

	source := `
class PortSetting extends Configuration {}
class AppConfig extends Configuration {
	setup() {
		PortSetting("server.port", 9000);
	}
}
`
	src, err := NewSourceText().Load(asset.Asset{Path: "AppConfig.src", Data: []byte(source)})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if src.Properties["server.port"] != 9000 {
		t.Fatalf("expected locally declared subclass callee to qualify, got %v", src.Properties)
	}
}

func TestSourceTextTolerance(t *testing.T) {
	t.Parallel()

	source := `
class TrickyProps extends Configuration {
	setup() {
		StringProperty("quote.key", "value with \"escaped\" quotes, and commas");
		IntProperty("nested.key", compute((1 + 2), [3, 4]) ? 5 : 6);
		StringProperty("brace.key", "{not a block}");
	}
}
`
	src, err := NewSourceText().Load(asset.Asset{Path: "TrickyProps.src", Data: []byte(source)})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if got := src.Properties["quote.key"]; got != `value with "escaped" quotes, and commas` {
		t.Fatalf("unexpected quote.key: %v", got)
	}
	if got := src.Properties["brace.key"]; got != "{not a block}" {
		t.Fatalf("unexpected brace.key: %v", got)
	}
	// Non-literal second argument degrades to raw text, never breaks the scan.
	if _, ok := src.Properties["nested.key"]; !ok {
		t.Fatalf("expected nested.key to be extracted")
	}
}

func TestSourceTextIgnoresCommentedCode(t *testing.T) {
	t.Parallel()

	source := `
class Commented extends Configuration {
	// StringProperty("commented.out", "x");
	/* StringProperty("block.commented", "y"); */
	StringProperty("real.key", "z");
}
`
	src, err := NewSourceText().Load(asset.Asset{Path: "Commented.src", Data: []byte(source)})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if _, ok := src.Properties["commented.out"]; ok {
		t.Fatalf("commented-out pairs must not be extracted")
	}
	if _, ok := src.Properties["block.commented"]; ok {
		t.Fatalf("block-commented pairs must not be extracted")
	}
	if src.Properties["real.key"] != "z" {
		t.Fatalf("expected real.key=z, got %v", src.Properties["real.key"])
	}
}

func TestSourceTextDeclinesPlainText(t *testing.T) {
	t.Parallel()

	if NewSourceText().CanParse(asset.Asset{Path: "readme.txt", Data: []byte("plain text, no classes")}) {
		t.Fatalf("scanner must not claim plain text")
	}
}
