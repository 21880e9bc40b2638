package environ

import (
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/ysemennikov/envlayers/internal/asset"
	"github.com/ysemennikov/envlayers/internal/chain"
	"github.com/ysemennikov/envlayers/internal/merge"
	"github.com/ysemennikov/envlayers/internal/parser"
	"github.com/ysemennikov/envlayers/internal/props"
)

func testAssets() []asset.Asset {
	return []asset.Asset{
		{
			Path:   "application.yaml",
			Module: "framework",
			Data:   []byte("server.port: 7000\nbanner: framework\nfeatures: [b, c]\n"),
		},
		{
			Path:   "application.json",
			Module: "app",
			Data:   []byte(`{"server": {"port": 8080}, "features": ["a", "b"]}`),
		},
		{
			Path:   "application-dev.properties",
			Module: "app",
			Data:   []byte("server.port=9999\ndebug=true\n"),
		},
	}
}

func newPreparer(t *testing.T, opts ...Option) *Preparer {
	t.Helper()
	base := []Option{
		WithRanker(merge.NewRanker("app", "framework")),
		WithActiveProfiles("dev"),
	}
	return New(zaptest.NewLogger(t), append(base, opts...)...)
}

func TestPrepare(t *testing.T) {
	t.Parallel()

	env, err := newPreparer(t).Prepare(testAssets())
	if err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}
	if env.Skipped() != nil {
		t.Fatalf("unexpected skip report: %v", env.Skipped())
	}

	// dev outranks default in the chain, so its value wins the lookup.
	if v, _ := env.Get("server.port"); !props.DeepEqual(v, "9999") {
		t.Fatalf("expected dev server.port=9999, got %v", v)
	}
	// Within the default profile the root module (app) wins the merge.
	dflt, ok := env.Sources().Lookup("default")
	if !ok {
		t.Fatalf("expected a default source in the chain")
	}
	if v := dflt.Properties["server.port"]; !props.DeepEqual(v, float64(8080)) {
		t.Fatalf("expected root module port to win the merge, got %v", v)
	}
	// Lists union across modules, root module items first.
	if v, _ := env.Get("features"); !props.DeepEqual(v, []any{"a", "b", "c"}) {
		t.Fatalf("unexpected features union: %v", v)
	}
}

func TestPrepareChainOrder(t *testing.T) {
	t.Parallel()

	env, err := newPreparer(t,
		WithSource(chain.CommandLine, map[string]any{"debug": "false"}),
		WithSource(chain.SystemEnvironment, map[string]any{"home": "/root"}),
	).Prepare(testAssets())
	if err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}

	want := []string{chain.CommandLine, chain.SystemEnvironment, "dev", "default"}
	got := env.Sources().Names()
	if len(got) != len(want) {
		t.Fatalf("unexpected chain %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected chain %v, want %v", got, want)
		}
	}

	// Command line outranks the dev profile source.
	if v, _ := env.Get("debug"); v != "false" {
		t.Fatalf("expected command line to win, got %v", v)
	}
}

func TestPrepareBestEffortSkips(t *testing.T) {
	t.Parallel()

	assets := append(testAssets(), asset.Asset{
		Path:   "broken.json",
		Module: "app",
		Data:   []byte(`{"unterminated": `),
	})

	env, err := newPreparer(t).Prepare(assets)
	if err != nil {
		t.Fatalf("expected best-effort continuation, got %v", err)
	}
	if env.Skipped() == nil {
		t.Fatalf("expected a skip report for the malformed asset")
	}
	var parseErr *parser.ParseError
	if !errors.As(env.Skipped(), &parseErr) {
		t.Fatalf("expected skip report to carry the ParseError, got %v", env.Skipped())
	}
	if _, ok := env.Get("server.port"); !ok {
		t.Fatalf("expected the healthy assets to load")
	}
}

func TestPrepareStructureErrorAborts(t *testing.T) {
	t.Parallel()

	assets := []asset.Asset{{
		Path:   "application.yaml",
		Module: "app",
		Data:   []byte("- orphan list item\n"),
	}}

	_, err := newPreparer(t).Prepare(assets)
	var structErr *parser.StructureError
	if !errors.As(err, &structErr) {
		t.Fatalf("expected StructureError to abort preparation, got %v", err)
	}
}

func TestPreparePlaceholderResolution(t *testing.T) {
	t.Parallel()

	assets := []asset.Asset{
		{
			Path:   "application.yaml",
			Module: "app",
			Data:   []byte("host: localhost\nurl: http://${host}/api\nfallback: ${nope:bar}\n"),
		},
	}

	env, err := newPreparer(t, WithPlaceholderResolution()).Prepare(assets)
	if err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}
	if v := env.GetString("url"); v != "http://localhost/api" {
		t.Fatalf("unexpected url: %v", v)
	}
	if v := env.GetString("fallback"); v != "bar" {
		t.Fatalf("unexpected fallback: %v", v)
	}
}

func TestEnvironmentLookupHelpers(t *testing.T) {
	t.Parallel()

	env, err := newPreparer(t).Prepare(testAssets())
	if err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}

	if got := env.GetString("banner"); got != "framework" {
		t.Fatalf("unexpected banner: %q", got)
	}
	if got := env.GetString("absent"); got != "" {
		t.Fatalf("expected empty string for absent key, got %q", got)
	}
	if got := env.GetStrings("features"); len(got) != 3 || got[0] != "a" {
		t.Fatalf("unexpected features strings: %v", got)
	}
	if got := env.GetStrings("banner"); len(got) != 1 || got[0] != "framework" {
		t.Fatalf("expected scalar to become single-element list, got %v", got)
	}
	if got := env.ActiveProfiles(); len(got) != 1 || got[0] != "dev" {
		t.Fatalf("unexpected active profiles: %v", got)
	}
}

func TestEnvironmentBind(t *testing.T) {
	t.Parallel()

	env, err := newPreparer(t).Prepare(testAssets())
	if err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}

	var server struct {
		Port int `mapstructure:"port"`
	}
	if err := env.Bind("server", &server); err != nil {
		t.Fatalf("Bind returned error: %v", err)
	}
	// The dev profile string value decodes weakly into the int field.
	if server.Port != 9999 {
		t.Fatalf("unexpected bound port: %d", server.Port)
	}
}

func TestSideChannelProjections(t *testing.T) {
	t.Parallel()

	assets := []asset.Asset{
		{
			Path:   "application.yaml",
			Module: "app",
			Data:   []byte("logging.level: debug\nlogging.format: console\nversion: 1.2.3\nframework.version: 9.9.9\nother: x\n"),
		},
	}

	env, err := newPreparer(t).Prepare(assets)
	if err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}

	logging := env.LoggingProperties()
	if logging["level"] != "debug" || logging["format"] != "console" {
		t.Fatalf("unexpected logging projection: %v", logging)
	}
	if _, ok := logging["other"]; ok {
		t.Fatalf("non-logging keys must not leak into the projection")
	}

	version := env.VersionProperties()
	if !props.DeepEqual(version["version"], "1.2.3") {
		t.Fatalf("unexpected version projection: %v", version)
	}
	if !props.DeepEqual(version["framework.version"], "9.9.9") {
		t.Fatalf("expected suffix match for framework.version, got %v", version)
	}
	if _, ok := version["other"]; ok {
		t.Fatalf("non-version keys must not leak into the projection")
	}
}
