package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/ysemennikov/envlayers/internal/asset"
	"github.com/ysemennikov/envlayers/internal/chain"
	"github.com/ysemennikov/envlayers/internal/environ"
	"github.com/ysemennikov/envlayers/internal/logging"
	"github.com/ysemennikov/envlayers/internal/merge"
)

func main() {
	app := kingpin.New("envlayers", "Resolves layered configuration assets into an ordered property-source chain")
	sourceDirs := app.Flag("source", "Asset directory as module=dir (repeatable)").Required().Strings()
	profiles := app.Flag("profile", "Active profile, highest priority first (repeatable)").Strings()
	properties := app.Flag("property", "Command-line property as key=value (repeatable)").Strings()
	rootModule := app.Flag("root-module", "Name of the application's own module").Default("app").String()
	frameworkModule := app.Flag("framework-module", "Name of the framework's main module").Default("framework").String()
	systemEnv := app.Flag("system-env", "Install a systemEnvironment source from the process environment").Bool()
	resolvePlaceholders := app.Flag("resolve-placeholders", "Resolve ${key} expressions against the chain").Bool()
	output := app.Flag("output", "Output format").Default("properties").Enum("properties", "json")
	explain := app.Flag("explain", "Annotate each key with the source that supplies it").Bool()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	logger, err := logging.New()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	assets, err := collectAssets(*sourceDirs)
	if err != nil {
		logger.Fatal("failed to load assets", zap.Error(err))
	}

	opts := []environ.Option{
		environ.WithRanker(merge.NewRanker(*rootModule, *frameworkModule)),
		environ.WithActiveProfiles(*profiles...),
	}
	if *resolvePlaceholders {
		opts = append(opts, environ.WithPlaceholderResolution())
	}
	if len(*properties) > 0 {
		commandLine, err := parseKeyValues(*properties)
		if err != nil {
			logger.Fatal("invalid --property flag", zap.Error(err))
		}
		opts = append(opts, environ.WithSource(chain.CommandLine, commandLine))
	}
	if *systemEnv {
		opts = append(opts, environ.WithSource(chain.SystemEnvironment, environProperties(os.Environ())))
	}

	env, err := environ.New(logger, opts...).Prepare(assets)
	if err != nil {
		logger.Fatal("failed to prepare environment", zap.Error(err))
	}
	if skipped := env.Skipped(); skipped != nil {
		logger.Warn("some assets were skipped", zap.Error(skipped))
	}

	// The prepared environment drives the logger for the remaining output.
	if projected := env.LoggingProperties(); len(projected) > 0 {
		if reconfigured, err := logging.FromProperties(projected); err == nil {
			logger = reconfigured
		} else {
			logger.Warn("ignoring invalid logging properties", zap.Error(err))
		}
	}
	if version := env.VersionProperties(); len(version) > 0 {
		logger.Info("resolved version keys", zap.Any("version", version))
	}

	if err := printChain(os.Stdout, env, *output, *explain); err != nil {
		logger.Fatal("failed to print chain", zap.Error(err))
	}
}

// collectAssets loads every module=dir flag value into one asset list.
func collectAssets(sourceDirs []string) ([]asset.Asset, error) {
	var assets []asset.Asset
	for _, spec := range sourceDirs {
		module, dir, found := strings.Cut(spec, "=")
		if !found || module == "" || dir == "" {
			return nil, fmt.Errorf("--source must use the module=dir form, got %q", spec)
		}
		loaded, err := asset.LoadDir(dir, module)
		if err != nil {
			return nil, err
		}
		assets = append(assets, loaded...)
	}
	return assets, nil
}

// parseKeyValues turns repeated key=value flags into a property map.
func parseKeyValues(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", pair)
		}
		out[key] = value
	}
	return out, nil
}

// environProperties maps process environment variables into property keys:
// lower-cased, with underscores as dots (SERVER_PORT becomes server.port).
func environProperties(entries []string) map[string]any {
	out := make(map[string]any, len(entries))
	for _, entry := range entries {
		key, value, found := strings.Cut(entry, "=")
		if !found || key == "" {
			continue
		}
		key = strings.ToLower(strings.ReplaceAll(key, "_", "."))
		out[key] = value
	}
	return out
}

// printChain writes the resolved chain in the requested format.
func printChain(w io.Writer, env *environ.Environment, format string, explain bool) error {
	flat := env.Sources().Flattened()
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if format == "json" {
		ordered := make(map[string]any, len(flat))
		for _, k := range keys {
			ordered[k] = flat[k]
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ordered)
	}

	for _, k := range keys {
		if explain {
			origin, _ := env.Sources().Origin(k)
			if _, err := fmt.Fprintf(w, "%s=%v\t# %s\n", k, flat[k], origin); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%s=%v\n", k, flat[k]); err != nil {
			return err
		}
	}
	return nil
}
