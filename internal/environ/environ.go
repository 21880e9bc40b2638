package environ

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ysemennikov/envlayers/internal/asset"
	"github.com/ysemennikov/envlayers/internal/chain"
	"github.com/ysemennikov/envlayers/internal/merge"
	"github.com/ysemennikov/envlayers/internal/parser"
)

// Preparer runs the environment-preparation pipeline. It is an explicit
// context object: everything the pipeline needs is threaded through it
// rather than reached via globals.
type Preparer struct {
	registry       *parser.Registry
	ranker         merge.Ranker
	resolver       chain.Resolver
	logger         *zap.Logger
	activeProfiles []string
	extraSources   []*chain.Source

	resolvePlaceholders bool
}

// Option configures a Preparer.
type Option func(*Preparer)

// WithRegistry replaces the default parser registry.
func WithRegistry(r *parser.Registry) Option {
	return func(p *Preparer) {
		p.registry = r
	}
}

// WithRanker sets the module precedence ranker.
func WithRanker(r merge.Ranker) Option {
	return func(p *Preparer) {
		p.ranker = r
	}
}

// WithResolver overrides the identity placeholder resolver.
func WithResolver(r chain.Resolver) Option {
	return func(p *Preparer) {
		p.resolver = r
	}
}

// WithPlaceholderResolution resolves ${key} and ${key:fallback} expressions
// against the chain as it is being assembled, instead of the identity
// default.
func WithPlaceholderResolution() Option {
	return func(p *Preparer) {
		p.resolvePlaceholders = true
	}
}

// WithActiveProfiles sets the active profile list, in priority order.
func WithActiveProfiles(profiles ...string) Option {
	return func(p *Preparer) {
		p.activeProfiles = profiles
	}
}

// WithSource adds a pre-built non-profile source (command-line arguments,
// system environment) to the chain ahead of preparation.
func WithSource(name string, properties map[string]any) Option {
	return func(p *Preparer) {
		p.extraSources = append(p.extraSources, chain.NewSource(name, properties))
	}
}

// New creates a Preparer with the default parser lineup and an identity
// resolver.
func New(logger *zap.Logger, opts ...Option) *Preparer {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Preparer{
		registry: parser.DefaultRegistry(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Prepare runs the pipeline over the given assets and returns the prepared
// Environment. Malformed assets are skipped and aggregated into the
// environment's skip report; strict-format structure violations abort with
// an error.
func (p *Preparer) Prepare(assets []asset.Asset) (*Environment, error) {
	var parsed []parser.ParsedSource
	var skipped error

	for _, a := range assets {
		src, err := p.registry.Parse(a)
		if err != nil {
			var structErr *parser.StructureError
			if errors.As(err, &structErr) {
				return nil, fmt.Errorf("prepare environment: %w", err)
			}
			p.logger.Warn("skipping configuration asset",
				zap.String("path", a.Path),
				zap.String("module", a.Module),
				zap.Error(err))
			skipped = multierr.Append(skipped, err)
			continue
		}
		parsed = append(parsed, src)
	}

	sources := chain.NewSources()
	for _, extra := range p.extraSources {
		sources.Append(extra)
	}

	resolver := p.resolver
	if resolver == nil && p.resolvePlaceholders {
		resolver = chain.NewPlaceholderResolver(sources)
	}
	installer := chain.NewInstaller(sources, resolver, p.logger)
	mergedByProfile := merge.Profiles(p.ranker, parsed)

	profiles := make([]string, 0, len(mergedByProfile))
	for profile := range mergedByProfile {
		profiles = append(profiles, profile)
	}
	sort.Strings(profiles)

	known := make(map[string]struct{}, len(profiles))
	for _, profile := range profiles {
		installer.Install(profile, mergedByProfile[profile].Properties)
		known[profile] = struct{}{}
	}

	installer.ReorderProfilesFirst(known)
	chain.OrderSources(sources, p.activeProfiles)

	p.logger.Info("environment prepared",
		zap.Int("assets", len(assets)),
		zap.Int("profiles", len(profiles)),
		zap.Strings("chain", sources.Names()))

	return &Environment{
		sources:        sources,
		activeProfiles: append([]string(nil), p.activeProfiles...),
		skipped:        skipped,
	}, nil
}
