package chain

import (
	"go.uber.org/zap"
)

// Resolver resolves deferred placeholder expressions in a merged value just
// before it is installed. The default is IdentityResolver; deployments may
// substitute a chain-backed implementation (see PlaceholderResolver).
type Resolver interface {
	Resolve(value any) any
}

// IdentityResolver leaves every value untouched.
type IdentityResolver struct{}

// Resolve returns the value unchanged.
func (IdentityResolver) Resolve(value any) any {
	return value
}

// Installer places merged per-profile maps into a source chain.
type Installer struct {
	sources  *Sources
	resolver Resolver
	logger   *zap.Logger
}

// NewInstaller creates an Installer writing into the given chain. A nil
// resolver falls back to IdentityResolver.
func NewInstaller(sources *Sources, resolver Resolver, logger *zap.Logger) *Installer {
	if resolver == nil {
		resolver = IdentityResolver{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Installer{sources: sources, resolver: resolver, logger: logger}
}

// Install resolves the merged map and installs it under a source named
// after the profile. When a source of that name already exists, new keys
// augment it and colliding keys are replaced by the newly resolved value:
// precedence between modules was already decided during the merge, so the
// freshest resolution wins here.
func (i *Installer) Install(profile string, merged map[string]any) {
	target, existed := i.sources.Lookup(profile)
	if !existed {
		target = &Source{Name: profile, Properties: make(map[string]any, len(merged))}
		i.sources.Append(target)
	}

	// Install raw values first so a chain-backed resolver can see keys
	// from the source being installed, then resolve in place.
	for k, v := range merged {
		target.Properties[k] = v
	}
	for k := range merged {
		target.Properties[k] = i.resolver.Resolve(target.Properties[k])
	}

	i.logger.Debug("installed property source",
		zap.String("profile", profile),
		zap.Bool("augmented", existed),
		zap.Int("keys", len(merged)))
}

// ReorderProfilesFirst moves every source whose name matches a known
// profile to the front of the chain, preserving relative order among them
// and among the remaining sources.
func (i *Installer) ReorderProfilesFirst(profiles map[string]struct{}) {
	var front, back []*Source
	for _, src := range i.sources.list {
		if _, ok := profiles[src.Name]; ok {
			front = append(front, src)
		} else {
			back = append(back, src)
		}
	}
	i.sources.list = append(front, back...)
}
