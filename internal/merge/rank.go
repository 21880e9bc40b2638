package merge

import "strings"

// Precedence ranks, lowest applied first during the fold. Because the fold
// preserves existing values, a lower rank means the module's values win.
const (
	rankRoot      = 0
	rankFramework = 1
	rankSubmodule = 2
	rankStd       = 3
	rankOther     = 4
	rankUnknown   = 5
)

// Ranker derives the merge-precedence rank of a module name. The rank is
// computed on demand, never stored.
type Ranker struct {
	// RootModule is the application's own module; its values outrank
	// everything else.
	RootModule string
	// FrameworkModule is the framework's main module. Modules whose name
	// carries it as a prefix are framework sub-modules.
	FrameworkModule string
	// StdModules lists standard-library-equivalent modules.
	StdModules map[string]struct{}
}

// NewRanker creates a Ranker for the given root and framework modules.
func NewRanker(rootModule, frameworkModule string, stdModules ...string) Ranker {
	std := make(map[string]struct{}, len(stdModules))
	for _, m := range stdModules {
		std[m] = struct{}{}
	}
	return Ranker{
		RootModule:      rootModule,
		FrameworkModule: frameworkModule,
		StdModules:      std,
	}
}

// Rank returns the precedence rank for a module. An unknown (empty) module
// sorts last of all.
func (r Ranker) Rank(module string) int {
	switch {
	case module == "":
		return rankUnknown
	case module == r.RootModule:
		return rankRoot
	case module == r.FrameworkModule:
		return rankFramework
	case r.FrameworkModule != "" && strings.HasPrefix(module, r.FrameworkModule):
		return rankSubmodule
	default:
		if _, ok := r.StdModules[module]; ok {
			return rankStd
		}
		return rankOther
	}
}
