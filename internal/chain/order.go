package chain

import "sort"

// Origin-category ranks for the top-level chain ordering pass.
const (
	categoryCommandLine = iota
	categorySystemProperties
	categorySystemEnvironment
	categoryActiveProfile
	categoryOther
)

// OrderSources applies the origin-category ordering to the chain: command
// line arguments first, then system properties, then system environment
// variables, then sources named after active profiles (in active-profile
// list order), then everything else in stable order.
func OrderSources(s *Sources, activeProfiles []string) {
	profileIndex := make(map[string]int, len(activeProfiles))
	for i, p := range activeProfiles {
		profileIndex[p] = i
	}

	rank := func(src *Source) (int, int) {
		switch src.Name {
		case CommandLine:
			return categoryCommandLine, 0
		case SystemProperties:
			return categorySystemProperties, 0
		case SystemEnvironment:
			return categorySystemEnvironment, 0
		}
		if idx, ok := profileIndex[src.Name]; ok {
			return categoryActiveProfile, idx
		}
		return categoryOther, 0
	}

	sort.SliceStable(s.list, func(i, j int) bool {
		ci, pi := rank(s.list[i])
		cj, pj := rank(s.list[j])
		if ci != cj {
			return ci < cj
		}
		return pi < pj
	})
}
