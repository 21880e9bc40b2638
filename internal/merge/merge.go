package merge

import (
	"sort"

	"github.com/ysemennikov/envlayers/internal/parser"
	"github.com/ysemennikov/envlayers/internal/props"
)

// MergedSource is the flattened, merged property map for one profile.
// Exactly one exists per profile after Profiles runs.
type MergedSource struct {
	Profile    string
	Properties map[string]any
}

// GroupByProfile buckets parsed sources by their profile, preserving the
// input order within each bucket.
func GroupByProfile(sources []parser.ParsedSource) map[string][]parser.ParsedSource {
	grouped := make(map[string][]parser.ParsedSource)
	for _, src := range sources {
		grouped[src.Profile] = append(grouped[src.Profile], src)
	}
	return grouped
}

// SortByPrecedence orders sources within one profile by the precedence rank
// of their module, stably, so equal-ranked sources keep their input order.
func SortByPrecedence(r Ranker, sources []parser.ParsedSource) {
	sort.SliceStable(sources, func(i, j int) bool {
		return r.Rank(sources[i].Module) < r.Rank(sources[j].Module)
	})
}

// Profiles merges all parsed sources into one MergedSource per profile.
func Profiles(r Ranker, sources []parser.ParsedSource) map[string]MergedSource {
	grouped := GroupByProfile(sources)
	out := make(map[string]MergedSource, len(grouped))
	for profile, group := range grouped {
		out[profile] = Profile(r, profile, group)
	}
	return out
}

// Profile flattens each source for the profile in precedence order and
// folds them into a single map with PreserveExisting.
func Profile(r Ranker, profile string, sources []parser.ParsedSource) MergedSource {
	ordered := make([]parser.ParsedSource, len(sources))
	copy(ordered, sources)
	SortByPrecedence(r, ordered)

	merged := make(map[string]any)
	for _, src := range ordered {
		flat := props.Flatten(src.Properties)

		keys := make([]string, 0, len(flat))
		for k := range flat {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			existing, ok := merged[k]
			if !ok {
				merged[k] = flat[k]
				continue
			}
			merged[k] = PreserveExisting(existing, flat[k])
		}
	}

	return MergedSource{Profile: profile, Properties: merged}
}

// PreserveExisting combines two values for the same key: the existing
// (earlier, higher-precedence) value survives scalar conflicts, lists are
// unioned in order with structural deduplication, and a scalar meeting a
// list is absorbed into it.
func PreserveExisting(existing, incoming any) any {
	if existing == nil {
		return incoming
	}
	if props.DeepEqual(existing, incoming) {
		return existing
	}

	existingList, existingIsList := asList(existing)
	incomingList, incomingIsList := asList(incoming)

	switch {
	case existingIsList && incomingIsList:
		return appendMissing(existingList, incomingList)
	case existingIsList:
		return appendMissing(existingList, []any{incoming})
	case incomingIsList:
		return appendMissing([]any{existing}, incomingList)
	default:
		// Both scalars, unequal: first-applied wins.
		return existing
	}
}

// appendMissing appends the incoming items not already structurally present.
func appendMissing(existing, incoming []any) []any {
	out := make([]any, len(existing), len(existing)+len(incoming))
	copy(out, existing)
	for _, item := range incoming {
		if !containsDeep(out, item) {
			out = append(out, item)
		}
	}
	return out
}

func containsDeep(list []any, v any) bool {
	for _, item := range list {
		if props.DeepEqual(item, v) {
			return true
		}
	}
	return false
}

func asList(v any) ([]any, bool) {
	list, ok := v.([]any)
	return list, ok
}
