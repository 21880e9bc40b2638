// Package merge combines parsed configuration sources into one merged map
// per profile. Sources are grouped by profile, ordered by the precedence
// rank of their originating module, and folded with first-wins semantics:
// earlier (higher-precedence) values survive scalar conflicts, while list
// values are unioned in order with structural deduplication.
package merge
