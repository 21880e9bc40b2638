// Package environ orchestrates environment preparation: it feeds assets
// through the format parsers, groups and merges the results per profile,
// and installs the merged maps into an ordered property-source chain. The
// whole pipeline runs synchronously, exactly once, before any concurrent
// subsystem exists; the resulting Environment is immutable afterwards.
//
// Preparation is best-effort: a single malformed asset is skipped and
// reported, never allowed to prevent the rest of the configuration from
// loading. Strict-format structure violations are the exception - they
// abort preparation with a corrective message.
package environ
