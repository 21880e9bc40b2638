// Package chain maintains the ordered list of named property sources that
// the rest of the application queries with first-match-wins semantics. The
// Installer places merged per-profile maps into the chain (resolving
// deferred placeholders through a pluggable Resolver) and applies two
// complementary ordering passes: profile-named sources move to the front as
// a block, then origin categories (command line, system properties, system
// environment, active profiles, everything else) finalize the order.
package chain
