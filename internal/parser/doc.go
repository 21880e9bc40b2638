// Package parser turns raw configuration assets into ParsedSource tuples of
// (module, profile, properties). One parser exists per supported format:
// dotenv, JSON, Java-style properties, and a deliberately restricted YAML
// subset with strict structural validation. A heuristic source-text parser
// acts as the fallback for "code as config" assets no format parser claims.
//
// Parsers are registered explicitly on a Registry rather than discovered at
// runtime; selection is first-match across the registered order, with the
// fallback tried last.
package parser
