// Package props defines the value-shape model shared by the configuration
// pipeline: flattening nested structures into dot-joined keys, normalizing
// scalar and list values (including the CSV-splitting heuristic guarded by
// file-path detection), and cycle-tolerant deep structural equality.
package props
