// Package arbor normalizes source files written in different languages into
// a single generic syntax tree model, built on tree-sitter. It aggregates
// per-file trees into project- and solution-level analyses with bounded
// concurrency and deterministic output.
package arbor
