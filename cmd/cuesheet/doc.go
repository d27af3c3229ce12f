// Package main hosts the cuesheet CLI entrypoint and command graph.
//
// The Cobra-based command tree turns EDL exports into music cue sheets
// (process), exposes the parser and name normalizer for inspection (parse,
// normalize), checks readiness (check), and manages configuration and the
// lookup cache. It centralizes configuration resolution, reference loading,
// and structured logging setup so subcommands can focus on output.
//
// Keep this package lean: add new functionality to the internal packages
// first, then surface it through dedicated commands or flags here.
package main
