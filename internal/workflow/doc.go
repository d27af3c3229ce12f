// Package workflow runs one cue sheet build from input files to sorted,
// enriched records.
//
// A Runner executes the stages in a fixed order: parse every input in the
// order given, aggregate clip intervals into per-track durations, enrich the
// tracks with metadata, and sort them for the report. Each run is tagged with
// a UUID run ID that flows through the context into every log line.
//
// Parsing and aggregation are sequential. Enrichment owns its own fan-out;
// lookup failures never fail a run. The only run errors are unreadable input
// (services.ErrInput), a missing reference DB (services.ErrPrecondition), and
// input with no audible music (services.ErrEmptyResult).
package workflow
