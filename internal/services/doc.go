// Package services defines shared utilities consumed by the cue sheet workflow
// and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, and input file names
//     for logging.
//   - Structured error markers plus the Wrap helper that let the CLI tell
//     fatal startup failures apart from recoverable run failures.
//
// External clients live in subpackages (see services/llm).
package services
