// Package preflight provides readiness checks for the reference data,
// working directories, and the metadata lookup service.
//
// The CLI "cuesheet check" command runs RunAll and renders the results as a
// table. Each check is gated by its config toggle; the LLM check is skipped
// when enrichment is disabled.
package preflight
