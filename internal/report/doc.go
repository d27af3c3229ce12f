// Package report turns enriched records into cue sheet output: locale-aware
// sorting, the fixed-column CSV export, and JSON/YAML documents.
package report
