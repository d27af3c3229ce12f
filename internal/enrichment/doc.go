// Package enrichment attaches licensing metadata to aggregated music cues.
//
// An Enricher runs a fixed sequence of passes over the aggregated tracks:
//
//  1. batch: one structured JSON request naming every uncached track, with
//     the reference text and source taxonomy in the system prompt
//  2. library: deterministic local rewrite of tracks whose file name carries
//     a reference library code (title reparsed from the file name, composer
//     names reordered, publisher defaulted)
//  3. backfill: best-effort single-item composer lookups, first for library
//     tracks and then for commercial recordings
//
// Each pass produces patches keyed by track identity and Merge folds them
// into immutable records. A failed lookup only leaves fields unset; it never
// aborts the run.
package enrichment
