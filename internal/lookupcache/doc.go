// Package lookupcache persists metadata lookup results in SQLite so repeated
// runs over the same material do not ask the LLM again.
//
// Entries are keyed by track display name, model, and the checksum of the
// reference data that shaped the prompt; changing either the model or the
// reference file naturally misses the cache. A flock-held lock file next to
// the database keeps concurrent cuesheet runs from writing at the same time.
package lookupcache
