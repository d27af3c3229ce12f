// Package config loads, normalizes, and validates cuesheet configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// OPENROUTER_API_KEY. The Config type centralizes the timeline settings used
// by the EDL parser and aggregator, the LLM connection used for metadata
// lookups, and the report options.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
