// Package llm provides an OpenRouter chat client used for music metadata
// lookups.
//
// The enrichment stage sends batches of track names and asks for a JSON
// document describing each track. The composer backfill asks for plain
// comma-separated name lists via CompleteText.
//
// # Configuration
//
// Requires api_key and model; base_url, referer, title and timeout are
// optional. When unconfigured, Configured reports false and callers skip
// enrichment.
//
// # Entry Points
//
// NewClient: construct client from Config.
// Client.Complete: send one Request.
// Client.CompleteJSON: send system/user prompts, receive JSON response.
// Client.CompleteText: send system/user prompts, receive free text.
// Client.HealthCheck: verify API key and model availability.
// DecodeLLMJSON: tolerant JSON decoding (code fences, surrounding prose).
//
// # Retry Behaviour
//
// Requests are sent once by default. WithRetryMaxAttempts raises the count;
// transient failures (HTTP 408/429/5xx, empty content, network timeouts) are
// then retried with exponential backoff from 1s up to 10s, or after the
// server's Retry-After. Context cancellation aborts retries immediately.
package llm
