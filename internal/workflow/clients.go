package workflow

import (
	"context"
	"errors"
	"log/slog"

	"cuesheet/internal/config"
	"cuesheet/internal/enrichment"
	"cuesheet/internal/logging"
	"cuesheet/internal/lookupcache"
	"cuesheet/internal/reference"
	"cuesheet/internal/services/llm"
)

// LLMConfig maps the [llm] section onto the client configuration.
func LLMConfig(cfg config.LLM) llm.Config {
	return llm.Config{
		APIKey:         cfg.APIKey,
		BaseURL:        cfg.BaseURL,
		Model:          cfg.Model,
		Referer:        cfg.Referer,
		Title:          cfg.Title,
		TimeoutSeconds: cfg.TimeoutSeconds,
	}
}

// NewEnricher builds the enricher for cfg. Lookups are wired only when
// cfg.LLMReady; cache may be nil.
func NewEnricher(cfg *config.Config, ref *reference.DB, cache enrichment.Cache, logger *slog.Logger) *enrichment.Enricher {
	opts := enrichment.Options{
		Cache:            cache,
		Reference:        ref,
		ComposerBackfill: cfg.Enrichment.ComposerBackfill,
		MaxConcurrency:   cfg.Enrichment.MaxConcurrency,
		Logger:           logger,
	}
	if cfg.LLMReady() {
		clientCfg := LLMConfig(cfg.LLM)
		opts.Lookup = llm.NewClient(clientCfg, llm.WithRetryMaxAttempts(cfg.LLM.RetryAttempts))
		// Backfill requests are never retried.
		opts.Backfill = llm.NewClient(clientCfg, llm.WithRetryMaxAttempts(1))
	}
	return enrichment.New(opts)
}

// OpenCache opens the lookup cache when enabled. Failures are logged and
// return nil so the run continues uncached.
func OpenCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) *lookupcache.Store {
	if !cfg.Cache.Enabled || !cfg.LLMReady() {
		return nil
	}
	store, err := lookupcache.Open(ctx, cfg.Cache.Path)
	if err != nil {
		hint := "check cache.path permissions or disable the cache"
		if errors.Is(err, lookupcache.ErrLocked) {
			hint = "another cuesheet run holds the cache; wait for it to finish"
		}
		logging.WarnWithContext(logger, "lookup cache unavailable", "cache_unavailable",
			logging.Error(err),
			logging.String("path", cfg.Cache.Path),
			logging.String(logging.FieldErrorHint, hint),
			logging.String(logging.FieldImpact, "every track is looked up again"),
		)
		return nil
	}
	return store
}
