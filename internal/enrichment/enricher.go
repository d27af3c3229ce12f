package enrichment

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"cuesheet/internal/aggregate"
	"cuesheet/internal/logging"
	"cuesheet/internal/lookupcache"
	"cuesheet/internal/reference"
	"cuesheet/internal/services"
	"cuesheet/internal/services/llm"
)

const defaultMaxConcurrency = 8

// Lookup is the generative metadata service. *llm.Client satisfies it.
type Lookup interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	CompleteText(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Model() string
}

// Cache stores batch entries between runs. *lookupcache.Store satisfies it.
type Cache interface {
	Get(ctx context.Context, key lookupcache.Key) (string, bool, error)
	Put(ctx context.Context, key lookupcache.Key, payload string) error
}

// Options configures an Enricher.
type Options struct {
	// Lookup serves the batched request. Nil disables lookups.
	Lookup Lookup
	// Backfill serves composer backfill requests; defaults to Lookup.
	Backfill         Lookup
	Cache            Cache
	Reference        *reference.DB
	ComposerBackfill bool
	MaxConcurrency   int
	Logger           *slog.Logger
}

// Enricher attaches metadata to aggregated tracks.
type Enricher struct {
	lookup         Lookup
	backfill       Lookup
	cache          Cache
	reference      *reference.DB
	composers      bool
	maxConcurrency int
	logger         *slog.Logger
}

// New constructs an Enricher.
func New(opts Options) *Enricher {
	e := &Enricher{
		lookup:         opts.Lookup,
		backfill:       opts.Backfill,
		cache:          opts.Cache,
		reference:      opts.Reference,
		composers:      opts.ComposerBackfill,
		maxConcurrency: opts.MaxConcurrency,
		logger:         logging.NewComponentLogger(opts.Logger, "enrichment"),
	}
	if e.backfill == nil {
		e.backfill = e.lookup
	}
	if e.maxConcurrency <= 0 {
		e.maxConcurrency = defaultMaxConcurrency
	}
	return e
}

// Enrich runs the batch, library, and backfill passes over tracks. It never
// fails: lookup problems are logged and leave fields unset.
func (e *Enricher) Enrich(ctx context.Context, tracks []aggregate.Track) []Record {
	ctx = services.WithStage(ctx, "enrich")
	logger := logging.WithContext(ctx, e.logger)
	records := NewRecords(tracks)

	if e.lookup == nil {
		logging.WarnWithContext(logger, "metadata lookups disabled", "enrichment_disabled",
			logging.String(logging.FieldErrorHint, "set llm.api_key or OPENROUTER_API_KEY and enrichment.enabled"),
			logging.String(logging.FieldImpact, "cue sheet has durations only; titles fall back to file names"),
		)
	} else {
		records = Merge(records, e.batchPass(ctx, logger, records))
	}

	records = Merge(records, libraryPass(records, e.reference))

	if e.lookup != nil && e.composers {
		records = Merge(records, e.backfillPass(ctx, logger, records, libraryBackfill(e.reference)))
		records = Merge(records, e.backfillPass(ctx, logger, records, commercialBackfill()))
	}

	logger.Info("enrichment complete",
		logging.Int("tracks", len(records)),
		logging.Int("with_composers", countWithComposers(records)),
	)
	return records
}

func (e *Enricher) batchPass(ctx context.Context, logger *slog.Logger, records []Record) map[string]Patch {
	patches := make(map[string]Patch)
	identities := make(map[string][]string)
	var names []string
	for _, record := range records {
		name := record.Track.DisplayName
		if _, seen := identities[name]; !seen {
			names = append(names, name)
		}
		identities[name] = append(identities[name], record.Track.Identity)
	}

	uncached := make([]string, 0, len(names))
	for _, name := range names {
		entry, ok := e.cachedEntry(ctx, logger, name)
		if !ok {
			uncached = append(uncached, name)
			continue
		}
		for _, id := range identities[name] {
			patches[id] = entry.patch()
		}
	}
	if len(uncached) == 0 {
		logger.Info("metadata served from cache", logging.Int("tracks", len(names)))
		return patches
	}

	raw, err := e.lookup.CompleteJSON(ctx, batchSystemPrompt(e.reference.Text()), batchUserPrompt(uncached))
	if err != nil {
		logging.WarnWithContext(logger, "metadata batch lookup failed", "batch_lookup_failed",
			logging.Error(services.Wrap(services.ErrLookup, "enrich", "batch", "metadata request", err)),
			logging.Int("tracks", len(uncached)),
			logging.String(logging.FieldErrorHint, "check llm.model, network access and API quota"),
			logging.String(logging.FieldImpact, "uncached tracks have no metadata"),
		)
		return patches
	}
	var response batchResponse
	if err := llm.DecodeLLMJSON(raw, &response); err != nil {
		logging.WarnWithContext(logger, "metadata batch response unreadable", "batch_decode_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "uncached tracks have no metadata"),
		)
		return patches
	}

	lookup := make(map[string]string, len(uncached))
	for _, name := range uncached {
		lookup[strings.ToLower(name)] = name
	}
	matched := 0
	for _, entry := range response.Tracks {
		warnings, err := entry.validate()
		if err != nil {
			logging.WarnWithContext(logger, "metadata entry dropped", "batch_entry_invalid",
				logging.Error(err),
				logging.String(logging.FieldImpact, "track keeps empty metadata"),
			)
			continue
		}
		name, ok := lookup[strings.ToLower(entry.CanonicalName)]
		if !ok {
			logging.WarnWithContext(logger, "metadata entry names an unknown track", "batch_entry_unmatched",
				logging.String("canonical_name", entry.CanonicalName),
				logging.String(logging.FieldImpact, "entry ignored"),
			)
			continue
		}
		for _, warning := range warnings {
			logging.WarnWithContext(logger, "metadata entry field cleared", "batch_entry_field_invalid",
				logging.String(logging.FieldIdentity, name),
				logging.String("reason", warning),
				logging.String(logging.FieldImpact, "field left blank on the cue sheet"),
			)
		}
		entry.CanonicalName = name
		for _, id := range identities[name] {
			patches[id] = entry.patch()
		}
		matched++
		e.storeEntry(ctx, logger, entry)
	}
	logger.Info("metadata batch applied",
		logging.Int("requested", len(uncached)),
		logging.Int("matched", matched),
	)
	return patches
}

func (e *Enricher) cacheKey(name string) lookupcache.Key {
	return lookupcache.Key{Name: name, Model: e.lookup.Model(), Reference: e.reference.Checksum()}
}

func (e *Enricher) cachedEntry(ctx context.Context, logger *slog.Logger, name string) (batchEntry, bool) {
	if e.cache == nil {
		return batchEntry{}, false
	}
	payload, ok, err := e.cache.Get(ctx, e.cacheKey(name))
	if err != nil {
		logger.Debug("lookup cache read failed", logging.String(logging.FieldIdentity, name), logging.Error(err))
		return batchEntry{}, false
	}
	if !ok {
		return batchEntry{}, false
	}
	var entry batchEntry
	if err := json.Unmarshal([]byte(payload), &entry); err != nil {
		logger.Debug("lookup cache entry unreadable", logging.String(logging.FieldIdentity, name), logging.Error(err))
		return batchEntry{}, false
	}
	if _, err := entry.validate(); err != nil {
		return batchEntry{}, false
	}
	return entry, true
}

func (e *Enricher) storeEntry(ctx context.Context, logger *slog.Logger, entry batchEntry) {
	if e.cache == nil {
		return
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := e.cache.Put(ctx, e.cacheKey(entry.CanonicalName), string(payload)); err != nil {
		logging.WarnWithContext(logger, "lookup cache write failed", "cache_write_failed",
			logging.String(logging.FieldIdentity, entry.CanonicalName),
			logging.Error(err),
			logging.String(logging.FieldImpact, "next run will look this track up again"),
		)
	}
}

func countWithComposers(records []Record) int {
	n := 0
	for _, record := range records {
		if len(record.Metadata.Composers) > 0 {
			n++
		}
	}
	return n
}
