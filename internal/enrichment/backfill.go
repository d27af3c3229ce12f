package enrichment

import (
	"context"
	"log/slog"
	"sync"

	"cuesheet/internal/logging"
	"cuesheet/internal/reference"
)

// backfillSpec describes one composer backfill pass.
type backfillSpec struct {
	name    string
	system  string
	include func(Record) bool
	prompt  func(Record) string
}

func libraryBackfill(db *reference.DB) backfillSpec {
	return backfillSpec{
		name:    "library",
		system:  LibraryComposerPrompt,
		include: func(r Record) bool { return r.Metadata.Source == SourceLibrary },
		prompt: func(r Record) string {
			lib, _ := db.LibraryFor(r.Track.DisplayName)
			meta := r.Metadata
			meta.Title = r.Title()
			return libraryComposerUserPrompt(meta, lib.Publisher)
		},
	}
}

func commercialBackfill() backfillSpec {
	return backfillSpec{
		name:    "commercial",
		system:  CommercialComposerPrompt,
		include: func(r Record) bool { return r.Metadata.Source == SourceCommercial },
		prompt: func(r Record) string {
			meta := r.Metadata
			meta.Title = r.Title()
			return commercialComposerUserPrompt(meta)
		},
	}
}

// backfillPass asks for composers of every included record that still has
// none. Each lookup runs in its own goroutine, bounded by maxConcurrency, and
// writes only its own result slot. Failures are logged and skipped.
func (e *Enricher) backfillPass(ctx context.Context, logger *slog.Logger, records []Record, spec backfillSpec) map[string]Patch {
	var targets []int
	for i, record := range records {
		if len(record.Metadata.Composers) == 0 && spec.include(record) {
			targets = append(targets, i)
		}
	}
	patches := make(map[string]Patch)
	if len(targets) == 0 {
		return patches
	}

	results := make([][]string, len(targets))
	sem := make(chan struct{}, e.maxConcurrency)
	var wg sync.WaitGroup
	for slot, idx := range targets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-sem }()

			record := records[idx]
			text, err := e.backfill.CompleteText(ctx, spec.system, spec.prompt(record))
			if err != nil {
				logging.WarnWithContext(logger, "composer lookup failed", "composer_backfill_failed",
					logging.String(logging.FieldIdentity, record.Track.Identity),
					logging.String("pass", spec.name),
					logging.Error(err),
					logging.String(logging.FieldImpact, "composer left blank on the cue sheet"),
				)
				return
			}
			results[slot] = SplitNames(text)
		}()
	}
	wg.Wait()

	filled := 0
	for slot, idx := range targets {
		names := results[slot]
		if len(names) == 0 {
			continue
		}
		patches[records[idx].Track.Identity] = Patch{Composers: names}
		filled++
	}
	logger.Info("composer backfill finished",
		logging.String("pass", spec.name),
		logging.Int("requested", len(targets)),
		logging.Int("filled", filled),
	)
	return patches
}
