package workflow

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"cuesheet/internal/aggregate"
	"cuesheet/internal/config"
	"cuesheet/internal/edl"
	"cuesheet/internal/enrichment"
	"cuesheet/internal/logging"
	"cuesheet/internal/reference"
)

// StdinPath names standard input in an input list.
const StdinPath = "-"

// Enricher attaches metadata to aggregated tracks. *enrichment.Enricher
// satisfies it.
type Enricher interface {
	Enrich(ctx context.Context, tracks []aggregate.Track) []enrichment.Record
}

// Result is the outcome of one run.
type Result struct {
	RunID    string
	Sessions []edl.Session
	Records  []enrichment.Record
	Started  time.Time
	Finished time.Time
}

// Runner coordinates a single build.
type Runner struct {
	cfg       *config.Config
	reference *reference.DB
	enricher  Enricher
	logger    *slog.Logger
	stdin     io.Reader
	now       func() time.Time
}

// Option configures optional Runner behavior.
type Option func(*Runner)

// WithEnricher overrides the enricher. The default runs the library pass only.
func WithEnricher(enricher Enricher) Option {
	return func(r *Runner) {
		r.enricher = enricher
	}
}

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithStdin overrides the reader used for StdinPath (used in tests).
func WithStdin(reader io.Reader) Option {
	return func(r *Runner) {
		r.stdin = reader
	}
}

// WithClock overrides time.Now (used in tests).
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

// NewRunner constructs a Runner. ref may be nil; Run then fails with
// services.ErrPrecondition.
func NewRunner(cfg *config.Config, ref *reference.DB, opts ...Option) *Runner {
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	r := &Runner{
		cfg:       cfg,
		reference: ref,
		stdin:     os.Stdin,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.enricher == nil {
		r.enricher = enrichment.New(enrichment.Options{
			Reference: ref,
			Logger:    r.logger,
		})
	}
	r.logger = logging.NewComponentLogger(r.logger, "workflow")
	return r
}
