package workflow

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"cuesheet/internal/aggregate"
	"cuesheet/internal/edl"
	"cuesheet/internal/enrichment"
	"cuesheet/internal/logging"
	"cuesheet/internal/report"
	"cuesheet/internal/services"
)

// Run parses inputs in order, aggregates their clips, enriches the tracks and
// returns the sorted records. StdinPath reads standard input.
func (r *Runner) Run(ctx context.Context, inputs []string) (Result, error) {
	if r.reference == nil {
		return Result{}, services.Wrap(services.ErrPrecondition, "workflow", "run",
			"reference data not loaded; check paths.reference_file", nil)
	}
	if len(inputs) == 0 {
		return Result{}, services.Wrap(services.ErrInput, "workflow", "run", "no input files supplied", nil)
	}

	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	result := Result{RunID: runID, Started: r.now()}
	runLogger := logging.WithContext(ctx, r.logger)
	runLogger.Info("run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.Int("inputs", len(inputs)),
		logging.Int("frame_rate", r.cfg.Timeline.FrameRate),
		logging.Bool("enrichment", r.cfg.Enrichment.Enabled),
	)

	var docs []edl.Document
	if err := r.runStage(ctx, "parse", func(ctx context.Context, logger *slog.Logger) error {
		var err error
		docs, err = r.parseInputs(ctx, inputs)
		return err
	}); err != nil {
		return result, err
	}
	for _, doc := range docs {
		result.Sessions = append(result.Sessions, doc.Session)
	}

	var tracks []aggregate.Track
	if err := r.runStage(ctx, "aggregate", func(ctx context.Context, logger *slog.Logger) error {
		var err error
		tracks, err = r.aggregate(logger, docs)
		return err
	}); err != nil {
		return result, err
	}

	var records []enrichment.Record
	if err := r.runStage(ctx, "enrich", func(ctx context.Context, logger *slog.Logger) error {
		records = r.enricher.Enrich(ctx, tracks)
		return nil
	}); err != nil {
		return result, err
	}

	result.Records = report.Sort(records, r.cfg.Report.Locale)
	result.Finished = r.now()
	runLogger.Info("run completed",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("files", len(result.Sessions)),
		logging.Int("tracks", len(result.Records)),
		logging.Duration("run_duration", result.Finished.Sub(result.Started)),
	)
	return result, nil
}

func (r *Runner) runStage(ctx context.Context, name string, fn func(context.Context, *slog.Logger) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	stageCtx := services.WithStage(ctx, name)
	logger := logging.WithContext(stageCtx, r.logger)
	start := time.Now()
	logger.Debug("stage started", logging.String(logging.FieldEventType, "stage_start"))

	if err := fn(stageCtx, logger); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("stage interrupted by shutdown")
			return err
		}
		logging.ErrorWithContext(logger, "stage failed", "stage_failed",
			logging.Error(err),
			logging.Duration("stage_duration", time.Since(start)),
		)
		return err
	}
	logger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Duration("stage_duration", time.Since(start)),
	)
	return nil
}

func (r *Runner) parseInputs(ctx context.Context, inputs []string) ([]edl.Document, error) {
	docs := make([]edl.Document, 0, len(inputs))
	for _, input := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := r.parseInput(ctx, input)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (r *Runner) parseInput(ctx context.Context, input string) (edl.Document, error) {
	name := filepath.Base(input)
	if input == StdinPath {
		name = "stdin"
	}
	fileCtx := services.WithFile(ctx, name)
	logger := logging.WithContext(fileCtx, r.logger)

	opts := edl.Options{
		File:           name,
		Rate:           r.cfg.Timeline.FrameRate,
		SessionHeader:  r.cfg.Timeline.SessionHeader,
		DefaultSession: r.cfg.Timeline.DefaultSession,
	}

	var (
		doc edl.Document
		err error
	)
	if input == StdinPath {
		doc, err = edl.Parse(r.stdin, opts)
	} else {
		doc, err = edl.ParseFile(input, opts)
	}
	if err != nil {
		return edl.Document{}, services.Wrap(services.ErrInput, "parse", "read "+name, "input could not be read", err)
	}

	logger.Info("edl parsed",
		logging.String("session", doc.Session.Name),
		logging.Int("clips", doc.Session.Clips),
		logging.Int("muted", doc.Session.Muted),
		logging.Int("skipped_lines", doc.Session.Skipped),
	)
	if doc.Session.Clips == 0 {
		logging.WarnWithContext(logger, "no clip lines found", "edl_empty",
			logging.String(logging.FieldErrorHint, "confirm the file is a track listing export"),
			logging.String(logging.FieldImpact, "file contributes nothing to the cue sheet"),
		)
	}
	return doc, nil
}

func (r *Runner) aggregate(logger *slog.Logger, docs []edl.Document) ([]aggregate.Track, error) {
	agg := aggregate.New(aggregate.Options{
		Tolerance: aggregate.Tolerance(r.cfg.Timeline.MergeToleranceFrames),
		OnReversed: func(clip edl.Clip) {
			logging.WarnWithContext(logger, "clip ends before it starts; counted as zero length", "clip_reversed",
				logging.String(logging.FieldFile, clip.File),
				logging.Int("line", clip.Line),
				logging.String("clip", clip.Name),
				logging.String(logging.FieldImpact, "clip adds no duration"),
			)
		},
	})
	for _, doc := range docs {
		agg.Add(doc)
	}

	tracks, err := agg.Tracks()
	if err != nil {
		if errors.Is(err, aggregate.ErrNoUsableContent) {
			return nil, services.Wrap(services.ErrEmptyResult, "aggregate", "tracks",
				"nothing to report; every clip was muted or no clip lines matched", err)
		}
		return nil, err
	}
	for _, track := range tracks {
		logger.Debug("track merged",
			logging.String(logging.FieldIdentity, track.Identity),
			logging.String("display_name", track.DisplayName),
			logging.Int64("frames", track.Frames),
			logging.Int("segments", len(track.Segments)),
		)
	}
	logger.Info("tracks aggregated",
		logging.Int("tracks", len(tracks)),
		logging.Int("files", len(docs)),
	)
	return tracks, nil
}
