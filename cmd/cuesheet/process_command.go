package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cuesheet/internal/enrichment"
	"cuesheet/internal/report"
	"cuesheet/internal/textutil"
	"cuesheet/internal/timecode"
	"cuesheet/internal/workflow"
)

type processOptions struct {
	csvPath  string
	jsonPath string
	yamlPath string
	offline  bool
	noCache  bool
	quiet    bool
}

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var opts processOptions

	cmd := &cobra.Command{
		Use:   "process <edl-file>...",
		Short: "Build a music cue sheet from one or more EDL exports",
		Long: "Parse the EDL exports in the order given, merge each music cue into one on-timeline duration,\n" +
			"look up licensing metadata, and write the cue sheet as CSV. Use - to read an export from stdin.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, ctx, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.csvPath, "csv", "", "CSV destination (default: <output_dir>/<session> Cue Sheet.csv, - for stdout)")
	cmd.Flags().StringVar(&opts.jsonPath, "json", "", "Also write a JSON report to this path (- for stdout)")
	cmd.Flags().StringVar(&opts.yamlPath, "yaml", "", "Also write a YAML report to this path (- for stdout)")
	cmd.Flags().BoolVar(&opts.offline, "offline", false, "Skip metadata lookups; durations and library rules only")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "Ignore the lookup cache for this run")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Do not print the cue sheet table")
	return cmd
}

func runProcess(cmd *cobra.Command, ctx *commandContext, opts processOptions, args []string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}
	ref, err := ctx.loadReference()
	if err != nil {
		return err
	}

	runCfg := *cfg
	if opts.offline {
		runCfg.Enrichment.Enabled = false
	}
	var cache enrichment.Cache
	if !opts.noCache {
		if store := workflow.OpenCache(cmd.Context(), &runCfg, logger); store != nil {
			defer store.Close()
			cache = store
		}
	}

	runner := workflow.NewRunner(&runCfg, ref,
		workflow.WithLogger(logger),
		workflow.WithStdin(cmd.InOrStdin()),
		workflow.WithEnricher(workflow.NewEnricher(&runCfg, ref, cache, logger)),
	)
	result, err := runner.Run(cmd.Context(), args)
	if err != nil {
		return err
	}

	renderOpts := report.Options{
		Codec:      timecode.New(cfg.Timeline.FrameRate),
		MusicUsage: cfg.Report.MusicUsage,
	}
	rows := report.Rows(result.Records, renderOpts)
	doc := report.Build(result.RunID, result.Finished, result.Sessions, result.Records, renderOpts)

	out := cmd.OutOrStdout()
	csvTarget := strings.TrimSpace(opts.csvPath)
	if csvTarget == "" {
		csvTarget = filepath.Join(cfg.Paths.OutputDir, textutil.ReportFileName(firstSessionName(result), cfg.Timeline.DefaultSession, "csv"))
	}

	var written []string
	outputs := []struct {
		target string
		render func(io.Writer) error
	}{
		{csvTarget, func(w io.Writer) error { return report.WriteCSV(w, rows) }},
		{strings.TrimSpace(opts.jsonPath), func(w io.Writer) error { return report.WriteJSON(w, doc) }},
		{strings.TrimSpace(opts.yamlPath), func(w io.Writer) error { return report.WriteYAML(w, doc) }},
	}
	toStdout := false
	for _, output := range outputs {
		if output.target == "" {
			continue
		}
		if err := writeTarget(out, output.target, output.render); err != nil {
			return err
		}
		if output.target == stdoutTarget {
			toStdout = true
			continue
		}
		written = append(written, output.target)
	}
	if toStdout {
		return nil
	}

	if !opts.quiet {
		fmt.Fprintln(out, renderCueSheet(result, rows, shouldColorize(out)))
	}
	for _, path := range written {
		fmt.Fprintf(out, "Wrote %s\n", path)
	}
	return nil
}

func firstSessionName(result workflow.Result) string {
	if len(result.Sessions) == 0 {
		return ""
	}
	return result.Sessions[0].Name
}

func renderCueSheet(result workflow.Result, rows []report.Row, color bool) string {
	names := make([]string, 0, len(result.Sessions))
	for _, session := range result.Sessions {
		names = append(names, session.Name)
	}
	lines := heading(fmt.Sprintf("Cue sheet: %s (%d tracks)", strings.Join(names, ", "), len(rows)), color)

	lines = append(lines, renderCueSheetTable(rows))
	if !result.Finished.IsZero() {
		lines = append(lines, fmt.Sprintf("Run %s finished in %s", result.RunID, result.Finished.Sub(result.Started).Round(time.Millisecond)))
	}
	return strings.Join(lines, "\n")
}
